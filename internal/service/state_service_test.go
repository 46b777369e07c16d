package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/response"
)

func TestStateService_CreateState(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	tpl := w.template(t)

	t.Run("실패: 첫 상태는 initial이어야 함", func(t *testing.T) {
		_, err := w.states.CreateState(ctx, &dto.CreateStateRequest{TemplateID: tpl.ID, Name: "Open", Type: "normal", Responsible: "keep"})
		assertAppError(t, err, response.ErrCodeValidation)
	})

	open := w.state(t, tpl.ID, "Open", "initial", "keep")

	t.Run("실패: 같은 이름의 상태", func(t *testing.T) {
		_, err := w.states.CreateState(ctx, &dto.CreateStateRequest{TemplateID: tpl.ID, Name: "Open", Type: "normal", Responsible: "keep"})
		assertAppError(t, err, response.ErrCodeAlreadyExists)
	})

	t.Run("실패: final 상태의 next state", func(t *testing.T) {
		_, err := w.states.CreateState(ctx, &dto.CreateStateRequest{TemplateID: tpl.ID, Name: "Done", Type: "final", Responsible: "remove", NextStateID: &open.ID})
		assertAppError(t, err, response.ErrCodeValidation)
	})

	t.Run("성공: 새 initial 상태가 이전 initial 대체", func(t *testing.T) {
		triage := w.state(t, tpl.ID, "Triage", "initial", "assign")
		states, err := w.states.ListStates(ctx, tpl.ID)
		require.NoError(t, err)
		types := map[uuid.UUID]string{}
		for _, s := range states {
			types[s.ID] = s.Type
		}
		assert.Equal(t, "initial", types[triage.ID])
		assert.Equal(t, "normal", types[open.ID])
	})
}

func TestStateService_UpdateAndDelete(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	tpl := w.template(t)
	open := w.state(t, tpl.ID, "Open", "initial", "keep")
	closed := w.state(t, tpl.ID, "Closed", "final", "remove")

	t.Run("실패: initial 상태 직접 강등", func(t *testing.T) {
		_, err := w.states.UpdateState(ctx, open.ID, &dto.UpdateStateRequest{Type: strPtr("normal")})
		assertAppError(t, err, response.ErrCodeValidation)
	})

	t.Run("성공: next state 지정", func(t *testing.T) {
		got, err := w.states.UpdateState(ctx, open.ID, &dto.UpdateStateRequest{NextStateID: &closed.ID, Name: strPtr("Opened")})
		require.NoError(t, err)
		assert.Equal(t, "Opened", got.Name)
		require.NotNil(t, got.NextStateID)
		assert.Equal(t, closed.ID, *got.NextStateID)
	})

	t.Run("실패: 다른 상태가 있는 동안 initial 삭제", func(t *testing.T) {
		err := w.states.DeleteState(ctx, open.ID)
		assertAppError(t, err, response.ErrCodeValidation)
	})

	t.Run("성공: final 상태 삭제", func(t *testing.T) {
		require.NoError(t, w.states.DeleteState(ctx, closed.ID))
		_, err := w.states.GetState(ctx, closed.ID)
		assertAppError(t, err, response.ErrCodeNotFound)
	})
}

func TestStateService_Transitions(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	tpl := w.template(t)
	open := w.state(t, tpl.ID, "Open", "initial", "keep")
	closed := w.state(t, tpl.ID, "Closed", "final", "remove")

	t.Run("실패: 다른 템플릿의 상태로의 전이", func(t *testing.T) {
		foreign := w.template(t)
		target := w.state(t, foreign.ID, "Open", "initial", "keep")
		_, err := w.states.SetTransition(ctx, open.ID, target.ID, &dto.SetTransitionRequest{Roles: []string{"author"}})
		assertAppError(t, err, response.ErrCodeUnknownTransition)
	})

	t.Run("실패: final 상태에서의 전이", func(t *testing.T) {
		_, err := w.states.SetTransition(ctx, closed.ID, open.ID, &dto.SetTransitionRequest{Roles: []string{"author"}})
		assertAppError(t, err, response.ErrCodeTerminalState)
	})

	t.Run("성공: 전이 선언 및 조회", func(t *testing.T) {
		got, err := w.states.SetTransition(ctx, open.ID, closed.ID, &dto.SetTransitionRequest{Roles: []string{"author", "manager"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"author", "manager"}, got.Roles)
		assert.Empty(t, got.GroupIDs)

		list, err := w.states.ListTransitions(ctx, open.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Closed", list[0].ToStateName)
	})

	_, err := w.templates.LockTemplate(ctx, tpl.ID)
	require.NoError(t, err)

	t.Run("성공: 잠긴 템플릿에서 전이 권한 변경", func(t *testing.T) {
		got, err := w.states.SetTransition(ctx, open.ID, closed.ID, &dto.SetTransitionRequest{Roles: []string{"manager"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"manager"}, got.Roles)
	})

	t.Run("실패: 잠긴 템플릿에서 전이 제거", func(t *testing.T) {
		_, err := w.states.SetTransition(ctx, open.ID, closed.ID, &dto.SetTransitionRequest{})
		assertAppError(t, err, response.ErrCodeTemplateLocked)
	})

	t.Run("실패: 잠긴 템플릿에 상태 추가", func(t *testing.T) {
		_, err := w.states.CreateState(ctx, &dto.CreateStateRequest{TemplateID: tpl.ID, Name: "Review", Type: "normal", Responsible: "keep"})
		assertAppError(t, err, response.ErrCodeTemplateLocked)
	})
}

func TestStateService_SetResponsibleGroups(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	tpl := w.template(t)
	open := w.state(t, tpl.ID, "Open", "initial", "assign")

	local, err := w.groups.CreateGroup(ctx, &dto.CreateGroupRequest{ProjectID: &tpl.ProjectID, Name: "Devs"})
	require.NoError(t, err)
	other, err := w.projects.CreateProject(ctx, &dto.CreateProjectRequest{Name: "Other"})
	require.NoError(t, err)
	foreign, err := w.groups.CreateGroup(ctx, &dto.CreateGroupRequest{ProjectID: &other.ID, Name: "Ops"})
	require.NoError(t, err)

	t.Run("성공: 로컬 그룹 지정", func(t *testing.T) {
		got, err := w.states.SetResponsibleGroups(ctx, open.ID, &dto.SetResponsibleGroupsRequest{GroupIDs: []uuid.UUID{local.ID}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{local.ID}, got.ResponsibleGroups)
	})

	t.Run("실패: 다른 프로젝트의 그룹", func(t *testing.T) {
		_, err := w.states.SetResponsibleGroups(ctx, open.ID, &dto.SetResponsibleGroupsRequest{GroupIDs: []uuid.UUID{foreign.ID}})
		assertAppError(t, err, response.ErrCodeValidation)
	})

	t.Run("실패: 존재하지 않는 그룹", func(t *testing.T) {
		_, err := w.states.SetResponsibleGroups(ctx, open.ID, &dto.SetResponsibleGroupsRequest{GroupIDs: []uuid.UUID{uuid.New()}})
		assertAppError(t, err, response.ErrCodeNotFound)
	})
}
