package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/workflow"
)

func TestSnapshotRepository_Load(t *testing.T) {
	ctx := context.Background()
	s := seedWorkflow(t, setupTestDB(t))
	loader := NewSnapshotRepository(s.db)

	priority := s.field(t, s.closed, "Priority", domain.FieldTypeNumber, `{"minimum":1,"maximum":5,"default":3}`)
	severity := s.field(t, s.open, "Severity", domain.FieldTypeList, `{}`)
	gone := s.field(t, s.open, "Legacy", domain.FieldTypeCheckbox, `{"default":false}`)
	require.NoError(t, NewFieldRepository(s.db).Remove(ctx, gone, time.Now()))
	require.NoError(t, NewListItemRepository(s.db).Create(ctx, &domain.ListItem{FieldID: severity.ID, Value: 1, Text: "Low"}))

	managers := &domain.Group{Name: "Managers"}
	groups := NewGroupRepository(s.db)
	require.NoError(t, groups.Create(ctx, managers))
	member := uuid.New()
	require.NoError(t, groups.AddMembers(ctx, managers.ID, []uuid.UUID{member}))
	require.NoError(t, NewStateRepository(s.db).ReplaceResponsibleGroups(ctx, s.closed.ID, []uuid.UUID{managers.ID}))

	perms := NewPermissionRepository(s.db)
	require.NoError(t, perms.SetTemplateRoles(ctx, s.template.ID, domain.TemplatePermissionCreateIssues, []domain.Role{domain.RoleAnyone}))
	require.NoError(t, perms.SetTemplateGroups(ctx, s.template.ID, domain.TemplatePermissionEditIssues, []uuid.UUID{managers.ID}))
	require.NoError(t, perms.SetFieldRoles(ctx, priority.ID, domain.FieldPermissionWrite, []domain.Role{"manager"}))
	require.NoError(t, perms.SetFieldGroups(ctx, severity.ID, domain.FieldPermissionRead, []uuid.UUID{managers.ID}))
	require.NoError(t, perms.SetTransitionRoles(ctx, s.open.ID, s.closed.ID, []domain.Role{"manager"}))
	require.NoError(t, perms.SetTransitionGroups(ctx, s.open.ID, s.closed.ID, []uuid.UUID{managers.ID}))

	t.Run("성공: 템플릿 전체 로드", func(t *testing.T) {
		snap, err := loader.Load(ctx, s.template.ID)
		require.NoError(t, err)

		assert.Equal(t, s.template.ID, snap.Template.ID)
		assert.Len(t, snap.States, 2)
		assert.Len(t, snap.Fields, 3, "removed fields are loaded so stale values can be rejected")
		assert.Len(t, snap.ListItems, 1)
		assert.Len(t, snap.ResponsibleGroups, 1)
		assert.Equal(t, []domain.GroupMember{{GroupID: managers.ID, UserID: member}}, snap.GroupMembers)
		assert.Len(t, snap.TemplateRoles, 1)
		assert.Len(t, snap.TemplateGroups, 1)
		assert.Len(t, snap.FieldRoles, 1)
		assert.Len(t, snap.FieldGroups, 1)
		assert.Len(t, snap.TransitionRoles, 1)
		assert.Len(t, snap.TransitionGroups, 1)
	})

	t.Run("성공: 컴파일된 모델로 전이 판단", func(t *testing.T) {
		snap, err := loader.Load(ctx, s.template.ID)
		require.NoError(t, err)
		model, err := workflow.Compile(snap)
		require.NoError(t, err)

		assert.Equal(t, s.open.ID, model.Graph.Initial().ID)
		assert.Len(t, model.StateFields(s.open.ID), 1)

		manager := workflow.Principal{UserID: uuid.New(), Roles: []domain.Role{"manager"}}
		assert.NoError(t, model.Graph.CanTransition(model.Matrix, manager, s.open.ID, s.closed.ID))

		viaGroup := workflow.Principal{UserID: member, Groups: []uuid.UUID{managers.ID}}
		assert.NoError(t, model.Graph.CanTransition(model.Matrix, viaGroup, s.open.ID, s.closed.ID))

		stranger := workflow.Principal{UserID: uuid.New()}
		assert.ErrorIs(t, model.Graph.CanTransition(model.Matrix, stranger, s.open.ID, s.closed.ID), workflow.ErrForbidden)
	})

	t.Run("성공: 상태 없는 템플릿", func(t *testing.T) {
		empty := &domain.Template{ProjectID: s.project.ID, Name: "Empty", Prefix: "EMP"}
		require.NoError(t, NewTemplateRepository(s.db).Create(ctx, empty))

		snap, err := loader.Load(ctx, empty.ID)
		require.NoError(t, err)
		assert.Empty(t, snap.States)
		assert.Empty(t, snap.Fields)
	})

	t.Run("실패: 없는 템플릿", func(t *testing.T) {
		_, err := loader.Load(ctx, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
