package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/response"
)

func TestPermissionService_TemplatePermissions(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	tpl := w.template(t)
	w.state(t, tpl.ID, "Open", "initial", "keep")
	group, err := w.groups.CreateGroup(ctx, &dto.CreateGroupRequest{Name: "Staff"})
	require.NoError(t, err)

	t.Run("성공: 역할 권한 교체", func(t *testing.T) {
		got, err := w.permissions.SetTemplateRolePermission(ctx, tpl.ID, &dto.SetRolePermissionRequest{
			Permission: "edit_issues",
			Roles:      []string{"responsible", "author", "author"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"author", "responsible"}, got.Roles)
		assert.Empty(t, got.GroupIDs)
	})

	t.Run("성공: 그룹 권한 교체", func(t *testing.T) {
		got, err := w.permissions.SetTemplateGroupPermission(ctx, tpl.ID, &dto.SetGroupPermissionRequest{
			Permission: "edit_issues",
			GroupIDs:   []uuid.UUID{group.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{group.ID}, got.GroupIDs)
		assert.Equal(t, []string{"author", "responsible"}, got.Roles)
	})

	t.Run("성공: 모든 템플릿 권한 조회", func(t *testing.T) {
		got, err := w.permissions.GetTemplatePermissions(ctx, tpl.ID)
		require.NoError(t, err)
		require.Len(t, got, len(domain.TemplatePermissions))
		for _, p := range got {
			if p.Permission == "edit_issues" {
				assert.Len(t, p.Roles, 2)
				continue
			}
			assert.Empty(t, p.Roles)
		}
	})

	t.Run("실패: 알 수 없는 권한", func(t *testing.T) {
		_, err := w.permissions.SetTemplateRolePermission(ctx, tpl.ID, &dto.SetRolePermissionRequest{Permission: "fly"})
		assertAppError(t, err, response.ErrCodeValidation)
	})

	t.Run("실패: 빈 역할 이름", func(t *testing.T) {
		_, err := w.permissions.SetTemplateRolePermission(ctx, tpl.ID, &dto.SetRolePermissionRequest{Permission: "view_issues", Roles: []string{""}})
		assertAppError(t, err, response.ErrCodeValidation)
	})

	t.Run("실패: 존재하지 않는 템플릿", func(t *testing.T) {
		_, err := w.permissions.SetTemplateRolePermission(ctx, uuid.New(), &dto.SetRolePermissionRequest{Permission: "view_issues"})
		assertAppError(t, err, response.ErrCodeNotFound)
	})
}

func TestPermissionService_FieldPermissions(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	tpl := w.template(t)
	open := w.state(t, tpl.ID, "Open", "initial", "keep")
	field, err := w.fields.CreateField(ctx, &dto.CreateFieldRequest{StateID: open.ID, Type: "text", Name: "Steps"})
	require.NoError(t, err)

	// grants may change on a locked template
	_, err = w.templates.LockTemplate(ctx, tpl.ID)
	require.NoError(t, err)

	w.fieldGrant(t, field.ID, "read", "anyone", "author")

	t.Run("성공: write 부여 시 같은 역할의 read 대체", func(t *testing.T) {
		got, err := w.permissions.SetFieldRolePermission(ctx, field.ID, &dto.SetRolePermissionRequest{Permission: "write", Roles: []string{"author"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"author"}, got.Roles)

		all, err := w.permissions.GetFieldPermissions(ctx, field.ID)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "read", all[0].Permission)
		assert.Equal(t, []string{"anyone"}, all[0].Roles)
		assert.Equal(t, "write", all[1].Permission)
	})

	t.Run("실패: 템플릿 권한을 필드에 부여", func(t *testing.T) {
		_, err := w.permissions.SetFieldRolePermission(ctx, field.ID, &dto.SetRolePermissionRequest{Permission: "edit_issues"})
		assertAppError(t, err, response.ErrCodeValidation)
	})

	t.Run("실패: 제거된 필드", func(t *testing.T) {
		require.NoError(t, w.fields.RemoveField(ctx, field.ID))
		_, err := w.permissions.GetFieldPermissions(ctx, field.ID)
		assertAppError(t, err, response.ErrCodeNotFound)
	})
}
