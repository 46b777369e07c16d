package repository

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-workflow-api/internal/domain"
)

func TestGroupRepository(t *testing.T) {
	ctx := context.Background()
	s := seedWorkflow(t, setupTestDB(t))
	repo := NewGroupRepository(s.db)

	global := &domain.Group{Name: "Managers"}
	local := &domain.Group{Name: "Developers", ProjectID: &s.project.ID}
	foreign := &domain.Group{Name: "Elsewhere", ProjectID: func() *uuid.UUID { id := uuid.New(); return &id }()}
	for _, g := range []*domain.Group{global, local, foreign} {
		require.NoError(t, repo.Create(ctx, g))
	}
	user := uuid.New()

	t.Run("성공: 전역과 프로젝트 그룹만 보임", func(t *testing.T) {
		groups, err := repo.FindVisible(ctx, &s.project.ID)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "Developers", groups[0].Name)

		groups, err = repo.FindVisible(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, groups, 1)
	})

	t.Run("성공: 멤버 추가는 멱등", func(t *testing.T) {
		require.NoError(t, repo.AddMembers(ctx, global.ID, []uuid.UUID{user}))
		require.NoError(t, repo.AddMembers(ctx, global.ID, []uuid.UUID{user, user}))
		require.NoError(t, repo.AddMembers(ctx, local.ID, []uuid.UUID{user}))

		members, err := repo.FindMembers(ctx, global.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{user}, members)

		groupIDs, err := repo.FindGroupIDsByUser(ctx, user)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{global.ID, local.ID}, groupIDs)

		g, err := repo.FindByID(ctx, global.ID)
		require.NoError(t, err)
		assert.Len(t, g.Members, 1)
	})

	t.Run("성공: 그룹 삭제는 권한도 삭제", func(t *testing.T) {
		perms := NewPermissionRepository(s.db)
		require.NoError(t, perms.SetTemplateGroups(ctx, s.template.ID, domain.TemplatePermissionEditIssues, []uuid.UUID{local.ID}))
		require.NoError(t, perms.SetTransitionGroups(ctx, s.open.ID, s.closed.ID, []uuid.UUID{local.ID}))

		require.NoError(t, repo.Delete(ctx, local.ID))

		groupIDs, err := repo.FindGroupIDsByUser(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{global.ID}, groupIDs)
		var n int64
		s.db.Model(&domain.TransitionGroup{}).Count(&n)
		assert.Zero(t, n)
	})

	t.Run("성공: 멤버 제거", func(t *testing.T) {
		require.NoError(t, repo.RemoveMembers(ctx, global.ID, []uuid.UUID{user}))
		members, err := repo.FindMembers(ctx, global.ID)
		require.NoError(t, err)
		assert.Empty(t, members)
	})
}

func TestPermissionRepository_Replace(t *testing.T) {
	ctx := context.Background()
	s := seedWorkflow(t, setupTestDB(t))
	repo := NewPermissionRepository(s.db)
	f := s.field(t, s.open, "Note", domain.FieldTypeString, "")

	fieldRoles := func() map[domain.Role]domain.FieldPermission {
		var rows []domain.FieldRolePermission
		require.NoError(t, s.db.Where("field_id = ?", f.ID).Find(&rows).Error)
		out := map[domain.Role]domain.FieldPermission{}
		for _, r := range rows {
			out[r.Role] = r.Permission
		}
		return out
	}

	t.Run("성공: 템플릿 권한은 교체", func(t *testing.T) {
		require.NoError(t, repo.SetTemplateRoles(ctx, s.template.ID, domain.TemplatePermissionViewIssues, []domain.Role{"manager", "dev"}))
		require.NoError(t, repo.SetTemplateRoles(ctx, s.template.ID, domain.TemplatePermissionEditIssues, []domain.Role{"manager"}))
		require.NoError(t, repo.SetTemplateRoles(ctx, s.template.ID, domain.TemplatePermissionViewIssues, []domain.Role{"qa"}))

		var rows []domain.TemplateRolePermission
		require.NoError(t, s.db.Where("template_id = ?", s.template.ID).Find(&rows).Error)
		got := make([]string, 0, len(rows))
		for _, r := range rows {
			got = append(got, string(r.Permission)+":"+string(r.Role))
		}
		sort.Strings(got)
		assert.Equal(t, []string{"edit_issues:manager", "view_issues:qa"}, got)
	})

	t.Run("성공: 필드 권한은 역할당 하나", func(t *testing.T) {
		require.NoError(t, repo.SetFieldRoles(ctx, f.ID, domain.FieldPermissionRead, []domain.Role{"dev", "qa"}))
		require.NoError(t, repo.SetFieldRoles(ctx, f.ID, domain.FieldPermissionWrite, []domain.Role{"dev"}))
		assert.Equal(t, map[domain.Role]domain.FieldPermission{"dev": "write", "qa": "read"}, fieldRoles())

		require.NoError(t, repo.SetFieldRoles(ctx, f.ID, domain.FieldPermissionWrite, nil))
		assert.Equal(t, map[domain.Role]domain.FieldPermission{"qa": "read"}, fieldRoles())
	})

	t.Run("성공: 필드 그룹 권한", func(t *testing.T) {
		g := ids(2)
		require.NoError(t, repo.SetFieldGroups(ctx, f.ID, domain.FieldPermissionWrite, g))
		require.NoError(t, repo.SetFieldGroups(ctx, f.ID, domain.FieldPermissionRead, g[:1]))

		var rows []domain.FieldGroupPermission
		require.NoError(t, s.db.Where("field_id = ?", f.ID).Find(&rows).Error)
		require.Len(t, rows, 2)
		for _, r := range rows {
			if r.GroupID == g[0] {
				assert.Equal(t, domain.FieldPermissionRead, r.Permission)
			} else {
				assert.Equal(t, domain.FieldPermissionWrite, r.Permission)
			}
		}
	})

	t.Run("성공: 전이 권한 비우면 전이 없음", func(t *testing.T) {
		require.NoError(t, repo.SetTransitionRoles(ctx, s.open.ID, s.closed.ID, []domain.Role{"manager"}))
		require.NoError(t, repo.SetTransitionRoles(ctx, s.open.ID, s.closed.ID, nil))

		var n int64
		s.db.Model(&domain.TransitionRole{}).Count(&n)
		assert.Zero(t, n)
	})

	t.Run("성공: 전이 역할과 그룹 함께 교체", func(t *testing.T) {
		g := ids(1)
		require.NoError(t, repo.SetTransition(ctx, s.open.ID, s.closed.ID, []domain.Role{"author", "author"}, g))

		var roles []domain.TransitionRole
		require.NoError(t, s.db.Find(&roles).Error)
		require.Len(t, roles, 1)
		assert.Equal(t, domain.RoleAuthor, roles[0].Role)

		require.NoError(t, repo.SetTransition(ctx, s.open.ID, s.closed.ID, nil, nil))
		var n int64
		s.db.Model(&domain.TransitionGroup{}).Count(&n)
		assert.Zero(t, n)
	})
}
