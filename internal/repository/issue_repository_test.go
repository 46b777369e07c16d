package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestIssueRepository(t *testing.T) {
	ctx := context.Background()
	s := seedWorkflow(t, setupTestDB(t))
	repo := NewIssueRepository(s.db)
	templates := NewTemplateRepository(s.db)
	priority := s.field(t, s.open, "Priority", domain.FieldTypeNumber, "")
	note := s.field(t, s.open, "Note", domain.FieldTypeString, "")
	author := uuid.New()

	issue := &domain.Issue{TemplateID: s.template.ID, StateID: s.open.ID, AuthorID: author, Subject: "Crash on save"}

	t.Run("성공: 생성하면 값 저장과 템플릿 잠금", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, issue, map[uuid.UUID]*string{priority.ID: strPtr("3"), note.ID: nil}))

		got, err := repo.FindByID(ctx, issue.ID)
		require.NoError(t, err)
		require.Len(t, got.Values, 2)

		tpl, err := templates.FindByID(ctx, s.template.ID)
		require.NoError(t, err)
		assert.True(t, tpl.Locked)
	})

	t.Run("성공: 수정은 값 upsert", func(t *testing.T) {
		issue.StateID = s.closed.ID
		issue.ResponsibleID = &author
		require.NoError(t, repo.Update(ctx, issue, map[uuid.UUID]*string{priority.ID: strPtr("5")}))

		got, err := repo.FindByID(ctx, issue.ID)
		require.NoError(t, err)
		assert.Equal(t, s.closed.ID, got.StateID)
		require.NotNil(t, got.ResponsibleID)
		values := map[uuid.UUID]*string{}
		for _, v := range got.Values {
			values[v.FieldID] = v.Value
		}
		assert.Equal(t, "5", *values[priority.ID])
		assert.Nil(t, values[note.ID])
		assert.Len(t, issue.Values, 2)
	})

	t.Run("성공: 존재하는 이슈 ID", func(t *testing.T) {
		missing := uuid.New()
		found, err := repo.FindExistingIDs(ctx, []uuid.UUID{issue.ID, missing})
		require.NoError(t, err)
		assert.Contains(t, found, issue.ID)
		assert.NotContains(t, found, missing)
	})

	t.Run("성공: 페이지 조회와 개수", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			require.NoError(t, repo.Create(ctx, &domain.Issue{TemplateID: s.template.ID, StateID: s.open.ID, AuthorID: author, Subject: "more"}, nil))
		}
		page, total, err := repo.FindByTemplate(ctx, s.template.ID, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, page, 2)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})

	t.Run("실패: 없는 이슈", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestTemplateRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("성공: 이슈 있는 템플릿 잠금 동기화와 카운트", func(t *testing.T) {
		s := seedWorkflow(t, setupTestDB(t))
		repo := NewTemplateRepository(s.db)
		other := &domain.Template{ProjectID: s.project.ID, Name: "Tasks", Prefix: "TSK"}
		require.NoError(t, repo.Create(ctx, other))

		// an issue row written behind the repository's back
		require.NoError(t, s.db.Create(&domain.Issue{TemplateID: s.template.ID, StateID: s.open.ID, AuthorID: uuid.New(), Subject: "x"}).Error)

		changed, err := repo.LockTemplatesWithIssues(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), changed)

		total, locked, err := repo.Counts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, int64(1), locked)

		changed, err = repo.LockTemplatesWithIssues(ctx)
		require.NoError(t, err)
		assert.Zero(t, changed)
	})

	t.Run("실패: 같은 프로젝트에 같은 접두어", func(t *testing.T) {
		s := seedWorkflow(t, setupTestDB(t))
		err := NewTemplateRepository(s.db).Create(ctx, &domain.Template{ProjectID: s.project.ID, Name: "Other", Prefix: "BUG"})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("성공: 템플릿 삭제는 워크플로우 전체 삭제", func(t *testing.T) {
		s := seedWorkflow(t, setupTestDB(t))
		repo := NewTemplateRepository(s.db)
		s.field(t, s.open, "Note", domain.FieldTypeString, "")
		require.NoError(t, NewPermissionRepository(s.db).SetTemplateRoles(ctx, s.template.ID, domain.TemplatePermissionCreateIssues, []domain.Role{domain.RoleAnyone}))

		require.NoError(t, repo.Delete(ctx, s.template.ID))

		for _, model := range []interface{}{&domain.State{}, &domain.Field{}, &domain.TemplateRolePermission{}, &domain.Template{}} {
			var n int64
			require.NoError(t, s.db.Model(model).Count(&n).Error)
			assert.Zero(t, n, "%T", model)
		}
		assert.ErrorIs(t, repo.SetLocked(ctx, s.template.ID, true), gorm.ErrRecordNotFound)
	})
}
