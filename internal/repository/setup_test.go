package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"issue-workflow-api/internal/database"
	"issue-workflow-api/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	require.NoError(t, err)

	// every pooled connection to :memory: would be a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
	return db
}

type seed struct {
	db       *gorm.DB
	project  *domain.Project
	template *domain.Template
	open     *domain.State
	closed   *domain.State
}

// seedWorkflow creates a project with template "Bugs": Open (initial) -> Closed (final)
func seedWorkflow(t *testing.T, db *gorm.DB) *seed {
	t.Helper()
	ctx := context.Background()

	project := &domain.Project{Name: "Tracker"}
	require.NoError(t, NewProjectRepository(db).Create(ctx, project))

	template := &domain.Template{ProjectID: project.ID, Name: "Bugs", Prefix: "BUG"}
	require.NoError(t, NewTemplateRepository(db).Create(ctx, template))

	states := NewStateRepository(db)
	closed := &domain.State{TemplateID: template.ID, Name: "Closed", Type: domain.StateTypeFinal, Responsible: domain.ResponsibleRemove}
	require.NoError(t, states.Create(ctx, closed))
	open := &domain.State{TemplateID: template.ID, Name: "Open", Type: domain.StateTypeInitial, Responsible: domain.ResponsibleKeep, NextStateID: &closed.ID}
	require.NoError(t, states.Create(ctx, open))

	return &seed{db: db, project: project, template: template, open: open, closed: closed}
}

func (s *seed) field(t *testing.T, state *domain.State, name string, ft domain.FieldType, params string) *domain.Field {
	t.Helper()
	f := &domain.Field{StateID: state.ID, Name: name, Type: ft}
	if params != "" {
		f.Parameters = datatypes.JSON(params)
	}
	require.NoError(t, NewFieldRepository(s.db).Create(context.Background(), f))
	return f
}

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}
