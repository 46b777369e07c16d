package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"issue-workflow-api/internal/database"
	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/metrics"
	"issue-workflow-api/internal/repository"
)

// world wires every service to one in-memory database
type world struct {
	db       *gorm.DB
	cache    *repository.GraphCache
	metrics  *metrics.Metrics
	registry *prometheus.Registry

	projects    ProjectService
	templates   TemplateService
	states      StateService
	fields      FieldService
	listItems   ListItemService
	groups      GroupService
	permissions PermissionService
	issues      IssueService
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))

	logger := zap.NewNop()
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, logger)

	projectRepo := repository.NewProjectRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	stateRepo := repository.NewStateRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	listItemRepo := repository.NewListItemRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	cache := repository.NewGraphCache(repository.NewSnapshotRepository(db), nil, time.Minute, m, logger)

	return &world{
		db:          db,
		cache:       cache,
		metrics:     m,
		registry:    registry,
		projects:    NewProjectService(projectRepo, templateRepo, logger),
		templates:   NewTemplateService(templateRepo, projectRepo, stateRepo, issueRepo, cache, logger),
		states:      NewStateService(stateRepo, templateRepo, groupRepo, permissionRepo, cache, logger),
		fields:      NewFieldService(fieldRepo, stateRepo, templateRepo, listItemRepo, cache, logger),
		listItems:   NewListItemService(listItemRepo, fieldRepo, stateRepo, templateRepo, cache, logger),
		groups:      NewGroupService(groupRepo, projectRepo, cache, logger),
		permissions: NewPermissionService(permissionRepo, templateRepo, stateRepo, fieldRepo, groupRepo, cache, logger),
		issues:      NewIssueService(issueRepo, groupRepo, cache, m, logger),
	}
}

// template creates a project and an empty template in it
func (w *world) template(t *testing.T) *dto.TemplateResponse {
	t.Helper()
	ctx := context.Background()
	project, err := w.projects.CreateProject(ctx, &dto.CreateProjectRequest{Name: "Tracker " + uuid.NewString()[:8]})
	require.NoError(t, err)
	tpl, err := w.templates.CreateTemplate(ctx, &dto.CreateTemplateRequest{ProjectID: project.ID, Name: "Bugs", Prefix: "BUG"})
	require.NoError(t, err)
	return tpl
}

func (w *world) state(t *testing.T, templateID uuid.UUID, name, stateType, responsible string) *dto.StateResponse {
	t.Helper()
	state, err := w.states.CreateState(context.Background(), &dto.CreateStateRequest{
		TemplateID:  templateID,
		Name:        name,
		Type:        stateType,
		Responsible: responsible,
	})
	require.NoError(t, err)
	return state
}

func (w *world) transition(t *testing.T, from, to uuid.UUID, roles ...string) {
	t.Helper()
	_, err := w.states.SetTransition(context.Background(), from, to, &dto.SetTransitionRequest{Roles: roles})
	require.NoError(t, err)
}

func (w *world) grant(t *testing.T, templateID uuid.UUID, permission string, roles ...string) {
	t.Helper()
	_, err := w.permissions.SetTemplateRolePermission(context.Background(), templateID, &dto.SetRolePermissionRequest{Permission: permission, Roles: roles})
	require.NoError(t, err)
}

func (w *world) fieldGrant(t *testing.T, fieldID uuid.UUID, permission string, roles ...string) {
	t.Helper()
	_, err := w.permissions.SetFieldRolePermission(context.Background(), fieldID, &dto.SetRolePermissionRequest{Permission: permission, Roles: roles})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }
