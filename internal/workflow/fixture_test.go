package workflow

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"issue-workflow-api/internal/domain"
)

var testNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

const roleManager domain.Role = "manager"

// fixture is the "New -> Closed" template used across the executor tests
type fixture struct {
	snapshot *Snapshot
	template domain.Template
	newState domain.State
	closed   domain.State
	priority domain.Field
	note     domain.Field
	manager  Principal
	assignee uuid.UUID
	group    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{assignee: uuid.New(), group: uuid.New()}

	f.template = domain.Template{BaseModel: domain.BaseModel{ID: uuid.New()}, ProjectID: uuid.New(), Name: "Bugs", Prefix: "BUG"}
	f.newState = domain.State{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		TemplateID:  f.template.ID,
		Name:        "New",
		Type:        domain.StateTypeInitial,
		Responsible: domain.ResponsibleAssign,
	}
	f.closed = domain.State{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		TemplateID:  f.template.ID,
		Name:        "Closed",
		Type:        domain.StateTypeFinal,
		Responsible: domain.ResponsibleRemove,
	}
	f.priority = field(t, f.closed.ID, domain.FieldTypeNumber, "Priority", 1, true,
		map[string]any{"minimum": 1, "maximum": 5, "default": 3})
	f.note = field(t, f.closed.ID, domain.FieldTypeString, "Note", 2, false,
		map[string]any{"maxlength": 5})

	f.manager = Principal{UserID: uuid.New(), Roles: []domain.Role{roleManager}}

	f.snapshot = &Snapshot{
		Template: f.template,
		States:   []domain.State{f.newState, f.closed},
		Fields:   []domain.Field{f.priority, f.note},
		TemplateRoles: []domain.TemplateRolePermission{
			{TemplateID: f.template.ID, Role: domain.RoleAnyone, Permission: domain.TemplatePermissionCreateIssues},
			{TemplateID: f.template.ID, Role: roleManager, Permission: domain.TemplatePermissionEditIssues},
		},
		FieldRoles: []domain.FieldRolePermission{
			{FieldID: f.priority.ID, Role: roleManager, Permission: domain.FieldPermissionWrite},
			{FieldID: f.note.ID, Role: roleManager, Permission: domain.FieldPermissionWrite},
		},
		TransitionRoles: []domain.TransitionRole{
			{FromStateID: f.newState.ID, ToStateID: f.closed.ID, Role: roleManager},
		},
	}
	return f
}

func field(t *testing.T, stateID uuid.UUID, ft domain.FieldType, name string, position int, required bool, params map[string]any) domain.Field {
	t.Helper()
	data, err := json.Marshal(params)
	require.NoError(t, err)
	return domain.Field{
		BaseModel:  domain.BaseModel{ID: uuid.New()},
		StateID:    stateID,
		Type:       ft,
		Name:       name,
		Required:   required,
		Position:   position,
		Parameters: data,
	}
}

func (f *fixture) model(t *testing.T) *Model {
	t.Helper()
	m, err := Compile(f.snapshot)
	require.NoError(t, err)
	return m
}

func (f *fixture) openIssue() *domain.Issue {
	responsible := f.assignee
	return &domain.Issue{
		BaseModel:     domain.BaseModel{ID: uuid.New()},
		TemplateID:    f.template.ID,
		StateID:       f.newState.ID,
		AuthorID:      uuid.New(),
		ResponsibleID: &responsible,
		Subject:       "Crash on save",
	}
}
