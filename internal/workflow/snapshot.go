package workflow

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/fieldtype"
)

// Snapshot is everything stored about one template that the executor needs.
// It is plain data so that it can be cached between requests.
type Snapshot struct {
	Template          domain.Template                  `json:"template"`
	States            []domain.State                   `json:"states"`
	Fields            []domain.Field                   `json:"fields"`
	ListItems         []domain.ListItem                `json:"list_items"`
	ResponsibleGroups []domain.StateResponsibleGroup   `json:"responsible_groups"`
	GroupMembers      []domain.GroupMember             `json:"group_members"`
	TemplateRoles     []domain.TemplateRolePermission  `json:"template_roles"`
	TemplateGroups    []domain.TemplateGroupPermission `json:"template_groups"`
	FieldRoles        []domain.FieldRolePermission     `json:"field_roles"`
	FieldGroups       []domain.FieldGroupPermission    `json:"field_groups"`
	TransitionRoles   []domain.TransitionRole          `json:"transition_roles"`
	TransitionGroups  []domain.TransitionGroup         `json:"transition_groups"`
}

// Model is a compiled snapshot
type Model struct {
	Template *domain.Template
	Graph    *Graph
	Matrix   *Matrix

	fields     map[uuid.UUID]fieldtype.Definition
	stateOrder map[uuid.UUID][]uuid.UUID
	listItems  map[uuid.UUID][]domain.ListItem
	members    map[uuid.UUID]map[uuid.UUID]struct{}
}

// Compile builds the graph, the permission matrix and the field definitions of a snapshot
func Compile(s *Snapshot) (*Model, error) {
	tpl := s.Template
	graph, err := NewGraph(tpl.ID, s.States, s.ResponsibleGroups)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Template:   &tpl,
		Graph:      graph,
		Matrix:     NewMatrix(),
		fields:     make(map[uuid.UUID]fieldtype.Definition, len(s.Fields)),
		stateOrder: make(map[uuid.UUID][]uuid.UUID),
		listItems:  make(map[uuid.UUID][]domain.ListItem),
		members:    make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}

	fields := make([]domain.Field, len(s.Fields))
	copy(fields, s.Fields)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Position < fields[j].Position })
	for i := range fields {
		f := &fields[i]
		if _, ok := graph.State(f.StateID); !ok {
			return nil, newError(CodeInvalidGraph, "field %q belongs to a foreign state", f.Name)
		}
		def, err := fieldtype.FromField(f)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.ID, err)
		}
		m.fields[f.ID] = def
		if !def.Removed {
			m.stateOrder[f.StateID] = append(m.stateOrder[f.StateID], f.ID)
		}
	}

	for _, item := range s.ListItems {
		m.listItems[item.FieldID] = append(m.listItems[item.FieldID], item)
	}
	for _, gm := range s.GroupMembers {
		if m.members[gm.GroupID] == nil {
			m.members[gm.GroupID] = make(map[uuid.UUID]struct{})
		}
		m.members[gm.GroupID][gm.UserID] = struct{}{}
	}

	for _, g := range s.TemplateRoles {
		m.Matrix.addRole(TemplateSubject(g.TemplateID), Permission(g.Permission), g.Role)
	}
	for _, g := range s.TemplateGroups {
		m.Matrix.addGroup(TemplateSubject(g.TemplateID), Permission(g.Permission), g.GroupID)
	}
	for _, g := range s.FieldRoles {
		m.Matrix.addRole(FieldSubject(g.FieldID), Permission(g.Permission), g.Role)
	}
	for _, g := range s.FieldGroups {
		m.Matrix.addGroup(FieldSubject(g.FieldID), Permission(g.Permission), g.GroupID)
	}
	for _, g := range s.TransitionRoles {
		m.Matrix.addRole(TransitionSubject(g.FromStateID, g.ToStateID), PermissionTransit, g.Role)
	}
	for _, g := range s.TransitionGroups {
		m.Matrix.addGroup(TransitionSubject(g.FromStateID, g.ToStateID), PermissionTransit, g.GroupID)
	}
	return m, nil
}

// Field returns the definition of a field, removed fields included
func (m *Model) Field(id uuid.UUID) (fieldtype.Definition, bool) {
	def, ok := m.fields[id]
	return def, ok
}

// StateFields returns the live fields of a state ordered by position
func (m *Model) StateFields(stateID uuid.UUID) []fieldtype.Definition {
	ids := m.stateOrder[stateID]
	out := make([]fieldtype.Definition, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.fields[id])
	}
	return out
}

// ListItems returns the items of a list field
func (m *Model) ListItems(fieldID uuid.UUID) []domain.ListItem {
	return m.listItems[fieldID]
}

// IssueReferences returns the issue ids submitted for issue-typed fields,
// so the caller can resolve which of them exist before Apply
func (m *Model) IssueReferences(values map[uuid.UUID]any) []uuid.UUID {
	var out []uuid.UUID
	for fieldID, raw := range values {
		def, ok := m.fields[fieldID]
		if !ok || def.Type != domain.FieldTypeIssue {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			continue
		}
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
