// Package workflow is the permission-gated state machine of issue templates.
// It works on data loaded by the caller and performs no I/O.
package workflow

import (
	"time"

	"github.com/google/uuid"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/fieldtype"
)

// Request is one edit, state change or creation of an issue
type Request struct {
	// Issue is nil when the issue is being created; it then enters the initial state
	Issue *domain.Issue
	// TargetState is nil for a plain edit
	TargetState *uuid.UUID
	Principal   Principal
	// Values maps field ids to raw submitted values
	Values map[uuid.UUID]any
	// Responsible is the person proposed for states with the assign policy
	Responsible *uuid.UUID
	// Now is the request clock; its date is "today" for date fields
	Now time.Time
	// ExistingIssues are the referenced issues known to exist
	ExistingIssues map[uuid.UUID]struct{}
}

// Outcome is the validated result of Apply, ready to be persisted atomically
type Outcome struct {
	StateID       uuid.UUID
	Transitioned  bool
	Closed        bool
	ResponsibleID *uuid.UUID
	// Values maps field ids to canonical stored text; nil clears a value
	Values map[uuid.UUID]*string
}

// Apply runs authorization, value validation and the responsible policy
// for one request. Authorization failures return before any value is
// looked at. Value failures are collected for every field and returned
// together as a *ValidationError.
func (m *Model) Apply(req Request) (*Outcome, error) {
	principal := req.Principal.ForIssue(req.Issue)

	target, transitioned, err := m.authorize(req, principal)
	if err != nil {
		return nil, err
	}

	defs := make(map[uuid.UUID]fieldtype.Definition, len(req.Values))
	fieldErrs := make(map[uuid.UUID]*fieldtype.FieldError)
	for fieldID := range req.Values {
		def, ok := m.fields[fieldID]
		if !ok || def.Removed || def.StateID != target.ID {
			fieldErrs[fieldID] = fieldtype.NotFoundError("unknown field")
			continue
		}
		if !m.Matrix.IsGranted(principal, PermissionWrite, FieldSubject(fieldID)) {
			return nil, newError(CodeForbidden, "field %q is not writable", def.Name)
		}
		defs[fieldID] = def
	}

	env := fieldtype.Env{Today: req.Now, Issues: req.ExistingIssues}
	values := make(map[uuid.UUID]*string, len(defs))
	for fieldID, def := range defs {
		env.ListItems = m.listItems[fieldID]
		v, err := fieldtype.ValidateValue(def, req.Values[fieldID], env)
		if err != nil {
			fieldErrs[fieldID] = asFieldError(err)
			continue
		}
		values[fieldID] = fieldtype.Format(def.Type, v)
	}

	if transitioned {
		for _, def := range m.StateFields(target.ID) {
			if _, submitted := req.Values[def.ID]; submitted {
				continue
			}
			v := m.defaultValue(def, req.Now)
			if v == nil && def.Required {
				fieldErrs[def.ID] = fieldtype.RequiredError()
				continue
			}
			values[def.ID] = fieldtype.Format(def.Type, v)
		}
	}

	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	out := &Outcome{
		StateID:      target.ID,
		Transitioned: transitioned,
		Closed:       target.Type == domain.StateTypeFinal,
		Values:       values,
	}
	var current *uuid.UUID
	if req.Issue != nil {
		current = req.Issue.ResponsibleID
	}
	if transitioned {
		out.ResponsibleID, err = m.Graph.Responsible(target, current, req.Responsible, m.members)
		if err != nil {
			return nil, err
		}
	} else {
		out.ResponsibleID = current
	}
	return out, nil
}

// authorize returns the state whose fields the request writes and whether
// the issue enters it
func (m *Model) authorize(req Request, principal Principal) (*domain.State, bool, error) {
	tpl := TemplateSubject(m.Template.ID)

	if req.Issue == nil {
		if !m.Matrix.IsGranted(principal, PermissionCreateIssues, tpl) {
			return nil, false, newError(CodeForbidden, "creating issues is not granted")
		}
		initial := m.Graph.Initial()
		if initial == nil {
			return nil, false, newError(CodeInvalidGraph, "template has no initial state")
		}
		return initial, true, nil
	}

	if req.TargetState != nil {
		if err := m.Graph.CanTransition(m.Matrix, principal, req.Issue.StateID, *req.TargetState); err != nil {
			return nil, false, err
		}
		target, _ := m.Graph.State(*req.TargetState)
		return target, true, nil
	}

	if !m.Matrix.IsGranted(principal, PermissionEditIssues, tpl) {
		return nil, false, newError(CodeForbidden, "editing issues is not granted")
	}
	if m.frozen(req.Issue, req.Now) {
		return nil, false, newError(CodeForbidden, "issue is frozen")
	}
	current, ok := m.Graph.State(req.Issue.StateID)
	if !ok {
		return nil, false, newError(CodeUnknownTransition, "current state is not in the template")
	}
	return current, false, nil
}

// frozen reports whether a closed issue is past the template's frozen time
func (m *Model) frozen(issue *domain.Issue, now time.Time) bool {
	if issue.ClosedAt == nil || m.Template.FrozenTime == nil {
		return false
	}
	limit := issue.ClosedAt.AddDate(0, 0, *m.Template.FrozenTime)
	return now.After(limit)
}

// defaultValue drops list defaults whose item no longer exists
func (m *Model) defaultValue(def fieldtype.Definition, now time.Time) any {
	v := fieldtype.DefaultValue(def, now)
	if id, ok := v.(uuid.UUID); ok && def.Type == domain.FieldTypeList {
		for _, item := range m.listItems[def.ID] {
			if item.ID == id {
				return id
			}
		}
		return nil
	}
	return v
}

func asFieldError(err error) *fieldtype.FieldError {
	if fe, ok := err.(*fieldtype.FieldError); ok {
		return fe
	}
	return &fieldtype.FieldError{Code: fieldtype.CodeInvalidFormat, Message: err.Error()}
}
