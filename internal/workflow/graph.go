package workflow

import (
	"github.com/google/uuid"

	"issue-workflow-api/internal/domain"
)

// Graph is the state machine of one template
type Graph struct {
	templateID uuid.UUID
	states     map[uuid.UUID]*domain.State
	order      []uuid.UUID
	initial    *domain.State
	candidates map[uuid.UUID][]uuid.UUID
}

// NewGraph checks the structural rules of a template's states: exactly one
// initial state, no default next pointer out of a final state and every
// next pointer staying inside the template.
func NewGraph(templateID uuid.UUID, states []domain.State, responsibleGroups []domain.StateResponsibleGroup) (*Graph, error) {
	g := &Graph{
		templateID: templateID,
		states:     make(map[uuid.UUID]*domain.State, len(states)),
		order:      make([]uuid.UUID, 0, len(states)),
		candidates: make(map[uuid.UUID][]uuid.UUID),
	}

	for i := range states {
		s := &states[i]
		if s.TemplateID != templateID {
			return nil, newError(CodeInvalidGraph, "state %s belongs to another template", s.ID)
		}
		if s.Type == domain.StateTypeInitial {
			if g.initial != nil {
				return nil, newError(CodeInvalidGraph, "template has more than one initial state")
			}
			g.initial = s
		}
		g.states[s.ID] = s
		g.order = append(g.order, s.ID)
	}
	if len(states) > 0 && g.initial == nil {
		return nil, newError(CodeInvalidGraph, "template has no initial state")
	}

	for _, s := range g.states {
		if s.NextStateID == nil {
			continue
		}
		if s.Type == domain.StateTypeFinal {
			return nil, newError(CodeInvalidGraph, "final state %q has a next state", s.Name)
		}
		if _, ok := g.states[*s.NextStateID]; !ok {
			return nil, newError(CodeInvalidGraph, "next state of %q is not in the template", s.Name)
		}
	}

	for _, rg := range responsibleGroups {
		if _, ok := g.states[rg.StateID]; ok {
			g.candidates[rg.StateID] = append(g.candidates[rg.StateID], rg.GroupID)
		}
	}
	return g, nil
}

// State returns the state with the given id
func (g *Graph) State(id uuid.UUID) (*domain.State, bool) {
	s, ok := g.states[id]
	return s, ok
}

// Initial returns the initial state, or nil for a template without states
func (g *Graph) Initial() *domain.State {
	return g.initial
}

// States returns the states in load order
func (g *Graph) States() []*domain.State {
	out := make([]*domain.State, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.states[id])
	}
	return out
}

// ResponsibleGroups returns the candidate groups of a state
func (g *Graph) ResponsibleGroups(stateID uuid.UUID) []uuid.UUID {
	return g.candidates[stateID]
}

// CheckEdge reports whether from -> to may be declared as a transition
func (g *Graph) CheckEdge(from, to uuid.UUID) error {
	src, ok := g.states[from]
	if !ok {
		return newError(CodeUnknownTransition, "source state is not in the template")
	}
	if _, ok := g.states[to]; !ok {
		return newError(CodeUnknownTransition, "target state is not in the template")
	}
	if src.Type == domain.StateTypeFinal {
		return newError(CodeTerminalState, "final state %q has no outgoing transitions", src.Name)
	}
	return nil
}

// CanTransition reports whether p may move an issue from -> to. A pair is a
// transition only when grants declare it; self loops are no exception.
func (g *Graph) CanTransition(m *Matrix, p Principal, from, to uuid.UUID) error {
	src, ok := g.states[from]
	if !ok {
		return newError(CodeUnknownTransition, "current state is not in the template")
	}
	if src.Type == domain.StateTypeFinal {
		return newError(CodeTerminalState, "issue is in final state %q", src.Name)
	}
	if _, ok := g.states[to]; !ok {
		return newError(CodeUnknownTransition, "target state is not in the template")
	}

	subject := TransitionSubject(from, to)
	if !m.Declared(subject, PermissionTransit) {
		return newError(CodeUnknownTransition, "no transition from %q", src.Name)
	}
	if !m.IsGranted(p, PermissionTransit, subject) {
		return newError(CodeForbidden, "transition is not granted")
	}
	return nil
}

// Transitions returns the target states p may move an issue to from the given state
func (g *Graph) Transitions(m *Matrix, p Principal, from uuid.UUID) []*domain.State {
	var out []*domain.State
	for _, id := range g.order {
		if g.CanTransition(m, p, from, id) == nil {
			out = append(out, g.states[id])
		}
	}
	return out
}

// Responsible applies the responsible policy of the entered state.
// members maps group ids to their user ids.
func (g *Graph) Responsible(state *domain.State, current, requested *uuid.UUID, members map[uuid.UUID]map[uuid.UUID]struct{}) (*uuid.UUID, error) {
	switch state.Responsible {
	case domain.ResponsibleKeep:
		return current, nil
	case domain.ResponsibleRemove:
		return nil, nil
	case domain.ResponsibleAssign:
		if requested == nil || *requested == uuid.Nil {
			return nil, newError(CodeResponsibleRequired, "state %q requires a responsible person", state.Name)
		}
		groups := g.candidates[state.ID]
		if len(groups) == 0 {
			id := *requested
			return &id, nil
		}
		for _, group := range groups {
			if _, ok := members[group][*requested]; ok {
				id := *requested
				return &id, nil
			}
		}
		return nil, newError(CodeResponsibleRequired, "responsible person is not a member of the responsible groups of %q", state.Name)
	}
	return nil, newError(CodeInvalidGraph, "unknown responsible policy %q", state.Responsible)
}
