package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/repository"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/workflow"
)

// StateService defines the interface for workflow state business logic
type StateService interface {
	CreateState(ctx context.Context, req *dto.CreateStateRequest) (*dto.StateResponse, error)
	GetState(ctx context.Context, stateID uuid.UUID) (*dto.StateResponse, error)
	ListStates(ctx context.Context, templateID uuid.UUID) ([]*dto.StateResponse, error)
	UpdateState(ctx context.Context, stateID uuid.UUID, req *dto.UpdateStateRequest) (*dto.StateResponse, error)
	DeleteState(ctx context.Context, stateID uuid.UUID) error
	SetResponsibleGroups(ctx context.Context, stateID uuid.UUID, req *dto.SetResponsibleGroupsRequest) (*dto.StateResponse, error)
	ListTransitions(ctx context.Context, stateID uuid.UUID) ([]*dto.TransitionResponse, error)
	SetTransition(ctx context.Context, fromID, toID uuid.UUID, req *dto.SetTransitionRequest) (*dto.TransitionResponse, error)
}

type stateServiceImpl struct {
	stateRepo      repository.StateRepository
	templateRepo   repository.TemplateRepository
	groupRepo      repository.GroupRepository
	permissionRepo repository.PermissionRepository
	cache          WorkflowCache
	logger         *zap.Logger
}

// NewStateService creates a new instance of StateService
func NewStateService(stateRepo repository.StateRepository, templateRepo repository.TemplateRepository, groupRepo repository.GroupRepository, permissionRepo repository.PermissionRepository, cache WorkflowCache, logger *zap.Logger) StateService {
	return &stateServiceImpl{
		stateRepo:      stateRepo,
		templateRepo:   templateRepo,
		groupRepo:      groupRepo,
		permissionRepo: permissionRepo,
		cache:          cache,
		logger:         logger,
	}
}

// CreateState adds a state to an unlocked template. A new initial state
// takes over from the previous one.
func (s *stateServiceImpl) CreateState(ctx context.Context, req *dto.CreateStateRequest) (*dto.StateResponse, error) {
	template, err := unlockedTemplate(ctx, s.templateRepo, req.TemplateID)
	if err != nil {
		return nil, err
	}

	state := &domain.State{
		TemplateID:  template.ID,
		Name:        req.Name,
		Type:        domain.StateType(req.Type),
		Responsible: domain.ResponsiblePolicy(req.Responsible),
		NextStateID: req.NextStateID,
	}
	if err := s.validateState(ctx, state); err != nil {
		return nil, err
	}
	if state.Type != domain.StateTypeInitial {
		existing, err := s.stateRepo.FindByTemplate(ctx, template.ID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch states", err.Error())
		}
		if len(existing) == 0 {
			return nil, response.NewValidationError("First state of a template must be initial", "")
		}
	}

	if err := s.stateRepo.Create(ctx, state); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "State with this name already exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create state", err.Error())
	}
	invalidate(ctx, s.cache, template.ID, s.logger)

	s.logger.Info("State created",
		zap.String("state_id", state.ID.String()),
		zap.String("template_id", template.ID.String()),
		zap.String("type", string(state.Type)))
	return toStateResponse(state, nil), nil
}

// GetState retrieves a state with its responsible groups
func (s *stateServiceImpl) GetState(ctx context.Context, stateID uuid.UUID) (*dto.StateResponse, error) {
	state, err := s.findState(ctx, stateID)
	if err != nil {
		return nil, err
	}
	groups, err := s.stateRepo.FindResponsibleGroups(ctx, stateID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch responsible groups", err.Error())
	}
	return toStateResponse(state, groups), nil
}

// ListStates retrieves the states of a template, initial state first
func (s *stateServiceImpl) ListStates(ctx context.Context, templateID uuid.UUID) ([]*dto.StateResponse, error) {
	if _, err := s.templateRepo.FindByID(ctx, templateID); err != nil {
		return nil, toAppError(err, "Template not found")
	}
	states, err := s.stateRepo.FindByTemplate(ctx, templateID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch states", err.Error())
	}

	responses := make([]*dto.StateResponse, 0, len(states))
	for _, state := range states {
		groups, err := s.stateRepo.FindResponsibleGroups(ctx, state.ID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch responsible groups", err.Error())
		}
		responses = append(responses, toStateResponse(state, groups))
	}
	return responses, nil
}

// UpdateState changes a state of an unlocked template. The initial state
// cannot be demoted directly; promote another state instead.
func (s *stateServiceImpl) UpdateState(ctx context.Context, stateID uuid.UUID, req *dto.UpdateStateRequest) (*dto.StateResponse, error) {
	state, err := s.findState(ctx, stateID)
	if err != nil {
		return nil, err
	}
	if _, err := unlockedTemplate(ctx, s.templateRepo, state.TemplateID); err != nil {
		return nil, err
	}

	if req.Type != nil {
		newType := domain.StateType(*req.Type)
		if state.Type == domain.StateTypeInitial && newType != domain.StateTypeInitial {
			return nil, response.NewValidationError("Template must keep an initial state", "promote another state to initial instead")
		}
		state.Type = newType
	}
	if req.Name != nil {
		state.Name = *req.Name
	}
	if req.Responsible != nil {
		state.Responsible = domain.ResponsiblePolicy(*req.Responsible)
	}
	if req.NextStateID != nil {
		state.NextStateID = req.NextStateID
	}
	if req.ClearNextState || state.Type == domain.StateTypeFinal {
		state.NextStateID = nil
	}
	if err := s.validateState(ctx, state); err != nil {
		return nil, err
	}

	if err := s.stateRepo.Update(ctx, state); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "State with this name already exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update state", err.Error())
	}
	invalidate(ctx, s.cache, state.TemplateID, s.logger)
	return s.GetState(ctx, stateID)
}

// DeleteState deletes a state with its fields and transitions. The initial
// state can only go when it is the last state of the template.
func (s *stateServiceImpl) DeleteState(ctx context.Context, stateID uuid.UUID) error {
	state, err := s.findState(ctx, stateID)
	if err != nil {
		return err
	}
	if _, err := unlockedTemplate(ctx, s.templateRepo, state.TemplateID); err != nil {
		return err
	}

	if state.Type == domain.StateTypeInitial {
		states, err := s.stateRepo.FindByTemplate(ctx, state.TemplateID)
		if err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to fetch states", err.Error())
		}
		if len(states) > 1 {
			return response.NewValidationError("Initial state cannot be deleted", "promote another state to initial first")
		}
	}

	if err := s.stateRepo.Delete(ctx, stateID); err != nil {
		return toAppError(err, "State not found")
	}
	invalidate(ctx, s.cache, state.TemplateID, s.logger)
	s.logger.Info("State deleted", zap.String("state_id", stateID.String()))
	return nil
}

// SetResponsibleGroups replaces the candidate pool of a state. Like grants
// it may change on a locked template.
func (s *stateServiceImpl) SetResponsibleGroups(ctx context.Context, stateID uuid.UUID, req *dto.SetResponsibleGroupsRequest) (*dto.StateResponse, error) {
	state, err := s.findState(ctx, stateID)
	if err != nil {
		return nil, err
	}
	template, err := s.templateRepo.FindByID(ctx, state.TemplateID)
	if err != nil {
		return nil, toAppError(err, "Template not found")
	}
	if err := checkGroups(ctx, s.groupRepo, template.ProjectID, req.GroupIDs); err != nil {
		return nil, err
	}

	if err := s.stateRepo.ReplaceResponsibleGroups(ctx, stateID, req.GroupIDs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to set responsible groups", err.Error())
	}
	invalidate(ctx, s.cache, state.TemplateID, s.logger)
	return s.GetState(ctx, stateID)
}

// ListTransitions returns every transition declared out of a state
func (s *stateServiceImpl) ListTransitions(ctx context.Context, stateID uuid.UUID) ([]*dto.TransitionResponse, error) {
	state, err := s.findState(ctx, stateID)
	if err != nil {
		return nil, err
	}
	model, err := s.cache.Model(ctx, state.TemplateID)
	if err != nil {
		return nil, toAppError(err, "Template not found")
	}

	var out []*dto.TransitionResponse
	for _, target := range model.Graph.States() {
		subject := workflow.TransitionSubject(stateID, target.ID)
		if !model.Matrix.Declared(subject, workflow.PermissionTransit) {
			continue
		}
		out = append(out, toTransitionResponse(model, stateID, target))
	}
	if out == nil {
		out = []*dto.TransitionResponse{}
	}
	return out, nil
}

// SetTransition replaces the roles and groups of the transition from -> to.
// Declaring or removing a transition changes the graph and needs an unlocked
// template; changing who may fire an existing one does not.
func (s *stateServiceImpl) SetTransition(ctx context.Context, fromID, toID uuid.UUID, req *dto.SetTransitionRequest) (*dto.TransitionResponse, error) {
	from, err := s.findState(ctx, fromID)
	if err != nil {
		return nil, err
	}
	model, err := s.cache.Model(ctx, from.TemplateID)
	if err != nil {
		return nil, toAppError(err, "Template not found")
	}
	if err := model.Graph.CheckEdge(fromID, toID); err != nil {
		return nil, toAppError(err, "State not found")
	}

	roles, err := parseRoles(req.Roles)
	if err != nil {
		return nil, err
	}
	if err := checkGroups(ctx, s.groupRepo, model.Template.ProjectID, req.GroupIDs); err != nil {
		return nil, err
	}

	subject := workflow.TransitionSubject(fromID, toID)
	declared := model.Matrix.Declared(subject, workflow.PermissionTransit)
	declares := len(roles)+len(req.GroupIDs) > 0
	if declared != declares {
		if err := workflow.RequireUnlocked(model.Template); err != nil {
			return nil, toAppError(err, "")
		}
	}

	if err := s.permissionRepo.SetTransition(ctx, fromID, toID, roles, req.GroupIDs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to set transition", err.Error())
	}
	invalidate(ctx, s.cache, from.TemplateID, s.logger)

	model, err = s.cache.Model(ctx, from.TemplateID)
	if err != nil {
		return nil, toAppError(err, "Template not found")
	}
	target, _ := model.Graph.State(toID)
	return toTransitionResponse(model, fromID, target), nil
}

// validateState checks the type, the responsible policy and the next state pointer
func (s *stateServiceImpl) validateState(ctx context.Context, state *domain.State) error {
	if !state.Type.IsValid() {
		return response.NewValidationError("Invalid state type", string(state.Type))
	}
	if !state.Responsible.IsValid() {
		return response.NewValidationError("Invalid responsible policy", string(state.Responsible))
	}
	if state.NextStateID == nil {
		return nil
	}
	if state.Type == domain.StateTypeFinal {
		return response.NewValidationError("Final state cannot have a next state", "")
	}
	next, err := s.stateRepo.FindByID(ctx, *state.NextStateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewValidationError("Next state not found", state.NextStateID.String())
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch next state", err.Error())
	}
	if next.TemplateID != state.TemplateID {
		return response.NewValidationError("Next state belongs to another template", "")
	}
	return nil
}

func (s *stateServiceImpl) findState(ctx context.Context, stateID uuid.UUID) (*domain.State, error) {
	state, err := s.stateRepo.FindByID(ctx, stateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("State not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch state", err.Error())
	}
	return state, nil
}

// unlockedTemplate loads a template and fails TEMPLATE_LOCKED when its structure is frozen
func unlockedTemplate(ctx context.Context, templateRepo repository.TemplateRepository, templateID uuid.UUID) (*domain.Template, error) {
	template, err := templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, toAppError(err, "Template not found")
	}
	if err := workflow.RequireUnlocked(template); err != nil {
		return nil, toAppError(err, "")
	}
	return template, nil
}

// checkGroups verifies that every group exists and is global or local to the project
func checkGroups(ctx context.Context, groupRepo repository.GroupRepository, projectID uuid.UUID, groupIDs []uuid.UUID) error {
	if len(groupIDs) == 0 {
		return nil
	}
	groups, err := groupRepo.FindByIDs(ctx, groupIDs)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch groups", err.Error())
	}
	found := make(map[uuid.UUID]*domain.Group, len(groups))
	for _, g := range groups {
		found[g.ID] = g
	}
	for _, id := range groupIDs {
		g, ok := found[id]
		if !ok {
			return response.NewNotFoundError("Group not found", id.String())
		}
		if g.ProjectID != nil && *g.ProjectID != projectID {
			return response.NewValidationError("Group belongs to another project", id.String())
		}
	}
	return nil
}

// parseRoles converts role names, rejecting empty and overlong ones
func parseRoles(names []string) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(names))
	for _, name := range names {
		if name == "" || len(name) > 50 {
			return nil, response.NewValidationError("Invalid role name", name)
		}
		roles = append(roles, domain.Role(name))
	}
	return roles, nil
}

func toStateResponse(state *domain.State, groups []uuid.UUID) *dto.StateResponse {
	if groups == nil {
		groups = []uuid.UUID{}
	}
	return &dto.StateResponse{
		ID:                state.ID,
		TemplateID:        state.TemplateID,
		Name:              state.Name,
		Type:              string(state.Type),
		Responsible:       string(state.Responsible),
		NextStateID:       state.NextStateID,
		ResponsibleGroups: groups,
		CreatedAt:         state.CreatedAt,
		UpdatedAt:         state.UpdatedAt,
	}
}

func toTransitionResponse(model *workflow.Model, fromID uuid.UUID, target *domain.State) *dto.TransitionResponse {
	subject := workflow.TransitionSubject(fromID, target.ID)
	return &dto.TransitionResponse{
		FromStateID: fromID,
		ToStateID:   target.ID,
		ToStateName: target.Name,
		Roles:       roleNames(model.Matrix.Roles(subject, workflow.PermissionTransit)),
		GroupIDs:    nonNilIDs(model.Matrix.Groups(subject, workflow.PermissionTransit)),
	}
}

func roleNames(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
