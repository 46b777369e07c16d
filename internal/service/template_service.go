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

// WorkflowCache serves compiled template models and forgets them after changes
type WorkflowCache interface {
	Model(ctx context.Context, templateID uuid.UUID) (*workflow.Model, error)
	Invalidate(ctx context.Context, templateID uuid.UUID) error
	InvalidateAll(ctx context.Context) error
}

// TemplateService defines the interface for template business logic
type TemplateService interface {
	CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	GetTemplate(ctx context.Context, templateID uuid.UUID) (*dto.TemplateResponse, error)
	ListTemplates(ctx context.Context, projectID uuid.UUID) ([]*dto.TemplateResponse, error)
	UpdateTemplate(ctx context.Context, templateID uuid.UUID, req *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error)
	DeleteTemplate(ctx context.Context, templateID uuid.UUID) error
	LockTemplate(ctx context.Context, templateID uuid.UUID) (*dto.TemplateResponse, error)
	UnlockTemplate(ctx context.Context, templateID uuid.UUID) (*dto.TemplateResponse, error)
}

type templateServiceImpl struct {
	templateRepo repository.TemplateRepository
	projectRepo  repository.ProjectRepository
	stateRepo    repository.StateRepository
	issueRepo    repository.IssueRepository
	cache        WorkflowCache
	logger       *zap.Logger
}

// NewTemplateService creates a new instance of TemplateService
func NewTemplateService(templateRepo repository.TemplateRepository, projectRepo repository.ProjectRepository, stateRepo repository.StateRepository, issueRepo repository.IssueRepository, cache WorkflowCache, logger *zap.Logger) TemplateService {
	return &templateServiceImpl{
		templateRepo: templateRepo,
		projectRepo:  projectRepo,
		stateRepo:    stateRepo,
		issueRepo:    issueRepo,
		cache:        cache,
		logger:       logger,
	}
}

// CreateTemplate creates an empty, unlocked template in a project
func (s *templateServiceImpl) CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectID); err != nil {
		return nil, toAppError(err, "Project not found")
	}
	if err := validateThresholds(req.CriticalAge, req.FrozenTime); err != nil {
		return nil, err
	}

	template := &domain.Template{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Prefix:      req.Prefix,
		Description: req.Description,
		CriticalAge: req.CriticalAge,
		FrozenTime:  req.FrozenTime,
	}
	if err := s.templateRepo.Create(ctx, template); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Template with this name or prefix already exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create template", err.Error())
	}

	s.logger.Info("Template created",
		zap.String("template_id", template.ID.String()),
		zap.String("project_id", template.ProjectID.String()))
	return toTemplateResponse(template, nil), nil
}

// GetTemplate retrieves a template with its states
func (s *templateServiceImpl) GetTemplate(ctx context.Context, templateID uuid.UUID) (*dto.TemplateResponse, error) {
	template, err := s.findTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	states, err := s.stateRepo.FindByTemplate(ctx, templateID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch states", err.Error())
	}
	responses := make([]dto.StateResponse, 0, len(states))
	for _, state := range states {
		groups, err := s.stateRepo.FindResponsibleGroups(ctx, state.ID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch responsible groups", err.Error())
		}
		responses = append(responses, *toStateResponse(state, groups))
	}
	return toTemplateResponse(template, responses), nil
}

// ListTemplates retrieves the templates of a project
func (s *templateServiceImpl) ListTemplates(ctx context.Context, projectID uuid.UUID) ([]*dto.TemplateResponse, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, toAppError(err, "Project not found")
	}

	templates, err := s.templateRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch templates", err.Error())
	}
	responses := make([]*dto.TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, toTemplateResponse(template, nil))
	}
	return responses, nil
}

// UpdateTemplate updates template attributes. They are not structural, so a
// locked template may be updated too.
func (s *templateServiceImpl) UpdateTemplate(ctx context.Context, templateID uuid.UUID, req *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	template, err := s.findTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if err := validateThresholds(req.CriticalAge, req.FrozenTime); err != nil {
		return nil, err
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Prefix != nil {
		template.Prefix = *req.Prefix
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.CriticalAge != nil {
		template.CriticalAge = req.CriticalAge
	}
	if req.ClearCriticalAge {
		template.CriticalAge = nil
	}
	if req.FrozenTime != nil {
		template.FrozenTime = req.FrozenTime
	}
	if req.ClearFrozenTime {
		template.FrozenTime = nil
	}

	if err := s.templateRepo.Update(ctx, template); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Template with this name or prefix already exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update template", err.Error())
	}
	invalidate(ctx, s.cache, templateID, s.logger)
	return toTemplateResponse(template, nil), nil
}

// DeleteTemplate deletes a template with everything it defines.
// Templates with issues cannot be deleted.
func (s *templateServiceImpl) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	template, err := s.findTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	if err := s.requireNoIssues(ctx, template); err != nil {
		return err
	}

	if err := s.templateRepo.Delete(ctx, templateID); err != nil {
		return toAppError(err, "Template not found")
	}
	invalidate(ctx, s.cache, templateID, s.logger)
	s.logger.Info("Template deleted", zap.String("template_id", templateID.String()))
	return nil
}

// LockTemplate freezes the structure of a template
func (s *templateServiceImpl) LockTemplate(ctx context.Context, templateID uuid.UUID) (*dto.TemplateResponse, error) {
	return s.setLocked(ctx, templateID, true)
}

// UnlockTemplate allows structural edits again. A template with issues stays locked.
func (s *templateServiceImpl) UnlockTemplate(ctx context.Context, templateID uuid.UUID) (*dto.TemplateResponse, error) {
	return s.setLocked(ctx, templateID, false)
}

func (s *templateServiceImpl) setLocked(ctx context.Context, templateID uuid.UUID, locked bool) (*dto.TemplateResponse, error) {
	template, err := s.findTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !locked {
		if err := s.requireNoIssues(ctx, template); err != nil {
			return nil, err
		}
	}
	if template.Locked == locked {
		return toTemplateResponse(template, nil), nil
	}

	if err := s.templateRepo.SetLocked(ctx, templateID, locked); err != nil {
		return nil, toAppError(err, "Template not found")
	}
	template.Locked = locked
	invalidate(ctx, s.cache, templateID, s.logger)

	s.logger.Info("Template lock changed",
		zap.String("template_id", templateID.String()),
		zap.Bool("locked", locked))
	return toTemplateResponse(template, nil), nil
}

func (s *templateServiceImpl) requireNoIssues(ctx context.Context, template *domain.Template) error {
	count, err := s.issueRepo.CountByTemplate(ctx, template.ID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to count issues", err.Error())
	}
	if count > 0 {
		return response.NewAppError(response.ErrCodeTemplateLocked, "Template has issues", "")
	}
	return nil
}

func (s *templateServiceImpl) findTemplate(ctx context.Context, templateID uuid.UUID) (*domain.Template, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Template not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch template", err.Error())
	}
	return template, nil
}

func validateThresholds(values ...*int) error {
	for _, v := range values {
		if v != nil && (*v < 1 || *v > 100) {
			return response.NewValidationError("Critical age and frozen time must be between 1 and 100", "")
		}
	}
	return nil
}

// invalidate drops the cached model of a template. Failures are logged;
// the entry still expires after the cache TTL.
func invalidate(ctx context.Context, cache WorkflowCache, templateID uuid.UUID, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, templateID); err != nil {
		logger.Error("Failed to invalidate workflow cache",
			zap.String("template_id", templateID.String()),
			zap.Error(err))
	}
}

func toTemplateResponse(template *domain.Template, states []dto.StateResponse) *dto.TemplateResponse {
	return &dto.TemplateResponse{
		ID:          template.ID,
		ProjectID:   template.ProjectID,
		Name:        template.Name,
		Prefix:      template.Prefix,
		Description: template.Description,
		CriticalAge: template.CriticalAge,
		FrozenTime:  template.FrozenTime,
		Locked:      template.Locked,
		States:      states,
		CreatedAt:   template.CreatedAt,
		UpdatedAt:   template.UpdatedAt,
	}
}
