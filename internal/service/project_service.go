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
)

// ProjectService defines the interface for project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context) ([]*dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	projectRepo  repository.ProjectRepository
	templateRepo repository.TemplateRepository
	logger       *zap.Logger
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, templateRepo repository.TemplateRepository, logger *zap.Logger) ProjectService {
	return &projectServiceImpl{
		projectRepo:  projectRepo,
		templateRepo: templateRepo,
		logger:       logger,
	}
}

// CreateProject creates a new project
func (s *projectServiceImpl) CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	project := &domain.Project{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Project with this name already exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create project", err.Error())
	}

	s.logger.Info("Project created", zap.String("project_id", project.ID.String()))
	return toProjectResponse(project, 0), nil
}

// GetProject retrieves a project by ID
func (s *projectServiceImpl) GetProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	count, err := s.templateRepo.CountByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count templates", err.Error())
	}
	return toProjectResponse(project, count), nil
}

// ListProjects retrieves all projects ordered by name
func (s *projectServiceImpl) ListProjects(ctx context.Context) ([]*dto.ProjectResponse, error) {
	projects, err := s.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch projects", err.Error())
	}

	responses := make([]*dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		count, err := s.templateRepo.CountByProject(ctx, project.ID)
		if err != nil {
			s.logger.Warn("Failed to count templates", zap.String("project_id", project.ID.String()), zap.Error(err))
		}
		responses = append(responses, toProjectResponse(project, count))
	}
	return responses, nil
}

// UpdateProject updates the given attributes of a project
func (s *projectServiceImpl) UpdateProject(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.IsSuspended != nil {
		project.IsSuspended = *req.IsSuspended
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Project with this name already exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update project", err.Error())
	}
	return s.GetProject(ctx, projectID)
}

// DeleteProject deletes a project without templates
func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return err
	}

	count, err := s.templateRepo.CountByProject(ctx, projectID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to count templates", err.Error())
	}
	if count > 0 {
		return response.NewValidationError("Project still has templates", "delete its templates first")
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return toAppError(err, "Project not found")
	}
	s.logger.Info("Project deleted", zap.String("project_id", projectID.String()))
	return nil
}

func (s *projectServiceImpl) findProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Project not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch project", err.Error())
	}
	return project, nil
}

func toProjectResponse(project *domain.Project, templateCount int64) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		IsSuspended:   project.IsSuspended,
		TemplateCount: templateCount,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}
}
