package service

import (
	"context"

	"github.com/google/uuid"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/workflow"
)

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	CreateFunc   func(ctx context.Context, project *domain.Project) error
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindAllFunc  func(ctx context.Context) ([]*domain.Project, error)
	UpdateFunc   func(ctx context.Context, project *domain.Project) error
	DeleteFunc   func(ctx context.Context, id uuid.UUID) error
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindAll(ctx context.Context) ([]*domain.Project, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTemplateRepository is a mock implementation of TemplateRepository
type MockTemplateRepository struct {
	CreateFunc                  func(ctx context.Context, template *domain.Template) error
	FindByIDFunc                func(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	FindByProjectFunc           func(ctx context.Context, projectID uuid.UUID) ([]*domain.Template, error)
	CountByProjectFunc          func(ctx context.Context, projectID uuid.UUID) (int64, error)
	UpdateFunc                  func(ctx context.Context, template *domain.Template) error
	SetLockedFunc               func(ctx context.Context, id uuid.UUID, locked bool) error
	DeleteFunc                  func(ctx context.Context, id uuid.UUID) error
	CountsFunc                  func(ctx context.Context) (int64, int64, error)
	LockTemplatesWithIssuesFunc func(ctx context.Context) (int64, error)
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, template)
	}
	return nil
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTemplateRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Template, error) {
	if m.FindByProjectFunc != nil {
		return m.FindByProjectFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockTemplateRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	if m.CountByProjectFunc != nil {
		return m.CountByProjectFunc(ctx, projectID)
	}
	return 0, nil
}

func (m *MockTemplateRepository) Update(ctx context.Context, template *domain.Template) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, template)
	}
	return nil
}

func (m *MockTemplateRepository) SetLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	if m.SetLockedFunc != nil {
		return m.SetLockedFunc(ctx, id, locked)
	}
	return nil
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTemplateRepository) Counts(ctx context.Context) (int64, int64, error) {
	if m.CountsFunc != nil {
		return m.CountsFunc(ctx)
	}
	return 0, 0, nil
}

func (m *MockTemplateRepository) LockTemplatesWithIssues(ctx context.Context) (int64, error) {
	if m.LockTemplatesWithIssuesFunc != nil {
		return m.LockTemplatesWithIssuesFunc(ctx)
	}
	return 0, nil
}

// MockIssueRepository only answers CountByTemplate; the template service
// reaches nothing else.
type MockIssueRepository struct {
	CountByTemplateFunc func(ctx context.Context, templateID uuid.UUID) (int64, error)
}

func (m *MockIssueRepository) Create(ctx context.Context, issue *domain.Issue, values map[uuid.UUID]*string) error {
	return nil
}

func (m *MockIssueRepository) Update(ctx context.Context, issue *domain.Issue, values map[uuid.UUID]*string) error {
	return nil
}

func (m *MockIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error) {
	return nil, nil
}

func (m *MockIssueRepository) FindByTemplate(ctx context.Context, templateID uuid.UUID, page, limit int) ([]*domain.Issue, int64, error) {
	return nil, 0, nil
}

func (m *MockIssueRepository) FindExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	return map[uuid.UUID]struct{}{}, nil
}

func (m *MockIssueRepository) CountByTemplate(ctx context.Context, templateID uuid.UUID) (int64, error) {
	if m.CountByTemplateFunc != nil {
		return m.CountByTemplateFunc(ctx, templateID)
	}
	return 0, nil
}

func (m *MockIssueRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

// MockWorkflowCache records invalidations
type MockWorkflowCache struct {
	ModelFunc     func(ctx context.Context, templateID uuid.UUID) (*workflow.Model, error)
	Invalidated   []uuid.UUID
	InvalidateErr error
	AllCalls      int
}

func (m *MockWorkflowCache) Model(ctx context.Context, templateID uuid.UUID) (*workflow.Model, error) {
	if m.ModelFunc != nil {
		return m.ModelFunc(ctx, templateID)
	}
	return nil, nil
}

func (m *MockWorkflowCache) Invalidate(ctx context.Context, templateID uuid.UUID) error {
	m.Invalidated = append(m.Invalidated, templateID)
	return m.InvalidateErr
}

func (m *MockWorkflowCache) InvalidateAll(ctx context.Context) error {
	m.AllCalls++
	return m.InvalidateErr
}
