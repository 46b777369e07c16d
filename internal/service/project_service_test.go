package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/response"
)

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *response.AppError
	require.True(t, errors.As(err, &appErr), "expected *response.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestProjectService_CreateProject(t *testing.T) {
	tests := []struct {
		name        string
		mockProject func(*MockProjectRepository)
		wantErrCode string
	}{
		{
			name: "성공: 프로젝트 생성",
			mockProject: func(m *MockProjectRepository) {
				m.CreateFunc = func(ctx context.Context, project *domain.Project) error {
					project.ID = uuid.New()
					return nil
				}
			},
		},
		{
			name: "실패: 같은 이름의 프로젝트 존재",
			mockProject: func(m *MockProjectRepository) {
				m.CreateFunc = func(ctx context.Context, project *domain.Project) error {
					return gorm.ErrDuplicatedKey
				}
			},
			wantErrCode: response.ErrCodeAlreadyExists,
		},
		{
			name: "실패: DB 에러",
			mockProject: func(m *MockProjectRepository) {
				m.CreateFunc = func(ctx context.Context, project *domain.Project) error {
					return errors.New("database error")
				}
			},
			wantErrCode: response.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			projectRepo := &MockProjectRepository{}
			tt.mockProject(projectRepo)
			svc := NewProjectService(projectRepo, &MockTemplateRepository{}, zap.NewNop())

			// When
			got, err := svc.CreateProject(context.Background(), &dto.CreateProjectRequest{Name: "eTraxis", Description: "Tracker"})

			// Then
			if tt.wantErrCode != "" {
				assertAppError(t, err, tt.wantErrCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "eTraxis", got.Name)
			assert.Equal(t, int64(0), got.TemplateCount)
		})
	}
}

func TestProjectService_GetProject(t *testing.T) {
	projectID := uuid.New()

	t.Run("성공: 템플릿 수 포함 조회", func(t *testing.T) {
		projectRepo := &MockProjectRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
				return &domain.Project{BaseModel: domain.BaseModel{ID: id}, Name: "eTraxis"}, nil
			},
		}
		templateRepo := &MockTemplateRepository{
			CountByProjectFunc: func(ctx context.Context, id uuid.UUID) (int64, error) {
				return 3, nil
			},
		}
		svc := NewProjectService(projectRepo, templateRepo, zap.NewNop())

		got, err := svc.GetProject(context.Background(), projectID)
		require.NoError(t, err)
		assert.Equal(t, projectID, got.ID)
		assert.Equal(t, int64(3), got.TemplateCount)
	})

	t.Run("실패: 프로젝트가 존재하지 않음", func(t *testing.T) {
		projectRepo := &MockProjectRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := NewProjectService(projectRepo, &MockTemplateRepository{}, zap.NewNop())

		_, err := svc.GetProject(context.Background(), projectID)
		assertAppError(t, err, response.ErrCodeNotFound)
	})
}

func TestProjectService_UpdateProject(t *testing.T) {
	project := &domain.Project{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Old"}
	var saved *domain.Project
	projectRepo := &MockProjectRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
			return project, nil
		},
		UpdateFunc: func(ctx context.Context, p *domain.Project) error {
			saved = p
			return nil
		},
	}
	svc := NewProjectService(projectRepo, &MockTemplateRepository{}, zap.NewNop())

	name := "New"
	suspended := true
	got, err := svc.UpdateProject(context.Background(), project.ID, &dto.UpdateProjectRequest{Name: &name, IsSuspended: &suspended})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "New", saved.Name)
	assert.True(t, got.IsSuspended)
}

func TestProjectService_DeleteProject(t *testing.T) {
	projectID := uuid.New()
	found := func(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
		return &domain.Project{BaseModel: domain.BaseModel{ID: id}}, nil
	}

	tests := []struct {
		name        string
		templates   int64
		wantErrCode string
		wantDeleted bool
	}{
		{name: "성공: 템플릿 없는 프로젝트 삭제", templates: 0, wantDeleted: true},
		{name: "실패: 템플릿이 남아있음", templates: 2, wantErrCode: response.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			projectRepo := &MockProjectRepository{
				FindByIDFunc: found,
				DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
					deleted = true
					return nil
				},
			}
			templateRepo := &MockTemplateRepository{
				CountByProjectFunc: func(ctx context.Context, id uuid.UUID) (int64, error) {
					return tt.templates, nil
				},
			}
			svc := NewProjectService(projectRepo, templateRepo, zap.NewNop())

			err := svc.DeleteProject(context.Background(), projectID)
			if tt.wantErrCode != "" {
				assertAppError(t, err, tt.wantErrCode)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantDeleted, deleted)
		})
	}
}
