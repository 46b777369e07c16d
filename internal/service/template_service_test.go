package service

import (
	"context"
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

func intPtr(v int) *int { return &v }

func TestTemplateService_CreateTemplate(t *testing.T) {
	projectID := uuid.New()

	tests := []struct {
		name        string
		req         *dto.CreateTemplateRequest
		mockProject func(*MockProjectRepository)
		mockCreate  func(ctx context.Context, template *domain.Template) error
		wantErrCode string
	}{
		{
			name: "성공: 템플릿 생성",
			req:  &dto.CreateTemplateRequest{ProjectID: projectID, Name: "Bugs", Prefix: "BUG", CriticalAge: intPtr(7)},
			mockProject: func(m *MockProjectRepository) {
				m.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
					return &domain.Project{}, nil
				}
			},
		},
		{
			name: "실패: 프로젝트가 존재하지 않음",
			req:  &dto.CreateTemplateRequest{ProjectID: projectID, Name: "Bugs", Prefix: "BUG"},
			mockProject: func(m *MockProjectRepository) {
				m.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
					return nil, gorm.ErrRecordNotFound
				}
			},
			wantErrCode: response.ErrCodeNotFound,
		},
		{
			name: "실패: frozen time 범위 초과",
			req:  &dto.CreateTemplateRequest{ProjectID: projectID, Name: "Bugs", Prefix: "BUG", FrozenTime: intPtr(101)},
			mockProject: func(m *MockProjectRepository) {
				m.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
					return &domain.Project{}, nil
				}
			},
			wantErrCode: response.ErrCodeValidation,
		},
		{
			name: "실패: 이름 또는 prefix 중복",
			req:  &dto.CreateTemplateRequest{ProjectID: projectID, Name: "Bugs", Prefix: "BUG"},
			mockProject: func(m *MockProjectRepository) {
				m.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
					return &domain.Project{}, nil
				}
			},
			mockCreate: func(ctx context.Context, template *domain.Template) error {
				return gorm.ErrDuplicatedKey
			},
			wantErrCode: response.ErrCodeAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectRepo := &MockProjectRepository{}
			tt.mockProject(projectRepo)
			templateRepo := &MockTemplateRepository{CreateFunc: tt.mockCreate}
			svc := NewTemplateService(templateRepo, projectRepo, nil, &MockIssueRepository{}, &MockWorkflowCache{}, zap.NewNop())

			got, err := svc.CreateTemplate(context.Background(), tt.req)
			if tt.wantErrCode != "" {
				assertAppError(t, err, tt.wantErrCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "BUG", got.Prefix)
			assert.False(t, got.Locked)
			assert.Equal(t, 7, *got.CriticalAge)
		})
	}
}

func TestTemplateService_UpdateTemplate_WhileLocked(t *testing.T) {
	template := &domain.Template{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Bugs", Prefix: "BUG", Locked: true, CriticalAge: intPtr(5)}
	templateRepo := &MockTemplateRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
			return template, nil
		},
	}
	cache := &MockWorkflowCache{}
	svc := NewTemplateService(templateRepo, &MockProjectRepository{}, nil, &MockIssueRepository{}, cache, zap.NewNop())

	name := "Defects"
	got, err := svc.UpdateTemplate(context.Background(), template.ID, &dto.UpdateTemplateRequest{Name: &name, ClearCriticalAge: true})
	require.NoError(t, err)
	assert.Equal(t, "Defects", got.Name)
	assert.Nil(t, got.CriticalAge)
	assert.True(t, got.Locked)
	assert.Equal(t, []uuid.UUID{template.ID}, cache.Invalidated)
}

func TestTemplateService_LockUnlock(t *testing.T) {
	newTemplate := func(locked bool) *domain.Template {
		return &domain.Template{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Bugs", Locked: locked}
	}

	tests := []struct {
		name        string
		template    *domain.Template
		lock        bool
		issues      int64
		wantErrCode string
		wantSet     bool
	}{
		{name: "성공: 잠금", template: newTemplate(false), lock: true, wantSet: true},
		{name: "성공: 이미 잠긴 템플릿 잠금", template: newTemplate(true), lock: true},
		{name: "성공: 이슈 없는 템플릿 잠금 해제", template: newTemplate(true), lock: false, wantSet: true},
		{name: "실패: 이슈가 있는 템플릿 잠금 해제", template: newTemplate(true), lock: false, issues: 1, wantErrCode: response.ErrCodeTemplateLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := false
			templateRepo := &MockTemplateRepository{
				FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
					return tt.template, nil
				},
				SetLockedFunc: func(ctx context.Context, id uuid.UUID, locked bool) error {
					set = true
					assert.Equal(t, tt.lock, locked)
					return nil
				},
			}
			issueRepo := &MockIssueRepository{
				CountByTemplateFunc: func(ctx context.Context, id uuid.UUID) (int64, error) {
					return tt.issues, nil
				},
			}
			svc := NewTemplateService(templateRepo, &MockProjectRepository{}, nil, issueRepo, &MockWorkflowCache{}, zap.NewNop())

			var got *dto.TemplateResponse
			var err error
			if tt.lock {
				got, err = svc.LockTemplate(context.Background(), tt.template.ID)
			} else {
				got, err = svc.UnlockTemplate(context.Background(), tt.template.ID)
			}

			assert.Equal(t, tt.wantSet, set)
			if tt.wantErrCode != "" {
				assertAppError(t, err, tt.wantErrCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lock, got.Locked)
		})
	}
}

func TestTemplateService_DeleteTemplate(t *testing.T) {
	template := &domain.Template{BaseModel: domain.BaseModel{ID: uuid.New()}}
	templateRepo := &MockTemplateRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
			return template, nil
		},
	}

	t.Run("실패: 이슈가 있으면 삭제 불가", func(t *testing.T) {
		issueRepo := &MockIssueRepository{
			CountByTemplateFunc: func(ctx context.Context, id uuid.UUID) (int64, error) {
				return 4, nil
			},
		}
		svc := NewTemplateService(templateRepo, &MockProjectRepository{}, nil, issueRepo, &MockWorkflowCache{}, zap.NewNop())

		err := svc.DeleteTemplate(context.Background(), template.ID)
		assertAppError(t, err, response.ErrCodeTemplateLocked)
	})

	t.Run("성공: 삭제 후 캐시 무효화", func(t *testing.T) {
		cache := &MockWorkflowCache{}
		svc := NewTemplateService(templateRepo, &MockProjectRepository{}, nil, &MockIssueRepository{}, cache, zap.NewNop())

		require.NoError(t, svc.DeleteTemplate(context.Background(), template.ID))
		assert.Equal(t, []uuid.UUID{template.ID}, cache.Invalidated)
	})
}
