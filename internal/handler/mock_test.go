package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/middleware"
	"issue-workflow-api/internal/service"
)

// setupTestRouter returns a gin engine in test mode. When userID is not
// nil the identity is put in the context the way the auth middleware does.
func setupTestRouter(userID *uuid.UUID, roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != nil {
		id := *userID
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserID, id)
			c.Set(middleware.ContextRoles, roles)
			c.Set(middleware.ContextToken, "test-token")
			c.Next()
		})
	}
	return r
}

// MockIssueService is a mock implementation of IssueService
type MockIssueService struct {
	CreateIssueFunc             func(ctx context.Context, actor service.Actor, req *dto.CreateIssueRequest) (*dto.IssueResponse, error)
	GetIssueFunc                func(ctx context.Context, actor service.Actor, issueID uuid.UUID) (*dto.IssueResponse, error)
	ListIssuesFunc              func(ctx context.Context, actor service.Actor, templateID uuid.UUID, page, limit int) (*dto.PaginatedIssuesResponse, error)
	UpdateIssueFunc             func(ctx context.Context, actor service.Actor, issueID uuid.UUID, req *dto.UpdateIssueRequest) (*dto.IssueResponse, error)
	ChangeStateFunc             func(ctx context.Context, actor service.Actor, issueID uuid.UUID, req *dto.ChangeStateRequest) (*dto.IssueResponse, error)
	GetAvailableTransitionsFunc func(ctx context.Context, actor service.Actor, issueID uuid.UUID) ([]*dto.AvailableTransitionResponse, error)
}

func (m *MockIssueService) CreateIssue(ctx context.Context, actor service.Actor, req *dto.CreateIssueRequest) (*dto.IssueResponse, error) {
	if m.CreateIssueFunc != nil {
		return m.CreateIssueFunc(ctx, actor, req)
	}
	return nil, nil
}

func (m *MockIssueService) GetIssue(ctx context.Context, actor service.Actor, issueID uuid.UUID) (*dto.IssueResponse, error) {
	if m.GetIssueFunc != nil {
		return m.GetIssueFunc(ctx, actor, issueID)
	}
	return nil, nil
}

func (m *MockIssueService) ListIssues(ctx context.Context, actor service.Actor, templateID uuid.UUID, page, limit int) (*dto.PaginatedIssuesResponse, error) {
	if m.ListIssuesFunc != nil {
		return m.ListIssuesFunc(ctx, actor, templateID, page, limit)
	}
	return nil, nil
}

func (m *MockIssueService) UpdateIssue(ctx context.Context, actor service.Actor, issueID uuid.UUID, req *dto.UpdateIssueRequest) (*dto.IssueResponse, error) {
	if m.UpdateIssueFunc != nil {
		return m.UpdateIssueFunc(ctx, actor, issueID, req)
	}
	return nil, nil
}

func (m *MockIssueService) ChangeState(ctx context.Context, actor service.Actor, issueID uuid.UUID, req *dto.ChangeStateRequest) (*dto.IssueResponse, error) {
	if m.ChangeStateFunc != nil {
		return m.ChangeStateFunc(ctx, actor, issueID, req)
	}
	return nil, nil
}

func (m *MockIssueService) GetAvailableTransitions(ctx context.Context, actor service.Actor, issueID uuid.UUID) ([]*dto.AvailableTransitionResponse, error) {
	if m.GetAvailableTransitionsFunc != nil {
		return m.GetAvailableTransitionsFunc(ctx, actor, issueID)
	}
	return nil, nil
}

// MockFieldService is a mock implementation of FieldService
type MockFieldService struct {
	CreateFieldFunc      func(ctx context.Context, req *dto.CreateFieldRequest) (*dto.FieldResponse, error)
	GetFieldFunc         func(ctx context.Context, fieldID uuid.UUID) (*dto.FieldResponse, error)
	ListFieldsFunc       func(ctx context.Context, stateID uuid.UUID) ([]*dto.FieldResponse, error)
	UpdateFieldFunc      func(ctx context.Context, fieldID uuid.UUID, req *dto.UpdateFieldRequest) (*dto.FieldResponse, error)
	SetFieldPositionFunc func(ctx context.Context, fieldID uuid.UUID, req *dto.SetFieldPositionRequest) (*dto.FieldResponse, error)
	RemoveFieldFunc      func(ctx context.Context, fieldID uuid.UUID) error
	ValidateConfigFunc   func(ctx context.Context, req *dto.ValidateFieldConfigRequest) (*dto.ValidateFieldConfigResponse, error)
}

func (m *MockFieldService) CreateField(ctx context.Context, req *dto.CreateFieldRequest) (*dto.FieldResponse, error) {
	if m.CreateFieldFunc != nil {
		return m.CreateFieldFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockFieldService) GetField(ctx context.Context, fieldID uuid.UUID) (*dto.FieldResponse, error) {
	if m.GetFieldFunc != nil {
		return m.GetFieldFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockFieldService) ListFields(ctx context.Context, stateID uuid.UUID) ([]*dto.FieldResponse, error) {
	if m.ListFieldsFunc != nil {
		return m.ListFieldsFunc(ctx, stateID)
	}
	return nil, nil
}

func (m *MockFieldService) UpdateField(ctx context.Context, fieldID uuid.UUID, req *dto.UpdateFieldRequest) (*dto.FieldResponse, error) {
	if m.UpdateFieldFunc != nil {
		return m.UpdateFieldFunc(ctx, fieldID, req)
	}
	return nil, nil
}

func (m *MockFieldService) SetFieldPosition(ctx context.Context, fieldID uuid.UUID, req *dto.SetFieldPositionRequest) (*dto.FieldResponse, error) {
	if m.SetFieldPositionFunc != nil {
		return m.SetFieldPositionFunc(ctx, fieldID, req)
	}
	return nil, nil
}

func (m *MockFieldService) RemoveField(ctx context.Context, fieldID uuid.UUID) error {
	if m.RemoveFieldFunc != nil {
		return m.RemoveFieldFunc(ctx, fieldID)
	}
	return nil
}

func (m *MockFieldService) ValidateConfig(ctx context.Context, req *dto.ValidateFieldConfigRequest) (*dto.ValidateFieldConfigResponse, error) {
	if m.ValidateConfigFunc != nil {
		return m.ValidateConfigFunc(ctx, req)
	}
	return nil, nil
}

// MockListItemService is a mock implementation of ListItemService
type MockListItemService struct {
	CreateListItemFunc func(ctx context.Context, fieldID uuid.UUID, req *dto.ListItemRequest) (*dto.ListItemResponse, error)
	ListListItemsFunc  func(ctx context.Context, fieldID uuid.UUID) ([]*dto.ListItemResponse, error)
	UpdateListItemFunc func(ctx context.Context, itemID uuid.UUID, req *dto.ListItemRequest) (*dto.ListItemResponse, error)
	DeleteListItemFunc func(ctx context.Context, itemID uuid.UUID) error
}

func (m *MockListItemService) CreateListItem(ctx context.Context, fieldID uuid.UUID, req *dto.ListItemRequest) (*dto.ListItemResponse, error) {
	if m.CreateListItemFunc != nil {
		return m.CreateListItemFunc(ctx, fieldID, req)
	}
	return nil, nil
}

func (m *MockListItemService) ListListItems(ctx context.Context, fieldID uuid.UUID) ([]*dto.ListItemResponse, error) {
	if m.ListListItemsFunc != nil {
		return m.ListListItemsFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockListItemService) UpdateListItem(ctx context.Context, itemID uuid.UUID, req *dto.ListItemRequest) (*dto.ListItemResponse, error) {
	if m.UpdateListItemFunc != nil {
		return m.UpdateListItemFunc(ctx, itemID, req)
	}
	return nil, nil
}

func (m *MockListItemService) DeleteListItem(ctx context.Context, itemID uuid.UUID) error {
	if m.DeleteListItemFunc != nil {
		return m.DeleteListItemFunc(ctx, itemID)
	}
	return nil
}
