package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/repository"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/workflow"
)

// ListItemService defines the interface for list item business logic
type ListItemService interface {
	CreateListItem(ctx context.Context, fieldID uuid.UUID, req *dto.ListItemRequest) (*dto.ListItemResponse, error)
	ListListItems(ctx context.Context, fieldID uuid.UUID) ([]*dto.ListItemResponse, error)
	UpdateListItem(ctx context.Context, itemID uuid.UUID, req *dto.ListItemRequest) (*dto.ListItemResponse, error)
	DeleteListItem(ctx context.Context, itemID uuid.UUID) error
}

type listItemServiceImpl struct {
	listItemRepo repository.ListItemRepository
	fieldRepo    repository.FieldRepository
	stateRepo    repository.StateRepository
	templateRepo repository.TemplateRepository
	cache        WorkflowCache
	logger       *zap.Logger
}

// NewListItemService creates a new instance of ListItemService
func NewListItemService(listItemRepo repository.ListItemRepository, fieldRepo repository.FieldRepository, stateRepo repository.StateRepository, templateRepo repository.TemplateRepository, cache WorkflowCache, logger *zap.Logger) ListItemService {
	return &listItemServiceImpl{
		listItemRepo: listItemRepo,
		fieldRepo:    fieldRepo,
		stateRepo:    stateRepo,
		templateRepo: templateRepo,
		cache:        cache,
		logger:       logger,
	}
}

// CreateListItem adds an option to a list field
func (s *listItemServiceImpl) CreateListItem(ctx context.Context, fieldID uuid.UUID, req *dto.ListItemRequest) (*dto.ListItemResponse, error) {
	registry, err := s.loadRegistry(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	item, err := registry.Create(req.Value, req.Text)
	if err != nil {
		return nil, toAppError(err, "")
	}
	if err := s.listItemRepo.Create(ctx, item); err != nil {
		return nil, s.persistError(ctx, err, registry.Field, uuid.Nil, req, "Failed to create list item")
	}
	invalidate(ctx, s.cache, registry.Template.ID, s.logger)

	s.logger.Info("List item created",
		zap.String("item_id", item.ID.String()),
		zap.String("field_id", fieldID.String()))
	return toListItemResponse(item), nil
}

// ListListItems retrieves the options of a list field ordered by value
func (s *listItemServiceImpl) ListListItems(ctx context.Context, fieldID uuid.UUID) ([]*dto.ListItemResponse, error) {
	if _, err := s.fieldRepo.FindByID(ctx, fieldID); err != nil {
		return nil, toAppError(err, "Field not found")
	}
	items, err := s.listItemRepo.FindByField(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch list items", err.Error())
	}

	responses := make([]*dto.ListItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toListItemResponse(&items[i]))
	}
	return responses, nil
}

// UpdateListItem changes value and text of an option
func (s *listItemServiceImpl) UpdateListItem(ctx context.Context, itemID uuid.UUID, req *dto.ListItemRequest) (*dto.ListItemResponse, error) {
	existing, err := s.listItemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, toAppError(err, "List item not found")
	}
	registry, err := s.loadRegistry(ctx, existing.FieldID)
	if err != nil {
		return nil, err
	}

	item, err := registry.Update(itemID, req.Value, req.Text)
	if err != nil {
		return nil, toAppError(err, "List item not found")
	}
	if err := s.listItemRepo.Update(ctx, item); err != nil {
		return nil, s.persistError(ctx, err, registry.Field, itemID, req, "Failed to update list item")
	}
	invalidate(ctx, s.cache, registry.Template.ID, s.logger)
	return toListItemResponse(item), nil
}

// DeleteListItem removes an option. When it was the field's default, the
// default is cleared in the same transaction.
func (s *listItemServiceImpl) DeleteListItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.listItemRepo.FindByID(ctx, itemID)
	if err != nil {
		return toAppError(err, "List item not found")
	}
	registry, err := s.loadRegistry(ctx, item.FieldID)
	if err != nil {
		return err
	}

	cleared, err := registry.Delete(itemID)
	if err != nil {
		return toAppError(err, "List item not found")
	}
	var params datatypes.JSON
	if cleared {
		params = registry.Field.Parameters
	}
	if err := s.listItemRepo.Delete(ctx, item, params); err != nil {
		return toAppError(err, "List item not found")
	}
	invalidate(ctx, s.cache, registry.Template.ID, s.logger)

	s.logger.Info("List item deleted",
		zap.String("item_id", itemID.String()),
		zap.Bool("default_cleared", cleared))
	return nil
}

// loadRegistry loads a live field with its items and the template it belongs to
func (s *listItemServiceImpl) loadRegistry(ctx context.Context, fieldID uuid.UUID) (*workflow.ListItems, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, toAppError(err, "Field not found")
	}
	if field.IsRemoved() {
		return nil, response.NewNotFoundError("Field not found", "field has been removed")
	}
	state, err := s.stateRepo.FindByID(ctx, field.StateID)
	if err != nil {
		return nil, toAppError(err, "State not found")
	}
	template, err := s.templateRepo.FindByID(ctx, state.TemplateID)
	if err != nil {
		return nil, toAppError(err, "Template not found")
	}
	items, err := s.listItemRepo.FindByField(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch list items", err.Error())
	}
	return &workflow.ListItems{Template: template, Field: field, Items: items}, nil
}

// persistError reports a unique violation lost to a concurrent writer as the
// duplicate it is, re-checking against the items stored now.
func (s *listItemServiceImpl) persistError(ctx context.Context, err error, field *domain.Field, self uuid.UUID, req *dto.ListItemRequest, message string) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return response.NewAppError(response.ErrCodeInternal, message, err.Error())
	}
	items, findErr := s.listItemRepo.FindByField(ctx, field.ID)
	if findErr == nil {
		registry := &workflow.ListItems{Template: &domain.Template{}, Field: field, Items: items}
		var checkErr error
		if self == uuid.Nil {
			_, checkErr = registry.Create(req.Value, req.Text)
		} else {
			_, checkErr = registry.Update(self, req.Value, req.Text)
		}
		if checkErr != nil {
			return toAppError(checkErr, "List item not found")
		}
	}
	return response.NewAppError(response.ErrCodeDuplicateValue, "List item already exists", err.Error())
}

func toListItemResponse(item *domain.ListItem) *dto.ListItemResponse {
	return &dto.ListItemResponse{
		ID:      item.ID,
		FieldID: item.FieldID,
		Value:   item.Value,
		Text:    item.Text,
	}
}
