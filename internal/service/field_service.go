package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/fieldtype"
	"issue-workflow-api/internal/repository"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/workflow"
)

// FieldService defines the interface for field business logic
type FieldService interface {
	CreateField(ctx context.Context, req *dto.CreateFieldRequest) (*dto.FieldResponse, error)
	GetField(ctx context.Context, fieldID uuid.UUID) (*dto.FieldResponse, error)
	ListFields(ctx context.Context, stateID uuid.UUID) ([]*dto.FieldResponse, error)
	UpdateField(ctx context.Context, fieldID uuid.UUID, req *dto.UpdateFieldRequest) (*dto.FieldResponse, error)
	SetFieldPosition(ctx context.Context, fieldID uuid.UUID, req *dto.SetFieldPositionRequest) (*dto.FieldResponse, error)
	RemoveField(ctx context.Context, fieldID uuid.UUID) error
	ValidateConfig(ctx context.Context, req *dto.ValidateFieldConfigRequest) (*dto.ValidateFieldConfigResponse, error)
}

type fieldServiceImpl struct {
	fieldRepo    repository.FieldRepository
	stateRepo    repository.StateRepository
	templateRepo repository.TemplateRepository
	listItemRepo repository.ListItemRepository
	cache        WorkflowCache
	logger       *zap.Logger
	now          func() time.Time
}

// NewFieldService creates a new instance of FieldService
func NewFieldService(fieldRepo repository.FieldRepository, stateRepo repository.StateRepository, templateRepo repository.TemplateRepository, listItemRepo repository.ListItemRepository, cache WorkflowCache, logger *zap.Logger) FieldService {
	return &fieldServiceImpl{
		fieldRepo:    fieldRepo,
		stateRepo:    stateRepo,
		templateRepo: templateRepo,
		listItemRepo: listItemRepo,
		cache:        cache,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateField validates the configuration and appends the field to its state
func (s *fieldServiceImpl) CreateField(ctx context.Context, req *dto.CreateFieldRequest) (*dto.FieldResponse, error) {
	state, err := s.stateRepo.FindByID(ctx, req.StateID)
	if err != nil {
		return nil, toAppError(err, "State not found")
	}
	if _, err := unlockedTemplate(ctx, s.templateRepo, state.TemplateID); err != nil {
		return nil, err
	}

	fieldType := domain.FieldType(req.Type)
	if !fieldType.IsValid() {
		return nil, response.NewValidationError("Invalid field type", req.Type)
	}
	cfg, err := fieldtype.ValidateConfig(fieldType, req.Parameters)
	if err != nil {
		return nil, toAppError(err, "")
	}
	// a new list field has no items for a default to reference
	if list, ok := cfg.(fieldtype.ListConfig); ok {
		registry := &workflow.ListItems{Field: &domain.Field{Type: fieldType}}
		if err := registry.CheckDefault(list); err != nil {
			return nil, toAppError(err, "")
		}
	}
	params, err := fieldtype.Encode(cfg)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to encode field configuration", err.Error())
	}

	field := &domain.Field{
		StateID:     state.ID,
		Type:        fieldType,
		Name:        req.Name,
		Description: req.Description,
		Required:    req.Required,
		Parameters:  datatypes.JSON(params),
	}
	if err := s.fieldRepo.Create(ctx, field); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create field", err.Error())
	}
	invalidate(ctx, s.cache, state.TemplateID, s.logger)

	s.logger.Info("Field created",
		zap.String("field_id", field.ID.String()),
		zap.String("state_id", state.ID.String()),
		zap.String("type", string(field.Type)))
	return s.toFieldResponse(field), nil
}

// GetField retrieves a field, removed fields included
func (s *fieldServiceImpl) GetField(ctx context.Context, fieldID uuid.UUID) (*dto.FieldResponse, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, toAppError(err, "Field not found")
	}
	return s.toFieldResponse(field), nil
}

// ListFields retrieves the live fields of a state in position order
func (s *fieldServiceImpl) ListFields(ctx context.Context, stateID uuid.UUID) ([]*dto.FieldResponse, error) {
	if _, err := s.stateRepo.FindByID(ctx, stateID); err != nil {
		return nil, toAppError(err, "State not found")
	}
	fields, err := s.fieldRepo.FindByState(ctx, stateID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch fields", err.Error())
	}

	responses := make([]*dto.FieldResponse, 0, len(fields))
	for _, field := range fields {
		responses = append(responses, s.toFieldResponse(field))
	}
	return responses, nil
}

// UpdateField changes a live field of an unlocked template. A new
// configuration is validated as a whole; nothing is stored on failure.
func (s *fieldServiceImpl) UpdateField(ctx context.Context, fieldID uuid.UUID, req *dto.UpdateFieldRequest) (*dto.FieldResponse, error) {
	field, state, err := s.liveField(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if _, err := unlockedTemplate(ctx, s.templateRepo, state.TemplateID); err != nil {
		return nil, err
	}

	if req.Parameters != nil {
		cfg, err := fieldtype.ValidateConfig(field.Type, *req.Parameters)
		if err != nil {
			return nil, toAppError(err, "")
		}
		if list, ok := cfg.(fieldtype.ListConfig); ok {
			items, err := s.listItemRepo.FindByField(ctx, field.ID)
			if err != nil {
				return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch list items", err.Error())
			}
			registry := &workflow.ListItems{Field: field, Items: items}
			if err := registry.CheckDefault(list); err != nil {
				return nil, toAppError(err, "")
			}
		}
		params, err := fieldtype.Encode(cfg)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to encode field configuration", err.Error())
		}
		field.Parameters = datatypes.JSON(params)
	}
	if req.Name != nil {
		field.Name = *req.Name
	}
	if req.Description != nil {
		field.Description = *req.Description
	}
	if req.Required != nil {
		field.Required = *req.Required
	}

	if err := s.fieldRepo.Update(ctx, field); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update field", err.Error())
	}
	invalidate(ctx, s.cache, state.TemplateID, s.logger)
	return s.toFieldResponse(field), nil
}

// SetFieldPosition moves a live field and renumbers the other fields of its state
func (s *fieldServiceImpl) SetFieldPosition(ctx context.Context, fieldID uuid.UUID, req *dto.SetFieldPositionRequest) (*dto.FieldResponse, error) {
	field, state, err := s.liveField(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if _, err := unlockedTemplate(ctx, s.templateRepo, state.TemplateID); err != nil {
		return nil, err
	}

	if err := s.fieldRepo.SetPosition(ctx, field, req.Position); err != nil {
		return nil, toAppError(err, "Field not found")
	}
	invalidate(ctx, s.cache, state.TemplateID, s.logger)
	return s.toFieldResponse(field), nil
}

// RemoveField soft-deletes a field. Stored values are kept but the field
// accepts no new ones. This works on locked templates too.
func (s *fieldServiceImpl) RemoveField(ctx context.Context, fieldID uuid.UUID) error {
	field, state, err := s.liveField(ctx, fieldID)
	if err != nil {
		return err
	}

	if err := s.fieldRepo.Remove(ctx, field, s.now()); err != nil {
		return toAppError(err, "Field not found")
	}
	invalidate(ctx, s.cache, state.TemplateID, s.logger)
	s.logger.Info("Field removed", zap.String("field_id", fieldID.String()))
	return nil
}

// ValidateConfig checks a configuration and returns its normalized form
func (s *fieldServiceImpl) ValidateConfig(ctx context.Context, req *dto.ValidateFieldConfigRequest) (*dto.ValidateFieldConfigResponse, error) {
	fieldType := domain.FieldType(req.Type)
	if !fieldType.IsValid() {
		return nil, response.NewValidationError("Invalid field type", req.Type)
	}
	cfg, err := fieldtype.ValidateConfig(fieldType, req.Parameters)
	if err != nil {
		return nil, toAppError(err, "")
	}
	return &dto.ValidateFieldConfigResponse{Type: req.Type, Parameters: cfg.Raw()}, nil
}

// liveField loads a field that has not been removed together with its state
func (s *fieldServiceImpl) liveField(ctx context.Context, fieldID uuid.UUID) (*domain.Field, *domain.State, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, nil, toAppError(err, "Field not found")
	}
	if field.IsRemoved() {
		return nil, nil, response.NewNotFoundError("Field not found", "field has been removed")
	}
	state, err := s.stateRepo.FindByID(ctx, field.StateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFoundError("State not found", "")
		}
		return nil, nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch state", err.Error())
	}
	return field, state, nil
}

func (s *fieldServiceImpl) toFieldResponse(field *domain.Field) *dto.FieldResponse {
	var params fieldtype.RawConfig
	if cfg, err := fieldtype.Decode(field.Type, field.Parameters); err == nil {
		params = cfg.Raw()
	} else {
		s.logger.Warn("Stored field configuration is invalid",
			zap.String("field_id", field.ID.String()),
			zap.Error(err))
	}
	return &dto.FieldResponse{
		ID:          field.ID,
		StateID:     field.StateID,
		Type:        string(field.Type),
		Name:        field.Name,
		Description: field.Description,
		Required:    field.Required,
		Position:    field.Position,
		Parameters:  params,
		Removed:     field.IsRemoved(),
		CreatedAt:   field.CreatedAt,
		UpdatedAt:   field.UpdatedAt,
	}
}
