package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/repository"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/workflow"
)

// PermissionService manages the role and group grants of templates and fields.
// Grants may change while a template is locked.
type PermissionService interface {
	GetTemplatePermissions(ctx context.Context, templateID uuid.UUID) ([]*dto.PermissionResponse, error)
	SetTemplateRolePermission(ctx context.Context, templateID uuid.UUID, req *dto.SetRolePermissionRequest) (*dto.PermissionResponse, error)
	SetTemplateGroupPermission(ctx context.Context, templateID uuid.UUID, req *dto.SetGroupPermissionRequest) (*dto.PermissionResponse, error)
	GetFieldPermissions(ctx context.Context, fieldID uuid.UUID) ([]*dto.PermissionResponse, error)
	SetFieldRolePermission(ctx context.Context, fieldID uuid.UUID, req *dto.SetRolePermissionRequest) (*dto.PermissionResponse, error)
	SetFieldGroupPermission(ctx context.Context, fieldID uuid.UUID, req *dto.SetGroupPermissionRequest) (*dto.PermissionResponse, error)
}

type permissionServiceImpl struct {
	permissionRepo repository.PermissionRepository
	templateRepo   repository.TemplateRepository
	stateRepo      repository.StateRepository
	fieldRepo      repository.FieldRepository
	groupRepo      repository.GroupRepository
	cache          WorkflowCache
	logger         *zap.Logger
}

// NewPermissionService creates a new instance of PermissionService
func NewPermissionService(permissionRepo repository.PermissionRepository, templateRepo repository.TemplateRepository, stateRepo repository.StateRepository, fieldRepo repository.FieldRepository, groupRepo repository.GroupRepository, cache WorkflowCache, logger *zap.Logger) PermissionService {
	return &permissionServiceImpl{
		permissionRepo: permissionRepo,
		templateRepo:   templateRepo,
		stateRepo:      stateRepo,
		fieldRepo:      fieldRepo,
		groupRepo:      groupRepo,
		cache:          cache,
		logger:         logger,
	}
}

var fieldPermissions = []domain.FieldPermission{domain.FieldPermissionRead, domain.FieldPermissionWrite}

// GetTemplatePermissions lists every template permission with its holders
func (s *permissionServiceImpl) GetTemplatePermissions(ctx context.Context, templateID uuid.UUID) ([]*dto.PermissionResponse, error) {
	model, err := s.model(ctx, templateID)
	if err != nil {
		return nil, err
	}
	subject := workflow.TemplateSubject(templateID)
	responses := make([]*dto.PermissionResponse, 0, len(domain.TemplatePermissions))
	for _, perm := range domain.TemplatePermissions {
		responses = append(responses, toPermissionResponse(model, subject, workflow.Permission(perm)))
	}
	return responses, nil
}

func (s *permissionServiceImpl) SetTemplateRolePermission(ctx context.Context, templateID uuid.UUID, req *dto.SetRolePermissionRequest) (*dto.PermissionResponse, error) {
	perm := domain.TemplatePermission(req.Permission)
	if !perm.IsValid() {
		return nil, response.NewValidationError("Invalid template permission", req.Permission)
	}
	roles, err := parseRoles(req.Roles)
	if err != nil {
		return nil, err
	}
	if _, err := s.templateRepo.FindByID(ctx, templateID); err != nil {
		return nil, toAppError(err, "Template not found")
	}

	if err := s.permissionRepo.SetTemplateRoles(ctx, templateID, perm, roles); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update permission", err.Error())
	}
	return s.changed(ctx, templateID, workflow.TemplateSubject(templateID), workflow.Permission(perm))
}

func (s *permissionServiceImpl) SetTemplateGroupPermission(ctx context.Context, templateID uuid.UUID, req *dto.SetGroupPermissionRequest) (*dto.PermissionResponse, error) {
	perm := domain.TemplatePermission(req.Permission)
	if !perm.IsValid() {
		return nil, response.NewValidationError("Invalid template permission", req.Permission)
	}
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, toAppError(err, "Template not found")
	}
	if err := checkGroups(ctx, s.groupRepo, template.ProjectID, req.GroupIDs); err != nil {
		return nil, err
	}

	if err := s.permissionRepo.SetTemplateGroups(ctx, templateID, perm, req.GroupIDs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update permission", err.Error())
	}
	return s.changed(ctx, templateID, workflow.TemplateSubject(templateID), workflow.Permission(perm))
}

// GetFieldPermissions lists who may read and who may write a field
func (s *permissionServiceImpl) GetFieldPermissions(ctx context.Context, fieldID uuid.UUID) ([]*dto.PermissionResponse, error) {
	_, template, err := s.fieldTemplate(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	model, err := s.model(ctx, template.ID)
	if err != nil {
		return nil, err
	}
	subject := workflow.FieldSubject(fieldID)
	responses := make([]*dto.PermissionResponse, 0, len(fieldPermissions))
	for _, perm := range fieldPermissions {
		responses = append(responses, toPermissionResponse(model, subject, workflow.Permission(perm)))
	}
	return responses, nil
}

// SetFieldRolePermission makes the given roles the holders of a field
// permission. A role holds either read or write, so the other grant of a
// listed role is replaced.
func (s *permissionServiceImpl) SetFieldRolePermission(ctx context.Context, fieldID uuid.UUID, req *dto.SetRolePermissionRequest) (*dto.PermissionResponse, error) {
	perm := domain.FieldPermission(req.Permission)
	if !perm.IsValid() {
		return nil, response.NewValidationError("Invalid field permission", req.Permission)
	}
	roles, err := parseRoles(req.Roles)
	if err != nil {
		return nil, err
	}
	_, template, err := s.fieldTemplate(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	if err := s.permissionRepo.SetFieldRoles(ctx, fieldID, perm, roles); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update permission", err.Error())
	}
	return s.changed(ctx, template.ID, workflow.FieldSubject(fieldID), workflow.Permission(perm))
}

func (s *permissionServiceImpl) SetFieldGroupPermission(ctx context.Context, fieldID uuid.UUID, req *dto.SetGroupPermissionRequest) (*dto.PermissionResponse, error) {
	perm := domain.FieldPermission(req.Permission)
	if !perm.IsValid() {
		return nil, response.NewValidationError("Invalid field permission", req.Permission)
	}
	_, template, err := s.fieldTemplate(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if err := checkGroups(ctx, s.groupRepo, template.ProjectID, req.GroupIDs); err != nil {
		return nil, err
	}

	if err := s.permissionRepo.SetFieldGroups(ctx, fieldID, perm, req.GroupIDs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update permission", err.Error())
	}
	return s.changed(ctx, template.ID, workflow.FieldSubject(fieldID), workflow.Permission(perm))
}

// changed drops the cached model and answers with the stored holders of perm
func (s *permissionServiceImpl) changed(ctx context.Context, templateID uuid.UUID, subject workflow.Subject, perm workflow.Permission) (*dto.PermissionResponse, error) {
	invalidate(ctx, s.cache, templateID, s.logger)
	model, err := s.model(ctx, templateID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Permission updated",
		zap.String("template_id", templateID.String()),
		zap.String("subject", string(subject.Kind)),
		zap.String("permission", string(perm)))
	return toPermissionResponse(model, subject, perm), nil
}

func (s *permissionServiceImpl) model(ctx context.Context, templateID uuid.UUID) (*workflow.Model, error) {
	model, err := s.cache.Model(ctx, templateID)
	if err != nil {
		return nil, toAppError(err, "Template not found")
	}
	return model, nil
}

// fieldTemplate loads a live field and the template it belongs to
func (s *permissionServiceImpl) fieldTemplate(ctx context.Context, fieldID uuid.UUID) (*domain.Field, *domain.Template, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, nil, toAppError(err, "Field not found")
	}
	if field.IsRemoved() {
		return nil, nil, response.NewNotFoundError("Field not found", "field has been removed")
	}
	state, err := s.stateRepo.FindByID(ctx, field.StateID)
	if err != nil {
		return nil, nil, toAppError(err, "State not found")
	}
	template, err := s.templateRepo.FindByID(ctx, state.TemplateID)
	if err != nil {
		return nil, nil, toAppError(err, "Template not found")
	}
	return field, template, nil
}

func toPermissionResponse(model *workflow.Model, subject workflow.Subject, perm workflow.Permission) *dto.PermissionResponse {
	return &dto.PermissionResponse{
		Permission: string(perm),
		Roles:      roleNames(model.Matrix.Roles(subject, perm)),
		GroupIDs:   nonNilIDs(model.Matrix.Groups(subject, perm)),
	}
}
