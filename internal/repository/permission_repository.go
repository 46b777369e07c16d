package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
)

// PermissionRepository stores role and group grants. Every Set method
// replaces the holders of one permission on one subject.
type PermissionRepository interface {
	SetTemplateRoles(ctx context.Context, templateID uuid.UUID, perm domain.TemplatePermission, roles []domain.Role) error
	SetTemplateGroups(ctx context.Context, templateID uuid.UUID, perm domain.TemplatePermission, groupIDs []uuid.UUID) error
	SetFieldRoles(ctx context.Context, fieldID uuid.UUID, perm domain.FieldPermission, roles []domain.Role) error
	SetFieldGroups(ctx context.Context, fieldID uuid.UUID, perm domain.FieldPermission, groupIDs []uuid.UUID) error
	SetTransitionRoles(ctx context.Context, from, to uuid.UUID, roles []domain.Role) error
	SetTransitionGroups(ctx context.Context, from, to uuid.UUID, groupIDs []uuid.UUID) error
	SetTransition(ctx context.Context, from, to uuid.UUID, roles []domain.Role, groupIDs []uuid.UUID) error
}

type permissionRepositoryImpl struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new instance of PermissionRepository
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepositoryImpl{db: db}
}

func (r *permissionRepositoryImpl) SetTemplateRoles(ctx context.Context, templateID uuid.UUID, perm domain.TemplatePermission, roles []domain.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ? AND permission = ?", templateID, perm).
			Delete(&domain.TemplateRolePermission{}).Error; err != nil {
			return err
		}
		rows := make([]domain.TemplateRolePermission, 0, len(roles))
		for _, role := range uniqueRoles(roles) {
			rows = append(rows, domain.TemplateRolePermission{TemplateID: templateID, Role: role, Permission: perm})
		}
		return createRows(tx, rows)
	})
}

func (r *permissionRepositoryImpl) SetTemplateGroups(ctx context.Context, templateID uuid.UUID, perm domain.TemplatePermission, groupIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ? AND permission = ?", templateID, perm).
			Delete(&domain.TemplateGroupPermission{}).Error; err != nil {
			return err
		}
		rows := make([]domain.TemplateGroupPermission, 0, len(groupIDs))
		for _, id := range uniqueIDs(groupIDs) {
			rows = append(rows, domain.TemplateGroupPermission{TemplateID: templateID, GroupID: id, Permission: perm})
		}
		return createRows(tx, rows)
	})
}

// SetFieldRoles makes roles the holders of perm on a field. A role holds a
// single field permission, so granting one overwrites the other.
func (r *permissionRepositoryImpl) SetFieldRoles(ctx context.Context, fieldID uuid.UUID, perm domain.FieldPermission, roles []domain.Role) error {
	roles = uniqueRoles(roles)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("field_id = ? AND permission = ?", fieldID, perm)
		if len(roles) > 0 {
			q = tx.Where("field_id = ? AND (permission = ? OR role IN ?)", fieldID, perm, roles)
		}
		if err := q.Delete(&domain.FieldRolePermission{}).Error; err != nil {
			return err
		}
		rows := make([]domain.FieldRolePermission, 0, len(roles))
		for _, role := range roles {
			rows = append(rows, domain.FieldRolePermission{FieldID: fieldID, Role: role, Permission: perm})
		}
		return createRows(tx, rows)
	})
}

func (r *permissionRepositoryImpl) SetFieldGroups(ctx context.Context, fieldID uuid.UUID, perm domain.FieldPermission, groupIDs []uuid.UUID) error {
	groupIDs = uniqueIDs(groupIDs)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("field_id = ? AND permission = ?", fieldID, perm)
		if len(groupIDs) > 0 {
			q = tx.Where("field_id = ? AND (permission = ? OR group_id IN ?)", fieldID, perm, groupIDs)
		}
		if err := q.Delete(&domain.FieldGroupPermission{}).Error; err != nil {
			return err
		}
		rows := make([]domain.FieldGroupPermission, 0, len(groupIDs))
		for _, id := range groupIDs {
			rows = append(rows, domain.FieldGroupPermission{FieldID: fieldID, GroupID: id, Permission: perm})
		}
		return createRows(tx, rows)
	})
}

func (r *permissionRepositoryImpl) SetTransitionRoles(ctx context.Context, from, to uuid.UUID, roles []domain.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return setTransitionRolesTx(tx, from, to, roles)
	})
}

func (r *permissionRepositoryImpl) SetTransitionGroups(ctx context.Context, from, to uuid.UUID, groupIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return setTransitionGroupsTx(tx, from, to, groupIDs)
	})
}

// SetTransition replaces both the roles and the groups of a transition.
// With neither left the transition no longer exists.
func (r *permissionRepositoryImpl) SetTransition(ctx context.Context, from, to uuid.UUID, roles []domain.Role, groupIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := setTransitionRolesTx(tx, from, to, roles); err != nil {
			return err
		}
		return setTransitionGroupsTx(tx, from, to, groupIDs)
	})
}

func setTransitionRolesTx(tx *gorm.DB, from, to uuid.UUID, roles []domain.Role) error {
	if err := tx.Where("from_state_id = ? AND to_state_id = ?", from, to).
		Delete(&domain.TransitionRole{}).Error; err != nil {
		return err
	}
	rows := make([]domain.TransitionRole, 0, len(roles))
	for _, role := range uniqueRoles(roles) {
		rows = append(rows, domain.TransitionRole{FromStateID: from, ToStateID: to, Role: role})
	}
	return createRows(tx, rows)
}

func setTransitionGroupsTx(tx *gorm.DB, from, to uuid.UUID, groupIDs []uuid.UUID) error {
	if err := tx.Where("from_state_id = ? AND to_state_id = ?", from, to).
		Delete(&domain.TransitionGroup{}).Error; err != nil {
		return err
	}
	rows := make([]domain.TransitionGroup, 0, len(groupIDs))
	for _, id := range uniqueIDs(groupIDs) {
		rows = append(rows, domain.TransitionGroup{FromStateID: from, ToStateID: to, GroupID: id})
	}
	return createRows(tx, rows)
}

func createRows[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func uniqueRoles(roles []domain.Role) []domain.Role {
	seen := make(map[domain.Role]struct{}, len(roles))
	out := make([]domain.Role, 0, len(roles))
	for _, role := range roles {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}
