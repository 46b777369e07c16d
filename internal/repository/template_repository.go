package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
)

// TemplateRepository defines the interface for template data access
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.Template) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Template, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	Update(ctx context.Context, template *domain.Template) error
	SetLocked(ctx context.Context, id uuid.UUID, locked bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	Counts(ctx context.Context) (total, locked int64, err error)
	LockTemplatesWithIssues(ctx context.Context) (int64, error)
}

type templateRepositoryImpl struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new instance of TemplateRepository
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepositoryImpl{db: db}
}

func (r *templateRepositoryImpl) Create(ctx context.Context, template *domain.Template) error {
	return r.db.WithContext(ctx).Omit("States", "Project").Create(template).Error
}

func (r *templateRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	var template domain.Template
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// FindByProject returns the templates of a project ordered by name
func (r *templateRepositoryImpl) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Template, error) {
	var templates []*domain.Template
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("name ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepositoryImpl) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Template{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

// Update writes the descriptive columns; the lock flag has its own method
func (r *templateRepositoryImpl) Update(ctx context.Context, template *domain.Template) error {
	return r.db.WithContext(ctx).Model(template).
		Select("name", "prefix", "description", "critical_age", "frozen_time", "updated_at").
		Updates(template).Error
}

func (r *templateRepositoryImpl) SetLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Template{}).Where("id = ?", id).Update("locked", locked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a template together with its workflow. Refused by the
// service while the template has issues.
func (r *templateRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stateIDs []uuid.UUID
		if err := tx.Model(&domain.State{}).Where("template_id = ?", id).Pluck("id", &stateIDs).Error; err != nil {
			return err
		}
		for _, stateID := range stateIDs {
			if err := deleteStateTx(tx, stateID); err != nil {
				return err
			}
		}
		if err := tx.Where("template_id = ?", id).Delete(&domain.TemplateRolePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&domain.TemplateGroupPermission{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Template{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Counts returns the number of templates and of locked templates
func (r *templateRepositoryImpl) Counts(ctx context.Context) (total, locked int64, err error) {
	db := r.db.WithContext(ctx).Model(&domain.Template{})
	if err = db.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.WithContext(ctx).Model(&domain.Template{}).Where("locked = ?", true).Count(&locked).Error; err != nil {
		return 0, 0, err
	}
	return total, locked, nil
}

// LockTemplatesWithIssues locks every unlocked template that has issues
// and returns how many were changed
func (r *templateRepositoryImpl) LockTemplatesWithIssues(ctx context.Context) (int64, error) {
	withIssues := r.db.Model(&domain.Issue{}).Select("template_id")
	result := r.db.WithContext(ctx).Model(&domain.Template{}).
		Where("locked = ? AND id IN (?)", false, withIssues).
		Update("locked", true)
	return result.RowsAffected, result.Error
}
