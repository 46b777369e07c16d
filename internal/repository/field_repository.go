package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
)

// FieldRepository defines the interface for field data access
type FieldRepository interface {
	Create(ctx context.Context, field *domain.Field) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error)
	FindByState(ctx context.Context, stateID uuid.UUID) ([]*domain.Field, error)
	Update(ctx context.Context, field *domain.Field) error
	SetPosition(ctx context.Context, field *domain.Field, position int) error
	Remove(ctx context.Context, field *domain.Field, at time.Time) error
}

type fieldRepositoryImpl struct {
	db *gorm.DB
}

// NewFieldRepository creates a new instance of FieldRepository
func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepositoryImpl{db: db}
}

// Create appends the field after the last live field of its state
func (r *fieldRepositoryImpl) Create(ctx context.Context, field *domain.Field) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&domain.Field{}).
			Where("state_id = ? AND removed_at IS NULL", field.StateID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		field.Position = last + 1
		return tx.Create(field).Error
	})
}

func (r *fieldRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	var field domain.Field
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

// FindByState returns the live fields of a state ordered by position
func (r *fieldRepositoryImpl) FindByState(ctx context.Context, stateID uuid.UUID) ([]*domain.Field, error) {
	var fields []*domain.Field
	if err := r.db.WithContext(ctx).
		Where("state_id = ? AND removed_at IS NULL", stateID).
		Order("position ASC").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *fieldRepositoryImpl) Update(ctx context.Context, field *domain.Field) error {
	return r.db.WithContext(ctx).Model(field).
		Select("name", "description", "required", "parameters", "updated_at").
		Updates(field).Error
}

// SetPosition moves a live field to position (1-based, clamped to the
// number of live fields) and renumbers its siblings
func (r *fieldRepositoryImpl) SetPosition(ctx context.Context, field *domain.Field, position int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var siblings []domain.Field
		if err := tx.Where("state_id = ? AND removed_at IS NULL", field.StateID).
			Order("position ASC").
			Find(&siblings).Error; err != nil {
			return err
		}

		order := make([]uuid.UUID, 0, len(siblings))
		for _, s := range siblings {
			if s.ID != field.ID {
				order = append(order, s.ID)
			}
		}
		if len(order) == len(siblings) {
			return gorm.ErrRecordNotFound
		}

		if position < 1 {
			position = 1
		}
		if position > len(siblings) {
			position = len(siblings)
		}
		order = append(order[:position-1], append([]uuid.UUID{field.ID}, order[position-1:]...)...)

		if err := renumberTx(tx, order); err != nil {
			return err
		}
		field.Position = position
		return nil
	})
}

// Remove soft-deletes a field and closes the gap in the positions
func (r *fieldRepositoryImpl) Remove(ctx context.Context, field *domain.Field, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Field{}).
			Where("id = ? AND removed_at IS NULL", field.ID).
			Update("removed_at", at)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		field.RemovedAt = &at

		var order []uuid.UUID
		if err := tx.Model(&domain.Field{}).
			Where("state_id = ? AND removed_at IS NULL", field.StateID).
			Order("position ASC").
			Pluck("id", &order).Error; err != nil {
			return err
		}
		return renumberTx(tx, order)
	})
}

func renumberTx(tx *gorm.DB, order []uuid.UUID) error {
	for i, id := range order {
		if err := tx.Model(&domain.Field{}).Where("id = ?", id).Update("position", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
