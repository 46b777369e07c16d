package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
)

// ListItemRepository defines the interface for list item data access
type ListItemRepository interface {
	Create(ctx context.Context, item *domain.ListItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ListItem, error)
	FindByField(ctx context.Context, fieldID uuid.UUID) ([]domain.ListItem, error)
	Update(ctx context.Context, item *domain.ListItem) error
	Delete(ctx context.Context, item *domain.ListItem, fieldParameters datatypes.JSON) error
}

type listItemRepositoryImpl struct {
	db *gorm.DB
}

// NewListItemRepository creates a new instance of ListItemRepository
func NewListItemRepository(db *gorm.DB) ListItemRepository {
	return &listItemRepositoryImpl{db: db}
}

func (r *listItemRepositoryImpl) Create(ctx context.Context, item *domain.ListItem) error {
	return r.db.WithContext(ctx).Omit("Field").Create(item).Error
}

func (r *listItemRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.ListItem, error) {
	var item domain.ListItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByField returns the items of a list field ordered by value
func (r *listItemRepositoryImpl) FindByField(ctx context.Context, fieldID uuid.UUID) ([]domain.ListItem, error) {
	var items []domain.ListItem
	if err := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("value ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *listItemRepositoryImpl) Update(ctx context.Context, item *domain.ListItem) error {
	return r.db.WithContext(ctx).Model(item).
		Select("value", "text", "updated_at").
		Updates(item).Error
}

// Delete removes an item. A non-nil fieldParameters replaces the field's
// configuration in the same transaction (used when the item was its default).
func (r *listItemRepositoryImpl) Delete(ctx context.Context, item *domain.ListItem, fieldParameters datatypes.JSON) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.ListItem{}, "id = ?", item.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if fieldParameters == nil {
			return nil
		}
		return tx.Model(&domain.Field{}).Where("id = ?", item.FieldID).Update("parameters", fieldParameters).Error
	})
}
