package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"issue-workflow-api/internal/domain"
)

// GroupRepository defines the interface for group and membership data access
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Group, error)
	FindVisible(ctx context.Context, projectID *uuid.UUID) ([]*domain.Group, error)
	Update(ctx context.Context, group *domain.Group) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error
	RemoveMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error
	FindMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
	FindGroupIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type groupRepositoryImpl struct {
	db *gorm.DB
}

// NewGroupRepository creates a new instance of GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepositoryImpl{db: db}
}

func (r *groupRepositoryImpl) Create(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Omit("Members").Create(group).Error
}

func (r *groupRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	var group domain.Group
	if err := r.db.WithContext(ctx).Preload("Members").Where("id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Group, error) {
	if len(ids) == 0 {
		return []*domain.Group{}, nil
	}
	var groups []*domain.Group
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// FindVisible returns the global groups, plus the local groups of projectID when set
func (r *groupRepositoryImpl) FindVisible(ctx context.Context, projectID *uuid.UUID) ([]*domain.Group, error) {
	q := r.db.WithContext(ctx).Where("project_id IS NULL")
	if projectID != nil {
		q = q.Or("project_id = ?", *projectID)
	}
	var groups []*domain.Group
	if err := q.Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepositoryImpl) Update(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Model(group).
		Select("name", "description", "updated_at").
		Updates(group).Error
}

// Delete removes a group with its memberships and every grant made to it
func (r *groupRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.GroupMember{},
			&domain.StateResponsibleGroup{},
			&domain.TemplateGroupPermission{},
			&domain.FieldGroupPermission{},
			&domain.TransitionGroup{},
		} {
			if err := tx.Where("group_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&domain.Group{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddMembers adds users to a group; existing members are left alone
func (r *groupRepositoryImpl) AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]domain.GroupMember, 0, len(userIDs))
	for _, id := range uniqueIDs(userIDs) {
		rows = append(rows, domain.GroupMember{GroupID: groupID, UserID: id})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *groupRepositoryImpl) RemoveMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("group_id = ? AND user_id IN ?", groupID, userIDs).
		Delete(&domain.GroupMember{}).Error
}

func (r *groupRepositoryImpl) FindMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// FindGroupIDsByUser returns every group the user belongs to
func (r *groupRepositoryImpl) FindGroupIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.GroupMember{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error
	return ids, err
}
