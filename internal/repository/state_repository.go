package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
)

// StateRepository defines the interface for workflow state data access
type StateRepository interface {
	Create(ctx context.Context, state *domain.State) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.State, error)
	FindByTemplate(ctx context.Context, templateID uuid.UUID) ([]*domain.State, error)
	Update(ctx context.Context, state *domain.State) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindResponsibleGroups(ctx context.Context, stateID uuid.UUID) ([]uuid.UUID, error)
	ReplaceResponsibleGroups(ctx context.Context, stateID uuid.UUID, groupIDs []uuid.UUID) error
}

type stateRepositoryImpl struct {
	db *gorm.DB
}

// NewStateRepository creates a new instance of StateRepository
func NewStateRepository(db *gorm.DB) StateRepository {
	return &stateRepositoryImpl{db: db}
}

// Create inserts a state. A new initial state demotes the previous one.
func (r *stateRepositoryImpl) Create(ctx context.Context, state *domain.State) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := demoteInitialTx(tx, state); err != nil {
			return err
		}
		return tx.Omit("Fields").Create(state).Error
	})
}

func (r *stateRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.State, error) {
	var state domain.State
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// FindByTemplate returns the states of a template, initial first then by name
func (r *stateRepositoryImpl) FindByTemplate(ctx context.Context, templateID uuid.UUID) ([]*domain.State, error) {
	var states []*domain.State
	if err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("CASE type WHEN 'initial' THEN 0 WHEN 'normal' THEN 1 ELSE 2 END, name ASC").
		Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// Update writes a state. Promoting to initial demotes the previous initial
// state; turning a state final drops its outgoing transitions and next state.
func (r *stateRepositoryImpl) Update(ctx context.Context, state *domain.State) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := demoteInitialTx(tx, state); err != nil {
			return err
		}
		if state.Type == domain.StateTypeFinal {
			state.NextStateID = nil
			if err := tx.Where("from_state_id = ?", state.ID).Delete(&domain.TransitionRole{}).Error; err != nil {
				return err
			}
			if err := tx.Where("from_state_id = ?", state.ID).Delete(&domain.TransitionGroup{}).Error; err != nil {
				return err
			}
		}
		return tx.Model(state).
			Select("name", "type", "responsible", "next_state_id", "updated_at").
			Updates(state).Error
	})
}

// Delete removes a state with its fields, list items and grants
func (r *stateRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteStateTx(tx, id)
	})
}

func (r *stateRepositoryImpl) FindResponsibleGroups(ctx context.Context, stateID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.StateResponsibleGroup{}).
		Where("state_id = ?", stateID).
		Pluck("group_id", &ids).Error
	return ids, err
}

// ReplaceResponsibleGroups sets the candidate pool of a state
func (r *stateRepositoryImpl) ReplaceResponsibleGroups(ctx context.Context, stateID uuid.UUID, groupIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("state_id = ?", stateID).Delete(&domain.StateResponsibleGroup{}).Error; err != nil {
			return err
		}
		if len(groupIDs) == 0 {
			return nil
		}
		rows := make([]domain.StateResponsibleGroup, 0, len(groupIDs))
		for _, id := range uniqueIDs(groupIDs) {
			rows = append(rows, domain.StateResponsibleGroup{StateID: stateID, GroupID: id})
		}
		return tx.Create(&rows).Error
	})
}

func demoteInitialTx(tx *gorm.DB, state *domain.State) error {
	if state.Type != domain.StateTypeInitial {
		return nil
	}
	return tx.Model(&domain.State{}).
		Where("template_id = ? AND type = ? AND id <> ?", state.TemplateID, domain.StateTypeInitial, state.ID).
		Update("type", domain.StateTypeNormal).Error
}

func deleteStateTx(tx *gorm.DB, id uuid.UUID) error {
	var fieldIDs []uuid.UUID
	if err := tx.Model(&domain.Field{}).Where("state_id = ?", id).Pluck("id", &fieldIDs).Error; err != nil {
		return err
	}
	if len(fieldIDs) > 0 {
		for _, model := range []interface{}{&domain.ListItem{}, &domain.FieldRolePermission{}, &domain.FieldGroupPermission{}, &domain.FieldValue{}} {
			if err := tx.Where("field_id IN ?", fieldIDs).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("id IN ?", fieldIDs).Delete(&domain.Field{}).Error; err != nil {
			return err
		}
	}

	for _, model := range []interface{}{&domain.TransitionRole{}, &domain.TransitionGroup{}} {
		if err := tx.Where("from_state_id = ? OR to_state_id = ?", id, id).Delete(model).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("state_id = ?", id).Delete(&domain.StateResponsibleGroup{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&domain.State{}).Where("next_state_id = ?", id).Update("next_state_id", nil).Error; err != nil {
		return err
	}

	result := tx.Delete(&domain.State{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
