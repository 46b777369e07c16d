package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-workflow-api/internal/workflow"
)

// SnapshotLoader loads everything the workflow executor needs about a template
type SnapshotLoader interface {
	Load(ctx context.Context, templateID uuid.UUID) (*workflow.Snapshot, error)
}

type snapshotRepositoryImpl struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a SnapshotLoader reading from the database
func NewSnapshotRepository(db *gorm.DB) SnapshotLoader {
	return &snapshotRepositoryImpl{db: db}
}

func (r *snapshotRepositoryImpl) Load(ctx context.Context, templateID uuid.UUID) (*workflow.Snapshot, error) {
	db := r.db.WithContext(ctx)
	s := &workflow.Snapshot{}

	if err := db.Where("id = ?", templateID).First(&s.Template).Error; err != nil {
		return nil, err
	}
	if err := db.Where("template_id = ?", templateID).Order("name ASC").Find(&s.States).Error; err != nil {
		return nil, err
	}
	if err := db.Where("template_id = ?", templateID).Find(&s.TemplateRoles).Error; err != nil {
		return nil, err
	}
	if err := db.Where("template_id = ?", templateID).Find(&s.TemplateGroups).Error; err != nil {
		return nil, err
	}

	stateIDs := make([]uuid.UUID, 0, len(s.States))
	for _, st := range s.States {
		stateIDs = append(stateIDs, st.ID)
	}
	if len(stateIDs) == 0 {
		return s, nil
	}

	if err := db.Where("state_id IN ?", stateIDs).Order("position ASC").Find(&s.Fields).Error; err != nil {
		return nil, err
	}
	if err := db.Where("state_id IN ?", stateIDs).Find(&s.ResponsibleGroups).Error; err != nil {
		return nil, err
	}
	if err := db.Where("from_state_id IN ?", stateIDs).Find(&s.TransitionRoles).Error; err != nil {
		return nil, err
	}
	if err := db.Where("from_state_id IN ?", stateIDs).Find(&s.TransitionGroups).Error; err != nil {
		return nil, err
	}

	if len(s.ResponsibleGroups) > 0 {
		groupIDs := make([]uuid.UUID, 0, len(s.ResponsibleGroups))
		for _, g := range s.ResponsibleGroups {
			groupIDs = append(groupIDs, g.GroupID)
		}
		if err := db.Where("group_id IN ?", uniqueIDs(groupIDs)).Find(&s.GroupMembers).Error; err != nil {
			return nil, err
		}
	}

	if len(s.Fields) == 0 {
		return s, nil
	}
	fieldIDs := make([]uuid.UUID, 0, len(s.Fields))
	for _, f := range s.Fields {
		fieldIDs = append(fieldIDs, f.ID)
	}
	if err := db.Where("field_id IN ?", fieldIDs).Order("value ASC").Find(&s.ListItems).Error; err != nil {
		return nil, err
	}
	if err := db.Where("field_id IN ?", fieldIDs).Find(&s.FieldRoles).Error; err != nil {
		return nil, err
	}
	if err := db.Where("field_id IN ?", fieldIDs).Find(&s.FieldGroups).Error; err != nil {
		return nil, err
	}
	return s, nil
}

