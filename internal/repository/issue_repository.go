package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"issue-workflow-api/internal/domain"
)

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue, values map[uuid.UUID]*string) error
	Update(ctx context.Context, issue *domain.Issue, values map[uuid.UUID]*string) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error)
	FindByTemplate(ctx context.Context, templateID uuid.UUID, page, limit int) ([]*domain.Issue, int64, error)
	FindExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
	CountByTemplate(ctx context.Context, templateID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type issueRepositoryImpl struct {
	db *gorm.DB
}

// NewIssueRepository creates a new instance of IssueRepository
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepositoryImpl{db: db}
}

// Create inserts the issue with its field values and locks its template
func (r *issueRepositoryImpl) Create(ctx context.Context, issue *domain.Issue, values map[uuid.UUID]*string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Values").Create(issue).Error; err != nil {
			return err
		}
		if err := upsertValuesTx(tx, issue, values); err != nil {
			return err
		}
		return tx.Model(&domain.Template{}).
			Where("id = ? AND locked = ?", issue.TemplateID, false).
			Update("locked", true).Error
	})
}

// Update writes the state, responsible person, subject and closing time of
// an issue together with the changed field values
func (r *issueRepositoryImpl) Update(ctx context.Context, issue *domain.Issue, values map[uuid.UUID]*string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(issue).
			Select("state_id", "responsible_id", "subject", "closed_at", "updated_at").
			Updates(issue).Error; err != nil {
			return err
		}
		return upsertValuesTx(tx, issue, values)
	})
}

func (r *issueRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error) {
	var issue domain.Issue
	if err := r.db.WithContext(ctx).Preload("Values").Where("id = ?", id).First(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// FindByTemplate returns one page of issues, newest first, with the total count
func (r *issueRepositoryImpl) FindByTemplate(ctx context.Context, templateID uuid.UUID, page, limit int) ([]*domain.Issue, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Issue{}).
		Where("template_id = ?", templateID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var issues []*domain.Issue
	if err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&issues).Error; err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

// FindExistingIDs returns the subset of ids that name existing issues
func (r *issueRepositoryImpl) FindExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	found := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var existing []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&domain.Issue{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error; err != nil {
		return nil, err
	}
	for _, id := range existing {
		found[id] = struct{}{}
	}
	return found, nil
}

func (r *issueRepositoryImpl) CountByTemplate(ctx context.Context, templateID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Issue{}).Where("template_id = ?", templateID).Count(&count).Error
	return count, err
}

func (r *issueRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Issue{}).Count(&count).Error
	return count, err
}

func upsertValuesTx(tx *gorm.DB, issue *domain.Issue, values map[uuid.UUID]*string) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]domain.FieldValue, 0, len(values))
	for fieldID, v := range values {
		rows = append(rows, domain.FieldValue{IssueID: issue.ID, FieldID: fieldID, Value: v, UpdatedAt: now})
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "issue_id"}, {Name: "field_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error; err != nil {
		return err
	}
	issue.Values = mergeValues(issue.Values, rows)
	return nil
}

func mergeValues(current, changed []domain.FieldValue) []domain.FieldValue {
	idx := make(map[uuid.UUID]int, len(current))
	for i, v := range current {
		idx[v.FieldID] = i
	}
	for _, v := range changed {
		if i, ok := idx[v.FieldID]; ok {
			current[i] = v
			continue
		}
		idx[v.FieldID] = len(current)
		current = append(current, v)
	}
	return current
}
