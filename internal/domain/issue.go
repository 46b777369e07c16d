package domain

import (
	"time"

	"github.com/google/uuid"
)

// Issue is an instance of a template occupying exactly one state
type Issue struct {
	BaseModel
	TemplateID    uuid.UUID    `gorm:"type:uuid;not null;index:idx_issues_template_id" json:"template_id"`
	StateID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_issues_state_id" json:"state_id"`
	AuthorID      uuid.UUID    `gorm:"type:uuid;not null;index:idx_issues_author_id" json:"author_id"`
	ResponsibleID *uuid.UUID   `gorm:"type:uuid;index:idx_issues_responsible_id" json:"responsible_id"`
	Subject       string       `gorm:"type:varchar(250);not null" json:"subject"`
	ClosedAt      *time.Time   `gorm:"type:timestamp" json:"closed_at"`
	Values        []FieldValue `gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE" json:"values,omitempty"`
}

// TableName specifies the table name for Issue
func (Issue) TableName() string {
	return "issues"
}

// FieldValue is the canonical text form of one field value of an issue.
// A nil Value means the field is empty.
type FieldValue struct {
	IssueID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"issue_id"`
	FieldID   uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_field_values_field_id" json:"field_id"`
	Value     *string   `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for FieldValue
func (FieldValue) TableName() string {
	return "field_values"
}
