package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FieldType is the closed set of supported field kinds
type FieldType string

const (
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDate     FieldType = "date"
	FieldTypeDecimal  FieldType = "decimal"
	FieldTypeDuration FieldType = "duration"
	FieldTypeIssue    FieldType = "issue"
	FieldTypeList     FieldType = "list"
	FieldTypeNumber   FieldType = "number"
	FieldTypeString   FieldType = "string"
	FieldTypeText     FieldType = "text"
)

// FieldTypes lists every supported field type
var FieldTypes = []FieldType{
	FieldTypeCheckbox,
	FieldTypeDate,
	FieldTypeDecimal,
	FieldTypeDuration,
	FieldTypeIssue,
	FieldTypeList,
	FieldTypeNumber,
	FieldTypeString,
	FieldTypeText,
}

// IsValid reports whether t is one of the supported field types
func (t FieldType) IsValid() bool {
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Field is a typed data slot attached to a workflow state.
// Parameters holds the type-specific configuration as JSON.
type Field struct {
	BaseModel
	StateID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_fields_state_id" json:"state_id"`
	Type        FieldType      `gorm:"type:varchar(10);not null" json:"type"`
	Name        string         `gorm:"type:varchar(50);not null" json:"name"`
	Description string         `gorm:"type:varchar(1000)" json:"description"`
	Required    bool           `gorm:"not null;default:false" json:"required"`
	Position    int            `gorm:"not null" json:"position"`
	Parameters  datatypes.JSON `gorm:"type:jsonb" json:"parameters"`
	RemovedAt   *time.Time     `gorm:"index:idx_fields_removed_at" json:"removed_at,omitempty"`
}

// TableName specifies the table name for Field
func (Field) TableName() string {
	return "fields"
}

// IsRemoved reports whether the field has been soft-deleted
func (f *Field) IsRemoved() bool {
	return f.RemovedAt != nil
}
