package dto

import (
	"time"

	"github.com/google/uuid"

	"issue-workflow-api/internal/fieldtype"
)

// CreateFieldRequest represents the request to add a field to a state
// @Description parameters depend on type: minimum/maximum/default for numeric types,
// @Description maxlength/default/pcre for string and text, default for checkbox and list
type CreateFieldRequest struct {
	StateID     uuid.UUID           `json:"stateId" binding:"required"`
	Type        string              `json:"type" binding:"required,oneof=checkbox date decimal duration issue list number string text" example:"number"`
	Name        string              `json:"name" binding:"required,max=50" example:"Priority"`
	Description string              `json:"description" binding:"max=1000"`
	Required    bool                `json:"required"`
	Parameters  fieldtype.RawConfig `json:"parameters"`
}

// UpdateFieldRequest represents the request to update a field. The type cannot change.
type UpdateFieldRequest struct {
	Name        *string              `json:"name" binding:"omitempty,min=1,max=50"`
	Description *string              `json:"description" binding:"omitempty,max=1000"`
	Required    *bool                `json:"required"`
	Parameters  *fieldtype.RawConfig `json:"parameters"`
}

// SetFieldPositionRequest moves a field inside its state
type SetFieldPositionRequest struct {
	Position int `json:"position" binding:"required,min=1" example:"1"`
}

// ValidateFieldConfigRequest checks a configuration without storing anything
type ValidateFieldConfigRequest struct {
	Type       string              `json:"type" binding:"required,oneof=checkbox date decimal duration issue list number string text"`
	Parameters fieldtype.RawConfig `json:"parameters"`
}

// ValidateFieldConfigResponse holds the normalized configuration
type ValidateFieldConfigResponse struct {
	Type       string              `json:"type"`
	Parameters fieldtype.RawConfig `json:"parameters"`
}

// FieldResponse represents the field response
type FieldResponse struct {
	ID          uuid.UUID           `json:"fieldId"`
	StateID     uuid.UUID           `json:"stateId"`
	Type        string              `json:"type"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Required    bool                `json:"required"`
	Position    int                 `json:"position"`
	Parameters  fieldtype.RawConfig `json:"parameters"`
	Removed     bool                `json:"removed"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ListItemRequest creates or updates a list item
type ListItemRequest struct {
	Value int    `json:"value" binding:"required,min=1" example:"1"`
	Text  string `json:"text" binding:"required,max=50" example:"Low"`
}

// ListItemResponse represents the list item response
type ListItemResponse struct {
	ID      uuid.UUID `json:"itemId"`
	FieldID uuid.UUID `json:"fieldId"`
	Value   int       `json:"value"`
	Text    string    `json:"text"`
}
