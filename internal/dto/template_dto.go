package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTemplateRequest represents the request to create a new template
// @Description criticalAge and frozenTime are optional day thresholds between 1 and 100
type CreateTemplateRequest struct {
	ProjectID   uuid.UUID `json:"projectId" binding:"required" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	Name        string    `json:"name" binding:"required,max=50" example:"Bugs"`
	Prefix      string    `json:"prefix" binding:"required,max=5" example:"BUG"`
	Description string    `json:"description" binding:"max=100"`
	CriticalAge *int      `json:"criticalAge,omitempty" binding:"omitempty,min=1,max=100" example:"7"`
	FrozenTime  *int      `json:"frozenTime,omitempty" binding:"omitempty,min=1,max=100" example:"30"`
}

// UpdateTemplateRequest represents the request to update a template. All fields are optional.
// ClearCriticalAge and ClearFrozenTime drop the thresholds.
type UpdateTemplateRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=50"`
	Prefix           *string `json:"prefix" binding:"omitempty,min=1,max=5"`
	Description      *string `json:"description" binding:"omitempty,max=100"`
	CriticalAge      *int    `json:"criticalAge,omitempty" binding:"omitempty,min=1,max=100"`
	FrozenTime       *int    `json:"frozenTime,omitempty" binding:"omitempty,min=1,max=100"`
	ClearCriticalAge bool    `json:"clearCriticalAge"`
	ClearFrozenTime  bool    `json:"clearFrozenTime"`
}

// TemplateResponse represents the template response
type TemplateResponse struct {
	ID          uuid.UUID       `json:"templateId"`
	ProjectID   uuid.UUID       `json:"projectId"`
	Name        string          `json:"name"`
	Prefix      string          `json:"prefix"`
	Description string          `json:"description"`
	CriticalAge *int            `json:"criticalAge,omitempty"`
	FrozenTime  *int            `json:"frozenTime,omitempty"`
	Locked      bool            `json:"locked"`
	States      []StateResponse `json:"states,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
