package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateProjectRequest represents the request to create a new project
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=25" example:"Tracker"`
	Description string `json:"description" binding:"max=100" example:"Bug tracking for the web team"`
}

// UpdateProjectRequest represents the request to update a project. All fields are optional.
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=25" example:"Tracker"`
	Description *string `json:"description" binding:"omitempty,max=100"`
	IsSuspended *bool   `json:"isSuspended" example:"false"`
}

// ProjectResponse represents the project response
type ProjectResponse struct {
	ID            uuid.UUID `json:"projectId" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	Name          string    `json:"name" example:"Tracker"`
	Description   string    `json:"description"`
	IsSuspended   bool      `json:"isSuspended"`
	TemplateCount int64     `json:"templateCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
