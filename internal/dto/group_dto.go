package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateGroupRequest represents the request to create a group.
// A group without projectId is global.
type CreateGroupRequest struct {
	ProjectID   *uuid.UUID `json:"projectId,omitempty"`
	Name        string     `json:"name" binding:"required,max=25" example:"Developers"`
	Description string     `json:"description" binding:"max=100"`
}

// UpdateGroupRequest represents the request to update a group
type UpdateGroupRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=25"`
	Description *string `json:"description" binding:"omitempty,max=100"`
}

// GroupMembersRequest adds or removes users of a group
type GroupMembersRequest struct {
	UserIDs []uuid.UUID `json:"userIds" binding:"required,min=1"`
}

// GroupResponse represents the group response
type GroupResponse struct {
	ID          uuid.UUID   `json:"groupId"`
	ProjectID   *uuid.UUID  `json:"projectId,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Members     []uuid.UUID `json:"members"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
