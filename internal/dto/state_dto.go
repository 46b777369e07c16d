package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateStateRequest represents the request to create a new state
// @Description type is initial, normal or final; responsible is assign, keep or remove
type CreateStateRequest struct {
	TemplateID  uuid.UUID  `json:"templateId" binding:"required"`
	Name        string     `json:"name" binding:"required,max=50" example:"Open"`
	Type        string     `json:"type" binding:"required,oneof=initial normal final" example:"initial"`
	Responsible string     `json:"responsible" binding:"required,oneof=assign keep remove" example:"assign"`
	NextStateID *uuid.UUID `json:"nextStateId,omitempty"`
}

// UpdateStateRequest represents the request to update a state. All fields are optional.
type UpdateStateRequest struct {
	Name           *string    `json:"name" binding:"omitempty,min=1,max=50"`
	Type           *string    `json:"type" binding:"omitempty,oneof=initial normal final"`
	Responsible    *string    `json:"responsible" binding:"omitempty,oneof=assign keep remove"`
	NextStateID    *uuid.UUID `json:"nextStateId,omitempty"`
	ClearNextState bool       `json:"clearNextState"`
}

// StateResponse represents the state response
type StateResponse struct {
	ID                uuid.UUID   `json:"stateId"`
	TemplateID        uuid.UUID   `json:"templateId"`
	Name              string      `json:"name"`
	Type              string      `json:"type"`
	Responsible       string      `json:"responsible"`
	NextStateID       *uuid.UUID  `json:"nextStateId,omitempty"`
	ResponsibleGroups []uuid.UUID `json:"responsibleGroups"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// SetResponsibleGroupsRequest replaces the candidate groups of a state
type SetResponsibleGroupsRequest struct {
	GroupIDs []uuid.UUID `json:"groupIds"`
}

// SetTransitionRequest replaces the roles and groups allowed to move issues
// from one state to another. Empty roles and groups remove the transition.
type SetTransitionRequest struct {
	Roles    []string    `json:"roles" example:"author,manager"`
	GroupIDs []uuid.UUID `json:"groupIds"`
}

// TransitionResponse is one declared transition out of a state
type TransitionResponse struct {
	FromStateID uuid.UUID   `json:"fromStateId"`
	ToStateID   uuid.UUID   `json:"toStateId"`
	ToStateName string      `json:"toStateName"`
	Roles       []string    `json:"roles"`
	GroupIDs    []uuid.UUID `json:"groupIds"`
}
