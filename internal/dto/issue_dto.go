package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateIssueRequest represents the request to create an issue.
// values maps field ids of the initial state to raw values.
type CreateIssueRequest struct {
	TemplateID    uuid.UUID              `json:"templateId" binding:"required"`
	Subject       string                 `json:"subject" binding:"required,max=250" example:"Login button does nothing"`
	Values        map[string]interface{} `json:"values"`
	ResponsibleID *uuid.UUID             `json:"responsibleId,omitempty"`
}

// UpdateIssueRequest edits the subject and the fields of the current state
type UpdateIssueRequest struct {
	Subject *string                `json:"subject" binding:"omitempty,min=1,max=250"`
	Values  map[string]interface{} `json:"values"`
}

// ChangeStateRequest moves an issue to another state.
// values maps field ids of the target state to raw values.
type ChangeStateRequest struct {
	StateID       uuid.UUID              `json:"stateId" binding:"required"`
	Values        map[string]interface{} `json:"values"`
	ResponsibleID *uuid.UUID             `json:"responsibleId,omitempty"`
}

// FieldValueResponse is one stored field value with its display form
type FieldValueResponse struct {
	FieldID uuid.UUID `json:"fieldId"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Value   *string   `json:"value"`
	Display *string   `json:"display"`
}

// IssueResponse represents the issue response
type IssueResponse struct {
	ID            uuid.UUID            `json:"issueId"`
	TemplateID    uuid.UUID            `json:"templateId"`
	StateID       uuid.UUID            `json:"stateId"`
	StateName     string               `json:"stateName"`
	AuthorID      uuid.UUID            `json:"authorId"`
	ResponsibleID *uuid.UUID           `json:"responsibleId"`
	Subject       string               `json:"subject"`
	ClosedAt      *time.Time           `json:"closedAt,omitempty"`
	Values        []FieldValueResponse `json:"values"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// AvailableTransitionResponse is a state the caller may move an issue to
type AvailableTransitionResponse struct {
	StateID     uuid.UUID `json:"stateId"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Responsible string    `json:"responsible"`
}

// PaginatedIssuesResponse represents a page of issues
type PaginatedIssuesResponse struct {
	Issues []IssueResponse `json:"issues"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}
