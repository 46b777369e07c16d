package domain

import "github.com/google/uuid"

// StateType is the position of a state in the workflow graph
type StateType string

const (
	StateTypeInitial StateType = "initial"
	StateTypeNormal  StateType = "normal"
	StateTypeFinal   StateType = "final"
)

// IsValid reports whether t is a known state type
func (t StateType) IsValid() bool {
	switch t {
	case StateTypeInitial, StateTypeNormal, StateTypeFinal:
		return true
	}
	return false
}

// ResponsiblePolicy controls what happens to the issue's responsible person on entry
type ResponsiblePolicy string

const (
	ResponsibleAssign ResponsiblePolicy = "assign"
	ResponsibleKeep   ResponsiblePolicy = "keep"
	ResponsibleRemove ResponsiblePolicy = "remove"
)

// IsValid reports whether p is a known responsible policy
func (p ResponsiblePolicy) IsValid() bool {
	switch p {
	case ResponsibleAssign, ResponsibleKeep, ResponsibleRemove:
		return true
	}
	return false
}

// State is a node in a template's workflow graph
type State struct {
	BaseModel
	TemplateID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_states_template_id;uniqueIndex:uq_states_template_name,priority:1" json:"template_id"`
	Name        string            `gorm:"type:varchar(50);not null;uniqueIndex:uq_states_template_name,priority:2" json:"name"`
	Type        StateType         `gorm:"type:varchar(10);not null" json:"type"`
	Responsible ResponsiblePolicy `gorm:"type:varchar(10);not null" json:"responsible"`
	NextStateID *uuid.UUID        `gorm:"type:uuid" json:"next_state_id"`
	Fields      []Field           `gorm:"foreignKey:StateID;constraint:OnDelete:CASCADE" json:"fields,omitempty"`
}

// TableName specifies the table name for State
func (State) TableName() string {
	return "states"
}

// StateResponsibleGroup marks a group as a candidate pool for the responsible person of a state
type StateResponsibleGroup struct {
	StateID uuid.UUID `gorm:"type:uuid;primaryKey" json:"state_id"`
	GroupID uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_state_responsible_groups_group_id" json:"group_id"`
}

// TableName specifies the table name for StateResponsibleGroup
func (StateResponsibleGroup) TableName() string {
	return "state_responsible_groups"
}
