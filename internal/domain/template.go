package domain

import "github.com/google/uuid"

// Template is the reusable schema issues are instantiated from.
// A locked template has live issues: its states, fields and list items are frozen.
type Template struct {
	BaseModel
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index:idx_templates_project_id;uniqueIndex:uq_templates_project_name,priority:1;uniqueIndex:uq_templates_project_prefix,priority:1" json:"project_id"`
	Name        string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_templates_project_name,priority:2" json:"name"`
	Prefix      string    `gorm:"type:varchar(5);not null;uniqueIndex:uq_templates_project_prefix,priority:2" json:"prefix"`
	Description string    `gorm:"type:varchar(100)" json:"description"`
	CriticalAge *int      `gorm:"type:int" json:"critical_age"`
	FrozenTime  *int      `gorm:"type:int" json:"frozen_time"`
	Locked      bool      `gorm:"not null;default:false;index:idx_templates_locked" json:"locked"`
	States      []State   `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"states,omitempty"`
	Project     *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// TableName specifies the table name for Template
func (Template) TableName() string {
	return "templates"
}
