package domain

// Project groups templates and project-local groups
type Project struct {
	BaseModel
	Name        string     `gorm:"type:varchar(25);not null;uniqueIndex:uq_projects_name" json:"name"`
	Description string     `gorm:"type:varchar(100)" json:"description"`
	IsSuspended bool       `gorm:"not null;default:false" json:"is_suspended"`
	Templates   []Template `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"templates,omitempty"`
	Groups      []Group    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"groups,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}
