package domain

import "github.com/google/uuid"

// Group is a named set of users. ProjectID is nil for global groups.
type Group struct {
	BaseModel
	ProjectID   *uuid.UUID    `gorm:"type:uuid;index:idx_groups_project_id" json:"project_id"`
	Name        string        `gorm:"type:varchar(25);not null" json:"name"`
	Description string        `gorm:"type:varchar(100)" json:"description"`
	Members     []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// TableName specifies the table name for Group
func (Group) TableName() string {
	return "groups"
}

// GroupMember links a user to a group
type GroupMember struct {
	GroupID uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_group_members_user_id" json:"user_id"`
}

// TableName specifies the table name for GroupMember
func (GroupMember) TableName() string {
	return "group_members"
}
