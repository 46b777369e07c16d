package domain

import "github.com/google/uuid"

// Role is a principal kind a permission can be granted to.
// The system roles are resolved per issue; any other value is a named role
// carried by the authenticated principal.
type Role string

const (
	RoleAnyone      Role = "anyone"
	RoleAuthor      Role = "author"
	RoleResponsible Role = "responsible"
)

// TemplatePermission is a permission granted on a template
type TemplatePermission string

const (
	TemplatePermissionViewIssues         TemplatePermission = "view_issues"
	TemplatePermissionCreateIssues       TemplatePermission = "create_issues"
	TemplatePermissionEditIssues         TemplatePermission = "edit_issues"
	TemplatePermissionReassignIssues     TemplatePermission = "reassign_issues"
	TemplatePermissionSuspendIssues      TemplatePermission = "suspend_issues"
	TemplatePermissionResumeIssues       TemplatePermission = "resume_issues"
	TemplatePermissionAddComments        TemplatePermission = "add_comments"
	TemplatePermissionPrivateComments    TemplatePermission = "private_comments"
	TemplatePermissionAttachFiles        TemplatePermission = "attach_files"
	TemplatePermissionDeleteFiles        TemplatePermission = "delete_files"
	TemplatePermissionAddDependencies    TemplatePermission = "add_dependencies"
	TemplatePermissionRemoveDependencies TemplatePermission = "remove_dependencies"
	TemplatePermissionSendReminders      TemplatePermission = "send_reminders"
	TemplatePermissionDeleteIssues       TemplatePermission = "delete_issues"
)

// TemplatePermissions lists every template permission
var TemplatePermissions = []TemplatePermission{
	TemplatePermissionViewIssues,
	TemplatePermissionCreateIssues,
	TemplatePermissionEditIssues,
	TemplatePermissionReassignIssues,
	TemplatePermissionSuspendIssues,
	TemplatePermissionResumeIssues,
	TemplatePermissionAddComments,
	TemplatePermissionPrivateComments,
	TemplatePermissionAttachFiles,
	TemplatePermissionDeleteFiles,
	TemplatePermissionAddDependencies,
	TemplatePermissionRemoveDependencies,
	TemplatePermissionSendReminders,
	TemplatePermissionDeleteIssues,
}

// IsValid reports whether p is a known template permission
func (p TemplatePermission) IsValid() bool {
	for _, known := range TemplatePermissions {
		if p == known {
			return true
		}
	}
	return false
}

// FieldPermission is a permission granted on a field. Write implies read.
type FieldPermission string

const (
	FieldPermissionRead  FieldPermission = "read"
	FieldPermissionWrite FieldPermission = "write"
)

// IsValid reports whether p is a known field permission
func (p FieldPermission) IsValid() bool {
	return p == FieldPermissionRead || p == FieldPermissionWrite
}

// TemplateRolePermission grants a template permission to a role
type TemplateRolePermission struct {
	TemplateID uuid.UUID          `gorm:"type:uuid;primaryKey" json:"template_id"`
	Role       Role               `gorm:"type:varchar(50);primaryKey" json:"role"`
	Permission TemplatePermission `gorm:"type:varchar(30);primaryKey" json:"permission"`
}

// TableName specifies the table name for TemplateRolePermission
func (TemplateRolePermission) TableName() string {
	return "template_role_permissions"
}

// TemplateGroupPermission grants a template permission to a group
type TemplateGroupPermission struct {
	TemplateID uuid.UUID          `gorm:"type:uuid;primaryKey" json:"template_id"`
	GroupID    uuid.UUID          `gorm:"type:uuid;primaryKey" json:"group_id"`
	Permission TemplatePermission `gorm:"type:varchar(30);primaryKey" json:"permission"`
}

// TableName specifies the table name for TemplateGroupPermission
func (TemplateGroupPermission) TableName() string {
	return "template_group_permissions"
}

// FieldRolePermission grants a field permission to a role
type FieldRolePermission struct {
	FieldID    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"field_id"`
	Role       Role            `gorm:"type:varchar(50);primaryKey" json:"role"`
	Permission FieldPermission `gorm:"type:varchar(10);not null" json:"permission"`
}

// TableName specifies the table name for FieldRolePermission
func (FieldRolePermission) TableName() string {
	return "field_role_permissions"
}

// FieldGroupPermission grants a field permission to a group
type FieldGroupPermission struct {
	FieldID    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"field_id"`
	GroupID    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"group_id"`
	Permission FieldPermission `gorm:"type:varchar(10);not null" json:"permission"`
}

// TableName specifies the table name for FieldGroupPermission
func (FieldGroupPermission) TableName() string {
	return "field_group_permissions"
}

// TransitionRole allows a role to move issues from one state to another.
// A transition exists only while at least one role or group row declares it.
type TransitionRole struct {
	FromStateID uuid.UUID `gorm:"type:uuid;primaryKey" json:"from_state_id"`
	ToStateID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"to_state_id"`
	Role        Role      `gorm:"type:varchar(50);primaryKey" json:"role"`
}

// TableName specifies the table name for TransitionRole
func (TransitionRole) TableName() string {
	return "transition_roles"
}

// TransitionGroup allows a group to move issues from one state to another
type TransitionGroup struct {
	FromStateID uuid.UUID `gorm:"type:uuid;primaryKey" json:"from_state_id"`
	ToStateID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"to_state_id"`
	GroupID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`
}

// TableName specifies the table name for TransitionGroup
func (TransitionGroup) TableName() string {
	return "transition_groups"
}
