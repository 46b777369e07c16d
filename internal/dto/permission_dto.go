package dto

import "github.com/google/uuid"

// SetRolePermissionRequest replaces the roles holding a permission
type SetRolePermissionRequest struct {
	Permission string   `json:"permission" binding:"required" example:"edit_issues"`
	Roles      []string `json:"roles" example:"author,responsible"`
}

// SetGroupPermissionRequest replaces the groups holding a permission
type SetGroupPermissionRequest struct {
	Permission string      `json:"permission" binding:"required" example:"edit_issues"`
	GroupIDs   []uuid.UUID `json:"groupIds"`
}

// PermissionResponse lists who holds one permission
type PermissionResponse struct {
	Permission string      `json:"permission"`
	Roles      []string    `json:"roles"`
	GroupIDs   []uuid.UUID `json:"groupIds"`
}
