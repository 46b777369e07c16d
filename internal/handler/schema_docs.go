package handler

import (
	"issue-workflow-api/internal/fieldtype"
)

// Field errors travel inside ErrorDetail.Fields as untyped values, so swag
// never sees them. SchemaDocumentation references them to pull them into
// the generated definitions.
type SchemaDocumentation struct {
	// value errors keyed by field id (issue create, update, state change)
	FieldError fieldtype.FieldError `json:"fieldError"`
	// configuration errors keyed by parameter name (field create, update, validate-config)
	ConfigError fieldtype.ConfigError `json:"configError"`
}

// GetSchemaDocumentation is never routed; it exists only for swag.
// @Summary      Schema Documentation (Not a real endpoint)
// @Description  This endpoint does not exist. It documents the field error schemas.
// @Tags         internal
// @Produce      json
// @Success      200 {object} SchemaDocumentation
// @Router       /internal/schemas [get]
func GetSchemaDocumentation() {}
