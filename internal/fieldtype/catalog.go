// Package fieldtype holds the catalog of issue field types: the typed
// configuration of each type, configuration-time validation and value-time
// validation. Everything here is pure; callers pass in the data it needs.
package fieldtype

import (
	"fmt"

	"issue-workflow-api/internal/domain"
)

// Kind bundles the configuration parser and value validator of one field type
type Kind struct {
	Type          domain.FieldType
	ParseConfig   func(raw RawConfig) (Config, error)
	ValidateValue func(cfg Config, raw any, env Env) (any, error)
	Format        func(value any) string
}

// Lookup returns the kind for t. The field type set is closed: an unknown
// type is a programming error and panics.
func Lookup(t domain.FieldType) Kind {
	switch t {
	case domain.FieldTypeCheckbox:
		return Kind{Type: t, ParseConfig: parseCheckboxConfig, ValidateValue: validateCheckbox, Format: formatBool}
	case domain.FieldTypeDate:
		return Kind{Type: t, ParseConfig: parseDateConfig, ValidateValue: validateDate, Format: formatDate}
	case domain.FieldTypeDecimal:
		return Kind{Type: t, ParseConfig: parseDecimalConfig, ValidateValue: validateDecimal, Format: formatDecimalValue}
	case domain.FieldTypeDuration:
		return Kind{Type: t, ParseConfig: parseDurationConfig, ValidateValue: validateDuration, Format: formatDurationValue}
	case domain.FieldTypeIssue:
		return Kind{Type: t, ParseConfig: parseIssueConfig, ValidateValue: validateIssue, Format: formatUUID}
	case domain.FieldTypeList:
		return Kind{Type: t, ParseConfig: parseListConfig, ValidateValue: validateList, Format: formatUUID}
	case domain.FieldTypeNumber:
		return Kind{Type: t, ParseConfig: parseNumberConfig, ValidateValue: validateNumber, Format: formatInt}
	case domain.FieldTypeString:
		return Kind{Type: t, ParseConfig: parseStringConfig, ValidateValue: validateTextual, Format: formatString}
	case domain.FieldTypeText:
		return Kind{Type: t, ParseConfig: parseTextConfig, ValidateValue: validateTextual, Format: formatString}
	}
	panic(fmt.Sprintf("fieldtype: unknown field type %q", t))
}

// ValidateConfig checks a candidate configuration for field type t and
// returns its normalized, typed form. It runs on every create and update.
func ValidateConfig(t domain.FieldType, raw RawConfig) (Config, error) {
	return Lookup(t).ParseConfig(raw)
}
