package fieldtype

import (
	"fmt"
	"strings"
)

// ErrorCode identifies a configuration or value validation failure
type ErrorCode string

const (
	// Configuration-time codes
	CodeRangeConflict     ErrorCode = "RANGE_CONFLICT"
	CodeDefaultOutOfRange ErrorCode = "DEFAULT_OUT_OF_RANGE"
	CodeInvalidFormat     ErrorCode = "INVALID_FORMAT"
	CodeRegexTooLong      ErrorCode = "REGEX_TOO_LONG"
	CodeLimitExceeded     ErrorCode = "LIMIT_EXCEEDED"

	// Value-time codes
	CodeRangeError     ErrorCode = "RANGE_ERROR"
	CodeTooLong        ErrorCode = "TOO_LONG"
	CodeFormatMismatch ErrorCode = "FORMAT_MISMATCH"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeRequired       ErrorCode = "REQUIRED"
)

// ConfigError reports an invalid field configuration.
// Param names the offending parameter (minimum, maximum, default, maxlength, pcre.check, ...).
type ConfigError struct {
	Code    ErrorCode `json:"code"`
	Param   string    `json:"param,omitempty"`
	Min     string    `json:"min,omitempty"`
	Max     string    `json:"max,omitempty"`
	Default string    `json:"default,omitempty"`
	Message string    `json:"message"`
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "field config: %s", e.Code)
	if e.Param != "" {
		fmt.Fprintf(&b, " (%s)", e.Param)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is matches another ConfigError carrying the same code
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is
var (
	ErrRangeConflict     = &ConfigError{Code: CodeRangeConflict}
	ErrDefaultOutOfRange = &ConfigError{Code: CodeDefaultOutOfRange}
	ErrInvalidFormat     = &ConfigError{Code: CodeInvalidFormat}
	ErrRegexTooLong      = &ConfigError{Code: CodeRegexTooLong}
	ErrLimitExceeded     = &ConfigError{Code: CodeLimitExceeded}
)

func rangeConflict(min, max string) *ConfigError {
	return &ConfigError{
		Code:    CodeRangeConflict,
		Param:   "minimum",
		Min:     min,
		Max:     max,
		Message: fmt.Sprintf("minimum %s is greater than maximum %s", min, max),
	}
}

func defaultOutOfRange(min, max, def string) *ConfigError {
	return &ConfigError{
		Code:    CodeDefaultOutOfRange,
		Param:   "default",
		Min:     min,
		Max:     max,
		Default: def,
		Message: fmt.Sprintf("default %s must be between %s and %s", def, min, max),
	}
}

func invalidConfigFormat(param, value string) *ConfigError {
	return &ConfigError{
		Code:    CodeInvalidFormat,
		Param:   param,
		Message: fmt.Sprintf("invalid value %q", value),
	}
}

func limitExceeded(param, value, min, max string) *ConfigError {
	return &ConfigError{
		Code:    CodeLimitExceeded,
		Param:   param,
		Min:     min,
		Max:     max,
		Message: fmt.Sprintf("%s %s must be between %s and %s", param, value, min, max),
	}
}

// FieldError reports an invalid issue field value
type FieldError struct {
	Code      ErrorCode `json:"code"`
	Min       string    `json:"min,omitempty"`
	Max       string    `json:"max,omitempty"`
	MaxLength int       `json:"maxlength,omitempty"`
	Message   string    `json:"message"`
}

func (e *FieldError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another FieldError carrying the same code
func (e *FieldError) Is(target error) bool {
	t, ok := target.(*FieldError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is
var (
	ErrValueRange     = &FieldError{Code: CodeRangeError}
	ErrValueTooLong   = &FieldError{Code: CodeTooLong}
	ErrFormatMismatch = &FieldError{Code: CodeFormatMismatch}
	ErrValueFormat    = &FieldError{Code: CodeInvalidFormat}
	ErrNotFound       = &FieldError{Code: CodeNotFound}
	ErrRequired       = &FieldError{Code: CodeRequired}
)

func valueOutOfRange(min, max string) *FieldError {
	return &FieldError{
		Code:    CodeRangeError,
		Min:     min,
		Max:     max,
		Message: fmt.Sprintf("value must be between %s and %s", min, max),
	}
}

func valueTooLong(max int) *FieldError {
	return &FieldError{
		Code:      CodeTooLong,
		MaxLength: max,
		Message:   fmt.Sprintf("value must not be longer than %d characters", max),
	}
}

func formatMismatch(msg string) *FieldError {
	return &FieldError{Code: CodeFormatMismatch, Message: msg}
}

func invalidValueFormat(msg string) *FieldError {
	return &FieldError{Code: CodeInvalidFormat, Message: msg}
}

// NotFoundError is returned for references to unknown list items, issues or fields
func NotFoundError(msg string) *FieldError {
	return &FieldError{Code: CodeNotFound, Message: msg}
}

// RequiredError is returned when a required field has no value
func RequiredError() *FieldError {
	return &FieldError{Code: CodeRequired, Message: "value is required"}
}
