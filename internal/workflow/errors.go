package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"issue-workflow-api/internal/fieldtype"
)

// ErrorCode identifies a workflow or list item failure
type ErrorCode string

const (
	// Workflow codes
	CodeForbidden           ErrorCode = "FORBIDDEN"
	CodeTerminalState       ErrorCode = "TERMINAL_STATE"
	CodeResponsibleRequired ErrorCode = "RESPONSIBLE_REQUIRED"
	CodeUnknownTransition   ErrorCode = "UNKNOWN_TRANSITION"
	CodeInvalidGraph        ErrorCode = "INVALID_GRAPH"

	// List item codes
	CodeDuplicateValue  ErrorCode = "DUPLICATE_VALUE"
	CodeDuplicateText   ErrorCode = "DUPLICATE_TEXT"
	CodeTemplateLocked  ErrorCode = "TEMPLATE_LOCKED"
	CodeInvalidListItem ErrorCode = "INVALID_LIST_ITEM"
)

// Error is a workflow or list item failure
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *Error carrying the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrForbidden           = &Error{Code: CodeForbidden}
	ErrTerminalState       = &Error{Code: CodeTerminalState}
	ErrResponsibleRequired = &Error{Code: CodeResponsibleRequired}
	ErrUnknownTransition   = &Error{Code: CodeUnknownTransition}
	ErrInvalidGraph        = &Error{Code: CodeInvalidGraph}

	ErrDuplicateValue  = &Error{Code: CodeDuplicateValue}
	ErrDuplicateText   = &Error{Code: CodeDuplicateText}
	ErrTemplateLocked  = &Error{Code: CodeTemplateLocked}
	ErrInvalidListItem = &Error{Code: CodeInvalidListItem}
)

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ValidationError carries every field error of one apply call
type ValidationError struct {
	Fields map[uuid.UUID]*fieldtype.FieldError
}

func (e *ValidationError) Error() string {
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %s", id, e.Fields[uuid.MustParse(id)].Code))
	}
	return "invalid field values: " + strings.Join(parts, ", ")
}

// Is reports whether target is a *ValidationError
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ErrValidation matches any *ValidationError with errors.Is
var ErrValidation = &ValidationError{}
