// Package response defines the JSON envelopes of the HTTP API and the
// application error carried from services to handlers.
package response

import (
	"github.com/gin-gonic/gin"
)

// Error codes shared by services and handlers
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeDuplicateValue      = "DUPLICATE_VALUE"
	ErrCodeDuplicateText       = "DUPLICATE_TEXT"
	ErrCodeTemplateLocked      = "TEMPLATE_LOCKED"
	ErrCodeTerminalState       = "TERMINAL_STATE"
	ErrCodeUnknownTransition   = "UNKNOWN_TRANSITION"
	ErrCodeResponsibleRequired = "RESPONSIBLE_REQUIRED"
)

// AppError is an error with an API error code.
// Fields carries per-field validation errors keyed by field id or parameter name.
type AppError struct {
	Code    string
	Message string
	Details string
	Fields  map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Message + " (" + e.Details + ")"
	}
	return e.Code + ": " + e.Message
}

// NewAppError creates an AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a VALIDATION_ERROR AppError
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewNotFoundError creates a NOT_FOUND AppError
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewForbiddenError creates a FORBIDDEN AppError
func NewForbiddenError(message, details string) *AppError {
	return NewAppError(ErrCodeForbidden, message, details)
}

// WithFields attaches field-scoped errors
func (e *AppError) WithFields(fields map[string]interface{}) *AppError {
	e.Fields = fields
	return e
}

// SuccessResponse is the envelope of successful responses
type SuccessResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the envelope of failed responses
type ErrorResponse struct {
	Error   interface{} `json:"error"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the error object inside ErrorResponse
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// SendSuccess writes a success envelope
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Data: data})
}

// SendSuccessWithMessage writes a success envelope with a message
func SendSuccessWithMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, SuccessResponse{Data: data, Message: message})
}

// SendError writes an error envelope
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:   ErrorDetail{Code: code, Message: message},
		Message: message,
	})
}

// SendFieldErrors writes an error envelope carrying field-scoped errors
func SendFieldErrors(c *gin.Context, status int, code, message string, fields map[string]interface{}) {
	c.JSON(status, ErrorResponse{
		Error:   ErrorDetail{Code: code, Message: message, Fields: fields},
		Message: message,
	})
}
