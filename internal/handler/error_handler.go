package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-workflow-api/internal/response"
)

// handleServiceError maps service layer errors to HTTP responses.
// Logging goes through the global zap logger installed by main.
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		status := mapErrorCodeToHTTPStatus(appErr.Code)
		fields := []zap.Field{
			zap.String("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.String("details", appErr.Details),
			zap.String("path", c.FullPath()),
		}
		if status >= http.StatusInternalServerError {
			zap.L().Error("Service error", fields...)
		} else {
			zap.L().Debug("Service error", fields...)
		}

		if len(appErr.Fields) > 0 {
			response.SendFieldErrors(c, status, appErr.Code, appErr.Message, appErr.Fields)
			return
		}
		response.SendError(c, status, appErr.Code, appErr.Message)
		return
	}

	zap.L().Error("Unhandled service error", zap.Error(err), zap.String("path", c.FullPath()))
	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeAlreadyExists, response.ErrCodeDuplicateValue, response.ErrCodeDuplicateText:
		return http.StatusConflict
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	case response.ErrCodeTemplateLocked:
		return http.StatusLocked
	case response.ErrCodeTerminalState, response.ErrCodeUnknownTransition, response.ErrCodeResponsibleRequired:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
