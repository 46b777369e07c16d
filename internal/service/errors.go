package service

import (
	"errors"

	"gorm.io/gorm"

	"issue-workflow-api/internal/fieldtype"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/workflow"
)

var workflowCodes = map[workflow.ErrorCode]string{
	workflow.CodeForbidden:           response.ErrCodeForbidden,
	workflow.CodeTerminalState:       response.ErrCodeTerminalState,
	workflow.CodeResponsibleRequired: response.ErrCodeResponsibleRequired,
	workflow.CodeUnknownTransition:   response.ErrCodeUnknownTransition,
	workflow.CodeInvalidGraph:        response.ErrCodeValidation,
	workflow.CodeDuplicateValue:      response.ErrCodeDuplicateValue,
	workflow.CodeDuplicateText:       response.ErrCodeDuplicateText,
	workflow.CodeTemplateLocked:      response.ErrCodeTemplateLocked,
	workflow.CodeInvalidListItem:     response.ErrCodeValidation,
}

// toAppError converts errors of the core packages and of gorm into an
// AppError. notFound is the message used for a missing record.
func toAppError(err error, notFound string) error {
	if err == nil {
		return nil
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFoundError(notFound, "")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return response.NewAppError(response.ErrCodeAlreadyExists, "Resource already exists", "")
	}

	var validationErr *workflow.ValidationError
	if errors.As(err, &validationErr) {
		fields := make(map[string]interface{}, len(validationErr.Fields))
		for id, fe := range validationErr.Fields {
			fields[id.String()] = fe
		}
		return response.NewValidationError("Invalid field values", "").WithFields(fields)
	}

	var wfErr *workflow.Error
	if errors.As(err, &wfErr) {
		code, ok := workflowCodes[wfErr.Code]
		if !ok {
			code = response.ErrCodeInternal
		}
		return response.NewAppError(code, wfErr.Message, "")
	}

	var configErr *fieldtype.ConfigError
	if errors.As(err, &configErr) {
		param := configErr.Param
		if param == "" {
			param = "parameters"
		}
		return response.NewValidationError("Invalid field configuration", "").
			WithFields(map[string]interface{}{param: configErr})
	}

	var fieldErr *fieldtype.FieldError
	if errors.As(err, &fieldErr) {
		if fieldErr.Code == fieldtype.CodeNotFound {
			return response.NewNotFoundError(fieldErr.Message, "")
		}
		return response.NewValidationError(fieldErr.Message, string(fieldErr.Code))
	}

	return response.NewAppError(response.ErrCodeInternal, "Internal server error", err.Error())
}
