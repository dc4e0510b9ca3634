package errors

import (
	"fmt"
	"strings"
)

// ParameterErrorData contains structured data for parameter-related errors
type ParameterErrorData struct {
	Parameter  string      `json:"parameter"`
	Value      interface{} `json:"value,omitempty"`
	Type       string      `json:"type,omitempty"`
	Required   bool        `json:"required,omitempty"`
	Constraint string      `json:"constraint,omitempty"`
	Reason     string      `json:"reason,omitempty"`
}

// PaginationErrorData contains structured data for pagination errors
type PaginationErrorData struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	MaxSize  int    `json:"max_page_size,omitempty"`
	Reason   string `json:"reason"`
}

// InvalidArgument creates a generic argument validation error
func InvalidArgument(message string) MCPError {
	return NewError(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a generic argument validation error with formatting
func InvalidArgumentf(format string, args ...interface{}) MCPError {
	return NewErrorf(CodeInvalidArgument, format, args...)
}

// InvalidParameter creates an error for invalid parameter values
func InvalidParameter(param string, value interface{}, expected string) MCPError {
	got := describeValue(value)

	return NewError(
		CodeInvalidParameter,
		fmt.Sprintf("Invalid parameter '%s': expected %s, got %s", param, expected, got),
	).WithData(&ParameterErrorData{
		Parameter: param,
		Value:     value,
		Type:      got,
		Reason:    fmt.Sprintf("expected %s", expected),
	})
}

// MissingParameter creates an error for missing required parameters
func MissingParameter(param string) MCPError {
	return NewError(
		CodeMissingParameter,
		fmt.Sprintf("Missing required parameter: %s", param),
	).WithData(&ParameterErrorData{
		Parameter: param,
		Required:  true,
	})
}

// ParameterTooLarge creates an error for parameters exceeding an upper bound
func ParameterTooLarge(param string, value interface{}, maxValue interface{}) MCPError {
	return NewError(
		CodeParameterTooLarge,
		fmt.Sprintf("Parameter '%s' value %v exceeds maximum %v", param, value, maxValue),
	).WithData(&ParameterErrorData{
		Parameter:  param,
		Value:      value,
		Constraint: fmt.Sprintf("<= %v", maxValue),
	})
}

// ParameterTooSmall creates an error for parameters under a lower bound
func ParameterTooSmall(param string, value interface{}, minValue interface{}) MCPError {
	return NewError(
		CodeParameterTooSmall,
		fmt.Sprintf("Parameter '%s' value %v is below minimum %v", param, value, minValue),
	).WithData(&ParameterErrorData{
		Parameter:  param,
		Value:      value,
		Constraint: fmt.Sprintf(">= %v", minValue),
	})
}

// InvalidFormat creates an error for parameters with a malformed value
func InvalidFormat(param string, value interface{}, expectedFormat string) MCPError {
	return NewError(
		CodeInvalidFormat,
		fmt.Sprintf("Parameter '%s' has invalid format: expected %s", param, expectedFormat),
	).WithData(&ParameterErrorData{
		Parameter:  param,
		Value:      value,
		Constraint: expectedFormat,
	})
}

// SchemaViolation creates an error for an argument rejected by a tool's input schema
func SchemaViolation(param string, value interface{}, description string) MCPError {
	return NewError(
		CodeInvalidParameter,
		fmt.Sprintf("Invalid parameter '%s': %s", param, description),
	).WithData(&ParameterErrorData{
		Parameter: param,
		Value:     value,
		Type:      describeValue(value),
		Reason:    description,
	})
}

// InvalidPage creates an error for page numbers below 1
func InvalidPage(page int) MCPError {
	return NewError(
		CodeInvalidPage,
		fmt.Sprintf("Invalid page %d: pages start at 1", page),
	).WithData(&PaginationErrorData{
		Page:   page,
		Reason: "page must be >= 1",
	})
}

// InvalidPageSize creates an error for page sizes outside [1, maxSize]
func InvalidPageSize(pageSize, maxSize int) MCPError {
	return NewError(
		CodeInvalidPageSize,
		fmt.Sprintf("Invalid page_size %d: must be between 1 and %d", pageSize, maxSize),
	).WithData(&PaginationErrorData{
		PageSize: pageSize,
		MaxSize:  maxSize,
		Reason:   fmt.Sprintf("page_size must be between 1 and %d", maxSize),
	})
}

// CombineValidationErrors folds several validation failures into one error
func CombineValidationErrors(errs []MCPError) MCPError {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	messages := make([]string, len(errs))
	details := make([]interface{}, len(errs))
	for i, err := range errs {
		messages[i] = err.Message()
		details[i] = err.Data()
	}

	return NewError(
		CodeInvalidArgument,
		fmt.Sprintf("%d validation errors: %s", len(errs), strings.Join(messages, "; ")),
	).WithData(map[string]interface{}{
		"errors": details,
		"count":  len(errs),
	})
}

func describeValue(value interface{}) string {
	if value == nil {
		return "nil"
	}
	got := fmt.Sprintf("%T", value)
	if str, ok := value.(string); ok && len(str) < 100 {
		got = fmt.Sprintf("%s(%q)", got, str)
	}
	return got
}
