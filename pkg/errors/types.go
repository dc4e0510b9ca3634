// Package errors provides structured error handling for hubscout.
// Every failure a tool can produce is an MCPError carrying a Kind, a numeric
// code, a category and a severity, so the tool boundary can turn it into a
// payload the calling assistant can reason about.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"
)

// Kind names the failure class surfaced to tool callers
type Kind string

const (
	KindInvalidArgument     Kind = "invalid_argument"
	KindInvalidQuery        Kind = "invalid_query"
	KindNotFound            Kind = "not_found"
	KindRegistryUnavailable Kind = "registry_unavailable"
	KindResponseParse       Kind = "response_parse"
	KindPartialFailure      Kind = "partial_failure"
	KindDuplicateTool       Kind = "duplicate_tool"
	KindHandler             Kind = "handler_error"
	KindInternal            Kind = "internal"
)

// Category represents the type/category of an error for classification and handling
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryNotFound   Category = "not_found"
	CategoryUpstream   Category = "upstream"
	CategoryRegistry   Category = "registry"
	CategoryInternal   Category = "internal"
	CategoryTimeout    Category = "timeout"
	CategoryCancelled  Category = "cancelled"
)

// Severity indicates how critical an error is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Context provides additional context about where and when an error occurred
type Context struct {
	InvocationID string                 `json:"invocation_id,omitempty"`
	Tool         string                 `json:"tool,omitempty"`
	Parameters   map[string]interface{} `json:"parameters,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
	Component    string                 `json:"component,omitempty"`
	Operation    string                 `json:"operation,omitempty"`
	TraceID      string                 `json:"trace_id,omitempty"`
}

// MCPError defines the interface for all hubscout errors
type MCPError interface {
	error

	// Kind returns the failure class reported to tool callers
	Kind() Kind

	// Code returns the numeric error code
	Code() int

	// Message returns a human-readable error message
	Message() string

	// Details returns detailed technical description for debugging
	Details() string

	// Data returns structured error data for programmatic handling
	Data() interface{}

	// Category returns the error category for classification
	Category() Category

	// Severity returns the error severity level
	Severity() Severity

	// Context returns the error context information
	Context() *Context

	// WithContext returns a new error with the provided context
	WithContext(ctx *Context) MCPError

	// WithDetail returns a new error with additional detail
	WithDetail(detail string) MCPError

	// WithData returns a new error with structured data
	WithData(data interface{}) MCPError

	// Unwrap returns the underlying error for error chain traversal
	Unwrap() error

	// ToJSON returns the error as a JSON-serializable map
	ToJSON() map[string]interface{}
}

type baseError struct {
	kind     Kind
	code     int
	message  string
	details  string
	data     interface{}
	category Category
	severity Severity
	context  *Context
	cause    error
}

func (e *baseError) Error() string {
	if e.details != "" {
		return fmt.Sprintf("%s: %s", e.message, e.details)
	}
	return e.message
}

func (e *baseError) Kind() Kind {
	return e.kind
}

func (e *baseError) Code() int {
	return e.code
}

func (e *baseError) Message() string {
	return e.message
}

func (e *baseError) Details() string {
	return e.details
}

func (e *baseError) Data() interface{} {
	return e.data
}

func (e *baseError) Category() Category {
	return e.category
}

func (e *baseError) Severity() Severity {
	return e.severity
}

func (e *baseError) Context() *Context {
	return e.context
}

func (e *baseError) WithContext(ctx *Context) MCPError {
	newErr := *e
	newErr.context = ctx
	return &newErr
}

func (e *baseError) WithDetail(detail string) MCPError {
	newErr := *e
	if newErr.details != "" {
		newErr.details = fmt.Sprintf("%s; %s", newErr.details, detail)
	} else {
		newErr.details = detail
	}
	return &newErr
}

func (e *baseError) WithData(data interface{}) MCPError {
	newErr := *e
	newErr.data = data
	return &newErr
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) ToJSON() map[string]interface{} {
	result := map[string]interface{}{
		"kind":     string(e.kind),
		"code":     e.code,
		"message":  e.message,
		"category": string(e.category),
		"severity": string(e.severity),
	}

	if e.details != "" {
		result["details"] = e.details
	}

	if e.data != nil {
		result["data"] = e.data
	}

	if e.context != nil {
		result["context"] = e.context
	}

	if e.cause != nil {
		result["cause"] = e.cause.Error()
	}

	return result
}

// MarshalJSON implements json.Marshaler for baseError
func (e *baseError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToJSON())
}

// NewError creates a new MCPError. Kind, category and severity are taken from
// the code registry.
func NewError(code int, message string) MCPError {
	info := lookupCode(code)
	return &baseError{
		kind:     info.Kind,
		code:     code,
		message:  message,
		category: info.Category,
		severity: info.Severity,
		context: &Context{
			Timestamp: time.Now(),
		},
	}
}

// NewErrorf creates a new MCPError with formatted message
func NewErrorf(code int, format string, args ...interface{}) MCPError {
	return NewError(code, fmt.Sprintf(format, args...))
}

// WrapError wraps an existing error as an MCPError
func WrapError(err error, code int, message string) MCPError {
	e := NewError(code, message).(*baseError)
	e.cause = err
	return e
}

// WrapErrorf wraps an existing error as an MCPError with formatted message
func WrapErrorf(err error, code int, format string, args ...interface{}) MCPError {
	return WrapError(err, code, fmt.Sprintf(format, args...))
}

// AsMCPError finds the first MCPError in err's chain
func AsMCPError(err error) (MCPError, bool) {
	if err == nil {
		return nil, false
	}

	var mcpErr MCPError
	if stderrors.As(err, &mcpErr) {
		return mcpErr, true
	}

	return nil, false
}

// IsMCPError checks if an error is an MCPError
func IsMCPError(err error) bool {
	_, ok := AsMCPError(err)
	return ok
}

// IsKind reports whether err's chain carries an MCPError of the given kind
func IsKind(err error, kind Kind) bool {
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr.Kind() == kind
	}
	return false
}

// KindOf returns the kind of err, or KindInternal for foreign errors
func KindOf(err error) Kind {
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr.Kind()
	}
	return KindInternal
}

// IsCategory checks if an error is of a specific category
func IsCategory(err error, category Category) bool {
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr.Category() == category
	}
	return false
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code int) bool {
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr.Code() == code
	}
	return false
}
