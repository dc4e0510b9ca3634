package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// Payload is the structured error body returned to tool callers in place of a result
type Payload struct {
	Kind      Kind        `json:"kind"`
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Retryable bool        `json:"retryable"`
	Hint      string      `json:"hint,omitempty"`
	Details   string      `json:"details,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

var kindHints = map[Kind]string{
	KindInvalidArgument:     "check the tool arguments against its input schema",
	KindInvalidQuery:        "rephrase the query or adjust pagination",
	KindNotFound:            "check the image name; official images live under library/",
	KindRegistryUnavailable: "Docker Hub is unreachable or throttling, retry later",
	KindResponseParse:       "Docker Hub returned an unexpected response, retry later",
	KindPartialFailure:      "remove or correct the images listed in data.failed",
	KindHandler:             "the tool failed unexpectedly, report this if it persists",
}

// ToPayload converts any error into the structured body sent to tool callers
func ToPayload(err error) *Payload {
	if err == nil {
		return nil
	}

	mcpErr := ConvertStandardError(err)
	info := lookupCode(mcpErr.Code())

	return &Payload{
		Kind:      mcpErr.Kind(),
		Code:      mcpErr.Code(),
		Message:   mcpErr.Message(),
		Retryable: info.Retryable,
		Hint:      kindHints[mcpErr.Kind()],
		Details:   mcpErr.Details(),
		Data:      mcpErr.Data(),
	}
}

// ConvertStandardError maps well-known standard library errors onto MCPErrors
func ConvertStandardError(err error) MCPError {
	if err == nil {
		return nil
	}

	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return WrapError(err, CodeUpstreamTimeout, "Operation timed out")
	case stderrors.As(err, &syntaxErr):
		return WrapError(err, CodeParseError, fmt.Sprintf("Invalid JSON: %s", err.Error()))
	case stderrors.As(err, &typeErr):
		return WrapError(err, CodeInvalidParams, fmt.Sprintf("Invalid argument type: %s", err.Error()))
	default:
		return WrapError(err, CodeInternalError, err.Error())
	}
}

// IsRetryableError reports whether the caller may reasonably retry the operation
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	return lookupCode(ConvertStandardError(err).Code()).Retryable
}
