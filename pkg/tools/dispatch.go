package tools

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/uuid"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
	"github.com/ajitpratap0/hubscout/pkg/logging"
)

// Response is what a caller receives for one invocation: a result or a
// structured error payload, never both
type Response struct {
	OK           bool               `json:"ok"`
	Tool         string             `json:"tool"`
	InvocationID string             `json:"invocation_id"`
	Result       any                `json:"result,omitempty"`
	Error        *hubErrors.Payload `json:"error,omitempty"`
}

// JSON renders the response, indented for assistant readability
func (r *Response) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Dispatch decodes raw arguments and invokes the named tool. Every failure is
// folded into the returned Response.
func (r *Registry) Dispatch(ctx context.Context, name string, raw json.RawMessage) *Response {
	invocationID := logging.InvocationIDFromContext(ctx)
	if invocationID == "" {
		invocationID = uuid.New().String()
		ctx = logging.ContextWithInvocationID(ctx, invocationID)
	}

	args, err := decodeArguments(raw)
	if err != nil {
		return failure(name, invocationID, err)
	}

	return r.DispatchArgs(ctx, name, args)
}

// DispatchArgs is Dispatch for arguments that are already decoded
func (r *Registry) DispatchArgs(ctx context.Context, name string, args map[string]any) *Response {
	invocationID := logging.InvocationIDFromContext(ctx)
	if invocationID == "" {
		invocationID = uuid.New().String()
		ctx = logging.ContextWithInvocationID(ctx, invocationID)
	}

	result, err := r.Invoke(ctx, name, args)
	if err != nil {
		return failure(name, invocationID, err)
	}

	return &Response{
		OK:           true,
		Tool:         name,
		InvocationID: invocationID,
		Result:       result,
	}
}

func failure(name, invocationID string, err error) *Response {
	return &Response{
		OK:           false,
		Tool:         name,
		InvocationID: invocationID,
		Error:        hubErrors.ToPayload(err),
	}
}

func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, hubErrors.InvalidArgumentf("arguments must be a JSON object: %v", err)
	}
	return args, nil
}
