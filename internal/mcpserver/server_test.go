package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/hubscout/pkg/tools"
)

var nameSchema = json.RawMessage(`{
	"type": "object",
	"properties": {"name": {"type": "string"}},
	"required": ["name"]
}`)

func newRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(tools.Definition{
		Name:        "greet",
		Description: "Greet a person by name",
		InputSchema: nameSchema,
		Annotations: tools.Annotations{Title: "Greet", ReadOnly: true},
		Handler: func(_ context.Context, args tools.Arguments) (any, error) {
			name, err := args.RequireString("name")
			if err != nil {
				return nil, err
			}
			return "Hello, " + name + "!", nil
		},
	}))
	require.NoError(t, reg.Register(tools.Definition{
		Name:        "explode",
		Description: "Always fails",
		Annotations: tools.Annotations{OpenWorld: true},
		Handler: func(context.Context, tools.Arguments) (any, error) {
			return nil, errors.New("boom")
		},
	}))
	reg.Seal()
	return reg
}

func newServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := New("hubscout", "test", newRegistry(t), opts...)
	require.NoError(t, err)
	return s
}

// rpc sends one JSON-RPC request through the protocol server and returns the
// re-encoded response
func rpc(t *testing.T, s *Server, method string, params any) map[string]json.RawMessage {
	t.Helper()
	req, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": method, "params": params})
	require.NoError(t, err)

	raw, err := json.Marshal(s.MCP().HandleMessage(context.Background(), req))
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Contains(t, out, "result", string(raw))
	return out
}

type toolCallResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) (toolCallResult, tools.Response) {
	t.Helper()
	out := rpc(t, s, "tools/call", map[string]any{"name": name, "arguments": args})

	var res toolCallResult
	require.NoError(t, json.Unmarshal(out["result"], &res))
	require.Len(t, res.Content, 1)
	assert.Equal(t, "text", res.Content[0].Type)

	var resp tools.Response
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &resp))
	return res, resp
}

func TestNewRequiresSealedRegistry(t *testing.T) {
	_, err := New("hubscout", "test", tools.NewRegistry())
	assert.ErrorIs(t, err, ErrRegistryNotSealed)
}

func TestToolsList(t *testing.T) {
	s := newServer(t)
	out := rpc(t, s, "tools/list", map[string]any{})

	var res struct {
		Tools []struct {
			Name        string          `json:"name"`
			Description string          `json:"description"`
			InputSchema json.RawMessage `json:"inputSchema"`
			Annotations struct {
				Title         string `json:"title"`
				ReadOnlyHint  *bool  `json:"readOnlyHint"`
				OpenWorldHint *bool  `json:"openWorldHint"`
			} `json:"annotations"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(out["result"], &res))
	require.Len(t, res.Tools, 2)

	byName := map[string]int{}
	for i, tool := range res.Tools {
		byName[tool.Name] = i
	}
	greet := res.Tools[byName["greet"]]
	assert.Equal(t, "Greet a person by name", greet.Description)
	assert.Equal(t, "Greet", greet.Annotations.Title)
	require.NotNil(t, greet.Annotations.ReadOnlyHint)
	assert.True(t, *greet.Annotations.ReadOnlyHint)
	assert.Contains(t, string(greet.InputSchema), `"required"`)

	explode := res.Tools[byName["explode"]]
	require.NotNil(t, explode.Annotations.OpenWorldHint)
	assert.True(t, *explode.Annotations.OpenWorldHint)
}

func TestToolsCallSuccess(t *testing.T) {
	s := newServer(t)

	res, resp := callTool(t, s, "greet", map[string]any{"name": "Ada"})
	assert.False(t, res.IsError)
	assert.True(t, resp.OK)
	assert.Equal(t, "greet", resp.Tool)
	assert.Equal(t, "Hello, Ada!", resp.Result)
	assert.NotEmpty(t, resp.InvocationID)
}

func TestToolsCallFailuresAreInBand(t *testing.T) {
	s := newServer(t)

	res, resp := callTool(t, s, "greet", map[string]any{})
	assert.True(t, res.IsError)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_argument", string(resp.Error.Kind))

	res, resp = callTool(t, s, "explode", nil)
	assert.True(t, res.IsError)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "handler_error", string(resp.Error.Kind))
	assert.True(t, strings.Contains(resp.Error.Message, "explode"), resp.Error.Message)
}
