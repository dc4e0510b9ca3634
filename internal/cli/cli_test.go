package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/hubscout/internal/config"
	"github.com/ajitpratap0/hubscout/internal/hub/hubtest"
	"github.com/ajitpratap0/hubscout/pkg/tools"
)

func loaderFor(vars map[string]string) loadFunc {
	return func() (*config.Config, error) {
		return config.LoadFrom(vars)
	}
}

func execute(t *testing.T, ctx context.Context, load loadFunc, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(load)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func fakeHub(t *testing.T) map[string]string {
	t.Helper()
	srv := hubtest.NewServer(t)
	srv.AddRepository(
		hubtest.Repository{Namespace: "library", Name: "nginx", StarCount: 100, PullCount: 1_000_000_000, IsOfficial: true},
		hubtest.Repository{Namespace: "library", Name: "httpd", StarCount: 100, PullCount: 500_000_000, IsOfficial: true},
	)
	return map[string]string{"HUBSCOUT_HUB_BASE_URL": srv.URL}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, context.Background(), loaderFor(nil), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hubscout dev")
}

func TestToolsTableKeepsRegistrationOrder(t *testing.T) {
	out := toolsTable([]tools.Definition{
		{Name: "search_images", Categories: []string{"search"}, Description: "Search Docker Hub"},
		{Name: "greet", Categories: []string{"demo"}, Description: "Say hello"},
	})

	lines := strings.Split(out, "\n")
	var rows []string
	for _, line := range lines {
		if strings.Contains(line, "search_images") || strings.Contains(line, "greet") {
			rows = append(rows, line)
		}
	}
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "search_images")
	assert.Contains(t, rows[0], "Search Docker Hub")
	assert.Contains(t, rows[1], "greet")
	assert.Contains(t, rows[1], "demo")
	assert.Contains(t, lines[0]+lines[1], "NAME")
}

func TestErrorsCommand(t *testing.T) {
	out, _, err := execute(t, context.Background(), loaderFor(nil), "errors")
	require.NoError(t, err)
	assert.Contains(t, out, "RETRYABLE")
	assert.Contains(t, out, "RegistryUnavailable")
	assert.Contains(t, out, "-32500")

	out, _, err = execute(t, context.Background(), loaderFor(nil), "errors", "--json")
	require.NoError(t, err)
	var codes []errorCodeInfo
	require.NoError(t, json.Unmarshal([]byte(out), &codes))
	require.NotEmpty(t, codes)
	assert.Equal(t, -32100, codes[0].Code)
	assert.Equal(t, "duplicate_tool", codes[0].Kind)

	rateLimited, ok := lo.Find(codes, func(c errorCodeInfo) bool { return c.Name == "RateLimited" })
	require.True(t, ok)
	assert.True(t, rateLimited.Retryable)
	assert.Equal(t, "registry_unavailable", rateLimited.Kind)
}

func TestToolsCommand(t *testing.T) {
	out, _, err := execute(t, context.Background(), loaderFor(nil), "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "compare_images")
	assert.Contains(t, out, "analyze_image_layers")

	out, _, err = execute(t, context.Background(), loaderFor(nil), "tools", "--json")
	require.NoError(t, err)
	var listed []toolInfo
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Len(t, listed, 8)
	assert.Equal(t, "greet", listed[0].Name)
	assert.True(t, json.Valid(listed[0].InputSchema))
}

func TestCallCommand(t *testing.T) {
	vars := fakeHub(t)

	out, stderr, err := execute(t, context.Background(), loaderFor(vars),
		"call", "compare_images", "--args", `{"image_names":["nginx","httpd"]}`)
	require.NoError(t, err, stderr)

	var resp struct {
		OK     bool `json:"ok"`
		Result struct {
			Winner *string `json:"winner"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.OK)
	require.NotNil(t, resp.Result.Winner)
	assert.Equal(t, "library/nginx", *resp.Result.Winner)
	assert.Contains(t, stderr, "Tool call completed", "logs go to stderr")
}

func TestCallCommandFailure(t *testing.T) {
	vars := fakeHub(t)

	out, _, err := execute(t, context.Background(), loaderFor(vars),
		"call", "get_image_details", "--args", `{"image_name":"nonexistent/nonexistent-xyz"}`)
	require.ErrorIs(t, err, errToolFailed)

	var resp tools.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, "not_found", string(resp.Error.Kind))
}

func TestCallCommandBadArguments(t *testing.T) {
	_, _, err := execute(t, context.Background(), loaderFor(nil), "call", "greet", "--args", `not json`)
	assert.ErrorIs(t, err, errToolFailed)

	_, _, err = execute(t, context.Background(), loaderFor(nil), "call")
	assert.Error(t, err, "tool name is required")
}

func TestServeRejectsUnknownTransport(t *testing.T) {
	_, _, err := execute(t, context.Background(), loaderFor(nil), "serve", "--transport", "smoke-signals")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRANSPORT")
}

func TestServeStdioStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, stderr, err := execute(t, ctx, loaderFor(nil), "serve")
	require.NoError(t, err)
	assert.Contains(t, stderr, "hubscout stopped")
}

func TestConfigErrorsSurface(t *testing.T) {
	_, _, err := execute(t, context.Background(), loaderFor(map[string]string{"HUBSCOUT_LOG_LEVEL": "loud"}), "tools")
	assert.Error(t, err)
}
