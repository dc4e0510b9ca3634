package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

func newTextLogger(buf *bytes.Buffer) Logger {
	f := NewTextFormatter()
	f.DisableColors = true
	return New(buf, f)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf)
	logger.SetLevel(DebugLevel)

	logger.Debug("Debug message", String("key", "value"))
	logger.Info("Info message", Int("count", 42))
	logger.Warn("Warning message", Bool("flag", true))
	logger.Error("Error message", ErrorField(errors.New("boom")))

	output := buf.String()
	for _, want := range []string{
		"[DEBUG] Debug message", "[INFO] Info message", "[WARN] Warning message", "[ERROR] Error message",
		"key=value", "count=42", "flag=true", "error=boom",
	} {
		assert.Contains(t, output, want)
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf)
	logger.SetLevel(WarnLevel)

	logger.Debug("Debug message")
	logger.Info("Info message")
	logger.Warn("Warning message")
	logger.Error("Error message")

	output := buf.String()
	assert.NotContains(t, output, "Debug message")
	assert.NotContains(t, output, "Info message")
	assert.Contains(t, output, "Warning message")
	assert.Contains(t, output, "Error message")
}

func TestChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := newTextLogger(&buf)
	child := parent.WithFields(String("component", "hub"))

	parent.SetLevel(ErrorLevel)
	child.Info("hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, ErrorLevel, child.GetLevel())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"", InfoLevel, false},
		{"WARN", WarnLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWithOptions(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOptions(Options{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Debug("hello")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])

	_, err = NewWithOptions(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf).WithFields(
		String("service", "hubscout"),
		String("version", "1.0.0"),
	)

	logger.Info("Test message", String("endpoint", "search"))

	output := buf.String()
	assert.Contains(t, output, "service=hubscout")
	assert.Contains(t, output, "version=1.0.0")
	assert.Contains(t, output, "endpoint=search")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRequestID(context.Background(), "test-request-123")
	newTextLogger(&buf).WithContext(ctx).Info("Test message")
	assert.Contains(t, buf.String(), "[test-request-123]")

	buf.Reset()
	invocation := "0b1d7f3a-8c2e-4d8b-9a51-6f0e2c7d9b44"
	ctx = ContextWithInvocationID(ctx, invocation)
	newTextLogger(&buf).WithContext(ctx).Info("Tool message")
	assert.Contains(t, buf.String(), "[0b1d7f3a]")
	assert.Contains(t, buf.String(), "request_id=test-request-123")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer

	hubErr := hubErrors.InvalidParameter("page", "abc", "integer").
		WithContext(&hubErrors.Context{
			InvocationID: "inv-123",
			Component:    "registry",
			Tool:         "search_images",
		})

	newTextLogger(&buf).WithError(hubErr).Error("Invocation failed")

	output := buf.String()
	assert.Contains(t, output, "error=")
	assert.Contains(t, output, "error_code=-32752")
	assert.Contains(t, output, "error_kind=invalid_argument")
	assert.Contains(t, output, "[inv-123]")
	assert.Contains(t, output, "registry/search_images:")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, NewJSONFormatter())

	logger.Info("Test message",
		String("key", "value"),
		Int("count", 42),
		Bool("flag", true),
		Duration("duration", 1500*time.Millisecond),
		ErrorField(errors.New("test error")),
	)

	var entry map[string]interface{}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Test message", entry["message"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, float64(42), entry["count"])
	assert.Equal(t, true, entry["flag"])
	assert.Equal(t, float64(1500), entry["duration"])
	assert.Equal(t, "1.5s", entry["duration_human"])
	assert.Equal(t, "test error", entry["error"])
	assert.Contains(t, entry, "timestamp")
}

func TestSecretFieldsRedacted(t *testing.T) {
	var text bytes.Buffer
	newTextLogger(&text).Info("Hub client ready",
		String("hub_token", "dckr_pat_abc"),
		String("Authorization", "Bearer xyz"),
	)
	assert.Contains(t, text.String(), "hub_token=[redacted]")
	assert.Contains(t, text.String(), "Authorization=[redacted]")
	assert.NotContains(t, text.String(), "dckr_pat_abc")
	assert.NotContains(t, text.String(), "Bearer xyz")

	var js bytes.Buffer
	New(&js, NewJSONFormatter()).Info("Hub client ready", String("hub_token", "dckr_pat_abc"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(js.Bytes()), &entry))
	assert.Equal(t, "[redacted]", entry["hub_token"])
}

func TestTextValueQuoting(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"plain", "nginx", "nginx"},
		{"empty", "", `""`},
		{"spaces", "image not found", `"image not found"`},
		{"equals", "a=b", `"a=b"`},
		{"duration", 250 * time.Millisecond, "250ms"},
		{"error", errors.New("boom"), "boom"},
		{"number", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textValue("field", tt.value))
		})
	}
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf)
	std := NewStdLogger(logger, "stdio", InfoLevel)

	std.Printf("session %s started", "abc")
	std.Println("Error reading input: EOF")

	output := buf.String()
	assert.Contains(t, output, "[INFO] stdio: session abc started")
	assert.Contains(t, output, "[ERROR] stdio: Error reading input: EOF")
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf)

	var seen string
	handler := RequestIDMiddleware(nil)(HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "bytes=15")
	assert.Contains(t, buf.String(), "path=/mcp")
}

func TestRequestIDMiddlewareGenerates(t *testing.T) {
	handler := RequestIDMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}
