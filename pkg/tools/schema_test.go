package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

var compareSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"image_names": {"type": "array", "items": {"type": "string"}, "minItems": 2},
		"tag": {"type": "string", "default": "latest"},
		"ratio": {"type": "number"}
	},
	"required": ["image_names"]
}`)

func TestCompileSchemaRejectsNonObject(t *testing.T) {
	_, err := compileSchema(json.RawMessage(`[]`))
	assert.Error(t, err)

	_, err = compileSchema(json.RawMessage(`{"type":"array"}`))
	assert.Error(t, err)

	s, err := compileSchema(nil)
	require.NoError(t, err)
	assert.NoError(t, s.validate(map[string]any{}))
}

func TestPrepareKeepsMismatchedTypes(t *testing.T) {
	s, err := compileSchema(compareSchema)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   map[string]any
		key  string
		want any
	}{
		{"list passes through", map[string]any{"image_names": []any{"nginx", "httpd"}}, "image_names", []any{"nginx", "httpd"}},
		{"lone value stays scalar", map[string]any{"image_names": "nginx"}, "image_names", "nginx"},
		{"json text stays a string", map[string]any{"image_names": `["nginx"]`}, "image_names", `["nginx"]`},
		{"numbers in a string list", map[string]any{"image_names": []any{1.0, 2.0}}, "image_names", []any{1.0, 2.0}},
		{"number for a string", map[string]any{"image_names": []any{"nginx", "httpd"}, "tag": 42.0}, "tag", 42.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s.prepare(tt.in)
			assert.Equal(t, tt.want, out[tt.key])

			err := s.validate(out)
			if tt.name == "list passes through" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, hubErrors.IsKind(err, hubErrors.KindInvalidArgument))
		})
	}
}

func TestPrepareDoesNotMutateInput(t *testing.T) {
	s, err := compileSchema(compareSchema)
	require.NoError(t, err)

	in := map[string]any{"ratio": "0.5"}
	out := s.prepare(in)
	assert.Equal(t, "0.5", in["ratio"])
	assert.Equal(t, 0.5, out["ratio"])
	assert.NotContains(t, in, "tag")
}

func TestValidateMinItems(t *testing.T) {
	s, err := compileSchema(compareSchema)
	require.NoError(t, err)

	err = s.validate(s.prepare(map[string]any{"image_names": "nginx"}))
	require.Error(t, err)
	assert.True(t, hubErrors.IsKind(err, hubErrors.KindInvalidArgument))
}

func TestArgumentsAccessors(t *testing.T) {
	args := Arguments{
		"name":  "  nginx ",
		"blank": " ",
		"page":  float64(3),
		"half":  2.5,
		"list":  []any{"a", "b"},
		"mixed": []any{"a", 1.0},
	}

	s, err := args.RequireString("name")
	require.NoError(t, err)
	assert.Equal(t, "nginx", s)

	_, err = args.RequireString("blank")
	assert.True(t, hubErrors.IsCode(err, hubErrors.CodeInvalidParameter))
	_, err = args.RequireString("absent")
	assert.True(t, hubErrors.IsCode(err, hubErrors.CodeMissingParameter))

	n, err := args.Int("page", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = args.Int("absent", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	_, err = args.Int("half", 1)
	assert.Error(t, err)

	list, err := args.StringSlice("list")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)
	_, err = args.StringSlice("mixed")
	assert.Error(t, err)
}
