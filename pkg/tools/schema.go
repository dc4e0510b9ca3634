package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

// inputSchema is the compiled form of a tool's declared input schema
type inputSchema struct {
	validator  *gojsonschema.Schema
	properties map[string]propertySchema
	required   []string
}

type propertySchema struct {
	Type    string          `json:"type"`
	Default json.RawMessage `json:"default,omitempty"`
	Items   *propertySchema `json:"items,omitempty"`
}

type schemaShape struct {
	Type       string                    `json:"type"`
	Properties map[string]propertySchema `json:"properties"`
	Required   []string                  `json:"required"`
}

// EmptySchema accepts an object with no declared properties
var EmptySchema = json.RawMessage(`{"type":"object","properties":{}}`)

func compileSchema(raw json.RawMessage) (*inputSchema, error) {
	if len(raw) == 0 {
		raw = EmptySchema
	}

	var shape schemaShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, fmt.Errorf("schema is not a JSON object: %w", err)
	}
	if shape.Type != "object" {
		return nil, fmt.Errorf("schema type must be \"object\", got %q", shape.Type)
	}

	validator, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}

	return &inputSchema{
		validator:  validator,
		properties: shape.Properties,
		required:   shape.Required,
	}, nil
}

// prepare fills defaults and coerces numeric and boolean strings such as "2"
// for an integer property. Every other mismatch is left for validate to
// reject. It returns a new map; args is left untouched.
func (s *inputSchema) prepare(args map[string]any) map[string]any {
	out := make(map[string]any, len(args)+len(s.properties))
	for k, v := range args {
		out[k] = v
	}

	for name, prop := range s.properties {
		v, present := out[name]
		if !present || v == nil {
			if len(prop.Default) > 0 {
				var def any
				if err := json.Unmarshal(prop.Default, &def); err == nil {
					out[name] = def
				}
			}
			continue
		}
		out[name] = coerce(v, prop)
	}

	return out
}

func coerce(v any, prop propertySchema) any {
	switch prop.Type {
	case "integer":
		if s, ok := v.(string); ok {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return float64(n)
			}
		}
	case "number":
		if s, ok := v.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f
			}
		}
	case "boolean":
		if s, ok := v.(string); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return b
			}
		}
	case "array":
		if list, ok := v.([]any); ok && prop.Items != nil {
			coerced := make([]any, len(list))
			for i, item := range list {
				coerced[i] = coerce(item, *prop.Items)
			}
			return coerced
		}
	}
	return v
}

// validate checks args against the schema and maps violations onto
// invalid_argument errors
func (s *inputSchema) validate(args map[string]any) error {
	result, err := s.validator.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return hubErrors.InvalidArgumentf("arguments could not be validated: %v", err)
	}
	if result.Valid() {
		return nil
	}

	violations := result.Errors()
	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Field() < violations[j].Field()
	})

	errs := make([]hubErrors.MCPError, 0, len(violations))
	for _, v := range violations {
		if v.Type() == "required" {
			errs = append(errs, hubErrors.MissingParameter(fmt.Sprint(v.Details()["property"])))
			continue
		}
		errs = append(errs, hubErrors.SchemaViolation(v.Field(), v.Value(), v.Description()))
	}

	return hubErrors.CombineValidationErrors(errs)
}
