package tools

import (
	"fmt"
	"math"
	"strings"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

// Arguments are the validated, default-filled arguments of one invocation
type Arguments map[string]any

// Has reports whether name was supplied (or defaulted)
func (a Arguments) Has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// String returns a string argument, or "" when absent
func (a Arguments) String(name string) string {
	if s, ok := a[name].(string); ok {
		return s
	}
	return ""
}

// RequireString returns a non-blank string argument
func (a Arguments) RequireString(name string) (string, error) {
	s := strings.TrimSpace(a.String(name))
	if s == "" {
		if a.Has(name) {
			return "", hubErrors.InvalidParameter(name, a[name], "non-empty string")
		}
		return "", hubErrors.MissingParameter(name)
	}
	return s, nil
}

// Int returns an integer argument, or def when absent
func (a Arguments) Int(name string, def int) (int, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return def, nil
	}

	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, hubErrors.InvalidParameter(name, v, "integer")
		}
		return int(n), nil
	default:
		return 0, hubErrors.InvalidParameter(name, v, "integer")
	}
}

// StringSlice returns a list-of-strings argument
func (a Arguments) StringSlice(name string) ([]string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, nil
	}

	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, hubErrors.InvalidParameter(fmt.Sprintf("%s[%d]", name, i), item, "string")
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, hubErrors.InvalidParameter(name, v, "array of strings")
	}
}
