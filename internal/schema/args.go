package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Args is the decoded argument object of a tool call: parameter name to a
// JSON value (string, float64, bool, nil, []any or map[string]any).
type Args map[string]any

// ParseArgs decodes raw tool-call arguments. Blank input is an empty object;
// anything that is not a JSON object is rejected.
func ParseArgs(raw string) (Args, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Args{}, nil
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", jsonKind(v))
	}
	return Args(obj), nil
}

// String returns the string value for key.
func (a Args) String(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// Map returns the object value for key.
func (a Args) Map(key string) (map[string]any, bool) {
	m, ok := a[key].(map[string]any)
	return m, ok
}

// Slice returns the array value for key.
func (a Args) Slice(key string) ([]any, bool) {
	s, ok := a[key].([]any)
	return s, ok
}

// Has reports whether key is present, even with a null value.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
