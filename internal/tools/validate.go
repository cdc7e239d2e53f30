package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"

	"github.com/agentsmith/agentsmith/internal/schema"
)

// ArgValidator checks decoded tool arguments against a compiled parameter
// schema. A nil *ArgValidator accepts everything.
type ArgValidator struct {
	schema *jsonschema.Schema
}

// CompileArgs compiles params once. Empty params yield a nil validator.
func CompileArgs(params json.RawMessage) (*ArgValidator, error) {
	if len(bytes.TrimSpace(params)) == 0 {
		return nil, nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(params))
	if err != nil {
		return nil, fmt.Errorf("tool schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("tool.json", doc); err != nil {
		return nil, fmt.Errorf("tool schema: %w", err)
	}
	sch, err := c.Compile("tool.json")
	if err != nil {
		return nil, fmt.Errorf("tool schema: %w", err)
	}
	return &ArgValidator{schema: sch}, nil
}

// Validate checks args. Unknown properties are accepted; null values are
// dropped first so a field can be cleared.
func (v *ArgValidator) Validate(args schema.Args) error {
	if v == nil {
		return nil
	}
	err := v.schema.Validate(dropNulls(map[string]any(args)))
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	return describeFailure(firstLeaf(ve))
}

// ValidateArgs compiles params and checks args in one go.
func ValidateArgs(params json.RawMessage, args schema.Args) error {
	v, err := CompileArgs(params)
	if err != nil {
		return err
	}
	return v.Validate(args)
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if val != nil {
				out[k] = dropNulls(val)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = dropNulls(val)
		}
		return out
	}
	return v
}

// firstLeaf returns the most specific cause, picking the lowest instance
// location when several properties fail.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return ve
	}
	leaves := make([]*jsonschema.ValidationError, 0, len(ve.Causes))
	for _, c := range ve.Causes {
		leaves = append(leaves, firstLeaf(c))
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return strings.Join(leaves[i].InstanceLocation, "/") < strings.Join(leaves[j].InstanceLocation, "/")
	})
	return leaves[0]
}

func describeFailure(ve *jsonschema.ValidationError) error {
	p := prefix(path(ve.InstanceLocation))
	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		return fmt.Errorf("%smissing required property %q", p, k.Missing[0])
	case *kind.Type:
		return fmt.Errorf("%sexpected %s, got %s", p, strings.Join(k.Want, " or "), k.Got)
	case *kind.Enum:
		allowed, _ := json.Marshal(k.Want)
		return fmt.Errorf("%svalue %s is not one of %s", p, describe(k.Got), allowed)
	}
	return errors.New(ve.Error())
}

// path renders a JSON pointer token list as fields.Attachments[0].
func path(tokens []string) string {
	var b strings.Builder
	for _, tok := range tokens {
		if _, err := strconv.Atoi(tok); err == nil {
			b.WriteString("[" + tok + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(tok)
	}
	return b.String()
}

func describe(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	s := string(data)
	if len(s) > 60 {
		s = s[:60] + "..."
	}
	return s
}

func prefix(path string) string {
	if path == "" {
		return ""
	}
	return path + ": "
}
