package tools

import (
	"encoding/json"
	"sort"

	"github.com/agentsmith/agentsmith/internal/schema"
)

// ToolList holds a named set of tools and exposes them for LLM calls.
// It is built once by RegistryBuilder and never changes afterwards.
type ToolList struct {
	tools  map[string]schema.Tool
	names  []string // sorted
	checks map[string]argCheck
}

type argCheck struct {
	validator *ArgValidator
	err       error // schema failed to compile
}

// NewToolList builds a ToolList from ts. A later tool replaces an earlier
// one with the same name.
func NewToolList(ts ...schema.Tool) *ToolList {
	b := NewRegistryBuilder()
	for _, t := range ts {
		b.WithTool(t)
	}
	return b.Build()
}

// Get returns the tool with the given name, or nil if not found.
func (r *ToolList) Get(name string) schema.Tool {
	return r.tools[name]
}

// Names returns the registered tool names in sorted order.
func (r *ToolList) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// ValidateArgs checks args against the cached schema of the named tool.
// Unknown names are accepted; lookup failures are reported by the caller.
func (r *ToolList) ValidateArgs(name string, args schema.Args) error {
	c, ok := r.checks[name]
	if !ok {
		return nil
	}
	if c.err != nil {
		return c.err
	}
	return c.validator.Validate(args)
}

// Len returns the number of registered tools.
func (r *ToolList) Len() int { return len(r.names) }

// Definitions returns all tool definitions in OpenAI function-calling format,
// ordered by name.
func (r *ToolList) Definitions() []map[string]any {
	list := make([]map[string]any, 0, len(r.names))
	for _, name := range r.names {
		t := r.tools[name]
		var params any
		if err := json.Unmarshal(t.Parameters(), &params); err != nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
				"parameters":  params,
			},
		})
	}
	return list
}

func sortedNames(m map[string]schema.Tool) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
