package tools

import "github.com/agentsmith/agentsmith/internal/schema"

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable ToolList ready for use.
type RegistryBuilder struct {
	tools map[string]schema.Tool
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[string]schema.Tool)}
}

// WithTool adds a tool and returns the builder, enabling chaining.
func (b *RegistryBuilder) WithTool(tool schema.Tool) *RegistryBuilder {
	b.tools[tool.Name()] = tool

	return b
}

// Build produces an immutable ToolList from the accumulated tools. Each
// tool's parameter schema is compiled here, once.
func (b *RegistryBuilder) Build() *ToolList {
	tools := make(map[string]schema.Tool, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}
	checks := make(map[string]argCheck, len(tools))
	for name, t := range tools {
		v, err := CompileArgs(t.Parameters())
		checks[name] = argCheck{validator: v, err: err}
	}
	return &ToolList{tools: tools, names: sortedNames(tools), checks: checks}
}
