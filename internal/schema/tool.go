// Package schema contains the core contracts shared across agentsmith packages.
// Concrete implementations live in their respective packages.
package schema

import (
	"context"
	"encoding/json"
)

// Tool is the interface all LLM-callable tools must satisfy.
//
// Execute reports tool-level failures (bad input, store errors) as the
// returned text so the conversation can continue. A non-nil error means the
// tool itself broke; the agent turns it into a tool result as well.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's parameters.
	Parameters() json.RawMessage
	Execute(ctx context.Context, args Args) (string, error)
}
