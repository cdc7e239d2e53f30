package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned by Run for a blank prompt.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrProviderCommunication matches every *ProviderError.
	ErrProviderCommunication = errors.New("llm provider communication failed")
)

// Tool failures never abort a run. They are rendered into the tool result
// text the model sees, prefixed by one of these.
var (
	ErrToolNotFound         = errors.New("tool not found")
	ErrInvalidToolArguments = errors.New("invalid tool arguments")
	ErrToolExecution        = errors.New("tool execution failed")
)

// ProviderError reports a failed LLM call and the step it happened on.
type ProviderError struct {
	Step int
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("agent step %d: %v: %v", e.Step, ErrProviderCommunication, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProviderCommunication }
