package schema

import "context"

// Assistant is what a front end talks to.
//
// Run executes one conversational turn. ok is false when the agent ran out
// of steps without a final answer; err is non-nil only for invalid input or
// a failed LLM call.
type Assistant interface {
	Run(ctx context.Context, prompt string) (reply string, ok bool, err error)
	// Summary runs the fixed proactive backlog-review prompt.
	Summary(ctx context.Context) (reply string, ok bool, err error)
}

// FrontEnd is a user-facing shell around an Assistant.
type FrontEnd interface {
	// Name returns the unique front-end identifier (e.g. "telegram").
	Name() string
	// Start begins serving users; it blocks until ctx is cancelled or input ends.
	Start(ctx context.Context) error
	// Send delivers unsolicited text (e.g. a scheduled summary) to the
	// front end's default destination.
	Send(ctx context.Context, text string) error
}
