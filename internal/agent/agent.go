// Package agent runs the LLM tool-calling loop behind every front end.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/agentsmith/agentsmith/internal/schema"
	"github.com/agentsmith/agentsmith/internal/shared/llmutils"
	"github.com/agentsmith/agentsmith/internal/tools"
)

// DefaultMaxSteps bounds the number of LLM calls in one Run.
const DefaultMaxSteps = 10

// Settings configures an Agent.
type Settings struct {
	Model        string
	MaxSteps     int // <= 0 means DefaultMaxSteps
	MaxTokens    int
	Temperature  float64
	SystemPrompt string // empty means SystemPrompt
}

// Agent answers prompts by alternating LLM calls and tool executions.
// It keeps no state between runs and is safe for concurrent use.
type Agent struct {
	LoopRunner
	systemPrompt string
}

var _ schema.Assistant = (*Agent)(nil)

// New returns an Agent. tls may be nil, in which case the model is offered
// no tools.
func New(provider schema.LLMProvider, tls *tools.ToolList, settings Settings) (*Agent, error) {
	if provider == nil {
		return nil, errors.New("agent: provider is required")
	}
	if tls == nil {
		tls = tools.NewToolList()
	}
	if settings.MaxSteps <= 0 {
		settings.MaxSteps = DefaultMaxSteps
	}
	if settings.Model == "" {
		settings.Model = provider.DefaultModel()
	}
	prompt := settings.SystemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = SystemPrompt
	}

	slog.Info("Agent initialised", "model", settings.Model, "tools", tls.Len(), "max_steps", settings.MaxSteps)

	return &Agent{
		LoopRunner:   newLoopRunner(provider, tls, settings),
		systemPrompt: prompt,
	}, nil
}

// Run executes one turn for prompt. See schema.Assistant.
func (a *Agent) Run(ctx context.Context, prompt string) (string, bool, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", false, fmt.Errorf("%w: prompt must not be blank", ErrInvalidArgument)
	}

	log := slog.With("run", uuid.NewString()[:8])
	log.Info("Agent run", "prompt", llmutils.Truncate(prompt, 100))

	conversation := schema.NewMessages(
		schema.NewSystemMessage(a.systemPrompt),
		schema.NewUserMessage(prompt),
	)
	return a.run(ctx, log, conversation)
}

// Summary runs SummaryPrompt.
func (a *Agent) Summary(ctx context.Context) (string, bool, error) {
	return a.Run(ctx, SummaryPrompt)
}
