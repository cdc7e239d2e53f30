package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/agentsmith/agentsmith/internal/schema"
	"github.com/agentsmith/agentsmith/internal/shared/llmutils"
	"github.com/agentsmith/agentsmith/internal/tools"
)

// LoopRunner executes the LLM ↔ tool iteration loop.
type LoopRunner struct {
	provider schema.LLMProvider
	tools    *tools.ToolList
	settings Settings
}

func newLoopRunner(provider schema.LLMProvider, tls *tools.ToolList, settings Settings) LoopRunner {
	return LoopRunner{provider: provider, tools: tls, settings: settings}
}

// run drives conversation until the model answers without tool calls or the
// step budget is spent. ok is false only in the latter case.
func (r *LoopRunner) run(ctx context.Context, log *slog.Logger, conversation schema.Messages) (string, bool, error) {
	definitions := r.tools.Definitions()
	opts := schema.NewChatOptions(r.settings.Model, r.settings.MaxTokens, r.settings.Temperature)

	for step := 1; step <= r.settings.MaxSteps; step++ {
		log.Debug("Agent step", "step", step, "max", r.settings.MaxSteps)

		resp, err := r.provider.Chat(ctx, conversation, definitions, opts)
		if err != nil {
			log.Error("LLM call failed", "step", step, "err", err)
			return "", false, &ProviderError{Step: step, Err: err}
		}

		if !resp.HasToolCalls() {
			conversation.AddAssistant(resp.Content, nil)
			content := ""
			if resp.Content != nil {
				content = *resp.Content
			}
			log.Info("Agent completed", "steps", step)
			return content, true, nil
		}

		calls := normaliseCallIDs(log, resp.ToolCalls)
		conversation.AddAssistant(resp.Content, calls)

		log.Info("Executing tool calls", "count", len(calls))
		for _, tc := range calls {
			result := r.execute(ctx, log, tc)
			conversation.AddToolResult(tc.ID, tc.Name, result)
		}
	}

	log.Warn("Agent reached maximum steps without completion", "max", r.settings.MaxSteps)
	return "", false, nil
}

// execute runs one tool call and always returns the text to send back to
// the model, whatever goes wrong.
func (r *LoopRunner) execute(ctx context.Context, log *slog.Logger, tc schema.ToolCall) (result string) {
	log = log.With("tool", tc.Name, "call_id", tc.ID)
	log.Info("Tool call", "args", llmutils.Truncate(tc.Arguments, 200))

	t := r.tools.Get(tc.Name)
	if t == nil {
		err := fmt.Errorf("%w: %q. Available tools: %s", ErrToolNotFound, tc.Name, strings.Join(r.tools.Names(), ", "))
		log.Error("Unknown tool", "err", err)
		return "Error: " + err.Error()
	}

	args, err := schema.ParseArgs(tc.Arguments)
	if err != nil {
		err = fmt.Errorf("%w for %s: malformed JSON %q: %v", ErrInvalidToolArguments, tc.Name, llmutils.Truncate(tc.Arguments, 200), err)
		log.Error("Bad tool arguments", "err", err)
		return "Error: " + err.Error()
	}
	if err := r.tools.ValidateArgs(tc.Name, args); err != nil {
		err = fmt.Errorf("%w for %s: %v", ErrInvalidToolArguments, tc.Name, err)
		log.Error("Tool arguments rejected", "err", err)
		return "Error: " + err.Error()
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error("Tool panicked", "panic", p)
			result = fmt.Sprintf("Error: %v for %s: panic: %v", ErrToolExecution, tc.Name, p)
		}
	}()

	out, err := t.Execute(ctx, args)
	if err != nil {
		log.Error("Tool failed", "err", err)
		return fmt.Sprintf("Error: %v for %s: %v", ErrToolExecution, tc.Name, err)
	}
	log.Info("Tool executed", "result", llmutils.Truncate(out, 200))
	return out
}

// normaliseCallIDs gives every call a unique non-empty ID so each request is
// answered by exactly one correlated result.
func normaliseCallIDs(log *slog.Logger, calls []schema.ToolCall) []schema.ToolCall {
	out := make([]schema.ToolCall, len(calls))
	seen := make(map[string]bool, len(calls))
	for i, tc := range calls {
		if tc.ID == "" || seen[tc.ID] {
			id := "call_" + uuid.NewString()
			if tc.ID != "" {
				log.Warn("Duplicate tool call id replaced", "id", tc.ID, "new_id", id)
			}
			tc.ID = id
		}
		seen[tc.ID] = true
		out[i] = tc
	}
	return out
}
