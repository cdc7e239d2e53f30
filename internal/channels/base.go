// Package channels provides the user-facing front ends: an interactive
// terminal, a Telegram bot and a Slack app.
package channels

import (
	"context"
	"log/slog"
	"strings"

	"github.com/agentsmith/agentsmith/internal/schema"
	"github.com/agentsmith/agentsmith/internal/shared/llmutils"
)

const (
	// NoResultText is shown when the agent ran out of steps.
	NoResultText = "🤔 I couldn't process that request. Try rephrasing or use /help for guidance."
	// ErrorTextPrefix starts every error reply.
	ErrorTextPrefix = "❌ Sorry, I encountered an error: "
)

// Base holds common state and helper methods shared by all channels.
type Base struct {
	name      string
	assistant schema.Assistant
	allowFrom []string // empty = allow all
}

// NewBase creates a Base with the given channel name, assistant, and allowlist.
func NewBase(name string, a schema.Assistant, allowFrom []string) Base {
	return Base{name: name, assistant: a, allowFrom: allowFrom}
}

func (b *Base) Name() string { return b.name }

// IsAllowed checks whether senderID is on the allowlist.
// senderID may be "id|username" (Telegram) or a plain string.
func (b *Base) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, part := range strings.Split(senderID, "|") {
		if part == "" {
			continue
		}
		for _, allowed := range b.allowFrom {
			if allowed == part || allowed == senderID {
				return true
			}
		}
	}
	return false
}

// Ask runs prompt through the assistant and returns the text to show.
func (b *Base) Ask(ctx context.Context, prompt string) string {
	reply, ok, err := b.assistant.Run(ctx, prompt)
	return b.present(reply, ok, err)
}

// Summary runs the proactive backlog review and returns the text to show.
func (b *Base) Summary(ctx context.Context) string {
	reply, ok, err := b.assistant.Summary(ctx)
	return b.present(reply, ok, err)
}

// present maps the three run outcomes onto user-facing text.
func (b *Base) present(reply string, ok bool, err error) string {
	switch {
	case err != nil:
		slog.Error("agent run failed", "channel", b.name, "err", err)
		return ErrorTextPrefix + err.Error()
	case !ok:
		return NoResultText
	}
	reply = llmutils.StripThink(reply)
	if reply == "" {
		return NoResultText
	}
	return reply
}
