package config

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/agentsmith/agentsmith/internal/config/backlog"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(string) (string, bool)

// applyEnv overlays non-empty environment variables onto cfg.
func applyEnv(cfg *Config, lookup lookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("OPENAI_API_KEY", &cfg.Provider.APIKey)
	str("OPENAI_MODEL", &cfg.Provider.Model)
	str("AIRTABLE_API_KEY", &cfg.Airtable.APIKey)
	str("AIRTABLE_BASE_ID", &cfg.Airtable.BaseID)
	str("AIRTABLE_BACKLOG_TABLE_ID", &cfg.Airtable.TableID)
	str("TELEGRAM_BOT_TOKEN", &cfg.Channels.Telegram.Token)
	str("SLACK_BOT_TOKEN", &cfg.Channels.Slack.BotToken)
	str("SLACK_APP_TOKEN", &cfg.Channels.Slack.AppToken)

	if v, ok := lookup("AGENT_MAX_STEPS"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			slog.Warn("Ignoring invalid AGENT_MAX_STEPS", "value", v)
		} else {
			cfg.Agent.MaxSteps = n
		}
	}

	// An empty backend means Airtable.
	if cfg.Backlog.Backend == "" {
		cfg.Backlog.Backend = backlog.BackendAirtable
	}
}
