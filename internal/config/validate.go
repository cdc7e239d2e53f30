package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentsmith/agentsmith/internal/config/backlog"
	"github.com/agentsmith/agentsmith/internal/providers"
)

// ErrMissingCredential is wrapped by every validation failure about an
// absent key, token or id.
var ErrMissingCredential = errors.New("missing credential")

func missing(what, env string) error {
	return fmt.Errorf("%w: %s is required (set %s)", ErrMissingCredential, what, env)
}

// Validate checks what every command needs: an LLM credential and a usable
// backlog store.
func (c *Config) Validate() error {
	var errs []error

	if c.Provider.NeedsAPIKey() && c.Provider.APIKey == "" {
		errs = append(errs, missing("provider.apiKey", "OPENAI_API_KEY"))
	}
	if c.Provider.Name != "" && providers.FindByName(c.Provider.Name) == nil {
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider.Name))
	}
	if c.Agent.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("agent.maxSteps must not be negative, got %d", c.Agent.MaxSteps))
	}

	switch strings.ToLower(c.Backlog.Backend) {
	case backlog.BackendAirtable, "":
		if c.Airtable.APIKey == "" {
			errs = append(errs, missing("airtable.apiKey", "AIRTABLE_API_KEY"))
		}
		if c.Airtable.BaseID == "" {
			errs = append(errs, missing("airtable.baseId", "AIRTABLE_BASE_ID"))
		}
	case backlog.BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown backlog backend %q", c.Backlog.Backend))
	}

	return errors.Join(errs...)
}

// ValidateTelegram checks the Telegram front end can start.
func (c *Config) ValidateTelegram() error {
	if c.Channels.Telegram.Token == "" {
		return missing("channels.telegram.token", "TELEGRAM_BOT_TOKEN")
	}
	return nil
}

// ValidateSlack checks the Slack front end can start.
func (c *Config) ValidateSlack() error {
	var errs []error
	if c.Channels.Slack.BotToken == "" {
		errs = append(errs, missing("channels.slack.botToken", "SLACK_BOT_TOKEN"))
	}
	if !strings.HasPrefix(c.Channels.Slack.AppToken, "xapp-") {
		errs = append(errs, missing("channels.slack.appToken (xapp-...)", "SLACK_APP_TOKEN"))
	}
	return errors.Join(errs...)
}
