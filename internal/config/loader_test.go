package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentsmith/agentsmith/internal/config/backlog"
)

func writeConfig(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// clearEnv blanks every variable applyEnv reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"OPENAI_API_KEY", "OPENAI_MODEL", "AGENT_MAX_STEPS",
		"AIRTABLE_API_KEY", "AIRTABLE_BASE_ID", "AIRTABLE_BACKLOG_TABLE_ID",
		"TELEGRAM_BOT_TOKEN", "SLACK_BOT_TOKEN", "SLACK_APP_TOKEN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), map[string]any{
		"provider": map[string]any{"model": "gpt-4o-mini", "apiKey": "sk-file"},
		"agent":    map[string]any{"maxSteps": 4},
		"airtable": map[string]any{"apiKey": "pat", "baseId": "appX"},
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Provider.Model)
	assert.Equal(t, "openai", cfg.Provider.Name, "unset keys keep defaults")
	assert.Equal(t, 4, cfg.Agent.MaxSteps)
	assert.Equal(t, 4096, cfg.Agent.MaxTokens)
	assert.Equal(t, "appX", cfg.Airtable.BaseID)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backlog:
  backend: sqlite
  table: Tasks
channels:
  telegram:
    enabled: true
    allowFrom: ["42"]
schedule:
  summary:
    enabled: true
    cron: "30 8 * * *"
    channel: telegram
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, backlog.BackendSQLite, cfg.Backlog.Backend)
	assert.Equal(t, "Tasks", cfg.TableName())
	assert.True(t, cfg.Channels.Telegram.Enabled)
	assert.Equal(t, []string{"42"}, cfg.Channels.Telegram.AllowFrom)
	assert.Equal(t, "30 8 * * *", cfg.Schedule.Summary.Cron)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), map[string]any{
		"provider": map[string]any{"apiKey": "sk-file"},
	})
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_MODEL", "gpt-4.1")
	t.Setenv("AGENT_MAX_STEPS", "3")
	t.Setenv("AIRTABLE_API_KEY", "pat-env")
	t.Setenv("AIRTABLE_BASE_ID", "appEnv")
	t.Setenv("AIRTABLE_BACKLOG_TABLE_ID", "tblEnv")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.Provider.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.Provider.Model)
	assert.Equal(t, 3, cfg.Agent.MaxSteps)
	assert.Equal(t, "tblEnv", cfg.TableName())
	assert.Equal(t, "123:abc", cfg.Channels.Telegram.Token)
}

func TestLoad_InvalidMaxStepsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT_MAX_STEPS", "many")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Agent.MaxSteps)
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := DefaultConfig()
			cfg.Provider.APIKey = "sk-saved"
			cfg.Channels.Slack.DefaultChannel = "C123"
			require.NoError(t, Save(&cfg, path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "sk-saved", loaded.Provider.APIKey)
			assert.Equal(t, "C123", loaded.Channels.Slack.DefaultChannel)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredential))
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Contains(t, err.Error(), "AIRTABLE_API_KEY")
	assert.Contains(t, err.Error(), "AIRTABLE_BASE_ID")

	cfg.Provider.APIKey = "sk"
	cfg.Backlog.Backend = backlog.BackendSQLite
	assert.NoError(t, cfg.Validate())

	cfg.Backlog.Backend = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "unknown backlog backend")

	cfg.Backlog.Backend = backlog.BackendSQLite
	cfg.Provider.Name = "nope"
	assert.ErrorContains(t, cfg.Validate(), "unknown provider")
}

func TestValidateFrontEnds(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.ValidateTelegram()
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	cfg.Channels.Telegram.Token = "1:x"
	assert.NoError(t, cfg.ValidateTelegram())

	err = cfg.ValidateSlack()
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "SLACK_BOT_TOKEN")
	assert.Contains(t, err.Error(), "SLACK_APP_TOKEN")

	cfg.Channels.Slack.BotToken = "xoxb-1"
	cfg.Channels.Slack.AppToken = "xapp-1"
	assert.NoError(t, cfg.ValidateSlack())
}

func TestSQLitePathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(home, ".agentsmith", "backlog.db"), cfg.SQLitePath())
}
