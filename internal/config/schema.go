// Package config defines the configuration schema for agentsmith.
//
// The file is JSON with camelCase keys, or YAML when the path ends in
// .yaml/.yml. Environment variables override the file, see applyEnv.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentsmith/agentsmith/internal/config/agent"
	"github.com/agentsmith/agentsmith/internal/config/backlog"
	"github.com/agentsmith/agentsmith/internal/config/channel"
	"github.com/agentsmith/agentsmith/internal/config/provider"
	"github.com/agentsmith/agentsmith/internal/config/schedule"
)

// Config is the root configuration object, loaded from ~/.agentsmith/config.json.
type Config struct {
	Provider provider.ProviderConfig `json:"provider" yaml:"provider"`
	Agent    agent.AgentConfig       `json:"agent" yaml:"agent"`
	Backlog  backlog.BacklogConfig   `json:"backlog" yaml:"backlog"`
	Airtable backlog.AirtableConfig  `json:"airtable" yaml:"airtable"`
	Channels channel.ChannelsConfig  `json:"channels" yaml:"channels"`
	Schedule schedule.ScheduleConfig `json:"schedule" yaml:"schedule"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Provider: provider.DefaultProviderConfig(),
		Agent:    agent.DefaultAgentConfig(),
		Backlog:  backlog.DefaultBacklogConfig(),
		Airtable: backlog.DefaultAirtableConfig(),
		Channels: channel.DefaultChannelsConfig(),
		Schedule: schedule.DefaultScheduleConfig(),
	}
}

// TableName returns the table the tools operate on. An Airtable table id
// wins over the table name when the Airtable backend is selected.
func (c *Config) TableName() string {
	if c.Backlog.Backend == backlog.BackendAirtable && c.Airtable.TableID != "" {
		return c.Airtable.TableID
	}
	if c.Backlog.Table == "" {
		return backlog.DefaultBacklogConfig().Table
	}
	return c.Backlog.Table
}

// SQLitePath returns the expanded path of the local database file.
func (c *Config) SQLitePath() string {
	p := c.Backlog.SQLitePath
	if p == "" {
		p = backlog.DefaultBacklogConfig().SQLitePath
	}
	return expandHome(p)
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
