// Package dependency wires core agentsmith services using go.uber.org/dig.
package dependency

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/dig"

	"github.com/agentsmith/agentsmith/internal/agent"
	"github.com/agentsmith/agentsmith/internal/backlog"
	"github.com/agentsmith/agentsmith/internal/channels"
	"github.com/agentsmith/agentsmith/internal/config"
	backlogcfg "github.com/agentsmith/agentsmith/internal/config/backlog"
	"github.com/agentsmith/agentsmith/internal/cron"
	"github.com/agentsmith/agentsmith/internal/providers"
	"github.com/agentsmith/agentsmith/internal/schema"
	"github.com/agentsmith/agentsmith/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	d        *dig.Container
	cfg      *config.Config
	provider schema.LLMProvider
	store    backlog.Store
	toolList *tools.ToolList
	agent    *agent.Agent
	closers  []io.Closer
}

func (c *Container) Config() *config.Config       { return c.cfg }
func (c *Container) Provider() schema.LLMProvider { return c.provider }
func (c *Container) Store() backlog.Store         { return c.store }
func (c *Container) Tools() *tools.ToolList       { return c.toolList }
func (c *Container) Agent() *agent.Agent          { return c.agent }

// New builds and wires all core services from cfg. Call Close when done.
func New(cfg *config.Config) (*Container, error) {
	c := &Container{d: dig.New(), cfg: cfg}

	ctors := []any{
		func() *config.Config { return cfg },
		newProvider,
		newRateLimiter,
		c.newStore,
		newToolList,
		newAgentSettings,
		agent.New,
	}
	for _, p := range ctors {
		if err := c.d.Provide(p); err != nil {
			return nil, err
		}
	}

	err := c.d.Invoke(func(
		provider schema.LLMProvider,
		store backlog.Store,
		toolList *tools.ToolList,
		a *agent.Agent,
	) {
		c.provider = provider
		c.store = store
		c.toolList = toolList
		c.agent = a
	})
	if err != nil {
		_ = c.Close()
		return nil, dig.RootCause(err)
	}
	return c, nil
}

// Gateway builds the chat front ends and, when enabled, the summary
// scheduler. sched is nil when no schedule is configured.
func (c *Container) Gateway() (mgr *channels.Manager, sched *cron.Scheduler, err error) {
	cfg := withSummaryTarget(*c.cfg)

	mgr, err = channels.NewManager(&cfg, c.agent)
	if err != nil {
		return nil, nil, err
	}

	s := cfg.Schedule.Summary
	if !s.Enabled {
		return mgr, nil, nil
	}
	if mgr.Get(s.Channel) == nil {
		return nil, nil, fmt.Errorf("schedule.summary.channel %q is not an enabled channel", s.Channel)
	}
	sched, err = cron.NewScheduler(s, c.agent, mgr)
	if err != nil {
		return nil, nil, err
	}
	return mgr, sched, nil
}

// Close releases the backlog store.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func newProvider(cfg *config.Config) schema.LLMProvider {
	p := cfg.Provider
	return providers.New(providers.Params{
		APIKey:       p.APIKey,
		APIBase:      p.APIBase,
		ExtraHeaders: p.ExtraHeaders,
		DefaultModel: p.Model,
		ProviderName: p.Name,
	})
}

func newRateLimiter(cfg *config.Config) *backlog.RateLimiter {
	return backlog.NewRateLimiter(time.Duration(cfg.Backlog.MinIntervalMs) * time.Millisecond)
}

func (c *Container) newStore(cfg *config.Config, limiter *backlog.RateLimiter) (backlog.Store, error) {
	var store backlog.Store
	switch strings.ToLower(cfg.Backlog.Backend) {
	case backlogcfg.BackendSQLite:
		path := cfg.SQLitePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		s, err := backlog.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, s)
		store = s
	case backlogcfg.BackendAirtable, "":
		store = backlog.NewAirtableClient(cfg.Airtable.APIKey, cfg.Airtable.BaseID, cfg.Airtable.APIBase, limiter)
	default:
		return nil, fmt.Errorf("unknown backlog backend %q", cfg.Backlog.Backend)
	}
	slog.Debug("backlog store ready", "backend", cfg.Backlog.Backend, "table", cfg.TableName())
	return backlog.WithRateLimit(store, limiter), nil
}

func newToolList(cfg *config.Config, store backlog.Store) *tools.ToolList {
	return tools.NewToolList(tools.NewBacklogTools(store, cfg.TableName())...)
}

// newAgentSettings takes the model from the provider so any registry prefix
// ("anthropic/...") is already stripped.
func newAgentSettings(cfg *config.Config, p schema.LLMProvider) agent.Settings {
	return agent.Settings{
		Model:        p.DefaultModel(),
		MaxSteps:     cfg.Agent.MaxSteps,
		MaxTokens:    cfg.Agent.MaxTokens,
		Temperature:  cfg.Agent.Temperature,
		SystemPrompt: cfg.Agent.SystemPrompt,
	}
}

// withSummaryTarget points the scheduled channel's default destination at
// schedule.summary.chatId when one is set.
func withSummaryTarget(cfg config.Config) config.Config {
	s := cfg.Schedule.Summary
	if !s.Enabled || s.ChatID == "" {
		return cfg
	}
	switch s.Channel {
	case "telegram":
		id, err := strconv.ParseInt(s.ChatID, 10, 64)
		if err != nil {
			slog.Warn("schedule.summary.chatId is not a Telegram chat id, ignoring", "chat_id", s.ChatID)
			return cfg
		}
		cfg.Channels.Telegram.DefaultChatID = id
	case "slack":
		cfg.Channels.Slack.DefaultChannel = s.ChatID
	}
	return cfg
}
