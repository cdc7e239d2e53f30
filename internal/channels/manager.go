package channels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/agentsmith/agentsmith/internal/config"
	"github.com/agentsmith/agentsmith/internal/schema"
)

// ErrUnknownFrontEnd is returned by Send for a name that is not enabled.
var ErrUnknownFrontEnd = errors.New("front end not enabled")

// Manager owns the enabled chat front ends.
type Manager struct {
	frontEnds map[string]schema.FrontEnd
}

// NewManager builds every enabled chat front end. Missing credentials for an
// enabled front end fail construction.
func NewManager(cfg *config.Config, a schema.Assistant) (*Manager, error) {
	m := &Manager{frontEnds: make(map[string]schema.FrontEnd)}

	if cfg.Channels.Telegram.Enabled {
		if err := cfg.ValidateTelegram(); err != nil {
			return nil, err
		}
		ch, err := NewTelegramChannel(&cfg.Channels.Telegram, a)
		if err != nil {
			return nil, err
		}
		m.Add(ch)
	}
	if cfg.Channels.Slack.Enabled {
		if err := cfg.ValidateSlack(); err != nil {
			return nil, err
		}
		ch, err := NewSlackChannel(&cfg.Channels.Slack, a)
		if err != nil {
			return nil, err
		}
		m.Add(ch)
	}

	return m, nil
}

// Add registers fe, replacing any front end with the same name.
func (m *Manager) Add(fe schema.FrontEnd) {
	m.frontEnds[fe.Name()] = fe
	slog.Info("channel enabled", "name", fe.Name())
}

// Names returns the enabled front-end names in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.frontEnds))
	for n := range m.frontEnds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the named front end, or nil.
func (m *Manager) Get(name string) schema.FrontEnd {
	return m.frontEnds[name]
}

// Send delivers text through the named front end.
func (m *Manager) Send(ctx context.Context, name, text string) error {
	fe, ok := m.frontEnds[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFrontEnd, name)
	}
	return fe.Send(ctx, text)
}

// StartAll runs every front end until ctx is cancelled or one of them fails.
func (m *Manager) StartAll(ctx context.Context) error {
	if len(m.frontEnds) == 0 {
		return errors.New("no channels enabled")
	}
	g, gctx := errgroup.WithContext(ctx)
	for name, fe := range m.frontEnds {
		name, fe := name, fe
		g.Go(func() error {
			slog.Info("starting channel", "name", name)
			if err := fe.Start(gctx); err != nil && gctx.Err() == nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
