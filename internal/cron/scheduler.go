// Package cron runs the proactive backlog summary on a schedule and delivers
// it through a chat front end.
package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/agentsmith/agentsmith/internal/config/schedule"
	"github.com/agentsmith/agentsmith/internal/schema"
	"github.com/agentsmith/agentsmith/internal/shared/llmutils"
)

// SummaryHeading starts every delivered summary.
const SummaryHeading = "📋 Backlog Summary:\n"

// ErrNoSummary is returned when the agent ran out of steps or replied with
// nothing.
var ErrNoSummary = errors.New("agent produced no summary")

// Sender delivers text through a named front end.
type Sender interface {
	Send(ctx context.Context, frontEnd, text string) error
}

// Scheduler fires the summary job on a standard 5-field cron expression.
type Scheduler struct {
	cfg       schedule.SummaryScheduleConfig
	assistant schema.Assistant
	out       Sender
	sched     robfigcron.Schedule
	loc       *time.Location

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// NewScheduler parses the expression and timezone up front so a bad
// schedule fails at construction.
func NewScheduler(cfg schedule.SummaryScheduleConfig, a schema.Assistant, out Sender) (*Scheduler, error) {
	if cfg.Channel == "" {
		return nil, errors.New("cron: schedule.summary.channel is required")
	}

	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("cron: timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	sched, err := robfigcron.ParseStandard(cfg.Cron)
	if err != nil {
		return nil, fmt.Errorf("cron: expression %q: %w", cfg.Cron, err)
	}

	return &Scheduler{cfg: cfg, assistant: a, out: out, sched: sched, loc: loc}, nil
}

// Next returns the first fire time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.sched.Next(t.In(s.loc))
}

// Start runs the schedule until ctx is cancelled. A failed run is logged and
// does not stop later runs.
func (s *Scheduler) Start(ctx context.Context) error {
	c := robfigcron.New(
		robfigcron.WithLocation(s.loc),
		robfigcron.WithChain(robfigcron.SkipIfStillRunning(robfigcron.DiscardLogger)),
	)
	c.Schedule(s.sched, robfigcron.FuncJob(func() {
		if err := s.RunOnce(ctx); err != nil {
			slog.Error("cron: summary failed", "channel", s.cfg.Channel, "err", err)
		}
	}))

	c.Start()
	slog.Info("cron: started", "expr", s.cfg.Cron, "tz", s.loc.String(), "next", s.Next(time.Now()))

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

// RunOnce generates the summary now and delivers it.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	err := s.run(ctx)

	s.mu.Lock()
	s.lastRun, s.lastErr = time.Now(), err
	s.mu.Unlock()
	return err
}

func (s *Scheduler) run(ctx context.Context) error {
	reply, ok, err := s.assistant.Summary(ctx)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	reply = llmutils.StripThink(reply)
	if !ok || strings.TrimSpace(reply) == "" {
		return ErrNoSummary
	}
	if err := s.out.Send(ctx, s.cfg.Channel, SummaryHeading+reply); err != nil {
		return fmt.Errorf("deliver to %s: %w", s.cfg.Channel, err)
	}
	slog.Info("cron: summary delivered", "channel", s.cfg.Channel)
	return nil
}

// LastRun reports when the job last ran and how it ended.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}
