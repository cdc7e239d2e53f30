package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agentsmith/agentsmith/internal/dependency"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Run the Telegram/Slack bots and the scheduled summary",
	RunE:  runGateway,
}

func runGateway(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	channelMgr, sched, err := container.Gateway()
	if err != nil {
		return err
	}

	enabled := channelMgr.Names()
	if len(enabled) == 0 {
		return errors.New("no channels enabled: set channels.telegram.enabled or channels.slack.enabled")
	}
	fmt.Printf("%s Starting agentsmith gateway...\n", logo)
	fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	if sched != nil {
		fmt.Printf("✓ Backlog summary scheduled: %s → %s\n", cfg.Schedule.Summary.Cron, cfg.Schedule.Summary.Channel)
	}

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return channelMgr.StartAll(gctx) })
	if sched != nil {
		g.Go(func() error { return sched.Start(gctx) })
	}

	fmt.Printf("%s Gateway running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
