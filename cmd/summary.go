package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentsmith/agentsmith/internal/channels"
	"github.com/agentsmith/agentsmith/internal/dependency"
	"github.com/agentsmith/agentsmith/internal/shared/cmdutils"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Review the backlog once and print the summary",
	RunE:  runSummary,
}

func runSummary(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, "🔍 Reviewing your backlog...")
	reply, ok, err := container.Agent().Summary(ctx)
	switch {
	case err != nil:
		return err
	case !ok:
		return errors.New(channels.NoResultText)
	}
	cmdutils.PrintResponse(os.Stdout, reply, cmdutils.IsStdoutTTY())
	return nil
}
