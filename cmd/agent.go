package cmd

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentsmith/agentsmith/internal/channels"
	"github.com/agentsmith/agentsmith/internal/config"
	"github.com/agentsmith/agentsmith/internal/dependency"
	"github.com/agentsmith/agentsmith/internal/shared/cmdutils"
)

var (
	agentMessage   string
	agentNoSummary bool
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Chat with Agent Smith in the terminal",
	RunE:  runAgent,
}

func init() {
	agentCmd.Flags().StringVarP(&agentMessage, "message", "m", "", "Send a single message and exit")
	agentCmd.Flags().BoolVar(&agentNoSummary, "no-summary", false, "Skip the backlog review at start-up")
}

func runAgent(_ *cobra.Command, _ []string) error {
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

	cli := channels.NewCLIChannel(container.Agent(), channels.CLIOptions{
		Interactive:    cmdutils.IsStdinTTY() && cmdutils.IsStdoutTTY(),
		StartupSummary: !agentNoSummary && agentMessage == "",
		HistoryFile:    filepath.Join(config.DataDir(), "history"),
	})

	if agentMessage != "" {
		return cli.Once(ctx, agentMessage)
	}

	if err := cli.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
