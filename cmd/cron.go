package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentsmith/agentsmith/internal/cron"
	"github.com/agentsmith/agentsmith/internal/dependency"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Inspect the scheduled backlog summary",
}

func init() {
	cronCmd.AddCommand(cronStatusCmd)
}

var cronNext int

var cronStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the summary schedule and its next runs",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		s := cfg.Schedule.Summary

		fmt.Printf("Enabled:  %s\n", yesNo(s.Enabled))
		fmt.Printf("Cron:     %s\n", s.Cron)
		fmt.Printf("Timezone: %s\n", orDash(s.Timezone))
		fmt.Printf("Channel:  %s\n", orDash(s.Channel))
		if s.Channel == "" {
			return nil
		}

		sched, err := cron.NewScheduler(s, nil, nil)
		if err != nil {
			return err
		}
		fmt.Println("Next runs:")
		t := time.Now()
		for i := 0; i < cronNext; i++ {
			t = sched.Next(t)
			fmt.Printf("  %s\n", t.Format("Mon 2006-01-02 15:04 MST"))
		}
		return nil
	},
}

func init() {
	cronStatusCmd.Flags().IntVarP(&cronNext, "next", "n", 3, "Number of upcoming runs to show")
}

var cronRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the summary now and deliver it to the configured channel",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
		}
		container, err := dependency.New(cfg)
		if err != nil {
			return err
		}
		defer container.Close()

		_, sched, err := container.Gateway()
		if err != nil {
			return err
		}
		if sched == nil {
			return fmt.Errorf("schedule.summary is not enabled")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := sched.RunOnce(ctx); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "✓ Summary delivered")
		return nil
	},
}

func init() {
	cronCmd.AddCommand(cronRunCmd)
}
