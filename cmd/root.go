// Package cmd implements the agentsmith CLI using cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentsmith/agentsmith/internal/config"
)

const version = "0.1.0"
const logo = "🕴️"

var (
	configPath string
	showLogs   bool
	verbose    bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "agentsmith",
	Short: logo + " agentsmith - AI assistant for your Airtable backlog",
	Long:  logo + " agentsmith - a tool-calling agent that creates, lists, updates and deletes backlog records",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.agentsmith/config.json)")
	rootCmd.PersistentFlags().BoolVar(&showLogs, "logs", false, "Show runtime logs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cronCmd)
	rootCmd.AddCommand(channelsCmd)
}

// setupLogging keeps the terminal quiet unless --logs or --verbose is given.
func setupLogging() {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case showLogs:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func cfgPath() string {
	if configPath != "" {
		return configPath
	}
	return config.ConfigPath()
}

// loadConfig loads the config and, when validate is set, fails fast on
// missing credentials.
func loadConfig(validate bool) (*config.Config, error) {
	cfg, err := config.Load(cfgPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration (%s):\n%w", cfgPath(), err)
		}
	}
	return cfg, nil
}
