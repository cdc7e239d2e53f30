package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	backlogcfg "github.com/agentsmith/agentsmith/internal/config/backlog"
	"github.com/agentsmith/agentsmith/internal/providers"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agentsmith status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	path := cfgPath()

	fmt.Printf("%s agentsmith Status\n\n", logo)

	_, statErr := os.Stat(path)
	fmt.Printf("Config:    %s %s\n", path, yesNo(statErr == nil))

	cfg, err := loadConfig(false)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	label := cfg.Provider.Name
	if spec := providers.FindByName(cfg.Provider.Name); spec != nil {
		label = spec.Label()
	}
	fmt.Printf("Provider:  %s\n", label)
	fmt.Printf("Model:     %s\n", cfg.Provider.Model)
	switch {
	case !cfg.Provider.NeedsAPIKey():
		fmt.Printf("API key:   (not needed)\n")
	default:
		fmt.Printf("API key:   %s\n", yesNo(cfg.Provider.APIKey != ""))
	}
	fmt.Printf("Max steps: %d\n\n", cfg.Agent.MaxSteps)

	fmt.Printf("Backlog:   %s (table %s)\n", cfg.Backlog.Backend, cfg.TableName())
	if cfg.Backlog.Backend == backlogcfg.BackendSQLite {
		fmt.Printf("Database:  %s\n", cfg.SQLitePath())
	} else {
		fmt.Printf("Airtable:  key %s, base %s\n", yesNo(cfg.Airtable.APIKey != ""), tokenHint(cfg.Airtable.BaseID))
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("\n✗ Not ready:\n%v\n", err)
		return nil
	}
	fmt.Println("\n✓ Ready")
	return nil
}
