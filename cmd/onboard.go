package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentsmith/agentsmith/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	path := cfgPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists at %s\n", path)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(path)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, path); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", path)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, path); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", path)
	}

	fmt.Printf("\n%s agentsmith is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Add your LLM key (provider.apiKey or OPENAI_API_KEY) to %s\n", path)
	fmt.Println("  2. Add airtable.apiKey and airtable.baseId (or AIRTABLE_API_KEY / AIRTABLE_BASE_ID),")
	fmt.Println("     or set backlog.backend to \"sqlite\" to keep the backlog locally")
	fmt.Printf("  3. Chat: agentsmith agent -m \"What's overdue?\"\n")
	return nil
}
