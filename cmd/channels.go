package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Manage chat channels",
}

func init() {
	channelsCmd.AddCommand(channelsStatusCmd)
}

var channelsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show channel status",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		tg := cfg.Channels.Telegram
		sl := cfg.Channels.Slack

		type row struct{ name, enabled, detail, target string }
		rows := []row{
			{
				"Telegram",
				yesNo(tg.Enabled),
				tokenHint(tg.Token),
				func() string {
					if tg.DefaultChatID == 0 {
						return "-"
					}
					return strconv.FormatInt(tg.DefaultChatID, 10)
				}(),
			},
			{
				"Slack",
				yesNo(sl.Enabled),
				func() string {
					if sl.AppToken != "" && sl.BotToken != "" {
						return "socket"
					}
					return "(not configured)"
				}(),
				orDash(sl.DefaultChannel),
			},
		}

		fmt.Printf("%-12s %-8s %-20s %s\n", "Channel", "Enabled", "Configuration", "Summary target")
		fmt.Println(strings.Repeat("-", 64))
		for _, r := range rows {
			fmt.Printf("%-12s %-8s %-20s %s\n", r.name, r.enabled, r.detail, r.target)
		}
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}

func tokenHint(s string) string {
	if s == "" {
		return "(not configured)"
	}

	if len(s) > 10 {
		return s[:10] + "..."
	}

	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
