package schedule

// SummaryScheduleConfig drives the periodic proactive backlog summary.
type SummaryScheduleConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Cron     string `json:"cron" yaml:"cron"`                         // standard 5-field expression
	Timezone string `json:"timezone" yaml:"timezone"`                 // IANA name; empty = local
	Channel  string `json:"channel" yaml:"channel"`                   // "telegram" or "slack"
	ChatID   string `json:"chatId,omitempty" yaml:"chatId,omitempty"` // overrides the channel's default destination
}

type ScheduleConfig struct {
	Summary SummaryScheduleConfig `json:"summary" yaml:"summary"`
}

func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Summary: SummaryScheduleConfig{Cron: "0 9 * * 1-5"},
	}
}
