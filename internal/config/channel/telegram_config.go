package channel

// TelegramConfig configures the Telegram channel.
type TelegramConfig struct {
	Enabled       bool     `json:"enabled" yaml:"enabled"`
	Token         string   `json:"token" yaml:"token"`
	AllowFrom     []string `json:"allowFrom" yaml:"allowFrom"`
	DefaultChatID int64    `json:"defaultChatId,omitempty" yaml:"defaultChatId,omitempty"` // target for scheduled summaries
}

func DefaultTelegramConfig() TelegramConfig {
	return TelegramConfig{AllowFrom: []string{}}
}
