package channel

// SlackConfig configures the Slack channel (Socket Mode).
type SlackConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled"`
	BotToken       string   `json:"botToken" yaml:"botToken"`
	AppToken       string   `json:"appToken" yaml:"appToken"`
	ReplyInThread  bool     `json:"replyInThread" yaml:"replyInThread"`
	ReactEmoji     string   `json:"reactEmoji" yaml:"reactEmoji"`
	DefaultChannel string   `json:"defaultChannel,omitempty" yaml:"defaultChannel,omitempty"` // target for scheduled summaries
	AllowFrom      []string `json:"allowFrom" yaml:"allowFrom"`
}

func DefaultSlackConfig() SlackConfig {
	return SlackConfig{
		ReplyInThread: true,
		ReactEmoji:    "eyes",
		AllowFrom:     []string{},
	}
}
