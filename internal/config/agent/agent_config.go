package agent

// AgentConfig tunes the tool-calling loop.
type AgentConfig struct {
	MaxSteps     int     `json:"maxSteps" yaml:"maxSteps"`
	MaxTokens    int     `json:"maxTokens" yaml:"maxTokens"`
	Temperature  float64 `json:"temperature" yaml:"temperature"`
	SystemPrompt string  `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty"` // empty = built-in persona
}

func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		MaxSteps:    10,
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}
