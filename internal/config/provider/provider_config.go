package provider

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderDeepSeek   = "deepseek"
	ProviderGroq       = "groq"
	ProviderOllama     = "ollama"
)

// ProviderConfig selects and authenticates the LLM backend.
type ProviderConfig struct {
	Name         string            `json:"name" yaml:"name"` // registry name; empty = match by model
	APIKey       string            `json:"apiKey" yaml:"apiKey"`
	APIBase      string            `json:"apiBase,omitempty" yaml:"apiBase,omitempty"`
	Model        string            `json:"model" yaml:"model"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty" yaml:"extraHeaders,omitempty"`
}

func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Name:  ProviderOpenAI,
		Model: "gpt-4o",
	}
}

// NeedsAPIKey reports whether the selected backend requires a key.
// Local servers such as Ollama accept anonymous requests.
func (p ProviderConfig) NeedsAPIKey() bool {
	return p.Name != ProviderOllama
}
