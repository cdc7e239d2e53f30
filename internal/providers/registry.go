package providers

import "strings"

// ProviderSpec is the metadata record for one LLM provider.
type ProviderSpec struct {
	Name           string   // config value, e.g. "openai"
	DisplayName    string   // shown in `agentsmith status`
	Keywords       []string // model-name keywords for matching (lowercase)
	EnvKey         string   // env var conventionally holding the API key
	DefaultAPIBase string
	Anthropic      bool // speaks the Anthropic Messages API
}

// Label returns the display name, defaulting to Name.
func (s ProviderSpec) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// PROVIDERS is the registry. Order = match priority.
var PROVIDERS = []ProviderSpec{
	{
		Name:           "openai",
		DisplayName:    "OpenAI",
		Keywords:       []string{"gpt", "o1", "o3", "o4"},
		EnvKey:         "OPENAI_API_KEY",
		DefaultAPIBase: "https://api.openai.com/v1",
	},
	{
		Name:           "anthropic",
		DisplayName:    "Anthropic",
		Keywords:       []string{"claude"},
		EnvKey:         "ANTHROPIC_API_KEY",
		DefaultAPIBase: "https://api.anthropic.com/v1",
		Anthropic:      true,
	},
	{
		Name:           "openrouter",
		DisplayName:    "OpenRouter",
		Keywords:       []string{"openrouter"},
		EnvKey:         "OPENROUTER_API_KEY",
		DefaultAPIBase: "https://openrouter.ai/api/v1",
	},
	{
		Name:           "deepseek",
		DisplayName:    "DeepSeek",
		Keywords:       []string{"deepseek"},
		EnvKey:         "DEEPSEEK_API_KEY",
		DefaultAPIBase: "https://api.deepseek.com/v1",
	},
	{
		Name:           "groq",
		DisplayName:    "Groq",
		Keywords:       []string{"groq", "llama"},
		EnvKey:         "GROQ_API_KEY",
		DefaultAPIBase: "https://api.groq.com/openai/v1",
	},
	{
		Name:           "ollama",
		DisplayName:    "Ollama",
		Keywords:       []string{"ollama"},
		DefaultAPIBase: "http://localhost:11434/v1",
	},
}

// FindByName returns the ProviderSpec registered under name, or nil.
func FindByName(name string) *ProviderSpec {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i := range PROVIDERS {
		if PROVIDERS[i].Name == name {
			return &PROVIDERS[i]
		}
	}
	return nil
}

// FindByModel returns the first ProviderSpec whose keyword appears in model, or nil.
func FindByModel(model string) *ProviderSpec {
	model = strings.ToLower(model)
	if i := strings.Index(model, "/"); i > 0 {
		if s := FindByName(model[:i]); s != nil {
			return s
		}
	}
	for i := range PROVIDERS {
		for _, kw := range PROVIDERS[i].Keywords {
			if strings.Contains(model, kw) {
				return &PROVIDERS[i]
			}
		}
	}
	return nil
}
