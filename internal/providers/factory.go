package providers

import (
	"strings"

	"github.com/agentsmith/agentsmith/internal/schema"
)

// DefaultModel is used when neither the config nor the registry names one.
const DefaultModel = "gpt-4o"

// Params are the raw values needed to construct any schema.LLMProvider.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	ExtraHeaders map[string]string
	DefaultModel string
	ProviderName string // registry name, e.g. "openai", "anthropic"
}

// New creates the provider described by p.
//
// The ProviderSpec is looked up by name first, then by model keyword. A configured
// APIBase always wins over the ProviderSpec default; the Anthropic wire format is
// used for the anthropic entry or any base URL on anthropic.com.
func New(p Params) schema.LLMProvider {
	model := p.DefaultModel
	if model == "" {
		model = DefaultModel
	}

	spec := FindByName(p.ProviderName)
	if spec == nil {
		spec = FindByModel(model)
	}

	base := p.APIBase
	if base == "" && spec != nil {
		base = spec.DefaultAPIBase
	}
	if base == "" {
		base = PROVIDERS[0].DefaultAPIBase
	}
	base = strings.TrimRight(base, "/")

	anthropic := (spec != nil && spec.Anthropic && p.APIBase == "") ||
		strings.EqualFold(p.ProviderName, "anthropic") ||
		strings.Contains(strings.ToLower(base), "anthropic.com")

	return NewOpenAIProvider(p.APIKey, base, stripProviderPrefix(model, spec), anthropic, p.ExtraHeaders)
}

// stripProviderPrefix turns "anthropic/claude-x" into "claude-x" when the
// prefix names the selected provider. Gateway model ids such as
// "anthropic/claude-x" on OpenRouter are left alone.
func stripProviderPrefix(model string, spec *ProviderSpec) string {
	i := strings.Index(model, "/")
	if i <= 0 || spec == nil || !strings.EqualFold(model[:i], spec.Name) {
		return model
	}
	return model[i+1:]
}
