package ai

import (
	"strings"

	"github.com/thomas-vilte/motioner/internal/models"
)

// Pricing is the USD price per million tokens of a model.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// pricing is keyed by provider, then by model name or model family prefix.
var pricing = map[string]map[string]Pricing{
	"gemini": {
		"gemini-2.5-flash":       {InputPerMillion: 0.30, OutputPerMillion: 2.50},
		"gemini-2.5-pro":         {InputPerMillion: 1.25, OutputPerMillion: 10.00},
		"gemini-3-flash-preview": {InputPerMillion: 0.50, OutputPerMillion: 3.00},
		"gemini-3-pro-preview":   {InputPerMillion: 2.00, OutputPerMillion: 12.00},
	},
	"openai": {
		"gpt-4o":      {InputPerMillion: 2.50, OutputPerMillion: 10.00},
		"gpt-4o-mini": {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	},
	"anthropic": {
		"claude-3-5-sonnet": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
		"claude-3-5-haiku":  {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	},
}

// EstimateCost returns the USD cost of one completion, or 0 when the model is unknown.
// OpenRouter models ending in ":free" cost nothing.
func EstimateCost(usage *models.TokenUsage) float64 {
	if usage == nil {
		return 0
	}
	p, ok := lookupPricing(usage.Provider, usage.Model)
	if !ok {
		return 0
	}
	return float64(usage.InputTokens)/1_000_000*p.InputPerMillion +
		float64(usage.OutputTokens)/1_000_000*p.OutputPerMillion
}

func lookupPricing(provider, model string) (Pricing, bool) {
	provider = strings.ToLower(provider)
	model = strings.ToLower(model)

	table, ok := pricing[provider]
	if !ok {
		return Pricing{}, false
	}
	if p, ok := table[model]; ok {
		return p, true
	}

	// dated snapshots such as claude-3-5-sonnet-20241022 fall back to the longest family prefix
	var best string
	for name := range table {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return Pricing{}, false
	}
	return table[best], true
}
