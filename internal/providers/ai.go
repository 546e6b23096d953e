package providers

import (
	"context"

	"github.com/thomas-vilte/motioner/internal/ai"
	"github.com/thomas-vilte/motioner/internal/ai/anthropic"
	"github.com/thomas-vilte/motioner/internal/ai/gemini"
	"github.com/thomas-vilte/motioner/internal/ai/openai"
	"github.com/thomas-vilte/motioner/internal/config"
)

// AIFactories returns one factory per supported provider, in config.ProviderOrder.
// A factory whose provider has no API key returns nil, nil.
func AIFactories(cfg *config.Config) []ai.ProviderFactory {
	build := map[string]func(ctx context.Context, pc config.AIProviderConfig) (ai.Provider, error){
		config.ProviderOpenRouter: func(_ context.Context, pc config.AIProviderConfig) (ai.Provider, error) {
			return openai.NewOpenRouter(pc.APIKey, pc.Model, cfg.SiteURL, pc.BaseURL), nil
		},
		config.ProviderAnthropic: func(_ context.Context, pc config.AIProviderConfig) (ai.Provider, error) {
			return anthropic.New(pc.APIKey, pc.Model, pc.BaseURL), nil
		},
		config.ProviderOpenAI: func(_ context.Context, pc config.AIProviderConfig) (ai.Provider, error) {
			return openai.NewOpenAI(pc.APIKey, pc.Model, pc.BaseURL), nil
		},
		config.ProviderGemini: func(ctx context.Context, pc config.AIProviderConfig) (ai.Provider, error) {
			p, err := gemini.NewGeminiProvider(ctx, pc.APIKey, pc.Model)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	}

	factories := make([]ai.ProviderFactory, 0, len(config.ProviderOrder))
	for _, name := range config.ProviderOrder {
		newProvider := build[name]
		factories = append(factories, ai.ProviderFactory{
			Name: name,
			New: func(ctx context.Context) (ai.Provider, error) {
				pc, ok := cfg.Provider(name)
				if !ok {
					return nil, nil
				}
				return newProvider(ctx, pc)
			},
		})
	}
	return factories
}

// NewConceptGenerator selects the provider once and wraps it in a generator.
func NewConceptGenerator(ctx context.Context, cfg *config.Config) (ai.ConceptGenerator, error) {
	p, err := ai.SelectProvider(ctx, AIFactories(cfg))
	if err != nil {
		return nil, err
	}
	return ai.NewGenerator(p), nil
}
