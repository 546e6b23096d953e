package ai

import (
	"context"

	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/logger"
)

// ProviderFactory builds a provider. It returns nil, nil when the provider is not
// configured.
type ProviderFactory struct {
	Name string
	New  func(ctx context.Context) (Provider, error)
}

// SelectProvider returns the first configured provider in factories order. Later
// factories are not consulted once one succeeds.
func SelectProvider(ctx context.Context, factories []ProviderFactory) (Provider, error) {
	for _, f := range factories {
		p, err := f.New(ctx)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}

		logger.Info(ctx, "AI provider selected",
			"provider", p.Name(),
			"model", p.Model())
		return p, nil
	}
	return nil, domainErrors.ErrProviderUnavailable
}
