// Package app assembles the store, providers and services behind the CLI commands.
package app

import (
	"context"
	"errors"

	"github.com/thomas-vilte/motioner/internal/config"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/providers"
	"github.com/thomas-vilte/motioner/internal/services"
	"github.com/thomas-vilte/motioner/internal/store"
)

// LocalUser owns the videos created from the CLI when no --user is given.
const LocalUser = "local"

type Runtime struct {
	Store    store.Store
	Analysis *services.AnalysisService
	Videos   *services.VideoService
}

// Opener builds a Runtime. opts are applied after the configured backends.
type Opener func(ctx context.Context, cfg *config.Config, opts ...services.AnalysisOption) (*Runtime, error)

// Open wires the configured store, GitHub client and AI provider. Without an AI
// provider the runtime still opens and analysis returns ErrProviderUnavailable.
func Open(ctx context.Context, cfg *config.Config, opts ...services.AnalysisOption) (*Runtime, error) {
	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	fetcher, err := providers.NewSourceFetcher(cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	base := []services.AnalysisOption{
		services.WithSourceFetcher(fetcher),
		services.WithAnalysisStore(st),
	}

	generator, err := providers.NewConceptGenerator(ctx, cfg)
	switch {
	case err == nil:
		base = append(base, services.WithConceptGenerator(generator))
	case errors.Is(err, domainErrors.ErrProviderUnavailable):
		logger.Warn(ctx, "no AI provider configured, analysis is disabled")
	default:
		_ = st.Close()
		return nil, err
	}

	return &Runtime{
		Store:    st,
		Analysis: services.NewAnalysisService(append(base, opts...)...),
		Videos:   services.NewVideoService(st),
	}, nil
}

// User returns the profile of login, creating it on first use.
func (r *Runtime) User(ctx context.Context, login string) (models.UserProfile, error) {
	if login == "" {
		login = LocalUser
	}
	return r.Store.UpsertUserProfile(ctx, login)
}

func (r *Runtime) Close() error {
	return r.Store.Close()
}
