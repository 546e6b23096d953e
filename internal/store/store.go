// Package store persists users, analysed pull requests and videos.
package store

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/motioner/internal/config"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/store/postgres"
	"github.com/thomas-vilte/motioner/internal/store/sqlite"
)

// Store is implemented by the memory, SQLite and PostgreSQL backends. Video lookups
// are scoped to a user; a video of another user is reported as ErrVideoNotFound.
type Store interface {
	UpsertUserProfile(ctx context.Context, githubUsername string) (models.UserProfile, error)
	FindUserByGitHubLogin(ctx context.Context, login string) (models.UserProfile, error)

	CreatePullRequest(ctx context.Context, pr models.PullRequest) (models.PullRequest, error)

	CreateVideo(ctx context.Context, video models.Video) (models.Video, error)
	GetVideo(ctx context.Context, userID, id string) (models.Video, error)
	ListVideos(ctx context.Context, userID string) ([]models.Video, error)
	UpdateVideoConcept(ctx context.Context, userID, id string, concept models.VideoConcept) (models.Video, error)
	UpdateVideoStatus(ctx context.Context, userID, id string, status models.VideoStatus) (models.Video, error)

	Close() error
}

// Open returns the backend selected by cfg.Driver, with its schema applied.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "", config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, domainErrors.ErrStorage.WithError(err).WithContext("driver", cfg.Driver)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, domainErrors.ErrStorage.WithError(err).WithContext("driver", cfg.Driver)
		}
		return s, nil
	}
	return nil, domainErrors.ErrInvalidConfig.WithError(fmt.Errorf("unknown database driver %q", cfg.Driver))
}
