package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/vcs/github"
)

// Authenticator resolves the user behind an API request.
type Authenticator interface {
	Authenticate(r *http.Request) (models.UserProfile, error)
}

type profileStore interface {
	UpsertUserProfile(ctx context.Context, githubUsername string) (models.UserProfile, error)
}

// LoginResolver returns the GitHub login a token belongs to.
type LoginResolver func(ctx context.Context, token string) (string, error)

// GitHubLogin resolves a token with the authenticated-user endpoint.
func GitHubLogin(baseURL string) LoginResolver {
	return func(ctx context.Context, token string) (string, error) {
		client, err := github.NewGitHubClient(token, baseURL)
		if err != nil {
			return "", err
		}
		return client.AuthenticatedLogin(ctx)
	}
}

type cachedProfile struct {
	profile models.UserProfile
	expires time.Time
}

// GitHubAuthenticator accepts "Authorization: Bearer <github token>" and upserts a
// profile for the token's login. Resolved tokens are cached by hash for ttl;
// expired entries are pruned whenever a token has to be resolved.
type GitHubAuthenticator struct {
	resolve LoginResolver
	store   profileStore
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cachedProfile
}

func NewGitHubAuthenticator(resolve LoginResolver, store profileStore, ttl time.Duration) *GitHubAuthenticator {
	return &GitHubAuthenticator{
		resolve: resolve,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		cache:   make(map[string]cachedProfile),
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

func (a *GitHubAuthenticator) Authenticate(r *http.Request) (models.UserProfile, error) {
	token, ok := bearerToken(r)
	if !ok {
		return models.UserProfile{}, domainErrors.ErrUnauthorized
	}

	sum := sha256.Sum256([]byte(token))
	key := hex.EncodeToString(sum[:])

	a.mu.Lock()
	entry, hit := a.cache[key]
	a.mu.Unlock()
	if hit && a.now().Before(entry.expires) {
		return entry.profile, nil
	}

	ctx := r.Context()
	login, err := a.resolve(ctx, token)
	if err != nil {
		logger.Warn(ctx, "bearer token rejected", "error", err)
		return models.UserProfile{}, domainErrors.ErrUnauthorized.WithError(err)
	}
	profile, err := a.store.UpsertUserProfile(ctx, login)
	if err != nil {
		return models.UserProfile{}, err
	}

	now := a.now()
	a.mu.Lock()
	for k, e := range a.cache {
		if !now.Before(e.expires) {
			delete(a.cache, k)
		}
	}
	a.cache[key] = cachedProfile{profile: profile, expires: now.Add(a.ttl)}
	a.mu.Unlock()
	return profile, nil
}
