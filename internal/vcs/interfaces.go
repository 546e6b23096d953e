package vcs

import (
	"context"

	"github.com/thomas-vilte/motioner/internal/models"
)

// SourceFetcher retrieves the facts a video concept is generated from.
type SourceFetcher interface {
	// FetchRepoMetadata gets the repository resource. Callers treat failure as fatal.
	FetchRepoMetadata(ctx context.Context, owner, repo string) (models.RepoMetadata, error)
	// FetchLanguages returns up to six language names ordered by byte count, largest first.
	FetchLanguages(ctx context.Context, owner, repo string) ([]string, error)
	// FetchReadme returns the decoded README, or nil when the repository has none.
	FetchReadme(ctx context.Context, owner, repo string) (*string, error)
	// FetchPullRequest gets the PR title, body and merge metadata, without the diff.
	FetchPullRequest(ctx context.Context, ref models.PullRequestReference) (models.PullRequestData, error)
	// FetchDiff gets the unified diff of a PR.
	FetchDiff(ctx context.Context, ref models.PullRequestReference) (string, error)
}
