package providers

import (
	"github.com/thomas-vilte/motioner/internal/config"
	"github.com/thomas-vilte/motioner/internal/vcs/github"
)

// NewSourceFetcher builds the GitHub client used to fetch PRs and repositories. An
// empty token works for public repositories at a lower rate limit.
func NewSourceFetcher(cfg *config.Config) (*github.GitHubClient, error) {
	return github.NewGitHubClient(cfg.GitHub.Token, cfg.GitHub.APIBaseURL)
}
