package github

import (
	"strconv"
	"strings"

	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/regex"
)

// ParseURL classifies a GitHub URL as a pull request or a repository reference.
// The scheme is optional and the host is matched case-insensitively. It reports
// false for empty input and for anything that is not one of the two shapes.
func ParseURL(input string) (models.GitHubReference, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, false
	}

	if m := regex.GitHubPullRequestURL.FindStringSubmatch(trimmed); m != nil {
		number, err := strconv.Atoi(m[3])
		if err != nil || number <= 0 {
			return nil, false
		}
		return models.PullRequestReference{Owner: m[1], Repo: m[2], Number: number}, true
	}

	if m := regex.GitHubRepositoryURL.FindStringSubmatch(trimmed); m != nil {
		return models.RepositoryReference{Owner: m[1], Repo: m[2]}, true
	}

	return nil, false
}
