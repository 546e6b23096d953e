package models

import "time"

type (
	// PRFacts is the text a concept is generated from for a pull request.
	PRFacts struct {
		Title       string
		Description string
		Diff        string
	}

	// PullRequestData is a pull request as fetched from GitHub.
	PullRequestData struct {
		PRFacts
		Owner    string
		Repo     string
		Number   int
		GitHubID int64
		URL      string
		Author   string
		Merged   bool
		MergedAt *time.Time
	}

	// RepoFacts is the text a concept is generated from for a repository overview.
	RepoFacts struct {
		FullName    string
		Description *string
		Readme      *string
		Languages   []string
		Topics      []string
		Stars       int
		Forks       int
	}

	// RepoMetadata is the subset of the GitHub repository resource the pipeline reads.
	RepoMetadata struct {
		FullName      string
		Description   *string
		Topics        []string
		Stars         int
		Forks         int
		DefaultBranch string
	}
)
