package models

import "fmt"

// GitHubReference is what a submitted GitHub URL points at. It is implemented only by
// PullRequestReference and RepositoryReference.
type GitHubReference interface {
	// FullName returns "owner/repo".
	FullName() string
	isGitHubReference()
}

// PullRequestReference points at a single pull request.
type PullRequestReference struct {
	Owner  string
	Repo   string
	Number int
}

// RepositoryReference points at a repository as a whole.
type RepositoryReference struct {
	Owner string
	Repo  string
}

func (r PullRequestReference) FullName() string { return r.Owner + "/" + r.Repo }

func (r PullRequestReference) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

func (PullRequestReference) isGitHubReference() {}

func (r RepositoryReference) FullName() string { return r.Owner + "/" + r.Repo }

func (r RepositoryReference) String() string { return r.FullName() }

func (RepositoryReference) isGitHubReference() {}
