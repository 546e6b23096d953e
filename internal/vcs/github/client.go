package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.SourceFetcher = (*GitHubClient)(nil)

// maxLanguages caps how many languages a repository analysis carries.
const maxLanguages = 6

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	GetRaw(ctx context.Context, owner, repo string, number int, opts github.RawOptions) (string, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
}

type RepositoriesService interface {
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	ListLanguages(ctx context.Context, owner, repo string) (map[string]int, *github.Response, error)
	GetReadme(ctx context.Context, owner, repo string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, *github.Response, error)
}

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

type GitHubClient struct {
	prService    PullRequestsService
	repoService  RepositoriesService
	usersService UsersService
}

// NewGitHubClient builds a client authenticated with token. An empty token gives
// anonymous access. A non-empty baseURL points the client at a GitHub Enterprise API.
func NewGitHubClient(token, baseURL string) (*GitHubClient, error) {
	client, err := newGoGitHubClient(token, baseURL)
	if err != nil {
		return nil, err
	}
	return NewGitHubClientWithServices(client.PullRequests, client.Repositories, client.Users), nil
}

func NewGitHubClientWithServices(
	prService PullRequestsService,
	repoService RepositoriesService,
	usersService UsersService,
) *GitHubClient {
	return &GitHubClient{
		prService:    prService,
		repoService:  repoService,
		usersService: usersService,
	}
}

func newGoGitHubClient(token, baseURL string) (*github.Client, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if baseURL == "" {
		return client, nil
	}

	client, err := client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, domainErrors.ErrInvalidConfig.
			WithError(err).
			WithContext("github.api_base_url", baseURL)
	}
	return client, nil
}

func (ghc *GitHubClient) FetchRepoMetadata(ctx context.Context, owner, repo string) (models.RepoMetadata, error) {
	log := logger.FromContext(ctx)

	log.Debug("fetching github repository",
		"owner", owner,
		"repo", repo)

	r, resp, err := ghc.repoService.Get(ctx, owner, repo)
	if err != nil {
		log.Error("failed to fetch github repository",
			"error", err,
			"owner", owner,
			"repo", repo)
		return models.RepoMetadata{}, mapGitHubError(resp, err, "get repository", owner, repo)
	}

	meta := models.RepoMetadata{
		FullName:      r.GetFullName(),
		Topics:        r.Topics,
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		DefaultBranch: r.GetDefaultBranch(),
	}
	if meta.FullName == "" {
		meta.FullName = owner + "/" + repo
	}
	if r.Description != nil && strings.TrimSpace(*r.Description) != "" {
		desc := *r.Description
		meta.Description = &desc
	}
	if meta.Topics == nil {
		meta.Topics = []string{}
	}

	return meta, nil
}

func (ghc *GitHubClient) FetchLanguages(ctx context.Context, owner, repo string) ([]string, error) {
	langs, resp, err := ghc.repoService.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, mapGitHubError(resp, err, "list languages", owner, repo)
	}

	logger.Debug(ctx, "github languages fetched",
		"owner", owner,
		"repo", repo,
		"languages_count", len(langs))

	return topLanguages(langs, maxLanguages), nil
}

// topLanguages orders languages by byte count, largest first, breaking ties by name.
func topLanguages(langs map[string]int, limit int) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

func (ghc *GitHubClient) FetchReadme(ctx context.Context, owner, repo string) (*string, error) {
	content, resp, err := ghc.repoService.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			logger.Debug(ctx, "repository has no readme",
				"owner", owner,
				"repo", repo)
			return nil, nil
		}
		return nil, mapGitHubError(resp, err, "get readme", owner, repo)
	}
	if content == nil {
		return nil, nil
	}

	text, err := content.GetContent()
	if err != nil {
		return nil, domainErrors.ErrFetchFailure.
			WithError(err).
			WithContext("operation", "decode readme").
			WithContext("repo", fmt.Sprintf("%s/%s", owner, repo))
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return &text, nil
}

func (ghc *GitHubClient) FetchPullRequest(ctx context.Context, ref models.PullRequestReference) (models.PullRequestData, error) {
	log := logger.FromContext(ctx)

	log.Debug("fetching github pull request",
		"owner", ref.Owner,
		"repo", ref.Repo,
		"pr_number", ref.Number)

	pr, resp, err := ghc.prService.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		log.Error("failed to fetch github PR",
			"error", err,
			"owner", ref.Owner,
			"repo", ref.Repo,
			"pr_number", ref.Number)
		return models.PullRequestData{}, mapGitHubError(resp, err, "get PR", ref.Owner, ref.Repo).
			WithContext("pr_number", ref.Number)
	}

	return PullRequestData(ref.Owner, ref.Repo, pr), nil
}

func (ghc *GitHubClient) FetchDiff(ctx context.Context, ref models.PullRequestReference) (string, error) {
	log := logger.FromContext(ctx)

	diff, resp, err := ghc.prService.GetRaw(ctx, ref.Owner, ref.Repo, ref.Number, github.RawOptions{Type: github.Diff})
	if err == nil {
		log.Debug("github diff fetched",
			"pr_number", ref.Number,
			"diff_size", len(diff))
		return diff, nil
	}

	if resp == nil || resp.StatusCode != http.StatusNotAcceptable {
		return "", mapGitHubError(resp, err, "get PR diff", ref.Owner, ref.Repo).
			WithContext("pr_number", ref.Number)
	}

	log.Warn("PR diff too large, assembling it from file patches",
		"pr_number", ref.Number)
	return ghc.diffFromFiles(ctx, ref)
}

// diffFromFiles rebuilds a unified diff from the per-file patches of a PR. Only the
// first page is read since the diff is truncated before it reaches a model.
func (ghc *GitHubClient) diffFromFiles(ctx context.Context, ref models.PullRequestReference) (string, error) {
	files, resp, err := ghc.prService.ListFiles(ctx, ref.Owner, ref.Repo, ref.Number, &github.ListOptions{PerPage: 100})
	if err != nil {
		return "", mapGitHubError(resp, err, "list PR files", ref.Owner, ref.Repo).
			WithContext("pr_number", ref.Number)
	}

	var b strings.Builder
	for _, file := range files {
		if file.Patch == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("diff --git a/%s b/%s\n", file.GetFilename(), file.GetFilename()))
		b.WriteString(file.GetPatch())
		b.WriteString("\n")
	}
	return b.String(), nil
}

// AuthenticatedLogin returns the login of the user owning the client's token.
func (ghc *GitHubClient) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, resp, err := ghc.usersService.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return "", domainErrors.ErrGitHubTokenInvalid.
				WithContext("operation", "get authenticated user")
		}
		return "", domainErrors.ErrFetchFailure.
			WithError(err).
			WithContext("operation", "get authenticated user")
	}

	if user.GetLogin() == "" {
		return "", domainErrors.ErrGitHubTokenInvalid.
			WithContext("reason", "authenticated user has no login")
	}
	return user.GetLogin(), nil
}

// PullRequestData converts a go-github pull request into the fields the pipeline uses.
func PullRequestData(owner, repo string, pr *github.PullRequest) models.PullRequestData {
	data := models.PullRequestData{
		PRFacts: models.PRFacts{
			Title:       pr.GetTitle(),
			Description: pr.GetBody(),
		},
		Owner:    owner,
		Repo:     repo,
		Number:   pr.GetNumber(),
		GitHubID: pr.GetID(),
		URL:      pr.GetHTMLURL(),
		Author:   pr.GetUser().GetLogin(),
		Merged:   pr.GetMerged(),
	}
	if pr.MergedAt != nil {
		mergedAt := pr.MergedAt.Time
		data.MergedAt = &mergedAt
		data.Merged = true
	}
	return data
}

func mapGitHubError(resp *github.Response, err error, operation, owner, repo string) *domainErrors.AppError {
	fullName := fmt.Sprintf("%s/%s", owner, repo)

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("operation", operation).
			WithContext("repo", fullName)
	}

	if resp != nil {
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitHubRateLimit.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", fullName)
		case http.StatusUnauthorized:
			return domainErrors.ErrGitHubTokenInvalid.
				WithContext("operation", operation)
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.
				WithContext("operation", operation).
				WithContext("repo", fullName)
		}
	}

	appErr := domainErrors.ErrFetchFailure.
		WithError(err).
		WithContext("operation", operation).
		WithContext("repo", fullName)
	if resp != nil {
		appErr = appErr.WithContext("status_code", resp.StatusCode)
	}
	return appErr
}
