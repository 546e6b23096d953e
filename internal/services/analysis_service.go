package services

import (
	"context"
	"strings"
	"time"

	"github.com/thomas-vilte/motioner/internal/ai"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/sanitize"
	"github.com/thomas-vilte/motioner/internal/vcs"
	"github.com/thomas-vilte/motioner/internal/vcs/github"
	"golang.org/x/sync/errgroup"
)

// analysisStore defines the store methods needed by AnalysisService.
type analysisStore interface {
	FindUserByGitHubLogin(ctx context.Context, login string) (models.UserProfile, error)
	CreatePullRequest(ctx context.Context, pr models.PullRequest) (models.PullRequest, error)
	CreateVideo(ctx context.Context, video models.Video) (models.Video, error)
}

// PRRequest asks for a PR analysis. Either URL is set and the PR is fetched from
// GitHub, or Title, Description and Diff are given directly.
type PRRequest struct {
	URL         string `json:"prUrl,omitempty"`
	Title       string `json:"prTitle,omitempty"`
	Description string `json:"prDescription,omitempty"`
	Diff        string `json:"diffText,omitempty"`

	Repo      string `json:"githubRepo,omitempty"`
	RepoOwner string `json:"githubRepoOwner,omitempty"`
	GitHubID  int64  `json:"githubPrId,omitempty"`
	Number    int    `json:"prNumber,omitempty"`
}

// AnalysisResult is returned by every analysis flow.
type AnalysisResult struct {
	Concept          models.VideoConcept `json:"analysis"`
	VideoID          string              `json:"videoId"`
	PullRequestID    string              `json:"prId,omitempty"`
	Repo             string              `json:"repo,omitempty"`
	HasSensitiveInfo bool                `json:"hasSensitiveInfo"`
}

type AnalysisService struct {
	fetcher   vcs.SourceFetcher
	generator ai.ConceptGenerator
	store     analysisStore
	progress  func(models.ProgressEvent)
	now       func() time.Time
}

type AnalysisOption func(*AnalysisService)

func WithSourceFetcher(f vcs.SourceFetcher) AnalysisOption {
	return func(s *AnalysisService) {
		s.fetcher = f
	}
}

func WithConceptGenerator(g ai.ConceptGenerator) AnalysisOption {
	return func(s *AnalysisService) {
		s.generator = g
	}
}

func WithAnalysisStore(st analysisStore) AnalysisOption {
	return func(s *AnalysisService) {
		s.store = st
	}
}

// WithProgress registers a callback for pipeline steps, used by the CLI spinner.
func WithProgress(fn func(models.ProgressEvent)) AnalysisOption {
	return func(s *AnalysisService) {
		s.progress = fn
	}
}

func NewAnalysisService(opts ...AnalysisOption) *AnalysisService {
	s := &AnalysisService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AnalysisService) notify(t models.ProgressEventType, msg string, data map[string]interface{}) {
	if s.progress != nil {
		s.progress(models.ProgressEvent{Type: t, Message: msg, Data: data})
	}
}

// AnalyzePR runs the PR flow for userID. Failing to store the PR record is logged and
// the video is still created without a PR link.
func (s *AnalysisService) AnalyzePR(ctx context.Context, userID string, req PRRequest) (AnalysisResult, error) {
	if s.generator == nil {
		return AnalysisResult{}, domainErrors.ErrProviderUnavailable
	}

	record, err := s.resolvePR(ctx, req)
	if err != nil {
		return AnalysisResult{}, err
	}
	ctx = logger.With(ctx,
		"owner", record.RepoOwner,
		"repo", record.Repo,
		"pr_number", record.Number)
	log := logger.FromContext(ctx)

	diff, sensitive := sanitize.Clean(record.DiffText)
	record.DiffText = diff
	if sensitive {
		log.Warn("sensitive information redacted from diff", "diff_size", len(diff))
		s.notify(models.ProgressSensitiveInfo, "sensitive information redacted", nil)
	}

	s.notify(models.ProgressGenerating, "generating video concept", nil)
	concept, err := s.generator.AnalyzePR(ctx, models.PRFacts{
		Title:       record.Title,
		Description: record.Description,
		Diff:        diff,
	})
	if err != nil {
		return AnalysisResult{}, err
	}

	result := AnalysisResult{Concept: concept, HasSensitiveInfo: sensitive}
	if s.store == nil {
		return result, nil
	}

	record.UserID = userID
	var prID *string
	stored, err := s.store.CreatePullRequest(ctx, record)
	if err != nil {
		log.Error("failed to store pull request", "error", err)
	} else {
		prID = &stored.ID
		result.PullRequestID = stored.ID
	}

	video, err := s.store.CreateVideo(ctx, models.NewVideo(userID, prID, concept))
	if err != nil {
		log.Error("failed to create video record", "error", err)
		return AnalysisResult{}, err
	}
	result.VideoID = video.ID
	s.notify(models.ProgressStored, "video stored", map[string]interface{}{"video_id": video.ID})

	log.Info("pull request analyzed",
		"theme", concept.Theme,
		"video_id", video.ID,
		"has_sensitive_info", sensitive)
	return result, nil
}

// resolvePR turns the request into an unsanitized PR record.
func (s *AnalysisService) resolvePR(ctx context.Context, req PRRequest) (models.PullRequest, error) {
	if strings.TrimSpace(req.URL) == "" {
		if req.Title == "" || req.Description == "" || req.Diff == "" {
			return models.PullRequest{}, domainErrors.ErrMissingFields.
				WithSuggestion("Send prTitle, prDescription and diffText, or a prUrl")
		}
		mergedAt := s.now().UTC()
		return models.PullRequest{
			GitHubPRID:  req.GitHubID,
			Repo:        req.Repo,
			RepoOwner:   req.RepoOwner,
			Title:       req.Title,
			Description: req.Description,
			DiffText:    req.Diff,
			Number:      req.Number,
			MergedAt:    &mergedAt,
		}, nil
	}

	parsed, ok := github.ParseURL(req.URL)
	ref, isPR := parsed.(models.PullRequestReference)
	if !ok || !isPR {
		return models.PullRequest{}, domainErrors.ErrInvalidURL.WithContext("url", req.URL)
	}
	if s.fetcher == nil {
		return models.PullRequest{}, domainErrors.ErrConfigMissing.WithContext("reason", "GitHub client not configured")
	}

	s.notify(models.ProgressFetching, "fetching pull request", map[string]interface{}{"ref": ref.String()})
	data, err := s.fetcher.FetchPullRequest(ctx, ref)
	if err != nil {
		return models.PullRequest{}, err
	}
	diff, err := s.fetcher.FetchDiff(ctx, ref)
	if err != nil {
		return models.PullRequest{}, err
	}
	data.Diff = diff

	return pullRequestRecord(data), nil
}

func pullRequestRecord(data models.PullRequestData) models.PullRequest {
	return models.PullRequest{
		GitHubPRID:  data.GitHubID,
		Repo:        data.Repo,
		RepoOwner:   data.Owner,
		Title:       data.Title,
		Description: data.Description,
		DiffText:    data.Diff,
		URL:         data.URL,
		Number:      data.Number,
		MergedAt:    data.MergedAt,
	}
}

// AnalyzeRepo builds an overview concept for a repository. Metadata is required;
// languages and README are best effort. The theme is always feature.
func (s *AnalysisService) AnalyzeRepo(ctx context.Context, userID, url string) (AnalysisResult, error) {
	if s.generator == nil {
		return AnalysisResult{}, domainErrors.ErrProviderUnavailable
	}
	parsed, ok := github.ParseURL(url)
	ref, isRepo := parsed.(models.RepositoryReference)
	if !ok || !isRepo {
		return AnalysisResult{}, domainErrors.ErrInvalidRepoURL.WithContext("url", url)
	}
	if s.fetcher == nil {
		return AnalysisResult{}, domainErrors.ErrConfigMissing.WithContext("reason", "GitHub client not configured")
	}

	ctx = logger.With(ctx, "owner", ref.Owner, "repo", ref.Repo)
	log := logger.FromContext(ctx)
	s.notify(models.ProgressFetching, "fetching repository", map[string]interface{}{"ref": ref.String()})

	var (
		meta      models.RepoMetadata
		languages []string
		readme    *string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meta, err = s.fetcher.FetchRepoMetadata(gctx, ref.Owner, ref.Repo)
		return err
	})
	g.Go(func() error {
		langs, err := s.fetcher.FetchLanguages(gctx, ref.Owner, ref.Repo)
		if err != nil {
			log.Warn("failed to fetch languages", "error", err)
			return nil
		}
		languages = langs
		return nil
	})
	g.Go(func() error {
		r, err := s.fetcher.FetchReadme(gctx, ref.Owner, ref.Repo)
		if err != nil {
			log.Warn("failed to fetch readme", "error", err)
			return nil
		}
		readme = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return AnalysisResult{}, err
	}

	facts := models.RepoFacts{
		FullName:  meta.FullName,
		Languages: languages,
		Topics:    meta.Topics,
		Stars:     meta.Stars,
		Forks:     meta.Forks,
	}
	var sensitive bool
	if meta.Description != nil {
		d, flagged := sanitize.Clean(*meta.Description)
		facts.Description = &d
		sensitive = flagged
	}
	if readme != nil {
		r, flagged := sanitize.Clean(*readme)
		facts.Readme = &r
		sensitive = sensitive || flagged
	}
	if sensitive {
		log.Warn("sensitive information redacted from repository text")
		s.notify(models.ProgressSensitiveInfo, "sensitive information redacted", nil)
	}

	s.notify(models.ProgressGenerating, "generating video concept", nil)
	concept, err := s.generator.AnalyzeRepo(ctx, facts)
	if err != nil {
		return AnalysisResult{}, err
	}
	if concept.Theme != models.ThemeFeature {
		forced := models.NewVideoConcept(models.ThemeFeature)
		forced.Title = concept.Title
		forced.VoiceoverScript = concept.VoiceoverScript
		forced.DurationSeconds = concept.DurationSeconds
		forced.PrimaryColor = concept.PrimaryColor
		forced.HighlightCode = concept.HighlightCode
		concept = forced
	}

	result := AnalysisResult{Concept: concept, Repo: meta.FullName, HasSensitiveInfo: sensitive}
	if s.store == nil {
		return result, nil
	}

	video := models.NewVideo(userID, nil, concept)
	video.SourceRepo = meta.FullName
	video, err = s.store.CreateVideo(ctx, video)
	if err != nil {
		log.Error("failed to create video record", "error", err)
		return AnalysisResult{}, err
	}
	result.VideoID = video.ID
	s.notify(models.ProgressStored, "video stored", map[string]interface{}{"video_id": video.ID})

	log.Info("repository analyzed", "video_id", video.ID, "languages", len(languages))
	return result, nil
}

// HandleMergedPR runs the webhook flow for a merged PR. The video is attributed to the
// user whose GitHub login authored the PR. A diff that cannot be fetched is treated as
// empty.
func (s *AnalysisService) HandleMergedPR(ctx context.Context, pr models.PullRequestData) (AnalysisResult, error) {
	if s.generator == nil {
		return AnalysisResult{}, domainErrors.ErrProviderUnavailable
	}
	if s.store == nil {
		return AnalysisResult{}, domainErrors.ErrStorage.WithContext("reason", "store not configured")
	}

	ctx = logger.With(ctx, "owner", pr.Owner, "repo", pr.Repo, "pr_number", pr.Number)
	log := logger.FromContext(ctx)

	user, err := s.store.FindUserByGitHubLogin(ctx, pr.Author)
	if err != nil {
		return AnalysisResult{}, err
	}

	if pr.Diff == "" && s.fetcher != nil {
		ref := models.PullRequestReference{Owner: pr.Owner, Repo: pr.Repo, Number: pr.Number}
		diff, err := s.fetcher.FetchDiff(ctx, ref)
		if err != nil {
			log.Warn("failed to fetch diff, analyzing without it", "error", err)
		} else {
			pr.Diff = diff
		}
	}

	record := pullRequestRecord(pr)
	diff, sensitive := sanitize.Clean(record.DiffText)
	record.DiffText = diff
	if sensitive {
		log.Warn("sensitive information redacted from diff", "diff_size", len(diff))
	}

	concept, err := s.generator.AnalyzePR(ctx, models.PRFacts{
		Title:       record.Title,
		Description: record.Description,
		Diff:        diff,
	})
	if err != nil {
		return AnalysisResult{}, err
	}

	record.UserID = user.ID
	stored, err := s.store.CreatePullRequest(ctx, record)
	if err != nil {
		log.Error("failed to store pull request", "error", err)
		return AnalysisResult{}, err
	}
	video, err := s.store.CreateVideo(ctx, models.NewVideo(user.ID, &stored.ID, concept))
	if err != nil {
		log.Error("failed to create video record", "error", err)
		return AnalysisResult{}, err
	}

	log.Info("merged pull request processed", "theme", concept.Theme, "video_id", video.ID)
	return AnalysisResult{
		Concept:          concept,
		VideoID:          video.ID,
		PullRequestID:    stored.ID,
		HasSensitiveInfo: sensitive,
	}, nil
}
