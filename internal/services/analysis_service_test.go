package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/motioner/internal/ai"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/render"
	"github.com/thomas-vilte/motioner/internal/vcs"
)

func bugConcept() models.VideoConcept {
	return models.VideoConcept{
		Theme:           models.ThemeBug,
		Title:           "Fix",
		VoiceoverScript: "We squashed it.",
		DurationSeconds: 15,
		PrimaryColor:    "#f00",
		Details:         models.BugDetails{BugDescription: "desc"},
	}
}

func TestAnalysisService_AnalyzePR(t *testing.T) {
	fixedNow := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("sanitizes the diff, stores the records and maps to bug props", func(t *testing.T) {
		// Arrange
		gen := new(ai.MockConceptGenerator)
		st := new(MockStore)
		var events []models.ProgressEventType
		svc := NewAnalysisService(
			WithConceptGenerator(gen),
			WithAnalysisStore(st),
			WithProgress(func(e models.ProgressEvent) { events = append(events, e.Type) }),
		)
		svc.now = func() time.Time { return fixedNow }

		gen.On("AnalyzePR", mock.Anything, models.PRFacts{
			Title:       "Fix login",
			Description: "Fixes the crash",
			Diff:        `password: "***REDACTED***"`,
		}).Return(bugConcept(), nil)
		st.On("CreatePullRequest", mock.Anything, mock.MatchedBy(func(pr models.PullRequest) bool {
			return pr.UserID == "user-1" && pr.DiffText == `password: "***REDACTED***"` &&
				pr.MergedAt != nil && pr.MergedAt.Equal(fixedNow)
		})).Return(models.PullRequest{ID: "pr-1"}, nil)
		st.On("CreateVideo", mock.Anything, mock.MatchedBy(func(v models.Video) bool {
			return v.PullRequestID != nil && *v.PullRequestID == "pr-1" && v.Status == models.VideoStatusPending
		})).Return(models.Video{ID: "video-1"}, nil)

		// Act
		result, err := svc.AnalyzePR(context.Background(), "user-1", PRRequest{
			Title:       "Fix login",
			Description: "Fixes the crash",
			Diff:        "password: hunter2hunter2hunter2",
		})

		// Assert
		require.NoError(t, err)
		assert.True(t, result.HasSensitiveInfo)
		assert.Equal(t, "video-1", result.VideoID)
		assert.Equal(t, "pr-1", result.PullRequestID)

		props, ok := render.ToRenderProps(result.Concept)
		require.True(t, ok)
		assert.Equal(t, "Fix", props.Title)
		assert.Equal(t, "#f00", props.PrimaryColor)
		require.NotNil(t, props.BugDescription)
		assert.Equal(t, "desc", *props.BugDescription)
		assert.Nil(t, props.ScreenshotURL)
		assert.Nil(t, props.BeforeCode)

		assert.Equal(t, []models.ProgressEventType{
			models.ProgressSensitiveInfo,
			models.ProgressGenerating,
			models.ProgressStored,
		}, events)
		gen.AssertExpectations(t)
		st.AssertExpectations(t)
	})

	t.Run("clean diff is passed through untouched", func(t *testing.T) {
		gen := new(ai.MockConceptGenerator)
		svc := NewAnalysisService(WithConceptGenerator(gen))
		diff := "+func add(a, b int) int { return a + b }"
		gen.On("AnalyzePR", mock.Anything, models.PRFacts{Title: "t", Description: "d", Diff: diff}).
			Return(models.NewVideoConcept(models.ThemeFeature), nil)

		result, err := svc.AnalyzePR(context.Background(), "user-1", PRRequest{Title: "t", Description: "d", Diff: diff})

		require.NoError(t, err)
		assert.False(t, result.HasSensitiveInfo)
		assert.Empty(t, result.VideoID)
	})

	t.Run("pull request storage failure is not fatal", func(t *testing.T) {
		gen := new(ai.MockConceptGenerator)
		st := new(MockStore)
		svc := NewAnalysisService(WithConceptGenerator(gen), WithAnalysisStore(st))
		gen.On("AnalyzePR", mock.Anything, mock.Anything).Return(bugConcept(), nil)
		st.On("CreatePullRequest", mock.Anything, mock.Anything).
			Return(models.PullRequest{}, domainErrors.ErrStorage)
		st.On("CreateVideo", mock.Anything, mock.MatchedBy(func(v models.Video) bool {
			return v.PullRequestID == nil
		})).Return(models.Video{ID: "video-2"}, nil)

		result, err := svc.AnalyzePR(context.Background(), "user-1", PRRequest{Title: "t", Description: "d", Diff: "x"})

		require.NoError(t, err)
		assert.Equal(t, "video-2", result.VideoID)
		assert.Empty(t, result.PullRequestID)
	})

	t.Run("video storage failure is fatal", func(t *testing.T) {
		gen := new(ai.MockConceptGenerator)
		st := new(MockStore)
		svc := NewAnalysisService(WithConceptGenerator(gen), WithAnalysisStore(st))
		gen.On("AnalyzePR", mock.Anything, mock.Anything).Return(bugConcept(), nil)
		st.On("CreatePullRequest", mock.Anything, mock.Anything).Return(models.PullRequest{ID: "pr-1"}, nil)
		st.On("CreateVideo", mock.Anything, mock.Anything).Return(models.Video{}, domainErrors.ErrStorage)

		_, err := svc.AnalyzePR(context.Background(), "user-1", PRRequest{Title: "t", Description: "d", Diff: "x"})

		assert.ErrorIs(t, err, domainErrors.ErrStorage)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := NewAnalysisService(WithConceptGenerator(new(ai.MockConceptGenerator)))

		_, err := svc.AnalyzePR(context.Background(), "user-1", PRRequest{Title: "t", Diff: "x"})

		assert.ErrorIs(t, err, domainErrors.ErrMissingFields)
	})

	t.Run("url is fetched from github", func(t *testing.T) {
		gen := new(ai.MockConceptGenerator)
		fetcher := new(vcs.MockSourceFetcher)
		svc := NewAnalysisService(WithConceptGenerator(gen), WithSourceFetcher(fetcher))
		ref := models.PullRequestReference{Owner: "octo", Repo: "hello", Number: 42}

		fetcher.On("FetchPullRequest", mock.Anything, ref).Return(models.PullRequestData{
			PRFacts: models.PRFacts{Title: "Speed up", Description: "Faster"},
			Owner:   "octo", Repo: "hello", Number: 42,
		}, nil)
		fetcher.On("FetchDiff", mock.Anything, ref).Return("+fast()", nil)
		gen.On("AnalyzePR", mock.Anything, models.PRFacts{Title: "Speed up", Description: "Faster", Diff: "+fast()"}).
			Return(models.NewVideoConcept(models.ThemeRefactor), nil)

		result, err := svc.AnalyzePR(context.Background(), "user-1", PRRequest{URL: "https://github.com/octo/hello/pull/42"})

		require.NoError(t, err)
		assert.Equal(t, models.ThemeRefactor, result.Concept.Theme)
		fetcher.AssertExpectations(t)
	})

	t.Run("diff fetch failure is fatal", func(t *testing.T) {
		fetcher := new(vcs.MockSourceFetcher)
		svc := NewAnalysisService(WithConceptGenerator(new(ai.MockConceptGenerator)), WithSourceFetcher(fetcher))
		fetcher.On("FetchPullRequest", mock.Anything, mock.Anything).Return(models.PullRequestData{}, nil)
		fetcher.On("FetchDiff", mock.Anything, mock.Anything).Return("", domainErrors.ErrFetchFailure)

		_, err := svc.AnalyzePR(context.Background(), "user-1", PRRequest{URL: "https://github.com/octo/hello/pull/42"})

		assert.ErrorIs(t, err, domainErrors.ErrFetchFailure)
	})

	t.Run("repository url is rejected", func(t *testing.T) {
		svc := NewAnalysisService(WithConceptGenerator(new(ai.MockConceptGenerator)))

		_, err := svc.AnalyzePR(context.Background(), "user-1", PRRequest{URL: "https://github.com/octo/hello"})

		assert.ErrorIs(t, err, domainErrors.ErrInvalidURL)
	})

	t.Run("generator errors are returned unchanged", func(t *testing.T) {
		gen := new(ai.MockConceptGenerator)
		svc := NewAnalysisService(WithConceptGenerator(gen))
		gen.On("AnalyzePR", mock.Anything, mock.Anything).Return(models.VideoConcept{}, domainErrors.ErrMalformedResponse)

		_, err := svc.AnalyzePR(context.Background(), "user-1", PRRequest{Title: "t", Description: "d", Diff: "x"})

		assert.ErrorIs(t, err, domainErrors.ErrMalformedResponse)
	})

	t.Run("no generator", func(t *testing.T) {
		_, err := NewAnalysisService().AnalyzePR(context.Background(), "user-1", PRRequest{Title: "t", Description: "d", Diff: "x"})

		assert.ErrorIs(t, err, domainErrors.ErrProviderUnavailable)
	})
}

func TestAnalysisService_AnalyzeRepo(t *testing.T) {
	const url = "https://github.com/octo/hello"

	t.Run("languages and readme are best effort and the theme is forced to feature", func(t *testing.T) {
		// Arrange
		gen := new(ai.MockConceptGenerator)
		fetcher := new(vcs.MockSourceFetcher)
		st := new(MockStore)
		svc := NewAnalysisService(WithConceptGenerator(gen), WithSourceFetcher(fetcher), WithAnalysisStore(st))
		desc := "A tool with api_key=abcdefghijklmnopqrstuvwxyz123456"

		fetcher.On("FetchRepoMetadata", mock.Anything, "octo", "hello").Return(models.RepoMetadata{
			FullName: "octo/hello", Description: &desc, Topics: []string{"cli"}, Stars: 10, Forks: 2,
		}, nil)
		fetcher.On("FetchLanguages", mock.Anything, "octo", "hello").Return(nil, errors.New("boom"))
		fetcher.On("FetchReadme", mock.Anything, "octo", "hello").Return(nil, errors.New("boom"))

		returned := bugConcept()
		gen.On("AnalyzeRepo", mock.Anything, mock.MatchedBy(func(f models.RepoFacts) bool {
			return f.FullName == "octo/hello" && f.Languages == nil && f.Readme == nil &&
				f.Description != nil && *f.Description != desc
		})).Return(returned, nil)
		st.On("CreateVideo", mock.Anything, mock.MatchedBy(func(v models.Video) bool {
			return v.PullRequestID == nil && v.SourceRepo == "octo/hello" && v.Theme == models.ThemeFeature
		})).Return(models.Video{ID: "video-9"}, nil)

		// Act
		result, err := svc.AnalyzeRepo(context.Background(), "user-1", url)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.ThemeFeature, result.Concept.Theme)
		assert.Equal(t, "Fix", result.Concept.Title)
		assert.IsType(t, models.FeatureDetails{}, result.Concept.Details)
		assert.True(t, result.HasSensitiveInfo)
		assert.Equal(t, "video-9", result.VideoID)
		gen.AssertExpectations(t)
		st.AssertExpectations(t)
	})

	t.Run("metadata failure is fatal", func(t *testing.T) {
		fetcher := new(vcs.MockSourceFetcher)
		svc := NewAnalysisService(WithConceptGenerator(new(ai.MockConceptGenerator)), WithSourceFetcher(fetcher))
		fetcher.On("FetchRepoMetadata", mock.Anything, "octo", "hello").
			Return(models.RepoMetadata{}, domainErrors.ErrRepositoryNotFound)
		fetcher.On("FetchLanguages", mock.Anything, "octo", "hello").Return([]string{"Go"}, nil)
		fetcher.On("FetchReadme", mock.Anything, "octo", "hello").Return(nil, nil)

		_, err := svc.AnalyzeRepo(context.Background(), "user-1", url)

		assert.ErrorIs(t, err, domainErrors.ErrRepositoryNotFound)
	})

	t.Run("pull request url is not a repository", func(t *testing.T) {
		svc := NewAnalysisService(WithConceptGenerator(new(ai.MockConceptGenerator)))

		_, err := svc.AnalyzeRepo(context.Background(), "user-1", url+"/pull/1")

		assert.ErrorIs(t, err, domainErrors.ErrInvalidRepoURL)
	})
}

func TestAnalysisService_HandleMergedPR(t *testing.T) {
	merged := models.PullRequestData{
		PRFacts: models.PRFacts{Title: "Fix login", Description: "body"},
		Owner:   "octo", Repo: "hello", Number: 7, Author: "monalisa", Merged: true,
	}
	ref := models.PullRequestReference{Owner: "octo", Repo: "hello", Number: 7}

	t.Run("unknown author", func(t *testing.T) {
		st := new(MockStore)
		svc := NewAnalysisService(WithConceptGenerator(new(ai.MockConceptGenerator)), WithAnalysisStore(st))
		st.On("FindUserByGitHubLogin", mock.Anything, "monalisa").
			Return(models.UserProfile{}, domainErrors.ErrUserNotFound)

		_, err := svc.HandleMergedPR(context.Background(), merged)

		assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	})

	t.Run("diff failure degrades to empty diff", func(t *testing.T) {
		gen := new(ai.MockConceptGenerator)
		fetcher := new(vcs.MockSourceFetcher)
		st := new(MockStore)
		svc := NewAnalysisService(WithConceptGenerator(gen), WithSourceFetcher(fetcher), WithAnalysisStore(st))

		st.On("FindUserByGitHubLogin", mock.Anything, "monalisa").Return(models.UserProfile{ID: "user-1"}, nil)
		fetcher.On("FetchDiff", mock.Anything, ref).Return("", domainErrors.ErrFetchFailure)
		gen.On("AnalyzePR", mock.Anything, models.PRFacts{Title: "Fix login", Description: "body", Diff: ""}).
			Return(bugConcept(), nil)
		st.On("CreatePullRequest", mock.Anything, mock.MatchedBy(func(pr models.PullRequest) bool {
			return pr.UserID == "user-1" && pr.Number == 7 && pr.RepoOwner == "octo"
		})).Return(models.PullRequest{ID: "pr-7"}, nil)
		st.On("CreateVideo", mock.Anything, mock.Anything).Return(models.Video{ID: "video-7"}, nil)

		result, err := svc.HandleMergedPR(context.Background(), merged)

		require.NoError(t, err)
		assert.Equal(t, "video-7", result.VideoID)
		assert.Equal(t, "pr-7", result.PullRequestID)
		gen.AssertExpectations(t)
	})

	t.Run("pull request storage failure is fatal", func(t *testing.T) {
		gen := new(ai.MockConceptGenerator)
		fetcher := new(vcs.MockSourceFetcher)
		st := new(MockStore)
		svc := NewAnalysisService(WithConceptGenerator(gen), WithSourceFetcher(fetcher), WithAnalysisStore(st))

		st.On("FindUserByGitHubLogin", mock.Anything, "monalisa").Return(models.UserProfile{ID: "user-1"}, nil)
		fetcher.On("FetchDiff", mock.Anything, ref).Return("+x", nil)
		gen.On("AnalyzePR", mock.Anything, mock.Anything).Return(bugConcept(), nil)
		st.On("CreatePullRequest", mock.Anything, mock.Anything).Return(models.PullRequest{}, domainErrors.ErrStorage)

		_, err := svc.HandleMergedPR(context.Background(), merged)

		assert.ErrorIs(t, err, domainErrors.ErrStorage)
		st.AssertNotCalled(t, "CreateVideo", mock.Anything, mock.Anything)
	})
}
