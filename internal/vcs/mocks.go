package vcs

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/motioner/internal/models"
)

type MockSourceFetcher struct {
	mock.Mock
}

func (m *MockSourceFetcher) FetchRepoMetadata(ctx context.Context, owner, repo string) (models.RepoMetadata, error) {
	args := m.Called(ctx, owner, repo)
	return args.Get(0).(models.RepoMetadata), args.Error(1)
}

func (m *MockSourceFetcher) FetchLanguages(ctx context.Context, owner, repo string) ([]string, error) {
	args := m.Called(ctx, owner, repo)
	langs, _ := args.Get(0).([]string)
	return langs, args.Error(1)
}

func (m *MockSourceFetcher) FetchReadme(ctx context.Context, owner, repo string) (*string, error) {
	args := m.Called(ctx, owner, repo)
	readme, _ := args.Get(0).(*string)
	return readme, args.Error(1)
}

func (m *MockSourceFetcher) FetchPullRequest(ctx context.Context, ref models.PullRequestReference) (models.PullRequestData, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(models.PullRequestData), args.Error(1)
}

func (m *MockSourceFetcher) FetchDiff(ctx context.Context, ref models.PullRequestReference) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}
