package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/motioner/internal/models"
)

// MockStore implements the store methods both services need.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindUserByGitHubLogin(ctx context.Context, login string) (models.UserProfile, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(models.UserProfile), args.Error(1)
}

func (m *MockStore) CreatePullRequest(ctx context.Context, pr models.PullRequest) (models.PullRequest, error) {
	args := m.Called(ctx, pr)
	return args.Get(0).(models.PullRequest), args.Error(1)
}

func (m *MockStore) CreateVideo(ctx context.Context, video models.Video) (models.Video, error) {
	args := m.Called(ctx, video)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *MockStore) GetVideo(ctx context.Context, userID, id string) (models.Video, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *MockStore) ListVideos(ctx context.Context, userID string) ([]models.Video, error) {
	args := m.Called(ctx, userID)
	videos, _ := args.Get(0).([]models.Video)
	return videos, args.Error(1)
}

func (m *MockStore) UpdateVideoConcept(ctx context.Context, userID, id string, concept models.VideoConcept) (models.Video, error) {
	args := m.Called(ctx, userID, id, concept)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *MockStore) UpdateVideoStatus(ctx context.Context, userID, id string, status models.VideoStatus) (models.Video, error) {
	args := m.Called(ctx, userID, id, status)
	return args.Get(0).(models.Video), args.Error(1)
}
