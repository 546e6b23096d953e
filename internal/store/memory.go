package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/models"
)

var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu sync.Mutex

	users        map[string]models.UserProfile
	pullRequests map[string]models.PullRequest
	videos       map[string]models.Video
	now          func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]models.UserProfile),
		pullRequests: make(map[string]models.PullRequest),
		videos:       make(map[string]models.Video),
		now:          time.Now,
	}
}

func (s *MemoryStore) UpsertUserProfile(_ context.Context, githubUsername string) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.GitHubUsername == githubUsername {
			return u, nil
		}
	}
	u := models.UserProfile{ID: uuid.NewString(), GitHubUsername: githubUsername, CreatedAt: s.now().UTC()}
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) FindUserByGitHubLogin(_ context.Context, login string) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.GitHubUsername == login {
			return u, nil
		}
	}
	return models.UserProfile{}, domainErrors.ErrUserNotFound.WithContext("github_username", login)
}

func (s *MemoryStore) CreatePullRequest(_ context.Context, pr models.PullRequest) (models.PullRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr.ID = uuid.NewString()
	pr.CreatedAt = s.now().UTC()
	s.pullRequests[pr.ID] = pr
	return pr, nil
}

func (s *MemoryStore) CreateVideo(_ context.Context, video models.Video) (models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	video.ID = uuid.NewString()
	video.CreatedAt = now
	video.UpdatedAt = now
	if video.Status == "" {
		video.Status = models.VideoStatusPending
	}
	s.videos[video.ID] = video
	return video, nil
}

func (s *MemoryStore) GetVideo(_ context.Context, userID, id string) (models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getVideo(userID, id)
}

func (s *MemoryStore) getVideo(userID, id string) (models.Video, error) {
	v, ok := s.videos[id]
	if !ok || v.UserID != userID {
		return models.Video{}, domainErrors.ErrVideoNotFound.WithContext("video_id", id)
	}
	return v, nil
}

func (s *MemoryStore) ListVideos(_ context.Context, userID string) ([]models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Video{}
	for _, v := range s.videos {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) UpdateVideoConcept(_ context.Context, userID, id string, concept models.VideoConcept) (models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.getVideo(userID, id)
	if err != nil {
		return models.Video{}, err
	}
	v.Concept = concept
	v.Title = concept.Title
	v.VoiceoverScript = concept.VoiceoverScript
	v.UpdatedAt = s.now().UTC()
	s.videos[id] = v
	return v, nil
}

func (s *MemoryStore) UpdateVideoStatus(_ context.Context, userID, id string, status models.VideoStatus) (models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.getVideo(userID, id)
	if err != nil {
		return models.Video{}, err
	}
	v.Status = status
	v.UpdatedAt = s.now().UTC()
	s.videos[id] = v
	return v, nil
}

func (s *MemoryStore) Close() error { return nil }
