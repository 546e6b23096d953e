package services

import (
	"context"

	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/render"
)

// videoStore defines the store methods needed by VideoService.
type videoStore interface {
	GetVideo(ctx context.Context, userID, id string) (models.Video, error)
	ListVideos(ctx context.Context, userID string) ([]models.Video, error)
	UpdateVideoConcept(ctx context.Context, userID, id string, concept models.VideoConcept) (models.Video, error)
	UpdateVideoStatus(ctx context.Context, userID, id string, status models.VideoStatus) (models.Video, error)
}

// VideoService backs the video list and editor. Every call is scoped to one user.
type VideoService struct {
	store videoStore
}

func NewVideoService(store videoStore) *VideoService {
	return &VideoService{store: store}
}

func (s *VideoService) List(ctx context.Context, userID string) ([]models.Video, error) {
	return s.store.ListVideos(ctx, userID)
}

func (s *VideoService) Get(ctx context.Context, userID, id string) (models.Video, error) {
	return s.store.GetVideo(ctx, userID, id)
}

// RenderProps resolves the composition and input props the editor previews.
func (s *VideoService) RenderProps(ctx context.Context, userID, id string) (render.Input, error) {
	video, err := s.store.GetVideo(ctx, userID, id)
	if err != nil {
		return render.Input{}, err
	}
	return render.InputFor(video.Concept)
}

// UpdateConcept applies an editor change. The theme of a video never changes.
func (s *VideoService) UpdateConcept(ctx context.Context, userID, id string, edit models.ConceptEdit) (models.Video, error) {
	video, err := s.store.GetVideo(ctx, userID, id)
	if err != nil {
		return models.Video{}, err
	}
	updated, err := s.store.UpdateVideoConcept(ctx, userID, id, edit.Apply(video.Concept))
	if err != nil {
		return models.Video{}, err
	}
	logger.Info(ctx, "video concept updated", "video_id", id, "theme", updated.Theme)
	return updated, nil
}

// StartRender saves a pending editor change, if any, and marks the video as rendering.
// Only the status changes; the render engine picks videos up from there.
func (s *VideoService) StartRender(ctx context.Context, userID, id string, edit *models.ConceptEdit) (models.Video, error) {
	if edit != nil {
		if _, err := s.UpdateConcept(ctx, userID, id, *edit); err != nil {
			return models.Video{}, err
		}
	}
	if _, err := s.RenderProps(ctx, userID, id); err != nil {
		return models.Video{}, err
	}

	video, err := s.store.UpdateVideoStatus(ctx, userID, id, models.VideoStatusRendering)
	if err != nil {
		return models.Video{}, err
	}
	logger.Info(ctx, "video rendering started", "video_id", id)
	return video, nil
}
