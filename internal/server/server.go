// Package server exposes the analysis pipeline and the video editor over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/render"
	"github.com/thomas-vilte/motioner/internal/services"
	"github.com/thomas-vilte/motioner/internal/vcs/github"
)

// maxBodyBytes bounds request bodies; diffs pasted into /api/pr/analyze are the largest.
const maxBodyBytes = 5 << 20

type analysisService interface {
	AnalyzePR(ctx context.Context, userID string, req services.PRRequest) (services.AnalysisResult, error)
	AnalyzeRepo(ctx context.Context, userID, url string) (services.AnalysisResult, error)
	HandleMergedPR(ctx context.Context, pr models.PullRequestData) (services.AnalysisResult, error)
}

type videoService interface {
	List(ctx context.Context, userID string) ([]models.Video, error)
	Get(ctx context.Context, userID, id string) (models.Video, error)
	RenderProps(ctx context.Context, userID, id string) (render.Input, error)
	UpdateConcept(ctx context.Context, userID, id string, edit models.ConceptEdit) (models.Video, error)
	StartRender(ctx context.Context, userID, id string, edit *models.ConceptEdit) (models.Video, error)
}

type Handler struct {
	Analysis      analysisService
	Videos        videoService
	Auth          Authenticator
	WebhookSecret string

	limiters *userLimiters
}

type Option func(*Handler)

// WithRateLimit limits analysis requests per user. Zero disables the limit.
func WithRateLimit(perMinute, burst int) Option {
	return func(h *Handler) {
		h.limiters = newUserLimiters(perMinute, burst)
	}
}

func NewHandler(analysis analysisService, videos videoService, auth Authenticator, webhookSecret string, opts ...Option) *Handler {
	h := &Handler{
		Analysis:      analysis,
		Videos:        videos,
		Auth:          auth,
		WebhookSecret: webhookSecret,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.Health)

	mux.HandleFunc("POST /api/pr/analyze", h.withUser(h.limited(h.AnalyzePR)))
	mux.HandleFunc("POST /api/repo/analyze", h.withUser(h.limited(h.AnalyzeRepo)))
	mux.HandleFunc("POST /api/webhooks/github", h.GitHubWebhook)

	mux.HandleFunc("GET /api/videos", h.withUser(h.ListVideos))
	mux.HandleFunc("GET /api/videos/{id}", h.withUser(h.GetVideo))
	mux.HandleFunc("PUT /api/videos/{id}", h.withUser(h.UpdateVideo))
	mux.HandleFunc("GET /api/videos/{id}/props", h.withUser(h.VideoProps))
	mux.HandleFunc("POST /api/video/render", h.withUser(h.RenderVideo))

	return requestLogger(mux)
}

type userHandler func(w http.ResponseWriter, r *http.Request, user models.UserProfile)

func (h *Handler) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.Auth.Authenticate(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		ctx := logger.With(r.Context(), "user_id", user.ID)
		next(w, r.WithContext(ctx), user)
	}
}

func (h *Handler) limited(next userHandler) userHandler {
	return func(w http.ResponseWriter, r *http.Request, user models.UserProfile) {
		if !h.limiters.allow(user.ID) {
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests"})
			return
		}
		next(w, r, user)
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) AnalyzePR(w http.ResponseWriter, r *http.Request, user models.UserProfile) {
	var req services.PRRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.Analysis.AnalyzePR(r.Context(), user.ID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type repoRequest struct {
	RepoURL string `json:"repoUrl"`
}

func (h *Handler) AnalyzeRepo(w http.ResponseWriter, r *http.Request, user models.UserProfile) {
	var req repoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RepoURL == "" {
		h.writeError(w, r, domainErrors.ErrMissingFields.WithContext("field", "repoUrl"))
		return
	}
	result, err := h.Analysis.AnalyzeRepo(r.Context(), user.ID, req.RepoURL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GitHubWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	event, err := github.ParseWebhook(r.Context(), r, h.WebhookSecret)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if event == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Event ignored"})
		return
	}

	result, err := h.Analysis.HandleMergedPR(r.Context(), event.PullRequestData)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"videoId": result.VideoID,
		"prId":    result.PullRequestID,
	})
}

func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request, user models.UserProfile) {
	videos, err := h.Videos.List(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request, user models.UserProfile) {
	video, err := h.Videos.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (h *Handler) UpdateVideo(w http.ResponseWriter, r *http.Request, user models.UserProfile) {
	var edit models.ConceptEdit
	if !decodeJSON(w, r, &edit) {
		return
	}
	video, err := h.Videos.UpdateConcept(r.Context(), user.ID, r.PathValue("id"), edit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (h *Handler) VideoProps(w http.ResponseWriter, r *http.Request, user models.UserProfile) {
	input, err := h.Videos.RenderProps(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, input)
}

type renderRequest struct {
	VideoID       string              `json:"videoId"`
	RemotionProps *models.ConceptEdit `json:"remotionProps,omitempty"`
}

func (h *Handler) RenderVideo(w http.ResponseWriter, r *http.Request, user models.UserProfile) {
	var req renderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VideoID == "" {
		h.writeError(w, r, domainErrors.ErrMissingFields.WithContext("field", "videoId"))
		return
	}
	if _, err := h.Videos.StartRender(r.Context(), user.ID, req.VideoID, req.RemotionProps); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Video rendering started",
		"videoId": req.VideoID,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		log.Warn("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
