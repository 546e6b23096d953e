// Package postgres is the PostgreSQL storage backend, built on a pgx connection pool.
package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/models"
)

//go:embed schema/schema.sql
var schema string

const videoColumns = `id::text, pull_request_id::text, user_id::text, theme, title, voiceover_script,
highlight_code, duration_seconds, source_repo, remotion_props, status, video_url, created_at, updated_at`

type Store struct {
	pool *pgxpool.Pool
}

// Connect creates the pool, checks the connection and applies the schema.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Info(ctx, "postgres connected", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database)
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func storageErr(op string, err error) error {
	return domainErrors.ErrStorage.WithError(err).WithContext("operation", op)
}

func validIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

func (s *Store) UpsertUserProfile(ctx context.Context, githubUsername string) (models.UserProfile, error) {
	var u models.UserProfile
	err := s.pool.QueryRow(ctx, `INSERT INTO user_profiles (id, github_username) VALUES ($1, $2)
ON CONFLICT (github_username) DO UPDATE SET github_username = EXCLUDED.github_username
RETURNING id::text, github_username, created_at`,
		uuid.NewString(), githubUsername).Scan(&u.ID, &u.GitHubUsername, &u.CreatedAt)
	if err != nil {
		return models.UserProfile{}, storageErr("upsert user profile", err)
	}
	return u, nil
}

func (s *Store) FindUserByGitHubLogin(ctx context.Context, login string) (models.UserProfile, error) {
	var u models.UserProfile
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, github_username, created_at FROM user_profiles WHERE github_username = $1`,
		login).Scan(&u.ID, &u.GitHubUsername, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UserProfile{}, domainErrors.ErrUserNotFound.WithContext("github_username", login)
		}
		return models.UserProfile{}, storageErr("find user", err)
	}
	return u, nil
}

func (s *Store) CreatePullRequest(ctx context.Context, pr models.PullRequest) (models.PullRequest, error) {
	pr.ID = uuid.NewString()
	err := s.pool.QueryRow(ctx, `INSERT INTO pull_requests
(id, user_id, github_pr_id, github_repo, github_repo_owner, title, description, diff_text, pr_url, pr_number, merged_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING created_at`,
		pr.ID, pr.UserID, pr.GitHubPRID, pr.Repo, pr.RepoOwner, pr.Title, pr.Description,
		pr.DiffText, pr.URL, pr.Number, pr.MergedAt).Scan(&pr.CreatedAt)
	if err != nil {
		return models.PullRequest{}, storageErr("create pull request", err)
	}
	return pr, nil
}

func (s *Store) CreateVideo(ctx context.Context, video models.Video) (models.Video, error) {
	props, err := json.Marshal(video.Concept)
	if err != nil {
		return models.Video{}, storageErr("encode concept", err)
	}
	video.ID = uuid.NewString()
	if video.Status == "" {
		video.Status = models.VideoStatusPending
	}

	err = s.pool.QueryRow(ctx, `INSERT INTO videos
(id, pull_request_id, user_id, theme, title, voiceover_script, highlight_code, duration_seconds, source_repo, remotion_props, status, video_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING created_at, updated_at`,
		video.ID, video.PullRequestID, video.UserID, string(video.Theme), video.Title, video.VoiceoverScript,
		video.HighlightCode, video.DurationSeconds, video.SourceRepo, props, string(video.Status),
		video.VideoURL).Scan(&video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		return models.Video{}, storageErr("create video", err)
	}
	return video, nil
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var v models.Video
	var theme, status string
	var props []byte
	if err := row.Scan(&v.ID, &v.PullRequestID, &v.UserID, &theme, &v.Title, &v.VoiceoverScript,
		&v.HighlightCode, &v.DurationSeconds, &v.SourceRepo, &props, &status, &v.VideoURL,
		&v.CreatedAt, &v.UpdatedAt); err != nil {
		return models.Video{}, err
	}
	if err := json.Unmarshal(props, &v.Concept); err != nil {
		return models.Video{}, fmt.Errorf("decode remotion_props: %w", err)
	}
	v.Theme = models.Theme(theme)
	v.Status = models.VideoStatus(status)
	return v, nil
}

func (s *Store) GetVideo(ctx context.Context, userID, id string) (models.Video, error) {
	if !validIDs(userID, id) {
		return models.Video{}, domainErrors.ErrVideoNotFound.WithContext("video_id", id)
	}
	v, err := scanVideo(s.pool.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, domainErrors.ErrVideoNotFound.WithContext("video_id", id)
		}
		return models.Video{}, storageErr("get video", err)
	}
	return v, nil
}

func (s *Store) ListVideos(ctx context.Context, userID string) ([]models.Video, error) {
	out := []models.Video{}
	if !validIDs(userID) {
		return out, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, storageErr("list videos", err)
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, storageErr("list videos", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list videos", err)
	}
	return out, nil
}

func (s *Store) UpdateVideoConcept(ctx context.Context, userID, id string, concept models.VideoConcept) (models.Video, error) {
	if !validIDs(userID, id) {
		return models.Video{}, domainErrors.ErrVideoNotFound.WithContext("video_id", id)
	}
	props, err := json.Marshal(concept)
	if err != nil {
		return models.Video{}, storageErr("encode concept", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE videos
SET remotion_props = $1, title = $2, voiceover_script = $3, updated_at = $4
WHERE id = $5 AND user_id = $6`,
		props, concept.Title, concept.VoiceoverScript, time.Now().UTC(), id, userID)
	if err != nil {
		return models.Video{}, storageErr("update video concept", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Video{}, domainErrors.ErrVideoNotFound.WithContext("video_id", id)
	}
	return s.GetVideo(ctx, userID, id)
}

func (s *Store) UpdateVideoStatus(ctx context.Context, userID, id string, status models.VideoStatus) (models.Video, error) {
	if !validIDs(userID, id) {
		return models.Video{}, domainErrors.ErrVideoNotFound.WithContext("video_id", id)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE videos SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		string(status), time.Now().UTC(), id, userID)
	if err != nil {
		return models.Video{}, storageErr("update video status", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Video{}, domainErrors.ErrVideoNotFound.WithContext("video_id", id)
	}
	return s.GetVideo(ctx, userID, id)
}
