// Package sqlite is the SQLite storage backend, built on the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed schema/schema.sql
var schema string

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const videoColumns = `id, pull_request_id, user_id, theme, title, voiceover_script, highlight_code,
duration_seconds, source_repo, remotion_props, status, video_url, created_at, updated_at`

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at dsn and applies the schema. Foreign keys are enabled
// on every pooled connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// withForeignKeys adds the modernc connection pragma, which runs on each new connection.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func storageErr(op string, err error) error {
	return domainErrors.ErrStorage.WithError(err).WithContext("operation", op)
}

func (s *Store) UpsertUserProfile(ctx context.Context, githubUsername string) (models.UserProfile, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_profiles (id, github_username, created_at) VALUES (?, ?, ?)
ON CONFLICT(github_username) DO NOTHING`,
		uuid.NewString(), githubUsername, s.stamp())
	if err != nil {
		return models.UserProfile{}, storageErr("upsert user profile", err)
	}
	return s.FindUserByGitHubLogin(ctx, githubUsername)
}

func (s *Store) FindUserByGitHubLogin(ctx context.Context, login string) (models.UserProfile, error) {
	var u models.UserProfile
	var created string
	row := s.db.QueryRowContext(ctx,
		`SELECT id, github_username, created_at FROM user_profiles WHERE github_username = ?`, login)
	if err := row.Scan(&u.ID, &u.GitHubUsername, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserProfile{}, domainErrors.ErrUserNotFound.WithContext("github_username", login)
		}
		return models.UserProfile{}, storageErr("find user", err)
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

func (s *Store) CreatePullRequest(ctx context.Context, pr models.PullRequest) (models.PullRequest, error) {
	pr.ID = uuid.NewString()
	created := s.stamp()
	var mergedAt *string
	if pr.MergedAt != nil {
		v := pr.MergedAt.UTC().Format(timeLayout)
		mergedAt = &v
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO pull_requests
(id, user_id, github_pr_id, github_repo, github_repo_owner, title, description, diff_text, pr_url, pr_number, merged_at, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pr.ID, pr.UserID, pr.GitHubPRID, pr.Repo, pr.RepoOwner, pr.Title, pr.Description,
		pr.DiffText, pr.URL, pr.Number, mergedAt, created)
	if err != nil {
		return models.PullRequest{}, storageErr("create pull request", err)
	}
	pr.CreatedAt = parseTime(created)
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
	now := s.stamp()

	_, err = s.db.ExecContext(ctx, `INSERT INTO videos (`+videoColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		video.ID, video.PullRequestID, video.UserID, string(video.Theme), video.Title, video.VoiceoverScript,
		video.HighlightCode, video.DurationSeconds, video.SourceRepo, string(props), string(video.Status),
		video.VideoURL, now, now)
	if err != nil {
		return models.Video{}, storageErr("create video", err)
	}
	video.CreatedAt = parseTime(now)
	video.UpdatedAt = video.CreatedAt
	return video, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (models.Video, error) {
	var v models.Video
	var prID sql.NullString
	var theme, status, props, created, updated string
	if err := row.Scan(&v.ID, &prID, &v.UserID, &theme, &v.Title, &v.VoiceoverScript, &v.HighlightCode,
		&v.DurationSeconds, &v.SourceRepo, &props, &status, &v.VideoURL, &created, &updated); err != nil {
		return models.Video{}, err
	}
	if prID.Valid {
		v.PullRequestID = &prID.String
	}
	if err := json.Unmarshal([]byte(props), &v.Concept); err != nil {
		return models.Video{}, fmt.Errorf("decode remotion_props: %w", err)
	}
	v.Theme = models.Theme(theme)
	v.Status = models.VideoStatus(status)
	v.CreatedAt = parseTime(created)
	v.UpdatedAt = parseTime(updated)
	return v, nil
}

func (s *Store) GetVideo(ctx context.Context, userID, id string) (models.Video, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = ? AND user_id = ?`, id, userID)
	v, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Video{}, domainErrors.ErrVideoNotFound.WithContext("video_id", id)
		}
		return models.Video{}, storageErr("get video", err)
	}
	return v, nil
}

func (s *Store) ListVideos(ctx context.Context, userID string) ([]models.Video, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, storageErr("list videos", err)
	}
	defer rows.Close()

	out := []models.Video{}
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
	props, err := json.Marshal(concept)
	if err != nil {
		return models.Video{}, storageErr("encode concept", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE videos
SET remotion_props = ?, title = ?, voiceover_script = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		string(props), concept.Title, concept.VoiceoverScript, s.stamp(), id, userID)
	if err != nil {
		return models.Video{}, storageErr("update video concept", err)
	}
	if err := requireRow(res, id); err != nil {
		return models.Video{}, err
	}
	return s.GetVideo(ctx, userID, id)
}

func (s *Store) UpdateVideoStatus(ctx context.Context, userID, id string, status models.VideoStatus) (models.Video, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE videos SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		string(status), s.stamp(), id, userID)
	if err != nil {
		return models.Video{}, storageErr("update video status", err)
	}
	if err := requireRow(res, id); err != nil {
		return models.Video{}, err
	}
	return s.GetVideo(ctx, userID, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if n == 0 {
		return domainErrors.ErrVideoNotFound.WithContext("video_id", id)
	}
	return nil
}
