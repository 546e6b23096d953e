package models

import "time"

// VideoStatus is the render lifecycle of a stored video.
type VideoStatus string

const (
	VideoStatusPending   VideoStatus = "pending"
	VideoStatusRendering VideoStatus = "rendering"
	VideoStatusCompleted VideoStatus = "completed"
	VideoStatusFailed    VideoStatus = "failed"
)

type (
	// UserProfile links an application user to a GitHub login.
	UserProfile struct {
		ID             string    `json:"id"`
		GitHubUsername string    `json:"github_username"`
		CreatedAt      time.Time `json:"created_at"`
	}

	// PullRequest is the stored record of an analysed PR. DiffText is already sanitized.
	PullRequest struct {
		ID          string     `json:"id"`
		UserID      string     `json:"user_id"`
		GitHubPRID  int64      `json:"github_pr_id"`
		Repo        string     `json:"github_repo"`
		RepoOwner   string     `json:"github_repo_owner"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		DiffText    string     `json:"diff_text"`
		URL         string     `json:"pr_url"`
		Number      int        `json:"pr_number"`
		MergedAt    *time.Time `json:"merged_at,omitempty"`
		CreatedAt   time.Time  `json:"created_at"`
	}

	// Video is a stored concept together with its render state.
	Video struct {
		ID              string       `json:"id"`
		PullRequestID   *string      `json:"pull_request_id"`
		UserID          string       `json:"user_id"`
		Theme           Theme        `json:"theme"`
		Title           string       `json:"title"`
		VoiceoverScript string       `json:"voiceover_script"`
		HighlightCode   string       `json:"highlight_code,omitempty"`
		DurationSeconds float64      `json:"duration_seconds"`
		SourceRepo      string       `json:"source_repo,omitempty"`
		Concept         VideoConcept `json:"concept"`
		Status          VideoStatus  `json:"status"`
		VideoURL        string       `json:"video_url,omitempty"`
		CreatedAt       time.Time    `json:"created_at"`
		UpdatedAt       time.Time    `json:"updated_at"`
	}
)

// NewVideo builds a pending video record for concept.
func NewVideo(userID string, pullRequestID *string, concept VideoConcept) Video {
	return Video{
		PullRequestID:   pullRequestID,
		UserID:          userID,
		Theme:           concept.Theme,
		Title:           concept.Title,
		VoiceoverScript: concept.VoiceoverScript,
		HighlightCode:   concept.HighlightCode,
		DurationSeconds: concept.DurationSeconds,
		Concept:         concept,
		Status:          VideoStatusPending,
	}
}
