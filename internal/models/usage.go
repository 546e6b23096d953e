package models

// TokenUsage is the token accounting reported by a model provider for one completion.
type TokenUsage struct {
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
	Model        string `json:"model,omitempty"`
	Provider     string `json:"provider,omitempty"`
	DurationMs   int64  `json:"duration_ms,omitempty"`
}
