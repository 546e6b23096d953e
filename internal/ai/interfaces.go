package ai

import (
	"context"

	"github.com/thomas-vilte/motioner/internal/models"
)

// Provider is a chat-completion backend that can be asked for a JSON-only answer.
type Provider interface {
	// Name identifies the provider ("openrouter", "anthropic", "openai", "gemini").
	Name() string
	// Model returns the model the provider sends requests to.
	Model() string
	// Complete sends one system and one user message and returns the text of the reply.
	Complete(ctx context.Context, system, user string) (string, *models.TokenUsage, error)
}

// ConceptGenerator turns PR or repository facts into a video concept.
type ConceptGenerator interface {
	AnalyzePR(ctx context.Context, facts models.PRFacts) (models.VideoConcept, error)
	AnalyzeRepo(ctx context.Context, facts models.RepoFacts) (models.VideoConcept, error)
}
