package ai

import (
	"context"
	"time"

	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/models"
)

var _ ConceptGenerator = (*Generator)(nil)

// Generator asks a single provider for video concepts. A nil provider makes every
// call fail with ErrProviderUnavailable.
type Generator struct {
	provider Provider
}

func NewGenerator(provider Provider) *Generator {
	return &Generator{provider: provider}
}

func (g *Generator) AnalyzePR(ctx context.Context, facts models.PRFacts) (models.VideoConcept, error) {
	system, user, err := BuildPRPrompts(facts)
	if err != nil {
		return models.VideoConcept{}, domainErrors.NewAppError(domainErrors.TypeInternal, "error building PR prompt", err)
	}
	return g.generate(ctx, "analyze-pr", system, user)
}

func (g *Generator) AnalyzeRepo(ctx context.Context, facts models.RepoFacts) (models.VideoConcept, error) {
	system, user, err := BuildRepoPrompts(facts)
	if err != nil {
		return models.VideoConcept{}, domainErrors.NewAppError(domainErrors.TypeInternal, "error building repo prompt", err)
	}
	return g.generate(ctx, "analyze-repo", system, user)
}

func (g *Generator) generate(ctx context.Context, operation, system, user string) (models.VideoConcept, error) {
	if g.provider == nil {
		return models.VideoConcept{}, domainErrors.ErrProviderUnavailable
	}
	log := logger.FromContext(ctx).With(
		"operation", operation,
		"provider", g.provider.Name(),
		"model", g.provider.Model())

	log.Debug("calling AI provider", "prompt_length", len(user))

	start := time.Now()
	text, usage, err := g.provider.Complete(ctx, system, user)
	if err != nil {
		log.Error("AI provider call failed", "error", err)
		return models.VideoConcept{}, err
	}

	concept, err := ParseConcept(text)
	if err != nil {
		log.Warn("AI response could not be parsed",
			"response_length", len(text))
		return models.VideoConcept{}, err
	}

	attrs := []any{"theme", concept.Theme, "duration_ms", time.Since(start).Milliseconds()}
	if usage != nil {
		attrs = append(attrs,
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"estimated_cost_usd", EstimateCost(usage))
	}
	log.Info("video concept generated", attrs...)

	return concept, nil
}
