package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/thomas-vilte/motioner/internal/ai"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/models"
	"google.golang.org/genai"
)

var _ ai.Provider = (*GeminiProvider)(nil)

const DefaultModel = "gemini-2.5-flash"

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type GeminiProvider struct {
	model      string
	generateFn generateFunc
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, domainErrors.ErrProviderUnavailable.WithContext("provider", "gemini")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeAI, "error creating AI client", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiProvider{model: model, generateFn: client.Models.GenerateContent}, nil
}

func (g *GeminiProvider) Name() string  { return "gemini" }
func (g *GeminiProvider) Model() string { return g.model }

func (g *GeminiProvider) Complete(ctx context.Context, system, user string) (string, *models.TokenUsage, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	resp, err := g.generateFn(ctx, g.model, genai.Text(user), generateConfig(g.model, system))
	if err != nil {
		log.Error("gemini API call failed",
			"error", err,
			"model", g.model)
		return "", nil, classifyError(err)
	}

	text := formatResponse(resp)
	if text == "" {
		return "", nil, domainErrors.ErrAIGeneration.
			WithContext("provider", g.Name()).
			WithContext("reason", "empty response from AI")
	}

	usage := extractUsage(resp)
	if usage != nil {
		usage.Model = g.model
		usage.Provider = g.Name()
		usage.DurationMs = time.Since(start).Milliseconds()
	}
	return text, usage, nil
}

func classifyError(err error) error {
	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "quota"),
		strings.Contains(errMsg, "rate limit"),
		strings.Contains(errMsg, "resource exhausted"):
		return domainErrors.ErrQuotaExceeded.WithError(err).WithContext("provider", "gemini")
	case strings.Contains(errMsg, "api key"),
		strings.Contains(errMsg, "unauthorized"),
		strings.Contains(errMsg, "permission denied"):
		return domainErrors.ErrAPIKeyInvalid.WithError(err).WithContext("provider", "gemini")
	}
	return domainErrors.ErrAIGeneration.WithError(err).WithContext("provider", "gemini")
}
