// Package openai talks to OpenAI-compatible chat completion APIs: OpenAI itself and
// OpenRouter.
package openai

import (
	"context"
	"errors"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/thomas-vilte/motioner/internal/ai"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/models"
)

var _ ai.Provider = (*Provider)(nil)

const (
	DefaultOpenAIModel     = "gpt-4o"
	DefaultOpenRouterModel = "deepseek/deepseek-r1-0528:free"
	OpenRouterBaseURL      = "https://openrouter.ai/api/v1"
	DefaultSiteURL         = "http://localhost:3000"

	openRouterTitle = "Motioner - Automated Dev-Rel"
	temperature     = 0.7
)

type Provider struct {
	client oai.Client
	name   string
	model  string
}

// NewOpenAI returns a provider for the OpenAI API. baseURL may be empty.
func NewOpenAI(apiKey, model, baseURL string) *Provider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Provider{client: oai.NewClient(opts...), name: "openai", model: model}
}

// NewOpenRouter returns a provider for OpenRouter. siteURL is sent as the referer
// OpenRouter attributes requests to.
func NewOpenRouter(apiKey, model, siteURL, baseURL string) *Provider {
	if model == "" {
		model = DefaultOpenRouterModel
	}
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}
	client := oai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHeader("HTTP-Referer", siteURL),
		option.WithHeader("X-Title", openRouterTitle),
		option.WithMaxRetries(0),
	)
	return &Provider{client: client, name: "openrouter", model: model}
}

func (p *Provider) Name() string  { return p.name }
func (p *Provider) Model() string { return p.model }

func (p *Provider) Complete(ctx context.Context, system, user string) (string, *models.TokenUsage, error) {
	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: oai.ChatModel(p.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(system),
			oai.UserMessage(user),
		},
		ResponseFormat: oai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: oai.Float(temperature),
	})
	if err != nil {
		var apiErr *oai.Error
		if errors.As(err, &apiErr) {
			return "", nil, ai.ClassifyStatus(p.name, apiErr.StatusCode, err)
		}
		return "", nil, ai.ClassifyStatus(p.name, 0, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", nil, domainErrors.ErrAIGeneration.
			WithContext("provider", p.name).
			WithContext("reason", "empty completion")
	}

	usage := &models.TokenUsage{
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:  int(resp.Usage.TotalTokens),
		Model:        p.model,
		Provider:     p.name,
		DurationMs:   time.Since(start).Milliseconds(),
	}
	return resp.Choices[0].Message.Content, usage, nil
}
