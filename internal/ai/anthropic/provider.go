package anthropic

import (
	"context"
	"errors"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/thomas-vilte/motioner/internal/ai"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/models"
)

var _ ai.Provider = (*Provider)(nil)

const (
	DefaultModel = "claude-3-5-sonnet-20241022"

	maxTokens = 2000
	// jsonReminder is appended to the user prompt since the Messages API has no JSON mode.
	jsonReminder = "\n\nPlease respond with valid JSON only, matching the structure specified in the system prompt."
)

type Provider struct {
	client sdk.Client
	model  string
}

func New(apiKey, model, baseURL string) *Provider {
	if model == "" {
		model = DefaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Provider{client: sdk.NewClient(opts...), model: model}
}

func (p *Provider) Name() string  { return "anthropic" }
func (p *Provider) Model() string { return p.model }

func (p *Provider) Complete(ctx context.Context, system, user string) (string, *models.TokenUsage, error) {
	start := time.Now()
	msg, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(p.model),
		MaxTokens: maxTokens,
		System:    []sdk.TextBlockParam{{Text: system}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(user + jsonReminder)),
		},
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			return "", nil, ai.ClassifyStatus(p.Name(), apiErr.StatusCode, err)
		}
		return "", nil, ai.ClassifyStatus(p.Name(), 0, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", nil, domainErrors.ErrAIGeneration.
			WithContext("provider", p.Name()).
			WithContext("reason", "no text block in response")
	}

	usage := &models.TokenUsage{
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		Model:        p.model,
		Provider:     p.Name(),
		DurationMs:   time.Since(start).Milliseconds(),
	}
	return text.String(), usage, nil
}
