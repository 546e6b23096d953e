package ai

import (
	"encoding/json"
	"strings"

	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/regex"
)

// StripFence returns the body of the first fenced code block when text starts with a
// fence, and the trimmed text otherwise.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if m := regex.MarkdownJSONBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// ParseConcept decodes a model reply into a VideoConcept. The reply must be a JSON
// object with a non-empty theme. Unknown themes are accepted; they carry no details.
// Errors never include the reply text.
func ParseConcept(text string) (models.VideoConcept, error) {
	body := StripFence(text)
	if body == "" {
		return models.VideoConcept{}, domainErrors.ErrMalformedResponse.
			WithContext("reason", "empty response")
	}

	var concept models.VideoConcept
	if err := json.Unmarshal([]byte(body), &concept); err != nil {
		return models.VideoConcept{}, domainErrors.ErrMalformedResponse.
			WithContext("reason", "response is not a valid concept").
			WithContext("response_length", len(body))
	}
	if concept.Theme == "" {
		return models.VideoConcept{}, domainErrors.ErrMalformedResponse.
			WithContext("reason", "theme is missing").
			WithContext("response_length", len(body))
	}
	return concept, nil
}
