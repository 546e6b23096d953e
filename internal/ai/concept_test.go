package ai

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/models"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"raw json", `  {"theme":"bug"}  `, `{"theme":"bug"}`},
		{"json fence", "```json\n{\"theme\":\"bug\"}\n```", `{"theme":"bug"}`},
		{"bare fence", "```\n{\"theme\":\"bug\"}\n```", `{"theme":"bug"}`},
		{"first block wins", "```json\n{\"a\":1}\n```\ntext\n```json\n{\"b\":2}\n```", `{"a":1}`},
		{"prose before fence is left alone", "Here:\n```json\n{}\n```", "Here:\n```json\n{}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFence(tt.in))
		})
	}
}

func TestParseConcept(t *testing.T) {
	t.Run("fenced bug concept", func(t *testing.T) {
		text := "```json\n{\"theme\":\"bug\",\"title\":\"Fix\",\"voiceoverScript\":\"...\",\"durationSeconds\":15,\"primaryColor\":\"#f00\",\"bugDescription\":\"desc\"}\n```"

		concept, err := ParseConcept(text)

		require.NoError(t, err)
		assert.Equal(t, models.ThemeBug, concept.Theme)
		assert.Equal(t, "Fix", concept.Title)
		assert.Equal(t, models.BugDetails{BugDescription: "desc"}, concept.Details)
	})

	t.Run("unknown theme parses", func(t *testing.T) {
		concept, err := ParseConcept(`{"theme":"docs","title":"Docs"}`)

		require.NoError(t, err)
		assert.Equal(t, models.Theme("docs"), concept.Theme)
		assert.Nil(t, concept.Details)
	})

	t.Run("missing theme", func(t *testing.T) {
		_, err := ParseConcept(`{"title":"No theme"}`)

		assert.ErrorIs(t, err, domainErrors.ErrMalformedResponse)
	})

	t.Run("invalid json does not leak text", func(t *testing.T) {
		_, err := ParseConcept("sorry, I cannot help with secret-value-123")

		require.ErrorIs(t, err, domainErrors.ErrMalformedResponse)
		assert.NotContains(t, err.Error(), "secret-value-123")
		var appErr *domainErrors.AppError
		require.ErrorAs(t, err, &appErr)
		for _, v := range appErr.Context {
			assert.NotContains(t, fmt.Sprint(v), "secret-value-123")
		}
	})

	t.Run("empty response", func(t *testing.T) {
		_, err := ParseConcept("   ")

		assert.ErrorIs(t, err, domainErrors.ErrMalformedResponse)
	})
}
