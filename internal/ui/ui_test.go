package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/i18n"
	"github.com/thomas-vilte/motioner/internal/models"
)

func init() {
	color.NoColor = true
}

func TestHandleAppError(t *testing.T) {
	t.Run("app error with suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := domainErrors.ErrProviderUnavailable.WithError(errors.New("no keys"))

		HandleAppError(&buf, err)

		out := buf.String()
		assert.Contains(t, out, "AI: no AI provider configured")
		assert.Contains(t, out, "Details: no keys")
		assert.Contains(t, out, "💡 Try: ")
	})

	t.Run("translated suggestion prefix", func(t *testing.T) {
		trans, err := i18n.NewTranslations("es", "")
		require.NoError(t, err)
		var buf bytes.Buffer

		HandleAppError(&buf, domainErrors.ErrProviderUnavailable, trans)

		assert.Contains(t, buf.String(), "💡 Probá: ")
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, errors.New("boom"))

		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("nil error prints nothing", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, nil)

		assert.Empty(t, buf.String())
	})
}

func TestPrintConcept(t *testing.T) {
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	var buf bytes.Buffer

	PrintConcept(&buf, models.VideoConcept{
		Theme:           models.ThemeRefactor,
		Title:           "Faster builds",
		PrimaryColor:    "#10b981",
		DurationSeconds: 15,
		VoiceoverScript: "Builds are now twice as fast.",
		Details:         models.RefactorDetails{SpeedImprovement: 40},
	}, trans)

	out := buf.String()
	assert.Contains(t, out, "Theme: refactor")
	assert.Contains(t, out, "Title: Faster builds")
	assert.Contains(t, out, "speedImprovement: 40%")
	assert.Contains(t, out, "Builds are now twice as fast.")
	assert.NotContains(t, out, "bugDescription")
}
