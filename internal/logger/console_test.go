package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestConsoleHandler(t *testing.T) {
	color.NoColor = true

	t.Run("bound attributes keep the groups open when they were bound", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		log := slog.New(NewConsoleHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
			With("user", "octocat").
			WithGroup("pr").
			With("number", 7)

		// Act
		log.Info("analyzed", "files", 3)

		// Assert
		assert.Equal(t, "[INFO]  analyzed user=octocat pr.number=7 pr.files=3\n", buf.String())
	})

	t.Run("group values are flattened and empty attributes dropped", func(t *testing.T) {
		var buf bytes.Buffer
		log := slog.New(NewConsoleHandler(&buf, nil))

		log.Warn("readme unavailable",
			slog.Group("repo", "stars", 5),
			slog.Attr{},
			slog.Group("", "inline", true))

		assert.Equal(t, "[WARN]  readme unavailable repo.stars=5 inline=true\n", buf.String())
	})

	t.Run("defaults to warn when no level is set", func(t *testing.T) {
		h := NewConsoleHandler(&bytes.Buffer{}, nil)

		assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	})

	t.Run("badges follow slog level names", func(t *testing.T) {
		assert.Equal(t, "[DEBUG]", badge(slog.LevelDebug))
		assert.Equal(t, "[INFO] ", badge(slog.LevelInfo))
		assert.Equal(t, "[ERROR]", badge(slog.LevelError))
		assert.Equal(t, "[WARN+2]", badge(slog.LevelWarn+2))
	})
}
