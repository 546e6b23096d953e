package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	color.NoColor = true

	t.Run("pretty handler hides info below verbose", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, false, false, FormatPretty)

		log.Info("fetching repo", "owner", "octocat")
		log.Warn("readme unavailable", "repo", "hello-world")

		out := buf.String()
		assert.NotContains(t, out, "fetching repo")
		assert.Contains(t, out, "[WARN]")
		assert.Contains(t, out, "readme unavailable")
		assert.Contains(t, out, "repo=hello-world")
	})

	t.Run("json handler emits structured records", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, false, true, FormatJSON)

		log.Info("concept generated", "theme", "bug")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "concept generated", record["msg"])
		assert.Equal(t, "bug", record["theme"])
	})
}

func TestContextLogger(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	ctx := WithLogger(context.Background(), New(&buf, true, false, FormatPretty))
	ctx = With(ctx, "video_id", "v-1")

	Debug(ctx, "render started")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "video_id=v-1")
}
