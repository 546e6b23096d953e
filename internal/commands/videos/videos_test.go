package videos

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/motioner/internal/commands/app"
	"github.com/thomas-vilte/motioner/internal/config"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/i18n"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/services"
	"github.com/thomas-vilte/motioner/internal/store"
)

func memoryOpener(st store.Store) app.Opener {
	return func(_ context.Context, _ *config.Config, _ ...services.AnalysisOption) (*app.Runtime, error) {
		return &app.Runtime{Store: st, Videos: services.NewVideoService(st)}, nil
	}
}

func translations(t *testing.T) *i18n.Translations {
	t.Helper()
	tr, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return tr
}

// seed stores one bug video owned by login and returns its id.
func seed(t *testing.T, st store.Store, login string) string {
	t.Helper()
	user, err := st.UpsertUserProfile(context.Background(), login)
	require.NoError(t, err)
	video, err := st.CreateVideo(context.Background(), models.NewVideo(user.ID, nil, models.VideoConcept{
		Theme:           models.ThemeBug,
		Title:           "Crash fixed",
		VoiceoverScript: "No more crashes.",
		DurationSeconds: 15,
		PrimaryColor:    "#f00",
		Details:         models.BugDetails{BugDescription: "nil map write"},
	}))
	require.NoError(t, err)
	return video.ID
}

func TestListCommand(t *testing.T) {
	color.NoColor = true

	t.Run("json lists only the user's videos", func(t *testing.T) {
		// Arrange
		st := store.NewMemoryStore()
		id := seed(t, st, app.LocalUser)
		seed(t, st, "someone-else")

		var out bytes.Buffer
		factory := NewListCommandFactory(memoryOpener(st))
		factory.out = &out
		cmd := factory.CreateCommand(translations(t), &config.Config{})

		// Act
		err := cmd.Run(context.Background(), []string{"videos", "--json"})

		// Assert
		require.NoError(t, err)
		var body struct {
			Videos []models.Video `json:"videos"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &body))
		require.Len(t, body.Videos, 1)
		assert.Equal(t, id, body.Videos[0].ID)
	})

	t.Run("empty list", func(t *testing.T) {
		var out bytes.Buffer
		factory := NewListCommandFactory(memoryOpener(store.NewMemoryStore()))
		factory.out = &out
		cmd := factory.CreateCommand(translations(t), &config.Config{})

		err := cmd.Run(context.Background(), []string{"videos"})

		require.NoError(t, err)
		assert.Contains(t, out.String(), "No videos yet")
	})
}

func TestPropsCommand(t *testing.T) {
	t.Run("prints composition and props", func(t *testing.T) {
		// Arrange
		st := store.NewMemoryStore()
		id := seed(t, st, "octocat")
		var out bytes.Buffer
		factory := NewPropsCommandFactory(memoryOpener(st))
		factory.out = &out
		cmd := factory.CreateCommand(translations(t), &config.Config{})

		// Act
		err := cmd.Run(context.Background(), []string{"props", "--user", "octocat", id})

		// Assert
		require.NoError(t, err)
		var input map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &input))
		assert.Equal(t, "BugSquash", input["composition"].(map[string]any)["id"])
		props := input["props"].(map[string]any)
		assert.Equal(t, "Crash fixed", props["title"])
		assert.Equal(t, "nil map write", props["bugDescription"])
	})

	t.Run("video of another user is not found", func(t *testing.T) {
		st := store.NewMemoryStore()
		id := seed(t, st, "octocat")
		factory := NewPropsCommandFactory(memoryOpener(st))
		cmd := factory.CreateCommand(translations(t), &config.Config{})

		err := cmd.Run(context.Background(), []string{"props", id})

		assert.ErrorIs(t, err, domainErrors.ErrVideoNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		factory := NewPropsCommandFactory(memoryOpener(store.NewMemoryStore()))
		cmd := factory.CreateCommand(translations(t), &config.Config{})

		err := cmd.Run(context.Background(), []string{"props"})

		assert.ErrorIs(t, err, domainErrors.ErrMissingFields)
	})
}

func TestRenderCommand(t *testing.T) {
	color.NoColor = true

	// Arrange
	st := store.NewMemoryStore()
	id := seed(t, st, app.LocalUser)
	var out bytes.Buffer
	factory := NewRenderCommandFactory(memoryOpener(st))
	factory.out = &out
	cmd := factory.CreateCommand(translations(t), &config.Config{})

	// Act
	err := cmd.Run(context.Background(), []string{"render", "--title", "Crash gone", id})

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "rendering")

	user, err := st.FindUserByGitHubLogin(context.Background(), app.LocalUser)
	require.NoError(t, err)
	video, err := st.GetVideo(context.Background(), user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, models.VideoStatusRendering, video.Status)
	assert.Equal(t, "Crash gone", video.Concept.Title)
}
