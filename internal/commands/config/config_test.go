package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/motioner/internal/config"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/i18n"
)

func translations(t *testing.T) *i18n.Translations {
	t.Helper()
	tr, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return tr
}

func TestInitCommand(t *testing.T) {
	color.NoColor = true

	t.Run("writes defaults", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "nested", "config.json")
		var out bytes.Buffer
		factory := &ConfigCommandFactory{out: &out}
		cmd := factory.CreateCommand(translations(t), &config.Config{PathFile: path})

		// Act
		err := cmd.Run(context.Background(), []string{"config", "init"})

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out.String(), path)
		loaded, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, config.DriverSQLite, loaded.Database.Driver)
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"language":"es"}`), 0o600))
		factory := &ConfigCommandFactory{out: &bytes.Buffer{}}
		cmd := factory.CreateCommand(translations(t), &config.Config{})

		err := cmd.Run(context.Background(), []string{"config", "init", "--path", path})

		assert.ErrorIs(t, err, domainErrors.ErrInvalidConfig)
		data, _ := os.ReadFile(path)
		assert.JSONEq(t, `{"language":"es"}`, string(data))
	})

	t.Run("force overwrites", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"language":"es"}`), 0o600))
		factory := &ConfigCommandFactory{out: &bytes.Buffer{}}
		cmd := factory.CreateCommand(translations(t), &config.Config{})

		err := cmd.Run(context.Background(), []string{"config", "init", "--force", "--path", path})

		require.NoError(t, err)
		loaded, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, config.LangEN, loaded.Language)
	})
}

func TestShowCommand(t *testing.T) {
	color.NoColor = true

	// Arrange
	var out bytes.Buffer
	factory := &ConfigCommandFactory{out: &out}
	cfg := &config.Config{
		Language:  config.LangEN,
		LogFormat: config.LogFormatJSON,
		GitHub:    config.GitHubConfig{Token: "ghp_secret_value"},
		AIProviders: map[string]config.AIProviderConfig{
			config.ProviderAnthropic: {APIKey: "sk-ant-secret", Model: "claude-3-5-sonnet-20241022"},
		},
		Database: config.DatabaseConfig{Driver: config.DriverPostgres, DSN: "postgres://u:p@db/motioner"},
	}
	cmd := factory.CreateCommand(translations(t), cfg)

	// Act
	err := cmd.Run(context.Background(), []string{"config", "show"})

	// Assert
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "postgres")
	assert.Contains(t, text, "ai_providers.anthropic")
	assert.Contains(t, text, "claude-3-5-sonnet-20241022")
	assert.NotContains(t, text, "ghp_secret_value")
	assert.NotContains(t, text, "sk-ant-secret")
	assert.NotContains(t, text, "u:p@db")
}
