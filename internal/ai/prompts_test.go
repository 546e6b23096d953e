package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/motioner/internal/models"
)

func TestBuildPRPrompts(t *testing.T) {
	t.Run("includes title description and truncated diff", func(t *testing.T) {
		// Arrange
		facts := models.PRFacts{
			Title:       "Add dark mode",
			Description: "Adds a theme toggle",
			Diff:        strings.Repeat("x", MaxDiffChars) + "TAIL",
		}

		// Act
		system, user, err := BuildPRPrompts(facts)

		// Assert
		require.NoError(t, err)
		assert.Contains(t, system, "creative director")
		assert.Contains(t, system, `"bugDescription"`)
		assert.True(t, strings.HasPrefix(user, "PR Title: Add dark mode\n\nPR Description:\nAdds a theme toggle\n\nDiff:\n"))
		assert.NotContains(t, user, "TAIL")
		assert.Equal(t, MaxDiffChars, strings.Count(user, "x"))
	})

	t.Run("template syntax in facts is not evaluated", func(t *testing.T) {
		_, user, err := BuildPRPrompts(models.PRFacts{Title: "{{.Diff}}", Diff: "x"})

		require.NoError(t, err)
		assert.Contains(t, user, "PR Title: {{.Diff}}")
	})
}

func TestBuildRepoPrompts(t *testing.T) {
	desc := "A friendly greeter"
	readme := "# hello\n" + strings.Repeat("r", MaxReadmeChars)

	system, user, err := BuildRepoPrompts(models.RepoFacts{
		FullName:    "octocat/hello",
		Description: &desc,
		Readme:      &readme,
		Languages:   []string{"Go", "Shell"},
		Topics:      []string{"cli"},
		Stars:       10,
		Forks:       2,
	})

	require.NoError(t, err)
	assert.Contains(t, system, `always "feature"`)
	assert.Contains(t, user, "Repository: octocat/hello\nDescription: A friendly greeter\nLanguages: Go, Shell\nTopics: cli\nStars: 10\nForks: 2\n\nREADME:\n# hello")
	assert.Less(t, len(user), len(readme)+200)
}

func TestBuildRepoPrompts_MinimalFacts(t *testing.T) {
	_, user, err := BuildRepoPrompts(models.RepoFacts{FullName: "octocat/empty"})

	require.NoError(t, err)
	assert.Equal(t, "Repository: octocat/empty\nLanguages: unknown\nStars: 0\nForks: 0", user)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "héé", Truncate("héééé", 3))
	assert.Equal(t, "", Truncate("", 3))
}
