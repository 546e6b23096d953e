package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoConcept_UnmarshalJSON(t *testing.T) {
	t.Run("bug concept keeps only bug fields", func(t *testing.T) {
		raw := `{"theme":"bug","title":"Fix","voiceoverScript":"...","durationSeconds":15,
			"primaryColor":"#f00","bugDescription":"desc","beforeCode":"ignored"}`

		var c VideoConcept
		require.NoError(t, json.Unmarshal([]byte(raw), &c))

		assert.Equal(t, ThemeBug, c.Theme)
		assert.Equal(t, "Fix", c.Title)
		assert.Equal(t, 15.0, c.DurationSeconds)
		assert.Equal(t, BugDetails{BugDescription: "desc"}, c.Details)
	})

	t.Run("refactor speed accepts percent strings", func(t *testing.T) {
		raw := `{"theme":"Refactor","title":"Faster","speedImprovement":"40%","beforeCode":"a","afterCode":"b"}`

		var c VideoConcept
		require.NoError(t, json.Unmarshal([]byte(raw), &c))

		assert.Equal(t, ThemeRefactor, c.Theme)
		assert.Equal(t, RefactorDetails{BeforeCode: "a", AfterCode: "b", SpeedImprovement: 40}, c.Details)
	})

	t.Run("unknown theme has no details", func(t *testing.T) {
		var c VideoConcept
		require.NoError(t, json.Unmarshal([]byte(`{"theme":"docs","title":"Docs"}`), &c))

		assert.Equal(t, Theme("docs"), c.Theme)
		assert.Nil(t, c.Details)
	})

	t.Run("non numeric speed is an error", func(t *testing.T) {
		var c VideoConcept
		err := json.Unmarshal([]byte(`{"theme":"refactor","speedImprovement":"fast"}`), &c)
		assert.Error(t, err)
	})
}

func TestVideoConcept_MarshalJSON(t *testing.T) {
	c := VideoConcept{
		Theme:        ThemeFeature,
		Title:        "Dark mode",
		PrimaryColor: "#111",
		Details:      FeatureDetails{ScreenshotURL: "https://example.com/s.png"},
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "feature", fields["theme"])
	assert.Equal(t, "https://example.com/s.png", fields["screenshotUrl"])
	assert.NotContains(t, fields, "bugDescription")
	assert.NotContains(t, fields, "beforeCode")

	var back VideoConcept
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
}

func TestConceptEdit_Apply(t *testing.T) {
	title := "New title"
	bug := "edited"
	screenshot := "https://example.com/x.png"

	t.Run("applies common and matching theme fields", func(t *testing.T) {
		c := NewVideoConcept(ThemeBug)
		edited := ConceptEdit{Title: &title, BugDescription: &bug}.Apply(c)

		assert.Equal(t, ThemeBug, edited.Theme)
		assert.Equal(t, "New title", edited.Title)
		assert.Equal(t, BugDetails{BugDescription: "edited"}, edited.Details)
	})

	t.Run("ignores fields of other themes", func(t *testing.T) {
		c := NewVideoConcept(ThemeBug)
		edited := ConceptEdit{ScreenshotURL: &screenshot}.Apply(c)

		assert.Equal(t, BugDetails{}, edited.Details)
	})
}

func TestReferences(t *testing.T) {
	var ref GitHubReference = PullRequestReference{Owner: "octocat", Repo: "hello", Number: 7}
	assert.Equal(t, "octocat/hello", ref.FullName())
	assert.Equal(t, "octocat/hello#7", ref.(PullRequestReference).String())

	ref = RepositoryReference{Owner: "octocat", Repo: "hello"}
	assert.Equal(t, "octocat/hello", ref.FullName())
}
