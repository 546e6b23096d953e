package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/thomas-vilte/motioner/internal/models"
)

const (
	// MaxDiffChars bounds the diff prefix sent to a model.
	MaxDiffChars = 4000
	// MaxReadmeChars bounds the README prefix sent to a model.
	MaxReadmeChars = 6000
)

const conceptSchema = `Return your analysis as JSON matching this structure:
{
  "theme": "feature" | "refactor" | "bug",
  "title": "string",
  "highlightCode": "string (optional)",
  "voiceoverScript": "string",
  "durationSeconds": 15,
  "primaryColor": "#hexcolor",
  "beforeCode": "string (for refactor)",
  "afterCode": "string (for refactor)",
  "speedImprovement": number (for refactor),
  "bugDescription": "string (for bug)",
  "screenshotUrl": "string (optional)"
}`

const prSystemPrompt = `You are a creative director for developer relations videos. Your job is to analyze GitHub PRs and create engaging 30-second video concepts.

Analyze the PR and determine:
1. Theme: "feature", "refactor", or "bug"
2. A catchy title (max 60 characters)
3. Key code snippets to highlight
4. A high-energy voiceover script (15-20 seconds when spoken)
5. Visual theme color (hex code)
6. For refactors: before/after code and speed improvement percentage
7. For bugs: bug description

` + conceptSchema

const repoSystemPrompt = `You are a creative director for developer relations videos. Your job is to introduce a GitHub repository in an engaging 30-second video.

Analyze the repository and determine:
1. Theme: always "feature"
2. A catchy title (max 60 characters) naming what the project does
3. A short code snippet or command that shows the project in use, if the README has one
4. A high-energy voiceover script (15-20 seconds when spoken)
5. Visual theme color (hex code), ideally matching the project's main language or brand

` + conceptSchema

const prUserTemplate = `PR Title: {{.Title}}

PR Description:
{{.Description}}

Diff:
{{.Diff}}`

const repoUserTemplate = `Repository: {{.FullName}}
{{- if .Description}}
Description: {{.Description}}
{{- end}}
Languages: {{if .Languages}}{{join .Languages ", "}}{{else}}unknown{{end}}
{{- if .Topics}}
Topics: {{join .Topics ", "}}
{{- end}}
Stars: {{.Stars}}
Forks: {{.Forks}}
{{- if .Readme}}

README:
{{.Readme}}
{{- end}}`

var promptFuncs = template.FuncMap{"join": strings.Join}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(promptFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

// BuildPRPrompts returns the system and user prompts for a pull request. The diff is
// cut to MaxDiffChars.
func BuildPRPrompts(facts models.PRFacts) (string, string, error) {
	data := models.PRFacts{
		Title:       facts.Title,
		Description: facts.Description,
		Diff:        Truncate(facts.Diff, MaxDiffChars),
	}
	user, err := RenderPrompt("prPrompt", prUserTemplate, data)
	if err != nil {
		return "", "", err
	}
	return prSystemPrompt, user, nil
}

type repoPromptData struct {
	FullName    string
	Description string
	Languages   []string
	Topics      []string
	Stars       int
	Forks       int
	Readme      string
}

// BuildRepoPrompts returns the system and user prompts for a repository overview. The
// README is cut to MaxReadmeChars.
func BuildRepoPrompts(facts models.RepoFacts) (string, string, error) {
	data := repoPromptData{
		FullName:  facts.FullName,
		Languages: facts.Languages,
		Topics:    facts.Topics,
		Stars:     facts.Stars,
		Forks:     facts.Forks,
	}
	if facts.Description != nil {
		data.Description = *facts.Description
	}
	if facts.Readme != nil {
		data.Readme = Truncate(*facts.Readme, MaxReadmeChars)
	}

	user, err := RenderPrompt("repoPrompt", repoUserTemplate, data)
	if err != nil {
		return "", "", err
	}
	return repoSystemPrompt, user, nil
}

// Truncate returns the first limit characters of s.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
