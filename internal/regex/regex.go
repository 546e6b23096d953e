package regex

import "regexp"

var (
	// GitHub URL shapes. The PR shape must be tried first; a path segment stops at
	// '/', '?', '#' or whitespace.
	GitHubPullRequestURL = regexp.MustCompile(`(?i)github\.com/([^/?#\s]+)/([^/?#\s]+)/pull/(\d+)(?:[/?#]|$)`)
	GitHubRepositoryURL  = regexp.MustCompile(`(?i)github\.com/([^/?#\s]+)/([^/?#\s]+)(?:[/?#]|$)`)

	// Secret detection
	APIKeyAssignment   = regexp.MustCompile(`(?i)api[_-]?key\s*[:=]\s*['"]?[a-zA-Z0-9]{20,}`)
	SecretAssignment   = regexp.MustCompile(`(?i)secret\s*[:=]\s*['"]?[a-zA-Z0-9]{20,}`)
	PasswordAssignment = regexp.MustCompile(`(?i)password\s*[:=]\s*['"]?[a-zA-Z0-9]{8,}`)
	TokenAssignment    = regexp.MustCompile(`(?i)token\s*[:=]\s*['"]?[a-zA-Z0-9]{20,}`)
	InternalHostURL    = regexp.MustCompile(`(?i)https?://[a-zA-Z0-9.-]+\.internal`)
	LocalHostURL       = regexp.MustCompile(`(?i)https?://[a-zA-Z0-9.-]+\.local`)

	// Secret redaction. Group 1 is the label, kept as written.
	CredentialRedaction = regexp.MustCompile(`(?i)(api[_-]?key|secret|token)\s*[:=]\s*['"]?[a-zA-Z0-9]{20,}['"]?`)
	PasswordRedaction   = regexp.MustCompile(`(?i)(password)\s*[:=]\s*['"]?[a-zA-Z0-9]{8,}['"]?`)
	PrivateURLRedaction = regexp.MustCompile(`(?i)https?://[a-zA-Z0-9.-]+\.(?:internal|local)`)

	// AI response parsing
	MarkdownJSONBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n?```")
)
