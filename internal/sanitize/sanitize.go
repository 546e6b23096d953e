// Package sanitize detects and redacts obvious secrets in diff and readme text
// before it is sent to a model provider or stored.
//
// Detection is a fixed set of heuristics. Secrets that do not look like an
// assignment of a long alphanumeric value, or private hosts outside the
// .internal and .local suffixes, are not found.
package sanitize

import (
	"regexp"

	"github.com/thomas-vilte/motioner/internal/regex"
)

const (
	// RedactedValue replaces the value of a credential assignment.
	RedactedValue = `"***REDACTED***"`
	// RedactedURL replaces a URL pointing at a private host.
	RedactedURL = "https://***REDACTED***"
)

var sensitivePatterns = []*regexp.Regexp{
	regex.APIKeyAssignment,
	regex.SecretAssignment,
	regex.PasswordAssignment,
	regex.TokenAssignment,
	regex.InternalHostURL,
	regex.LocalHostURL,
}

// HasSensitiveInfo reports whether text contains anything that looks like a
// credential assignment or a private host URL.
func HasSensitiveInfo(text string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Sanitize redacts private URLs, then credential values. The label of a credential
// assignment is kept as written. Sanitize(Sanitize(x)) == Sanitize(x).
//
// URLs go first: the URL marker can grow an adjacent alphanumeric run (http becomes
// https), and the credential passes must see that run at its final length.
func Sanitize(text string) string {
	text = regex.PrivateURLRedaction.ReplaceAllString(text, RedactedURL)
	text = regex.CredentialRedaction.ReplaceAllString(text, "${1}: "+RedactedValue)
	return regex.PasswordRedaction.ReplaceAllString(text, "${1}: "+RedactedValue)
}

// Clean sanitizes text only when HasSensitiveInfo reports a match, and says whether it did.
func Clean(text string) (string, bool) {
	if !HasSensitiveInfo(text) {
		return text, false
	}
	return Sanitize(text), true
}
