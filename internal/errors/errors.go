package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeValidation    ErrorType = "VALIDATION"
	TypeAI            ErrorType = "AI"
	TypeVCS           ErrorType = "VCS"
	TypeStorage       ErrorType = "STORAGE"
	TypeAuth          ErrorType = "AUTH"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if reason, ok := e.Context["reason"].(string); ok && reason != "" {
			msg += fmt.Sprintf(" - %s", reason)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same kind of AppError (same type and message),
// so copies derived from a sentinel still match it with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Validation errors
var (
	ErrInvalidURL = NewAppError(TypeValidation, "invalid GitHub URL", nil).
			WithSuggestion("Use https://github.com/owner/repo or https://github.com/owner/repo/pull/123")

	ErrInvalidRepoURL = NewAppError(TypeValidation, "invalid GitHub repo URL", nil).
				WithSuggestion("Format: https://github.com/owner/repo")

	ErrMissingFields = NewAppError(TypeValidation, "missing required fields", nil)

	ErrInvalidPayload = NewAppError(TypeValidation, "invalid request payload", nil)
)

// Configuration errors
var (
	ErrConfigMissing = NewAppError(TypeConfiguration, "configuration is missing", nil).
				WithSuggestion("Initialize configuration: motioner config init")

	ErrInvalidConfig = NewAppError(TypeConfiguration, "configuration is not valid", nil)
)

// VCS errors
var (
	ErrFetchFailure = NewAppError(TypeVCS, "failed to fetch data from GitHub", nil).
			WithSuggestion("Check your network connection and that the repository is public or your token can read it")

	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found", nil).
				WithSuggestion("Check repository URL and access permissions")

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens\nThen set GITHUB_TOKEN")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or set GITHUB_TOKEN for higher limits")

	ErrInvalidSignature = NewAppError(TypeAuth, "webhook signature mismatch", nil).
				WithSuggestion("Make sure GITHUB_WEBHOOK_SECRET matches the secret configured on the webhook")
)

// AI errors
var (
	ErrProviderUnavailable = NewAppError(TypeAI, "no AI provider configured", nil).
				WithSuggestion("Set OPENROUTER_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY")

	ErrMalformedResponse = NewAppError(TypeAI, "failed to analyze PR", nil).
				WithSuggestion("This is likely a temporary issue, please try again")

	ErrAIGeneration = NewAppError(TypeAI, "AI generation failed", nil).
			WithSuggestion("Try again or check your API key configuration")

	ErrAPIKeyInvalid = NewAppError(TypeAI, "AI provider rejected the API key", nil).
				WithSuggestion("Check the API key of the selected provider")

	ErrQuotaExceeded = NewAppError(TypeAI, "AI quota exceeded or rate limited", nil).
				WithSuggestion("Wait a few minutes and try again, or check your API quota")
)

// Storage errors
var (
	ErrStorage = NewAppError(TypeStorage, "storage operation failed", nil)

	ErrVideoNotFound = NewAppError(TypeStorage, "video not found", nil)

	ErrUserNotFound = NewAppError(TypeStorage, "user not found for GitHub username", nil)
)

// Auth errors
var (
	ErrUnauthorized = NewAppError(TypeAuth, "unauthorized", nil).
			WithSuggestion("Send a GitHub token as: Authorization: Bearer <token>")
)

var (
	ErrNoComposition = NewAppError(TypeInternal, "no composition for this theme", nil)
)
