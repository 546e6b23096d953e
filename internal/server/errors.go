package server

import (
	"errors"
	"net/http"

	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
)

type errorBody struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

// statusFor maps a domain error to the HTTP status returned to API clients.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrVideoNotFound),
		errors.Is(err, domainErrors.ErrUserNotFound),
		errors.Is(err, domainErrors.ErrRepositoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrGitHubRateLimit),
		errors.Is(err, domainErrors.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domainErrors.ErrNoComposition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case domainErrors.TypeValidation:
		return http.StatusBadRequest
	case domainErrors.TypeAuth:
		return http.StatusUnauthorized
	case domainErrors.TypeConfiguration:
		return http.StatusServiceUnavailable
	case domainErrors.TypeVCS:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse never exposes wrapped errors; only the sentinel message and suggestion.
func errorResponse(err error) errorBody {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		return errorBody{Error: appErr.Message, Suggestion: appErr.Suggestion}
	}
	return errorBody{Error: "internal server error"}
}
