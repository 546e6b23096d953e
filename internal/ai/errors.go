package ai

import (
	"net/http"

	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
)

// ClassifyStatus maps a provider HTTP status to an AppError.
func ClassifyStatus(provider string, status int, err error) *domainErrors.AppError {
	var appErr *domainErrors.AppError
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		appErr = domainErrors.ErrAPIKeyInvalid
	case http.StatusTooManyRequests:
		appErr = domainErrors.ErrQuotaExceeded
	default:
		appErr = domainErrors.ErrAIGeneration
	}
	appErr = appErr.WithError(err).WithContext("provider", provider)
	if status != 0 {
		appErr = appErr.WithContext("status_code", status)
	}
	return appErr
}
