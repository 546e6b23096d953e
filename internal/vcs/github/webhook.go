package github

import (
	"context"
	"net/http"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/models"
)

// MergedPullRequest is a pull_request webhook delivery whose PR was merged.
// The PR author's login, which selects the owning user, is in Author.
type MergedPullRequest struct {
	models.PullRequestData
}

// ParseWebhook validates and decodes a GitHub webhook delivery. It returns nil
// without error for deliveries that are not a closed and merged pull request.
// When secret is empty the signature is not checked.
func ParseWebhook(ctx context.Context, r *http.Request, secret string) (*MergedPullRequest, error) {
	log := logger.FromContext(ctx)

	payload, err := github.ValidatePayload(r, []byte(secret))
	if err != nil {
		log.Warn("rejected github webhook", "error", err)
		return nil, domainErrors.ErrInvalidSignature.WithError(err)
	}

	eventType := github.WebHookType(r)
	if eventType != "pull_request" {
		log.Debug("ignoring github webhook", "event", eventType)
		return nil, nil
	}

	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		return nil, domainErrors.ErrInvalidPayload.WithError(err)
	}

	prEvent, ok := event.(*github.PullRequestEvent)
	if !ok || prEvent.PullRequest == nil || prEvent.Repo == nil {
		return nil, domainErrors.ErrInvalidPayload.
			WithContext("reason", "pull_request event without pull request or repository")
	}

	pr := prEvent.PullRequest
	if prEvent.GetAction() != "closed" || !pr.GetMerged() {
		log.Debug("ignoring unmerged pull request event",
			"action", prEvent.GetAction(),
			"pr_number", pr.GetNumber())
		return nil, nil
	}

	repo := prEvent.Repo
	return &MergedPullRequest{
		PullRequestData: PullRequestData(repo.GetOwner().GetLogin(), repo.GetName(), pr),
	}, nil
}
