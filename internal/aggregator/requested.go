// internal/aggregator/requested.go
package aggregator

import (
	"context"

	"submission-receipts/internal/common/errors"
	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/events"
	"submission-receipts/internal/store"
)

// RequestedHandler appends a formal attachment request to the receipt. When a
// matching receipt arrived before the request, the new entry is born fulfilled.
type RequestedHandler struct {
	repo   *store.Repository
	logger logger.Logger
}

func NewRequestedHandler(repo *store.Repository, log logger.Logger) *RequestedHandler {
	return &RequestedHandler{
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"eventType": string(events.TypeAttachmentRequested)}),
	}
}

func (h *RequestedHandler) Apply(ctx context.Context, ev events.AttachmentRequested) (bool, error) {
	receipt, err := h.repo.Get(ctx, ev.SubmissionID)
	if err != nil {
		return false, errors.NewStorageFailureError(err)
	}
	if receipt == nil {
		return false, errors.NewUnknownSubmissionError(ev.SubmissionID)
	}
	if receipt.HasRequestedAttachment(ev.AttachmentID) {
		return false, errors.NewDuplicateEventError("attachment already requested: " + ev.AttachmentID)
	}

	// An attachment received ahead of its request fulfills it on arrival.
	fulfilled := receipt.HasReceivedAttachment(ev.AttachmentID)

	requested := append(receipt.RequestedAttachments, store.RequestedAttachment{
		AttachmentID:     ev.AttachmentID,
		SubmittedByOwner: ev.SubmittedByOwner,
		Title:            ev.Title,
		FollowUpLink:     ev.FollowUpLink,
		Description:      ev.Description,
		RequestedAt:      ev.RequestedAt,
		Fulfilled:        fulfilled,
	})

	if err := h.repo.ReplaceRequestedAttachments(ctx, ev.SubmissionID, requested); err != nil {
		return false, errors.NewStorageFailureError(err)
	}

	h.logger.Info("Recorded attachment request", map[string]interface{}{
		"submissionId": ev.SubmissionID,
		"attachmentId": ev.AttachmentID,
		"fulfilled":    fulfilled,
	})
	return true, nil
}
