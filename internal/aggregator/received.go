// internal/aggregator/received.go
package aggregator

import (
	"context"

	"submission-receipts/internal/common/errors"
	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/events"
	"submission-receipts/internal/store"
)

// ReceivedHandler records an attachment delivered after the original
// submission. If the attachment was formally requested, the request entry is
// marked fulfilled in the same write.
type ReceivedHandler struct {
	repo   *store.Repository
	logger logger.Logger
}

func NewReceivedHandler(repo *store.Repository, log logger.Logger) *ReceivedHandler {
	return &ReceivedHandler{
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"eventType": string(events.TypeAttachmentReceived)}),
	}
}

func (h *ReceivedHandler) Apply(ctx context.Context, ev events.AttachmentReceived) (bool, error) {
	receipt, err := h.repo.Get(ctx, ev.SubmissionID)
	if err != nil {
		return false, errors.NewStorageFailureError(err)
	}
	if receipt == nil {
		return false, errors.NewUnknownSubmissionError(ev.SubmissionID)
	}
	if receipt.HasReceivedAttachment(ev.AttachmentID) {
		return false, errors.NewDuplicateEventError("attachment already received: " + ev.AttachmentID)
	}

	// Anything arriving after creation is a follow-up, solicited or not.
	attachment := store.ReceivedAttachment{
		AttachmentID:     ev.AttachmentID,
		SubmittedByOwner: ev.SubmittedByOwner,
		IsFollowUp:       true,
		Title:            ev.Title,
		Link:             ev.Link,
		CaseReferenceID:  ev.CaseReferenceID,
		ReceivedAt:       ev.ReceivedAt,
	}
	received := append(receipt.ReceivedAttachments, attachment)

	if !receipt.HasRequestedAttachment(ev.AttachmentID) {
		if err := h.repo.ReplaceReceivedAttachments(ctx, ev.SubmissionID, received); err != nil {
			return false, errors.NewStorageFailureError(err)
		}
		h.logger.Info("Recorded unsolicited attachment", map[string]interface{}{
			"submissionId": ev.SubmissionID,
			"attachmentId": ev.AttachmentID,
		})
		return true, nil
	}

	requested := make([]store.RequestedAttachment, len(receipt.RequestedAttachments))
	copy(requested, receipt.RequestedAttachments)
	for i := range requested {
		if requested[i].AttachmentID == ev.AttachmentID {
			requested[i].Fulfilled = true
		}
	}

	if err := h.repo.ReplaceAllAttachments(ctx, ev.SubmissionID, received, requested); err != nil {
		return false, errors.NewStorageFailureError(err)
	}

	h.logger.Info("Recorded attachment and fulfilled request", map[string]interface{}{
		"submissionId": ev.SubmissionID,
		"attachmentId": ev.AttachmentID,
	})
	return true, nil
}
