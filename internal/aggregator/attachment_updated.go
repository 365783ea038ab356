// internal/aggregator/attachment_updated.go
package aggregator

import (
	"context"

	"submission-receipts/internal/common/errors"
	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/events"
	"submission-receipts/internal/store"
)

// AttachmentUpdatedHandler patches fields on an already received attachment.
// Entries that exist only in the requested list are not eligible.
type AttachmentUpdatedHandler struct {
	repo   *store.Repository
	logger logger.Logger
}

func NewAttachmentUpdatedHandler(repo *store.Repository, log logger.Logger) *AttachmentUpdatedHandler {
	return &AttachmentUpdatedHandler{
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"eventType": string(events.TypeAttachmentUpdated)}),
	}
}

func (h *AttachmentUpdatedHandler) Apply(ctx context.Context, ev events.AttachmentUpdated) (bool, error) {
	if ev.IsNoOp() {
		return false, errors.NewNoOpEventError("attachmentId: " + ev.AttachmentID)
	}

	receipt, err := h.repo.Get(ctx, ev.SubmissionID)
	if err != nil {
		return false, errors.NewStorageFailureError(err)
	}
	if receipt == nil {
		return false, errors.NewUnknownSubmissionError(ev.SubmissionID)
	}

	received := make([]store.ReceivedAttachment, len(receipt.ReceivedAttachments))
	copy(received, receipt.ReceivedAttachments)

	found := false
	for i := range received {
		if received[i].AttachmentID != ev.AttachmentID {
			continue
		}
		found = true
		if ev.Link != nil {
			received[i].Link = ev.Link
		}
		if ev.CaseReferenceID != nil {
			received[i].CaseReferenceID = ev.CaseReferenceID
		}
	}
	if !found {
		return false, errors.NewUnknownAttachmentError(ev.SubmissionID, ev.AttachmentID)
	}

	if err := h.repo.ReplaceReceivedAttachments(ctx, ev.SubmissionID, received); err != nil {
		return false, errors.NewStorageFailureError(err)
	}

	h.logger.Info("Updated received attachment", map[string]interface{}{
		"submissionId": ev.SubmissionID,
		"attachmentId": ev.AttachmentID,
	})
	return true, nil
}
