// internal/aggregator/created.go
package aggregator

import (
	"context"
	"time"

	"submission-receipts/internal/common/errors"
	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/events"
	"submission-receipts/internal/store"
)

// CreatedHandler materializes a new receipt row from the creation event.
// Duplicate deliveries are detected at the storage layer, not by a
// read-then-write check.
type CreatedHandler struct {
	repo   *store.Repository
	logger logger.Logger
	now    func() time.Time
}

func NewCreatedHandler(repo *store.Repository, log logger.Logger) *CreatedHandler {
	return &CreatedHandler{
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"eventType": string(events.TypeSubmissionCreated)}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *CreatedHandler) Apply(ctx context.Context, ev events.SubmissionCreated) (bool, error) {
	receipt := buildReceipt(ev, h.now())

	created, err := h.repo.Create(ctx, receipt)
	if err != nil {
		return false, errors.NewStorageFailureError(err)
	}
	if !created {
		return false, errors.NewDuplicateEventError("submissionId: " + ev.SubmissionID)
	}

	h.logger.Info("Created submission receipt", map[string]interface{}{
		"submissionId":         ev.SubmissionID,
		"receivedAttachments":  len(ev.ReceivedAttachments),
		"requestedAttachments": len(ev.RequestedAttachments),
	})
	return true, nil
}

// buildReceipt maps the creation event onto a fresh aggregate. Attachments
// bundled with the creation are by definition not follow-ups, and requests
// start out unfulfilled.
func buildReceipt(ev events.SubmissionCreated, createdAt time.Time) *store.SubmissionReceipt {
	received := make([]store.ReceivedAttachment, 0, len(ev.ReceivedAttachments))
	for _, a := range ev.ReceivedAttachments {
		received = append(received, store.ReceivedAttachment{
			AttachmentID:     a.AttachmentID,
			SubmittedByOwner: true,
			IsFollowUp:       false,
			Title:            a.Title,
			Link:             a.Link,
			ReceivedAt:       ev.ReceivedAt,
		})
	}

	requested := make([]store.RequestedAttachment, 0, len(ev.RequestedAttachments))
	for _, a := range ev.RequestedAttachments {
		requested = append(requested, store.RequestedAttachment{
			AttachmentID:     a.AttachmentID,
			SubmittedByOwner: a.SubmittedByOwner,
			Title:            a.Title,
			FollowUpLink:     a.FollowUpLink,
			Description:      a.Description,
			RequestedAt:      ev.ReceivedAt,
			Fulfilled:        false,
		})
	}

	return &store.SubmissionReceipt{
		SubmissionID:         ev.SubmissionID,
		OwnerID:              ev.OwnerID,
		Title:                ev.Title,
		TopicCode:            ev.TopicCode,
		FormNumber:           ev.FormNumber,
		ReceivedAt:           ev.ReceivedAt,
		ResubmissionDeadline: ev.ResubmissionDeadline.Time,
		ApplicationLink:      ev.ApplicationLink,
		CaseReferenceID:      ev.CaseReferenceID,
		ReceivedAttachments:  received,
		RequestedAttachments: requested,
		Producer: store.Producer{
			Cluster:   ev.Producer.Cluster,
			Namespace: ev.Producer.Namespace,
			AppName:   ev.Producer.AppName,
		},
		CreatedAt: createdAt,
	}
}
