// internal/aggregator/completed.go
package aggregator

import (
	"context"
	"time"

	"submission-receipts/internal/common/errors"
	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/events"
	"submission-receipts/internal/store"
)

// CompletedHandler transitions an open receipt to its terminal state. The
// completion timestamp is taken from the processing clock, not from the event.
type CompletedHandler struct {
	repo   *store.Repository
	logger logger.Logger
	now    func() time.Time
}

func NewCompletedHandler(repo *store.Repository, log logger.Logger) *CompletedHandler {
	return &CompletedHandler{
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"eventType": string(events.TypeSubmissionCompleted)}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *CompletedHandler) Apply(ctx context.Context, ev events.SubmissionCompleted) (bool, error) {
	receipt, err := h.repo.Get(ctx, ev.SubmissionID)
	if err != nil {
		return false, errors.NewStorageFailureError(err)
	}
	if receipt == nil {
		return false, errors.NewUnknownSubmissionError(ev.SubmissionID)
	}
	if receipt.CompletedAt != nil {
		return false, errors.NewDuplicateEventError("submission already completed: " + ev.SubmissionID)
	}

	marked, err := h.repo.MarkCompleted(ctx, ev.SubmissionID, h.now())
	if err != nil {
		return false, errors.NewStorageFailureError(err)
	}
	if !marked {
		return false, errors.NewUnknownSubmissionError(ev.SubmissionID)
	}

	h.logger.Info("Completed submission receipt", map[string]interface{}{
		"submissionId": ev.SubmissionID,
	})
	return true, nil
}
