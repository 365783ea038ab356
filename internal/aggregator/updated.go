// internal/aggregator/updated.go
package aggregator

import (
	"context"
	"time"

	"submission-receipts/internal/common/errors"
	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/events"
	"submission-receipts/internal/store"
)

// UpdatedHandler patches the three mutable receipt fields. A null field on the
// wire preserves the stored value.
type UpdatedHandler struct {
	repo   *store.Repository
	logger logger.Logger
}

func NewUpdatedHandler(repo *store.Repository, log logger.Logger) *UpdatedHandler {
	return &UpdatedHandler{
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"eventType": string(events.TypeSubmissionUpdated)}),
	}
}

func (h *UpdatedHandler) Apply(ctx context.Context, ev events.SubmissionUpdated) (bool, error) {
	if ev.IsNoOp() {
		return false, errors.NewNoOpEventError("submissionId: " + ev.SubmissionID)
	}

	var deadline *time.Time
	if ev.ResubmissionDeadline != nil {
		deadline = &ev.ResubmissionDeadline.Time
	}

	updated, err := h.repo.Update(ctx, ev.SubmissionID, deadline, ev.ApplicationLink, ev.CaseReferenceID)
	if err != nil {
		return false, errors.NewStorageFailureError(err)
	}
	if !updated {
		return false, errors.NewUnknownSubmissionError(ev.SubmissionID)
	}

	h.logger.Info("Updated submission receipt", map[string]interface{}{
		"submissionId": ev.SubmissionID,
	})
	return true, nil
}
