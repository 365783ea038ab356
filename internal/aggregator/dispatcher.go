// internal/aggregator/dispatcher.go
package aggregator

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"submission-receipts/internal/common/errors"
	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/common/metrics"
	"submission-receipts/internal/events"
	"submission-receipts/internal/history"
)

// Dispatcher decodes raw deliveries, routes them to the matching handler and
// appends an audit entry whenever the handler reports a state change.
//
// The returned error contract is the acknowledgement contract: nil means the
// delivery is consumed (applied, absorbed or dropped), non-nil means the
// substrate should redeliver it. Only storage failures are non-nil.
type Dispatcher struct {
	created           *CreatedHandler
	updated           *UpdatedHandler
	completed         *CompletedHandler
	requested         *RequestedHandler
	received          *ReceivedHandler
	attachmentUpdated *AttachmentUpdatedHandler
	appender          *history.Appender
	logger            logger.Logger
}

func NewDispatcher(
	created *CreatedHandler,
	updated *UpdatedHandler,
	completed *CompletedHandler,
	requested *RequestedHandler,
	received *ReceivedHandler,
	attachmentUpdated *AttachmentUpdatedHandler,
	appender *history.Appender,
	log logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		created:           created,
		updated:           updated,
		completed:         completed,
		requested:         requested,
		received:          received,
		attachmentUpdated: attachmentUpdated,
		appender:          appender,
		logger:            log,
	}
}

// Dispatch processes one raw delivery end to end.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) error {
	deliveryID := uuid.New().String()
	log := d.logger.WithFields(map[string]interface{}{"deliveryId": deliveryID})

	ev, err := events.Decode(raw)
	if err != nil {
		// Malformed or foreign messages are logged and consumed; redelivery
		// would fail the same way forever.
		if stderrors.Is(err, events.ErrUnknownEventType) {
			metrics.EventsDropped.WithLabelValues("unknown", "unknown_event_type").Inc()
			log.Debug("Skipping event of unknown type", map[string]interface{}{"error": err.Error()})
			return nil
		}
		metrics.EventsDropped.WithLabelValues("unknown", "invalid_payload").Inc()
		log.WithError(err).Warn("Discarding invalid event payload", nil)
		return nil
	}

	eventType := string(ev.EventType())
	log = log.WithFields(map[string]interface{}{
		"eventType":    eventType,
		"submissionId": ev.Key(),
	})

	start := time.Now()
	changed, err := d.apply(ctx, ev)
	metrics.EventDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.IsRetryable(err) {
			metrics.EventsFailed.WithLabelValues(eventType).Inc()
			log.WithError(err).Error("Event processing failed, awaiting redelivery", nil)
			return err
		}
		metrics.EventsDropped.WithLabelValues(eventType, dropReason(err)).Inc()
		log.WithError(err).Warn("Event absorbed without state change", nil)
		return nil
	}

	if changed {
		metrics.EventsApplied.WithLabelValues(eventType).Inc()
		d.appender.Append(ctx, ev)
	}
	return nil
}

func (d *Dispatcher) apply(ctx context.Context, ev events.Event) (bool, error) {
	switch e := ev.(type) {
	case events.SubmissionCreated:
		return d.created.Apply(ctx, e)
	case events.SubmissionUpdated:
		return d.updated.Apply(ctx, e)
	case events.SubmissionCompleted:
		return d.completed.Apply(ctx, e)
	case events.AttachmentRequested:
		return d.requested.Apply(ctx, e)
	case events.AttachmentReceived:
		return d.received.Apply(ctx, e)
	case events.AttachmentUpdated:
		return d.attachmentUpdated.Apply(ctx, e)
	}
	return false, errors.NewInvalidPayloadError("unhandled event variant")
}

func dropReason(err error) string {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		switch stdErr.Code {
		case errors.ErrCodeDuplicateEvent:
			return "duplicate"
		case errors.ErrCodeUnknownSubmission:
			return "unknown_submission"
		case errors.ErrCodeUnknownAttachment:
			return "unknown_attachment"
		case errors.ErrCodeNoOpEvent:
			return "no_op"
		}
	}
	return "other"
}
