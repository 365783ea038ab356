// internal/history/appender.go
package history

import (
	"context"
	"time"

	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/common/metrics"
	"submission-receipts/internal/events"
)

// Appender records audit entries for applied events. Append failures are
// logged and counted but never surfaced to the caller, so an audit outage
// cannot roll back an aggregate write.
type Appender struct {
	repo *Repository
	log  logger.Logger
	now  func() time.Time
}

func NewAppender(repo *Repository, log logger.Logger) *Appender {
	return &Appender{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Append writes one audit entry derived from the event.
func (a *Appender) Append(ctx context.Context, ev events.Event) {
	payload, err := ev.AuditPayload()
	if err != nil {
		metrics.AuditAppendFailures.Inc()
		a.log.WithError(err).Error("Failed to build audit payload", map[string]interface{}{
			"submission_id": ev.Key(),
			"event_type":    string(ev.EventType()),
		})
		return
	}

	entry := Entry{
		SubmissionID: ev.Key(),
		EventType:    ev.EventType(),
		Payload:      payload,
		Producer:     ev.EventProducer(),
		RecordedAt:   a.now(),
	}

	if err := a.repo.Append(ctx, entry); err != nil {
		metrics.AuditAppendFailures.Inc()
		a.log.WithError(err).Error("Failed to append audit entry", map[string]interface{}{
			"submission_id": ev.Key(),
			"event_type":    string(ev.EventType()),
		})
	}
}
