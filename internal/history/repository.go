// internal/history/repository.go
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"submission-receipts/internal/events"
)

// Entry is one append-only audit record. Entries are never updated or deleted.
type Entry struct {
	SubmissionID string
	EventType    events.Type
	Payload      json.RawMessage // nil for events without a payload
	Producer     events.Producer
	RecordedAt   time.Time
}

// Repository persists audit entries.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts a single audit entry.
func (r *Repository) Append(ctx context.Context, entry Entry) error {
	producerJSON, err := json.Marshal(entry.Producer)
	if err != nil {
		return fmt.Errorf("marshal producer: %w", err)
	}

	var payload interface{}
	if entry.Payload != nil {
		payload = []byte(entry.Payload)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO submission_event_history (
			submission_id, event_type, payload, producer, recorded_at
		) VALUES ($1, $2, $3, $4, $5)`,
		entry.SubmissionID,
		string(entry.EventType),
		payload,
		producerJSON,
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListForSubmission returns every audit entry for a submission, oldest first.
func (r *Repository) ListForSubmission(ctx context.Context, submissionID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT submission_id, event_type, payload, producer, recorded_at
		FROM submission_event_history
		WHERE submission_id = $1
		ORDER BY recorded_at`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListForSubmissionByType returns audit entries of one event type, oldest first.
func (r *Repository) ListForSubmissionByType(ctx context.Context, submissionID string, eventType events.Type) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT submission_id, event_type, payload, producer, recorded_at
		FROM submission_event_history
		WHERE submission_id = $1 AND event_type = $2
		ORDER BY recorded_at`,
		submissionID,
		string(eventType),
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			entry        Entry
			eventType    string
			payload      []byte
			producerJSON []byte
		)
		if err := rows.Scan(&entry.SubmissionID, &eventType, &payload, &producerJSON, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.EventType = events.Type(eventType)
		if payload != nil {
			entry.Payload = json.RawMessage(payload)
		}
		if err := json.Unmarshal(producerJSON, &entry.Producer); err != nil {
			return nil, fmt.Errorf("unmarshal producer: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
