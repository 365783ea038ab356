// internal/store/repository.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const receiptColumns = `
	submission_id,
	owner_id,
	title,
	topic_code,
	form_number,
	received_at,
	resubmission_deadline,
	application_link,
	case_reference_id,
	received_attachments,
	requested_attachments,
	producer,
	created_at,
	completed_at`

// Repository persists SubmissionReceipt rows. All writes are single-row,
// single-statement; idempotent creation is enforced by the primary key, not by
// an application-level existence check.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new receipt. Returns false when a receipt with the same
// submission id already exists (duplicate delivery of the creation event).
func (r *Repository) Create(ctx context.Context, receipt *SubmissionReceipt) (bool, error) {
	receivedJSON, err := json.Marshal(receipt.ReceivedAttachments)
	if err != nil {
		return false, fmt.Errorf("marshal received attachments: %w", err)
	}
	requestedJSON, err := json.Marshal(receipt.RequestedAttachments)
	if err != nil {
		return false, fmt.Errorf("marshal requested attachments: %w", err)
	}
	producerJSON, err := json.Marshal(receipt.Producer)
	if err != nil {
		return false, fmt.Errorf("marshal producer: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO submission_receipts (
			submission_id, owner_id, title, topic_code, form_number,
			received_at, resubmission_deadline, application_link, case_reference_id,
			received_attachments, requested_attachments, producer, created_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (submission_id) DO NOTHING`,
		receipt.SubmissionID,
		receipt.OwnerID,
		receipt.Title,
		receipt.TopicCode,
		receipt.FormNumber,
		receipt.ReceivedAt,
		receipt.ResubmissionDeadline,
		receipt.ApplicationLink,
		receipt.CaseReferenceID,
		receivedJSON,
		requestedJSON,
		producerJSON,
		receipt.CreatedAt,
		receipt.CompletedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert receipt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert receipt: %w", err)
	}
	return rows > 0, nil
}

// Get returns the receipt for a submission id, or nil when none exists.
func (r *Repository) Get(ctx context.Context, submissionID string) (*SubmissionReceipt, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+receiptColumns+`
		FROM submission_receipts
		WHERE submission_id = $1`,
		submissionID,
	)

	receipt, err := scanReceipt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return receipt, nil
}

// ListForOwner returns every receipt belonging to an owner.
func (r *Repository) ListForOwner(ctx context.Context, ownerID string) ([]SubmissionReceipt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+receiptColumns+`
		FROM submission_receipts
		WHERE owner_id = $1`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []SubmissionReceipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("list receipts: %w", err)
		}
		receipts = append(receipts, *receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}

// Update applies coalesce-preserve semantics: a nil argument never erases an
// existing value. Returns false when no row matched the submission id.
func (r *Repository) Update(ctx context.Context, submissionID string, resubmissionDeadline *time.Time, applicationLink, caseReferenceID *string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE submission_receipts
		SET
			resubmission_deadline = COALESCE($2, resubmission_deadline),
			application_link = COALESCE($3, application_link),
			case_reference_id = COALESCE($4, case_reference_id)
		WHERE submission_id = $1`,
		submissionID,
		resubmissionDeadline,
		applicationLink,
		caseReferenceID,
	)
	if err != nil {
		return false, fmt.Errorf("update receipt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update receipt: %w", err)
	}
	return rows > 0, nil
}

// MarkCompleted sets the completion timestamp. Returns false when no row
// matched the submission id.
func (r *Repository) MarkCompleted(ctx context.Context, submissionID string, now time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE submission_receipts SET completed_at = $2 WHERE submission_id = $1`,
		submissionID,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("mark completed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark completed: %w", err)
	}
	return rows > 0, nil
}

// ReplaceReceivedAttachments replaces the received list in one statement.
func (r *Repository) ReplaceReceivedAttachments(ctx context.Context, submissionID string, received []ReceivedAttachment) error {
	receivedJSON, err := json.Marshal(received)
	if err != nil {
		return fmt.Errorf("marshal received attachments: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE submission_receipts SET received_attachments = $2 WHERE submission_id = $1`,
		submissionID,
		receivedJSON,
	)
	if err != nil {
		return fmt.Errorf("replace received attachments: %w", err)
	}
	return nil
}

// ReplaceRequestedAttachments replaces the requested list in one statement.
func (r *Repository) ReplaceRequestedAttachments(ctx context.Context, submissionID string, requested []RequestedAttachment) error {
	requestedJSON, err := json.Marshal(requested)
	if err != nil {
		return fmt.Errorf("marshal requested attachments: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE submission_receipts SET requested_attachments = $2 WHERE submission_id = $1`,
		submissionID,
		requestedJSON,
	)
	if err != nil {
		return fmt.Errorf("replace requested attachments: %w", err)
	}
	return nil
}

// ReplaceAllAttachments replaces both lists in a single statement so that a
// receipt that fulfills a request updates atomically relative to itself.
func (r *Repository) ReplaceAllAttachments(ctx context.Context, submissionID string, received []ReceivedAttachment, requested []RequestedAttachment) error {
	receivedJSON, err := json.Marshal(received)
	if err != nil {
		return fmt.Errorf("marshal received attachments: %w", err)
	}
	requestedJSON, err := json.Marshal(requested)
	if err != nil {
		return fmt.Errorf("marshal requested attachments: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE submission_receipts
		SET received_attachments = $2, requested_attachments = $3
		WHERE submission_id = $1`,
		submissionID,
		receivedJSON,
		requestedJSON,
	)
	if err != nil {
		return fmt.Errorf("replace attachments: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReceipt(row rowScanner) (*SubmissionReceipt, error) {
	var (
		receipt       SubmissionReceipt
		appLink       sql.NullString
		caseRef       sql.NullString
		receivedJSON  []byte
		requestedJSON []byte
		producerJSON  []byte
		completedAt   sql.NullTime
	)

	err := row.Scan(
		&receipt.SubmissionID,
		&receipt.OwnerID,
		&receipt.Title,
		&receipt.TopicCode,
		&receipt.FormNumber,
		&receipt.ReceivedAt,
		&receipt.ResubmissionDeadline,
		&appLink,
		&caseRef,
		&receivedJSON,
		&requestedJSON,
		&producerJSON,
		&receipt.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if appLink.Valid {
		receipt.ApplicationLink = &appLink.String
	}
	if caseRef.Valid {
		receipt.CaseReferenceID = &caseRef.String
	}
	if completedAt.Valid {
		receipt.CompletedAt = &completedAt.Time
	}

	if err := json.Unmarshal(receivedJSON, &receipt.ReceivedAttachments); err != nil {
		return nil, fmt.Errorf("unmarshal received attachments: %w", err)
	}
	if err := json.Unmarshal(requestedJSON, &receipt.RequestedAttachments); err != nil {
		return nil, fmt.Errorf("unmarshal requested attachments: %w", err)
	}
	if err := json.Unmarshal(producerJSON, &receipt.Producer); err != nil {
		return nil, fmt.Errorf("unmarshal producer: %w", err)
	}

	return &receipt, nil
}
