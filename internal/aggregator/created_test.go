// internal/aggregator/created_test.go
package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	commonerrors "submission-receipts/internal/common/errors"
	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/events"
	"submission-receipts/internal/store"
)

func createdEvent() events.SubmissionCreated {
	return events.SubmissionCreated{
		SubmissionID:         "sub-001",
		OwnerID:              "owner-001",
		Title:                "Parental benefit application",
		TopicCode:            "PAR",
		FormNumber:           "NAV 14-05.09",
		ReceivedAt:           testReceivedAt,
		ResubmissionDeadline: events.Date{Time: testDeadline},
		ReceivedAttachments: []events.CreatedReceivedAttachment{
			{AttachmentID: "att-bundled", Title: "Income statement"},
		},
		RequestedAttachments: []events.CreatedRequestedAttachment{
			{AttachmentID: "att-pending", SubmittedByOwner: true, Title: "Employer confirmation"},
		},
		Producer: testProducer(),
	}
}

func TestCreatedHandler_NewSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO submission_receipts`).
		WithArgs(
			"sub-001",
			"owner-001",
			"Parental benefit application",
			"PAR",
			"NAV 14-05.09",
			testReceivedAt,
			testDeadline,
			nil,
			nil,
			receivedListArg(func(list []store.ReceivedAttachment) bool {
				return len(list) == 1 &&
					list[0].AttachmentID == "att-bundled" &&
					!list[0].IsFollowUp &&
					list[0].SubmittedByOwner &&
					list[0].ReceivedAt.Equal(testReceivedAt)
			}),
			requestedListArg(func(list []store.RequestedAttachment) bool {
				return len(list) == 1 &&
					list[0].AttachmentID == "att-pending" &&
					!list[0].Fulfilled &&
					list[0].RequestedAt.Equal(testReceivedAt)
			}),
			sqlmock.AnyArg(), // producer json
			sqlmock.AnyArg(), // created_at
			nil,              // completed_at
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewCreatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), createdEvent())

	assert.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatedHandler_DuplicateDelivery(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	// Conflict on the primary key leaves zero rows affected.
	mock.ExpectExec(`INSERT INTO submission_receipts`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	handler := NewCreatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), createdEvent())

	assert.False(t, changed)
	assert.Error(t, err)
	var stdErr *commonerrors.StandardError
	assert.True(t, errors.As(err, &stdErr))
	assert.Equal(t, commonerrors.ErrCodeDuplicateEvent, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatedHandler_InsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO submission_receipts`).
		WillReturnError(errors.New("connection refused"))

	handler := NewCreatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), createdEvent())

	assert.False(t, changed)
	assert.True(t, commonerrors.IsRetryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildReceipt_AttachmentDefaults(t *testing.T) {
	createdAt := time.Date(2026, 3, 10, 9, 30, 5, 0, time.UTC)

	receipt := buildReceipt(createdEvent(), createdAt)

	assert.Equal(t, "sub-001", receipt.SubmissionID)
	assert.Equal(t, createdAt, receipt.CreatedAt)
	assert.Nil(t, receipt.CompletedAt)

	// Bundled attachments carry the submission timestamp and are never
	// follow-ups.
	assert.Len(t, receipt.ReceivedAttachments, 1)
	assert.False(t, receipt.ReceivedAttachments[0].IsFollowUp)
	assert.True(t, receipt.ReceivedAttachments[0].SubmittedByOwner)
	assert.Equal(t, testReceivedAt, receipt.ReceivedAttachments[0].ReceivedAt)

	assert.Len(t, receipt.RequestedAttachments, 1)
	assert.False(t, receipt.RequestedAttachments[0].Fulfilled)
	assert.Equal(t, testReceivedAt, receipt.RequestedAttachments[0].RequestedAt)
}
