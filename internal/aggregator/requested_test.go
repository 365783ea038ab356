// internal/aggregator/requested_test.go
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

func requestedEvent(attachmentID string) events.AttachmentRequested {
	return events.AttachmentRequested{
		SubmissionID:     "sub-001",
		AttachmentID:     attachmentID,
		SubmittedByOwner: true,
		Title:            "Rental contract",
		RequestedAt:      time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
		Producer:         testProducer(),
	}
}

func TestRequestedHandler_NewRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	expectGetReceipt(mock, t, "sub-001", baseReceipt())
	mock.ExpectExec(`UPDATE submission_receipts SET requested_attachments`).
		WithArgs("sub-001", requestedListArg(func(list []store.RequestedAttachment) bool {
			return len(list) == 2 &&
				list[1].AttachmentID == "att-contract" &&
				!list[1].Fulfilled
		})).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewRequestedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), requestedEvent("att-contract"))

	assert.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestedHandler_RequestAfterReceipt(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	// The attachment already sits in the received list, so the request is
	// born fulfilled.
	expectGetReceipt(mock, t, "sub-001", baseReceipt())
	mock.ExpectExec(`UPDATE submission_receipts SET requested_attachments`).
		WithArgs("sub-001", requestedListArg(func(list []store.RequestedAttachment) bool {
			return len(list) == 2 &&
				list[1].AttachmentID == "att-bundled" &&
				list[1].Fulfilled
		})).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewRequestedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), requestedEvent("att-bundled"))

	assert.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestedHandler_DuplicateRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	expectGetReceipt(mock, t, "sub-001", baseReceipt())

	handler := NewRequestedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), requestedEvent("att-pending"))

	assert.False(t, changed)
	var stdErr *commonerrors.StandardError
	assert.True(t, errors.As(err, &stdErr))
	assert.Equal(t, commonerrors.ErrCodeDuplicateEvent, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestedHandler_UnknownSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	expectGetReceipt(mock, t, "sub-001", nil)

	handler := NewRequestedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), requestedEvent("att-contract"))

	assert.False(t, changed)
	var stdErr *commonerrors.StandardError
	assert.True(t, errors.As(err, &stdErr))
	assert.Equal(t, commonerrors.ErrCodeUnknownSubmission, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestedHandler_ReplaceError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	expectGetReceipt(mock, t, "sub-001", baseReceipt())
	mock.ExpectExec(`UPDATE submission_receipts SET requested_attachments`).
		WillReturnError(errors.New("connection reset"))

	handler := NewRequestedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), requestedEvent("att-contract"))

	assert.False(t, changed)
	assert.True(t, commonerrors.IsRetryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
