// internal/aggregator/attachment_updated_test.go
package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	commonerrors "submission-receipts/internal/common/errors"
	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/events"
	"submission-receipts/internal/store"
)

func TestAttachmentUpdatedHandler_PatchesLink(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	expectGetReceipt(mock, t, "sub-001", baseReceipt())
	mock.ExpectExec(`UPDATE submission_receipts SET received_attachments`).
		WithArgs("sub-001", receivedListArg(func(list []store.ReceivedAttachment) bool {
			return len(list) == 1 &&
				list[0].Link != nil && *list[0].Link == "https://docs.example.org/att-bundled" &&
				list[0].CaseReferenceID == nil
		})).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewAttachmentUpdatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), events.AttachmentUpdated{
		SubmissionID: "sub-001",
		AttachmentID: "att-bundled",
		Link:         strPtr("https://docs.example.org/att-bundled"),
		Producer:     testProducer(),
	})

	assert.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachmentUpdatedHandler_NullFieldsPreserved(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	receipt := baseReceipt()
	receipt.ReceivedAttachments[0].Link = strPtr("https://docs.example.org/original")

	// Only caseReferenceId is set; the stored link survives.
	expectGetReceipt(mock, t, "sub-001", receipt)
	mock.ExpectExec(`UPDATE submission_receipts SET received_attachments`).
		WithArgs("sub-001", receivedListArg(func(list []store.ReceivedAttachment) bool {
			return len(list) == 1 &&
				list[0].Link != nil && *list[0].Link == "https://docs.example.org/original" &&
				list[0].CaseReferenceID != nil && *list[0].CaseReferenceID == "case-42"
		})).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewAttachmentUpdatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), events.AttachmentUpdated{
		SubmissionID:    "sub-001",
		AttachmentID:    "att-bundled",
		CaseReferenceID: strPtr("case-42"),
		Producer:        testProducer(),
	})

	assert.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachmentUpdatedHandler_NoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	handler := NewAttachmentUpdatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), events.AttachmentUpdated{
		SubmissionID: "sub-001",
		AttachmentID: "att-bundled",
		Producer:     testProducer(),
	})

	assert.False(t, changed)
	var stdErr *commonerrors.StandardError
	assert.True(t, errors.As(err, &stdErr))
	assert.Equal(t, commonerrors.ErrCodeNoOpEvent, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachmentUpdatedHandler_RequestedOnlyAttachmentNotEligible(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	// att-pending exists in the requested list but has not been received,
	// so the update is dropped without touching the row.
	expectGetReceipt(mock, t, "sub-001", baseReceipt())

	handler := NewAttachmentUpdatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), events.AttachmentUpdated{
		SubmissionID: "sub-001",
		AttachmentID: "att-pending",
		Link:         strPtr("https://docs.example.org/att-pending"),
		Producer:     testProducer(),
	})

	assert.False(t, changed)
	var stdErr *commonerrors.StandardError
	assert.True(t, errors.As(err, &stdErr))
	assert.Equal(t, commonerrors.ErrCodeUnknownAttachment, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachmentUpdatedHandler_UnknownSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	expectGetReceipt(mock, t, "sub-001", nil)

	handler := NewAttachmentUpdatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), events.AttachmentUpdated{
		SubmissionID: "sub-001",
		AttachmentID: "att-bundled",
		Link:         strPtr("https://docs.example.org/att-bundled"),
		Producer:     testProducer(),
	})

	assert.False(t, changed)
	var stdErr *commonerrors.StandardError
	assert.True(t, errors.As(err, &stdErr))
	assert.Equal(t, commonerrors.ErrCodeUnknownSubmission, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
