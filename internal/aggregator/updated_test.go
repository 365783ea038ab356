// internal/aggregator/updated_test.go
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

func TestUpdatedHandler_PartialUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	// Only the link is set; the other two columns fall back to their stored
	// values through COALESCE.
	mock.ExpectExec(`UPDATE submission_receipts`).
		WithArgs("sub-001", nil, "https://example.org/app/sub-001", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewUpdatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), events.SubmissionUpdated{
		SubmissionID:    "sub-001",
		ApplicationLink: strPtr("https://example.org/app/sub-001"),
		Producer:        testProducer(),
	})

	assert.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatedHandler_AllFieldsNullIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	handler := NewUpdatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), events.SubmissionUpdated{
		SubmissionID: "sub-001",
		Producer:     testProducer(),
	})

	assert.False(t, changed)
	var stdErr *commonerrors.StandardError
	assert.True(t, errors.As(err, &stdErr))
	assert.Equal(t, commonerrors.ErrCodeNoOpEvent, stdErr.Code)
	assert.False(t, stdErr.Retryable)

	// No statement reached the database at all.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatedHandler_UnknownSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE submission_receipts`).
		WithArgs("sub-missing", nil, "https://example.org/x", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	handler := NewUpdatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), events.SubmissionUpdated{
		SubmissionID:    "sub-missing",
		ApplicationLink: strPtr("https://example.org/x"),
		Producer:        testProducer(),
	})

	assert.False(t, changed)
	var stdErr *commonerrors.StandardError
	assert.True(t, errors.As(err, &stdErr))
	assert.Equal(t, commonerrors.ErrCodeUnknownSubmission, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatedHandler_StorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE submission_receipts`).
		WillReturnError(errors.New("connection reset"))

	handler := NewUpdatedHandler(store.NewRepository(db), logger.NewTestLogger(t))

	changed, err := handler.Apply(context.Background(), events.SubmissionUpdated{
		SubmissionID:    "sub-001",
		CaseReferenceID: strPtr("case-42"),
		Producer:        testProducer(),
	})

	assert.False(t, changed)
	assert.True(t, commonerrors.IsRetryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
