// internal/aggregator/fixtures_test.go
package aggregator

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"submission-receipts/internal/events"
	"submission-receipts/internal/store"
)

var (
	testReceivedAt = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	testDeadline   = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	testCreatedAt  = time.Date(2026, 3, 10, 9, 30, 5, 0, time.UTC)
)

func testProducer() events.Producer {
	return events.Producer{
		Cluster:   "prod-east",
		Namespace: "benefits",
		AppName:   "intake-gateway",
	}
}

func strPtr(s string) *string { return &s }

// baseReceipt is the stored aggregate most handler tests start from: one open
// submission with one bundled attachment and one unfulfilled request.
func baseReceipt() *store.SubmissionReceipt {
	return &store.SubmissionReceipt{
		SubmissionID:         "sub-001",
		OwnerID:              "owner-001",
		Title:                "Parental benefit application",
		TopicCode:            "PAR",
		FormNumber:           "NAV 14-05.09",
		ReceivedAt:           testReceivedAt,
		ResubmissionDeadline: testDeadline,
		ReceivedAttachments: []store.ReceivedAttachment{
			{
				AttachmentID:     "att-bundled",
				SubmittedByOwner: true,
				IsFollowUp:       false,
				Title:            "Income statement",
				ReceivedAt:       testReceivedAt,
			},
		},
		RequestedAttachments: []store.RequestedAttachment{
			{
				AttachmentID:     "att-pending",
				SubmittedByOwner: true,
				Title:            "Employer confirmation",
				RequestedAt:      testReceivedAt,
				Fulfilled:        false,
			},
		},
		Producer: store.Producer{
			Cluster:   "prod-east",
			Namespace: "benefits",
			AppName:   "intake-gateway",
		},
		CreatedAt: testCreatedAt,
	}
}

// receiptRows builds the full column set the repository scans, in select order.
func receiptRows(t *testing.T, receipt *store.SubmissionReceipt) *sqlmock.Rows {
	t.Helper()

	receivedJSON, err := json.Marshal(receipt.ReceivedAttachments)
	require.NoError(t, err)
	requestedJSON, err := json.Marshal(receipt.RequestedAttachments)
	require.NoError(t, err)
	producerJSON, err := json.Marshal(receipt.Producer)
	require.NoError(t, err)

	appLink := sql.NullString{}
	if receipt.ApplicationLink != nil {
		appLink = sql.NullString{String: *receipt.ApplicationLink, Valid: true}
	}
	caseRef := sql.NullString{}
	if receipt.CaseReferenceID != nil {
		caseRef = sql.NullString{String: *receipt.CaseReferenceID, Valid: true}
	}
	completedAt := sql.NullTime{}
	if receipt.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *receipt.CompletedAt, Valid: true}
	}

	return sqlmock.NewRows([]string{
		"submission_id", "owner_id", "title", "topic_code", "form_number",
		"received_at", "resubmission_deadline", "application_link", "case_reference_id",
		"received_attachments", "requested_attachments", "producer", "created_at", "completed_at",
	}).AddRow(
		receipt.SubmissionID,
		receipt.OwnerID,
		receipt.Title,
		receipt.TopicCode,
		receipt.FormNumber,
		receipt.ReceivedAt,
		receipt.ResubmissionDeadline,
		appLink,
		caseRef,
		receivedJSON,
		requestedJSON,
		producerJSON,
		receipt.CreatedAt,
		completedAt,
	)
}

func expectGetReceipt(mock sqlmock.Sqlmock, t *testing.T, submissionID string, receipt *store.SubmissionReceipt) {
	t.Helper()
	query := mock.ExpectQuery(`FROM submission_receipts`).WithArgs(submissionID)
	if receipt == nil {
		query.WillReturnError(sql.ErrNoRows)
		return
	}
	query.WillReturnRows(receiptRows(t, receipt))
}

// receivedListArg matches the jsonb received-list argument of a replace
// statement against a predicate, so tests can assert on the persisted list.
func receivedListArg(check func([]store.ReceivedAttachment) bool) sqlmock.Argument {
	return jsonArgMatcher{check: func(raw []byte) bool {
		var list []store.ReceivedAttachment
		if err := json.Unmarshal(raw, &list); err != nil {
			return false
		}
		return check(list)
	}}
}

// requestedListArg is the requested-list counterpart of receivedListArg.
func requestedListArg(check func([]store.RequestedAttachment) bool) sqlmock.Argument {
	return jsonArgMatcher{check: func(raw []byte) bool {
		var list []store.RequestedAttachment
		if err := json.Unmarshal(raw, &list); err != nil {
			return false
		}
		return check(list)
	}}
}

type jsonArgMatcher struct {
	check func(raw []byte) bool
}

func (m jsonArgMatcher) Match(v driver.Value) bool {
	raw, ok := v.([]byte)
	if !ok {
		if s, isString := v.(string); isString {
			raw = []byte(s)
		} else {
			return false
		}
	}
	return m.check(raw)
}
