// internal/api/dto.go
package api

import (
	"time"

	"submission-receipts/internal/store"
)

// ReceiptResponse is the owner-facing view of a receipt. Requested
// attachments that have been fulfilled are hidden; what remains is the
// owner's outstanding to-do list.
type ReceiptResponse struct {
	SubmissionID         string                       `json:"submissionId"`
	Title                string                       `json:"title"`
	TopicCode            string                       `json:"topicCode"`
	FormNumber           string                       `json:"formNumber"`
	ReceivedAt           time.Time                    `json:"receivedAt"`
	ResubmissionDeadline time.Time                    `json:"resubmissionDeadline"`
	ApplicationLink      *string                      `json:"applicationLink"`
	CaseReferenceID      *string                      `json:"caseReferenceId"`
	ReceivedAttachments  []ReceivedAttachmentResponse `json:"receivedAttachments"`
	PendingAttachments   []PendingAttachmentResponse  `json:"pendingAttachments"`
	CompletedAt          *time.Time                   `json:"completedAt"`
}

type ReceivedAttachmentResponse struct {
	AttachmentID     string    `json:"attachmentId"`
	SubmittedByOwner bool      `json:"submittedByOwner"`
	IsFollowUp       bool      `json:"isFollowUp"`
	Title            string    `json:"title"`
	Link             *string   `json:"link"`
	ReceivedAt       time.Time `json:"receivedAt"`
}

type PendingAttachmentResponse struct {
	AttachmentID     string    `json:"attachmentId"`
	SubmittedByOwner bool      `json:"submittedByOwner"`
	Title            string    `json:"title"`
	FollowUpLink     *string   `json:"followUpLink"`
	Description      *string   `json:"description"`
	RequestedAt      time.Time `json:"requestedAt"`
}

// ReceiptHeader is the list view: enough to render an inbox row without
// shipping the attachment lists.
type ReceiptHeader struct {
	SubmissionID string     `json:"submissionId"`
	Title        string     `json:"title"`
	TopicCode    string     `json:"topicCode"`
	FormNumber   string     `json:"formNumber"`
	ReceivedAt   time.Time  `json:"receivedAt"`
	CompletedAt  *time.Time `json:"completedAt"`
}

func toReceiptResponse(receipt *store.SubmissionReceipt) ReceiptResponse {
	received := make([]ReceivedAttachmentResponse, 0, len(receipt.ReceivedAttachments))
	for _, a := range receipt.ReceivedAttachments {
		received = append(received, ReceivedAttachmentResponse{
			AttachmentID:     a.AttachmentID,
			SubmittedByOwner: a.SubmittedByOwner,
			IsFollowUp:       a.IsFollowUp,
			Title:            a.Title,
			Link:             a.Link,
			ReceivedAt:       a.ReceivedAt,
		})
	}

	pending := make([]PendingAttachmentResponse, 0, len(receipt.RequestedAttachments))
	for _, a := range receipt.RequestedAttachments {
		if a.Fulfilled {
			continue
		}
		pending = append(pending, PendingAttachmentResponse{
			AttachmentID:     a.AttachmentID,
			SubmittedByOwner: a.SubmittedByOwner,
			Title:            a.Title,
			FollowUpLink:     a.FollowUpLink,
			Description:      a.Description,
			RequestedAt:      a.RequestedAt,
		})
	}

	return ReceiptResponse{
		SubmissionID:         receipt.SubmissionID,
		Title:                receipt.Title,
		TopicCode:            receipt.TopicCode,
		FormNumber:           receipt.FormNumber,
		ReceivedAt:           receipt.ReceivedAt,
		ResubmissionDeadline: receipt.ResubmissionDeadline,
		ApplicationLink:      receipt.ApplicationLink,
		CaseReferenceID:      receipt.CaseReferenceID,
		ReceivedAttachments:  received,
		PendingAttachments:   pending,
		CompletedAt:          receipt.CompletedAt,
	}
}

func toReceiptHeader(receipt *store.SubmissionReceipt) ReceiptHeader {
	return ReceiptHeader{
		SubmissionID: receipt.SubmissionID,
		Title:        receipt.Title,
		TopicCode:    receipt.TopicCode,
		FormNumber:   receipt.FormNumber,
		ReceivedAt:   receipt.ReceivedAt,
		CompletedAt:  receipt.CompletedAt,
	}
}
