// internal/store/models.go
package store

import "time"

// SubmissionReceipt is the materialized aggregate, one row per submission.
// Attachment lists are stored as jsonb documents owned by the row; they are
// only ever replaced wholesale, never patched in place.
type SubmissionReceipt struct {
	SubmissionID         string                `json:"submissionId"`
	OwnerID              string                `json:"ownerId"`
	Title                string                `json:"title"`
	TopicCode            string                `json:"topicCode"`
	FormNumber           string                `json:"formNumber"`
	ReceivedAt           time.Time             `json:"receivedAt"`
	ResubmissionDeadline time.Time             `json:"resubmissionDeadline"`
	ApplicationLink      *string               `json:"applicationLink"`
	CaseReferenceID      *string               `json:"caseReferenceId"`
	ReceivedAttachments  []ReceivedAttachment  `json:"receivedAttachments"`
	RequestedAttachments []RequestedAttachment `json:"requestedAttachments"`
	Producer             Producer              `json:"producer"`
	CreatedAt            time.Time             `json:"createdAt"`
	CompletedAt          *time.Time            `json:"completedAt"`
}

// ReceivedAttachment is a document that has arrived, either bundled with the
// original submission (IsFollowUp=false) or as a later separate delivery.
type ReceivedAttachment struct {
	AttachmentID     string    `json:"attachmentId"`
	SubmittedByOwner bool      `json:"submittedByOwner"`
	IsFollowUp       bool      `json:"isFollowUp"`
	Title            string    `json:"title"`
	Link             *string   `json:"link"`
	CaseReferenceID  *string   `json:"caseReferenceId"`
	ReceivedAt       time.Time `json:"receivedAt"`
}

// RequestedAttachment is a document that has been formally asked for. Fulfilled
// flips to true once a matching receipt has been observed; the entry stays in
// the list either way.
type RequestedAttachment struct {
	AttachmentID     string    `json:"attachmentId"`
	SubmittedByOwner bool      `json:"submittedByOwner"`
	Title            string    `json:"title"`
	FollowUpLink     *string   `json:"followUpLink"`
	Description      *string   `json:"description"`
	RequestedAt      time.Time `json:"requestedAt"`
	Fulfilled        bool      `json:"fulfilled"`
}

// Producer identifies the upstream application that emitted an event.
type Producer struct {
	Cluster   string `json:"cluster"`
	Namespace string `json:"namespace"`
	AppName   string `json:"appName"`
}

// HasReceivedAttachment reports whether an attachment id is present in the
// received list.
func (r *SubmissionReceipt) HasReceivedAttachment(attachmentID string) bool {
	for _, a := range r.ReceivedAttachments {
		if a.AttachmentID == attachmentID {
			return true
		}
	}
	return false
}

// HasRequestedAttachment reports whether an attachment id is present in the
// requested list.
func (r *SubmissionReceipt) HasRequestedAttachment(attachmentID string) bool {
	for _, a := range r.RequestedAttachments {
		if a.AttachmentID == attachmentID {
			return true
		}
	}
	return false
}
