// internal/events/events.go
package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Type discriminates the closed set of event variants carried on the stream.
type Type string

const (
	TypeSubmissionCreated   Type = "submissionCreated"
	TypeSubmissionUpdated   Type = "submissionUpdated"
	TypeSubmissionCompleted Type = "submissionCompleted"
	TypeAttachmentRequested Type = "attachmentRequested"
	TypeAttachmentReceived  Type = "attachmentReceived"
	TypeAttachmentUpdated   Type = "attachmentUpdated"
)

// Event is a decoded, validated message from the delivery substrate. Every
// event targets exactly one submission.
type Event interface {
	EventType() Type
	// Key returns the submission id the event targets. Per-key ordering is the
	// delivery substrate's contract; the engine assumes a single writer per key.
	Key() string
	EventProducer() Producer
	// AuditPayload returns the event's substantive payload for the audit log,
	// with the envelope fields (event name, submission id, producer, metadata)
	// stripped. Nil for events that carry no payload.
	AuditPayload() (json.RawMessage, error)
}

// Producer identifies the upstream application that emitted the event.
type Producer struct {
	Cluster   string `json:"cluster"`
	Namespace string `json:"namespace"`
	AppName   string `json:"appName"`
}

// Date handles the date-only wire format of resubmissionDeadline.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

// CreatedReceivedAttachment is an attachment bundled with the submission at
// creation time.
type CreatedReceivedAttachment struct {
	AttachmentID string  `json:"attachmentId"`
	Title        string  `json:"title"`
	Link         *string `json:"link"`
}

// CreatedRequestedAttachment is an attachment requested as part of the
// creation event.
type CreatedRequestedAttachment struct {
	AttachmentID     string  `json:"attachmentId"`
	SubmittedByOwner bool    `json:"submittedByOwner"`
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	FollowUpLink     *string `json:"followUpLink"`
}

// SubmissionCreated starts the lifecycle of a submission receipt.
type SubmissionCreated struct {
	SubmissionID         string                       `json:"submissionId"`
	OwnerID              string                       `json:"ownerId"`
	Title                string                       `json:"title"`
	TopicCode            string                       `json:"topicCode"`
	FormNumber           string                       `json:"formNumber"`
	ReceivedAt           time.Time                    `json:"receivedAt"`
	ResubmissionDeadline Date                         `json:"resubmissionDeadline"`
	ApplicationLink      *string                      `json:"applicationLink"`
	CaseReferenceID      *string                      `json:"caseReferenceId"`
	ReceivedAttachments  []CreatedReceivedAttachment  `json:"receivedAttachments"`
	RequestedAttachments []CreatedRequestedAttachment `json:"requestedAttachments"`
	Producer             Producer                     `json:"producer"`
	Metadata             map[string]interface{}       `json:"metadata"`
}

func (e SubmissionCreated) EventType() Type         { return TypeSubmissionCreated }
func (e SubmissionCreated) Key() string             { return e.SubmissionID }
func (e SubmissionCreated) EventProducer() Producer { return e.Producer }

func (e SubmissionCreated) AuditPayload() (json.RawMessage, error) {
	return json.Marshal(struct {
		OwnerID              string                       `json:"ownerId"`
		Title                string                       `json:"title"`
		TopicCode            string                       `json:"topicCode"`
		FormNumber           string                       `json:"formNumber"`
		ReceivedAt           time.Time                    `json:"receivedAt"`
		ResubmissionDeadline Date                         `json:"resubmissionDeadline"`
		ApplicationLink      *string                      `json:"applicationLink"`
		CaseReferenceID      *string                      `json:"caseReferenceId"`
		ReceivedAttachments  []CreatedReceivedAttachment  `json:"receivedAttachments"`
		RequestedAttachments []CreatedRequestedAttachment `json:"requestedAttachments"`
	}{
		e.OwnerID, e.Title, e.TopicCode, e.FormNumber, e.ReceivedAt,
		e.ResubmissionDeadline, e.ApplicationLink, e.CaseReferenceID,
		e.ReceivedAttachments, e.RequestedAttachments,
	})
}

// SubmissionUpdated patches the mutable receipt fields. Nil fields preserve
// existing values.
type SubmissionUpdated struct {
	SubmissionID         string                 `json:"submissionId"`
	ResubmissionDeadline *Date                  `json:"resubmissionDeadline"`
	ApplicationLink      *string                `json:"applicationLink"`
	CaseReferenceID      *string                `json:"caseReferenceId"`
	Producer             Producer               `json:"producer"`
	Metadata             map[string]interface{} `json:"metadata"`
}

func (e SubmissionUpdated) EventType() Type         { return TypeSubmissionUpdated }
func (e SubmissionUpdated) Key() string             { return e.SubmissionID }
func (e SubmissionUpdated) EventProducer() Producer { return e.Producer }

// IsNoOp reports whether the event carries no actionable change at all.
func (e SubmissionUpdated) IsNoOp() bool {
	return e.ResubmissionDeadline == nil && e.ApplicationLink == nil && e.CaseReferenceID == nil
}

func (e SubmissionUpdated) AuditPayload() (json.RawMessage, error) {
	return json.Marshal(struct {
		ResubmissionDeadline *Date   `json:"resubmissionDeadline"`
		ApplicationLink      *string `json:"applicationLink"`
		CaseReferenceID      *string `json:"caseReferenceId"`
	}{e.ResubmissionDeadline, e.ApplicationLink, e.CaseReferenceID})
}

// SubmissionCompleted closes the submission. It carries no payload beyond the
// envelope.
type SubmissionCompleted struct {
	SubmissionID string                 `json:"submissionId"`
	Producer     Producer               `json:"producer"`
	Metadata     map[string]interface{} `json:"metadata"`
}

func (e SubmissionCompleted) EventType() Type         { return TypeSubmissionCompleted }
func (e SubmissionCompleted) Key() string             { return e.SubmissionID }
func (e SubmissionCompleted) EventProducer() Producer { return e.Producer }

func (e SubmissionCompleted) AuditPayload() (json.RawMessage, error) {
	return nil, nil
}

// AttachmentRequested asks the owner (or a third party) for a document.
type AttachmentRequested struct {
	SubmissionID     string                 `json:"submissionId"`
	AttachmentID     string                 `json:"attachmentId"`
	SubmittedByOwner bool                   `json:"submittedByOwner"`
	Title            string                 `json:"title"`
	FollowUpLink     *string                `json:"followUpLink"`
	Description      *string                `json:"description"`
	RequestedAt      time.Time              `json:"requestedAt"`
	Producer         Producer               `json:"producer"`
	Metadata         map[string]interface{} `json:"metadata"`
}

func (e AttachmentRequested) EventType() Type         { return TypeAttachmentRequested }
func (e AttachmentRequested) Key() string             { return e.SubmissionID }
func (e AttachmentRequested) EventProducer() Producer { return e.Producer }

func (e AttachmentRequested) AuditPayload() (json.RawMessage, error) {
	return json.Marshal(struct {
		AttachmentID     string    `json:"attachmentId"`
		SubmittedByOwner bool      `json:"submittedByOwner"`
		Title            string    `json:"title"`
		FollowUpLink     *string   `json:"followUpLink"`
		Description      *string   `json:"description"`
		RequestedAt      time.Time `json:"requestedAt"`
	}{e.AttachmentID, e.SubmittedByOwner, e.Title, e.FollowUpLink, e.Description, e.RequestedAt})
}

// AttachmentReceived records the arrival of a document after submission time.
type AttachmentReceived struct {
	SubmissionID     string                 `json:"submissionId"`
	AttachmentID     string                 `json:"attachmentId"`
	SubmittedByOwner bool                   `json:"submittedByOwner"`
	Title            string                 `json:"title"`
	Link             *string                `json:"link"`
	CaseReferenceID  *string                `json:"caseReferenceId"`
	ReceivedAt       time.Time              `json:"receivedAt"`
	Producer         Producer               `json:"producer"`
	Metadata         map[string]interface{} `json:"metadata"`
}

func (e AttachmentReceived) EventType() Type         { return TypeAttachmentReceived }
func (e AttachmentReceived) Key() string             { return e.SubmissionID }
func (e AttachmentReceived) EventProducer() Producer { return e.Producer }

func (e AttachmentReceived) AuditPayload() (json.RawMessage, error) {
	return json.Marshal(struct {
		AttachmentID     string    `json:"attachmentId"`
		SubmittedByOwner bool      `json:"submittedByOwner"`
		Title            string    `json:"title"`
		Link             *string   `json:"link"`
		CaseReferenceID  *string   `json:"caseReferenceId"`
		ReceivedAt       time.Time `json:"receivedAt"`
	}{e.AttachmentID, e.SubmittedByOwner, e.Title, e.Link, e.CaseReferenceID, e.ReceivedAt})
}

// AttachmentUpdated patches link fields on an already received attachment.
type AttachmentUpdated struct {
	SubmissionID    string                 `json:"submissionId"`
	AttachmentID    string                 `json:"attachmentId"`
	Link            *string                `json:"link"`
	CaseReferenceID *string                `json:"caseReferenceId"`
	Producer        Producer               `json:"producer"`
	Metadata        map[string]interface{} `json:"metadata"`
}

func (e AttachmentUpdated) EventType() Type         { return TypeAttachmentUpdated }
func (e AttachmentUpdated) Key() string             { return e.SubmissionID }
func (e AttachmentUpdated) EventProducer() Producer { return e.Producer }

// IsNoOp reports whether the event carries no actionable change at all.
func (e AttachmentUpdated) IsNoOp() bool {
	return e.Link == nil && e.CaseReferenceID == nil
}

func (e AttachmentUpdated) AuditPayload() (json.RawMessage, error) {
	return json.Marshal(struct {
		AttachmentID    string  `json:"attachmentId"`
		Link            *string `json:"link"`
		CaseReferenceID *string `json:"caseReferenceId"`
	}{e.AttachmentID, e.Link, e.CaseReferenceID})
}
