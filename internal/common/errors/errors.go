// Package errors provides standardized error classification for event processing.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDuplicateEvent    ErrorCode = "DUPLICATE_EVENT"
	ErrCodeUnknownSubmission ErrorCode = "UNKNOWN_SUBMISSION"
	ErrCodeUnknownAttachment ErrorCode = "UNKNOWN_ATTACHMENT"
	ErrCodeNoOpEvent         ErrorCode = "NO_OP_EVENT"
	ErrCodeUnknownEventType  ErrorCode = "UNKNOWN_EVENT_TYPE"
	ErrCodeInvalidPayload    ErrorCode = "INVALID_PAYLOAD"
	ErrCodeStorageFailure    ErrorCode = "STORAGE_FAILURE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewDuplicateEventError marks a replayed event. Absorbed, never retried.
func NewDuplicateEventError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateEvent,
		Message:   "Event has already been applied",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownSubmissionError marks an event targeting a submission with no row.
func NewUnknownSubmissionError(submissionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownSubmission,
		Message:   "No receipt exists for submission",
		Details:   fmt.Sprintf("submissionId: %s", submissionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownAttachmentError marks an attachment event targeting an id that is
// not present where the operation requires it.
func NewUnknownAttachmentError(submissionID, attachmentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownAttachment,
		Message:   "No matching attachment on receipt",
		Details:   fmt.Sprintf("submissionId: %s, attachmentId: %s", submissionID, attachmentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoOpEventError marks an event carrying no actionable field changes.
func NewNoOpEventError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoOpEvent,
		Message:   "Event carries no actionable changes",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFailureError creates a retryable storage error.
func NewStorageFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailure,
		Message:   "Storage operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPayloadError creates a non-retryable decode/validation error.
func NewInvalidPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPayload,
		Message:   "Event payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether the delivery substrate should redeliver after this error.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}
