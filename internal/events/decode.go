// internal/events/decode.go
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrUnknownEventType = errors.New("UNKNOWN_EVENT_TYPE")
	ErrInvalidPayload   = errors.New("INVALID_PAYLOAD")
)

var schemas = map[Type]*gojsonschema.Schema{}

func init() {
	for eventType, raw := range map[Type]string{
		TypeSubmissionCreated:   submissionCreatedSchema,
		TypeSubmissionUpdated:   submissionUpdatedSchema,
		TypeSubmissionCompleted: submissionCompletedSchema,
		TypeAttachmentRequested: attachmentRequestedSchema,
		TypeAttachmentReceived:  attachmentReceivedSchema,
		TypeAttachmentUpdated:   attachmentUpdatedSchema,
	} {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("invalid schema for %s: %v", eventType, err))
		}
		schemas[eventType] = schema
	}
}

type envelope struct {
	EventName string `json:"@event_name"`
}

// Decode parses a raw message into its tagged variant. The document is
// validated against the per-type schema before unmarshalling, so handlers only
// ever see events with all required fields present.
func Decode(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: not a json object: %v", ErrInvalidPayload, err)
	}

	eventType := Type(env.EventName)
	schema, ok := schemas[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, env.EventName)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, formatSchemaErrors(result))
	}

	switch eventType {
	case TypeSubmissionCreated:
		var ev SubmissionCreated
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return ev, nil
	case TypeSubmissionUpdated:
		var ev SubmissionUpdated
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return ev, nil
	case TypeSubmissionCompleted:
		var ev SubmissionCompleted
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return ev, nil
	case TypeAttachmentRequested:
		var ev AttachmentRequested
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return ev, nil
	case TypeAttachmentReceived:
		var ev AttachmentReceived
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return ev, nil
	case TypeAttachmentUpdated:
		var ev AttachmentUpdated
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return ev, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, env.EventName)
}

func formatSchemaErrors(result *gojsonschema.Result) string {
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return strings.Join(msgs, "; ")
}
