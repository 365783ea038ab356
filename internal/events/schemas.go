// internal/events/schemas.go
package events

// JSON schemas for the inbound event envelopes. Required fields mirror the
// producer contract; optional fields are validated by type only.

const submissionCreatedSchema = `{
	"type": "object",
	"required": [
		"@event_name", "submissionId", "ownerId", "title", "topicCode",
		"formNumber", "receivedAt", "resubmissionDeadline",
		"receivedAttachments", "requestedAttachments", "producer"
	],
	"properties": {
		"@event_name": {"type": "string"},
		"submissionId": {"type": "string", "minLength": 1},
		"ownerId": {"type": "string", "minLength": 1},
		"title": {"type": "string"},
		"topicCode": {"type": "string"},
		"formNumber": {"type": "string"},
		"receivedAt": {"type": "string", "format": "date-time"},
		"resubmissionDeadline": {"type": "string"},
		"applicationLink": {"type": ["string", "null"]},
		"caseReferenceId": {"type": ["string", "null"]},
		"receivedAttachments": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["attachmentId", "title"],
				"properties": {
					"attachmentId": {"type": "string", "minLength": 1},
					"title": {"type": "string"},
					"link": {"type": ["string", "null"]}
				}
			}
		},
		"requestedAttachments": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["attachmentId", "submittedByOwner", "title"],
				"properties": {
					"attachmentId": {"type": "string", "minLength": 1},
					"submittedByOwner": {"type": "boolean"},
					"title": {"type": "string"},
					"description": {"type": ["string", "null"]},
					"followUpLink": {"type": ["string", "null"]}
				}
			}
		},
		"producer": {"$ref": "#/definitions/producer"},
		"metadata": {"type": ["object", "null"]}
	},
	"definitions": {
		"producer": {
			"type": "object",
			"required": ["cluster", "namespace", "appName"],
			"properties": {
				"cluster": {"type": "string"},
				"namespace": {"type": "string"},
				"appName": {"type": "string"}
			}
		}
	}
}`

const submissionUpdatedSchema = `{
	"type": "object",
	"required": ["@event_name", "submissionId", "producer"],
	"properties": {
		"@event_name": {"type": "string"},
		"submissionId": {"type": "string", "minLength": 1},
		"resubmissionDeadline": {"type": ["string", "null"]},
		"applicationLink": {"type": ["string", "null"]},
		"caseReferenceId": {"type": ["string", "null"]},
		"producer": {"$ref": "#/definitions/producer"},
		"metadata": {"type": ["object", "null"]}
	},
	"definitions": {
		"producer": {
			"type": "object",
			"required": ["cluster", "namespace", "appName"],
			"properties": {
				"cluster": {"type": "string"},
				"namespace": {"type": "string"},
				"appName": {"type": "string"}
			}
		}
	}
}`

const submissionCompletedSchema = `{
	"type": "object",
	"required": ["@event_name", "submissionId", "producer"],
	"properties": {
		"@event_name": {"type": "string"},
		"submissionId": {"type": "string", "minLength": 1},
		"producer": {"$ref": "#/definitions/producer"},
		"metadata": {"type": ["object", "null"]}
	},
	"definitions": {
		"producer": {
			"type": "object",
			"required": ["cluster", "namespace", "appName"],
			"properties": {
				"cluster": {"type": "string"},
				"namespace": {"type": "string"},
				"appName": {"type": "string"}
			}
		}
	}
}`

const attachmentRequestedSchema = `{
	"type": "object",
	"required": ["@event_name", "submissionId", "attachmentId", "submittedByOwner", "title", "requestedAt", "producer"],
	"properties": {
		"@event_name": {"type": "string"},
		"submissionId": {"type": "string", "minLength": 1},
		"attachmentId": {"type": "string", "minLength": 1},
		"submittedByOwner": {"type": "boolean"},
		"title": {"type": "string"},
		"followUpLink": {"type": ["string", "null"]},
		"description": {"type": ["string", "null"]},
		"requestedAt": {"type": "string", "format": "date-time"},
		"producer": {"$ref": "#/definitions/producer"},
		"metadata": {"type": ["object", "null"]}
	},
	"definitions": {
		"producer": {
			"type": "object",
			"required": ["cluster", "namespace", "appName"],
			"properties": {
				"cluster": {"type": "string"},
				"namespace": {"type": "string"},
				"appName": {"type": "string"}
			}
		}
	}
}`

const attachmentReceivedSchema = `{
	"type": "object",
	"required": ["@event_name", "submissionId", "attachmentId", "submittedByOwner", "title", "receivedAt", "producer"],
	"properties": {
		"@event_name": {"type": "string"},
		"submissionId": {"type": "string", "minLength": 1},
		"attachmentId": {"type": "string", "minLength": 1},
		"submittedByOwner": {"type": "boolean"},
		"title": {"type": "string"},
		"link": {"type": ["string", "null"]},
		"caseReferenceId": {"type": ["string", "null"]},
		"receivedAt": {"type": "string", "format": "date-time"},
		"producer": {"$ref": "#/definitions/producer"},
		"metadata": {"type": ["object", "null"]}
	},
	"definitions": {
		"producer": {
			"type": "object",
			"required": ["cluster", "namespace", "appName"],
			"properties": {
				"cluster": {"type": "string"},
				"namespace": {"type": "string"},
				"appName": {"type": "string"}
			}
		}
	}
}`

const attachmentUpdatedSchema = `{
	"type": "object",
	"required": ["@event_name", "submissionId", "attachmentId", "producer"],
	"properties": {
		"@event_name": {"type": "string"},
		"submissionId": {"type": "string", "minLength": 1},
		"attachmentId": {"type": "string", "minLength": 1},
		"link": {"type": ["string", "null"]},
		"caseReferenceId": {"type": ["string", "null"]},
		"producer": {"$ref": "#/definitions/producer"},
		"metadata": {"type": ["object", "null"]}
	},
	"definitions": {
		"producer": {
			"type": "object",
			"required": ["cluster", "namespace", "appName"],
			"properties": {
				"cluster": {"type": "string"},
				"namespace": {"type": "string"},
				"appName": {"type": "string"}
			}
		}
	}
}`
