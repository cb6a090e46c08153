package models

import "time"

type DisputeEventType string

const (
	EventCreated            DisputeEventType = "CREATED"
	EventStatusUpdated      DisputeEventType = "STATUS_UPDATED"
	EventCommentAdded       DisputeEventType = "COMMENT_ADDED"
	EventAttachmentUploaded DisputeEventType = "ATTACHMENT_UPLOADED"
	EventClosed             DisputeEventType = "CLOSED"
)

// DisputeEvent is an append-only audit record of a lifecycle action on a
// dispute. Events are never mutated after the append.
type DisputeEvent struct {
	ID        string           `json:"id"`
	DisputeID string           `json:"dispute_id"`
	EventType DisputeEventType `json:"event_type"`
	Payload   map[string]any   `json:"payload"`
	CreatedAt time.Time        `json:"created_at"`
}
