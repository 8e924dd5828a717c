// Package queue defines message payloads exchanged over the message
// broker and the background consumer that drains them.
package queue

// NotificationCreatedEvent is published whenever the fan-out service
// writes a notification row. It carries enough information for
// downstream consumers (delivery workers, audit logging) to act without
// querying the primary database. Delivery transports are out of scope
// here; the bundled consumer only logs.
type NotificationCreatedEvent struct {
	NotificationID uint64 `json:"notification_id"`
	RecipientID    uint64 `json:"recipient_id"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	SourceKind     string `json:"source_kind"`
	SourceID       uint64 `json:"source_id"`
	CreatedAt      string `json:"created_at"`
}
