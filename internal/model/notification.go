package model

import "time"

// Notification types stored in notifications.type.  The set is fixed and
// tied to the request/reservation transitions that produce fan-out.
const (
	NotifRequestCreated      = "REQUEST_CREATED"
	NotifRequestApproved     = "REQUEST_APPROVED"
	NotifRequestRejected     = "REQUEST_REJECTED"
	NotifRequestRescheduled  = "REQUEST_RESCHEDULED"
	NotifReservationCreated  = "RESERVATION_CREATED"
	NotifReservationApproved = "RESERVATION_APPROVED"
	NotifReservationRejected = "RESERVATION_REJECTED"
)

// Source kinds stored in notifications.source_kind.  Together with
// SourceID they form a typed back-reference to the record that caused
// the notification.
const (
	SourceMeetingRequest = "MEETING_REQUEST"
	SourceReservation    = "RESERVATION"
)

// NotificationSource identifies the record a notification refers to.
type NotificationSource struct {
	Kind string `json:"kind"`
	ID   uint64 `json:"id"`
}

// Notification is a single per-recipient message row.  Rows are created
// only by the fan-out service, owned by their recipient and mutated only
// by marking them read.
//
// Fields:
//  ID          – primary key identifier.
//  RecipientID – user the notification belongs to.
//  Type        – one of the Notif* constants.
//  Message     – rendered message text.
//  Source      – record that caused the notification.
//  IsRead      – whether the recipient has read it.
//  CreatedAt   – creation timestamp.
type Notification struct {
	ID          uint64             // notifications.id
	RecipientID uint64             // notifications.recipient_id
	Type        string             // notifications.type
	Message     string             // notifications.message
	Source      NotificationSource // notifications.source_kind + source_id
	IsRead      bool               // notifications.is_read
	CreatedAt   time.Time          // notifications.created_at
}
