package model

import "time"

// Reservation statuses stored in reservations.status.  PENDING may move
// to APPROVED or REJECTED, APPROVED may move to CANCELLED; REJECTED and
// CANCELLED are final.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// Event types stored in reservations.event_type.
const (
	EventMeeting        = "MEETING"
	EventEvent          = "EVENT"
	EventRehearsal      = "REHEARSAL"
	EventRecording      = "RECORDING"
	EventSpecialService = "SPECIAL_SERVICE"
	EventOther          = "OTHER"
)

// ValidEventType reports whether the string is a known event type.
func ValidEventType(t string) bool {
	switch t {
	case EventMeeting, EventEvent, EventRehearsal, EventRecording, EventSpecialService, EventOther:
		return true
	}
	return false
}

// Reservation records a user's booking of a space for a time range.
// Two reservations against the same space with status APPROVED never
// overlap in time; overlapping PENDING requests may coexist until an
// approver resolves them.
//
// Fields:
//  ID             – primary key identifier.
//  SpaceID        – space being booked.
//  RequestedBy    – user who made the reservation.
//  Title          – name of the event or meeting.
//  EventType      – kind of event (MEETING, EVENT, ...).
//  StartsAt       – start of the booked range (UTC).
//  EndsAt         – end of the booked range (UTC).
//  AttendeesCount – estimated headcount, when given.
//  Resources      – resources requested for the event.
//  ResourceNotes  – free-text notes about resources.
//  Status         – reservation state (PENDING, APPROVED, ...).
//  ResponseNote   – note written by the approver.
//  ApprovedBy     – user who approved or rejected the booking.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Reservation struct {
	ID             uint64    // reservations.id
	SpaceID        uint64    // reservations.space_id
	RequestedBy    uint64    // reservations.requested_by
	Title          string    // reservations.title
	EventType      string    // reservations.event_type
	StartsAt       time.Time // reservations.starts_at
	EndsAt         time.Time // reservations.ends_at
	AttendeesCount *uint32   // reservations.attendees_count (nullable)
	Resources      []string  // reservation_resources.resource
	ResourceNotes  *string   // reservations.resource_notes (nullable)
	Status         string    // reservations.status
	ResponseNote   *string   // reservations.response_note (nullable)
	ApprovedBy     *uint64   // reservations.approved_by (nullable)
	CreatedAt      time.Time // reservations.created_at
	UpdatedAt      time.Time // reservations.updated_at
}
