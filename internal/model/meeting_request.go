package model

import "time"

// Meeting request statuses stored in meeting_requests.status.  A request
// leaves PENDING exactly once; APPROVED, REJECTED and RESCHEDULED are
// final.
const (
	RequestPending     = "PENDING"
	RequestApproved    = "APPROVED"
	RequestRejected    = "REJECTED"
	RequestRescheduled = "RESCHEDULED"
)

// Meeting modalities stored in meeting_requests.modality.
const (
	ModalityInPerson = "IN_PERSON"
	ModalityOnline   = "ONLINE"
)

// DefaultEstimatedMinutes is assumed when a request does not state a
// duration; the derived agenda entry spans this many minutes.
const DefaultEstimatedMinutes = 30

// MeetingRequest is a request by a user to meet the pastor.  ConfirmedAt
// must be set before the status can become APPROVED or RESCHEDULED.
// SeenBy holds the ids of privileged users who have viewed the request
// while it was pending, powering the unread badge.
//
// Fields:
//  ID               – primary key identifier.
//  RequestedBy      – user asking for the meeting.
//  Reason           – why the meeting is requested.
//  Modality         – IN_PERSON or ONLINE.
//  IsAllDay         – whether the suggested date is a whole-day ask.
//  EstimatedMinutes – expected duration in minutes.
//  SuggestedAt      – date/time proposed by the requester (UTC).
//  Status           – request state (PENDING, APPROVED, ...).
//  ConfirmedAt      – date/time fixed by the approver (nullable).
//  ResponseNote     – note sent back with the decision.
//  SeenBy           – privileged viewers who opened the request.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type MeetingRequest struct {
	ID               uint64     // meeting_requests.id
	RequestedBy      uint64     // meeting_requests.requested_by
	Reason           string     // meeting_requests.reason
	Modality         string     // meeting_requests.modality
	IsAllDay         bool       // meeting_requests.is_all_day
	EstimatedMinutes uint32     // meeting_requests.estimated_minutes
	SuggestedAt      time.Time  // meeting_requests.suggested_at
	Status           string     // meeting_requests.status
	ConfirmedAt      *time.Time // meeting_requests.confirmed_at (nullable)
	ResponseNote     *string    // meeting_requests.response_note (nullable)
	SeenBy           []uint64   // meeting_request_seen.user_id
	CreatedAt        time.Time  // meeting_requests.created_at
	UpdatedAt        time.Time  // meeting_requests.updated_at
}

// Duration returns the estimated duration of the meeting, falling back
// to DefaultEstimatedMinutes when none was stated.
func (m *MeetingRequest) Duration() time.Duration {
	mins := m.EstimatedMinutes
	if mins == 0 {
		mins = DefaultEstimatedMinutes
	}
	return time.Duration(mins) * time.Minute
}
