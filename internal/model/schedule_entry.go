package model

import "time"

// Entry types stored in schedule_entries.entry_type.  BLOCK marks an
// explicit unavailability window; it carries no approval semantics and
// simply occupies time on the agenda.
const (
	EntryMeeting    = "MEETING"
	EntryCounseling = "COUNSELING"
	EntryPreaching  = "PREACHING"
	EntryTravel     = "TRAVEL"
	EntryPersonal   = "PERSONAL"
	EntryBlock      = "BLOCK"
)

// ValidEntryType reports whether the string is a known agenda entry type.
func ValidEntryType(t string) bool {
	switch t {
	case EntryMeeting, EntryCounseling, EntryPreaching, EntryTravel, EntryPersonal, EntryBlock:
		return true
	}
	return false
}

// ScheduleEntry is a calendar entry on the pastor's agenda.  Entries are
// created directly by staff or derived automatically from an approved
// meeting request, in which case RequestedBy points back at the request.
// Notes are staff-only regardless of IsPublic.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – entry title.
//  EntryType   – kind of entry (MEETING, COUNSELING, ..., BLOCK).
//  StartsAt    – start of the occupied range (UTC).
//  EndsAt      – end of the occupied range (UTC).
//  IsPublic    – whether non-privileged viewers may see the title.
//  Notes       – internal notes, staff-only.
//  CreatedBy   – user who created the entry.
//  RequestedBy – originating meeting request, when derived.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type ScheduleEntry struct {
	ID          uint64    // schedule_entries.id
	Title       string    // schedule_entries.title
	EntryType   string    // schedule_entries.entry_type
	StartsAt    time.Time // schedule_entries.starts_at
	EndsAt      time.Time // schedule_entries.ends_at
	IsPublic    bool      // schedule_entries.is_public
	Notes       *string   // schedule_entries.notes (nullable)
	CreatedBy   uint64    // schedule_entries.created_by
	RequestedBy *uint64   // schedule_entries.requested_by (nullable, meeting_requests.id)
	CreatedAt   time.Time // schedule_entries.created_at
	UpdatedAt   time.Time // schedule_entries.updated_at
}
