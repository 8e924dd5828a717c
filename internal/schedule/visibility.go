package schedule

import (
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
)

// Event source kinds reported on disclosed calendar events.
const (
	KindReservation = "reservation"
	KindSchedule    = "schedule"
)

// BusyTitle replaces the real title of a private agenda entry when shown
// to a non-privileged viewer.
const BusyTitle = "Busy"

// neutralColor is used for redacted entries and unknown types.
const neutralColor = "#78716C"

// reservationColor is used for approved space reservations on the merged
// calendar.
const reservationColor = "#2563EB"

// entryColors maps agenda entry types to their calendar colors.
var entryColors = map[string]string{
	model.EntryMeeting:    "#2563EB",
	model.EntryCounseling: "#7C3AED",
	model.EntryPreaching:  "#16A34A",
	model.EntryTravel:     "#D97706",
	model.EntryPersonal:   "#78716C",
	model.EntryBlock:      "#DC2626",
}

// EntryColor returns the calendar color for an agenda entry type.
func EntryColor(entryType string) string {
	if c, ok := entryColors[entryType]; ok {
		return c
	}
	return neutralColor
}

// DisclosedView is the subset of an event a given viewer may see on the
// calendar.
type DisclosedView struct {
	ID       uint64    `json:"id"`
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Type     string    `json:"type"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Color    string    `json:"color"`
	IsPublic bool      `json:"is_public"`
	Notes    *string   `json:"notes,omitempty"`
}

// Resolve decides what a viewer with the given role may see of an agenda
// entry.  Privileged viewers get the full entry.  Leaders get the real
// title and color only when the entry is public; otherwise a redacted
// "Busy" placeholder with the type coerced to BLOCK.  Notes are never
// disclosed to non-privileged viewers.  The function is pure.
func Resolve(e model.ScheduleEntry, viewerRole string) DisclosedView {
	v := DisclosedView{
		ID:       e.ID,
		Kind:     KindSchedule,
		Start:    e.StartsAt,
		End:      e.EndsAt,
		IsPublic: e.IsPublic,
	}
	if model.IsPrivileged(viewerRole) {
		v.Title = e.Title
		v.Type = e.EntryType
		v.Color = EntryColor(e.EntryType)
		v.Notes = e.Notes
		return v
	}
	if e.IsPublic {
		v.Title = e.Title
		v.Type = e.EntryType
		v.Color = EntryColor(e.EntryType)
		return v
	}
	v.Title = BusyTitle
	v.Type = model.EntryBlock
	v.Color = neutralColor
	return v
}

// ResolveReservation produces the calendar view of an approved space
// reservation.  Reservation details are visible to every authenticated
// user, so no redaction applies.
func ResolveReservation(r model.Reservation) DisclosedView {
	return DisclosedView{
		ID:       r.ID,
		Kind:     KindReservation,
		Title:    r.Title,
		Type:     r.EventType,
		Start:    r.StartsAt,
		End:      r.EndsAt,
		Color:    reservationColor,
		IsPublic: true,
	}
}
