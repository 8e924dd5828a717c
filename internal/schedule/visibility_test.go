package schedule

import (
	"testing"
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
)

func sampleEntry(isPublic bool) model.ScheduleEntry {
	notes := "prepare agenda"
	return model.ScheduleEntry{
		ID:        7,
		Title:     "Counseling with J.",
		EntryType: model.EntryCounseling,
		StartsAt:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		EndsAt:    time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC),
		IsPublic:  isPublic,
		Notes:     &notes,
	}
}

func TestResolvePrivilegedSeesEverything(t *testing.T) {
	for _, role := range []string{model.RolePastor, model.RoleSecretary} {
		v := Resolve(sampleEntry(false), role)
		if v.Title != "Counseling with J." {
			t.Fatalf("role %s: title %q, want real title", role, v.Title)
		}
		if v.Type != model.EntryCounseling {
			t.Fatalf("role %s: type %q, want %q", role, v.Type, model.EntryCounseling)
		}
		if v.Notes == nil || *v.Notes != "prepare agenda" {
			t.Fatalf("role %s: notes not disclosed", role)
		}
		if v.Color != "#7C3AED" {
			t.Fatalf("role %s: color %q, want counseling color", role, v.Color)
		}
	}
}

func TestResolveLeaderPublicEntry(t *testing.T) {
	v := Resolve(sampleEntry(true), model.RoleLeader)
	if v.Title != "Counseling with J." {
		t.Fatalf("title %q, want real title for public entry", v.Title)
	}
	if v.Type != model.EntryCounseling {
		t.Fatalf("type %q, want real type", v.Type)
	}
	if v.Notes != nil {
		t.Fatal("notes must never be disclosed to leaders")
	}
}

func TestResolveLeaderPrivateEntryIsRedacted(t *testing.T) {
	for _, entryType := range []string{
		model.EntryMeeting, model.EntryCounseling, model.EntryPreaching,
		model.EntryTravel, model.EntryPersonal, model.EntryBlock,
	} {
		e := sampleEntry(false)
		e.EntryType = entryType
		v := Resolve(e, model.RoleLeader)
		if v.Title != BusyTitle {
			t.Fatalf("type %s: title %q, want %q", entryType, v.Title, BusyTitle)
		}
		if v.Type != model.EntryBlock {
			t.Fatalf("type %s: disclosed type %q, want coerced BLOCK", entryType, v.Type)
		}
		if v.Notes != nil {
			t.Fatalf("type %s: notes leaked", entryType)
		}
		if v.Color != neutralColor {
			t.Fatalf("type %s: color %q, want neutral", entryType, v.Color)
		}
		if !v.Start.Equal(e.StartsAt) || !v.End.Equal(e.EndsAt) {
			t.Fatalf("type %s: time range must survive redaction", entryType)
		}
	}
}

func TestResolveReservation(t *testing.T) {
	r := model.Reservation{
		ID:        3,
		Title:     "Choir rehearsal",
		EventType: model.EventRehearsal,
		StartsAt:  time.Date(2025, 3, 2, 19, 0, 0, 0, time.UTC),
		EndsAt:    time.Date(2025, 3, 2, 21, 0, 0, 0, time.UTC),
	}
	v := ResolveReservation(r)
	if v.Kind != KindReservation {
		t.Fatalf("kind %q, want %q", v.Kind, KindReservation)
	}
	if v.Title != "Choir rehearsal" || v.Type != model.EventRehearsal {
		t.Fatalf("reservation view lost detail: %+v", v)
	}
}

func TestEntryColorUnknownType(t *testing.T) {
	if c := EntryColor("SOMETHING_ELSE"); c != neutralColor {
		t.Fatalf("color %q, want neutral fallback", c)
	}
}
