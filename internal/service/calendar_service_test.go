package service

import (
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/church-agenda/internal/repository"
	"github.com/iliyamo/church-agenda/internal/schedule"
)

func ts(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
}

func TestSortEvents(t *testing.T) {
	events := []schedule.DisclosedView{
		{ID: 2, Kind: schedule.KindSchedule, Start: ts(14, 0)},
		{ID: 1, Kind: schedule.KindReservation, Start: ts(9, 0)},
		{ID: 3, Kind: schedule.KindSchedule, Start: ts(9, 0)},
	}
	sortEvents(events)

	if events[0].ID != 1 || events[1].ID != 3 || events[2].ID != 2 {
		t.Fatalf("order = %d,%d,%d", events[0].ID, events[1].ID, events[2].ID)
	}
}

func TestSortEventsTieBreaksByKindAndID(t *testing.T) {
	events := []schedule.DisclosedView{
		{ID: 9, Kind: schedule.KindSchedule, Start: ts(10, 0)},
		{ID: 5, Kind: schedule.KindSchedule, Start: ts(10, 0)},
		{ID: 1, Kind: schedule.KindReservation, Start: ts(10, 0)},
	}
	sortEvents(events)

	// "reservation" < "schedule" lexically; equal kinds order by id.
	if events[0].Kind != schedule.KindReservation {
		t.Fatalf("first kind = %q", events[0].Kind)
	}
	if events[1].ID != 5 || events[2].ID != 9 {
		t.Fatalf("schedule order = %d,%d", events[1].ID, events[2].ID)
	}
}

func TestClipBusy(t *testing.T) {
	dayStart, dayEnd := ts(8, 0), ts(22, 0)
	busy := []schedule.Interval{
		{Start: ts(21, 0), End: ts(23, 30)}, // runs past close
		{Start: ts(6, 0), End: ts(9, 0)},    // starts before open
		{Start: ts(5, 0), End: ts(7, 0)},    // entirely outside
	}

	got := clipBusy(busy, dayStart, dayEnd)
	if len(got) != 2 {
		t.Fatalf("got %d intervals, want 2: %v", len(got), got)
	}
	if !got[0].Start.Equal(ts(8, 0)) || !got[0].End.Equal(ts(9, 0)) {
		t.Errorf("first = %v-%v", got[0].Start, got[0].End)
	}
	if !got[1].Start.Equal(ts(21, 0)) || !got[1].End.Equal(ts(22, 0)) {
		t.Errorf("second = %v-%v", got[1].Start, got[1].End)
	}
}

func TestOperatingWindow(t *testing.T) {
	day := time.Date(2025, 3, 10, 17, 42, 0, 0, time.UTC) // time-of-day ignored

	start, end, err := operatingWindow(day, "08:00", "22:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(ts(8, 0)) || !end.Equal(ts(22, 0)) {
		t.Fatalf("window = %v-%v", start, end)
	}

	if _, _, err := operatingWindow(day, "22:00", "08:00"); !errors.Is(err, repository.ErrValidation) {
		t.Errorf("inverted hours: err = %v, want ErrValidation", err)
	}
	if _, _, err := operatingWindow(day, "8am", "22:00"); !errors.Is(err, repository.ErrValidation) {
		t.Errorf("malformed hour: err = %v, want ErrValidation", err)
	}
}
