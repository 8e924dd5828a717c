package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/repository"
	"github.com/iliyamo/church-agenda/internal/schedule"
)

// CalendarService merges approved space reservations and pastor agenda
// entries into one ordered timeline, with per-viewer visibility applied,
// and computes per-space free/busy availability within operating hours.
type CalendarService struct {
	Reservations *repository.ReservationRepo
	Schedule     *repository.ScheduleRepo
	Spaces       *repository.SpaceRepo
	DayStart     string // operating hours open, "HH:MM"
	DayEnd       string // operating hours close, "HH:MM"
}

func NewCalendarService(reservations *repository.ReservationRepo, scheduleRepo *repository.ScheduleRepo, spaces *repository.SpaceRepo, dayStart, dayEnd string) *CalendarService {
	if reservations == nil || scheduleRepo == nil || spaces == nil {
		panic("nil dependency passed to NewCalendarService")
	}
	return &CalendarService{
		Reservations: reservations,
		Schedule:     scheduleRepo,
		Spaces:       spaces,
		DayStart:     dayStart,
		DayEnd:       dayEnd,
	}
}

// ListEvents returns all approved reservations and agenda entries
// overlapping the half-open window [start, end), merged and sorted by
// start time. The overlap predicate runs at the query boundary; the
// visibility resolver runs per entry for the given viewer.
func (s *CalendarService) ListEvents(ctx context.Context, viewer Actor, start, end time.Time, spaceID *uint64) ([]schedule.DisclosedView, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: window end must be after start", repository.ErrValidation)
	}

	reservations, err := s.Reservations.ListApprovedOverlapping(ctx, spaceID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	entries, err := s.Schedule.ListOverlapping(ctx, start.UTC(), end.UTC(), false)
	if err != nil {
		return nil, err
	}

	events := make([]schedule.DisclosedView, 0, len(reservations)+len(entries))
	for _, r := range reservations {
		events = append(events, schedule.ResolveReservation(r))
	}
	for _, e := range entries {
		events = append(events, schedule.Resolve(e, viewer.Role))
	}
	sortEvents(events)
	return events, nil
}

// SpaceAvailability is the free/busy breakdown of one space for a day.
type SpaceAvailability struct {
	SpaceID   uint64              `json:"space_id"`
	SpaceName string              `json:"space_name"`
	Busy      []schedule.Interval `json:"busy"`
	Free      []schedule.Interval `json:"free"`
}

// DayAvailability computes, for each active space (or just one), the
// busy intervals taken by approved reservations on the given day and
// the free gaps between them within operating hours.
func (s *CalendarService) DayAvailability(ctx context.Context, day time.Time, spaceID *uint64) ([]SpaceAvailability, error) {
	dayStart, dayEnd, err := operatingWindow(day, s.DayStart, s.DayEnd)
	if err != nil {
		return nil, err
	}

	var spaces []model.Space
	if spaceID != nil {
		sp, err := s.Spaces.GetByID(ctx, *spaceID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: space %d", repository.ErrNotFound, *spaceID)
			}
			return nil, err
		}
		spaces = []model.Space{sp}
	} else {
		spaces, err = s.Spaces.List(ctx, true)
		if err != nil {
			return nil, err
		}
	}

	reservations, err := s.Reservations.ListApprovedOverlapping(ctx, spaceID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	busyBySpace := make(map[uint64][]schedule.Interval)
	for _, r := range reservations {
		busyBySpace[r.SpaceID] = append(busyBySpace[r.SpaceID],
			schedule.Interval{Start: r.StartsAt, End: r.EndsAt})
	}

	out := make([]SpaceAvailability, 0, len(spaces))
	for _, sp := range spaces {
		busy := busyBySpace[sp.ID]
		out = append(out, SpaceAvailability{
			SpaceID:   sp.ID,
			SpaceName: sp.Name,
			Busy:      clipBusy(busy, dayStart, dayEnd),
			Free:      schedule.FreeGaps(busy, dayStart, dayEnd),
		})
	}
	return out, nil
}

// sortEvents orders the merged timeline by start time, breaking ties by
// kind and id for deterministic output.
func sortEvents(events []schedule.DisclosedView) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		if events[i].Kind != events[j].Kind {
			return events[i].Kind < events[j].Kind
		}
		return events[i].ID < events[j].ID
	})
}

// clipBusy clips busy intervals to the day window and sorts them for
// display, dropping anything left empty.
func clipBusy(busy []schedule.Interval, dayStart, dayEnd time.Time) []schedule.Interval {
	out := make([]schedule.Interval, 0, len(busy))
	for _, b := range busy {
		s, e := b.Start, b.End
		if s.Before(dayStart) {
			s = dayStart
		}
		if e.After(dayEnd) {
			e = dayEnd
		}
		if e.After(s) {
			out = append(out, schedule.Interval{Start: s, End: e})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// operatingWindow anchors the "HH:MM" operating hours onto the given
// day in UTC.
func operatingWindow(day time.Time, open, close string) (time.Time, time.Time, error) {
	start, err := anchorClock(day, open)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := anchorClock(day, close)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: operating hours close before they open", repository.ErrValidation)
	}
	return start, end, nil
}

func anchorClock(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad operating hour %q", repository.ErrValidation, hhmm)
	}
	y, m, d := day.UTC().Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
