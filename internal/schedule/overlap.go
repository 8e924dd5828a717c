// Package schedule holds the pure scheduling logic shared by the
// reservation and agenda services: half-open interval overlap, free-gap
// computation and role-based visibility of agenda entries.  Nothing in
// this package touches the database.
package schedule

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether the interval has no extent.
func (i Interval) IsZero() bool { return !i.End.After(i.Start) }

// Overlaps reports whether the two half-open ranges share at least one
// instant: aStart < bEnd && aEnd > bStart.  Touching endpoints do not
// overlap, and zero-length ranges never overlap anything.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FreeGaps returns the free sub-intervals of [dayStart, dayEnd) left
// between the given busy intervals.  Busy intervals may be unsorted,
// may overlap each other and may extend past the day bounds; they are
// clipped first.  The sweep tracks the maximum busy end seen so far, so
// two overlapping busy ranges never produce a gap between them.
func FreeGaps(busy []Interval, dayStart, dayEnd time.Time) []Interval {
	if !dayEnd.After(dayStart) {
		return nil
	}

	clipped := make([]Interval, 0, len(busy))
	for _, b := range busy {
		s, e := b.Start, b.End
		if s.Before(dayStart) {
			s = dayStart
		}
		if e.After(dayEnd) {
			e = dayEnd
		}
		if e.After(s) {
			clipped = append(clipped, Interval{Start: s, End: e})
		}
	}
	sort.Slice(clipped, func(i, j int) bool { return clipped[i].Start.Before(clipped[j].Start) })

	free := make([]Interval, 0, len(clipped)+1)
	cursor := dayStart // rolling maximum of busy ends
	for _, b := range clipped {
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if dayEnd.After(cursor) {
		free = append(free, Interval{Start: cursor, End: dayEnd})
	}
	return free
}
