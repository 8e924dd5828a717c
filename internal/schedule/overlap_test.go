package schedule

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2025, 1, 10, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"disjoint", at(9, 0), at(10, 0), at(11, 0), at(12, 0), false},
		{"touching endpoints do not overlap", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"partial overlap", at(9, 0), at(10, 30), at(10, 0), at(11, 0), true},
		{"contained", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"zero length never overlaps", at(9, 30), at(9, 30), at(9, 0), at(10, 0), false},
		{"zero length on boundary", at(9, 0), at(9, 0), at(9, 0), at(10, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps(a,b) = %v, want %v", got, tc.want)
			}
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Fatalf("Overlaps(b,a) = %v, want %v (symmetry)", got, tc.want)
			}
		})
	}
}

func TestFreeGaps(t *testing.T) {
	dayStart, dayEnd := at(8, 0), at(22, 0)

	t.Run("no busy intervals yields whole day", func(t *testing.T) {
		got := FreeGaps(nil, dayStart, dayEnd)
		if len(got) != 1 || !got[0].Start.Equal(dayStart) || !got[0].End.Equal(dayEnd) {
			t.Fatalf("got %v, want single [08:00,22:00)", got)
		}
	})

	t.Run("gaps around sorted intervals", func(t *testing.T) {
		busy := []Interval{
			{at(10, 0), at(11, 0)},
			{at(14, 0), at(15, 30)},
		}
		got := FreeGaps(busy, dayStart, dayEnd)
		want := []Interval{
			{at(8, 0), at(10, 0)},
			{at(11, 0), at(14, 0)},
			{at(15, 30), at(22, 0)},
		}
		assertIntervals(t, got, want)
	})

	t.Run("unsorted input is sorted first", func(t *testing.T) {
		busy := []Interval{
			{at(14, 0), at(15, 0)},
			{at(9, 0), at(10, 0)},
		}
		got := FreeGaps(busy, dayStart, dayEnd)
		want := []Interval{
			{at(8, 0), at(9, 0)},
			{at(10, 0), at(14, 0)},
			{at(15, 0), at(22, 0)},
		}
		assertIntervals(t, got, want)
	})

	t.Run("overlapping busy intervals produce no spurious gap", func(t *testing.T) {
		// The second interval ends before the first; a naive
		// previous-end comparison would open a gap at 11:00.
		busy := []Interval{
			{at(9, 0), at(12, 0)},
			{at(10, 0), at(11, 0)},
		}
		got := FreeGaps(busy, dayStart, dayEnd)
		want := []Interval{
			{at(8, 0), at(9, 0)},
			{at(12, 0), at(22, 0)},
		}
		assertIntervals(t, got, want)
	})

	t.Run("busy clipped to day bounds", func(t *testing.T) {
		busy := []Interval{
			{at(6, 0), at(9, 0)},
			{at(21, 0), at(23, 0)},
		}
		got := FreeGaps(busy, dayStart, dayEnd)
		want := []Interval{{at(9, 0), at(21, 0)}}
		assertIntervals(t, got, want)
	})

	t.Run("fully booked day has no gaps", func(t *testing.T) {
		busy := []Interval{{at(7, 0), at(23, 0)}}
		if got := FreeGaps(busy, dayStart, dayEnd); len(got) != 0 {
			t.Fatalf("got %v, want no gaps", got)
		}
	})

	t.Run("inverted day window", func(t *testing.T) {
		if got := FreeGaps(nil, dayEnd, dayStart); got != nil {
			t.Fatalf("got %v, want nil", got)
		}
	})
}

func assertIntervals(t *testing.T, got, want []Interval) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d intervals %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Fatalf("interval %d = [%v,%v), want [%v,%v)",
				i, got[i].Start, got[i].End, want[i].Start, want[i].End)
		}
	}
}
