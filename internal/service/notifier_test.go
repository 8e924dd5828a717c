package service

import (
	"strings"
	"testing"
)

func TestFilterRecipients(t *testing.T) {
	cases := []struct {
		name    string
		ids     []uint64
		exclude uint64
		want    []uint64
	}{
		{"actor removed", []uint64{1, 2, 3}, 2, []uint64{1, 3}},
		{"actor not in set", []uint64{1, 3}, 2, []uint64{1, 3}},
		{"actor is sole recipient", []uint64{7}, 7, []uint64{}},
		{"empty set", []uint64{}, 1, []uint64{}},
		{"duplicate actor entries all removed", []uint64{4, 4, 5}, 4, []uint64{5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := filterRecipients(tc.ids, tc.exclude)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestPreviewText(t *testing.T) {
	if got := previewText("short", 10); got != "short" {
		t.Fatalf("short text changed: %q", got)
	}

	long := strings.Repeat("a", 100)
	got := previewText(long, 80)
	if want := strings.Repeat("a", 80) + "…"; got != want {
		t.Fatalf("truncation: got %d chars %q...", len(got), got[:10])
	}

	// Limit counts runes, not bytes.
	accented := strings.Repeat("é", 81)
	got = previewText(accented, 80)
	runes := []rune(got)
	if len(runes) != 81 || runes[80] != '…' {
		t.Fatalf("rune truncation: got %d runes, last %q", len(runes), string(runes[len(runes)-1]))
	}

	if got := previewText(strings.Repeat("x", 80), 80); got != strings.Repeat("x", 80) {
		t.Fatalf("exact limit must not be truncated: %q", got)
	}
}

func TestActorPrivileged(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"PASTOR", true},
		{"SECRETARY", true},
		{"LEADER", false},
		{"", false},
	}
	for _, tc := range cases {
		a := Actor{ID: 1, Role: tc.role}
		if got := a.Privileged(); got != tc.want {
			t.Errorf("Privileged(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}
