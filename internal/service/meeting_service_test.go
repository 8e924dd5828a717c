package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/repository"
)

func TestMeetingDecisionError(t *testing.T) {
	at := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		status      string
		confirmedAt *time.Time
		wantErr     bool
	}{
		{"approved with time", model.RequestApproved, &at, false},
		{"rescheduled with time", model.RequestRescheduled, &at, false},
		{"rejected without time", model.RequestRejected, nil, false},
		{"approved without time", model.RequestApproved, nil, true},
		{"rescheduled without time", model.RequestRescheduled, nil, true},
		{"approved with zero time", model.RequestApproved, &time.Time{}, true},
		{"pending is not a decision", model.RequestPending, &at, true},
		{"unknown status", "WHENEVER", &at, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := meetingDecisionError(tc.status, tc.confirmedAt)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, repository.ErrValidation) {
					t.Fatalf("error %v is not ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDerivedAgendaEntry(t *testing.T) {
	confirmed := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	req := model.MeetingRequest{
		ID:               42,
		RequestedBy:      7,
		Reason:           "Wedding planning",
		EstimatedMinutes: 45,
		Status:           model.RequestApproved,
		ConfirmedAt:      &confirmed,
	}

	entry := derivedAgendaEntry(req, 3, "Maria Silva")

	if entry.Title != "Meeting — Wedding planning" {
		t.Errorf("title = %q", entry.Title)
	}
	if entry.EntryType != model.EntryMeeting {
		t.Errorf("entry type = %q, want %q", entry.EntryType, model.EntryMeeting)
	}
	if !entry.StartsAt.Equal(confirmed) {
		t.Errorf("starts at %v, want %v", entry.StartsAt, confirmed)
	}
	if want := confirmed.Add(45 * time.Minute); !entry.EndsAt.Equal(want) {
		t.Errorf("ends at %v, want %v", entry.EndsAt, want)
	}
	if entry.IsPublic {
		t.Error("derived entries must be private")
	}
	if entry.Notes == nil || *entry.Notes != "Requested by: Maria Silva" {
		t.Errorf("notes = %v", entry.Notes)
	}
	if entry.CreatedBy != 3 {
		t.Errorf("created by = %d, want the approver", entry.CreatedBy)
	}
	if entry.RequestedBy == nil || *entry.RequestedBy != 42 {
		t.Errorf("requested by = %v, want back-reference to request 42", entry.RequestedBy)
	}
}

func TestDerivedAgendaEntryDefaultDuration(t *testing.T) {
	confirmed := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	req := model.MeetingRequest{
		ID:          1,
		Reason:      "Counseling",
		ConfirmedAt: &confirmed,
	}

	entry := derivedAgendaEntry(req, 2, "João")
	if want := confirmed.Add(time.Duration(model.DefaultEstimatedMinutes) * time.Minute); !entry.EndsAt.Equal(want) {
		t.Errorf("ends at %v, want default-duration end %v", entry.EndsAt, want)
	}
}

func TestDecisionNotification(t *testing.T) {
	base := model.MeetingRequest{Reason: "Budget review"}

	cases := []struct {
		status   string
		wantType string
		wantWord string
	}{
		{model.RequestApproved, model.NotifRequestApproved, "approved"},
		{model.RequestRescheduled, model.NotifRequestRescheduled, "rescheduled"},
		{model.RequestRejected, model.NotifRequestRejected, "declined"},
	}
	for _, tc := range cases {
		req := base
		req.Status = tc.status
		ntype, msg := decisionNotification(req)
		if ntype != tc.wantType {
			t.Errorf("%s: type = %q, want %q", tc.status, ntype, tc.wantType)
		}
		if !strings.Contains(msg, "Budget review") || !strings.Contains(msg, tc.wantWord) {
			t.Errorf("%s: message = %q", tc.status, msg)
		}
	}
}

func TestDecisionNotificationTruncatesReason(t *testing.T) {
	req := model.MeetingRequest{
		Reason: strings.Repeat("long reason ", 20),
		Status: model.RequestApproved,
	}
	_, msg := decisionNotification(req)
	if !strings.Contains(msg, "…") {
		t.Errorf("long reason not truncated: %q", msg)
	}
}
