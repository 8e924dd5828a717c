package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/repository"
)

type requestDecision struct {
	id           uint64
	status       string
	confirmedAt  *time.Time
	responseNote *string
}

type fakeRequestStore struct {
	requests  map[uint64]model.MeetingRequest
	decided   []requestDecision
	updateErr error
}

func (f *fakeRequestStore) Create(_ context.Context, m *model.MeetingRequest) error {
	m.ID = uint64(len(f.requests) + 1)
	f.requests[m.ID] = *m
	return nil
}

func (f *fakeRequestStore) GetByID(_ context.Context, id uint64) (model.MeetingRequest, error) {
	m, ok := f.requests[id]
	if !ok {
		return model.MeetingRequest{}, sql.ErrNoRows
	}
	return m, nil
}

func (f *fakeRequestStore) UpdateDecision(_ context.Context, id uint64, status string, confirmedAt *time.Time, responseNote *string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.decided = append(f.decided, requestDecision{id, status, confirmedAt, responseNote})
	m := f.requests[id]
	m.Status = status
	m.ConfirmedAt = confirmedAt
	m.ResponseNote = responseNote
	f.requests[id] = m
	return nil
}

func (f *fakeRequestStore) ListByRequester(_ context.Context, userID uint64) ([]model.MeetingRequest, error) {
	var out []model.MeetingRequest
	for _, m := range f.requests {
		if m.RequestedBy == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) ListAll(context.Context) ([]model.MeetingRequest, error) {
	var out []model.MeetingRequest
	for _, m := range f.requests {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRequestStore) MarkSeenByViewer(context.Context, uint64) (int64, error) { return 0, nil }

func (f *fakeRequestStore) CountUnseenByViewer(context.Context, uint64) (int64, error) {
	return 0, nil
}

type fakeAgenda struct {
	created []model.ScheduleEntry
	err     error
}

func (f *fakeAgenda) Create(_ context.Context, e *model.ScheduleEntry) error {
	if f.err != nil {
		return f.err
	}
	e.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, *e)
	return nil
}

type fakeDirectory struct {
	users map[uint64]model.User
}

func (f *fakeDirectory) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type sentNotification struct {
	recipients []uint64
	exclude    uint64
	ntype      string
	message    string
	source     model.NotificationSource
}

type fakeSender struct {
	sent []sentNotification
}

func (f *fakeSender) Notify(_ context.Context, recipientIDs []uint64, excludeActorID uint64, ntype, message string, source model.NotificationSource) {
	f.sent = append(f.sent, sentNotification{recipientIDs, excludeActorID, ntype, message, source})
}

func (f *fakeSender) NotifyPrivileged(_ context.Context, excludeActorID uint64, ntype, message string, source model.NotificationSource) {
	f.sent = append(f.sent, sentNotification{nil, excludeActorID, ntype, message, source})
}

func newMeetingFixture() (*MeetingRequestService, *fakeRequestStore, *fakeAgenda, *fakeSender) {
	store := &fakeRequestStore{requests: map[uint64]model.MeetingRequest{}}
	agenda := &fakeAgenda{}
	dir := &fakeDirectory{users: map[uint64]model.User{
		7: {ID: 7, Name: "Maria Silva", Role: model.RoleLeader},
	}}
	sender := &fakeSender{}
	return NewMeetingRequestService(store, agenda, dir, sender), store, agenda, sender
}

func pendingRequest(id uint64) model.MeetingRequest {
	return model.MeetingRequest{
		ID:               id,
		RequestedBy:      7,
		Reason:           "Wedding planning",
		Modality:         model.ModalityInPerson,
		EstimatedMinutes: 45,
		SuggestedAt:      time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		Status:           model.RequestPending,
	}
}

func TestDecideApprovedProjectsAgendaEntry(t *testing.T) {
	svc, store, agenda, sender := newMeetingFixture()
	store.requests[42] = pendingRequest(42)
	confirmed := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

	req, err := svc.Decide(context.Background(), Actor{ID: 3, Role: model.RolePastor}, 42,
		DecideMeetingRequestInput{Status: model.RequestApproved, ConfirmedAt: &confirmed})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if req.Status != model.RequestApproved {
		t.Errorf("status = %q, want APPROVED", req.Status)
	}
	if len(store.decided) != 1 {
		t.Fatalf("decisions recorded = %d, want 1", len(store.decided))
	}

	if len(agenda.created) != 1 {
		t.Fatalf("agenda entries = %d, want exactly 1", len(agenda.created))
	}
	entry := agenda.created[0]
	if !entry.StartsAt.Equal(confirmed) {
		t.Errorf("entry starts at %v, want confirmed time %v", entry.StartsAt, confirmed)
	}
	if want := confirmed.Add(45 * time.Minute); !entry.EndsAt.Equal(want) {
		t.Errorf("entry ends at %v, want %v", entry.EndsAt, want)
	}
	if entry.RequestedBy == nil || *entry.RequestedBy != 42 {
		t.Errorf("entry back-reference = %v, want request 42", entry.RequestedBy)
	}
	if entry.Notes == nil || *entry.Notes != "Requested by: Maria Silva" {
		t.Errorf("entry notes = %v", entry.Notes)
	}
	if entry.CreatedBy != 3 {
		t.Errorf("entry created by = %d, want the approver", entry.CreatedBy)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("notifications sent = %d, want 1", len(sender.sent))
	}
	got := sender.sent[0]
	if got.ntype != model.NotifRequestApproved {
		t.Errorf("notification type = %q", got.ntype)
	}
	if len(got.recipients) != 1 || got.recipients[0] != 7 {
		t.Errorf("recipients = %v, want the requester only", got.recipients)
	}
}

func TestDecideRejectedCreatesNoAgendaEntry(t *testing.T) {
	svc, store, agenda, sender := newMeetingFixture()
	store.requests[42] = pendingRequest(42)

	req, err := svc.Decide(context.Background(), Actor{ID: 3, Role: model.RoleSecretary}, 42,
		DecideMeetingRequestInput{Status: model.RequestRejected})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if req.Status != model.RequestRejected {
		t.Errorf("status = %q, want REJECTED", req.Status)
	}
	if len(agenda.created) != 0 {
		t.Fatalf("rejection must not touch the agenda, got %d entries", len(agenda.created))
	}
	if len(sender.sent) != 1 || sender.sent[0].ntype != model.NotifRequestRejected {
		t.Errorf("notifications = %+v", sender.sent)
	}
}

func TestDecideAlreadyDecidedConflicts(t *testing.T) {
	svc, store, agenda, sender := newMeetingFixture()
	decided := pendingRequest(42)
	decided.Status = model.RequestApproved
	store.requests[42] = decided
	confirmed := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

	_, err := svc.Decide(context.Background(), Actor{ID: 3, Role: model.RolePastor}, 42,
		DecideMeetingRequestInput{Status: model.RequestApproved, ConfirmedAt: &confirmed})
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("error %v is not ErrConflict", err)
	}
	if len(store.decided) != 0 {
		t.Errorf("a decided request must not be decided again, got %d writes", len(store.decided))
	}
	if len(agenda.created) != 0 || len(sender.sent) != 0 {
		t.Errorf("no side effects expected, agenda=%d sent=%d", len(agenda.created), len(sender.sent))
	}
}

func TestDecideRequiresPrivilege(t *testing.T) {
	svc, store, agenda, _ := newMeetingFixture()
	store.requests[42] = pendingRequest(42)
	confirmed := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

	_, err := svc.Decide(context.Background(), Actor{ID: 7, Role: model.RoleLeader}, 42,
		DecideMeetingRequestInput{Status: model.RequestApproved, ConfirmedAt: &confirmed})
	if !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("error %v is not ErrForbidden", err)
	}
	if len(store.decided) != 0 || len(agenda.created) != 0 {
		t.Error("leader decision must leave everything untouched")
	}
}

func TestDecideUnknownRequestNotFound(t *testing.T) {
	svc, _, _, _ := newMeetingFixture()

	_, err := svc.Decide(context.Background(), Actor{ID: 3, Role: model.RolePastor}, 99,
		DecideMeetingRequestInput{Status: model.RequestRejected})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("error %v is not ErrNotFound", err)
	}
}

func TestDecideSurvivesAgendaFailure(t *testing.T) {
	svc, store, agenda, sender := newMeetingFixture()
	store.requests[42] = pendingRequest(42)
	agenda.err = errors.New("agenda table is locked")
	confirmed := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

	req, err := svc.Decide(context.Background(), Actor{ID: 3, Role: model.RolePastor}, 42,
		DecideMeetingRequestInput{Status: model.RequestApproved, ConfirmedAt: &confirmed})
	if err != nil {
		t.Fatalf("projection failure must not fail the decision: %v", err)
	}
	if req.Status != model.RequestApproved {
		t.Errorf("status = %q, want APPROVED", req.Status)
	}
	if got := store.requests[42].Status; got != model.RequestApproved {
		t.Errorf("stored status = %q, want APPROVED", got)
	}
	if len(sender.sent) != 1 {
		t.Errorf("requester still gets notified, sent = %d", len(sender.sent))
	}
}
