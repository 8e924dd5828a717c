package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/repository"
)

func newReservationFixture(t *testing.T) (*ReservationService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	notifier := NewNotifier(repository.NewUserRepo(db), repository.NewNotificationRepo(db))
	svc := NewReservationService(db, repository.NewSpaceRepo(db), repository.NewReservationRepo(db), notifier)
	return svc, mock
}

// lockedReservationRows builds the row set the FOR UPDATE select returns
// for reservation 5 in space 2, requested by user 7.
func lockedReservationRows(start, end time.Time, status string, responseNote, approvedBy any) *sqlmock.Rows {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "space_id", "requested_by", "title", "event_type", "starts_at", "ends_at",
		"attendees_count", "resource_notes", "status", "response_note", "approved_by",
		"created_at", "updated_at",
	}).AddRow(5, 2, 7, "Choir practice", model.EventRehearsal, start, end,
		nil, nil, status, responseNote, approvedBy, now, now)
}

func TestDecideApproveOverlapConflict(t *testing.T) {
	svc, mock := newReservationFixture(t)
	start := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE id=\? FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(lockedReservationRows(start, end, model.StatusPending, nil, nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \( SELECT id FROM reservations`).
		WithArgs(2, model.StatusApproved, 5, end, start).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.Decide(context.Background(), Actor{ID: 3, Role: model.RolePastor}, 5, model.StatusApproved, nil)
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("error %v is not ErrConflict", err)
	}
	// No UPDATE expectation exists: the transaction rolls back with the
	// row still PENDING, so the loser can be re-decided later.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDecideApproveRecordsApprover(t *testing.T) {
	svc, mock := newReservationFixture(t)
	start := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE id=\? FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(lockedReservationRows(start, end, model.StatusPending, nil, nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \( SELECT id FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(`UPDATE reservations SET status=\?, response_note=\?, approved_by=\? WHERE id=\?`).
		WithArgs(model.StatusApproved, nil, 3, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := svc.Decide(context.Background(), Actor{ID: 3, Role: model.RolePastor}, 5, model.StatusApproved, nil)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if res.Status != model.StatusApproved {
		t.Errorf("status = %q, want APPROVED", res.Status)
	}
	if res.ApprovedBy == nil || *res.ApprovedBy != 3 {
		t.Errorf("approved by = %v, want the deciding actor", res.ApprovedBy)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDecideRejectSkipsOverlapCheck(t *testing.T) {
	svc, mock := newReservationFixture(t)
	start := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	note := "room closed for maintenance"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE id=\? FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(lockedReservationRows(start, end, model.StatusPending, nil, nil))
	mock.ExpectExec(`UPDATE reservations SET status=\?, response_note=\?, approved_by=\? WHERE id=\?`).
		WithArgs(model.StatusRejected, &note, 3, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := svc.Decide(context.Background(), Actor{ID: 3, Role: model.RoleSecretary}, 5, model.StatusRejected, &note)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if res.Status != model.StatusRejected {
		t.Errorf("status = %q, want REJECTED", res.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancelKeepsDecisionRecord(t *testing.T) {
	svc, mock := newReservationFixture(t)
	start := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE id=\? FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(lockedReservationRows(start, end, model.StatusApproved, "fine for the evening", 3))
	mock.ExpectExec(`^UPDATE reservations SET status=\? WHERE id=\?$`).
		WithArgs(model.StatusCancelled, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Cancel(context.Background(), Actor{ID: 7, Role: model.RoleLeader}, 5)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.Status != model.StatusCancelled {
		t.Errorf("status = %q, want CANCELLED", res.Status)
	}
	if res.ApprovedBy == nil || *res.ApprovedBy != 3 {
		t.Errorf("approved by = %v, want the original approver kept", res.ApprovedBy)
	}
	if res.ResponseNote == nil || *res.ResponseNote != "fine for the evening" {
		t.Errorf("response note = %v, want the approver's note kept", res.ResponseNote)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
