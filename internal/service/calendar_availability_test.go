package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/church-agenda/internal/repository"
)

func newCalendarFixture(t *testing.T) (*CalendarService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := NewCalendarService(repository.NewReservationRepo(db),
		repository.NewScheduleRepo(db), repository.NewSpaceRepo(db), "08:00", "22:00")
	return svc, mock
}

func TestDayAvailabilityUnknownSpace(t *testing.T) {
	svc, mock := newCalendarFixture(t)
	mock.ExpectQuery(`SELECT .+ FROM spaces WHERE id=\?`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	spaceID := uint64(99)
	day := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err := svc.DayAvailability(context.Background(), day, &spaceID)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("error %v is not ErrNotFound", err)
	}
}

func TestDayAvailabilitySpaceLookupFailure(t *testing.T) {
	svc, mock := newCalendarFixture(t)
	boom := errors.New("connection reset by peer")
	mock.ExpectQuery(`SELECT .+ FROM spaces WHERE id=\?`).
		WithArgs(1).
		WillReturnError(boom)

	spaceID := uint64(1)
	day := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err := svc.DayAvailability(context.Background(), day, &spaceID)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// A failed lookup is not the same as a missing space; it must not
	// surface to clients as a 404.
	if errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("transient failure mapped to ErrNotFound: %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("error %v does not wrap the driver failure", err)
	}
}
