package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/repository"
)

// ReservationService owns the reservation approval state machine:
// PENDING -> {APPROVED, REJECTED}, APPROVED -> {CANCELLED}, nothing out
// of REJECTED or CANCELLED. Overlapping PENDING requests may coexist;
// the invariant that approved reservations of one space never overlap is
// enforced at the approval transition, inside a transaction.
type ReservationService struct {
	DB           *sql.DB
	Spaces       *repository.SpaceRepo
	Reservations *repository.ReservationRepo
	Notifier     *Notifier
}

func NewReservationService(db *sql.DB, spaces *repository.SpaceRepo, reservations *repository.ReservationRepo, notifier *Notifier) *ReservationService {
	if db == nil || spaces == nil || reservations == nil || notifier == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{DB: db, Spaces: spaces, Reservations: reservations, Notifier: notifier}
}

// CreateReservationInput carries the client fields for a new booking.
type CreateReservationInput struct {
	SpaceID        uint64
	Title          string
	EventType      string
	StartsAt       time.Time
	EndsAt         time.Time
	AttendeesCount *uint32
	Resources      []string
	ResourceNotes  *string
}

// Create validates the request, applies the space's approval policy and
// stores the reservation. Spaces that do not require approval yield an
// immediately APPROVED booking with the creator recorded as approver;
// all others start PENDING. No conflict check happens here — competing
// pending requests are resolved by an approver.
func (s *ReservationService) Create(ctx context.Context, actor Actor, in CreateReservationInput) (*model.Reservation, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", repository.ErrValidation)
	}
	if !model.ValidEventType(in.EventType) {
		return nil, fmt.Errorf("%w: unknown event type %q", repository.ErrValidation, in.EventType)
	}
	if !in.EndsAt.After(in.StartsAt) {
		return nil, fmt.Errorf("%w: end must be after start", repository.ErrValidation)
	}

	space, err := s.Spaces.GetByID(ctx, in.SpaceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: space %d", repository.ErrNotFound, in.SpaceID)
		}
		return nil, err
	}
	if !space.IsActive {
		return nil, fmt.Errorf("%w: space %q is inactive", repository.ErrInvalidTarget, space.Name)
	}

	res := &model.Reservation{
		SpaceID:        space.ID,
		RequestedBy:    actor.ID,
		Title:          in.Title,
		EventType:      in.EventType,
		StartsAt:       in.StartsAt.UTC(),
		EndsAt:         in.EndsAt.UTC(),
		AttendeesCount: in.AttendeesCount,
		Resources:      in.Resources,
		ResourceNotes:  in.ResourceNotes,
		Status:         model.StatusPending,
	}
	if !space.RequiresApproval {
		// Auto-approval policy: skip the pending stage entirely.
		res.Status = model.StatusApproved
		approver := actor.ID
		res.ApprovedBy = &approver
	}
	if err := s.Reservations.Create(ctx, res); err != nil {
		return nil, err
	}

	s.Notifier.NotifyPrivileged(ctx, actor.ID, model.NotifReservationCreated,
		fmt.Sprintf("New reservation %q for %s", previewText(res.Title, reasonPreviewLimit), space.Name),
		model.NotificationSource{Kind: model.SourceReservation, ID: res.ID})
	return res, nil
}

// CheckConflict reports whether the half-open range [start, end) overlaps
// any APPROVED reservation of the space. This is the advisory check the
// client runs before submitting; the authoritative check re-runs inside
// the approval transaction.
func (s *ReservationService) CheckConflict(ctx context.Context, spaceID uint64, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, fmt.Errorf("%w: end must be after start", repository.ErrValidation)
	}
	n, err := s.Reservations.CountApprovedOverlapping(ctx, spaceID, start.UTC(), end.UTC())
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Decide moves a reservation to APPROVED or REJECTED. Privileged roles
// only. The reservation row is locked for the duration of the
// transaction and, when approving, the overlap check against other
// approved reservations of the space runs under the same lock — two
// concurrent approvals of overlapping requests serialize, and the loser
// gets ErrConflict while its row stays PENDING.
func (s *ReservationService) Decide(ctx context.Context, actor Actor, id uint64, status string, responseNote *string) (*model.Reservation, error) {
	if !actor.Privileged() {
		return nil, fmt.Errorf("%w: only pastor or secretary may decide reservations", repository.ErrForbidden)
	}
	if status != model.StatusApproved && status != model.StatusRejected {
		return nil, fmt.Errorf("%w: decision must be APPROVED or REJECTED", repository.ErrValidation)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.Reservations.GetByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: reservation %d", repository.ErrNotFound, id)
		}
		return nil, err
	}
	if err := reservationTransitionError(res.Status, status); err != nil {
		return nil, err
	}
	if status == model.StatusApproved {
		overlapping, err := s.Reservations.CountApprovedOverlappingTx(ctx, tx, res.SpaceID, res.ID, res.StartsAt, res.EndsAt)
		if err != nil {
			return nil, err
		}
		if overlapping > 0 {
			return nil, fmt.Errorf("%w: approving would overlap an approved reservation", repository.ErrConflict)
		}
	}
	if err := s.Reservations.UpdateStatusTx(ctx, tx, res.ID, status, responseNote, actor.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	res.Status = status
	res.ResponseNote = responseNote
	approver := actor.ID
	res.ApprovedBy = &approver

	ntype := model.NotifReservationApproved
	verb := "approved"
	if status == model.StatusRejected {
		ntype = model.NotifReservationRejected
		verb = "rejected"
	}
	s.Notifier.Notify(ctx, []uint64{res.RequestedBy}, actor.ID, ntype,
		fmt.Sprintf("Your reservation %q was %s", previewText(res.Title, reasonPreviewLimit), verb),
		model.NotificationSource{Kind: model.SourceReservation, ID: res.ID})
	return &res, nil
}

// Cancel moves an APPROVED reservation to CANCELLED. The requester may
// cancel their own booking; privileged roles may cancel any. The
// approver and response note recorded at decision time are kept.
func (s *ReservationService) Cancel(ctx context.Context, actor Actor, id uint64) (*model.Reservation, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.Reservations.GetByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: reservation %d", repository.ErrNotFound, id)
		}
		return nil, err
	}
	if !actor.Privileged() && res.RequestedBy != actor.ID {
		return nil, fmt.Errorf("%w: not your reservation", repository.ErrForbidden)
	}
	if err := reservationTransitionError(res.Status, model.StatusCancelled); err != nil {
		return nil, err
	}
	if err := s.Reservations.CancelTx(ctx, tx, res.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	res.Status = model.StatusCancelled
	return &res, nil
}

// ListFor returns the reservations visible to the actor: privileged
// roles see all, requesters see their own.
func (s *ReservationService) ListFor(ctx context.Context, actor Actor) ([]model.Reservation, error) {
	if actor.Privileged() {
		return s.Reservations.ListAll(ctx)
	}
	return s.Reservations.ListByRequester(ctx, actor.ID)
}

// reservationTransitionError validates a status transition against the
// reservation state machine and returns nil when it is legal.
func reservationTransitionError(from, to string) error {
	switch from {
	case model.StatusPending:
		if to == model.StatusApproved || to == model.StatusRejected {
			return nil
		}
	case model.StatusApproved:
		if to == model.StatusCancelled {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot move reservation from %s to %s", repository.ErrConflict, from, to)
}
