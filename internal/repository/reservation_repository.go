package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
)

// ReservationRepo provides persistence for space reservations and their
// requested resources. All timestamp fields are stored in UTC. Methods
// with a Tx suffix run inside a caller-owned transaction; the caller
// must commit or rollback.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationColumns = `id, space_id, requested_by, title, event_type, starts_at, ends_at,
       attendees_count, resource_notes, status, response_note, approved_by, created_at, updated_at`

func scanReservation(scan func(dest ...any) error) (model.Reservation, error) {
	var (
		res       model.Reservation
		attendees sql.NullInt64
		resNotes  sql.NullString
		respNote  sql.NullString
		approved  sql.NullInt64
	)
	err := scan(&res.ID, &res.SpaceID, &res.RequestedBy, &res.Title, &res.EventType,
		&res.StartsAt, &res.EndsAt, &attendees, &resNotes, &res.Status,
		&respNote, &approved, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return res, err
	}
	if attendees.Valid {
		n := uint32(attendees.Int64)
		res.AttendeesCount = &n
	}
	if resNotes.Valid {
		s := resNotes.String
		res.ResourceNotes = &s
	}
	if respNote.Valid {
		s := respNote.String
		res.ResponseNote = &s
	}
	if approved.Valid {
		id := uint64(approved.Int64)
		res.ApprovedBy = &id
	}
	return res, nil
}

// Create inserts a reservation and its requested resources, populating
// the generated ID on the provided record.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
		(space_id, requested_by, title, event_type, starts_at, ends_at,
		 attendees_count, resource_notes, status, approved_by)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	result, err := r.DB.ExecContext(ctx, q,
		res.SpaceID, res.RequestedBy, res.Title, res.EventType,
		res.StartsAt, res.EndsAt, res.AttendeesCount, res.ResourceNotes,
		res.Status, res.ApprovedBy)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	for _, resource := range res.Resources {
		if _, err := r.DB.ExecContext(ctx,
			"INSERT INTO reservation_resources (reservation_id, resource) VALUES (?,?)",
			res.ID, resource); err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches a reservation including its resources.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=? LIMIT 1", id)
	res, err := scanReservation(row.Scan)
	if err != nil {
		return res, err
	}
	res.Resources, err = r.listResources(ctx, res.ID)
	return res, err
}

func (r *ReservationRepo) listResources(ctx context.Context, reservationID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT resource FROM reservation_resources WHERE reservation_id=? ORDER BY id",
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var resources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		resources = append(resources, s)
	}
	return resources, rows.Err()
}

// GetByIDForUpdateTx fetches a reservation inside a transaction, taking
// a row lock so a concurrent decision on the same reservation blocks
// until the transaction finishes.
func (r *ReservationRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=? FOR UPDATE", id)
	return scanReservation(row.Scan)
}

// CountApprovedOverlapping returns how many APPROVED reservations for
// the space overlap the half-open range [start, end). Used for the
// advisory pre-submission conflict check.
func (r *ReservationRepo) CountApprovedOverlapping(ctx context.Context, spaceID uint64, start, end time.Time) (int64, error) {
	const q = `SELECT COUNT(*) FROM reservations
		WHERE space_id=? AND status=? AND starts_at < ? AND ends_at > ?`
	var n int64
	err := r.DB.QueryRowContext(ctx, q, spaceID, model.StatusApproved, end, start).Scan(&n)
	return n, err
}

// CountApprovedOverlappingTx is the authoritative variant run inside the
// approval transaction. FOR UPDATE locks the matching approved rows so a
// concurrent approval for the same space serializes against this check
// instead of racing past it.
func (r *ReservationRepo) CountApprovedOverlappingTx(ctx context.Context, tx *sql.Tx, spaceID uint64, excludeID uint64, start, end time.Time) (int64, error) {
	const q = `SELECT COUNT(*) FROM (
		SELECT id FROM reservations
		WHERE space_id=? AND status=? AND id<>? AND starts_at < ? AND ends_at > ?
		FOR UPDATE) t`
	var n int64
	err := tx.QueryRowContext(ctx, q, spaceID, model.StatusApproved, excludeID, end, start).Scan(&n)
	return n, err
}

// UpdateStatusTx sets the status, response note and approver of a
// reservation inside a transaction.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string, responseNote *string, approvedBy uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE reservations SET status=?, response_note=?, approved_by=? WHERE id=?",
		status, responseNote, approvedBy, id)
	return err
}

// CancelTx sets only the status of a reservation to CANCELLED inside a
// transaction. The response note and the recorded approver stay as the
// deciding staff member left them.
func (r *ReservationRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE id=?",
		model.StatusCancelled, id)
	return err
}

// ListByRequester returns a user's reservations, newest first.
func (r *ReservationRepo) ListByRequester(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = "SELECT " + reservationColumns + ` FROM reservations
		WHERE requested_by=? ORDER BY created_at DESC`
	return r.queryList(ctx, q, userID)
}

// ListAll returns every reservation, newest first. Privileged callers
// only; ordinary requesters go through ListByRequester.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	const q = "SELECT " + reservationColumns + " FROM reservations ORDER BY created_at DESC"
	return r.queryList(ctx, q)
}

// ListApprovedOverlapping returns APPROVED reservations overlapping the
// half-open window [start, end), optionally restricted to one space,
// ordered by start time. The overlap predicate runs in SQL so the
// calendar never loads rows outside the window.
func (r *ReservationRepo) ListApprovedOverlapping(ctx context.Context, spaceID *uint64, start, end time.Time) ([]model.Reservation, error) {
	q := "SELECT " + reservationColumns + ` FROM reservations
		WHERE status=? AND starts_at < ? AND ends_at > ?`
	args := []any{model.StatusApproved, end, start}
	if spaceID != nil {
		q += " AND space_id=?"
		args = append(args, *spaceID)
	}
	q += " ORDER BY starts_at"
	return r.queryList(ctx, q, args...)
}

func (r *ReservationRepo) queryList(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}
