package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
)

// ScheduleRepo provides persistence for pastor agenda entries.
type ScheduleRepo struct{ DB *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{DB: db} }

const entryColumns = `id, title, entry_type, starts_at, ends_at, is_public, notes,
       created_by, requested_by, created_at, updated_at`

func scanEntry(scan func(dest ...any) error) (model.ScheduleEntry, error) {
	var (
		e         model.ScheduleEntry
		notes     sql.NullString
		requested sql.NullInt64
	)
	err := scan(&e.ID, &e.Title, &e.EntryType, &e.StartsAt, &e.EndsAt,
		&e.IsPublic, &notes, &e.CreatedBy, &requested, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	if notes.Valid {
		n := notes.String
		e.Notes = &n
	}
	if requested.Valid {
		id := uint64(requested.Int64)
		e.RequestedBy = &id
	}
	return e, nil
}

// Create inserts an agenda entry and populates the generated ID.
func (r *ScheduleRepo) Create(ctx context.Context, e *model.ScheduleEntry) error {
	const q = `INSERT INTO schedule_entries
		(title, entry_type, starts_at, ends_at, is_public, notes, created_by, requested_by)
		VALUES (?,?,?,?,?,?,?,?)`
	res, err := r.DB.ExecContext(ctx, q,
		e.Title, e.EntryType, e.StartsAt, e.EndsAt, e.IsPublic, e.Notes,
		e.CreatedBy, e.RequestedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID fetches an entry by id.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (model.ScheduleEntry, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM schedule_entries WHERE id=? LIMIT 1", id)
	return scanEntry(row.Scan)
}

// ListOverlapping returns entries overlapping the half-open window
// [start, end), ordered by start time. When publicOnly is set, private
// entries are excluded at the query boundary; redaction for mixed
// results is the visibility resolver's job.
func (r *ScheduleRepo) ListOverlapping(ctx context.Context, start, end time.Time, publicOnly bool) ([]model.ScheduleEntry, error) {
	q := "SELECT " + entryColumns + ` FROM schedule_entries
		WHERE starts_at < ? AND ends_at > ?`
	args := []any{end, start}
	if publicOnly {
		q += " AND is_public=1"
	}
	q += " ORDER BY starts_at"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.ScheduleEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Update rewrites the mutable fields of an entry.
func (r *ScheduleRepo) Update(ctx context.Context, e *model.ScheduleEntry) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE schedule_entries SET title=?, entry_type=?, starts_at=?, ends_at=?, is_public=?, notes=?
		 WHERE id=?`,
		e.Title, e.EntryType, e.StartsAt, e.EndsAt, e.IsPublic, e.Notes, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an entry.
func (r *ScheduleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM schedule_entries WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
