package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
)

// MeetingRequestRepo provides persistence for meeting requests and their
// per-viewer "seen" tracking rows.
type MeetingRequestRepo struct{ DB *sql.DB }

func NewMeetingRequestRepo(db *sql.DB) *MeetingRequestRepo { return &MeetingRequestRepo{DB: db} }

const requestColumns = `id, requested_by, reason, modality, is_all_day, estimated_minutes,
       suggested_at, status, confirmed_at, response_note, created_at, updated_at`

func scanRequest(scan func(dest ...any) error) (model.MeetingRequest, error) {
	var (
		m         model.MeetingRequest
		confirmed sql.NullTime
		respNote  sql.NullString
	)
	err := scan(&m.ID, &m.RequestedBy, &m.Reason, &m.Modality, &m.IsAllDay,
		&m.EstimatedMinutes, &m.SuggestedAt, &m.Status, &confirmed, &respNote,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, err
	}
	if confirmed.Valid {
		t := confirmed.Time
		m.ConfirmedAt = &t
	}
	if respNote.Valid {
		s := respNote.String
		m.ResponseNote = &s
	}
	return m, nil
}

// Create inserts a request and populates the generated ID. Status is
// whatever the caller set; the service forces PENDING.
func (r *MeetingRequestRepo) Create(ctx context.Context, m *model.MeetingRequest) error {
	const q = `INSERT INTO meeting_requests
		(requested_by, reason, modality, is_all_day, estimated_minutes, suggested_at, status)
		VALUES (?,?,?,?,?,?,?)`
	res, err := r.DB.ExecContext(ctx, q,
		m.RequestedBy, m.Reason, m.Modality, m.IsAllDay, m.EstimatedMinutes,
		m.SuggestedAt, m.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches a request including its seen set.
func (r *MeetingRequestRepo) GetByID(ctx context.Context, id uint64) (model.MeetingRequest, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM meeting_requests WHERE id=? LIMIT 1", id)
	m, err := scanRequest(row.Scan)
	if err != nil {
		return m, err
	}
	m.SeenBy, err = r.listSeenBy(ctx, m.ID)
	return m, err
}

func (r *MeetingRequestRepo) listSeenBy(ctx context.Context, requestID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id FROM meeting_request_seen WHERE request_id=? ORDER BY user_id",
		requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateDecision sets the status, confirmed time and response note of a
// request.
func (r *MeetingRequestRepo) UpdateDecision(ctx context.Context, id uint64, status string, confirmedAt *time.Time, responseNote *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE meeting_requests SET status=?, confirmed_at=?, response_note=? WHERE id=?",
		status, confirmedAt, responseNote, id)
	return err
}

// ListByRequester returns a user's requests, newest first.
func (r *MeetingRequestRepo) ListByRequester(ctx context.Context, userID uint64) ([]model.MeetingRequest, error) {
	const q = "SELECT " + requestColumns + ` FROM meeting_requests
		WHERE requested_by=? ORDER BY created_at DESC`
	return r.queryList(ctx, q, userID)
}

// ListAll returns every request, pending first, then newest first.
func (r *MeetingRequestRepo) ListAll(ctx context.Context) ([]model.MeetingRequest, error) {
	const q = "SELECT " + requestColumns + ` FROM meeting_requests
		ORDER BY status='PENDING' DESC, created_at DESC`
	return r.queryList(ctx, q)
}

func (r *MeetingRequestRepo) queryList(ctx context.Context, q string, args ...any) ([]model.MeetingRequest, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.MeetingRequest, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		m, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		index[m.ID] = len(list)
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}
	// Populate seen sets for all requests in a single query.
	seenRows, err := r.DB.QueryContext(ctx,
		`SELECT s.request_id, s.user_id FROM meeting_request_seen s
		 JOIN meeting_requests m ON m.id = s.request_id
		 ORDER BY s.request_id, s.user_id`)
	if err != nil {
		return nil, err
	}
	defer seenRows.Close()
	for seenRows.Next() {
		var reqID, userID uint64
		if err := seenRows.Scan(&reqID, &userID); err != nil {
			return nil, err
		}
		if idx, ok := index[reqID]; ok {
			list[idx].SeenBy = append(list[idx].SeenBy, userID)
		}
	}
	return list, seenRows.Err()
}

// MarkSeenByViewer appends the viewer to the seen set of every PENDING
// request that does not already contain them, and returns how many rows
// were added. INSERT IGNORE keeps the operation idempotent per viewer.
func (r *MeetingRequestRepo) MarkSeenByViewer(ctx context.Context, viewerID uint64) (int64, error) {
	const q = `INSERT IGNORE INTO meeting_request_seen (request_id, user_id)
		SELECT id, ? FROM meeting_requests WHERE status=?`
	res, err := r.DB.ExecContext(ctx, q, viewerID, model.RequestPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountUnseenByViewer counts PENDING requests whose seen set does not
// include the viewer. This is the unread badge, distinct from the raw
// pending count.
func (r *MeetingRequestRepo) CountUnseenByViewer(ctx context.Context, viewerID uint64) (int64, error) {
	const q = `SELECT COUNT(*) FROM meeting_requests m
		WHERE m.status=? AND NOT EXISTS (
			SELECT 1 FROM meeting_request_seen s
			WHERE s.request_id = m.id AND s.user_id = ?)`
	var n int64
	err := r.DB.QueryRowContext(ctx, q, model.RequestPending, viewerID).Scan(&n)
	return n, err
}
