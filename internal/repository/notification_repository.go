package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/church-agenda/internal/model"
)

// NotificationRepo provides persistence for per-recipient notification
// rows. Rows are created only by the fan-out service and mutated only by
// marking them read.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create inserts a notification row and populates the generated ID.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `INSERT INTO notifications (recipient_id, type, message, source_kind, source_id)
		VALUES (?,?,?,?,?)`
	res, err := r.DB.ExecContext(ctx, q,
		n.RecipientID, n.Type, n.Message, n.Source.Kind, n.Source.ID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListByRecipient returns the recipient's notifications, newest first,
// optionally restricted to unread rows and capped at limit.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID uint64, unreadOnly bool, limit int) ([]model.Notification, error) {
	q := `SELECT id, recipient_id, type, message, source_kind, source_id, is_read, created_at
		FROM notifications WHERE recipient_id=?`
	args := []any{recipientID}
	if unreadOnly {
		q += " AND is_read=0"
	}
	q += " ORDER BY created_at DESC LIMIT ?"
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Message,
			&n.Source.Kind, &n.Source.ID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// CountUnread counts the recipient's unread notifications. Recomputed on
// demand; never cached.
func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID uint64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id=? AND is_read=0",
		recipientID).Scan(&n)
	return n, err
}

// MarkReadByIDs marks the given notifications read, restricted to rows
// owned by the recipient.
func (r *NotificationRepo) MarkReadByIDs(ctx context.Context, recipientID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := []any{recipientID}
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE recipient_id=? AND is_read=0 AND id IN ("+placeholders+")",
		args...)
	return err
}

// MarkReadByTypes marks all unread rows of the given types read. Used by
// pages that auto-mark their notification types on visit.
func (r *NotificationRepo) MarkReadByTypes(ctx context.Context, recipientID uint64, types []string) error {
	if len(types) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(types)), ",")
	args := []any{recipientID}
	for _, t := range types {
		args = append(args, t)
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE recipient_id=? AND is_read=0 AND type IN ("+placeholders+")",
		args...)
	return err
}

// MarkAllRead marks every unread notification of the recipient read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE recipient_id=? AND is_read=0",
		recipientID)
	return err
}
