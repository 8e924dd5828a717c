// Package service implements the scheduling core: the reservation and
// meeting-request state machines, notification fan-out and the merged
// calendar query. Services take the acting viewer explicitly — nothing
// here reads identity from ambient state.
package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/queue"
	"github.com/iliyamo/church-agenda/internal/repository"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   uint64
	Role string
}

// Privileged reports whether the actor may approve and see staff-only data.
func (a Actor) Privileged() bool { return model.IsPrivileged(a.Role) }

// reasonPreviewLimit bounds how much of a free-text reason is
// interpolated into a notification message.
const reasonPreviewLimit = 80

// Notifier creates notification rows for a computed recipient set and
// publishes each created row to the broker. Both the row creation and
// the publish are best effort from the caller's perspective: a failed
// fan-out never rolls back the state transition that triggered it.
type Notifier struct {
	Users         *repository.UserRepo
	Notifications *repository.NotificationRepo
}

func NewNotifier(users *repository.UserRepo, notifications *repository.NotificationRepo) *Notifier {
	return &Notifier{Users: users, Notifications: notifications}
}

// Notify filters the actor out of the recipient set and creates one
// notification row per remaining recipient. An empty filtered set is a
// no-op. Row creation failures are logged and skipped; the broker
// publish after each row is equally best effort.
func (n *Notifier) Notify(ctx context.Context, recipientIDs []uint64, excludeActorID uint64, ntype, message string, source model.NotificationSource) {
	for _, id := range filterRecipients(recipientIDs, excludeActorID) {
		row := &model.Notification{
			RecipientID: id,
			Type:        ntype,
			Message:     message,
			Source:      source,
		}
		if err := n.Notifications.Create(ctx, row); err != nil {
			log.Printf("notifier: create row for recipient %d failed: %v", id, err)
			continue
		}
		_ = queue.PublishNotificationCreated(ctx, queue.NotificationCreatedEvent{
			NotificationID: row.ID,
			RecipientID:    row.RecipientID,
			Type:           row.Type,
			Message:        row.Message,
			SourceKind:     row.Source.Kind,
			SourceID:       row.Source.ID,
			CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// NotifyPrivileged fans out to all active pastor/secretary accounts,
// excluding the actor. Used when a new request or reservation needs
// staff attention.
func (n *Notifier) NotifyPrivileged(ctx context.Context, excludeActorID uint64, ntype, message string, source model.NotificationSource) {
	ids, err := n.Users.ListPrivilegedIDs(ctx)
	if err != nil {
		log.Printf("notifier: list privileged recipients failed: %v", err)
		return
	}
	n.Notify(ctx, ids, excludeActorID, ntype, message, source)
}

// filterRecipients removes the acting user from the recipient set; an
// actor never notifies themself.
func filterRecipients(ids []uint64, excludeID uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id != excludeID {
			out = append(out, id)
		}
	}
	return out
}

// previewText truncates free text to limit runes for interpolation into
// notification messages, appending an ellipsis when cut.
func previewText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
