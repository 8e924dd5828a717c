package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/repository"
)

// NotificationHandler exposes the acting user's notification inbox.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(notifications *repository.NotificationRepo) *NotificationHandler {
	if notifications == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{Notifications: notifications}
}

type notificationResp struct {
	ID        uint64                   `json:"id"`
	Type      string                   `json:"type"`
	Message   string                   `json:"message"`
	Source    model.NotificationSource `json:"source"`
	IsRead    bool                     `json:"is_read"`
	CreatedAt time.Time                `json:"created_at"`
}

type markReadReq struct {
	IDs   []uint64 `json:"ids"`
	Types []string `json:"types"`
	All   bool     `json:"all"`
}

// List returns the user's notifications, newest first.
// ?unread=true restricts to unread rows; ?limit= caps the page.
func (h *NotificationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Notifications.ListByRecipient(ctx, uid, c.QueryParam("unread") == "true", limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list notifications failed"})
	}
	out := make([]notificationResp, 0, len(list))
	for _, n := range list {
		out = append(out, notificationResp{
			ID:        n.ID,
			Type:      n.Type,
			Message:   n.Message,
			Source:    n.Source,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Count returns the unread badge value, recomputed on every call.
func (h *NotificationHandler) Count(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notifications.CountUnread(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

// MarkRead marks notifications read by explicit ids, by type (used by
// pages that auto-mark their types on visit) or all at once.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req markReadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch {
	case req.All:
		err = h.Notifications.MarkAllRead(ctx, uid)
	case len(req.IDs) > 0:
		err = h.Notifications.MarkReadByIDs(ctx, uid, req.IDs)
	case len(req.Types) > 0:
		err = h.Notifications.MarkReadByTypes(ctx, uid, req.Types)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide ids, types or all"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark read failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
