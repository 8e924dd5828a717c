package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/repository"
	"github.com/iliyamo/church-agenda/internal/schedule"
)

// ScheduleHandler manages pastor agenda entries directly, including
// BLOCK entries that reserve time without details. Writes are staff
// only; the list is open to every role but visibility-resolved.
type ScheduleHandler struct {
	Schedule *repository.ScheduleRepo
}

func NewScheduleHandler(schedule *repository.ScheduleRepo) *ScheduleHandler {
	if schedule == nil {
		panic("nil repository passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Schedule: schedule}
}

type scheduleEntryReq struct {
	Title     string    `json:"title" validate:"required,min=2,max=200"`
	EntryType string    `json:"entry_type" validate:"required,oneof=MEETING COUNSELING PREACHING TRAVEL PERSONAL BLOCK"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required"`
	IsPublic  bool      `json:"is_public"`
	Notes     *string   `json:"notes"`
}

type scheduleEntryResp struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	EntryType   string    `json:"entry_type"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	IsPublic    bool      `json:"is_public"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedBy   uint64    `json:"created_by"`
	RequestedBy *uint64   `json:"requested_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toScheduleEntryResp(e model.ScheduleEntry) scheduleEntryResp {
	return scheduleEntryResp{
		ID:          e.ID,
		Title:       e.Title,
		EntryType:   e.EntryType,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		IsPublic:    e.IsPublic,
		Notes:       e.Notes,
		CreatedBy:   e.CreatedBy,
		RequestedBy: e.RequestedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// Create adds an agenda entry authored by the acting staff member.
func (h *ScheduleHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req scheduleEntryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !req.EndsAt.After(req.StartsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be after start"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e := model.ScheduleEntry{
		Title:     req.Title,
		EntryType: req.EntryType,
		StartsAt:  req.StartsAt.UTC(),
		EndsAt:    req.EndsAt.UTC(),
		IsPublic:  req.IsPublic,
		Notes:     req.Notes,
		CreatedBy: uid,
	}
	if err := h.Schedule.Create(ctx, &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create entry failed"})
	}
	return c.JSON(http.StatusCreated, toScheduleEntryResp(e))
}

// List returns entries overlapping ?from=&to= (RFC 3339), resolved for
// the acting viewer: staff see everything, leaders see public entries
// and a "Busy" placeholder for the rest.
func (h *ScheduleHandler) List(c echo.Context) error {
	role, _ := c.Get("role").(string)
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be RFC 3339"})
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be RFC 3339"})
	}
	if !to.After(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be after from"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Schedule.ListOverlapping(ctx, from.UTC(), to.UTC(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list entries failed"})
	}
	out := make([]schedule.DisclosedView, 0, len(entries))
	for _, e := range entries {
		out = append(out, schedule.Resolve(e, role))
	}
	return c.JSON(http.StatusOK, out)
}

// Update rewrites an entry's mutable fields. The back-reference to an
// originating meeting request is never changed from here.
func (h *ScheduleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req scheduleEntryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !req.EndsAt.After(req.StartsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be after start"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Schedule.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load entry failed"})
	}

	e.Title = req.Title
	e.EntryType = req.EntryType
	e.StartsAt = req.StartsAt.UTC()
	e.EndsAt = req.EndsAt.UTC()
	e.IsPublic = req.IsPublic
	e.Notes = req.Notes
	if err := h.Schedule.Update(ctx, &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update entry failed"})
	}
	return c.JSON(http.StatusOK, toScheduleEntryResp(e))
}

// Delete removes an entry from the agenda.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Schedule.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete entry failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
