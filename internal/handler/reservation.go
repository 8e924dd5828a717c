package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/service"
)

// ReservationHandler exposes space-booking endpoints backed by the
// reservation state machine.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	if reservations == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations}
}

type createReservationReq struct {
	SpaceID        uint64    `json:"space_id" validate:"required"`
	Title          string    `json:"title" validate:"required,min=2,max=200"`
	EventType      string    `json:"event_type" validate:"required"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required"`
	AttendeesCount *uint32   `json:"attendees_count" validate:"omitempty,gt=0"`
	Resources      []string  `json:"resources"`
	ResourceNotes  *string   `json:"resource_notes"`
}

type decideReservationReq struct {
	Status       string  `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	ResponseNote *string `json:"response_note"`
}

type reservationResp struct {
	ID             uint64    `json:"id"`
	SpaceID        uint64    `json:"space_id"`
	RequestedBy    uint64    `json:"requested_by"`
	Title          string    `json:"title"`
	EventType      string    `json:"event_type"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	AttendeesCount *uint32   `json:"attendees_count,omitempty"`
	Resources      []string  `json:"resources"`
	ResourceNotes  *string   `json:"resource_notes,omitempty"`
	Status         string    `json:"status"`
	ResponseNote   *string   `json:"response_note,omitempty"`
	ApprovedBy     *uint64   `json:"approved_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toReservationResp(r model.Reservation) reservationResp {
	resources := r.Resources
	if resources == nil {
		resources = []string{}
	}
	return reservationResp{
		ID:             r.ID,
		SpaceID:        r.SpaceID,
		RequestedBy:    r.RequestedBy,
		Title:          r.Title,
		EventType:      r.EventType,
		StartsAt:       r.StartsAt,
		EndsAt:         r.EndsAt,
		AttendeesCount: r.AttendeesCount,
		Resources:      resources,
		ResourceNotes:  r.ResourceNotes,
		Status:         r.Status,
		ResponseNote:   r.ResponseNote,
		ApprovedBy:     r.ApprovedBy,
		CreatedAt:      r.CreatedAt,
	}
}

// Create submits a new booking for the acting user.
func (h *ReservationHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.Reservations.Create(c.Request().Context(), actor, service.CreateReservationInput{
		SpaceID:        req.SpaceID,
		Title:          req.Title,
		EventType:      req.EventType,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		AttendeesCount: req.AttendeesCount,
		Resources:      req.Resources,
		ResourceNotes:  req.ResourceNotes,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationResp(*res))
}

// List returns the bookings visible to the acting user.
func (h *ReservationHandler) List(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	list, err := h.Reservations.ListFor(c.Request().Context(), actor)
	if err != nil {
		return writeServiceError(c, err)
	}
	out := make([]reservationResp, 0, len(list))
	for _, r := range list {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// CheckConflict runs the advisory overlap check clients call before
// submitting: ?space_id=&starts_at=&ends_at= (RFC 3339).
func (h *ReservationHandler) CheckConflict(c echo.Context) error {
	spaceID, err := parseUintParam(c.QueryParam("space_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "space_id required"})
	}
	start, err := time.Parse(time.RFC3339, c.QueryParam("starts_at"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("ends_at"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC 3339"})
	}

	conflict, err := h.Reservations.CheckConflict(c.Request().Context(), spaceID, start, end)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"conflict": conflict})
}

// Decide approves or rejects a pending booking. Staff only (enforced by
// route middleware and re-checked in the service).
func (h *ReservationHandler) Decide(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req decideReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.Reservations.Decide(c.Request().Context(), actor, id, req.Status, req.ResponseNote)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(*res))
}

// Cancel moves an approved booking to CANCELLED, freeing the slot.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	res, err := h.Reservations.Cancel(c.Request().Context(), actor, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(*res))
}
