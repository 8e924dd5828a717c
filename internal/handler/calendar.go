package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/church-agenda/internal/service"
)

// CalendarHandler serves the merged church calendar and per-space
// availability.
type CalendarHandler struct {
	Calendar *service.CalendarService
}

func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	if calendar == nil {
		panic("nil service passed to NewCalendarHandler")
	}
	return &CalendarHandler{Calendar: calendar}
}

// Events returns approved reservations and agenda entries overlapping
// ?from=&to= (RFC 3339), merged and visibility-resolved for the acting
// viewer. ?space_id= narrows the reservation side to one space.
func (h *CalendarHandler) Events(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be RFC 3339"})
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be RFC 3339"})
	}
	spaceID, err := optionalSpaceID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space_id"})
	}

	events, err := h.Calendar.ListEvents(c.Request().Context(), actor, from, to, spaceID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// Availability returns the free/busy breakdown of each space for
// ?date=YYYY-MM-DD within operating hours.
func (h *CalendarHandler) Availability(c echo.Context) error {
	day, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	spaceID, err := optionalSpaceID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space_id"})
	}

	out, err := h.Calendar.DayAvailability(c.Request().Context(), day, spaceID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func optionalSpaceID(c echo.Context) (*uint64, error) {
	raw := c.QueryParam("space_id")
	if raw == "" {
		return nil, nil
	}
	id, err := parseUintParam(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
