package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/church-agenda/internal/handler"
	"github.com/iliyamo/church-agenda/internal/middleware"
	"github.com/iliyamo/church-agenda/internal/model"
)

// StaffHandlers bundles the handlers restricted to PASTOR and SECRETARY.
type StaffHandlers struct {
	Users        *handler.UserHandler
	Spaces       *handler.SpaceHandler
	Reservations *handler.ReservationHandler
	Meetings     *handler.MeetingRequestHandler
	Schedule     *handler.ScheduleHandler
}

// RegisterStaff registers staff-only endpoints under /v1. All routes
// require a valid JWT with a PASTOR or SECRETARY role; the services
// re-check privilege so these invariants do not rest on routing alone.
func RegisterStaff(e *echo.Echo, h StaffHandlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePastor, model.RoleSecretary),
	)

	// ---- Space catalog management ----
	g.POST("/spaces", h.Spaces.Create)
	g.PUT("/spaces/:id", h.Spaces.Update)
	g.PATCH("/spaces/:id", h.Spaces.Update)

	// ---- Reservation decisions ----
	g.PATCH("/reservations/:id/decision", h.Reservations.Decide)

	// ---- Meeting request decisions ----
	g.PATCH("/meeting-requests/:id/decision", h.Meetings.Decide)
	g.GET("/meeting-requests/unseen-count", h.Meetings.UnseenCount)

	// ---- Pastor agenda (the visibility-resolved list is a member route) ----
	g.POST("/schedule", h.Schedule.Create)
	g.PUT("/schedule/:id", h.Schedule.Update)
	g.PATCH("/schedule/:id", h.Schedule.Update)
	g.DELETE("/schedule/:id", h.Schedule.Delete)

	// ---- User management ----
	g.GET("/users", h.Users.List)
	g.PUT("/users/:id/role", h.Users.SetRole)
	g.PUT("/users/:id/active", h.Users.SetActive)
}
