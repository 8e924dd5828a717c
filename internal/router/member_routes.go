package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/church-agenda/internal/handler"
	"github.com/iliyamo/church-agenda/internal/middleware"
	"github.com/iliyamo/church-agenda/internal/model"
)

// MemberHandlers bundles the handlers reachable by every authenticated
// role.
type MemberHandlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Spaces        *handler.SpaceHandler
	Reservations  *handler.ReservationHandler
	Meetings      *handler.MeetingRequestHandler
	Schedule      *handler.ScheduleHandler
	Calendar      *handler.CalendarHandler
	Notifications *handler.NotificationHandler
}

// RegisterMember registers endpoints shared by all roles under /v1. All
// routes require a valid JWT; per-entry redaction and ownership checks
// happen in the services. The cacheMW middleware, when non-nil, is
// applied to the calendar reads only — every other endpoint reflects
// writes immediately.
func RegisterMember(e *echo.Echo, h MemberHandlers, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePastor, model.RoleSecretary, model.RoleLeader),
	)

	g.GET("/me", h.Auth.Me)
	g.PUT("/me", h.Users.UpdateProfile)

	// ---- Spaces (read-only here; writes are staff routes) ----
	g.GET("/spaces", h.Spaces.List)
	g.GET("/spaces/:id", h.Spaces.Get)

	// ---- Reservations ----
	g.POST("/reservations", h.Reservations.Create)
	g.GET("/reservations", h.Reservations.List)
	g.GET("/reservations/check-conflict", h.Reservations.CheckConflict)
	g.POST("/reservations/:id/cancel", h.Reservations.Cancel)

	// ---- Meeting requests ----
	g.POST("/meeting-requests", h.Meetings.Create)
	g.GET("/meeting-requests", h.Meetings.List)

	// ---- Pastor schedule (redacted per viewer inside the handler) ----
	g.GET("/schedule", h.Schedule.List)

	// ---- Calendar ----
	calendar := g.Group("")
	if cacheMW != nil {
		calendar.Use(cacheMW)
	}
	calendar.GET("/calendar", h.Calendar.Events)
	calendar.GET("/calendar/availability", h.Calendar.Availability)

	// ---- Notifications ----
	g.GET("/notifications", h.Notifications.List)
	g.GET("/notifications/count", h.Notifications.Count)
	g.POST("/notifications/read", h.Notifications.MarkRead)
}
