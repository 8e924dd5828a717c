package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/service"
)

// MeetingRequestHandler exposes the pastor meeting-request workflow.
type MeetingRequestHandler struct {
	Requests *service.MeetingRequestService
}

func NewMeetingRequestHandler(requests *service.MeetingRequestService) *MeetingRequestHandler {
	if requests == nil {
		panic("nil service passed to NewMeetingRequestHandler")
	}
	return &MeetingRequestHandler{Requests: requests}
}

type createMeetingReq struct {
	Reason           string    `json:"reason" validate:"required,min=3,max=2000"`
	Modality         string    `json:"modality" validate:"required,oneof=IN_PERSON ONLINE"`
	IsAllDay         bool      `json:"is_all_day"`
	EstimatedMinutes uint32    `json:"estimated_minutes" validate:"omitempty,gt=0,lte=480"`
	SuggestedAt      time.Time `json:"suggested_at" validate:"required"`
}

type decideMeetingReq struct {
	Status       string     `json:"status" validate:"required,oneof=APPROVED REJECTED RESCHEDULED"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
	ResponseNote *string    `json:"response_note"`
}

type meetingRequestResp struct {
	ID               uint64     `json:"id"`
	RequestedBy      uint64     `json:"requested_by"`
	Reason           string     `json:"reason"`
	Modality         string     `json:"modality"`
	IsAllDay         bool       `json:"is_all_day"`
	EstimatedMinutes uint32     `json:"estimated_minutes"`
	SuggestedAt      time.Time  `json:"suggested_at"`
	Status           string     `json:"status"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	ResponseNote     *string    `json:"response_note,omitempty"`
	SeenBy           []uint64   `json:"seen_by"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toMeetingRequestResp(m model.MeetingRequest) meetingRequestResp {
	seen := m.SeenBy
	if seen == nil {
		seen = []uint64{}
	}
	return meetingRequestResp{
		ID:               m.ID,
		RequestedBy:      m.RequestedBy,
		Reason:           m.Reason,
		Modality:         m.Modality,
		IsAllDay:         m.IsAllDay,
		EstimatedMinutes: m.EstimatedMinutes,
		SuggestedAt:      m.SuggestedAt,
		Status:           m.Status,
		ConfirmedAt:      m.ConfirmedAt,
		ResponseNote:     m.ResponseNote,
		SeenBy:           seen,
		CreatedAt:        m.CreatedAt,
	}
}

// Create submits a new meeting request for the acting user.
func (h *MeetingRequestHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createMeetingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.Requests.Create(c.Request().Context(), actor, service.CreateMeetingRequestInput{
		Reason:           req.Reason,
		Modality:         req.Modality,
		IsAllDay:         req.IsAllDay,
		EstimatedMinutes: req.EstimatedMinutes,
		SuggestedAt:      req.SuggestedAt,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toMeetingRequestResp(*m))
}

// List returns the requests visible to the acting user. A staff viewer
// listing also marks pending requests as seen by them.
func (h *MeetingRequestHandler) List(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	list, err := h.Requests.ListFor(c.Request().Context(), actor)
	if err != nil {
		return writeServiceError(c, err)
	}
	out := make([]meetingRequestResp, 0, len(list))
	for _, m := range list {
		out = append(out, toMeetingRequestResp(m))
	}
	return c.JSON(http.StatusOK, out)
}

// UnseenCount returns the staff unread badge value.
func (h *MeetingRequestHandler) UnseenCount(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	n, err := h.Requests.UnseenCount(c.Request().Context(), actor)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

// Decide approves, rejects or reschedules a pending request.
func (h *MeetingRequestHandler) Decide(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req decideMeetingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.Requests.Decide(c.Request().Context(), actor, id, service.DecideMeetingRequestInput{
		Status:       req.Status,
		ConfirmedAt:  req.ConfirmedAt,
		ResponseNote: req.ResponseNote,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toMeetingRequestResp(*m))
}
