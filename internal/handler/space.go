package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/repository"
)

// SpaceHandler exposes the bookable-space catalog. Reads are open to
// every authenticated user; writes are registered behind the staff role
// middleware.
type SpaceHandler struct {
	Spaces *repository.SpaceRepo
}

func NewSpaceHandler(spaces *repository.SpaceRepo) *SpaceHandler {
	if spaces == nil {
		panic("nil repository passed to NewSpaceHandler")
	}
	return &SpaceHandler{Spaces: spaces}
}

type spaceReq struct {
	Name             string  `json:"name" validate:"required,min=2,max=120"`
	SpaceType        string  `json:"space_type" validate:"required,oneof=TEMPLE ROOM HALL STUDIO"`
	Capacity         *uint32 `json:"capacity" validate:"omitempty,gt=0"`
	Description      *string `json:"description"`
	RequiresApproval bool    `json:"requires_approval"`
	IsActive         *bool   `json:"is_active"`
}

type spaceResp struct {
	ID               uint64  `json:"id"`
	Name             string  `json:"name"`
	SpaceType        string  `json:"space_type"`
	Capacity         *uint32 `json:"capacity,omitempty"`
	Description      *string `json:"description,omitempty"`
	RequiresApproval bool    `json:"requires_approval"`
	IsActive         bool    `json:"is_active"`
}

func toSpaceResp(s model.Space) spaceResp {
	return spaceResp{
		ID:               s.ID,
		Name:             s.Name,
		SpaceType:        s.SpaceType,
		Capacity:         s.Capacity,
		Description:      s.Description,
		RequiresApproval: s.RequiresApproval,
		IsActive:         s.IsActive,
	}
}

// Create adds a space to the catalog. New spaces are active unless the
// request says otherwise.
func (h *SpaceHandler) Create(c echo.Context) error {
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.Space{
		Name:             req.Name,
		SpaceType:        req.SpaceType,
		Capacity:         req.Capacity,
		Description:      req.Description,
		RequiresApproval: req.RequiresApproval,
		IsActive:         true,
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if err := h.Spaces.Create(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create space failed"})
	}
	return c.JSON(http.StatusCreated, toSpaceResp(s))
}

// List returns the catalog. ?active=true narrows it to spaces accepting
// new reservations.
func (h *SpaceHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	spaces, err := h.Spaces.List(ctx, c.QueryParam("active") == "true")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list spaces failed"})
	}
	out := make([]spaceResp, 0, len(spaces))
	for _, s := range spaces {
		out = append(out, toSpaceResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one space by id.
func (h *SpaceHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Spaces.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load space failed"})
	}
	return c.JSON(http.StatusOK, toSpaceResp(s))
}

// Update rewrites a space's mutable fields.
func (h *SpaceHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Spaces.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load space failed"})
	}

	s.Name = req.Name
	s.SpaceType = req.SpaceType
	s.Capacity = req.Capacity
	s.Description = req.Description
	s.RequiresApproval = req.RequiresApproval
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if err := h.Spaces.Update(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update space failed"})
	}
	return c.JSON(http.StatusOK, toSpaceResp(s))
}
