package transport

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"acapulcoWs/internal/modules/menu/application/port"
	"acapulcoWs/internal/modules/menu/application/usecase"
	"acapulcoWs/internal/modules/menu/domain"
	"acapulcoWs/internal/shared/httputil"
)

var menuErrors = httputil.NewErrorMapper().
	WithMapping(usecase.ErrInvalidDay, http.StatusBadRequest, "day must be YYYY-MM-DD").
	WithMapping(usecase.ErrInvalidGroup, http.StatusBadRequest, "unknown daily group").
	WithMapping(usecase.ErrSameDay, http.StatusBadRequest, "source and target day are the same").
	WithMapping(usecase.ErrInvalidFreeCount, http.StatusBadRequest, "free sides count must not be negative").
	WithMapping(usecase.ErrItemRequired, http.StatusBadRequest, "menu item id is required").
	WithMapping(port.ErrItemNotFound, http.StatusNotFound, "menu item not found").
	WithMapping(port.ErrMenuUnavailable, http.StatusServiceUnavailable, "menu unavailable, try again")

// MenuHandler exposes daily menu and side catalog administration.
type MenuHandler struct {
	uc *usecase.DailyMenuUseCase
}

func NewMenuHandler(uc *usecase.DailyMenuUseCase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

func (h *MenuHandler) Register(g *echo.Group) {
	g.GET("/menu/items", h.items)
	g.PUT("/menu/items/:id/sides", h.setSidesRule)

	g.GET("/menu/daily/:day", h.board)
	g.PUT("/menu/daily/:day/groups/:group", h.setGroup)
	g.POST("/menu/daily/:day/copy", h.copyDay)

	g.GET("/menu/sides", h.sides)
	g.GET("/menu/sides/template", h.templateSides)
	g.PUT("/menu/sides/template", h.setTemplateSides)
	g.GET("/menu/daily/:day/sides", h.dailySides)
	g.PUT("/menu/daily/:day/sides", h.setDailySides)
	g.POST("/menu/daily/:day/sides/ensure", h.ensureDailySides)
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

type copyRequest struct {
	FromDay string `json:"fromDay"`
}

type sidesRuleRequest struct {
	Enabled   bool `json:"enabled"`
	FreeCount *int `json:"freeCount"`
}

func (h *MenuHandler) items(c echo.Context) error {
	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))
	items, err := h.uc.Items(c.Request().Context(), activeOnly)
	if err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) setSidesRule(c echo.Context) error {
	var req sidesRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "invalid body"})
	}
	rule := domain.SidesRule{Enabled: req.Enabled, FreeCount: req.FreeCount}
	if err := h.uc.SetSidesRule(c.Request().Context(), c.Param("id"), rule); err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHandler) board(c echo.Context) error {
	board, err := h.uc.Board(c.Request().Context(), c.Param("day"))
	if err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, board)
}

func (h *MenuHandler) setGroup(c echo.Context) error {
	var req idsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "invalid body"})
	}
	group, ok := domain.ParseDailyGroup(c.Param("group"))
	if !ok {
		return menuErrors.Respond(c, usecase.ErrInvalidGroup)
	}
	if err := h.uc.SetDailyGroup(c.Request().Context(), c.Param("day"), group, req.IDs); err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHandler) copyDay(c echo.Context) error {
	var req copyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "invalid body"})
	}
	if err := h.uc.CopyDay(c.Request().Context(), req.FromDay, c.Param("day")); err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHandler) sides(c echo.Context) error {
	sides, err := h.uc.Sides(c.Request().Context())
	if err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, sides)
}

func (h *MenuHandler) templateSides(c echo.Context) error {
	ids, err := h.uc.TemplateSides(c.Request().Context())
	if err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, idsRequest{IDs: ids})
}

func (h *MenuHandler) setTemplateSides(c echo.Context) error {
	var req idsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "invalid body"})
	}
	if err := h.uc.SetTemplateSides(c.Request().Context(), req.IDs); err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHandler) dailySides(c echo.Context) error {
	sides, err := h.uc.DailySides(c.Request().Context(), c.Param("day"))
	if err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, sides)
}

func (h *MenuHandler) setDailySides(c echo.Context) error {
	var req idsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "invalid body"})
	}
	if err := h.uc.SetDailySides(c.Request().Context(), c.Param("day"), req.IDs); err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHandler) ensureDailySides(c echo.Context) error {
	sides, err := h.uc.EnsureDailySidesFromTemplate(c.Request().Context(), c.Param("day"))
	if err != nil {
		return menuErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, sides)
}
