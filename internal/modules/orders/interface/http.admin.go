package transport

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"acapulcoWs/internal/modules/orders/application/port"
	"acapulcoWs/internal/modules/orders/application/usecase"
	"acapulcoWs/internal/modules/orders/domain"
	"acapulcoWs/internal/modules/orders/infrastructure"
	"acapulcoWs/internal/shared/auth"
	"acapulcoWs/internal/shared/httputil"
)

var adminErrors = httputil.NewErrorMapper().
	WithMapping(port.ErrOrderNotFound, http.StatusNotFound, "order not found").
	WithMapping(usecase.ErrInvalidDay, http.StatusBadRequest, "day must be YYYY-MM-DD").
	WithMapping(domain.ErrInvalidTransition, http.StatusConflict, "status transition not allowed").
	WithMapping(domain.ErrReasonRequired, http.StatusBadRequest, "a reason is required").
	WithMapping(domain.ErrInvalidTime, http.StatusBadRequest, "time must be HH:MM").
	WithMapping(domain.ErrNoContactPhone, http.StatusUnprocessableEntity, "order has no usable customer phone").
	WithMapping(port.ErrSettings, http.StatusServiceUnavailable, "settings unavailable")

// AdminHandler exposes the kitchen board over REST.
type AdminHandler struct {
	triage   *usecase.TriageUseCase
	settings *usecase.SettingsUseCase
	export   *usecase.ExportUseCase
}

func NewAdminHandler(triage *usecase.TriageUseCase, settings *usecase.SettingsUseCase, export *usecase.ExportUseCase) *AdminHandler {
	return &AdminHandler{triage: triage, settings: settings, export: export}
}

// Register mounts the admin routes on g, which is expected to be guarded by
// an admin role check.
func (h *AdminHandler) Register(g *echo.Group) {
	g.GET("/orders", h.list)
	g.GET("/orders/board", h.board)
	g.GET("/orders/export", h.exportDay)
	g.GET("/orders/:id", h.get)
	g.POST("/orders/:id/accept", h.accept)
	g.POST("/orders/:id/reject", h.reject)
	g.POST("/orders/:id/adjust", h.adjust)
	g.POST("/orders/:id/prepare", h.prepare)
	g.POST("/orders/:id/complete", h.complete)
	g.POST("/orders/:id/reprint", h.reprint)
	g.GET("/orders/:id/notification", h.notification)

	g.GET("/settings/delivery", h.deliveryEnabled)
	g.PUT("/settings/delivery", h.setDeliveryEnabled)
}

// RegisterPublic mounts the read-only settings the storefront needs.
func (h *AdminHandler) RegisterPublic(g *echo.Group) {
	g.GET("/settings/delivery", h.deliveryEnabled)
}

type acceptRequest struct {
	ConfirmedTime string `json:"confirmedTime"`
	Note          string `json:"note"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type adjustRequest struct {
	Reason  string `json:"reason"`
	NewTime string `json:"newTime"`
}

type deliveryRequest struct {
	Enabled *bool `json:"enabled"`
}

type deliveryResponse struct {
	Enabled bool `json:"enabled"`
}

func (h *AdminHandler) day(c echo.Context) string {
	if day := strings.TrimSpace(c.QueryParam("day")); day != "" {
		return day
	}
	return h.triage.Today()
}

func (h *AdminHandler) list(c echo.Context) error {
	statuses, err := parseStatuses(c.QueryParam("status"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: err.Error()})
	}
	orders, err := h.triage.Orders(c.Request().Context(), h.day(c), statuses)
	if err != nil {
		return adminErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) board(c echo.Context) error {
	board, err := h.triage.Board(c.Request().Context(), h.day(c))
	if err != nil {
		return adminErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, board)
}

func (h *AdminHandler) get(c echo.Context) error {
	order, err := h.triage.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return adminErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *AdminHandler) accept(c echo.Context) error {
	var req acceptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "invalid body"})
	}
	result, err := h.triage.Accept(c.Request().Context(), c.Param("id"), req.ConfirmedTime, req.Note)
	return actionResult(c, result, err)
}

func (h *AdminHandler) reject(c echo.Context) error {
	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "invalid body"})
	}
	result, err := h.triage.Reject(c.Request().Context(), c.Param("id"), req.Reason)
	return actionResult(c, result, err)
}

func (h *AdminHandler) adjust(c echo.Context) error {
	var req adjustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "invalid body"})
	}
	result, err := h.triage.Adjust(c.Request().Context(), c.Param("id"), req.Reason, req.NewTime)
	return actionResult(c, result, err)
}

func (h *AdminHandler) prepare(c echo.Context) error {
	order, err := h.triage.StartPreparing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return adminErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *AdminHandler) complete(c echo.Context) error {
	order, err := h.triage.Complete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return adminErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *AdminHandler) reprint(c echo.Context) error {
	result, err := h.triage.Reprint(c.Request().Context(), c.Param("id"))
	return actionResult(c, result, err)
}

func (h *AdminHandler) notification(c echo.Context) error {
	kind, ok := domain.ParseMessageKind(c.QueryParam("kind"))
	if !ok {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "kind must be accepted, edited or rejected"})
	}
	result, err := h.triage.Notification(c.Request().Context(), c.Param("id"), kind)
	return actionResult(c, result, err)
}

func (h *AdminHandler) exportDay(c echo.Context) error {
	day := h.day(c)
	var buf bytes.Buffer
	if err := h.export.Export(c.Request().Context(), day, &buf); err != nil {
		return adminErrors.Respond(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="pedidos-%s.xlsx"`, day))
	return c.Blob(http.StatusOK, infrastructure.XLSXContentType, buf.Bytes())
}

func (h *AdminHandler) deliveryEnabled(c echo.Context) error {
	enabled, err := h.settings.DeliveryEnabled(c.Request().Context())
	if err != nil {
		return adminErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, deliveryResponse{Enabled: enabled})
}

func (h *AdminHandler) setDeliveryEnabled(c echo.Context) error {
	var req deliveryRequest
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: "enabled is required"})
	}
	if err := h.settings.SetDeliveryEnabled(c.Request().Context(), *req.Enabled); err != nil {
		return adminErrors.Respond(c, err)
	}
	slog.Info("delivery toggled", slog.Bool("enabled", *req.Enabled), slog.String("admin", actor(c)))
	return c.JSON(http.StatusOK, deliveryResponse{Enabled: *req.Enabled})
}

func actionResult(c echo.Context, result usecase.ActionResult, err error) error {
	if err != nil {
		return adminErrors.Respond(c, err)
	}
	slog.Info("order action", slog.String("path", c.Path()), slog.String("orderId", c.Param("id")), slog.String("admin", actor(c)))
	return c.JSON(http.StatusOK, result)
}

// actor names the admin behind the request, empty on unauthenticated routes.
func actor(c echo.Context) string {
	if claims, ok := auth.ClaimsFrom(c); ok {
		return claims.Subject
	}
	return ""
}

// parseStatuses reads a comma separated status filter. Empty means all.
func parseStatuses(raw string) ([]domain.Status, error) {
	var statuses []domain.Status
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		status, ok := domain.NormalizeStatus(part)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", strings.TrimSpace(part))
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
