package transport

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"acapulcoWs/internal/modules/ordering/application/usecase"
	"acapulcoWs/internal/modules/ordering/domain"
	"acapulcoWs/internal/shared/auth"
	"acapulcoWs/internal/shared/httputil"
)

var storefrontErrors = httputil.NewErrorMapper().
	WithMapping(usecase.ErrSessionNotFound, http.StatusNotFound, "session not found").
	WithMapping(usecase.ErrDishNotFound, http.StatusNotFound, "dish not on today's menu").
	WithMapping(usecase.ErrSideNotFound, http.StatusNotFound, "side not available today").
	WithMapping(usecase.ErrItemNotFound, http.StatusNotFound, "item not found").
	WithMapping(usecase.ErrLineNotFound, http.StatusNotFound, "cart line not found").
	WithMapping(usecase.ErrNoInteraction, http.StatusConflict, "no side selection open").
	WithMapping(usecase.ErrInteractionStale, http.StatusConflict, "side selection was replaced or closed").
	WithMapping(usecase.ErrCatalogUnavailable, http.StatusServiceUnavailable, "menu unavailable, try again").
	WithMapping(usecase.ErrSettingsUnavailable, http.StatusServiceUnavailable, "settings unavailable, try again").
	WithMapping(usecase.ErrSubmitFailed, http.StatusBadGateway, "order could not be submitted, try again")

// StorefrontHandler exposes the customer ordering flow under /api.
type StorefrontHandler struct {
	uc    *usecase.OrderingUseCase
	hours domain.BusinessHours
}

func NewStorefrontHandler(uc *usecase.OrderingUseCase, hours domain.BusinessHours) *StorefrontHandler {
	if len(hours) == 0 {
		hours = domain.DefaultBusinessHours
	}
	return &StorefrontHandler{uc: uc, hours: hours}
}

// Register mounts the storefront routes. checkoutMW runs in front of the
// checkout route only, typically auth.Identify so signed-in customers get
// the order linked to their account.
func (h *StorefrontHandler) Register(g *echo.Group, checkoutMW ...echo.MiddlewareFunc) {
	g.GET("/menu/today", h.menu)
	g.GET("/time/normalize", h.normalizeTime)
	g.GET("/time/finalize", h.finalizeTime)

	g.POST("/sessions", h.createSession)
	s := g.Group("/sessions/:session")
	s.GET("/cart", h.cart)
	s.POST("/dishes", h.pickDish)
	s.POST("/items", h.addItem)
	s.POST("/standalone-sides", h.addStandaloneSide)
	s.PATCH("/lines/:line", h.updateQuantity)
	s.DELETE("/lines/:line", h.removeLine)
	s.DELETE("/lines", h.clear)
	s.PUT("/notes", h.setNotes)
	s.POST("/checkout", h.checkout, checkoutMW...)

	s.POST("/sides/refresh", h.refreshSides)
	s.POST("/sides/confirm", h.confirmSides)
	s.DELETE("/sides", h.cancelSides)
	s.POST("/sides/:side/free", h.toggleFree)
	s.POST("/sides/:side/extra", h.incrementExtra)
	s.DELETE("/sides/:side/extra", h.decrementExtra)
}

type pickDishRequest struct {
	DishID        string `json:"dishId"`
	ReplaceLineID string `json:"replaceLineId"`
}

type addItemRequest struct {
	ItemID string `json:"itemId"`
}

type standaloneSideRequest struct {
	SideID  string `json:"sideId"`
	Portion string `json:"portion"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type confirmSidesRequest struct {
	NoSides bool `json:"noSides"`
}

type timeResponse struct {
	Value       string `json:"value"`
	WithinHours *bool  `json:"withinHours,omitempty"`
	Hours       string `json:"hours,omitempty"`
}

func (h *StorefrontHandler) menu(c echo.Context) error {
	view, err := h.uc.Menu(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// normalizeTime formats a partially typed time while the customer types.
func (h *StorefrontHandler) normalizeTime(c echo.Context) error {
	return c.JSON(http.StatusOK, timeResponse{Value: domain.NormalizeTimeInput(c.QueryParam("value"))})
}

// finalizeTime completes the time when the field loses focus and reports
// whether it falls within business hours.
func (h *StorefrontHandler) finalizeTime(c echo.Context) error {
	value := domain.FinalizeTimeOnBlur(c.QueryParam("value"))
	resp := timeResponse{Value: value, Hours: h.hours.String()}
	if value != "" {
		within := h.hours.Contains(value)
		resp.WithinHours = &within
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *StorefrontHandler) createSession(c echo.Context) error {
	return c.JSON(http.StatusCreated, h.uc.NewSession())
}

func (h *StorefrontHandler) cart(c echo.Context) error {
	view, err := h.uc.Cart(c.Param("session"))
	return cartResult(c, view, err)
}

func (h *StorefrontHandler) pickDish(c echo.Context) error {
	var req pickDishRequest
	if err := c.Bind(&req); err != nil || req.DishID == "" {
		return badRequest(c, "dishId is required")
	}
	outcome, err := h.uc.PickDish(c.Request().Context(), c.Param("session"), req.DishID, req.ReplaceLineID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, outcome)
}

func (h *StorefrontHandler) addItem(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil || req.ItemID == "" {
		return badRequest(c, "itemId is required")
	}
	view, err := h.uc.AddSimpleItem(c.Param("session"), req.ItemID)
	return cartResult(c, view, err)
}

func (h *StorefrontHandler) addStandaloneSide(c echo.Context) error {
	var req standaloneSideRequest
	if err := c.Bind(&req); err != nil || req.SideID == "" {
		return badRequest(c, "sideId is required")
	}
	portion, ok := domain.ParsePortion(req.Portion)
	if !ok {
		return badRequest(c, "portion must be half or full")
	}
	view, err := h.uc.AddStandaloneSide(c.Request().Context(), c.Param("session"), req.SideID, portion)
	return cartResult(c, view, err)
}

func (h *StorefrontHandler) updateQuantity(c echo.Context) error {
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "quantity is required")
	}
	view, err := h.uc.UpdateQuantity(c.Param("session"), c.Param("line"), req.Quantity)
	return cartResult(c, view, err)
}

func (h *StorefrontHandler) removeLine(c echo.Context) error {
	view, err := h.uc.RemoveLine(c.Param("session"), c.Param("line"))
	return cartResult(c, view, err)
}

func (h *StorefrontHandler) clear(c echo.Context) error {
	view, err := h.uc.ClearCart(c.Param("session"))
	return cartResult(c, view, err)
}

func (h *StorefrontHandler) setNotes(c echo.Context) error {
	var req notesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid notes")
	}
	view, err := h.uc.SetNotes(c.Param("session"), req.Notes)
	return cartResult(c, view, err)
}

func (h *StorefrontHandler) checkout(c echo.Context) error {
	var form domain.CheckoutForm
	if err := c.Bind(&form); err != nil {
		return badRequest(c, "invalid checkout form")
	}
	form.CustomerID = ""
	if claims, ok := auth.ClaimsFrom(c); ok {
		form.CustomerID = claims.Subject
	}
	outcome, err := h.uc.Checkout(c.Request().Context(), c.Param("session"), form)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, outcome)
}

func (h *StorefrontHandler) refreshSides(c echo.Context) error {
	view, err := h.uc.RefreshSides(c.Request().Context(), c.Param("session"))
	return interactionResult(c, view, err)
}

func (h *StorefrontHandler) confirmSides(c echo.Context) error {
	var req confirmSidesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	view, err := h.uc.ConfirmSides(c.Param("session"), req.NoSides)
	return cartResult(c, view, err)
}

func (h *StorefrontHandler) cancelSides(c echo.Context) error {
	view, err := h.uc.CancelSides(c.Param("session"))
	return cartResult(c, view, err)
}

func (h *StorefrontHandler) toggleFree(c echo.Context) error {
	view, err := h.uc.ToggleFreeSide(c.Param("session"), c.Param("side"))
	return interactionResult(c, view, err)
}

func (h *StorefrontHandler) incrementExtra(c echo.Context) error {
	view, err := h.uc.IncrementExtra(c.Param("session"), c.Param("side"))
	return interactionResult(c, view, err)
}

func (h *StorefrontHandler) decrementExtra(c echo.Context) error {
	view, err := h.uc.DecrementExtra(c.Param("session"), c.Param("side"))
	return interactionResult(c, view, err)
}

func cartResult(c echo.Context, view usecase.CartView, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func interactionResult(c echo.Context, view usecase.InteractionView, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// respondError reports checkout rule rejections with their customer-facing
// text and maps everything else through storefrontErrors.
func respondError(c echo.Context, err error) error {
	var rule *domain.ValidationError
	if errors.As(err, &rule) {
		return c.JSON(http.StatusUnprocessableEntity, httputil.ErrorBody{Error: rule.Message, Description: rule.Description})
	}
	return storefrontErrors.Respond(c, err)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: message})
}
