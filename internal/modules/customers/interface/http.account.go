package transport

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"acapulcoWs/internal/modules/customers/application/port"
	"acapulcoWs/internal/modules/customers/application/usecase"
	"acapulcoWs/internal/modules/customers/domain"
	"acapulcoWs/internal/shared/auth"
	"acapulcoWs/internal/shared/httputil"
)

var accountErrors = httputil.NewErrorMapper().
	WithMapping(usecase.ErrNoCustomer, http.StatusUnauthorized, "sign in required").
	WithMapping(port.ErrProfileNotFound, http.StatusNotFound, "profile not found").
	WithMapping(domain.ErrAddressNotFound, http.StatusNotFound, "address not found").
	WithMapping(domain.ErrNameTooShort, http.StatusUnprocessableEntity, "O nome é obrigatório (mínimo 2 letras).").
	WithMapping(domain.ErrPhoneInvalid, http.StatusUnprocessableEntity, "Informe um telefone válido (mínimo 9 dígitos).").
	WithMapping(domain.ErrAddressTooShort, http.StatusUnprocessableEntity, "Informe a morada para entrega.")

// AccountHandler serves the signed-in customer's profile, address book and
// order history.
type AccountHandler struct {
	uc *usecase.AccountUseCase
}

func NewAccountHandler(uc *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// Register mounts the account routes on g, which must run auth.RequireRole
// so the claims are available.
func (h *AccountHandler) Register(g *echo.Group) {
	g.GET("/profile", h.profile)
	g.PUT("/profile", h.updateProfile)
	g.GET("/checkout-prefill", h.prefill)
	g.GET("/orders", h.orders)

	g.GET("/addresses", h.addresses)
	g.POST("/addresses", h.addAddress)
	g.GET("/addresses/default", h.defaultAddress)
	g.PUT("/addresses/default", h.saveDefaultAddress)
	g.POST("/addresses/:id/default", h.setDefault)
	g.DELETE("/addresses/:id", h.deleteAddress)
}

type addressLineRequest struct {
	Line string `json:"addressLine"`
}

func customerID(c echo.Context) string {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return ""
	}
	return claims.Subject
}

func (h *AccountHandler) profile(c echo.Context) error {
	profile, err := h.uc.Profile(c.Request().Context(), customerID(c))
	if err != nil {
		return accountErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *AccountHandler) updateProfile(c echo.Context) error {
	var changes domain.ProfileChanges
	if err := c.Bind(&changes); err != nil {
		return badRequest(c, "invalid profile")
	}
	profile, err := h.uc.UpdateProfile(c.Request().Context(), customerID(c), changes)
	if err != nil {
		return accountErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *AccountHandler) prefill(c echo.Context) error {
	prefill, err := h.uc.Prefill(c.Request().Context(), customerID(c))
	if err != nil {
		return accountErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, prefill)
}

func (h *AccountHandler) orders(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest(c, "limit must be a positive number")
		}
		limit = n
	}
	list, err := h.uc.Orders(c.Request().Context(), customerID(c), limit)
	if err != nil {
		return accountErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AccountHandler) addresses(c echo.Context) error {
	list, err := h.uc.Addresses(c.Request().Context(), customerID(c))
	if err != nil {
		return accountErrors.Respond(c, err)
	}
	if list == nil {
		list = []domain.Address{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AccountHandler) addAddress(c echo.Context) error {
	var input domain.AddressInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "invalid address")
	}
	address, err := h.uc.AddAddress(c.Request().Context(), customerID(c), input)
	if err != nil {
		return accountErrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, address)
}

// defaultAddress answers 204 when the address book is empty.
func (h *AccountHandler) defaultAddress(c echo.Context) error {
	address, ok, err := h.uc.DefaultAddress(c.Request().Context(), customerID(c))
	if err != nil {
		return accountErrors.Respond(c, err)
	}
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, address)
}

func (h *AccountHandler) saveDefaultAddress(c echo.Context) error {
	var req addressLineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid address")
	}
	address, err := h.uc.SaveDefaultAddress(c.Request().Context(), customerID(c), req.Line)
	if err != nil {
		return accountErrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, address)
}

func (h *AccountHandler) setDefault(c echo.Context) error {
	if err := h.uc.SetDefaultAddress(c.Request().Context(), customerID(c), c.Param("id")); err != nil {
		return accountErrors.Respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) deleteAddress(c echo.Context) error {
	if err := h.uc.DeleteAddress(c.Request().Context(), customerID(c), c.Param("id")); err != nil {
		return accountErrors.Respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, httputil.ErrorBody{Error: message})
}
