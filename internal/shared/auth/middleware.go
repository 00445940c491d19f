package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

var ErrForbidden = errors.New("missing required role")

const claimsContextKey = "auth.claims"

// HasRole reports whether the claims carry one of roles, either as the
// account role or as a granted role. No roles means any authenticated caller.
func (c *Claims) HasRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	held := c.Roles
	if c.Role != "" {
		held = append([]string{c.Role}, c.Roles...)
	}
	for _, have := range held {
		for _, want := range roles {
			if strings.EqualFold(strings.TrimSpace(have), strings.TrimSpace(want)) {
				return true
			}
		}
	}
	return false
}

// Authorize validates the token and checks the role in one step.
func Authorize(validator TokenValidator, token string, roles ...string) (*Claims, error) {
	claims, err := validator.Validate(token)
	if err != nil {
		return nil, err
	}
	if !claims.HasRole(roles...) {
		return nil, ErrForbidden
	}
	return claims, nil
}

// RequireRole is echo middleware guarding signed-in routes. The token is read
// from the Authorization header or the token query parameter.
func RequireRole(validator TokenValidator, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := Authorize(validator, ExtractToken(c.Request(), "token"), roles...)
			if err != nil {
				status := StatusFor(err)
				slog.Warn("auth rejected", slog.String("path", c.Path()), slog.String("ip", c.RealIP()), slog.Int("status", status), slog.Any("error", err))
				return echo.NewHTTPError(status, http.StatusText(status))
			}
			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// Identify stores the caller's claims when a token is sent and lets
// anonymous requests through. A token that fails validation is rejected.
func Identify(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c.Request(), "token")
			if token == "" {
				return next(c)
			}
			claims, err := validator.Validate(token)
			if err != nil {
				status := StatusFor(err)
				slog.Warn("customer auth rejected", slog.String("path", c.Path()), slog.Int("status", status), slog.Any("error", err))
				return echo.NewHTTPError(status, http.StatusText(status))
			}
			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// APIKeyHeader carries the shared key used by server-to-server callers.
const APIKeyHeader = "X-API-Key"

// RequireAPIKeyOrRole lets a request through when it carries the shared API
// key, otherwise it falls back to RequireRole. An empty key disables the
// key check.
func RequireAPIKeyOrRole(apiKey string, validator TokenValidator, roles ...string) echo.MiddlewareFunc {
	byRole := RequireRole(validator, roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := byRole(next)
		return func(c echo.Context) error {
			given := c.Request().Header.Get(APIKeyHeader)
			if apiKey != "" && given != "" && subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) == 1 {
				return next(c)
			}
			return guarded(c)
		}
	}
}

// ClaimsFrom returns the claims stored by RequireRole.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok
}

// StatusFor maps auth errors to HTTP statuses.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
