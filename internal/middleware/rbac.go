package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/rentaskill/internal/apperr"
	"github.com/sudo-init-do/rentaskill/internal/identity"
)

// RequireIdentity rejects anonymous mutating requests when required is true.
// Reads stay public.
func RequireIdentity(required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !required {
				return next(c)
			}
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			if _, ok := identity.From(c.Request().Context()); !ok {
				return apperr.Unauthorized("missing session token")
			}
			return next(c)
		}
	}
}
