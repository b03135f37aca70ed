package middleware

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/apperr"
	"github.com/sudo-init-do/rentaskill/internal/identity"
)

const bearerPrefix = "Bearer "

// Session verifies an optional bearer token issued by the identity provider
// and attaches the caller to the request context. Requests without a token
// pass through anonymously; RequireIdentity decides whether that is allowed.
func Session(secret []byte, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}
			if !strings.HasPrefix(header, bearerPrefix) || len(header) == len(bearerPrefix) {
				return apperr.Unauthorized("invalid Authorization format")
			}
			if len(secret) == 0 {
				logger.Warn().Msg("bearer token received but no session secret configured")
				return apperr.Unauthorized("session verification unavailable")
			}

			id, err := ParseToken(header[len(bearerPrefix):], secret)
			if err != nil {
				logger.Debug().Err(err).Msg("rejected session token")
				return apperr.Unauthorized("invalid or expired token")
			}

			c.Set("user_id", id.UserID)
			c.Set("user_type", id.UserType)
			c.SetRequest(c.Request().WithContext(identity.With(c.Request().Context(), id)))
			return next(c)
		}
	}
}

// ParseToken validates an HS256 token and extracts the caller. The subject
// claim is the user id; user_metadata.user_type is optional.
func ParseToken(tokenStr string, secret []byte) (identity.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return identity.Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return identity.Identity{}, errors.New("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return identity.Identity{}, errors.New("token has no subject")
	}

	id := identity.Identity{UserID: sub}
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		id.UserType, _ = meta["user_type"].(string)
	}
	return id, nil
}
