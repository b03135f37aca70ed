package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const genericMessage = "internal server error"

// HTTPErrorHandler renders errors as {"error": message}. When exposeCause is
// false, 5xx responses carry a generic message and the cause is only logged.
func HTTPErrorHandler(logger zerolog.Logger, exposeCause bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := genericMessage

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = StatusOf(err)
			message = appErr.Message
			if status >= http.StatusInternalServerError && appErr.Cause != nil && exposeCause {
				message = appErr.Cause.Error()
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		default:
			if exposeCause {
				message = err.Error()
			}
		}

		if status >= http.StatusInternalServerError {
			if !exposeCause {
				message = genericMessage
			}
			logger.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", status).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"error": message})
	}
}
