package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// detailBody matches the {"detail": "..."} error envelope of the API.
type detailBody struct {
	Detail string `json:"detail"`
	Code   Code   `json:"code,omitempty"`
}

// EchoErrorHandler renders service errors with their mapped status and logs
// everything that surfaces as a 5xx. Persistence faults are deliberately not
// distinguished from other internal errors.
func EchoErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := detailBody{Detail: "internal server error"}

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = HTTPStatus(appErr.Code)
			body = detailBody{Detail: appErr.Message, Code: appErr.Code}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				body.Detail = msg
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
