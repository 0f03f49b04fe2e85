package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HTTPErrorHandler returns an echo error handler that shapes every error into
// the API's {"error": ...} / {"errors": [...]} body format. Unexpected errors
// are logged with full detail; the client sees a generic message unless the
// server runs in development mode.
func HTTPErrorHandler(logger zerolog.Logger, dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := map[string]interface{}{"error": "Internal server error"}

		if appErr, ok := As(err); ok {
			status = appErr.Status()
			if len(appErr.Fields) > 0 {
				body = map[string]interface{}{"errors": appErr.Fields}
			} else if status == http.StatusInternalServerError && !dev {
				body = map[string]interface{}{"error": "Internal server error"}
			} else {
				body = map[string]interface{}{"error": appErr.Message}
			}
			if status == http.StatusInternalServerError {
				logger.Error().Err(err).
					Str("path", c.Request().URL.Path).
					Str("method", c.Request().Method).
					Msg("internal error")
			}
		} else if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
			msg := http.StatusText(status)
			if s, ok := httpErr.Message.(string); ok {
				msg = s
			}
			if status == http.StatusInternalServerError && !dev {
				msg = "Internal server error"
			}
			body = map[string]interface{}{"error": msg}
		} else {
			logger.Error().Err(err).
				Str("path", c.Request().URL.Path).
				Str("method", c.Request().Method).
				Msg("unhandled error")
			if dev {
				body = map[string]interface{}{"error": err.Error()}
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
