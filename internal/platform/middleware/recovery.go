package middleware

import (
	"fmt"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mindtrack/mindtrack/internal/platform/apperr"
)

// Recovery converts a handler panic into an internal error so one bad
// request cannot take the process down. The stack goes to the log; the
// client sees the generic 500 body.
func Recovery(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				buf := make([]byte, 8192)
				buf = buf[:runtime.Stack(buf, false)]

				rid, _ := c.Get("request_id").(string)
				log.Error().
					Str("request_id", rid).
					Interface("panic", r).
					Bytes("stack", buf).
					Msg("panic in handler")

				err = apperr.Internal(fmt.Errorf("panic: %v", r))
			}()
			return next(c)
		}
	}
}
