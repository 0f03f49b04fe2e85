package middleware

import (
	"github.com/labstack/echo/v4"
)

// baselineHeaders is the header set applied to every response. The API
// serves personal medication and mood records as JSON, so the policy is
// blunt: no framing, no resource loading, and no caching anywhere.
var baselineHeaders = map[string]string{
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"X-XSS-Protection":          "0",
	"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"Referrer-Policy":           "no-referrer",
	"Permissions-Policy":        "camera=(), microphone=(), geolocation=()",
	"Cache-Control":             "no-store",
}

// SecurityHeaders applies the baseline header set before the handler runs,
// so the headers are present on error responses too.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for name, value := range baselineHeaders {
				h.Set(name, value)
			}
			return next(c)
		}
	}
}
