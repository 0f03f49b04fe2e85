package audit

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type requestInfoKey struct{}

// RequestInfo carries the caller's network identity for audit rows.
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

// WithRequestInfo stores request identity on the context so services can
// record it without handling HTTP concerns themselves.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// CaptureRequestInfo is echo middleware that stashes the source IP and user
// agent on the request context for later audit writes.
func CaptureRequestInfo() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := WithRequestInfo(req.Context(), RequestInfo{
				IPAddress: c.RealIP(),
				UserAgent: req.UserAgent(),
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// Recorder appends audit entries. A failed write is logged and swallowed;
// audit logging must never break the primary operation.
type Recorder struct {
	repo Repository
	log  zerolog.Logger
}

func NewRecorder(repo Repository, log zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record writes one entry, filling IP and user agent from the context when
// present. Errors are not propagated.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if info, ok := ctx.Value(requestInfoKey{}).(RequestInfo); ok {
		if e.IPAddress == nil && info.IPAddress != "" {
			e.IPAddress = &info.IPAddress
		}
		if e.UserAgent == nil && info.UserAgent != "" {
			e.UserAgent = &info.UserAgent
		}
	}
	if err := r.repo.Insert(ctx, &e); err != nil {
		r.log.Warn().Err(err).Str("action", e.Action).Msg("audit write failed")
	}
}
