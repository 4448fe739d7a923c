package middleware

import (
	"procureMatch/business/recommend"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const traceHeader = "X-Trace-ID"

// TraceMiddleware assigns every request a trace id, propagated through
// the pipeline context and echoed back in the response header.
func TraceMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := c.Request().Header.Get(traceHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			ctx := recommend.WithTraceID(c.Request().Context(), traceID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(traceHeader, traceID)

			return next(c)
		}
	}
}
