package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logging attaches a request-scoped logger to the request context and writes one structured
// line per HTTP request. Handlers retrieve the logger with zerolog.Ctx.
func Logging(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqLogger := base.With().Str("request_id", RequestIDFromContext(c)).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			var event *zerolog.Event
			switch {
			case status >= 500:
				event = reqLogger.Error().Err(err)
			case status >= 400:
				event = reqLogger.Warn()
			default:
				event = reqLogger.Info()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("query", req.URL.RawQuery).
				Int("status", status).
				Dur("latency", latency).
				Msg("request completed")

			return err
		}
	}
}
