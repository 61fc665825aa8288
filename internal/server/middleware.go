package server

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/semaphore"

	"chatrelay/internal/core"
)

// requestIDMiddleware assigns each request a UUID (honoring an inbound
// X-Request-Id) and attaches it to the request context so the upstream
// client can forward it.
func requestIDMiddleware() echo.MiddlewareFunc {
	generator := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})

	attach := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(core.WithRequestID(req.Context(), requestID)))
			}
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return generator(attach(next))
	}
}

// requestLoggerMiddleware emits one structured slog line per request.
func requestLoggerMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogMethod:  true,
		LogURI:     true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		},
	})
}

// inflightLimitMiddleware bounds concurrent requests with a weighted
// semaphore. Requests beyond the bound are rejected with 503 instead of
// queueing. A limit of 0 or less disables the gate.
func inflightLimitMiddleware(limit int64) echo.MiddlewareFunc {
	if limit <= 0 {
		return nil
	}
	sem := semaphore.NewWeighted(limit)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !sem.TryAcquire(1) {
				return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
					"error": map[string]interface{}{
						"type":    "server_busy",
						"message": "too many requests in flight, try again later",
					},
				})
			}
			defer sem.Release(1)
			return next(c)
		}
	}
}
