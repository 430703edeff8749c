package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/middleware/auth"
)

// Config tunes the access log.
type Config struct {
	// Quiet lists routes that are only logged when they fail, such as health checks.
	Quiet []string
	// Slow raises successful requests that take longer to warn. Zero disables it.
	Slow time.Duration
}

func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return RequestLoggerWithConfig(base, Config{})
}

// RequestLoggerWithConfig puts a request scoped logger into the request context
// and writes one access line after the handler chain, including the caller
// identity once auth middleware has resolved it.
func RequestLoggerWithConfig(base *slog.Logger, cfg Config) echo.MiddlewareFunc {
	quiet := make(map[string]struct{}, len(cfg.Quiet))
	for _, route := range cfg.Quiet {
		quiet[route] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := base.With("request_id", requestID(c), "method", req.Method, "route", c.Path())
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			took := time.Since(start)

			res := c.Response()
			level := levelFor(res.Status, took, cfg.Slow)
			if _, ok := quiet[c.Path()]; ok && level < slog.LevelWarn {
				return nil
			}

			attrs := []slog.Attr{
				slog.Int("status", res.Status),
				slog.Int64("duration_ms", took.Milliseconds()),
				slog.Int64("bytes_out", res.Size),
				slog.String("remote_ip", c.RealIP()),
				slog.String("user_agent", req.UserAgent()),
			}
			if uid, role, ok := auth.Identity(c); ok {
				attrs = append(attrs, slog.String("user_id", uid.String()), slog.String("role", role))
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			l.LogAttrs(c.Request().Context(), level, "request completed", attrs...)
			return nil
		}
	}
}

// requestID prefers the id echo's RequestID middleware put on the response.
func requestID(c echo.Context) string {
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

func levelFor(status int, took, slow time.Duration) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case slow > 0 && took > slow:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
