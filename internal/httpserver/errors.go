package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/service"
	"github.com/Skotchmaster/med_clinic/internal/transport"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrMediaUnavailable, http.StatusServiceUnavailable},
}

// fail logs err under event and converts it into the HTTP error the client sees.
// Unexpected errors are logged with details and surface as a generic 500.
func fail(l *slog.Logger, event string, err error) error {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			msg := strings.TrimSuffix(err.Error(), ": "+s.err.Error())
			l.Warn(event, "status", s.status, "reason", msg, "error", err)
			return echo.NewHTTPError(s.status, msg)
		}
	}
	l.Error(event, "status", http.StatusInternalServerError, "reason", "internal error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

// ErrorHandler renders every error as the JSON failure envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = http.StatusText(status)
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, transport.Fail(msg))
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
	}
}
