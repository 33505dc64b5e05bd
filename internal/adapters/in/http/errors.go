package http

import (
	"errors"
	"log/slog"
	"net/http"

	"iskxpress/internal/api/servers"
	"iskxpress/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var errUnauthenticated = errors.New("missing or invalid bearer token")

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, errs.ErrExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err in the API's error envelope. Internal failures are logged
// and answered with a generic message.
func respondError(ctx echo.Context, logger *slog.Logger, err error) error {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message = http.StatusText(code)
	}
	return ctx.JSON(code, servers.Error{Code: code, Message: message})
}

// NewErrorHandler renders errors that escape the handlers, such as unknown routes or
// malformed path parameters, in the same envelope.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			message := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok {
				message = m
			}
			_ = ctx.JSON(he.Code, servers.Error{Code: he.Code, Message: message})
			return
		}
		_ = respondError(ctx, logger, err)
	}
}
