package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "financetracker/internal/errors"
)

// errorHandler renders every error as an errors.ErrorResponse. Domain errors
// are mapped with MapErrorToHTTP; server errors are logged with their cause.
func errorHandler(e *echo.Echo, logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			mapped := apperrors.MapErrorToHTTP(err)
			he = echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
		} else if msg, ok := he.Message.(string); ok {
			// raised by echo itself: unknown route, wrong method, bad body
			he = echo.NewHTTPError(he.Code, apperrors.ErrorResponse{
				Error: msg,
				Code:  statusCode(he.Code),
			}).SetInternal(he.Internal)
		}

		if he.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}

		e.DefaultHTTPErrorHandler(he, c)
	}
}

func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
