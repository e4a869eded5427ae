package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
)

// httpError translates service errors into HTTP responses. Storage failures
// stay opaque; the other kinds carry their message to the caller.
func httpError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperror.KindValidation:
			return echo.NewHTTPError(http.StatusBadRequest, appErr.Message)
		case apperror.KindNotFound:
			return echo.NewHTTPError(http.StatusNotFound, appErr.Message)
		case apperror.KindForbidden:
			return echo.NewHTTPError(http.StatusForbidden, appErr.Message)
		case apperror.KindUpstream:
			return echo.NewHTTPError(http.StatusBadGateway, appErr.Message)
		case apperror.KindStorage:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
