package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/infrastructure/httpserver/helpers"
)

// userIDHeader carries the caller's identity. There is no credential check
// behind it: identity here exists to attribute writes and scope ownership,
// not to authenticate.
const userIDHeader = "X-User-ID"

type AuthMiddleware struct {
	logger *logrus.Logger
}

func NewAuthMiddleware(logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{logger: logger}
}

// Identify parses the user header when present and stores the ID in the
// request context. Requests without the header stay anonymous.
func (m *AuthMiddleware) Identify() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(userIDHeader)
			if raw == "" {
				return next(c)
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid "+userIDHeader+" header")
			}
			helpers.SetUserID(c, id)
			return next(c)
		}
	}
}

// RequireUser rejects requests that did not identify themselves.
func (m *AuthMiddleware) RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := helpers.GetUserIDRaw(c); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing "+userIDHeader+" header")
			}
			return next(c)
		}
	}
}
