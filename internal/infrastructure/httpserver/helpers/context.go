package helpers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ctxKey string

const keyUserID ctxKey = "user_id"

func SetUserID(c echo.Context, id uuid.UUID) { c.Set(string(keyUserID), id) }
func GetUserIDRaw(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(string(keyUserID))
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := GetUserIDRaw(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid user context")
	}
	return id, nil
}

// ClientKey identifies the caller for rate limiting: the user ID when the
// request carries one, the remote IP otherwise.
func ClientKey(c echo.Context) string {
	if id, ok := GetUserIDRaw(c); ok {
		return id.String()
	}
	return c.RealIP()
}
