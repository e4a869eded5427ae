package httpserver

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/crisisnet/disasterhub/internal/infrastructure/httpserver/helpers"
)

// serveWebSocket upgrades the request and hands the connection to the hub.
// Initial streams come from the ?streams= parameter (comma-separated);
// clients can adjust subscriptions later with control messages.
func (s *Server) serveWebSocket(c echo.Context) error {
	var streams []string
	if raw := c.QueryParam("streams"); raw != "" {
		streams = strings.Split(raw, ",")
	}
	return s.hub.Serve(helpers.ClientKey(c), streams, c.Response(), c.Request())
}
