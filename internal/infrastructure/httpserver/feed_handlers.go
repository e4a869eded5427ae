package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) socialFeed(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing q parameter")
	}
	posts, err := s.feedSvc.SocialPosts(c.Request().Context(), query)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"posts": posts})
}

func (s *Server) officialUpdates(c echo.Context) error {
	// Source is optional; the feed service falls back to its default page.
	source := c.QueryParam("source")
	updates, err := s.feedSvc.OfficialUpdates(c.Request().Context(), source)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"updates": updates})
}
