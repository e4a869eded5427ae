package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/crisisnet/disasterhub/internal/core/domain/geo"
)

func (s *Server) locate(c echo.Context) error {
	var req geo.LocateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	loc, err := s.geoSvc.Locate(c.Request().Context(), req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loc)
}

func (s *Server) reverseGeocode(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lat parameter")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lon parameter")
	}
	loc, err := s.geoSvc.ReverseGeocode(c.Request().Context(), lat, lon)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loc)
}
