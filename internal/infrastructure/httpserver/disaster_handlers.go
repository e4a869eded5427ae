package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/crisisnet/disasterhub/internal/core/domain/disaster"
	"github.com/crisisnet/disasterhub/internal/infrastructure/httpserver/helpers"
)

func (s *Server) createDisaster(c echo.Context) error {
	var req disaster.CreateDisasterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	d, err := s.disasterSvc.CreateDisaster(c.Request().Context(), ownerID, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (s *Server) getDisaster(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid disaster ID")
	}
	d, err := s.disasterSvc.GetDisaster(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (s *Server) updateDisaster(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid disaster ID")
	}
	var req disaster.UpdateDisasterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	callerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	d, err := s.disasterSvc.UpdateDisaster(c.Request().Context(), id, callerID, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (s *Server) deleteDisaster(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid disaster ID")
	}
	callerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	if err := s.disasterSvc.DeleteDisaster(c.Request().Context(), id, callerID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listDisasters(c echo.Context) error {
	filter := disaster.Filter{
		Type:     disaster.Type(c.QueryParam("type")),
		Severity: disaster.Severity(c.QueryParam("severity")),
		Status:   disaster.Status(c.QueryParam("status")),
		Limit:    queryInt(c, "limit", 20),
		Offset:   queryInt(c, "offset", 0),
	}
	disasters, total, err := s.disasterSvc.ListDisasters(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"disasters": disasters,
		"total":     total,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})
}

func (s *Server) nearbyDisasters(c echo.Context) error {
	lat, lon, radius, err := nearbyParams(c)
	if err != nil {
		return err
	}
	disasters, err := s.disasterSvc.NearbyDisasters(c.Request().Context(), lat, lon, radius)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"disasters": disasters})
}

func (s *Server) disasterSocialPosts(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid disaster ID")
	}
	posts, err := s.disasterSvc.SocialPosts(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"posts": posts})
}

func queryInt(c echo.Context, name string, fallback int) int {
	if raw := c.QueryParam(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func nearbyParams(c echo.Context) (lat, lon, radius float64, err error) {
	lat, err = strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid lat parameter")
	}
	lon, err = strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid lon parameter")
	}
	radius = 50
	if raw := c.QueryParam("radius_km"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid radius_km parameter")
		}
	}
	return lat, lon, radius, nil
}
