package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/crisisnet/disasterhub/internal/core/domain/resource"
	"github.com/crisisnet/disasterhub/internal/infrastructure/httpserver/helpers"
)

func (s *Server) createResource(c echo.Context) error {
	var req resource.CreateResourceRequest
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
	r, err := s.resourceSvc.CreateResource(c.Request().Context(), ownerID, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) getResource(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource ID")
	}
	r, err := s.resourceSvc.GetResource(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) updateResource(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource ID")
	}
	var req resource.UpdateResourceRequest
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
	r, err := s.resourceSvc.UpdateResource(c.Request().Context(), id, callerID, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) deleteResource(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource ID")
	}
	callerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	if err := s.resourceSvc.DeleteResource(c.Request().Context(), id, callerID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listResources(c echo.Context) error {
	filter := resource.Filter{
		Type:   resource.Type(c.QueryParam("type")),
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.QueryParam("disaster_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid disaster_id parameter")
		}
		filter.DisasterID = &id
	}
	if raw := c.QueryParam("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid available parameter")
		}
		filter.Available = &available
	}
	resources, total, err := s.resourceSvc.ListResources(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"resources": resources,
		"total":     total,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})
}

func (s *Server) nearbyResources(c echo.Context) error {
	lat, lon, radius, err := nearbyParams(c)
	if err != nil {
		return err
	}
	resources, err := s.resourceSvc.NearbyResources(c.Request().Context(), lat, lon, radius)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"resources": resources})
}
