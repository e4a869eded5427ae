package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/crisisnet/disasterhub/internal/core/domain/report"
	"github.com/crisisnet/disasterhub/internal/infrastructure/httpserver/helpers"
)

func (s *Server) createReport(c echo.Context) error {
	var req report.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	authorID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	r, err := s.reportSvc.CreateReport(c.Request().Context(), authorID, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) getReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report ID")
	}
	r, err := s.reportSvc.GetReport(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) updateReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report ID")
	}
	var req report.UpdateReportRequest
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
	r, err := s.reportSvc.UpdateReport(c.Request().Context(), id, callerID, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) deleteReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report ID")
	}
	callerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	if err := s.reportSvc.DeleteReport(c.Request().Context(), id, callerID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listReports(c echo.Context) error {
	filter := report.Filter{
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
	if raw := c.QueryParam("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid author_id parameter")
		}
		filter.AuthorID = &id
	}
	if raw := c.QueryParam("verified"); raw != "" {
		verified, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid verified parameter")
		}
		filter.Verified = &verified
	}
	reports, total, err := s.reportSvc.ListReports(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"reports": reports,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

func (s *Server) verifyReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report ID")
	}
	r, err := s.reportSvc.VerifyReport(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}
