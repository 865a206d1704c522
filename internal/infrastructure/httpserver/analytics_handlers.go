package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *Server) getRevenue(c echo.Context) error {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		}
		from = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		}
		to = t
	}
	if !from.Before(to) {
		return echo.NewHTTPError(http.StatusBadRequest, "from must be before to")
	}

	summary, err := s.affiliateSvc.Revenue(c.Request().Context(), from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	applyCacheHeaders(c, cacheClassUser)
	return c.JSON(http.StatusOK, summary)
}

type interactionRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Type      string    `json:"type"`
}

func (s *Server) trackInteraction(c echo.Context) error {
	var req interactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == uuid.Nil || req.Type == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id and type are required")
	}
	s.analyticsSvc.TrackInteraction(c.Request().Context(), req.ProductID, req.Type)
	return c.JSON(http.StatusAccepted, map[string]interface{}{"success": true})
}

func (s *Server) getProductStats(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product ID")
	}
	stats, err := s.analyticsSvc.ProductStats(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	applyCacheHeaders(c, cacheClassAPI)
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) getTopProducts(c echo.Context) error {
	period := c.QueryParam("period")
	if period == "" {
		period = "day"
	}
	top, err := s.analyticsSvc.TopProducts(c.Request().Context(), period)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	applyCacheHeaders(c, cacheClassAPI)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"period":   period,
		"products": top,
	})
}

func (s *Server) getConversionFunnel(c echo.Context) error {
	funnel, err := s.analyticsSvc.ConversionFunnel(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	applyCacheHeaders(c, cacheClassAPI)
	return c.JSON(http.StatusOK, funnel)
}

func (s *Server) getRevenueForecast(c echo.Context) error {
	projected, err := strconv.Atoi(c.QueryParam("projected_clicks"))
	if err != nil || projected <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "projected_clicks must be a positive integer")
	}
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		}
		from = t
	}
	forecast, err := s.analyticsSvc.Forecast(c.Request().Context(), from, now, projected)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	applyCacheHeaders(c, cacheClassUser)
	return c.JSON(http.StatusOK, forecast)
}

func (s *Server) getCacheHitRates(c echo.Context) error {
	rates := s.analyticsSvc.CacheHitRates(c.Request().Context())
	return c.JSON(http.StatusOK, rates)
}
