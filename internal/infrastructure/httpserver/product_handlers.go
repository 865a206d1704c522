package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lightingpro/storefront/internal/core/domain/catalog"
)

func (s *Server) getProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product ID")
	}
	product, err := s.catalogSvc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	applyCacheHeaders(c, cacheClassDynamic)
	return c.JSON(http.StatusOK, product)
}

func (s *Server) searchProducts(c echo.Context) error {
	query := c.QueryParam("q")
	filters := catalog.SearchFilters{
		Category: c.QueryParam("category"),
		Brand:    c.QueryParam("brand"),
	}
	if v := c.QueryParam("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MinPrice = f
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MaxPrice = f
		}
	}
	filters.Page, _ = strconv.Atoi(c.QueryParam("page"))
	if filters.Page < 1 {
		filters.Page = 1
	}
	filters.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if filters.Limit < 1 || filters.Limit > 100 {
		filters.Limit = 20
	}

	result, err := s.catalogSvc.Search(c.Request().Context(), query, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	applyCacheHeaders(c, cacheClassAPI)
	return c.JSON(http.StatusOK, result)
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product ID")
	}
	var req catalog.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	product, err := s.catalogSvc.UpdateProduct(c.Request().Context(), id, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, product)
}

func (s *Server) listBrands(c echo.Context) error {
	brands, err := s.catalogSvc.Brands(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	applyCacheHeaders(c, cacheClassStatic)
	return c.JSON(http.StatusOK, map[string]interface{}{"brands": brands})
}

func (s *Server) listCategories(c echo.Context) error {
	categories, err := s.catalogSvc.Categories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	applyCacheHeaders(c, cacheClassStatic)
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": categories})
}

type createQuestionnaireRequest struct {
	UserID  *uuid.UUID     `json:"user_id,omitempty"`
	Answers map[string]any `json:"answers"`
}

func (s *Server) createQuestionnaire(c echo.Context) error {
	var req createQuestionnaireRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Answers) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "answers are required")
	}
	questionnaire, recommendations, err := s.catalogSvc.CreateQuestionnaire(c.Request().Context(), req.UserID, req.Answers)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"questionnaire":   questionnaire,
		"recommendations": recommendations,
	})
}

func (s *Server) getRecommendations(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid questionnaire ID")
	}
	recommendations, err := s.catalogSvc.Recommendations(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	applyCacheHeaders(c, cacheClassUser)
	return c.JSON(http.StatusOK, map[string]interface{}{"recommendations": recommendations})
}
