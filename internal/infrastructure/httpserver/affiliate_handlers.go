package httpserver

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// trackingPixel is a 1x1 transparent PNG. Served on every click-tracking
// request, including failed ones, so the page rendering it never breaks.
var trackingPixel, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

type generateLinkRequest struct {
	ProductID  uuid.UUID  `json:"product_id"`
	ProviderID string     `json:"provider_id,omitempty"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
}

func (s *Server) generateAffiliateLink(c echo.Context) error {
	var req generateLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}
	resolved, err := s.affiliateSvc.ResolveProductLink(c.Request().Context(), req.ProductID, req.ProviderID, req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    resolved,
	})
}

func (s *Server) generateAffiliateLinkBatch(c echo.Context) error {
	raw := c.QueryParam("product_ids")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one product ID is required")
	}
	providerID := c.QueryParam("provider_id")
	var userID *uuid.UUID
	if v := c.QueryParam("user_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			userID = &id
		}
	}

	type batchResult struct {
		ProductID string      `json:"product_id"`
		Success   bool        `json:"success"`
		Error     string      `json:"error,omitempty"`
		Data      interface{} `json:"data,omitempty"`
	}

	results := make([]batchResult, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		productID, err := uuid.Parse(part)
		if err != nil {
			results = append(results, batchResult{ProductID: part, Error: "invalid product ID"})
			continue
		}
		resolved, err := s.affiliateSvc.ResolveProductLink(c.Request().Context(), productID, providerID, userID)
		if err != nil {
			results = append(results, batchResult{ProductID: part, Error: err.Error()})
			continue
		}
		results = append(results, batchResult{ProductID: part, Success: true, Data: resolved})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

// trackClick records a click and always answers with the pixel. A failed
// write must never surface to the page embedding the pixel.
func (s *Server) trackClick(c echo.Context) error {
	linkID, linkErr := uuid.Parse(c.QueryParam("affiliate_link_id"))
	sessionID := c.QueryParam("session_id")

	if linkErr == nil && sessionID != "" {
		var userID *uuid.UUID
		if v := c.QueryParam("user_id"); v != "" {
			if id, err := uuid.Parse(v); err == nil {
				userID = &id
			}
		}
		err := s.affiliateSvc.TrackClick(
			c.Request().Context(),
			linkID,
			sessionID,
			userID,
			c.RealIP(),
			c.Request().UserAgent(),
			c.Request().Referer(),
		)
		if err != nil && s.logger != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"affiliate_link_id": linkID,
				"session_id":        sessionID,
			}).Warn("Failed to record click event")
		}
	}

	noCacheHeaders(c)
	return c.Blob(http.StatusOK, "image/png", trackingPixel)
}

type conversionRequest struct {
	AffiliateLinkID uuid.UUID `json:"affiliate_link_id"`
	SessionID       string    `json:"session_id"`
	ConversionValue float64   `json:"conversion_value"`
}

func (s *Server) trackConversion(c echo.Context) error {
	var req conversionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.AffiliateLinkID == uuid.Nil || req.SessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "affiliate_link_id and session_id are required")
	}
	commission, err := s.affiliateSvc.TrackConversion(c.Request().Context(), req.AffiliateLinkID, req.SessionID, req.ConversionValue)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":           true,
		"commission_earned": commission,
	})
}

type validateLinksRequest struct {
	URLs []string `json:"urls"`
}

func (s *Server) validateLinks(c echo.Context) error {
	var req validateLinksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.URLs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "urls are required")
	}
	results := s.linkValidator.ValidateBatch(c.Request().Context(), req.URLs)
	return c.JSON(http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) revalidateProductLinks(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product ID")
	}
	changed, err := s.linkValidator.RevalidateProduct(c.Request().Context(), productID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"changed": changed,
	})
}
