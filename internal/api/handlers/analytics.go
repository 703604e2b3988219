package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/services"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Stats returns the aggregated usage statistics
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	stats, err := h.analytics.Stats(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get analytics", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analytics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Trends returns per-day activity for the trailing period
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	days := intQuery(c, "days", 7)

	trends, err := h.analytics.Trends(c.Request.Context(), days)
	if err != nil {
		logger.Error("Failed to get trends", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get trends"})
		return
	}
	c.JSON(http.StatusOK, trends)
}
