package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedback-bot/internal/service"
)

// AnalyticsHandler expone los resumenes calculados sobre feedback no fraudulento.
type AnalyticsHandler struct {
	logger       *zap.Logger
	analyticsSvc *service.AnalyticsService
}

func NewAnalyticsHandler(logger *zap.Logger, analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		logger:       logger,
		analyticsSvc: analyticsSvc,
	}
}

// Analytics maneja GET /analytics.
func (h *AnalyticsHandler) Analytics(c *gin.Context) {
	summary, err := h.analyticsSvc.NPSSummary(c.Request.Context())
	if err != nil {
		h.respondAnalyticsError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Insights maneja GET /insights.
func (h *AnalyticsHandler) Insights(c *gin.Context) {
	insight, err := h.analyticsSvc.SentimentInsight(c.Request.Context())
	if err != nil {
		h.respondAnalyticsError(c, err)
		return
	}
	c.JSON(http.StatusOK, insight)
}

// Trends maneja GET /trends.
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	report, err := h.analyticsSvc.Trend(c.Request.Context())
	if err != nil {
		h.respondAnalyticsError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Sin datos suficientes no es un fallo: se responde 200 con un mensaje.
func (h *AnalyticsHandler) respondAnalyticsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoValidFeedback):
		c.JSON(http.StatusOK, gin.H{"message": "No valid feedback available"})
	case errors.Is(err, service.ErrNotEnoughData):
		c.JSON(http.StatusOK, gin.H{"trend": "Not enough data"})
	default:
		h.logger.Error("analytics failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute analytics"})
	}
}
