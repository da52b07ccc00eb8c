package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedback-bot/internal/export"
	"feedback-bot/internal/service"
)

// FeedbackHandler mantiene dependencias para envio, listados y export.
type FeedbackHandler struct {
	logger      *zap.Logger
	feedbackSvc *service.FeedbackService
}

func NewFeedbackHandler(logger *zap.Logger, feedbackSvc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		logger:      logger,
		feedbackSvc: feedbackSvc,
	}
}

type submitRequest struct {
	NPS     *int    `json:"nps"`
	CSAT    *int    `json:"csat"`
	CES     *int    `json:"ces"`
	Comment *string `json:"comment"`
}

// Submit maneja POST /submit.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.feedbackSvc.Submit(c.Request.Context(), service.SubmitInput{
		NPS:       req.NPS,
		CSAT:      req.CSAT,
		CES:       req.CES,
		Comment:   req.Comment,
		ClientKey: c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNPSRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		default:
			h.logger.Error("submit feedback failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save feedback"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":    "saved",
		"id":        res.ID,
		"sentiment": res.Sentiment,
		"fraud":     res.IsFraud,
	})
}

// Results maneja GET /results.
func (h *FeedbackHandler) Results(c *gin.Context) {
	list, err := h.feedbackSvc.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list feedback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list feedback"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_responses": list.Count, "data": list.Records})
}

// Fraud maneja GET /fraud.
func (h *FeedbackHandler) Fraud(c *gin.Context) {
	list, err := h.feedbackSvc.ListFraud(c.Request.Context())
	if err != nil {
		h.logger.Error("list fraud feedback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list fraud feedback"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fraud_count": list.Count, "data": list.Records})
}

// Export maneja GET /export y descarga todos los registros como CSV.
func (h *FeedbackHandler) Export(c *gin.Context) {
	list, err := h.feedbackSvc.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("export feedback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not export feedback"})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, list.Records); err != nil {
		h.logger.Error("write csv failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not export feedback"})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
