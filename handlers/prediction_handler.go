package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Sanuthi50/Supercar-predictor/service"

	"github.com/gin-gonic/gin"
)

// PredictionHandler handles HTTP requests for predictions
type PredictionHandler struct {
	predictions *service.PredictionService
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictions *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictions: predictions}
}

// Predict handles POST /predict
func (h *PredictionHandler) Predict(c *gin.Context) {
	var input map[string]any
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_JSON", "Request must be JSON")
		return
	}

	result, err := h.predictions.Predict(c.Request.Context(), service.PredictRequest{
		Input:     input,
		UserIP:    c.ClientIP(),
		RequestID: requestID(c),
		UserID:    currentUserID(c),
	})
	if err != nil {
		var missing *service.MissingFieldsError
		switch {
		case errors.Is(err, service.ErrModelUnavailable):
			respondError(c, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", "Service temporarily unavailable")
		case errors.As(err, &missing):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_FIELDS",
					"message": missing.Error(),
				},
				"missing_fields": missing.Fields,
				"request_id":     requestID(c),
			})
		default:
			log.Printf("Prediction error: %v", err)
			respondDBError(c, err, "PREDICTION_FAILED",
				"An unexpected error occurred")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"predicted_price": result.Prediction.PredictedPrice,
		"currency":        "USD",
		"database_id":     result.Prediction.ID,
		"input_data":      input,
		"request_id":      requestID(c),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// History handles GET /predictions/history
func (h *PredictionHandler) History(c *gin.Context) {
	req := service.HistoryRequest{
		Brand:  c.Query("brand"),
		Model:  c.Query("model"),
		UserID: currentUserID(c),
	}

	// Unparseable limit/offset fall back to defaults; a bad year is a
	// client error because it feeds an equality filter.
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		req.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		req.Offset = v
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "year must be an integer")
			return
		}
		req.Year = &year
	}

	result, err := h.predictions.History(c.Request.Context(), req)
	if err != nil {
		log.Printf("History error: %v", err)
		respondDBError(c, err, "HISTORY_FAILED",
			"Failed to get prediction history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       len(result.Predictions),
		"total":       result.Total,
		"offset":      result.Offset,
		"limit":       result.Limit,
		"predictions": result.Predictions,
		"request_id":  requestID(c),
	})
}

// Stats handles GET /predictions/stats
func (h *PredictionHandler) Stats(c *gin.Context) {
	stats, err := h.predictions.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		log.Printf("Stats error: %v", err)
		respondDBError(c, err, "STATS_FAILED",
			"Failed to get prediction stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"stats":      stats,
		"request_id": requestID(c),
	})
}
