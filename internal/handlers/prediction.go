package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/metrics"
	"github.com/rivermin01/personal-study-guide/internal/models"
	"github.com/rivermin01/personal-study-guide/internal/service"
)

type PredictionHandler struct {
	predictionService service.PredictionService
	maxBodyBytes      int64
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionService service.PredictionService, maxBodyBytes int64) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		maxBodyBytes:      maxBodyBytes,
	}
}

// Predict handles POST /predict
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req models.PredictRequest
	if err := decodeJSON(c, &req); err != nil {
		if abortIfTooLarge(c, err, h.maxBodyBytes) {
			return
		}
		logger.Ctx(c.Request.Context()).Warn("invalid predict request", logger.Err(err))
		metrics.RecordPrediction(service.OutcomeFailure.String(), 0)
		c.JSON(http.StatusInternalServerError, service.ErrorPrediction(err))
		return
	}

	out := h.predictionService.Predict(c.Request.Context(), &req)
	metrics.RecordPrediction(out.Kind.String(), out.Result.Confidence)

	if out.Kind == service.OutcomeFailure {
		logger.Ctx(c.Request.Context()).Warn("prediction failed", logger.Err(out.Err))
		c.JSON(http.StatusInternalServerError, out.Result)
		return
	}

	c.JSON(http.StatusOK, out.Result)
}
