package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/metrics"
	"github.com/rivermin01/personal-study-guide/internal/models"
	"github.com/rivermin01/personal-study-guide/internal/service"
)

type FeedbackHandler struct {
	feedbackService service.FeedbackService
	maxBodyBytes    int64
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService service.FeedbackService, maxBodyBytes int64) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		maxBodyBytes:    maxBodyBytes,
	}
}

// Feedback handles POST /feedback
func (h *FeedbackHandler) Feedback(c *gin.Context) {
	// A JSON null body leaves req nil
	var req *models.FeedbackRequest
	if err := decodeJSON(c, &req); err != nil {
		if abortIfTooLarge(c, err, h.maxBodyBytes) {
			return
		}
		logger.Ctx(c.Request.Context()).Warn("invalid feedback request", logger.Err(err))
		metrics.RecordFeedback(service.OutcomeFailure.String())
		c.JSON(http.StatusInternalServerError, service.ErrorReport(err))
		return
	}

	out := h.feedbackService.Feedback(c.Request.Context(), req)
	metrics.RecordFeedback(out.Kind.String())

	if out.Kind == service.OutcomeFailure {
		logger.Ctx(c.Request.Context()).Warn("feedback failed", logger.Err(out.Err))
		c.JSON(http.StatusInternalServerError, out.Report)
		return
	}

	c.JSON(http.StatusOK, out.Report)
}
