package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rivermin01/personal-study-guide/internal/apierror"
	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/metrics"
	"github.com/rivermin01/personal-study-guide/internal/repository"
	"github.com/rivermin01/personal-study-guide/internal/service"
)

type SessionHandler struct {
	sessionService service.SessionService
	maxBodyBytes   int64
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService service.SessionService, maxBodyBytes int64) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		maxBodyBytes:   maxBodyBytes,
	}
}

// SaveSession handles POST /save-session
func (h *SessionHandler) SaveSession(c *gin.Context) {
	var payload map[string]any
	if err := decodeJSON(c, &payload); err != nil {
		if abortIfTooLarge(c, err, h.maxBodyBytes) {
			return
		}
		metrics.RecordSessionSave(service.OutcomeFailure.String())
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("error: %v", err)})
		return
	}

	out := h.sessionService.Save(c.Request.Context(), payload)
	metrics.RecordSessionSave(out.Kind.String())

	switch out.Kind {
	case service.OutcomeOK:
		c.JSON(http.StatusOK, out.Response)
	case service.OutcomeInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": out.Err.Error()})
	default:
		logger.Ctx(c.Request.Context()).Error("save session failed", logger.Err(out.Err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("error: %v", out.Err)})
	}
}

// GetSession handles GET /sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(
			apierror.GetRequestID(c),
			fmt.Sprintf("invalid session id %q", id),
			"Session IDs are UUIDs.",
		))
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierror.WriteProblem(c, apierror.NewNotFoundError(apierror.GetRequestID(c), "session", id))
			return
		}
		logger.Ctx(c.Request.Context()).Error("failed to load session",
			logger.Err(err),
			logger.String("session_id", id),
		)
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, session)
}
