package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/rivermin01/personal-study-guide/internal/apierror"
	"github.com/rivermin01/personal-study-guide/internal/middleware"
)

// errEmptyBody is returned when a request has no JSON payload at all
var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads the whole request body and unmarshals it into v.
func decodeJSON(c *gin.Context, v any) error {
	if c.Request.Body == nil {
		return errEmptyBody
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(body) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// abortIfTooLarge writes a 413 problem when err came from the body limit.
func abortIfTooLarge(c *gin.Context, err error, limit int64) bool {
	if !middleware.IsBodyTooLarge(err) {
		return false
	}
	apierror.AbortWithProblem(c, apierror.NewPayloadTooLargeError(apierror.GetRequestID(c), limit))
	return true
}
