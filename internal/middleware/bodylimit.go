package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rivermin01/personal-study-guide/internal/apierror"
)

// BodyLimit caps request bodies at limit bytes. Requests that declare a larger
// Content-Length are rejected up front; others fail on read once the limit is
// crossed.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			apierror.AbortWithProblem(c, apierror.NewPayloadTooLargeError(apierror.GetRequestID(c), limit))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from reading past the body limit.
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
