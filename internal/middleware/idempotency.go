package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/repository"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"

	// IdempotencyReplayedHeader marks a response served from the cache
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"

	maxIdempotencyKeyLen = 255
)

// idempotencyBodyWriter wraps gin.ResponseWriter to capture the response body for idempotency caching
type idempotencyBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *idempotencyBodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *idempotencyBodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the first successful response for an Idempotency-Key.
// If the header is present:
//   - a cached response for the same key and route is replayed as-is
//   - otherwise the request runs and a 2xx response is cached
//
// Only POST, PUT and PATCH are considered.
func Idempotency(repo repository.IdempotencyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		// Only apply to mutating requests
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || len(key) > maxIdempotencyKeyLen {
			// No usable idempotency key - proceed without caching
			c.Next()
			return
		}

		// Build the route identifier (method + path)
		route := method + " " + c.FullPath()

		log.Debug("checking idempotency",
			logger.String("key", key),
			logger.String("route", route),
		)

		existing, err := repo.Get(c.Request.Context(), key, route)
		if err != nil {
			log.Error("failed to check idempotency key",
				logger.Err(err),
				logger.String("key", key),
			)
			// On error, we proceed without idempotency to avoid blocking valid requests
			c.Next()
			return
		}

		if existing != nil {
			log.Info("replaying idempotent response",
				logger.String("key", key),
				logger.String("route", route),
				logger.Int("status_code", existing.StatusCode),
			)

			contentType := existing.ContentType
			if contentType == "" {
				contentType = "application/json; charset=utf-8"
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.StatusCode, contentType, existing.ResponseBody)
			c.Abort()
			return
		}

		// No existing record - capture the response for storage
		blw := &idempotencyBodyWriter{
			body:           bytes.NewBuffer(nil),
			ResponseWriter: c.Writer,
		}
		c.Writer = blw

		c.Next()

		// Only cache successful responses (2xx)
		statusCode := c.Writer.Status()
		if statusCode < 200 || statusCode >= 300 {
			return
		}

		record := repository.IdempotencyRecord{
			StatusCode:   statusCode,
			ContentType:  c.Writer.Header().Get("Content-Type"),
			ResponseBody: blw.body.Bytes(),
		}
		if err := repo.Store(c.Request.Context(), key, route, record); err != nil {
			// Log but don't fail - the request already succeeded
			log.Warn("failed to store idempotency key",
				logger.Err(err),
				logger.String("key", key),
			)
			return
		}
		log.Debug("stored idempotency key",
			logger.String("key", key),
			logger.String("route", route),
			logger.Int("status_code", statusCode),
		)
	}
}
