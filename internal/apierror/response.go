package apierror

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the MIME type for RFC 9457 Problem Details.
const ContentTypeProblemJSON = "application/problem+json"

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// WriteProblem writes a ProblemDetails response to the gin context.
// It sets the correct Content-Type header and, if RetryAfter is set,
// also sets the Retry-After header.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	c.Header("Content-Type", ContentTypeProblemJSON)

	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}

	// Set Retry-After header if specified (for 429 responses)
	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}

	c.JSON(problem.Status, problem)
}

// AbortWithProblem writes the problem and stops the handler chain.
func AbortWithProblem(c *gin.Context, problem *ProblemDetails) {
	WriteProblem(c, problem)
	c.Abort()
}

// GetRequestID extracts the request ID from the gin context.
// Returns empty string if not found.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return c.GetHeader("X-Request-ID")
}

// NewNotFoundError creates a 404 Not Found response for a missing resource.
func NewNotFoundError(requestID, resource, id string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeNotFound,
		Title:       TitleNotFound,
		Status:      http.StatusNotFound,
		Detail:      fmt.Sprintf("%s with ID '%s' was not found", resource, id),
		RequestID:   requestID,
		UserMessage: fmt.Sprintf("The requested %s could not be found", resource),
	}
}

// NewRouteNotFoundError creates a 404 Not Found response for an unknown route.
func NewRouteNotFoundError(requestID, method, path string) *ProblemDetails {
	return &ProblemDetails{
		Type:      TypeNotFound,
		Title:     TitleNotFound,
		Status:    http.StatusNotFound,
		Detail:    fmt.Sprintf("No route for %s %s", method, path),
		RequestID: requestID,
	}
}

// NewMethodNotAllowedError creates a 405 Method Not Allowed response.
func NewMethodNotAllowedError(requestID, method, path string) *ProblemDetails {
	return &ProblemDetails{
		Type:      TypeMethodNotAllowed,
		Title:     TitleMethodNotAllowed,
		Status:    http.StatusMethodNotAllowed,
		Detail:    fmt.Sprintf("Method %s is not allowed on %s", method, path),
		RequestID: requestID,
	}
}

// NewPayloadTooLargeError creates a 413 response for an oversized body.
func NewPayloadTooLargeError(requestID string, limit int64) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypePayloadTooLarge,
		Title:       TitlePayloadTooLarge,
		Status:      http.StatusRequestEntityTooLarge,
		Detail:      fmt.Sprintf("Request body exceeds the %d byte limit", limit),
		RequestID:   requestID,
		UserMessage: "The request is too large. Try sending fewer sessions.",
	}
}

// NewRateLimitError creates a 429 Too Many Requests response.
// retryAfter specifies seconds until the client should retry.
func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeRateLimit,
		Title:       TitleRateLimit,
		Status:      http.StatusTooManyRequests,
		Detail:      fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds", retryAfter),
		RequestID:   requestID,
		UserMessage: "Too many requests. Please wait before trying again.",
		RetryAfter:  &retryAfter,
	}
}

// NewInternalError creates a 500 Internal Server Error response.
// Internal error details are not exposed; log them server-side.
func NewInternalError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInternal,
		Title:       TitleInternal,
		Status:      http.StatusInternalServerError,
		Detail:      "An unexpected error occurred",
		RequestID:   requestID,
		UserMessage: "Something went wrong. Please try again later.",
	}
}

// NewBadRequestError creates a 400 Bad Request response for malformed requests.
func NewBadRequestError(requestID, detail, userMessage string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeBadRequest,
		Title:       TitleBadRequest,
		Status:      http.StatusBadRequest,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: userMessage,
	}
}
