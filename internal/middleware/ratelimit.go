package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/rivermin01/personal-study-guide/internal/apierror"
	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/metrics"
)

// RateLimiter provides request rate limiting per client IP using a token
// bucket per client
type RateLimiter struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	window  time.Duration
	name    string // identifier for logging and metrics
	done    chan struct{}
	once    sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
// requests: maximum burst of requests per window, refilled evenly over it
// window: time window for rate limiting
// name: identifier for logging (e.g., "general")
func NewRateLimiter(requests int, window time.Duration, name string) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		window:  window,
		name:    name,
		done:    make(chan struct{}),
	}

	// Start cleanup goroutine to prevent memory leaks
	go rl.cleanup()

	logger.Default().Debug("rate limiter initialized",
		logger.String("name", name),
		logger.Int("requests", requests),
		logger.Duration("window", window),
	)

	return rl
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.done) })
}

// cleanup removes clients idle for more than two windows. An idle client's
// bucket is full again, so dropping it changes nothing.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
		}

		rl.mu.Lock()
		now := time.Now()
		cleaned := 0
		for ip, client := range rl.clients {
			if now.Sub(client.lastSeen) > rl.window*2 {
				delete(rl.clients, ip)
				cleaned++
			}
		}
		remaining := len(rl.clients)
		rl.mu.Unlock()

		if cleaned > 0 {
			logger.Default().Debug("rate limiter cleanup completed",
				logger.String("name", rl.name),
				logger.Int("cleaned", cleaned),
				logger.Int("remaining", remaining),
			)
		}
	}
}

// isAllowed consumes a token for ip. When the bucket is empty it returns
// false and the whole seconds until a token is available.
func (rl *RateLimiter) isAllowed(ip string) (bool, int) {
	now := time.Now()

	rl.mu.Lock()
	client, exists := rl.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = now
	rl.mu.Unlock()

	r := client.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, int(rl.window.Seconds())
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, int(math.Ceil(delay.Seconds()))
}

// RateLimit returns a middleware handler that limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get client IP (handles X-Forwarded-For for trusted proxies)
		ip := c.ClientIP()

		allowed, retryAfter := limiter.isAllowed(ip)
		if !allowed {
			log := logger.FromContext(c.Request.Context())
			log.Warn("rate limit exceeded",
				logger.String("limiter", limiter.name),
				logger.String("client_ip", ip),
				logger.Int("limit", limiter.burst),
				logger.Duration("window", limiter.window),
				logger.Int("retry_after", retryAfter),
			)
			metrics.RecordRateLimitHit(limiter.name)

			c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
			c.Header("X-RateLimit-Remaining", "0")
			apierror.AbortWithProblem(c, apierror.NewRateLimitError(apierror.GetRequestID(c), max(retryAfter, 1)))
			return
		}

		c.Next()
	}
}
