package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivermin01/personal-study-guide/internal/apierror"
	"github.com/rivermin01/personal-study-guide/internal/config"
	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/middleware"
	"github.com/rivermin01/personal-study-guide/internal/models"
	"github.com/rivermin01/personal-study-guide/internal/repository"
	"github.com/rivermin01/personal-study-guide/internal/service"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			Env:             "test",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json", MaxSizeMB: 1},
		Store:   config.StoreConfig{Driver: "memory"},
		Idempotency: config.IdempotencyConfig{
			TTL:  time.Minute,
			Size: 16,
		},
	}
}

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return newRouter(routerDeps{
		cfg:         testConfig(),
		log:         logger.NewSlogLogger(logger.Config{Level: logger.LevelError, Format: "json", Output: io.Discard}),
		store:       repository.NewMemorySessionStore(),
		idempotency: repository.NewIdempotencyRepository(16, time.Minute),
		limiter:     limiter,
		clock:       service.ClockFunc(func() time.Time { return time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC) }),
	})
}

func TestRouterProblems(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantType   string
	}{
		{name: "unknown route", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound, wantType: apierror.TypeNotFound},
		{name: "wrong method", method: http.MethodGet, path: "/predict", wantStatus: http.StatusMethodNotAllowed, wantType: apierror.TypeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, apierror.ContentTypeProblemJSON, w.Header().Get("Content-Type"))

			var problem apierror.ProblemDetails
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), problem.RequestID)
		})
	}
}

func TestRouterSaveSessionIdempotent(t *testing.T) {
	router := newTestRouter(t, nil)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/save-session", strings.NewReader(`{"duration":1500,"breakTime":300,"score":70}`))
		req.Header.Set(middleware.IdempotencyKeyHeader, "retry-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	second := send()

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())

	var saved models.SaveSessionResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &saved))
	// Saturday at 09:00
	assert.Equal(t, float64(5), saved.Session["dayOfWeek"])
	assert.Equal(t, float64(9), saved.Session["hour"])
}

func TestRouterRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute, "router-test")
	defer limiter.Stop()
	router := newTestRouter(t, limiter)

	body := `{"trainingData":[],"currentHour":9}`
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body)))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)

	// Health stays reachable
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterMetrics(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"trainingData":[],"currentHour":9}`)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "studyguide_predictions_total")
	assert.Contains(t, w.Body.String(), "studyguide_http_requests_total")
}

func TestNewSessionStore(t *testing.T) {
	ctx := context.Background()

	store, err := newSessionStore(ctx, config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &repository.MemorySessionStore{}, store)

	dbPath := filepath.Join(t.TempDir(), "nested", "sessions.db")
	store, err = newSessionStore(ctx, config.StoreConfig{Driver: "sqlite", SQLite: config.SQLiteConfig{Path: dbPath}})
	require.NoError(t, err)
	require.NoError(t, store.Close())
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	_, err = newSessionStore(ctx, config.StoreConfig{Driver: "redis"})
	assert.Error(t, err)
}

func TestPredictCommand(t *testing.T) {
	var out bytes.Buffer
	predictCmd.SetIn(strings.NewReader(`{"trainingData":[],"currentHour":9}`))
	predictCmd.SetOut(&out)
	predictCmd.SetContext(context.Background())
	inputFile = "-"

	require.NoError(t, runPredict(predictCmd, nil))

	var got models.PredictionResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 1500, got.Duration)
	assert.Equal(t, 300, got.BreakTime)
	assert.Equal(t, 0.3, got.Confidence)
}

func TestPredictCommandFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"trainingData":[]}`), 0o600))

	var out bytes.Buffer
	predictCmd.SetOut(&out)
	predictCmd.SetContext(context.Background())
	inputFile = path

	err := runPredict(predictCmd, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errOutcomeFailure))
	assert.Contains(t, out.String(), "error: ")
}

func TestFeedbackCommand(t *testing.T) {
	var out bytes.Buffer
	feedbackCmd.SetIn(strings.NewReader(`{"trainingData":[]}`))
	feedbackCmd.SetOut(&out)
	feedbackCmd.SetContext(context.Background())
	inputFile = "-"

	require.NoError(t, runFeedback(feedbackCmd, nil))

	var got models.FeedbackReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, service.NoDataReport(), got)
}
