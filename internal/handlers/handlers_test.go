package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivermin01/personal-study-guide/internal/apierror"
	"github.com/rivermin01/personal-study-guide/internal/middleware"
	"github.com/rivermin01/personal-study-guide/internal/models"
	"github.com/rivermin01/personal-study-guide/internal/repository"
	"github.com/rivermin01/personal-study-guide/internal/service"
)

const testBodyLimit = 1 << 20

// wednesdayAfternoon is dayOfWeek 2, hour 14.
var wednesdayAfternoon = time.Date(2026, 3, 4, 14, 30, 0, 0, time.UTC)

type testServer struct {
	router *gin.Engine
	store  *repository.MemorySessionStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := service.ClockFunc(func() time.Time { return wednesdayAfternoon })
	store := repository.NewMemorySessionStore()

	prediction := NewPredictionHandler(service.NewPredictionService(clock), testBodyLimit)
	feedback := NewFeedbackHandler(service.NewFeedbackService(), testBodyLimit)
	sessions := NewSessionHandler(service.NewSessionService(store, clock), testBodyLimit)

	router := gin.New()
	router.Use(middleware.BodyLimit(testBodyLimit))
	router.POST("/predict", prediction.Predict)
	router.POST("/feedback", feedback.Feedback)
	router.POST("/save-session", sessions.SaveSession)
	router.GET("/sessions/:id", sessions.GetSession)
	router.GET("/health", Health("test"))

	return &testServer{router: router, store: store}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// sessionsJSON renders n sessions spread over the day with the given
// per-session study and break seconds.
func sessionsJSON(n int, study, brk float64) string {
	hours := []int{7, 9, 11, 14, 16, 19, 22}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(
			`{"hour":%d,"dayOfWeek":%d,"score":%d,"studySegments":[{"id":"s%d","duration":%g}],"breakSegments":[{"duration":%g}]}`,
			hours[i%len(hours)], i%7, 50+(i*13)%50, i, study, brk,
		)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestPredictHandler(t *testing.T) {
	s := newTestServer(t)

	t.Run("insufficient data returns defaults", func(t *testing.T) {
		w := s.do(http.MethodPost, "/predict", `{"trainingData":`+sessionsJSON(4, 1500, 300)+`,"currentHour":10}`)
		require.Equal(t, http.StatusOK, w.Code)

		got := decodeBody[models.PredictionResult](t, w)
		assert.Equal(t, 1500, got.Duration)
		assert.Equal(t, 300, got.BreakTime)
		assert.Equal(t, 0.3, got.Confidence)
		assert.Contains(t, got.Message, "default")
	})

	t.Run("zero durations blend to exact defaults", func(t *testing.T) {
		w := s.do(http.MethodPost, "/predict", `{"trainingData":`+sessionsJSON(10, 0, 0)+`,"currentHour":10,"dayOfWeek":3}`)
		require.Equal(t, http.StatusOK, w.Code)

		got := decodeBody[models.PredictionResult](t, w)
		assert.Equal(t, models.PredictionResult{
			Duration:   1500,
			BreakTime:  300,
			Confidence: 0,
			Message:    "ML model confidence: 0.00, default weight: 1.00",
		}, got)
	})

	t.Run("trained result stays within window", func(t *testing.T) {
		w := s.do(http.MethodPost, "/predict", `{"trainingData":`+sessionsJSON(12, 1800, 420)+`,"currentHour":9}`)
		require.Equal(t, http.StatusOK, w.Code)

		got := decodeBody[models.PredictionResult](t, w)
		assert.GreaterOrEqual(t, got.Duration, 1440)
		assert.LessOrEqual(t, got.Duration, 1560)
		assert.GreaterOrEqual(t, got.BreakTime, 240)
		assert.LessOrEqual(t, got.BreakTime, 360)
		assert.GreaterOrEqual(t, got.Confidence, 0.0)
		assert.LessOrEqual(t, got.Confidence, 1.0)
	})

	t.Run("missing currentHour is a degraded 500", func(t *testing.T) {
		w := s.do(http.MethodPost, "/predict", `{"trainingData":`+sessionsJSON(6, 1500, 300)+`}`)
		require.Equal(t, http.StatusInternalServerError, w.Code)

		got := decodeBody[models.PredictionResult](t, w)
		assert.Equal(t, 1500, got.Duration)
		assert.Equal(t, 300, got.BreakTime)
		assert.Equal(t, 0.0, got.Confidence)
		assert.True(t, strings.HasPrefix(got.Message, "error: "), got.Message)
	})

	t.Run("null currentHour with few sessions is a degraded 500", func(t *testing.T) {
		w := s.do(http.MethodPost, "/predict", `{"trainingData":`+sessionsJSON(3, 1500, 300)+`,"currentHour":null}`)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, 0.0, decodeBody[models.PredictionResult](t, w).Confidence)
	})

	t.Run("null body is a degraded 500", func(t *testing.T) {
		w := s.do(http.MethodPost, "/predict", `null`)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("malformed JSON is a degraded 500", func(t *testing.T) {
		w := s.do(http.MethodPost, "/predict", `{"trainingData":[`)
		require.Equal(t, http.StatusInternalServerError, w.Code)

		got := decodeBody[models.PredictionResult](t, w)
		assert.Equal(t, 1500, got.Duration)
		assert.True(t, strings.HasPrefix(got.Message, "error: "), got.Message)
	})

	t.Run("session missing score key", func(t *testing.T) {
		body := `{"trainingData":[{"hour":9,"dayOfWeek":1,"studySegments":[],"breakSegments":[]}],"currentHour":9}`
		w := s.do(http.MethodPost, "/predict", body)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "score")
	})
}

func TestFeedbackHandler(t *testing.T) {
	s := newTestServer(t)

	t.Run("empty training data", func(t *testing.T) {
		w := s.do(http.MethodPost, "/feedback", `{"trainingData":[]}`)
		require.Equal(t, http.StatusOK, w.Code)

		got := decodeBody[models.FeedbackReport](t, w)
		assert.Equal(t, service.NoDataReport(), got)
	})

	t.Run("report with stats", func(t *testing.T) {
		w := s.do(http.MethodPost, "/feedback", `{"trainingData":`+sessionsJSON(8, 1500, 300)+`}`)
		require.Equal(t, http.StatusOK, w.Code)

		got := decodeBody[models.FeedbackReport](t, w)
		assert.Equal(t, "Analyzed 8 study sessions.", got.Summary)
		require.NotNil(t, got.Stats)
		assert.Equal(t, 8, got.Stats.TotalSessions)
		assert.NotEmpty(t, got.Recommendations)
	})

	t.Run("null body", func(t *testing.T) {
		w := s.do(http.MethodPost, "/feedback", `null`)
		require.Equal(t, http.StatusInternalServerError, w.Code)

		got := decodeBody[models.FeedbackReport](t, w)
		require.Len(t, got.Recommendations, 1)
		assert.Contains(t, got.Recommendations[0], service.ErrNoFeedbackRequest.Error())
	})

	t.Run("object without trainingData", func(t *testing.T) {
		w := s.do(http.MethodPost, "/feedback", `{}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, service.NoDataReport(), decodeBody[models.FeedbackReport](t, w))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w := s.do(http.MethodPost, "/feedback", `not json`)
		require.Equal(t, http.StatusInternalServerError, w.Code)

		got := decodeBody[models.FeedbackReport](t, w)
		assert.Empty(t, got.Strengths)
		assert.Empty(t, got.AreasForImprovement)
		require.Len(t, got.Recommendations, 1)
		assert.Contains(t, got.Recommendations[0], "error: ")
	})
}

func TestSaveSessionHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "missing duration", body: `{"breakTime":300,"score":50}`, wantStatus: http.StatusBadRequest, wantError: "missing field: duration"},
		{name: "missing breakTime", body: `{"duration":1500,"score":50}`, wantStatus: http.StatusBadRequest, wantError: "missing field: breakTime"},
		{name: "missing score", body: `{"duration":1500,"breakTime":300}`, wantStatus: http.StatusBadRequest, wantError: "missing field: score"},
		{name: "score zero", body: `{"duration":1500,"breakTime":300,"score":0}`, wantStatus: http.StatusBadRequest, wantError: "score must be between 1 and 100"},
		{name: "score 101", body: `{"duration":1500,"breakTime":300,"score":101}`, wantStatus: http.StatusBadRequest, wantError: "score must be between 1 and 100"},
		{name: "score 1", body: `{"duration":1500,"breakTime":300,"score":1}`, wantStatus: http.StatusOK},
		{name: "score 100", body: `{"duration":1500,"breakTime":300,"score":100}`, wantStatus: http.StatusOK},
		{name: "not an object", body: `[1,2,3]`, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			w := s.do(http.MethodPost, "/save-session", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			switch tt.wantStatus {
			case http.StatusOK:
				assert.Equal(t, 1, s.store.Len())
			case http.StatusBadRequest:
				got := decodeBody[map[string]string](t, w)
				assert.Equal(t, tt.wantError, got["error"])
				assert.Equal(t, 0, s.store.Len())
			default:
				got := decodeBody[map[string]string](t, w)
				assert.True(t, strings.HasPrefix(got["error"], "error: "), got["error"])
			}
		})
	}
}

func TestSaveSessionEchoAndGet(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/save-session", `{"duration":1500,"breakTime":300,"score":88,"hour":3,"subject":"math"}`)
	require.Equal(t, http.StatusOK, w.Code)

	got := decodeBody[models.SaveSessionResponse](t, w)
	assert.Equal(t, "Study session saved successfully.", got.Message)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "math", got.Session["subject"])
	assert.Equal(t, float64(14), got.Session["hour"])
	assert.Equal(t, float64(2), got.Session["dayOfWeek"])
	assert.Equal(t, got.ID, got.Session["id"])

	w = s.do(http.MethodGet, "/sessions/"+got.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	saved := decodeBody[models.SavedSession](t, w)
	assert.Equal(t, got.ID, saved.ID)
	assert.Equal(t, 14, saved.Hour)
	assert.Equal(t, 2, saved.DayOfWeek)
	assert.Equal(t, 88.0, saved.Score)

	w = s.do(http.MethodGet, "/sessions/019471a0-0000-7000-8000-000000000001", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierror.ContentTypeProblemJSON, w.Header().Get("Content-Type"))

	w = s.do(http.MethodGet, "/sessions/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	problem := decodeBody[apierror.ProblemDetails](t, w)
	assert.Equal(t, apierror.TypeBadRequest, problem.Type)
}

func TestBodyTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const limit = 64

	handler := NewPredictionHandler(service.NewPredictionService(nil), limit)
	router := gin.New()
	router.POST("/predict", middleware.BodyLimit(limit), handler.Predict)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"trainingData":`+sessionsJSON(3, 1, 1)+`}`))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, apierror.ContentTypeProblemJSON, w.Header().Get("Content-Type"))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","env":"test"}`, w.Body.String())
}

// sessionIDAt builds a UUIDv7 whose timestamp is at and whose last byte is seq.
func sessionIDAt(at time.Time, seq byte) string {
	var id uuid.UUID
	ms := uint64(at.UnixMilli())
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}
	id[6] = 0x70
	id[8] = 0x80
	id[15] = seq
	return id.String()
}

func TestSaveSessionDuplicateID(t *testing.T) {
	s := newTestServer(t)
	body := `{"id":"` + sessionIDAt(wednesdayAfternoon.Add(-time.Minute), 1) + `","duration":1500,"breakTime":300,"score":70}`

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/save-session", body).Code)

	w := s.do(http.MethodPost, "/save-session", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	got := decodeBody[map[string]string](t, w)
	assert.Equal(t, "invalid field: id: session id already exists", got["error"])
	assert.Equal(t, 1, s.store.Len())
}

// Run with -race: saves and reads of the same id must not share payload maps.
func TestSaveAndGetSessionConcurrently(t *testing.T) {
	s := newTestServer(t)

	for round := 0; round < 50; round++ {
		id := sessionIDAt(wednesdayAfternoon.Add(-time.Hour), byte(round))
		body := `{"id":"` + id + `","duration":1500,"breakTime":300,"score":70,"tags":["math",{"unit":4}]}`

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 5; j++ {
					w := s.do(http.MethodGet, "/sessions/"+id, "")
					if w.Code != http.StatusOK && w.Code != http.StatusNotFound {
						t.Errorf("GET status = %d", w.Code)
					}
				}
			}()
		}

		w := s.do(http.MethodPost, "/save-session", body)
		wg.Wait()
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		got := decodeBody[models.SavedSession](t, s.do(http.MethodGet, "/sessions/"+id, ""))
		assert.Equal(t, id, got.Payload["id"])
	}
}
