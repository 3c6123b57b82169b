package models

import (
	"fmt"
	"time"
)

// Segment is one study or break interval recorded by the client timer.
// Only Duration (seconds) takes part in any computation.
type Segment struct {
	ID            string  `json:"id,omitempty"`
	StartTime     float64 `json:"startTime,omitempty"`
	EndTime       float64 `json:"endTime,omitempty"`
	Duration      float64 `json:"duration"`
	SegmentNumber int     `json:"segmentNumber,omitempty"`
}

// RawSession is a past study session as sent by the client.
// Hour, DayOfWeek and Score are required keys; pointers let us tell a
// missing key apart from a zero value.
type RawSession struct {
	Hour          *int      `json:"hour"`
	DayOfWeek     *int      `json:"dayOfWeek"`
	Score         *float64  `json:"score"`
	StudySegments []Segment `json:"studySegments"`
	BreakSegments []Segment `json:"breakSegments"`
}

// MissingKeyError reports a required key absent from a training session.
type MissingKeyError struct {
	Index int
	Key   string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("trainingData[%d]: missing key %q", e.Index, e.Key)
}

// ProcessedSession is a RawSession reduced to scalar totals.
type ProcessedSession struct {
	Hour      int     `json:"hour"`
	DayOfWeek int     `json:"dayOfWeek"`
	Score     float64 `json:"score"`
	Duration  float64 `json:"duration"`  // total study seconds
	BreakTime float64 `json:"breakTime"` // total break seconds
}

// IsWeekend reports whether the session fell on Saturday or Sunday
// (Monday = 0 numbering).
func (p ProcessedSession) IsWeekend() bool {
	return p.DayOfWeek >= 5
}

// SavedSession is a session record accepted by POST /save-session.
// Payload keeps every client field so the response can echo it verbatim.
type SavedSession struct {
	ID        string         `json:"id"`
	Payload   map[string]any `json:"payload"`
	Hour      int            `json:"hour"`
	DayOfWeek int            `json:"day_of_week"`
	Score     float64        `json:"score"`
	SavedAt   time.Time      `json:"saved_at"`
}

// SaveSessionResponse is the success body of POST /save-session.
type SaveSessionResponse struct {
	Message string         `json:"message"`
	Session map[string]any `json:"session"`
	ID      string         `json:"id"`
}

// Clone returns a copy of s whose Payload shares no maps or slices with s.
func (s SavedSession) Clone() SavedSession {
	s.Payload = clonePayload(s.Payload)
	return s
}

func clonePayload(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return clonePayload(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
