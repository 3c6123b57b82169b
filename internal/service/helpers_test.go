package service

import (
	"time"

	"github.com/rivermin01/personal-study-guide/internal/models"
)

// fixedNow is a Wednesday (dayOfWeek 2) at 14:30 UTC.
var fixedNow = time.Date(2026, 3, 4, 14, 30, 0, 0, time.UTC)

func fixedClock() Clock {
	return ClockFunc(func() time.Time { return fixedNow })
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

// rawSession builds a session with one study and one break segment.
func rawSession(hour, day int, score, study, brk float64) models.RawSession {
	return models.RawSession{
		Hour:          intPtr(hour),
		DayOfWeek:     intPtr(day),
		Score:         floatPtr(score),
		StudySegments: []models.Segment{{Duration: study}},
		BreakSegments: []models.Segment{{Duration: brk}},
	}
}
