package service

import "github.com/rivermin01/personal-study-guide/internal/models"

// SumSegments totals segment durations in seconds. Nil slices sum to 0.
func SumSegments(segments []models.Segment) float64 {
	var total float64
	for _, seg := range segments {
		total += seg.Duration
	}
	return total
}

// AggregateSession reduces a raw session to study and break totals.
// index is only used to label a missing-key error.
func AggregateSession(index int, raw models.RawSession) (models.ProcessedSession, error) {
	if raw.Hour == nil {
		return models.ProcessedSession{}, &models.MissingKeyError{Index: index, Key: "hour"}
	}
	if raw.DayOfWeek == nil {
		return models.ProcessedSession{}, &models.MissingKeyError{Index: index, Key: "dayOfWeek"}
	}
	if raw.Score == nil {
		return models.ProcessedSession{}, &models.MissingKeyError{Index: index, Key: "score"}
	}

	return models.ProcessedSession{
		Hour:      *raw.Hour,
		DayOfWeek: *raw.DayOfWeek,
		Score:     *raw.Score,
		Duration:  SumSegments(raw.StudySegments),
		BreakTime: SumSegments(raw.BreakSegments),
	}, nil
}

// AggregateSessions processes every raw session in order, stopping at the
// first one missing a required key.
func AggregateSessions(raws []models.RawSession) ([]models.ProcessedSession, error) {
	processed := make([]models.ProcessedSession, 0, len(raws))
	for i, raw := range raws {
		p, err := AggregateSession(i, raw)
		if err != nil {
			return nil, err
		}
		processed = append(processed, p)
	}
	return processed, nil
}
