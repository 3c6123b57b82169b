package service

import "github.com/rivermin01/personal-study-guide/internal/models"

// timeBand maps a half-open hour range to a value.
type timeBand[T any] struct {
	start, end int
	value      T
}

// predictionTimeBands weights hours for the regression features. Hours
// outside every band get predictionNightWeight.
//
// These boundaries differ from feedbackTimeBands. Keep the two tables
// separate.
var predictionTimeBands = []timeBand[float64]{
	{start: 5, end: 10, value: 1.0},
	{start: 10, end: 15, value: 0.8},
	{start: 15, end: 20, value: 0.7},
}

const (
	predictionNightWeight = 0.5
	weekendWeight         = 0.8
	weekdayWeight         = 1.0

	// recentScoreWindow is how many trailing sessions feed the current
	// moment's representative score.
	recentScoreWindow = 5
	// fallbackScore stands in when there are no sessions at all.
	fallbackScore = 70.0
)

func lookupBand[T any](bands []timeBand[T], hour int, fallback T) T {
	for _, b := range bands {
		if hour >= b.start && hour < b.end {
			return b.value
		}
	}
	return fallback
}

// TimeWeight returns the prediction feature weight for an hour of day.
func TimeWeight(hour int) float64 {
	return lookupBand(predictionTimeBands, hour, predictionNightWeight)
}

// WeekendWeight returns 0.8 for Saturday/Sunday (5, 6) and 1.0 otherwise.
func WeekendWeight(dayOfWeek int) float64 {
	if dayOfWeek >= 5 {
		return weekendWeight
	}
	return weekdayWeight
}

// ExtractFeatures builds the feature vector for a moment described by hour,
// weekday and a 0-100 score.
func ExtractFeatures(hour, dayOfWeek int, score float64) models.FeatureVector {
	return models.FeatureVector{
		TimeWeight:      TimeWeight(hour),
		WeekendWeight:   WeekendWeight(dayOfWeek),
		NormalizedScore: score / 100.0,
	}
}

// SessionFeatures builds the feature vector for a processed session.
func SessionFeatures(s models.ProcessedSession) models.FeatureVector {
	return ExtractFeatures(s.Hour, s.DayOfWeek, s.Score)
}

// RepresentativeScore is the mean score of the last five sessions, or of
// all of them when there are fewer; 70 with no sessions.
func RepresentativeScore(sessions []models.ProcessedSession) float64 {
	if len(sessions) == 0 {
		return fallbackScore
	}
	recent := sessions
	if len(recent) > recentScoreWindow {
		recent = recent[len(recent)-recentScoreWindow:]
	}
	var sum float64
	for _, s := range recent {
		sum += s.Score
	}
	return sum / float64(len(recent))
}

// CurrentFeatures builds the query vector for the moment being predicted.
func CurrentFeatures(hour, dayOfWeek int, sessions []models.ProcessedSession) models.FeatureVector {
	return ExtractFeatures(hour, dayOfWeek, RepresentativeScore(sessions))
}

// BuildTrainingSet returns the feature matrix and the two target vectors.
func BuildTrainingSet(sessions []models.ProcessedSession) (x [][]float64, yDuration, yBreak []float64) {
	x = make([][]float64, len(sessions))
	yDuration = make([]float64, len(sessions))
	yBreak = make([]float64, len(sessions))
	for i, s := range sessions {
		x[i] = SessionFeatures(s).Slice()
		yDuration[i] = s.Duration
		yBreak[i] = s.BreakTime
	}
	return x, yDuration, yBreak
}
