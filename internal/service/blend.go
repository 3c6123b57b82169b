package service

import (
	"fmt"
	"math"

	"github.com/rivermin01/personal-study-guide/internal/models"
	"github.com/rivermin01/personal-study-guide/internal/regression"
)

const (
	// DefaultStudySeconds is the fallback study duration (25 minutes).
	DefaultStudySeconds = 25 * 60
	// DefaultBreakSeconds is the fallback break duration (5 minutes).
	DefaultBreakSeconds = 5 * 60

	// FallbackConfidence is reported whenever defaults are returned
	// because there was too little data to use a model.
	FallbackConfidence = 0.3
	// ErrorConfidence is reported with the degraded result of a failure.
	ErrorConfidence = 0.0

	minStudySeconds = 15 * 60
	maxStudySeconds = 120 * 60
	minBreakSeconds = 3 * 60
	maxBreakSeconds = 30 * 60

	// defaultWindowSeconds bounds how far a blended result may move from
	// the default. The window sits inside the absolute bounds, so it is
	// the clamp that takes effect.
	defaultWindowSeconds = 60
)

const (
	msgInsufficientData = "Not enough study data yet; using the default recommendation."
	msgTrainingFailed   = "defaults used: model training failed"
)

// DefaultPrediction is the low-confidence default recommendation.
func DefaultPrediction(message string) models.PredictionResult {
	return models.PredictionResult{
		Duration:   DefaultStudySeconds,
		BreakTime:  DefaultBreakSeconds,
		Confidence: FallbackConfidence,
		Message:    message,
	}
}

// ErrorPrediction is the degraded result returned alongside a failure.
func ErrorPrediction(err error) models.PredictionResult {
	return models.PredictionResult{
		Duration:   DefaultStudySeconds,
		BreakTime:  DefaultBreakSeconds,
		Confidence: ErrorConfidence,
		Message:    fmt.Sprintf("error: %v", err),
	}
}

// Blend mixes both models' predictions for current with the defaults,
// weighting the models by their mean confidence, then clamps the result.
// A nil model means training did not happen and defaults are returned.
func Blend(durationModel, breakModel *regression.TrainedModel, current models.FeatureVector) (models.PredictionResult, error) {
	if durationModel == nil || breakModel == nil {
		return DefaultPrediction(msgTrainingFailed), nil
	}

	features := current.Slice()
	predictedDuration := durationModel.Predict(features)
	predictedBreak := breakModel.Predict(features)

	confidence := (durationModel.Confidence + breakModel.Confidence) / 2
	mlWeight := confidence
	baseWeight := 1 - confidence

	rawDuration := mlWeight*predictedDuration + baseWeight*DefaultStudySeconds
	rawBreak := mlWeight*predictedBreak + baseWeight*DefaultBreakSeconds

	duration, err := truncateSeconds("duration", rawDuration)
	if err != nil {
		return models.PredictionResult{}, err
	}
	breakTime, err := truncateSeconds("break_time", rawBreak)
	if err != nil {
		return models.PredictionResult{}, err
	}

	duration = clamp(duration, minStudySeconds, maxStudySeconds)
	breakTime = clamp(breakTime, minBreakSeconds, maxBreakSeconds)

	duration = clamp(duration, DefaultStudySeconds-defaultWindowSeconds, DefaultStudySeconds+defaultWindowSeconds)
	breakTime = clamp(breakTime, DefaultBreakSeconds-defaultWindowSeconds, DefaultBreakSeconds+defaultWindowSeconds)

	return models.PredictionResult{
		Duration:   duration,
		BreakTime:  breakTime,
		Confidence: confidence,
		Message:    fmt.Sprintf("ML model confidence: %.2f, default weight: %.2f", confidence, baseWeight),
	}, nil
}

// truncateSeconds converts to whole seconds, rounding toward zero.
func truncateSeconds(name string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("cannot convert %s value %v to whole seconds", name, v)
	}
	// Every caller clamps to minutes-scale bounds afterwards, so pinning
	// huge magnitudes here only avoids integer overflow.
	v = math.Max(math.Min(v, math.MaxInt32), math.MinInt32)
	return int(math.Trunc(v)), nil
}

func clamp(v, lo, hi int) int {
	return max(min(v, hi), lo)
}
