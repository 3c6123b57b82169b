package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/models"
	"github.com/rivermin01/personal-study-guide/internal/regression"
)

// ErrMissingCurrentHour is returned when a predict request has no currentHour.
var ErrMissingCurrentHour = errors.New(`missing key "currentHour"`)

type predictionService struct {
	clock Clock
}

// NewPredictionService creates a prediction service. The clock supplies the
// weekday when a request omits dayOfWeek.
func NewPredictionService(clock Clock) PredictionService {
	if clock == nil {
		clock = SystemClock
	}
	return &predictionService{clock: clock}
}

// Predict trains fresh duration and break models on the request's sessions
// and blends their recommendation for the current moment with the defaults.
func (s *predictionService) Predict(ctx context.Context, req *models.PredictRequest) (out PredictionOutcome) {
	log := logger.Ctx(ctx)

	// gonum reports shape problems by panicking.
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("prediction panicked: %v", r)
			log.Error("prediction failed", logger.Err(err))
			out = predictionFailure(err)
		}
	}()

	if req == nil || req.CurrentHour == nil {
		return predictionFailure(ErrMissingCurrentHour)
	}

	sessions, err := AggregateSessions(req.TrainingData)
	if err != nil {
		return predictionFailure(err)
	}

	if len(sessions) < regression.MinTrainingSamples {
		log.Debug("not enough sessions to train",
			logger.Int("sessions", len(sessions)),
			logger.Int("required", regression.MinTrainingSamples),
		)
		return PredictionOutcome{
			Kind:   OutcomeInsufficientData,
			Result: DefaultPrediction(msgInsufficientData),
		}
	}

	x, yDuration, yBreak := BuildTrainingSet(sessions)

	durationModel, durationConfidence, err := regression.Train(x, yDuration)
	if err != nil {
		return predictionFailure(fmt.Errorf("train duration model: %w", err))
	}
	breakModel, breakConfidence, err := regression.Train(x, yBreak)
	if err != nil {
		return predictionFailure(fmt.Errorf("train break model: %w", err))
	}

	dayOfWeek := Weekday(s.clock.Now())
	if req.DayOfWeek != nil {
		dayOfWeek = *req.DayOfWeek
	}
	current := CurrentFeatures(*req.CurrentHour, dayOfWeek, sessions)

	result, err := Blend(durationModel, breakModel, current)
	if err != nil {
		return predictionFailure(err)
	}

	log.Debug("prediction blended",
		logger.Int("sessions", len(sessions)),
		logger.Float64("duration_confidence", durationConfidence),
		logger.Float64("break_confidence", breakConfidence),
		logger.Int("duration", result.Duration),
		logger.Int("break_time", result.BreakTime),
	)

	return PredictionOutcome{Kind: OutcomeOK, Result: result}
}

func predictionFailure(err error) PredictionOutcome {
	return PredictionOutcome{
		Kind:   OutcomeFailure,
		Result: ErrorPrediction(err),
		Err:    err,
	}
}
