package service

import (
	"context"

	"github.com/rivermin01/personal-study-guide/internal/models"
)

// PredictionService recommends the next study and break durations
type PredictionService interface {
	Predict(ctx context.Context, req *models.PredictRequest) PredictionOutcome
}

// FeedbackService produces the study-pattern report
type FeedbackService interface {
	Feedback(ctx context.Context, req *models.FeedbackRequest) FeedbackOutcome
}

// SessionService validates, timestamps and stores finished sessions
type SessionService interface {
	Save(ctx context.Context, payload map[string]any) SaveOutcome
	Get(ctx context.Context, id string) (*models.SavedSession, error)
}
