package service

import (
	"fmt"

	"github.com/rivermin01/personal-study-guide/internal/models"
)

// OutcomeKind tags how an operation finished.
type OutcomeKind int

const (
	// OutcomeOK means the full pipeline ran.
	OutcomeOK OutcomeKind = iota
	// OutcomeInsufficientData means too few sessions to train; the result
	// carries the low-confidence defaults.
	OutcomeInsufficientData
	// OutcomeFailure means an internal error; the result is a degraded
	// fallback and Err holds the cause.
	OutcomeFailure
	// OutcomeInvalid means the caller sent a correctable bad request; Err
	// is a *ValidationError.
	OutcomeInvalid
)

// String returns the metric/log label for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeInsufficientData:
		return "insufficient_data"
	case OutcomeFailure:
		return "failure"
	case OutcomeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// PredictionOutcome is the tagged result of a prediction request.
type PredictionOutcome struct {
	Kind   OutcomeKind
	Result models.PredictionResult
	Err    error
}

// FeedbackOutcome is the tagged result of a feedback request.
type FeedbackOutcome struct {
	Kind   OutcomeKind
	Report models.FeedbackReport
	Err    error
}

// SaveOutcome is the tagged result of a save-session request.
type SaveOutcome struct {
	Kind     OutcomeKind
	Response models.SaveSessionResponse
	Err      error
}

// ValidationError is a caller-correctable problem with a request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
