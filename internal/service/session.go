package service

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/models"
	"github.com/rivermin01/personal-study-guide/internal/repository"
)

const (
	minScore = 1.0
	maxScore = 100.0

	msgSessionSaved = "Study session saved successfully."
)

// requiredSessionFields are checked in this order; the first missing one is
// reported.
var requiredSessionFields = []string{"duration", "breakTime", "score"}

// ErrNilStore is returned when a session service has nowhere to save.
var ErrNilStore = errors.New("session store not configured")

type sessionService struct {
	store repository.SessionStore
	clock Clock
}

// NewSessionService creates a session service that appends to store.
func NewSessionService(store repository.SessionStore, clock Clock) SessionService {
	if clock == nil {
		clock = SystemClock
	}
	return &sessionService{store: store, clock: clock}
}

// Save validates a finished session, stamps the server's current hour and
// weekday onto it and appends it to the store. The response echoes every
// client field.
func (s *sessionService) Save(ctx context.Context, payload map[string]any) SaveOutcome {
	log := logger.Ctx(ctx)

	if payload == nil {
		return saveFailure(errors.New("request body must be a JSON object"))
	}

	for _, field := range requiredSessionFields {
		if _, ok := payload[field]; !ok {
			return saveInvalid(field, "missing field: "+field)
		}
	}

	score, ok := numberValue(payload["score"])
	if !ok {
		return saveFailure(fmt.Errorf("score must be a number, got %T", payload["score"]))
	}
	if score < minScore || score > maxScore {
		return saveInvalid("score", "score must be between 1 and 100")
	}

	now := s.clock.Now()
	session := &models.SavedSession{
		Payload:   maps.Clone(payload),
		Hour:      now.Hour(),
		DayOfWeek: Weekday(now),
		Score:     score,
		SavedAt:   now,
	}

	if raw, ok := payload["id"]; ok {
		id, isString := raw.(string)
		if !isString {
			return saveInvalid("id", fmt.Sprintf("invalid field: id must be a string, got %T", raw))
		}
		if err := ValidateSessionID(id, now); err != nil {
			return saveInvalid("id", fmt.Sprintf("invalid field: id: %v", err))
		}
		session.ID = id
	}

	if s.store == nil {
		return saveFailure(ErrNilStore)
	}
	if session.ID == "" {
		id, err := repository.NewSessionID()
		if err != nil {
			return saveFailure(err)
		}
		session.ID = id
	}

	// The payload is final before the store sees it
	session.Payload["hour"] = session.Hour
	session.Payload["dayOfWeek"] = session.DayOfWeek
	session.Payload["id"] = session.ID

	id, err := s.store.Append(ctx, session)
	if errors.Is(err, repository.ErrDuplicateID) {
		return saveInvalid("id", fmt.Sprintf("invalid field: id: %v", repository.ErrDuplicateID))
	}
	if err != nil {
		log.Error("failed to save session", logger.Err(err))
		return saveFailure(err)
	}

	log.Debug("session saved",
		logger.String("session_id", id),
		logger.Int("hour", session.Hour),
		logger.Int("day_of_week", session.DayOfWeek),
		logger.Float64("score", score),
	)

	return SaveOutcome{
		Kind: OutcomeOK,
		Response: models.SaveSessionResponse{
			Message: msgSessionSaved,
			Session: session.Payload,
			ID:      id,
		},
	}
}

// Get returns a stored session.
func (s *sessionService) Get(ctx context.Context, id string) (*models.SavedSession, error) {
	if s.store == nil {
		return nil, ErrNilStore
	}
	return s.store.Get(ctx, id)
}

// numberValue accepts the numeric types a decoded JSON object can hold.
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func saveInvalid(field, message string) SaveOutcome {
	return SaveOutcome{
		Kind: OutcomeInvalid,
		Err:  &ValidationError{Field: field, Message: message},
	}
}

func saveFailure(err error) SaveOutcome {
	return SaveOutcome{Kind: OutcomeFailure, Err: err}
}
