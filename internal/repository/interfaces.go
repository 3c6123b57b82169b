package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rivermin01/personal-study-guide/internal/models"
)

var (
	// ErrNotFound is returned when a session id is not in the store
	ErrNotFound = errors.New("session not found")

	// ErrDuplicateID is returned when appending a session whose id is
	// already stored
	ErrDuplicateID = errors.New("session id already exists")
)

// SessionStore persists saved study sessions
type SessionStore interface {
	// Append stores the session and returns its id. A session without an
	// ID gets a fresh UUIDv7.
	Append(ctx context.Context, session *models.SavedSession) (string, error)

	// Get returns a previously appended session
	Get(ctx context.Context, id string) (*models.SavedSession, error)

	// Close releases the store's resources
	Close() error
}

// NewSessionID returns a fresh time-ordered session id
func NewSessionID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return id.String(), nil
}

// ensureID assigns a UUIDv7 to a session that has none
func ensureID(session *models.SavedSession) error {
	if session.ID != "" {
		return nil
	}
	id, err := NewSessionID()
	if err != nil {
		return err
	}
	session.ID = id
	return nil
}
