package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidUUID indicates the string is not a valid UUID format
	ErrInvalidUUID = errors.New("invalid UUID format")
	// ErrNotUUIDv7 indicates the UUID is not version 7
	ErrNotUUIDv7 = errors.New("UUID must be version 7")
	// ErrFutureTimestamp indicates the UUIDv7 timestamp is too far in the future
	ErrFutureTimestamp = errors.New("UUID timestamp is too far in the future")
)

// MaxFutureSkew is how far ahead of now a client-generated session id may be.
const MaxFutureSkew = time.Minute

// ValidateSessionID checks that a client-supplied id is a UUIDv7 whose
// embedded timestamp is not more than MaxFutureSkew after now.
func ValidateSessionID(id string, now time.Time) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}

	if parsed.Version() != 7 {
		return fmt.Errorf("%w: got version %d", ErrNotUUIDv7, parsed.Version())
	}

	timestamp := uuidTime(parsed)
	if timestamp.After(now.Add(MaxFutureSkew)) {
		return fmt.Errorf("%w: %s is more than %s ahead",
			ErrFutureTimestamp, timestamp.UTC().Format(time.RFC3339), MaxFutureSkew)
	}

	return nil
}

// SessionIDTime returns the creation time embedded in a UUIDv7 session id,
// or the zero time if id does not parse.
func SessionIDTime(id string) time.Time {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return time.Time{}
	}
	return uuidTime(parsed)
}

// uuidTime converts the embedded Unix milliseconds of a v7 id.
func uuidTime(id uuid.UUID) time.Time {
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec)
}
