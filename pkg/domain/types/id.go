package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// UserID identifies a user across interactions. It is supplied by the
// caller, never generated by this system.
type UserID string

// Validate checks if the UserID is non-empty
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}

// InteractionID is a UUID-based identifier for a stored interaction
type InteractionID string

// NewInteractionID generates a new UUID v7 InteractionID. UUID v7 keeps
// IDs ordered by creation time, which preserves insertion order within a
// user's history.
func NewInteractionID() InteractionID {
	return InteractionID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of InteractionID
func (i InteractionID) String() string {
	return string(i)
}
