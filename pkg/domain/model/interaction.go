package model

import (
	"time"

	"github.com/impel-lab/compass/pkg/domain/types"
)

// EmbeddingDimension is the dimension of the embedding vector
// (matches the configured embedding model output)
const EmbeddingDimension = 768

// Interaction represents one persisted record of a user's query, the
// response they were given, and the embedding vector computed for them.
// Interactions are append-only: created once, never updated.
type Interaction struct {
	ID        types.InteractionID
	UserID    types.UserID
	Profile   Profile
	Query     string
	Response  string
	Embedding []float32
	CreatedAt time.Time
}

// UserVector is one corpus entry for similarity search: the vector a past
// interaction was stored with, plus enough context to seed a
// recommendation prompt.
type UserVector struct {
	UserID types.UserID
	Query  string
	Vector []float32
}

// SimilarUser is a transient similarity result. It is computed per
// request from the stored corpus and never persisted.
type SimilarUser struct {
	UserID types.UserID
	Query  string
	Score  float64
}
