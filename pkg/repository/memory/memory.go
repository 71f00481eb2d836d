package memory

import (
	"errors"

	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// Repository is an in-memory implementation of interfaces.Repository.
// It is used for development and as the store fake in tests.
type Repository struct {
	interaction *interactionRepository
	course      *courseRepository
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		interaction: newInteractionRepository(),
		course:      newCourseRepository(),
	}
}

// Interaction returns the interaction repository
func (r *Repository) Interaction() interfaces.InteractionRepository {
	return r.interaction
}

// Course returns the course repository
func (r *Repository) Course() interfaces.CourseRepository {
	return r.course
}

// Close is a no-op for the in-memory repository
func (r *Repository) Close() error {
	return nil
}

// InteractionCount returns the number of stored interactions. Test helper.
func (r *Repository) InteractionCount() int {
	return r.interaction.Count()
}

// UserProfile returns the merged profile stored for a user. Test helper.
func (r *Repository) UserProfile(userID types.UserID) (model.Profile, bool) {
	return r.interaction.Profile(userID)
}
