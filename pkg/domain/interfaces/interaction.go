package interfaces

import (
	"context"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
)

// InteractionRepository defines the interface for interaction persistence.
// Profile fields are merged by user ID (last write wins) while the
// interaction history itself is append-only. Implementations must provide
// snapshot-consistent reads: a concurrent Put must never corrupt an
// in-flight ListVectors scan.
type InteractionRepository interface {
	// Put merges the user's profile by ID and appends one interaction
	Put(ctx context.Context, interaction *model.Interaction) error

	// ListVectors returns a full corpus snapshot for similarity search
	ListVectors(ctx context.Context) ([]*model.UserVector, error)

	// ListResponsesByQuery returns the responses stored for interactions
	// with exactly the given query text
	ListResponsesByQuery(ctx context.Context, query string) ([]string, error)

	// ListEnrolledCourses returns the distinct course names the given
	// users are enrolled in
	ListEnrolledCourses(ctx context.Context, userIDs []types.UserID) ([]string, error)

	// Enroll records a user's enrollment in a course
	Enroll(ctx context.Context, userID types.UserID, courseName string) error
}

// CourseRepository defines the interface for the course catalog
type CourseRepository interface {
	// List returns all catalog courses with their modules
	List(ctx context.Context) ([]*model.Course, error)

	// Put creates or replaces a course by name
	Put(ctx context.Context, course *model.Course) error
}
