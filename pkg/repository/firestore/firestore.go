package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = errors.New("not found")

// Firestore is the production implementation of interfaces.Repository
type Firestore struct {
	client      *firestore.Client
	interaction *interactionRepository
	course      *courseRepository
}

var _ interfaces.Repository = &Firestore{}

// New creates a Firestore-backed repository. databaseID may be empty to
// use the default database.
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	return &Firestore{
		client:      client,
		interaction: newInteractionRepository(client),
		course:      newCourseRepository(client),
	}, nil
}

// Interaction returns the interaction repository
func (f *Firestore) Interaction() interfaces.InteractionRepository {
	return f.interaction
}

// Course returns the course repository
func (f *Firestore) Course() interfaces.CourseRepository {
	return f.course
}

// Close closes the underlying Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
