package firestore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/repository/firestore"
	"github.com/m-mizutani/gt"
)

func newTestRepository(t *testing.T) *firestore.Firestore {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	repo, err := firestore.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close repository: %v", err)
		}
	})
	return repo
}

func TestInteractionPutRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	userID := types.UserID(fmt.Sprintf("test-user-%d", time.Now().UnixNano()))
	query := fmt.Sprintf("which course fits me? (%s)", userID)

	err := repo.Interaction().Put(ctx, &model.Interaction{
		UserID: userID,
		Profile: model.Profile{
			Education:  types.EducationGraduate,
			AgeGroup:   types.AgeGroup26To40,
			Profession: types.ProfessionProfessional,
		},
		Query:     query,
		Response:  "Take ML Basics.",
		Embedding: []float32{0.25, -0.5, 0.75},
	})
	gt.NoError(t, err).Required()

	// Both sides of the write must be visible: the interaction through
	// the corpus scan and the response through the query lookup.
	vectors, err := repo.Interaction().ListVectors(ctx)
	gt.NoError(t, err).Required()
	var found *model.UserVector
	for _, v := range vectors {
		if v.UserID == userID {
			found = v
		}
	}
	gt.Value(t, found != nil).Equal(true)
	gt.Value(t, found.Query).Equal(query)
	gt.Array(t, found.Vector).Length(3)

	responses, err := repo.Interaction().ListResponsesByQuery(ctx, query)
	gt.NoError(t, err).Required()
	gt.Array(t, responses).Length(1)
	gt.Value(t, responses[0]).Equal("Take ML Basics.")
}

func TestInteractionPutReportsWriteFailure(t *testing.T) {
	repo := newTestRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Interaction().Put(ctx, &model.Interaction{
		UserID: types.UserID(fmt.Sprintf("test-user-%d", time.Now().UnixNano())),
		Profile: model.Profile{
			Education:  types.EducationGraduate,
			AgeGroup:   types.AgeGroup26To40,
			Profession: types.ProfessionProfessional,
		},
		Query:    "never stored",
		Response: "never stored",
	})
	gt.Error(t, err)
}

func TestEnrollRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	userID := types.UserID(fmt.Sprintf("test-user-%d", time.Now().UnixNano()))

	gt.NoError(t, repo.Interaction().Enroll(ctx, userID, "ML Basics")).Required()
	gt.NoError(t, repo.Interaction().Enroll(ctx, userID, "ML Basics")).Required()

	courses, err := repo.Interaction().ListEnrolledCourses(ctx, []types.UserID{userID})
	gt.NoError(t, err).Required()
	gt.Array(t, courses).Length(1)
	gt.Value(t, courses[0]).Equal("ML Basics")
}
