package memory_test

import (
	"context"
	"testing"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func testProfile(edu types.Education) model.Profile {
	return model.Profile{
		Education:  edu,
		AgeGroup:   types.AgeGroup18To25,
		Profession: types.ProfessionStudent,
	}
}

func TestInteractionPut(t *testing.T) {
	ctx := context.Background()

	t.Run("generates ID and timestamp when absent", func(t *testing.T) {
		repo := memory.New()
		err := repo.Interaction().Put(ctx, &model.Interaction{
			UserID:   "u1",
			Profile:  testProfile(types.EducationUndergraduate),
			Query:    "list courses",
			Response: "here",
		})
		gt.NoError(t, err).Required()
		gt.Number(t, repo.InteractionCount()).Equal(1)
	})

	t.Run("merging keeps history and overwrites profile", func(t *testing.T) {
		repo := memory.New()

		gt.NoError(t, repo.Interaction().Put(ctx, &model.Interaction{
			UserID:  "u1",
			Profile: testProfile(types.EducationUndergraduate),
			Query:   "first",
		})).Required()
		gt.NoError(t, repo.Interaction().Put(ctx, &model.Interaction{
			UserID:  "u1",
			Profile: testProfile(types.EducationGraduate),
			Query:   "second",
		})).Required()

		gt.Number(t, repo.InteractionCount()).Equal(2)

		profile, ok := repo.UserProfile("u1")
		gt.Value(t, ok).Equal(true)
		gt.Value(t, profile.Education).Equal(types.EducationGraduate)
	})

	t.Run("stored interaction is isolated from caller mutation", func(t *testing.T) {
		repo := memory.New()
		embedding := []float32{0.1, 0.2, 0.3}
		gt.NoError(t, repo.Interaction().Put(ctx, &model.Interaction{
			UserID:    "u1",
			Profile:   testProfile(types.EducationGraduate),
			Query:     "q",
			Embedding: embedding,
		})).Required()

		embedding[0] = 99

		vectors, err := repo.Interaction().ListVectors(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, vectors).Length(1)
		gt.Value(t, vectors[0].Vector[0]).Equal(float32(0.1))
	})
}

func TestListVectors(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.NoError(t, repo.Interaction().Put(ctx, &model.Interaction{
		UserID: "beta", Profile: testProfile(types.EducationGraduate),
		Query: "q1", Embedding: []float32{1, 0},
	})).Required()
	gt.NoError(t, repo.Interaction().Put(ctx, &model.Interaction{
		UserID: "alpha", Profile: testProfile(types.EducationGraduate),
		Query: "q2", Embedding: []float32{0, 1},
	})).Required()
	// No embedding: must not appear in the snapshot.
	gt.NoError(t, repo.Interaction().Put(ctx, &model.Interaction{
		UserID: "gamma", Profile: testProfile(types.EducationGraduate),
		Query: "q3",
	})).Required()

	vectors, err := repo.Interaction().ListVectors(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, vectors).Length(2)
	gt.Value(t, vectors[0].UserID).Equal(types.UserID("alpha"))
	gt.Value(t, vectors[1].UserID).Equal(types.UserID("beta"))
}

func TestListResponsesByQuery(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.NoError(t, repo.Interaction().Put(ctx, &model.Interaction{
		UserID: "u1", Profile: testProfile(types.EducationGraduate),
		Query: "what is ML?", Response: "answer one",
	})).Required()
	gt.NoError(t, repo.Interaction().Put(ctx, &model.Interaction{
		UserID: "u2", Profile: testProfile(types.EducationGraduate),
		Query: "what is ML?", Response: "answer two",
	})).Required()
	gt.NoError(t, repo.Interaction().Put(ctx, &model.Interaction{
		UserID: "u3", Profile: testProfile(types.EducationGraduate),
		Query: "unrelated", Response: "other",
	})).Required()

	responses, err := repo.Interaction().ListResponsesByQuery(ctx, "what is ML?")
	gt.NoError(t, err).Required()
	gt.Array(t, responses).Length(2)

	none, err := repo.Interaction().ListResponsesByQuery(ctx, "never asked")
	gt.NoError(t, err).Required()
	gt.Array(t, none).Length(0)
}

func TestEnrollments(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.NoError(t, repo.Interaction().Enroll(ctx, "u1", "Data Engineering")).Required()
	gt.NoError(t, repo.Interaction().Enroll(ctx, "u1", "ML Basics")).Required()
	gt.NoError(t, repo.Interaction().Enroll(ctx, "u2", "ML Basics")).Required()

	t.Run("duplicates across users collapse", func(t *testing.T) {
		courses, err := repo.Interaction().ListEnrolledCourses(ctx,
			[]types.UserID{"u1", "u2"})
		gt.NoError(t, err).Required()
		gt.Value(t, courses).Equal([]string{"Data Engineering", "ML Basics"})
	})

	t.Run("unknown users are skipped", func(t *testing.T) {
		courses, err := repo.Interaction().ListEnrolledCourses(ctx,
			[]types.UserID{"nobody", "u2"})
		gt.NoError(t, err).Required()
		gt.Value(t, courses).Equal([]string{"ML Basics"})
	})
}

func TestCourseRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.NoError(t, repo.Course().Put(ctx, &model.Course{
		Name:    "ML Basics",
		Modules: []model.Module{{Name: "Regression", Summary: "Linear models"}},
	})).Required()
	gt.NoError(t, repo.Course().Put(ctx, &model.Course{
		Name: "Data Engineering",
	})).Required()

	courses, err := repo.Course().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, courses).Length(2)
	gt.Value(t, courses[0].Name).Equal("Data Engineering")
	gt.Value(t, courses[1].Name).Equal("ML Basics")

	t.Run("put replaces by name", func(t *testing.T) {
		gt.NoError(t, repo.Course().Put(ctx, &model.Course{
			Name:    "ML Basics",
			Modules: []model.Module{{Name: "Classification", Summary: "Decision boundaries"}},
		})).Required()

		courses, err := repo.Course().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, courses).Length(2)
		gt.Value(t, courses[1].Modules[0].Name).Equal("Classification")
	})
}
