package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/repository/memory"
	"github.com/impel-lab/compass/pkg/service/catalog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

// failingCourseRepo forces List to fail
type failingCourseRepo struct{}

func (r *failingCourseRepo) List(ctx context.Context) ([]*model.Course, error) {
	return nil, goerr.New("store unavailable")
}

func (r *failingCourseRepo) Put(ctx context.Context, course *model.Course) error {
	return goerr.New("store unavailable")
}

func TestPromptBlock(t *testing.T) {
	ctx := context.Background()

	t.Run("lazily loads the catalog on first use", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.Course().Put(ctx, &model.Course{
			Name:    "ML Basics",
			Modules: []model.Module{{Name: "Regression", Summary: "Linear models"}},
		})).Required()

		svc, err := catalog.New(repo.Course())
		gt.NoError(t, err).Required()

		block := svc.PromptBlock(ctx)
		gt.Value(t, strings.Contains(block, "**Course: ML Basics**")).Equal(true)
		gt.Value(t, strings.Contains(block, "- Regression: Linear models")).Equal(true)
	})

	t.Run("empty catalog degrades to the placeholder", func(t *testing.T) {
		svc, err := catalog.New(memory.New().Course())
		gt.NoError(t, err).Required()

		gt.Value(t, svc.PromptBlock(ctx)).Equal(catalog.UnavailableText)
	})

	t.Run("load failure degrades to the placeholder", func(t *testing.T) {
		svc, err := catalog.New(&failingCourseRepo{})
		gt.NoError(t, err).Required()

		gt.Value(t, svc.PromptBlock(ctx)).Equal(catalog.UnavailableText)
	})

	t.Run("refresh picks up new courses", func(t *testing.T) {
		repo := memory.New()
		svc, err := catalog.New(repo.Course())
		gt.NoError(t, err).Required()

		gt.Value(t, svc.PromptBlock(ctx)).Equal(catalog.UnavailableText)

		gt.NoError(t, repo.Course().Put(ctx, &model.Course{Name: "New Course"})).Required()
		gt.NoError(t, svc.Refresh(ctx)).Required()

		gt.Value(t, strings.Contains(svc.PromptBlock(ctx), "**Course: New Course**")).Equal(true)
	})
}
