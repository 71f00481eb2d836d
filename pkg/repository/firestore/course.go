package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

type moduleDoc struct {
	Name    string `firestore:"Name"`
	Summary string `firestore:"Summary"`
}

type courseDoc struct {
	Name    string      `firestore:"Name"`
	Modules []moduleDoc `firestore:"Modules"`
}

func toCourseDoc(c *model.Course) *courseDoc {
	doc := &courseDoc{Name: c.Name}
	for _, m := range c.Modules {
		doc.Modules = append(doc.Modules, moduleDoc{Name: m.Name, Summary: m.Summary})
	}
	return doc
}

func fromCourseDoc(d *courseDoc) *model.Course {
	c := &model.Course{Name: d.Name}
	for _, m := range d.Modules {
		c.Modules = append(c.Modules, model.Module{Name: m.Name, Summary: m.Summary})
	}
	return c
}

type courseRepository struct {
	client *firestore.Client
}

func newCourseRepository(client *firestore.Client) *courseRepository {
	return &courseRepository{client: client}
}

func (r *courseRepository) coursesCollection() *firestore.CollectionRef {
	return r.client.Collection("courses")
}

func (r *courseRepository) List(ctx context.Context) ([]*model.Course, error) {
	iter := r.coursesCollection().OrderBy("Name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var courses []*model.Course
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate courses")
		}

		var d courseDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal course")
		}
		courses = append(courses, fromCourseDoc(&d))
	}

	return courses, nil
}

func (r *courseRepository) Put(ctx context.Context, course *model.Course) error {
	docRef := r.coursesCollection().Doc(course.Name)
	if _, err := docRef.Set(ctx, toCourseDoc(course)); err != nil {
		return goerr.Wrap(err, "failed to put course", goerr.V("name", course.Name))
	}
	return nil
}
