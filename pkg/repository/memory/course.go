package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/impel-lab/compass/pkg/domain/model"
)

type courseRepository struct {
	mu      sync.RWMutex
	courses map[string]*model.Course
}

func newCourseRepository() *courseRepository {
	return &courseRepository{
		courses: make(map[string]*model.Course),
	}
}

func copyCourse(c *model.Course) *model.Course {
	copied := &model.Course{Name: c.Name}
	if c.Modules != nil {
		copied.Modules = make([]model.Module, len(c.Modules))
		copy(copied.Modules, c.Modules)
	}
	return copied
}

func (r *courseRepository) List(ctx context.Context) ([]*model.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Course, 0, len(r.courses))
	for _, c := range r.courses {
		result = append(result, copyCourse(c))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

func (r *courseRepository) Put(ctx context.Context, course *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.courses[course.Name] = copyCourse(course)
	return nil
}
