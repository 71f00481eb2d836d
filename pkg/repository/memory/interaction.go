package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
)

// userRecord holds the merged profile and append-only history of one user
type userRecord struct {
	profile      model.Profile
	interactions []*model.Interaction
	enrolled     map[string]struct{}
}

type interactionRepository struct {
	mu    sync.RWMutex
	users map[types.UserID]*userRecord
}

func newInteractionRepository() *interactionRepository {
	return &interactionRepository{
		users: make(map[types.UserID]*userRecord),
	}
}

func copyInteraction(i *model.Interaction) *model.Interaction {
	copied := &model.Interaction{
		ID:        i.ID,
		UserID:    i.UserID,
		Profile:   i.Profile,
		Query:     i.Query,
		Response:  i.Response,
		CreatedAt: i.CreatedAt,
	}
	if i.Embedding != nil {
		copied.Embedding = make([]float32, len(i.Embedding))
		copy(copied.Embedding, i.Embedding)
	}
	return copied
}

func (r *interactionRepository) ensureUser(userID types.UserID) *userRecord {
	rec, exists := r.users[userID]
	if !exists {
		rec = &userRecord{enrolled: make(map[string]struct{})}
		r.users[userID] = rec
	}
	return rec
}

func (r *interactionRepository) Put(ctx context.Context, interaction *model.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyInteraction(interaction)
	if created.ID == "" {
		created.ID = types.NewInteractionID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	rec := r.ensureUser(created.UserID)
	rec.profile = created.Profile
	rec.interactions = append(rec.interactions, created)
	return nil
}

func (r *interactionRepository) ListVectors(ctx context.Context) ([]*model.UserVector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.UserVector
	for userID, rec := range r.users {
		for _, i := range rec.interactions {
			if len(i.Embedding) == 0 {
				continue
			}
			vector := make([]float32, len(i.Embedding))
			copy(vector, i.Embedding)
			result = append(result, &model.UserVector{
				UserID: userID,
				Query:  i.Query,
				Vector: vector,
			})
		}
	}

	// Map iteration order is random; sort for a deterministic snapshot so
	// similarity tie-breaks are stable across calls.
	sort.Slice(result, func(i, j int) bool {
		if result[i].UserID != result[j].UserID {
			return result[i].UserID < result[j].UserID
		}
		return result[i].Query < result[j].Query
	})

	return result, nil
}

func (r *interactionRepository) ListResponsesByQuery(ctx context.Context, query string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var responses []string
	for _, rec := range r.users {
		for _, i := range rec.interactions {
			if i.Query == query {
				responses = append(responses, i.Response)
			}
		}
	}
	return responses, nil
}

func (r *interactionRepository) ListEnrolledCourses(ctx context.Context, userIDs []types.UserID) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var courses []string
	for _, userID := range userIDs {
		rec, exists := r.users[userID]
		if !exists {
			continue
		}
		for name := range rec.enrolled {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			courses = append(courses, name)
		}
	}

	sort.Strings(courses)
	return courses, nil
}

func (r *interactionRepository) Enroll(ctx context.Context, userID types.UserID, courseName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.ensureUser(userID)
	rec.enrolled[courseName] = struct{}{}
	return nil
}

// Profile returns the merged profile stored for a user. Test helper.
func (r *interactionRepository) Profile(userID types.UserID) (model.Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.users[userID]
	if !exists {
		return model.Profile{}, false
	}
	return rec.profile, true
}

// Count returns the number of stored interactions. Test helper.
func (r *interactionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int
	for _, rec := range r.users {
		n += len(rec.interactions)
	}
	return n
}
