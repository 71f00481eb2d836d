package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// userDoc is the Firestore document for a user node. Profile fields use
// merge-by-id semantics: a repeated user ID overwrites them.
type userDoc struct {
	ID         string    `firestore:"ID"`
	Education  string    `firestore:"Education"`
	AgeGroup   string    `firestore:"AgeGroup"`
	Profession string    `firestore:"Profession"`
	Enrolled   []string  `firestore:"Enrolled"`
	UpdatedAt  time.Time `firestore:"UpdatedAt"`
}

// interactionDoc is the Firestore document for one interaction.
// Embedding is stored as firestore.Vector32 so the vector index applies.
type interactionDoc struct {
	ID        string             `firestore:"ID"`
	UserID    string             `firestore:"UserID"`
	Query     string             `firestore:"Query"`
	Response  string             `firestore:"Response"`
	Embedding firestore.Vector32 `firestore:"Embedding,omitempty"`
	CreatedAt time.Time          `firestore:"CreatedAt"`
}

type interactionRepository struct {
	client *firestore.Client
}

func newInteractionRepository(client *firestore.Client) *interactionRepository {
	return &interactionRepository{client: client}
}

func (r *interactionRepository) usersCollection() *firestore.CollectionRef {
	return r.client.Collection("users")
}

func (r *interactionRepository) interactionsCollection(userID types.UserID) *firestore.CollectionRef {
	return r.usersCollection().Doc(string(userID)).Collection("interactions")
}

func (r *interactionRepository) Put(ctx context.Context, interaction *model.Interaction) error {
	created := *interaction
	if created.ID == "" {
		created.ID = types.NewInteractionID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	userRef := r.usersCollection().Doc(string(created.UserID))
	interactionRef := r.interactionsCollection(created.UserID).Doc(string(created.ID))

	doc := &interactionDoc{
		ID:        string(created.ID),
		UserID:    string(created.UserID),
		Query:     created.Query,
		Response:  created.Response,
		CreatedAt: created.CreatedAt,
	}
	if len(created.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(created.Embedding)
	}

	// Merge profile fields and append the interaction in one transaction
	// so a concurrent corpus scan never observes a half-written pair.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Set(userRef, map[string]any{
			"ID":         string(created.UserID),
			"Education":  created.Profile.Education.String(),
			"AgeGroup":   created.Profile.AgeGroup.String(),
			"Profession": created.Profile.Profession.String(),
			"UpdatedAt":  created.CreatedAt,
		}, firestore.MergeAll); err != nil {
			return goerr.Wrap(err, "failed to merge user profile")
		}
		return tx.Set(interactionRef, doc)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to store interaction", goerr.V("userID", created.UserID))
	}

	return nil
}

func (r *interactionRepository) ListVectors(ctx context.Context) ([]*model.UserVector, error) {
	iter := r.client.CollectionGroup("interactions").Documents(ctx)
	defer iter.Stop()

	var result []*model.UserVector
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate interactions")
		}

		var d interactionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal interaction")
		}
		if len(d.Embedding) == 0 {
			continue
		}

		result = append(result, &model.UserVector{
			UserID: types.UserID(d.UserID),
			Query:  d.Query,
			Vector: []float32(d.Embedding),
		})
	}

	return result, nil
}

func (r *interactionRepository) ListResponsesByQuery(ctx context.Context, query string) ([]string, error) {
	iter := r.client.CollectionGroup("interactions").
		Where("Query", "==", query).
		Documents(ctx)
	defer iter.Stop()

	var responses []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate interactions by query")
		}

		var d interactionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal interaction")
		}
		responses = append(responses, d.Response)
	}

	return responses, nil
}

func (r *interactionRepository) ListEnrolledCourses(ctx context.Context, userIDs []types.UserID) ([]string, error) {
	seen := make(map[string]struct{})
	var courses []string

	for _, userID := range userIDs {
		doc, err := r.usersCollection().Doc(string(userID)).Get(ctx)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, goerr.Wrap(err, "failed to get user", goerr.V("userID", userID))
		}

		var d userDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("userID", userID))
		}

		for _, name := range d.Enrolled {
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
	userRef := r.usersCollection().Doc(string(userID))
	if _, err := userRef.Set(ctx, map[string]any{
		"ID":       string(userID),
		"Enrolled": firestore.ArrayUnion(courseName),
	}, firestore.MergeAll); err != nil {
		return goerr.Wrap(err, "failed to record enrollment",
			goerr.V("userID", userID), goerr.V("course", courseName))
	}
	return nil
}
