package similarity

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// DefaultTopN is the number of similar users returned when the caller
// does not override it
const DefaultTopN = 5

// vectorizeTimeout bounds the embedding provider call. A timeout is
// treated the same as a provider failure: no retry, the caller decides.
const vectorizeTimeout = 30 * time.Second

// Service is the user-similarity engine: it turns a profile plus query
// into an embedding vector and ranks stored user vectors by cosine
// similarity.
type Service struct {
	llmClient gollem.LLMClient
	repo      interfaces.InteractionRepository
}

// New creates a new similarity service
func New(llmClient gollem.LLMClient, repo interfaces.InteractionRepository) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	if repo == nil {
		return nil, goerr.New("interaction repository is required")
	}
	return &Service{llmClient: llmClient, repo: repo}, nil
}

// Vectorize generates the embedding vector for a user profile and query.
// The provider call is not retried here; an empty or malformed result is
// an error for the caller to handle.
func (s *Service) Vectorize(ctx context.Context, profile model.Profile, query string) ([]float32, error) {
	text := profile.Describe(query)

	ctx, cancel := context.WithTimeout(ctx, vectorizeTimeout)
	defer cancel()

	embeddings, err := s.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, goerr.New("embedding provider returned empty vector", goerr.V("text", text))
	}

	vector := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		vector[i] = float32(v)
	}

	logging.From(ctx).Debug("generated user vector", "dimension", len(vector))
	return vector, nil
}

// FindSimilar ranks corpus entries by cosine similarity to vector,
// descending. Entries with missing or dimension-mismatched vectors are
// skipped rather than failing the whole ranking: one corrupted historical
// record must not abort the current request. Ties keep corpus order. An
// empty corpus yields an empty result, not an error.
func FindSimilar(ctx context.Context, vector []float32, corpus []*model.UserVector, topN int) []*model.SimilarUser {
	logger := logging.From(ctx)

	var ranked []*model.SimilarUser
	var skipped int
	for _, entry := range corpus {
		if len(entry.Vector) == 0 || len(entry.Vector) != len(vector) {
			skipped++
			logger.Debug("skipping corpus entry with unusable vector",
				"user_id", entry.UserID, "dimension", len(entry.Vector))
			continue
		}
		ranked = append(ranked, &model.SimilarUser{
			UserID: entry.UserID,
			Query:  entry.Query,
			Score:  cosineSimilarity(vector, entry.Vector),
		})
	}

	if skipped > 0 {
		logger.Info("skipped corpus entries during similarity ranking",
			"skipped", skipped, "ranked", len(ranked))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topN < len(ranked) {
		ranked = ranked[:topN]
	}
	return ranked
}

// SearchSimilarUsers vectorless variant of find-and-rank: fetches the
// full corpus snapshot and ranks it against vector. A corpus read failure
// degrades to "no similar users found" instead of failing the request;
// the recommendation proceeds on the static catalog alone.
func (s *Service) SearchSimilarUsers(ctx context.Context, vector []float32, topN int) []*model.SimilarUser {
	corpus, err := s.repo.ListVectors(ctx)
	if err != nil {
		logging.From(ctx).Warn("failed to fetch user vector corpus, continuing without similar users",
			"error", err.Error())
		return nil
	}
	if len(corpus) == 0 {
		logging.From(ctx).Debug("no stored user vectors found")
		return nil
	}

	return FindSimilar(ctx, vector, corpus, topN)
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
