package papersearch

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// DefaultTopN is the number of papers returned per search
const DefaultTopN = 5

// snippetLength bounds the excerpt carried into prompts
const snippetLength = 200

// Paper is one research paper from the local corpus
type Paper struct {
	Name    string
	Snippet string
	vector  []float32
}

// Service ranks a local corpus of research paper text files against the
// query embedding. The corpus is read and embedded once at construction;
// papers added to the directory later are not picked up.
type Service struct {
	llmClient gollem.LLMClient
	papers    []*Paper
}

// New loads every .txt and .md file under dir and embeds its content.
// An empty corpus is an error: an operator who points at a papers
// directory expects papers to be served from it.
func New(ctx context.Context, llmClient gollem.LLMClient, dir string) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read papers directory", goerr.V("dir", dir))
	}

	var papers []*Paper
	var texts []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		// #nosec G304 - path is expected to be provided by CLI argument
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read paper", goerr.V("file", entry.Name()))
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}

		papers = append(papers, &Paper{Name: entry.Name(), Snippet: snippet(text)})
		texts = append(texts, text)
	}
	if len(papers) == 0 {
		return nil, goerr.New("no papers found", goerr.V("dir", dir))
	}

	embeddings, err := llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed paper corpus")
	}
	if len(embeddings) != len(papers) {
		return nil, goerr.New("embedding count does not match paper count",
			goerr.V("papers", len(papers)), goerr.V("embeddings", len(embeddings)))
	}
	for i, embedding := range embeddings {
		vector := make([]float32, len(embedding))
		for j, v := range embedding {
			vector[j] = float32(v)
		}
		papers[i].vector = vector
	}

	logging.From(ctx).Info("paper corpus loaded", "dir", dir, "papers", len(papers))
	return &Service{llmClient: llmClient, papers: papers}, nil
}

// Search embeds the query and returns up to DefaultTopN papers ranked by
// cosine similarity, descending. Ties keep corpus order.
func (s *Service) Search(ctx context.Context, query string) ([]*Paper, error) {
	embeddings, err := s.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{query})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed paper query")
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, goerr.New("embedding provider returned empty vector")
	}

	target := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		target[i] = float32(v)
	}

	type scored struct {
		paper *Paper
		score float64
	}
	var ranked []scored
	for _, paper := range s.papers {
		if len(paper.vector) != len(target) {
			continue
		}
		ranked = append(ranked, scored{paper: paper, score: cosineSimilarity(target, paper.vector)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if DefaultTopN < len(ranked) {
		ranked = ranked[:DefaultTopN]
	}

	result := make([]*Paper, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, r.paper)
	}
	return result, nil
}

func snippet(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if len(collapsed) > snippetLength {
		return collapsed[:snippetLength]
	}
	return collapsed
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
