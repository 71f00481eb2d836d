package agent

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/service/catalog"
	"github.com/impel-lab/compass/pkg/service/similarity"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/recommend_catalog.md
var recommendCatalogPromptTmpl string

//go:embed prompt/recommend_similar.md
var recommendSimilarPromptTmpl string

var (
	recommendCatalogPrompt = template.Must(template.New("recommend_catalog").Parse(recommendCatalogPromptTmpl))
	recommendSimilarPrompt = template.Must(template.New("recommend_similar").Parse(recommendSimilarPromptTmpl))
)

// Collaborative generates recommendations from what similar users asked
// and were told. With no similar users it falls back to a catalog-only
// suggestion.
type Collaborative struct {
	llmClient gollem.LLMClient
	catalog   *catalog.Service
	engine    *similarity.Service
	repo      interfaces.InteractionRepository
}

var _ interfaces.Agent = &Collaborative{}

// NewCollaborative creates the collaborative filtering agent
func NewCollaborative(llmClient gollem.LLMClient, catalogSvc *catalog.Service, engine *similarity.Service, repo interfaces.InteractionRepository) (*Collaborative, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	if catalogSvc == nil || engine == nil || repo == nil {
		return nil, goerr.New("catalog, similarity engine, and repository are required")
	}
	return &Collaborative{
		llmClient: llmClient,
		catalog:   catalogSvc,
		engine:    engine,
		repo:      repo,
	}, nil
}

// Execute produces a recommendation grounded in similar users' history
func (a *Collaborative) Execute(ctx context.Context, input *model.QueryInput, userVector []float32) (*model.AgentResult, error) {
	similarUsers := searchSimilar(ctx, a.engine, userVector)

	var preamble string
	var prompt bytes.Buffer

	if len(similarUsers) == 0 {
		preamble = "No similar users found. Here are some suggested IMPEL courses and modules:\n\n"
		if err := recommendCatalogPrompt.Execute(&prompt, map[string]string{
			"Catalog": a.catalog.PromptBlock(ctx),
			"Query":   input.Query,
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to render recommendation prompt")
		}
	} else {
		preamble = "Recommended based on similar users' interests:\n\n"

		// Seed the prompt with what the most similar user was told. A
		// lookup failure just means an unseeded prompt.
		responses, err := a.repo.ListResponsesByQuery(ctx, similarUsers[0].Query)
		if err != nil {
			logging.From(ctx).Warn("failed to fetch similar user responses",
				"error", err.Error())
		}

		if err := recommendSimilarPrompt.Execute(&prompt, map[string]string{
			"Catalog":          a.catalog.PromptBlock(ctx),
			"SimilarResponses": fmt.Sprintf("%v", responses),
			"Query":            input.Query,
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to render recommendation prompt")
		}
	}

	generated, err := generateText(ctx, a.llmClient, prompt.String())
	if err != nil {
		return nil, goerr.Wrap(err, "collaborative agent generation failed")
	}

	return &model.AgentResult{
		Response:       preamble + generated,
		SimilarCourses: enrolledCoursesText(ctx, a.repo, similarUsers),
		UserVector:     userVector,
	}, nil
}
