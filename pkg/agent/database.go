package agent

import (
	"bytes"
	"context"
	_ "embed"
	"text/template"

	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/service/catalog"
	"github.com/impel-lab/compass/pkg/service/similarity"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/database_lookup.md
var databaseLookupPromptTmpl string

var databaseLookupPrompt = template.Must(template.New("database_lookup").Parse(databaseLookupPromptTmpl))

// Database handles direct course and module lookup queries against the
// catalog. It returns catalog information without recommendation logic,
// plus the courses similar users enrolled in.
type Database struct {
	llmClient gollem.LLMClient
	catalog   *catalog.Service
	engine    *similarity.Service
	repo      interfaces.InteractionRepository
}

var _ interfaces.Agent = &Database{}

// NewDatabase creates the database lookup agent
func NewDatabase(llmClient gollem.LLMClient, catalogSvc *catalog.Service, engine *similarity.Service, repo interfaces.InteractionRepository) (*Database, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	if catalogSvc == nil || engine == nil || repo == nil {
		return nil, goerr.New("catalog, similarity engine, and repository are required")
	}
	return &Database{
		llmClient: llmClient,
		catalog:   catalogSvc,
		engine:    engine,
		repo:      repo,
	}, nil
}

// Execute answers the lookup query from the catalog
func (a *Database) Execute(ctx context.Context, input *model.QueryInput, userVector []float32) (*model.AgentResult, error) {
	var prompt bytes.Buffer
	if err := databaseLookupPrompt.Execute(&prompt, map[string]string{
		"Catalog": a.catalog.PromptBlock(ctx),
		"Query":   input.Query,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to render lookup prompt")
	}

	response, err := generateText(ctx, a.llmClient, prompt.String())
	if err != nil {
		return nil, goerr.Wrap(err, "database agent generation failed")
	}

	similarUsers := searchSimilar(ctx, a.engine, userVector)

	return &model.AgentResult{
		Response:       response,
		SimilarCourses: enrolledCoursesText(ctx, a.repo, similarUsers),
		UserVector:     userVector,
	}, nil
}
