package classifier

import (
	"context"
	"strings"
	"time"

	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// ErrEmptyQuery is returned when the query is empty or whitespace-only.
// It is checked before any provider call is made.
var ErrEmptyQuery = goerr.New("query is empty")

// classifyTimeout bounds the classification call
const classifyTimeout = 15 * time.Second

const systemPrompt = `You are an intent classification assistant. Categorize the user's query as one of the following:
- "database_lookup": if they want to list or explore specific IMPEL courses/modules or descriptions.
- "recommendation": if they are asking what course suits their goal, background, or if they are exploring learning paths, skills or roles in the broad spectrum of Data Science or AI (e.g., how to become a data scientist, what an ML Engineer does, data scientist average salary, etc.).
- "content_analysis": if they are asking about trending skills, job market insights, or want content-based recommendations with research papers.
- "irrelevant": if the query is clearly unrelated to Data Science, AI, Information Technology or education, such as questions about movies, cooking, weather, jokes, casual greetings or personal life.

Only reply with one of the following words: "database_lookup", "recommendation", "content_analysis", or "irrelevant".`

// Service classifies queries with a single-shot LLM call and a
// deterministic rule fallback. The fallback absorbs unrecognized model
// output: classification never fails for a non-empty query unless the
// provider call itself fails.
type Service struct {
	llmClient gollem.LLMClient
	fallback  *RuleClassifier
}

var _ interfaces.IntentClassifier = &Service{}

// New creates a new classifier service
func New(llmClient gollem.LLMClient) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &Service{
		llmClient: llmClient,
		fallback:  NewRuleClassifier(),
	}, nil
}

// Classify resolves query to exactly one intent. An unparseable model
// output falls through to the rule classifier, which defaults to
// recommendation: the policy minimizes false "irrelevant" rejections at
// the cost of silently masking classifier drift.
func (s *Service) Classify(ctx context.Context, query string) (types.Intent, error) {
	if strings.TrimSpace(query) == "" {
		return "", goerr.Wrap(ErrEmptyQuery, "cannot classify empty query")
	}

	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	session, err := s.llmClient.NewSession(ctx, gollem.WithSessionSystemPrompt(systemPrompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create classification session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text("User query: \""+query+"\""))
	if err != nil {
		return "", goerr.Wrap(err, "failed to classify query")
	}

	var raw string
	if len(resp.Texts) > 0 {
		raw = resp.Texts[0]
	}

	if intent, ok := types.ParseIntent(raw); ok {
		return intent, nil
	}

	intent, _ := s.fallback.Classify(ctx, query)
	logging.From(ctx).Warn("unrecognized classifier output, using rule fallback",
		"output", raw, "fallback", intent)
	return intent, nil
}
