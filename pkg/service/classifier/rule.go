package classifier

import (
	"context"
	"strings"

	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// RuleClassifier is a deterministic keyword classifier. It backs the LLM
// classifier when the model output is unparseable, and can stand alone as
// a swap-in implementation of interfaces.IntentClassifier.
type RuleClassifier struct {
	lookupKeywords  []string
	contentKeywords []string
}

var _ interfaces.IntentClassifier = &RuleClassifier{}

// NewRuleClassifier creates a keyword-based classifier
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{
		lookupKeywords: []string{
			"list", "modules in", "module of", "modules of", "show me the courses",
			"all courses", "course description", "what courses",
		},
		contentKeywords: []string{
			"trending", "job market", "market insight", "in demand",
			"salary trend", "hiring", "research paper", "my resume",
		},
	}
}

// Classify matches keywords against the query, defaulting to
// recommendation. Recommendation is the safest branch: it has the richest
// handling and never rejects the user.
func (r *RuleClassifier) Classify(ctx context.Context, query string) (types.Intent, error) {
	if strings.TrimSpace(query) == "" {
		return "", goerr.Wrap(ErrEmptyQuery, "cannot classify empty query")
	}

	lowered := strings.ToLower(query)
	for _, kw := range r.lookupKeywords {
		if strings.Contains(lowered, kw) {
			return types.IntentDatabaseLookup, nil
		}
	}
	for _, kw := range r.contentKeywords {
		if strings.Contains(lowered, kw) {
			return types.IntentContentAnalysis, nil
		}
	}

	return types.IntentRecommendation, nil
}
