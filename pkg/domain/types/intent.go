package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Intent represents the classified category of a user query. The
// classifier always resolves a query to exactly one Intent.
type Intent string

const (
	// IntentDatabaseLookup is for queries listing or exploring specific
	// courses, modules, or descriptions.
	IntentDatabaseLookup Intent = "database_lookup"

	// IntentRecommendation is for queries about learning paths, skills,
	// roles, or which course suits the user's goal.
	IntentRecommendation Intent = "recommendation"

	// IntentContentAnalysis is for queries about trending skills, job
	// market insights, or content-based recommendations.
	IntentContentAnalysis Intent = "content_analysis"

	// IntentIrrelevant is for queries unrelated to the course offerings.
	IntentIrrelevant Intent = "irrelevant"
)

// Validate checks if the Intent is one of the defined categories
func (i Intent) Validate() error {
	switch i {
	case IntentDatabaseLookup, IntentRecommendation, IntentContentAnalysis, IntentIrrelevant:
		return nil
	}
	return goerr.New("invalid intent", goerr.V("intent", i))
}

// String returns the string representation of Intent
func (i Intent) String() string {
	return string(i)
}

// ParseIntent normalizes a raw classifier output and returns the matching
// Intent. The second return value is false when the output does not match
// any defined category.
func ParseIntent(raw string) (Intent, bool) {
	normalized := Intent(strings.ToLower(strings.Trim(strings.TrimSpace(raw), `"'`)))
	if err := normalized.Validate(); err != nil {
		return "", false
	}
	return normalized, true
}
