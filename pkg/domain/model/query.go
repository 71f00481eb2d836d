package model

import (
	"strings"

	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// QueryInput is one incoming request. It is created once per request and
// treated as immutable; derived data (vector, intent, response) lives in
// the workflow state, not here.
type QueryInput struct {
	UserID        types.UserID
	Profile       Profile
	Query         string
	UploadedFiles []string
}

// MissingFields returns the names of all empty required fields
func (q *QueryInput) MissingFields() []string {
	var missing []string
	if q.UserID == "" {
		missing = append(missing, "user_id")
	}
	missing = append(missing, q.Profile.MissingFields()...)
	if strings.TrimSpace(q.Query) == "" {
		missing = append(missing, "query")
	}
	return missing
}

// Validate checks that every required field is present. All missing
// field names are reported in a single error.
func (q *QueryInput) Validate() error {
	if missing := q.MissingFields(); len(missing) > 0 {
		return goerr.New("missing required fields", goerr.V("fields", missing))
	}
	return nil
}

// AgentResult is the contract every agent must fulfill. The workflow
// engine validates it after the agent stage; a malformed result is a
// programming error, not a transient fault.
type AgentResult struct {
	Response       string
	SimilarCourses string
	UserVector     []float32
}

// Validate checks the agent output contract: a non-empty response and the
// user vector must always be present. SimilarCourses may legitimately be
// empty (the content agent does not use collaborative data).
func (r *AgentResult) Validate() error {
	var missing []string
	if r == nil {
		return goerr.New("agent returned nil result")
	}
	if strings.TrimSpace(r.Response) == "" {
		missing = append(missing, "response")
	}
	if len(r.UserVector) == 0 {
		missing = append(missing, "user_vector")
	}
	if len(missing) > 0 {
		return goerr.New("agent result missing required fields", goerr.V("fields", missing))
	}
	return nil
}

// Answer is the result exposed to the calling layer. SimilarCourses is
// nil when no workflow ran (irrelevant or unrecognized queries).
type Answer struct {
	Response       string
	SimilarCourses *string
}
