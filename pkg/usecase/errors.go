package usecase

import "errors"

// Sentinel errors for the query-handling pipeline. They drive routing at
// the HandleQuery boundary; none of them is ever shown to the end user
// (see query.go for the two user-visible outcomes).
var (
	// Request validation error. Covers empty or whitespace-only queries
	// too: validation rejects those before the classifier ever runs.
	ErrInvalidRequest = errors.New("invalid request")

	// Stage errors
	ErrClassification   = errors.New("intent classification failed")
	ErrVectorGeneration = errors.New("user vector generation failed")
	ErrAgentContract    = errors.New("agent result violates output contract")

	// Store errors. Writes are non-fatal by policy; reads degrade to an
	// empty similarity corpus.
	ErrStoreWrite = errors.New("interaction store write failed")
)
