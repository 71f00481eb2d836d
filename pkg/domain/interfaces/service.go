package interfaces

import (
	"context"

	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/domain/types"
)

// IntentClassifier resolves a query to exactly one intent category. It is
// an interface so a rule-based implementation can replace the model-based
// one without touching the router logic.
type IntentClassifier interface {
	Classify(ctx context.Context, query string) (types.Intent, error)
}

// Agent produces the response for one intent. Agents are collaborators of
// the workflow engine; the engine only validates their output contract.
type Agent interface {
	Execute(ctx context.Context, input *model.QueryInput, userVector []float32) (*model.AgentResult, error)
}

// FileStore fetches the content of an uploaded file by its reference
type FileStore interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}
