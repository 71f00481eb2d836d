package usecase

import (
	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/types"
	"github.com/impel-lab/compass/pkg/service/similarity"
)

// UseCases is the dependency root of the query-handling core. All
// collaborators are injected at startup; there are no package-level
// singletons, so every piece is swappable in tests.
type UseCases struct {
	repo       interfaces.Repository
	classifier interfaces.IntentClassifier
	engine     *similarity.Service
	agents     map[types.Intent]interfaces.Agent
}

// Option is a functional option for UseCases configuration
type Option func(*UseCases)

// WithAgent registers the agent handling one intent
func WithAgent(intent types.Intent, agent interfaces.Agent) Option {
	return func(uc *UseCases) {
		uc.agents[intent] = agent
	}
}

// WithClassifier overrides the intent classifier
func WithClassifier(classifier interfaces.IntentClassifier) Option {
	return func(uc *UseCases) {
		uc.classifier = classifier
	}
}

// New creates the use case layer
func New(repo interfaces.Repository, classifier interfaces.IntentClassifier, engine *similarity.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:       repo,
		classifier: classifier,
		engine:     engine,
		agents:     make(map[types.Intent]interfaces.Agent),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
