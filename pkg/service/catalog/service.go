package catalog

import (
	"context"
	"sync"

	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// UnavailableText is returned when the catalog cannot be loaded. Agents
// still run with this placeholder rather than failing the request.
const UnavailableText = "No course data available. Please check database connection."

// Service loads the course catalog from the repository and caches the
// formatted prompt block the agents embed in their prompts.
type Service struct {
	repo interfaces.CourseRepository

	mu        sync.RWMutex
	formatted string
	loaded    bool
}

// New creates a new catalog service
func New(repo interfaces.CourseRepository) (*Service, error) {
	if repo == nil {
		return nil, goerr.New("course repository is required")
	}
	return &Service{repo: repo}, nil
}

// Refresh reloads the catalog from the repository and rebuilds the
// cached prompt block
func (s *Service) Refresh(ctx context.Context) error {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load course catalog")
	}

	formatted := model.FormatCatalog(courses)

	s.mu.Lock()
	s.formatted = formatted
	s.loaded = true
	s.mu.Unlock()

	logging.From(ctx).Debug("course catalog refreshed", "courses", len(courses))
	return nil
}

// PromptBlock returns the cached catalog text for prompt embedding. If
// the catalog has never been loaded it attempts one refresh; on failure
// it degrades to a fixed placeholder rather than failing the caller.
func (s *Service) PromptBlock(ctx context.Context) string {
	s.mu.RLock()
	loaded, formatted := s.loaded, s.formatted
	s.mu.RUnlock()

	if !loaded {
		if err := s.Refresh(ctx); err != nil {
			logging.From(ctx).Warn("could not load course catalog", "error", err.Error())
			return UnavailableText
		}
		s.mu.RLock()
		formatted = s.formatted
		s.mu.RUnlock()
	}

	if formatted == "" {
		return UnavailableText
	}
	return formatted
}
