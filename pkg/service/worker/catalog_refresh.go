package worker

import (
	"context"
	"time"

	"github.com/impel-lab/compass/pkg/service/catalog"
	"github.com/impel-lab/compass/pkg/utils/logging"
)

// CatalogRefreshWorker manages background refresh of the course catalog
// prompt cache from the repository.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Catalog changes rarely; a stale cache between ticks is acceptable
type CatalogRefreshWorker struct {
	catalog  *catalog.Service
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewCatalogRefreshWorker creates a new worker refreshing the catalog cache
func NewCatalogRefreshWorker(catalogSvc *catalog.Service, interval time.Duration) *CatalogRefreshWorker {
	return &CatalogRefreshWorker{
		catalog:  catalogSvc,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop. Does not block server startup.
func (w *CatalogRefreshWorker) Start(ctx context.Context) error {
	logging.Default().Info("catalog refresh worker starting", "interval", w.interval.String())
	go w.run(ctx)
	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *CatalogRefreshWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("catalog refresh worker stopped")
}

func (w *CatalogRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.catalog.Refresh(ctx); err != nil {
		logging.Default().Error("initial catalog refresh failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.catalog.Refresh(ctx); err != nil {
				logging.Default().Error("catalog refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}
