package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/service"
)

// TaxonomyWorker keeps the species taxonomy cache warm. It refreshes once at
// startup and then on every interval tick until the context is canceled.
type TaxonomyWorker struct {
	species  *service.SpeciesService
	interval time.Duration
	logger   *zap.Logger
}

// NewTaxonomyWorker builds the worker.
func NewTaxonomyWorker(species *service.SpeciesService, interval time.Duration, logger *zap.Logger) *TaxonomyWorker {
	if interval <= 0 {
		interval = 12 * time.Hour
	}
	return &TaxonomyWorker{species: species, interval: interval, logger: logger}
}

// Start launches the refresh loop in its own goroutine.
func (w *TaxonomyWorker) Start(ctx context.Context) {
	if w.species == nil {
		return
	}

	go func() {
		w.refresh(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.refresh(ctx)
			}
		}
	}()
}

func (w *TaxonomyWorker) refresh(ctx context.Context) {
	if _, err := w.species.LoadTaxonomy(ctx, true); err != nil {
		w.logger.Warn("taxonomy refresh failed", zap.Error(err))
	}
}
