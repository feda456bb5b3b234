package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ExportStore is the part of the usage store the pruner needs.
type ExportStore interface {
	PruneExports(ctx context.Context, before time.Time) (int64, error)
}

// ExportPruner periodically deletes export log entries older than the
// retention period.
type ExportPruner struct {
	store     ExportStore
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewExportPruner creates a new export pruner.
func NewExportPruner(store ExportStore, interval, retention time.Duration) *ExportPruner {
	return &ExportPruner{
		store:     store,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Start runs the prune loop until ctx is cancelled.
func (p *ExportPruner) Start(ctx context.Context) {
	log.Info().Dur("interval", p.interval).Dur("retention", p.retention).Msg("export pruner started")

	// Run immediately on start
	p.pruneOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("export pruner stopped")
			return
		case <-ticker.C:
			p.pruneOnce(ctx)
		}
	}
}

func (p *ExportPruner) pruneOnce(ctx context.Context) {
	cutoff := p.now().Add(-p.retention)
	n, err := p.store.PruneExports(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("export pruner: failed to prune")
		}
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Time("before", cutoff).Msg("export pruner: pruned export log")
	}
}
