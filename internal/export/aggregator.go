// Package export periodically reads the snapshot store and hands copies to
// an Exporter.
package export

import (
	"context"
	"time"

	"codeberg.org/mutker/sentinel/internal/logger"
	"codeberg.org/mutker/sentinel/internal/snapshot"
	"github.com/rs/zerolog"
)

// Aggregator exports a copy of the store on its own interval. It only ever
// reads the store.
type Aggregator struct {
	store    *snapshot.Store
	interval time.Duration
	exporter Exporter
	log      zerolog.Logger
}

// NewAggregator builds an Aggregator. A nil exporter discards snapshots.
func NewAggregator(store *snapshot.Store, interval time.Duration, exporter Exporter) *Aggregator {
	if exporter == nil {
		exporter = Noop{}
	}

	return &Aggregator{
		store:    store,
		interval: interval,
		exporter: exporter,
		log:      logger.Component("aggregator"),
	}
}

// Interval returns the export interval.
func (a *Aggregator) Interval() time.Duration {
	return a.interval
}

// Tick exports the current snapshot once.
func (a *Aggregator) Tick() {
	a.exporter.Export(a.store.Read())
}

// Run exports once right away and then on every interval until ctx is
// cancelled.
func (a *Aggregator) Run(ctx context.Context) {
	a.log.Debug().Dur("interval", a.interval).Msg("Aggregator started")
	defer a.log.Debug().Msg("Aggregator stopped")

	if ctx.Err() != nil {
		return
	}
	a.Tick()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Tick()
		}
	}
}
