// Package supervisor wires the samplers and the aggregator around one
// shared snapshot store and runs them in the background.
package supervisor

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/mutker/sentinel/internal/errors"
	"codeberg.org/mutker/sentinel/internal/export"
	"codeberg.org/mutker/sentinel/internal/logger"
	"codeberg.org/mutker/sentinel/internal/sampler"
	"codeberg.org/mutker/sentinel/internal/snapshot"
	"codeberg.org/mutker/sentinel/internal/source"
	"github.com/rs/zerolog"
)

// unit is one long-running loop.
type unit struct {
	name string
	run  func(context.Context)
}

// Supervisor owns the snapshot store and the units that read and write it.
type Supervisor struct {
	cfg   Config
	store *snapshot.Store
	units []unit
	log   zerolog.Logger

	startOnce sync.Once
	wg        sync.WaitGroup
}

// New validates cfg and builds the store, the three samplers and the
// aggregator. Nothing is built when validation fails.
func New(cfg Config, sources source.Set, exporter export.Exporter, opts ...sampler.Option) (*Supervisor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if sources.Keyboard == nil || sources.Pointer == nil || sources.Windows == nil {
		return nil, errors.New().WithData(errors.ErrInvalidConfig, "missing source")
	}

	store := snapshot.NewStore()

	kb := sampler.NewKeyboard(sources.Keyboard, cfg.KeyboardInterval, store, opts...)
	ptr := sampler.NewPointer(sources.Pointer, cfg.PointerInterval, store, opts...)
	win := sampler.NewWindow(sources.Windows, cfg.WindowInterval, store, opts...)
	agg := export.NewAggregator(store, cfg.AggregationInterval, exporter)

	return &Supervisor{
		cfg:   cfg,
		store: store,
		units: []unit{
			{name: kb.Name(), run: kb.Run},
			{name: ptr.Name(), run: ptr.Run},
			{name: win.Name(), run: win.Run},
			{name: "aggregator", run: agg.Run},
		},
		log: logger.Component("supervisor"),
	}, nil
}

// Store returns the shared snapshot store.
func (s *Supervisor) Store() *snapshot.Store {
	return s.store
}

// Start launches every unit in its own goroutine and returns immediately.
// Units stop when ctx is cancelled. Calling Start again has no effect.
func (s *Supervisor) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.log.Info().
			Dur("keyboard_interval", s.cfg.KeyboardInterval).
			Dur("pointer_interval", s.cfg.PointerInterval).
			Dur("window_interval", s.cfg.WindowInterval).
			Dur("aggregation_interval", s.cfg.AggregationInterval).
			Msg("Starting collection")

		for _, u := range s.units {
			s.wg.Add(1)
			go s.runUnit(ctx, u)
		}
	})
}

// Wait blocks until every unit has returned.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// runUnit runs u until it returns. A panicking unit is logged and left
// stopped; the others keep running.
func (s *Supervisor) runUnit(ctx context.Context, u unit) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			err := errors.New().WithData(errors.ErrUnitAborted, fmt.Sprintf("%s: %v", u.name, r))
			s.log.Error().
				Str("unit", u.name).
				Str("error_code", err.Code().String()).
				Err(err).
				Msg("Unit terminated abnormally, not restarting")
		}
	}()

	u.run(ctx)
}
