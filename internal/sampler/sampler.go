// Package sampler runs the polling loops that feed the snapshot store.
//
// A Sampler pulls one raw sample per tick, turns it into an update for the
// field group it owns and applies that update in a single Store.Apply call.
// Sampling and update construction happen outside the store lock.
package sampler

import (
	"context"
	"time"

	"codeberg.org/mutker/sentinel/internal/errors"
	"codeberg.org/mutker/sentinel/internal/logger"
	"codeberg.org/mutker/sentinel/internal/snapshot"
	"github.com/rs/zerolog"
)

// Update writes one sampler's field group.
type Update func(*snapshot.Snapshot)

// SampleFunc fetches one raw sample.
type SampleFunc[T any] func() (T, error)

// BuildFunc turns a raw sample into an Update. It runs on the sampler's own
// goroutine and may keep sampler-local state between calls.
type BuildFunc[T any] func(sample T, log *zerolog.Logger) Update

// Sampler polls one source at a fixed cadence.
type Sampler[T any] struct {
	name    string
	cadence time.Duration
	store   *snapshot.Store
	sample  SampleFunc[T]
	build   BuildFunc[T]
	clock   Clock
	log     zerolog.Logger
}

// New creates a Sampler. cadence must be positive; the supervisor checks
// this before any sampler is built.
func New[T any](
	name string, cadence time.Duration, store *snapshot.Store,
	sample SampleFunc[T], build BuildFunc[T], opts ...Option,
) *Sampler[T] {
	o := options{clock: realClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.Component("sampler." + name)
	if o.log != nil {
		log = o.log.With().Str("sampler", name).Logger()
	}

	return &Sampler[T]{
		name:    name,
		cadence: cadence,
		store:   store,
		sample:  sample,
		build:   build,
		clock:   o.clock,
		log:     log,
	}
}

// Name returns the sampler's name, which also tags its log events.
func (s *Sampler[T]) Name() string {
	return s.name
}

// Cadence returns the wait between two ticks.
func (s *Sampler[T]) Cadence() time.Duration {
	return s.cadence
}

// Tick performs one sample-and-apply iteration. When the source fails the
// store is left untouched and the error is returned with code
// source_unavailable. Tick is not safe for concurrent use on one Sampler.
func (s *Sampler[T]) Tick() error {
	v, err := s.sample()
	if err != nil {
		return errors.New().Wrap(errors.ErrSourceUnavailable, err).WithMessage(s.name + " source unavailable")
	}

	update := s.build(v, &s.log)
	at := s.clock.Now().UnixMilli()

	s.store.Apply(func(snap *snapshot.Snapshot) {
		update(snap)
		snap.LastUpdatedAtMillis = at
	})

	return nil
}

// Run ticks until ctx is cancelled, waiting the cadence between iterations.
// Source failures are logged and the loop carries on.
func (s *Sampler[T]) Run(ctx context.Context) {
	s.log.Debug().Dur("cadence", s.cadence).Msg("Sampler started")
	defer s.log.Debug().Msg("Sampler stopped")

	timer := time.NewTimer(s.cadence)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		if err := s.Tick(); err != nil {
			s.log.Warn().Err(err).Msg("Sample failed, keeping previous values")
		}

		timer.Reset(s.cadence)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}
