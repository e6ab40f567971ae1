package sampler

import (
	"time"

	"github.com/rs/zerolog"
)

// Clock supplies tick timestamps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type options struct {
	clock Clock
	log   *zerolog.Logger
}

// Option configures a Sampler.
type Option func(*options)

// WithClock overrides the clock used to stamp LastUpdatedAtMillis.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = &log
	}
}
