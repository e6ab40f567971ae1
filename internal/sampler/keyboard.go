package sampler

import (
	"time"

	"codeberg.org/mutker/sentinel/internal/snapshot"
	"codeberg.org/mutker/sentinel/internal/source"
	"github.com/rs/zerolog"
)

const NameKeyboard = "keyboard"

// NewKeyboard samples pressed keys. Each tick replaces Keys wholesale; an
// empty reading means every key was released.
func NewKeyboard(src source.Keyboard, cadence time.Duration, store *snapshot.Store, opts ...Option) *Sampler[[]snapshot.KeyCode] {
	sample := func() ([]snapshot.KeyCode, error) {
		return src.Keys(), nil
	}

	return New[[]snapshot.KeyCode](NameKeyboard, cadence, store, sample, buildKeys, opts...)
}

func buildKeys(raw []snapshot.KeyCode, log *zerolog.Logger) Update {
	keys := snapshot.NewKeySet(raw...)
	log.Debug().Interface("keys", keys).Msg("Captured keys")

	return func(s *snapshot.Snapshot) {
		s.Keys = keys
	}
}
