package supervisor

import (
	"fmt"
	"time"

	"codeberg.org/mutker/sentinel/internal/errors"
)

// Config holds the cadence of every unit of work.
type Config struct {
	KeyboardInterval    time.Duration
	PointerInterval     time.Duration
	WindowInterval      time.Duration
	AggregationInterval time.Duration
}

// Validate rejects non-positive intervals.
func (c Config) Validate() error {
	errFactory := errors.New()

	intervals := []struct {
		name  string
		value time.Duration
	}{
		{"keyboard", c.KeyboardInterval},
		{"pointer", c.PointerInterval},
		{"window", c.WindowInterval},
		{"aggregation", c.AggregationInterval},
	}

	for _, iv := range intervals {
		if iv.value <= 0 {
			return errFactory.Wrap(errors.ErrInvalidConfig,
				errFactory.WithData(errors.ErrInvalidInterval, fmt.Sprintf("%s=%s", iv.name, iv.value)))
		}
	}

	return nil
}
