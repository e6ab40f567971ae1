package sampler

import (
	"math"
	"time"

	"codeberg.org/mutker/sentinel/internal/snapshot"
	"codeberg.org/mutker/sentinel/internal/source"
	"github.com/rs/zerolog"
)

const NamePointer = "pointer"

// NewPointer samples pointer position and buttons. Position, buttons, the
// last travel distance and the running travel total are written together.
func NewPointer(src source.Pointer, cadence time.Duration, store *snapshot.Store, opts ...Option) *Sampler[source.PointerSample] {
	sample := func() (source.PointerSample, error) {
		return src.Pointer(), nil
	}

	t := &pointerTracker{}

	return New[source.PointerSample](NamePointer, cadence, store, sample, t.build, opts...)
}

// pointerTracker remembers the previous position and the distance travelled
// so far. It starts at the origin and is only touched from the sampler
// goroutine.
type pointerTracker struct {
	prev  snapshot.Point
	total int64
}

func (t *pointerTracker) build(p source.PointerSample, log *zerolog.Logger) Update {
	pos := p.Position
	dist := Distance(t.prev, pos)
	t.prev = pos
	t.total += int64(dist)
	total := t.total

	buttons := make([]bool, len(p.Buttons))
	copy(buttons, p.Buttons)

	log.Debug().
		Int("x", pos.X).
		Int("y", pos.Y).
		Int("distance", dist).
		Msg("Captured pointer")

	return func(s *snapshot.Snapshot) {
		s.PointerPosition = pos
		s.PointerButtons = buttons
		s.PointerTravelDistance = dist
		s.PointerTravelTotal = total
	}
}

// Distance returns the Euclidean distance between a and b rounded down to
// the nearest integer (integer square root of dx²+dy²). Each axis delta is
// clamped to the int32 range so the squared sum cannot overflow; real screen
// coordinates never come close.
func Distance(a, b snapshot.Point) int {
	dx := clampDelta(int64(b.X) - int64(a.X))
	dy := clampDelta(int64(b.Y) - int64(a.Y))

	return int(isqrt(uint64(dx*dx + dy*dy)))
}

func clampDelta(d int64) int64 {
	return max(-math.MaxInt32, min(d, math.MaxInt32))
}

func isqrt(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))

	// float64 loses precision above 2^53
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}

	return r
}
