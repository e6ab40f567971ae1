package sampler

import (
	"encoding/binary"
	"time"

	"codeberg.org/mutker/sentinel/internal/snapshot"
	"codeberg.org/mutker/sentinel/internal/source"
	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"
)

const NameWindow = "window"

// NewWindow samples open windows. A failed enumeration skips the tick and
// leaves the previous OpenWindows in place.
func NewWindow(src source.Windows, cadence time.Duration, store *snapshot.Store, opts ...Option) *Sampler[[]snapshot.WindowInfo] {
	t := &windowTracker{}

	return New[[]snapshot.WindowInfo](NameWindow, cadence, store, src.Windows, t.build, opts...)
}

type windowTracker struct {
	fingerprint uint64
	seen        bool
}

func (t *windowTracker) build(raw []snapshot.WindowInfo, log *zerolog.Logger) Update {
	windows := NormalizeFocus(raw)

	fp := Fingerprint(windows)
	if !t.seen || fp != t.fingerprint {
		ev := log.Info().Int("count", len(windows))
		if w, ok := snapshot.Focused(windows); ok {
			ev = ev.Uint32("focused_pid", w.ProcessID).Str("focused_title", w.WindowTitle)
		}
		ev.Msg("Open windows changed")
		t.fingerprint = fp
		t.seen = true
	} else {
		log.Debug().Int("count", len(windows)).Msg("Open windows unchanged")
	}

	return func(s *snapshot.Snapshot) {
		s.OpenWindows = windows
	}
}

// NormalizeFocus returns a copy of windows in which at most one entry is
// focused. When the source reports several, the first one keeps the flag.
func NormalizeFocus(windows []snapshot.WindowInfo) []snapshot.WindowInfo {
	out := make([]snapshot.WindowInfo, len(windows))
	copy(out, windows)

	seen := false
	for i := range out {
		if out[i].IsFocused {
			if seen {
				out[i].IsFocused = false
			}
			seen = true
		}
	}

	return out
}

// Fingerprint hashes a window list independent of its order.
func Fingerprint(windows []snapshot.WindowInfo) uint64 {
	var sum uint64
	buf := make([]byte, 0, 128)

	for _, w := range windows {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint32(buf, w.ProcessID)
		buf = appendString(buf, w.ProcessName)
		buf = appendString(buf, w.WindowTitle)
		if w.IsFocused {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		sum += xxh3.Hash(buf)
	}

	return sum
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}
