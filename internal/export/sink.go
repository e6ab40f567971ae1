package export

import (
	"io"
	"os"
	"sync"
	"time"

	"codeberg.org/mutker/sentinel/internal/errors"
	"codeberg.org/mutker/sentinel/internal/logger"
	"codeberg.org/mutker/sentinel/internal/snapshot"
	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewSink builds the exporter named by kind.
func NewSink(kind string) (Exporter, error) {
	switch kind {
	case SinkLog, "":
		return NewLogSink(logger.Component("export")), nil
	case SinkJSON:
		return NewJSONSink(os.Stdout), nil
	case SinkNone:
		return Noop{}, nil
	default:
		return nil, errors.New().WithData(errors.ErrInvalidFormat, "export_format="+kind)
	}
}

// Noop discards snapshots.
type Noop struct{}

func (Noop) Export(snapshot.Snapshot) {}

// LogSink writes each snapshot as one structured log event.
type LogSink struct {
	log zerolog.Logger
	now func() time.Time
}

// NewLogSink returns a LogSink writing to log.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log, now: time.Now}
}

// Export logs snap. It keeps no state between calls.
func (s *LogSink) Export(snap snapshot.Snapshot) {
	ev := s.log.Info().
		Strs("keys", keyStrings(snap.Keys)).
		Int("pointer_x", snap.PointerPosition.X).
		Int("pointer_y", snap.PointerPosition.Y).
		Interface("pointer_buttons", snap.PointerButtons).
		Int("pointer_distance", snap.PointerTravelDistance).
		Str("pointer_distance_total", humanize.Comma(snap.PointerTravelTotal)).
		Int("open_windows", len(snap.OpenWindows))

	if w, ok := snap.FocusedWindow(); ok {
		ev = ev.Uint32("focused_pid", w.ProcessID).
			Str("focused_process", w.ProcessName).
			Str("focused_title", w.WindowTitle)
	}

	if snap.LastUpdatedAtMillis > 0 {
		updated := time.UnixMilli(snap.LastUpdatedAtMillis)
		ev = ev.Int64("last_updated_at_ms", snap.LastUpdatedAtMillis).
			Str("age", humanize.RelTime(updated, s.now(), "ago", "from now"))
	} else {
		ev = ev.Str("age", "never")
	}

	ev.Msg("Snapshot")
}

// JSONSink writes one JSON document per line.
type JSONSink struct {
	mu  sync.Mutex
	out io.Writer
	log zerolog.Logger
}

// NewJSONSink returns a JSONSink writing to out. Writes are serialized.
func NewJSONSink(out io.Writer) *JSONSink {
	return &JSONSink{out: out, log: logger.Component("export.json")}
}

func (s *JSONSink) Export(snap snapshot.Snapshot) {
	line, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode snapshot")
		return
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.out.Write(line); err != nil {
		s.log.Warn().Err(err).Msg("Failed to write snapshot")
	}
}

func keyStrings(keys snapshot.KeySet) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}

	return out
}
