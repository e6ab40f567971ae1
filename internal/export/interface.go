package export

import "codeberg.org/mutker/sentinel/internal/snapshot"

// Exporter receives consolidated snapshots. Export is best-effort: sinks
// deal with their own failures and never report them back to the loop.
type Exporter interface {
	Export(snap snapshot.Snapshot)
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(snapshot.Snapshot)

func (f ExporterFunc) Export(snap snapshot.Snapshot) { f(snap) }

// Sink names accepted by NewSink.
const (
	SinkLog  = "log"
	SinkJSON = "json"
	SinkNone = "none"
)
