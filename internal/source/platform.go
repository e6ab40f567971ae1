package source

import (
	"runtime"
	"sync"

	"codeberg.org/mutker/sentinel/internal/errors"
	"codeberg.org/mutker/sentinel/internal/logger"
	"codeberg.org/mutker/sentinel/internal/snapshot"
)

var warnOnce sync.Once

// Platform returns the sources available on this host. No OS backend ships
// with the agent yet, so every platform gets idle sources: no keys, the
// pointer parked at the origin and no windows.
func Platform(log logger.Logger) Set {
	warnOnce.Do(func() {
		err := errors.New().WithData(ErrNoBackend, runtime.GOOS)
		log.Warn().Err(err).Msg("No input backend for this platform, reporting idle state")
	})

	return Idle()
}

// Idle returns sources that always report an idle host.
func Idle() Set {
	return Set{
		Keyboard: KeyboardFunc(func() []snapshot.KeyCode { return nil }),
		Pointer:  PointerFunc(func() PointerSample { return PointerSample{} }),
		Windows:  WindowsFunc(func() ([]snapshot.WindowInfo, error) { return nil, nil }),
	}
}
