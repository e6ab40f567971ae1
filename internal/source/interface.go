// Package source defines the contracts of the raw input providers the
// samplers poll. Implementations are synchronous and return promptly; they
// own no retry logic.
package source

import "codeberg.org/mutker/sentinel/internal/snapshot"

// Keyboard reports the keys pressed right now. It never fails.
type Keyboard interface {
	Keys() []snapshot.KeyCode
}

// Pointer reports the current pointer state. It never fails.
type Pointer interface {
	Pointer() PointerSample
}

// Windows enumerates open application windows. At most one entry should be
// focused; enumeration may fail transiently.
type Windows interface {
	Windows() ([]snapshot.WindowInfo, error)
}

// PointerSample is one raw pointer reading. Buttons are ordered by button
// index, starting with the primary button.
type PointerSample struct {
	Position snapshot.Point
	Buttons  []bool
}

// Set groups the three sources a supervisor needs.
type Set struct {
	Keyboard Keyboard
	Pointer  Pointer
	Windows  Windows
}

// KeyboardFunc adapts a function to Keyboard.
type KeyboardFunc func() []snapshot.KeyCode

func (f KeyboardFunc) Keys() []snapshot.KeyCode { return f() }

// PointerFunc adapts a function to Pointer.
type PointerFunc func() PointerSample

func (f PointerFunc) Pointer() PointerSample { return f() }

// WindowsFunc adapts a function to Windows.
type WindowsFunc func() ([]snapshot.WindowInfo, error)

func (f WindowsFunc) Windows() ([]snapshot.WindowInfo, error) { return f() }
