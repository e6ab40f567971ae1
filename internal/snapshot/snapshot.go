// Package snapshot holds the shared activity record and the store that
// serializes access to it.
//
// Each field group is owned by exactly one sampler kind:
//
//	keyboard  Keys
//	pointer   PointerPosition, PointerButtons, PointerTravelDistance,
//	          PointerTravelTotal
//	window    OpenWindows
//
// LastUpdatedAtMillis is written by whichever sampler wrote last.
package snapshot

import "sort"

// KeyCode names a physical key as reported by the keyboard source.
type KeyCode string

// KeySet is a sorted set of pressed keys without duplicates.
type KeySet []KeyCode

// NewKeySet builds a KeySet from raw key codes. Duplicates are dropped.
func NewKeySet(keys ...KeyCode) KeySet {
	if len(keys) == 0 {
		return KeySet{}
	}

	set := make(KeySet, len(keys))
	copy(set, keys)
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })

	out := set[:1]
	for _, k := range set[1:] {
		if k != out[len(out)-1] {
			out = append(out, k)
		}
	}

	return out
}

// Point is a pointer position in screen coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// WindowInfo describes one open application window.
type WindowInfo struct {
	ProcessID   uint32 `json:"pid"`
	ProcessName string `json:"process_name"`
	WindowTitle string `json:"window_title"`
	IsFocused   bool   `json:"is_focused"`
}

// Snapshot is the latest sample from every source.
type Snapshot struct {
	Keys                  KeySet       `json:"keys"`
	PointerPosition       Point        `json:"pointer_position"`
	PointerButtons        []bool       `json:"pointer_buttons"`
	PointerTravelDistance int          `json:"pointer_travel_distance"`
	PointerTravelTotal    int64        `json:"pointer_travel_total"`
	OpenWindows           []WindowInfo `json:"open_windows"`
	LastUpdatedAtMillis   int64        `json:"last_updated_at_ms"`
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() Snapshot {
	out := *s
	out.Keys = cloneSlice(s.Keys)
	out.PointerButtons = cloneSlice(s.PointerButtons)
	out.OpenWindows = cloneSlice(s.OpenWindows)

	return out
}

// FocusedWindow returns the focused window, if any.
func (s *Snapshot) FocusedWindow() (WindowInfo, bool) {
	return Focused(s.OpenWindows)
}

// Focused returns the first focused entry of windows.
func Focused(windows []WindowInfo) (WindowInfo, bool) {
	for _, w := range windows {
		if w.IsFocused {
			return w, true
		}
	}

	return WindowInfo{}, false
}

// cloneSlice copies src, keeping nil as nil and empty as empty.
func cloneSlice[T any](src []T) []T {
	if src == nil {
		return nil
	}

	dst := make([]T, len(src))
	copy(dst, src)

	return dst
}
