package snapshot_test

import (
	"testing"

	"codeberg.org/mutker/sentinel/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeySet(t *testing.T) {
	set := snapshot.NewKeySet("Shift", "A", "Shift", "LControl", "A")

	assert.Equal(t, snapshot.KeySet{"A", "LControl", "Shift"}, set)
}

func TestNewKeySetEmpty(t *testing.T) {
	set := snapshot.NewKeySet()

	require.NotNil(t, set)
	assert.Empty(t, set)
}

func TestNewKeySetDoesNotAliasInput(t *testing.T) {
	raw := []snapshot.KeyCode{"B", "A"}
	set := snapshot.NewKeySet(raw...)
	raw[0] = "Z"

	assert.Equal(t, snapshot.KeySet{"A", "B"}, set)
}

func TestCloneIsDeep(t *testing.T) {
	orig := snapshot.Snapshot{
		Keys:            snapshot.NewKeySet("A"),
		PointerPosition: snapshot.Point{X: 1, Y: 2},
		PointerButtons:  []bool{true, false},
		OpenWindows:     []snapshot.WindowInfo{{ProcessID: 1, ProcessName: "app"}},
	}

	c := orig.Clone()
	c.Keys[0] = "B"
	c.PointerButtons[0] = false
	c.OpenWindows[0].ProcessName = "other"

	assert.Equal(t, snapshot.KeyCode("A"), orig.Keys[0])
	assert.True(t, orig.PointerButtons[0])
	assert.Equal(t, "app", orig.OpenWindows[0].ProcessName)
}

func TestFocusedWindow(t *testing.T) {
	s := snapshot.Snapshot{OpenWindows: []snapshot.WindowInfo{
		{ProcessID: 1, ProcessName: "a"},
		{ProcessID: 2, ProcessName: "b", IsFocused: true},
	}}

	w, ok := s.FocusedWindow()
	require.True(t, ok)
	assert.Equal(t, uint32(2), w.ProcessID)

	_, ok = (&snapshot.Snapshot{}).FocusedWindow()
	assert.False(t, ok)
}

func TestFocusedPicksFirst(t *testing.T) {
	w, ok := snapshot.Focused([]snapshot.WindowInfo{
		{ProcessID: 1},
		{ProcessID: 2, IsFocused: true},
		{ProcessID: 3, IsFocused: true},
	})

	require.True(t, ok)
	assert.Equal(t, uint32(2), w.ProcessID)

	_, ok = snapshot.Focused(nil)
	assert.False(t, ok)
}
