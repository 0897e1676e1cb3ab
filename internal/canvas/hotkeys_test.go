package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/camera"
	"github.com/inamate/canvas/internal/geometry"
)

func TestToolHotkeys(t *testing.T) {
	e, _ := newEditor(t, Options{})
	for key, tool := range map[string]Tool{
		"r": ToolRectangle,
		"O": ToolEllipse,
		"t": ToolText,
		"p": ToolPencil,
		"h": ToolHand,
		"v": ToolSelect,
	} {
		require.True(t, e.KeyDown(KeyEvent{Key: key}), key)
		assert.Equal(t, tool, e.Tool(), key)
	}
	e.KeyDown(KeyEvent{Key: "v"})
	assert.Equal(t, None{}, e.Mode())
	assert.False(t, e.KeyDown(KeyEvent{Key: "q"}))
}

func TestHotkeysSuppressedInTextInput(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{"a": {}}, "a")

	assert.False(t, e.KeyDown(KeyEvent{Key: "r", InTextInput: true}))
	assert.False(t, e.KeyDown(KeyEvent{Key: "a", Ctrl: true, InTextInput: true}))
	assert.Equal(t, ToolSelect, e.Tool())
	assert.Empty(t, e.Selected())
}

func TestSelectAllAndDeleteHotkeys(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{"a": {}, "b": {}}, "a", "b")

	require.True(t, e.KeyDown(KeyEvent{Key: "a", Meta: true}))
	assert.Equal(t, []string{"a", "b"}, e.Selected())

	require.True(t, e.KeyDown(KeyEvent{Key: "Backspace"}))
	assert.Empty(t, room.Snapshot().LayerIDs)

	require.True(t, e.KeyDown(KeyEvent{Key: "z", Ctrl: true}))
	assert.Equal(t, []string{"a", "b"}, room.Snapshot().LayerIDs)
	require.True(t, e.KeyDown(KeyEvent{Key: "Z", Ctrl: true, Shift: true}))
	assert.Empty(t, room.Snapshot().LayerIDs)
}

func TestCutPasteHotkeys(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{"a": {X: 5, Y: 5, Width: 1, Height: 1}}, "a")
	e.sel.Set([]string{"a"})

	require.True(t, e.KeyDown(KeyEvent{Key: "x", Ctrl: true}))
	assert.Empty(t, room.Snapshot().LayerIDs)
	require.True(t, e.KeyDown(KeyEvent{Key: "v", Ctrl: true}))
	require.Equal(t, []string{"l1"}, room.Snapshot().LayerIDs)
	assert.Equal(t, geometry.XYWH{X: 25, Y: 25, Width: 1, Height: 1}, bounds(t, room, "l1"))
}

func TestZoomHotkeys(t *testing.T) {
	e, _ := newEditor(t, Options{})
	e.SetViewport(800, 600)

	require.True(t, e.KeyDown(KeyEvent{Key: "=", Ctrl: true}))
	assert.InDelta(t, 1.1, e.Camera().Zoom, 1e-9)
	for range 40 {
		e.KeyDown(KeyEvent{Key: "=", Ctrl: true})
	}
	assert.Equal(t, camera.MaxStepZoom, e.Camera().Zoom)

	for range 40 {
		e.KeyDown(KeyEvent{Key: "-", Meta: true})
	}
	assert.Equal(t, camera.MinStepZoom, e.Camera().Zoom)

	require.True(t, e.KeyDown(KeyEvent{Key: "0", Ctrl: true}))
	assert.Equal(t, 1.0, e.Camera().Zoom)
}

func TestPanelToggleAndEscape(t *testing.T) {
	e, _ := newEditor(t, Options{})
	require.True(t, e.PanelOpen())
	require.True(t, e.KeyDown(KeyEvent{Key: "["}))
	assert.False(t, e.PanelOpen())

	e.KeyDown(KeyEvent{Key: "r"})
	require.True(t, e.KeyDown(KeyEvent{Key: "Escape"}))
	assert.Equal(t, ToolSelect, e.Tool())
	assert.Equal(t, None{}, e.Mode())
}
