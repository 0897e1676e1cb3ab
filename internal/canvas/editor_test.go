package canvas

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geometry"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/storage"
)

func newEditor(t *testing.T, opts Options) (*Editor, *storage.Room) {
	t.Helper()
	room := storage.NewRoom("room_test")
	n := 0
	if opts.NewID == nil {
		opts.NewID = func() string {
			n++
			return fmt.Sprintf("l%d", n)
		}
	}
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEditor(room, "me", opts), room
}

// seed inserts layers as another connection so the editor's history starts empty.
func seed(room *storage.Room, layers map[string]geometry.XYWH, order ...string) {
	room.Mutate("seed", func(tx *storage.Tx) {
		g := scene.New(tx)
		for _, id := range order {
			b := layers[id]
			g.InsertLayer(id, &document.RectangleLayer{Common: document.Common{
				X: b.X, Y: b.Y, Width: b.Width, Height: b.Height, Opacity: 100,
			}}, true)
		}
	})
}

func down(x, y float64) PointerEvent { return PointerEvent{X: x, Y: y, Pressed: true} }
func move(x, y float64) PointerEvent { return PointerEvent{X: x, Y: y, Pressed: true} }
func up(x, y float64) PointerEvent   { return PointerEvent{X: x, Y: y} }

func bounds(t *testing.T, room *storage.Room, id string) geometry.XYWH {
	t.Helper()
	l, ok := room.Snapshot().Layers[id]
	require.True(t, ok, "layer %s", id)
	return l.Bounds()
}

func TestInsertResizeCopyPaste(t *testing.T) {
	e, room := newEditor(t, Options{})

	e.SelectTool(ToolRectangle)
	assert.Equal(t, Inserting{LayerType: document.LayerTypeRectangle}, e.Mode())
	e.PointerDown(down(50, 50))
	e.PointerUp(up(50, 50))

	doc := room.Snapshot()
	require.Equal(t, []string{"l1"}, doc.LayerIDs)
	l := doc.Layers["l1"]
	assert.Equal(t, document.LayerTypeRectangle, l.Type())
	assert.Equal(t, geometry.XYWH{X: 50, Y: 50, Width: 100, Height: 100}, l.Bounds())
	assert.Equal(t, "Rectangle 1", l.Base().Name)
	assert.Equal(t, []string{"l1"}, e.Selected())
	assert.Equal(t, None{}, e.Mode())
	assert.Equal(t, ToolSelect, e.Tool())

	e.ResizeHandlePointerDown(geometry.BottomRight, l.Bounds())
	assert.True(t, e.GestureOpen())
	e.PointerMove(move(120, 130))
	e.PointerMove(move(180, 160))
	e.PointerMove(move(200, 200))
	e.PointerUp(up(200, 200))
	assert.False(t, e.GestureOpen())
	assert.Equal(t, geometry.XYWH{X: 50, Y: 50, Width: 150, Height: 150}, bounds(t, room, "l1"))

	assert.True(t, e.KeyDown(KeyEvent{Key: "c", Ctrl: true}))
	assert.True(t, e.KeyDown(KeyEvent{Key: "v", Ctrl: true}))

	doc = room.Snapshot()
	require.Equal(t, []string{"l1", "l2"}, doc.LayerIDs)
	assert.Equal(t, geometry.XYWH{X: 70, Y: 70, Width: 150, Height: 150}, doc.Layers["l2"].Bounds())
	assert.Equal(t, "Rectangle 2", doc.Layers["l2"].Base().Name)
	assert.Equal(t, []string{"l2"}, e.Selected())
}

// drawStroke commits a pencil stroke through pts and selects it.
func drawStroke(t *testing.T, e *Editor, room *storage.Room, pts ...geometry.Point) string {
	t.Helper()
	e.SelectTool(ToolPencil)
	e.PointerDown(down(pts[0].X, pts[0].Y))
	for _, p := range pts[1:] {
		e.PointerMove(move(p.X, p.Y))
	}
	last := pts[len(pts)-1]
	e.PointerUp(up(last.X, last.Y))
	e.SelectTool(ToolSelect)
	e.SelectAll()
	ids := room.Snapshot().LayerIDs
	require.Len(t, ids, 1)
	return ids[0]
}

func strokePoints(t *testing.T, room *storage.Room, id string) []geometry.Point {
	t.Helper()
	path, ok := room.Snapshot().Layers[id].(*document.PathLayer)
	require.True(t, ok)
	out := make([]geometry.Point, len(path.Points))
	for i, p := range path.Points {
		out[i] = geometry.Point{X: p.X, Y: p.Y}
	}
	return out
}

func TestResizeStrokeThroughZeroWidth(t *testing.T) {
	e, room := newEditor(t, Options{})
	id := drawStroke(t, e, room, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 50, Y: 50}, geometry.Point{X: 100, Y: 100})
	before := strokePoints(t, room, id)
	require.Equal(t, geometry.XYWH{X: 0, Y: 0, Width: 100, Height: 100}, bounds(t, room, id))

	e.ResizeHandlePointerDown(geometry.Right, bounds(t, room, id))
	e.PointerMove(move(0, 50))
	assert.Equal(t, 0.0, bounds(t, room, id).Width)
	e.PointerMove(move(100, 50))
	e.PointerUp(up(100, 50))

	assert.Equal(t, geometry.XYWH{X: 0, Y: 0, Width: 100, Height: 100}, bounds(t, room, id))
	assert.Equal(t, before, strokePoints(t, room, id))
}

func TestResizeStrokePastEdgeMirrors(t *testing.T) {
	e, room := newEditor(t, Options{})
	id := drawStroke(t, e, room, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 100})

	e.ResizeHandlePointerDown(geometry.Right, bounds(t, room, id))
	e.PointerMove(move(50, 50))
	e.PointerMove(move(-100, 50))
	e.PointerUp(up(-100, 50))

	assert.Equal(t, geometry.XYWH{X: -100, Y: 0, Width: 100, Height: 100}, bounds(t, room, id))
	assert.Equal(t, []geometry.Point{{X: 100, Y: 0}, {X: 0, Y: 100}}, strokePoints(t, room, id))
}

func TestResizeGroupPastEdgeMirrorsPositions(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{
		"a": {X: 0, Y: 0, Width: 20, Height: 20},
		"b": {X: 80, Y: 0, Width: 20, Height: 20},
	}, "a", "b")
	e.SelectAll()

	e.ResizeHandlePointerDown(geometry.Right, geometry.XYWH{X: 0, Y: 0, Width: 100, Height: 20})
	e.PointerMove(move(-100, 10))
	e.PointerUp(up(-100, 10))

	assert.Equal(t, geometry.XYWH{X: -20, Y: 0, Width: 20, Height: 20}, bounds(t, room, "a"))
	assert.Equal(t, geometry.XYWH{X: -100, Y: 0, Width: 20, Height: 20}, bounds(t, room, "b"))
}

func TestResizeGestureIsOneUndoStep(t *testing.T) {
	e, room := newEditor(t, Options{})
	id, ok := e.InsertLayer(document.LayerTypeRectangle, geometry.XYWH{X: 50, Y: 50, Width: 100, Height: 100})
	require.True(t, ok)

	e.ResizeHandlePointerDown(geometry.BottomRight, bounds(t, room, id))
	for i := 1; i <= 10; i++ {
		e.PointerMove(move(150+float64(i)*10, 150+float64(i)*5))
	}
	e.PointerUp(up(250, 200))
	assert.Equal(t, geometry.XYWH{X: 50, Y: 50, Width: 200, Height: 150}, bounds(t, room, id))

	require.True(t, e.Undo())
	assert.Equal(t, geometry.XYWH{X: 50, Y: 50, Width: 100, Height: 100}, bounds(t, room, id))

	require.True(t, e.Undo())
	assert.Empty(t, room.Snapshot().LayerIDs)
	assert.False(t, e.History().CanUndo())

	require.True(t, e.Redo())
	require.True(t, e.Redo())
	assert.Equal(t, geometry.XYWH{X: 50, Y: 50, Width: 200, Height: 150}, bounds(t, room, id))
}

func TestCancelRevertsResize(t *testing.T) {
	e, room := newEditor(t, Options{})
	id, _ := e.InsertLayer(document.LayerTypeEllipse, geometry.XYWH{X: 0, Y: 0, Width: 40, Height: 40})

	e.ResizeHandlePointerDown(geometry.Right, bounds(t, room, id))
	e.PointerMove(move(90, 10))
	assert.Equal(t, 90.0, bounds(t, room, id).Width)

	assert.True(t, e.KeyDown(KeyEvent{Key: "Escape"}))
	assert.Equal(t, None{}, e.Mode())
	assert.False(t, e.GestureOpen())
	assert.Equal(t, geometry.XYWH{X: 0, Y: 0, Width: 40, Height: 40}, bounds(t, room, id))

	// Only the insert is left to undo.
	require.True(t, e.Undo())
	assert.False(t, e.History().CanUndo())
}

func TestResizeScalesMultipleLayers(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{
		"a": {X: 0, Y: 0, Width: 10, Height: 10},
		"b": {X: 10, Y: 10, Width: 10, Height: 10},
	}, "a", "b")
	e.sel.Set([]string{"a", "b"})

	e.ResizeHandlePointerDown(geometry.BottomRight, geometry.XYWH{Width: 20, Height: 20})
	e.PointerMove(move(40, 40))
	e.PointerUp(up(40, 40))

	assert.Equal(t, geometry.XYWH{X: 0, Y: 0, Width: 20, Height: 20}, bounds(t, room, "a"))
	assert.Equal(t, geometry.XYWH{X: 20, Y: 20, Width: 20, Height: 20}, bounds(t, room, "b"))
}

func TestClickBelowThresholdClearsSelection(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{"a": {Width: 10, Height: 10}}, "a")
	e.sel.Set([]string{"a"})

	e.PointerDown(down(100, 100))
	e.PointerMove(move(103, 102))
	assert.Equal(t, Pressing{Origin: geometry.Point{X: 100, Y: 100}}, e.Mode())
	e.PointerUp(up(103, 102))

	assert.Equal(t, None{}, e.Mode())
	assert.Empty(t, e.Selected())
}

func TestSelectionNet(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{
		"a": {X: 0, Y: 0, Width: 10, Height: 10},
		"b": {X: 50, Y: 50, Width: 10, Height: 10},
		"c": {X: 100, Y: 100, Width: 10, Height: 10},
	}, "a", "b", "c")

	e.PointerDown(down(-5, -5))
	e.PointerMove(move(20, 20))
	_, ok := e.Mode().(SelectionNet)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, e.Selected())

	e.PointerMove(move(55, 55))
	assert.Equal(t, []string{"a", "b"}, e.Selected())
	e.PointerUp(up(55, 55))
	assert.Equal(t, None{}, e.Mode())

	require.True(t, e.Undo())
	assert.Empty(t, e.Selected())
	assert.False(t, e.History().CanUndo())
}

func TestTranslateSelection(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{"a": {Width: 10, Height: 10}}, "a")

	e.LayerPointerDown("a", down(5, 5))
	assert.Equal(t, []string{"a"}, e.Selected())
	assert.Equal(t, Translating{Current: geometry.Point{X: 5, Y: 5}}, e.Mode())

	e.PointerMove(move(15, 25))
	e.PointerMove(move(25, 35))
	e.PointerUp(up(25, 35))
	assert.Equal(t, geometry.XYWH{X: 20, Y: 30, Width: 10, Height: 10}, bounds(t, room, "a"))

	require.True(t, e.Undo())
	assert.Equal(t, geometry.XYWH{Width: 10, Height: 10}, bounds(t, room, "a"))
	assert.Equal(t, []string{"a"}, e.Selected())

	require.True(t, e.Undo())
	assert.Empty(t, e.Selected())
}

func TestTranslateFrameMovesChildrenOnce(t *testing.T) {
	e, room := newEditor(t, Options{})
	room.Mutate("seed", func(tx *storage.Tx) {
		g := scene.New(tx)
		g.InsertLayer("f", &document.FrameLayer{Common: document.Common{Width: 100, Height: 100, Opacity: 100}}, true)
		g.InsertLayer("child", &document.RectangleLayer{Common: document.Common{X: 10, Y: 10, Width: 5, Height: 5, Opacity: 100}}, true)
		g.AddToFrame("f", "child")
	})
	e.sel.Set([]string{"f", "child"})

	e.LayerPointerDown("f", down(50, 50))
	e.PointerMove(move(60, 50))
	e.PointerUp(up(60, 50))

	assert.Equal(t, 10.0, bounds(t, room, "f").X)
	assert.Equal(t, 20.0, bounds(t, room, "child").X)
}

func TestShiftClickTogglesSelection(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{
		"a": {Width: 10, Height: 10},
		"b": {X: 20, Width: 10, Height: 10},
	}, "a", "b")

	e.LayerPointerDown("a", down(5, 5))
	e.PointerUp(up(5, 5))
	ev := down(25, 5)
	ev.Shift = true
	e.LayerPointerDown("b", ev)
	e.PointerUp(up(25, 5))
	assert.Equal(t, []string{"a", "b"}, e.Selected())

	ev = down(5, 5)
	ev.Shift = true
	e.LayerPointerDown("a", ev)
	assert.Equal(t, []string{"b"}, e.Selected())
	assert.Equal(t, None{}, e.Mode())
}

func TestDragInsertSquare(t *testing.T) {
	e, room := newEditor(t, Options{})
	e.SelectTool(ToolEllipse)
	e.PointerDown(down(10, 10))
	e.PointerMove(move(50, 30))
	ev := up(50, 30)
	ev.Shift = true
	e.PointerUp(ev)

	assert.Equal(t, geometry.XYWH{X: 10, Y: 10, Width: 40, Height: 40}, bounds(t, room, "l1"))
}

func TestInsertIntoFrameTarget(t *testing.T) {
	e, room := newEditor(t, Options{})
	frame, _ := e.InsertLayer(document.LayerTypeFrame, geometry.XYWH{Width: 300, Height: 300})
	e.SetFrameTarget(frame)
	id, _ := e.InsertLayer(document.LayerTypeTriangle, geometry.XYWH{X: 10, Y: 10, Width: 20, Height: 20})

	f := room.Snapshot().Layers[frame].(*document.FrameLayer)
	assert.Equal(t, []string{id}, f.ChildIDs)
}

func TestLayerCapBlocksInsertion(t *testing.T) {
	e, room := newEditor(t, Options{MaxLayers: 2})
	for range 2 {
		_, ok := e.InsertLayer(document.LayerTypeRectangle, geometry.XYWH{Width: 10, Height: 10})
		require.True(t, ok)
	}

	id, ok := e.InsertLayer(document.LayerTypeRectangle, geometry.XYWH{Width: 10, Height: 10})
	assert.False(t, ok)
	assert.Empty(t, id)
	assert.Len(t, room.Snapshot().LayerIDs, 2)

	e.SelectTool(ToolPencil)
	e.PointerDown(down(0, 0))
	e.PointerMove(move(10, 10))
	e.PointerUp(up(10, 10))
	assert.Len(t, room.Snapshot().LayerIDs, 2)
	assert.Empty(t, e.Draft())
}

func TestPencilCommit(t *testing.T) {
	e, room := newEditor(t, Options{})
	e.SetColor(document.Color{R: 10, G: 20, B: 30})
	e.SelectTool(ToolPencil)

	raw := []geometry.Point{{X: 10, Y: 20}, {X: 30, Y: 5}, {X: 20, Y: 40}}
	e.PointerDown(down(raw[0].X, raw[0].Y))
	e.PointerMove(move(raw[1].X, raw[1].Y))
	e.PointerMove(move(raw[2].X, raw[2].Y))
	e.PointerMove(PointerEvent{X: 500, Y: 500})

	p, ok := room.Presence("me")
	require.True(t, ok)
	assert.Len(t, p.PencilDraft, 3)

	e.PointerUp(up(20, 40))
	assert.Equal(t, Pencil{}, e.Mode())

	path, ok := room.Snapshot().Layers["l1"].(*document.PathLayer)
	require.True(t, ok)
	assert.Equal(t, geometry.XYWH{X: 10, Y: 5, Width: 20, Height: 35}, path.Bounds())
	assert.Equal(t, &document.Color{R: 10, G: 20, B: 30}, path.Fill)
	require.Len(t, path.Points, 3)
	for i, pt := range path.Points {
		assert.Equal(t, raw[i], geometry.Point{X: pt.X + path.X, Y: pt.Y + path.Y})
	}

	p, _ = room.Presence("me")
	assert.Nil(t, p.PencilDraft)
}

func TestPencilSinglePointIsDiscarded(t *testing.T) {
	e, room := newEditor(t, Options{})
	e.SelectTool(ToolPencil)
	e.PointerDown(down(10, 10))
	e.PointerUp(up(10, 10))

	assert.Empty(t, room.Snapshot().LayerIDs)
	assert.False(t, e.History().CanUndo())
}

func TestHandToolPans(t *testing.T) {
	e, _ := newEditor(t, Options{})
	e.SelectTool(ToolHand)
	e.PointerDown(down(100, 100))
	e.PointerMove(move(130, 90))
	e.PointerUp(up(130, 90))

	assert.Equal(t, 30.0, e.Camera().X)
	assert.Equal(t, -10.0, e.Camera().Y)
	assert.Equal(t, Dragging{}, e.Mode())
}

func TestWheel(t *testing.T) {
	e, _ := newEditor(t, Options{})
	e.Wheel(WheelEvent{DeltaX: 10, DeltaY: 20})
	assert.Equal(t, -10.0, e.Camera().X)
	assert.Equal(t, -20.0, e.Camera().Y)

	cam := e.Camera()
	cursor := geometry.Point{X: 200, Y: 100}
	before := cam.ToScene(cursor)
	e.Wheel(WheelEvent{X: cursor.X, Y: cursor.Y, DeltaY: -100, Ctrl: true})
	assert.Greater(t, e.Camera().Zoom, 1.0)
	after := e.Camera().ToScene(cursor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestPointerUsesCamera(t *testing.T) {
	e, room := newEditor(t, Options{})
	e.Wheel(WheelEvent{DeltaX: -100, DeltaY: -100})

	e.SelectTool(ToolRectangle)
	e.PointerDown(down(150, 150))
	e.PointerUp(up(150, 150))
	assert.Equal(t, geometry.XYWH{X: 50, Y: 50, Width: 100, Height: 100}, bounds(t, room, "l1"))
}

func TestRightClickLayer(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{"a": {Width: 10, Height: 10}}, "a")

	e.LayerPointerDown("a", PointerEvent{X: 5, Y: 5, Button: 2})
	assert.Equal(t, RightClick{}, e.Mode())
	assert.Equal(t, []string{"a"}, e.Selected())

	e.PointerDown(down(50, 50))
	assert.Equal(t, Pressing{Origin: geometry.Point{X: 50, Y: 50}}, e.Mode())
}

func TestTextBlur(t *testing.T) {
	e, room := newEditor(t, Options{})
	id, _ := e.InsertLayer(document.LayerTypeText, geometry.XYWH{Width: 100, Height: 20})

	e.TextBlur(id, "hello")
	assert.Equal(t, "hello", room.Snapshot().Layers[id].(*document.TextLayer).Text)

	e.TextBlur(id, "  ")
	assert.Empty(t, room.Snapshot().LayerIDs)
	assert.Empty(t, e.Selected())
}

func TestSetLayerProperties(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{"a": {Width: 10, Height: 10}}, "a")
	opacity := 40.0
	e.SetLayerProperties([]string{"a", "gone"}, scene.Patch{Opacity: &opacity})

	assert.Equal(t, 40.0, room.Snapshot().Layers["a"].Base().Opacity)
}

func TestPointerLeaveClosesGesture(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{"a": {Width: 10, Height: 10}}, "a")

	e.LayerPointerDown("a", down(5, 5))
	e.PointerMove(move(10, 5))
	e.PointerLeave()

	assert.Equal(t, None{}, e.Mode())
	assert.False(t, e.GestureOpen())
	assert.False(t, e.History().Paused())
	p, _ := room.Presence("me")
	assert.Nil(t, p.Cursor)
}

func TestZOrderActions(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{"a": {}, "b": {}, "c": {}}, "a", "b", "c")
	e.sel.Set([]string{"a"})

	e.BringToFront()
	assert.Equal(t, []string{"b", "c", "a"}, room.Snapshot().LayerIDs)
	e.SendToBack()
	assert.Equal(t, []string{"a", "b", "c"}, room.Snapshot().LayerIDs)
	e.BringForward()
	assert.Equal(t, []string{"b", "a", "c"}, room.Snapshot().LayerIDs)
	e.SendBackward()
	assert.Equal(t, []string{"a", "b", "c"}, room.Snapshot().LayerIDs)
}

func TestLayerAtAndSelectionBounds(t *testing.T) {
	e, room := newEditor(t, Options{})
	seed(room, map[string]geometry.XYWH{
		"a": {X: 0, Y: 0, Width: 50, Height: 50},
		"b": {X: 40, Y: 40, Width: 50, Height: 50},
	}, "a", "b")

	assert.Equal(t, "b", e.LayerAt(45, 45))
	assert.Equal(t, "a", e.LayerAt(10, 10))
	assert.Empty(t, e.LayerAt(200, 200))

	_, ok := e.SelectionBounds()
	assert.False(t, ok)

	e.SelectAll()
	box, ok := e.SelectionBounds()
	require.True(t, ok)
	assert.Equal(t, geometry.XYWH{X: 0, Y: 0, Width: 90, Height: 90}, box)

	v := room.Version()
	e.LayerAt(10, 10)
	assert.Equal(t, v, room.Version())
}
