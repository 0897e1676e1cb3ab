// Package canvas turns pointer, wheel and keyboard input into scene edits.
// An Editor belongs to one connection of one room and is not safe for
// concurrent use; the room it writes to is.
package canvas

import (
	"log/slog"
	"math"

	"github.com/inamate/canvas/internal/camera"
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geometry"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/selection"
	"github.com/inamate/canvas/internal/storage"
	"github.com/inamate/canvas/internal/typeid"
)

const (
	DefaultMaxLayers  = 100
	DefaultInsertSize = 100

	// dragThreshold is the Manhattan distance in scene units a press has to
	// travel before it counts as a drag.
	dragThreshold = 5
)

type Options struct {
	// MaxLayers blocks insertion once the room holds this many layers.
	MaxLayers int
	// InsertSize is the side of a click-inserted layer.
	InsertSize  float64
	PasteOffset float64
	// NewID generates layer ids. Defaults to typeid.NewLayerID.
	NewID func() string
	// Namer hands out layer names. Editors of the same room should share one.
	Namer  *scene.Namer
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxLayers <= 0 {
		o.MaxLayers = DefaultMaxLayers
	}
	if o.InsertSize <= 0 {
		o.InsertSize = DefaultInsertSize
	}
	if o.PasteOffset == 0 {
		o.PasteOffset = selection.DefaultPasteOffset
	}
	if o.NewID == nil {
		o.NewID = typeid.NewLayerID
	}
	if o.Namer == nil {
		o.Namer = scene.NewNamer()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// PendingImage is the uploaded image the Image tool places next.
type PendingImage struct {
	Src         string
	AspectRatio float64
}

// Editor is one connection's interaction state over a room.
type Editor struct {
	room   *storage.Room
	connID string
	opts   Options
	sel    *selection.Manager
	log    *slog.Logger

	camera   camera.Camera
	viewport geometry.Point
	tool     Tool
	mode     Mode

	// gesture is the open undo batch of a drag, nil between gestures.
	gesture     *storage.Batch
	resizeStart map[string]document.Layer
	resizeLock  bool

	draft       []document.PathPoint
	color       document.Color
	frameTarget string
	image       *PendingImage
	panelOpen   bool
}

// NewEditor joins connID to room and returns an idle editor.
func NewEditor(room *storage.Room, connID string, opts Options) *Editor {
	opts = opts.withDefaults()
	room.Join(connID)
	return &Editor{
		room:   room,
		connID: connID,
		opts:   opts,
		sel: selection.NewManager(room, connID, selection.Options{
			PasteOffset: opts.PasteOffset,
			MaxLayers:   opts.MaxLayers,
			NewID:       opts.NewID,
			Namer:       opts.Namer,
		}),
		log:       opts.Logger.With("room", room.ID(), "conn", connID),
		camera:    camera.New(),
		tool:      ToolSelect,
		mode:      None{},
		color:     document.Color{R: 217, G: 217, B: 217},
		panelOpen: true,
	}
}

func (e *Editor) Mode() Mode            { return e.mode }
func (e *Editor) Tool() Tool            { return e.tool }
func (e *Editor) Camera() camera.Camera { return e.camera }
func (e *Editor) Room() *storage.Room   { return e.room }
func (e *Editor) ConnID() string        { return e.connID }
func (e *Editor) PanelOpen() bool       { return e.panelOpen }
func (e *Editor) Selected() []string    { return e.sel.Selected() }
func (e *Editor) Color() document.Color { return e.color }
func (e *Editor) FrameTarget() string   { return e.frameTarget }
func (e *Editor) GestureOpen() bool     { return !e.gesture.Done() }
func (e *Editor) History() *storage.History {
	return e.room.History(e.connID)
}

// Draft returns the stroke being drawn, in scene coordinates.
func (e *Editor) Draft() []document.PathPoint {
	return append([]document.PathPoint(nil), e.draft...)
}

// LayerAt returns the topmost layer under a device position, or "".
func (e *Editor) LayerAt(x, y float64) string {
	p := e.camera.ToScene(geometry.Point{X: x, Y: y})
	var id string
	e.mutate(func(g *scene.Graph) { id = g.HitTest(p) })
	return id
}

// SelectionBounds returns the scene box around the selection.
func (e *Editor) SelectionBounds() (geometry.XYWH, bool) {
	ids := e.Selected()
	var (
		box geometry.XYWH
		ok  bool
	)
	e.mutate(func(g *scene.Graph) { box, ok = g.SelectionBounds(ids) })
	return box, ok
}

// SetViewport tells the editor the canvas size so keyboard zoom centers on it.
func (e *Editor) SetViewport(width, height float64) {
	e.viewport = geometry.Point{X: width / 2, Y: height / 2}
}

// SetColor picks the fill used for new shapes and strokes.
func (e *Editor) SetColor(c document.Color) {
	e.color = c
}

// SetFrameTarget makes new layers children of frameID. An empty id clears it.
func (e *Editor) SetFrameTarget(frameID string) {
	e.frameTarget = frameID
}

// SetPendingImage arms the Image tool with an uploaded asset.
func (e *Editor) SetPendingImage(src string, aspectRatio float64) {
	e.image = &PendingImage{Src: src, AspectRatio: aspectRatio}
	e.SelectTool(ToolImage)
}

// SelectTool switches tools, finishing whatever gesture is open.
func (e *Editor) SelectTool(t Tool) {
	e.endGesture()
	if _, ok := e.mode.(Pencil); ok && t != ToolPencil {
		e.discardDraft()
	}
	e.tool = t
	switch t {
	case ToolHand:
		e.mode = Dragging{}
	case ToolPencil:
		e.mode = Pencil{}
	case ToolSelect:
		e.mode = None{}
	default:
		lt, ok := insertTypes[t]
		if !ok {
			e.log.Warn("unknown tool", "tool", t)
			e.tool, e.mode = ToolSelect, None{}
			return
		}
		e.mode = Inserting{LayerType: lt}
	}
}

func (e *Editor) scenePoint(ev PointerEvent) geometry.Point {
	return e.camera.ToScene(ev.device())
}

// PointerDown handles a press on empty canvas.
func (e *Editor) PointerDown(ev PointerEvent) {
	if ev.Button != 0 {
		return
	}
	p := e.scenePoint(ev)

	switch m := e.mode.(type) {
	case Inserting:
		m.Origin, m.Current = &p, p
		e.mode = m
	case Pencil:
		e.draft = []document.PathPoint{{X: p.X, Y: p.Y, Pressure: ev.Pressure}}
		e.publishDraft()
	case Dragging:
		d := ev.device()
		e.mode = Dragging{Origin: &d}
	default:
		e.endGesture()
		e.mode = Pressing{Origin: p}
	}
}

// LayerPointerDown handles a press that landed on layer id.
func (e *Editor) LayerPointerDown(id string, ev PointerEvent) {
	if ev.Button == 2 {
		e.RightClickLayer(id)
		return
	}
	switch e.mode.(type) {
	case Pencil, Inserting, Dragging:
		e.PointerDown(ev)
		return
	}
	if ev.Button != 0 {
		return
	}
	e.endGesture()

	// Pressing a layer that is already part of a multi-selection keeps the
	// selection so the whole group can be dragged.
	if ev.Shift || ev.Ctrl || ev.Meta {
		e.sel.Toggle(id)
	} else if !e.isSelected(id) {
		e.sel.Select(id)
	}
	if !e.isSelected(id) {
		e.mode = None{}
		return
	}

	e.gesture = e.History().Coalesce()
	e.mode = Translating{Current: e.scenePoint(ev)}
}

// ResizeHandlePointerDown starts resizing the selection from one of its
// handles. initial is the selection box as drawn.
func (e *Editor) ResizeHandlePointerDown(corner geometry.Side, initial geometry.XYWH) {
	e.endGesture()

	doc := e.room.Snapshot()
	e.resizeStart = make(map[string]document.Layer)
	e.resizeLock = false
	for _, id := range e.sel.Selected() {
		l, ok := doc.Layers[id]
		if !ok {
			continue
		}
		e.resizeStart[id] = l
		if _, ok := l.(*document.ImageLayer); ok {
			e.resizeLock = true
		}
	}
	if len(e.resizeStart) == 0 {
		return
	}

	e.gesture = e.History().Coalesce()
	e.mode = Resizing{Initial: initial, Corner: corner}
}

// RightClickLayer opens the context menu state on id, selecting it first if
// needed.
func (e *Editor) RightClickLayer(id string) {
	e.endGesture()
	if !e.isSelected(id) {
		e.sel.Select(id)
	}
	e.mode = RightClick{}
}

func (e *Editor) isSelected(id string) bool {
	p, ok := e.room.Presence(e.connID)
	return ok && p.IsSelected(id)
}

// PointerMove publishes the cursor and advances the current gesture.
func (e *Editor) PointerMove(ev PointerEvent) {
	p := e.scenePoint(ev)
	e.setCursor(&p)

	switch m := e.mode.(type) {
	case Pressing:
		if geometry.ManhattanDistance(m.Origin, p) > dragThreshold {
			e.gesture = e.History().Coalesce()
			e.mode = SelectionNet{Origin: m.Origin, Current: p}
			e.updateSelectionNet(m.Origin, p)
		}
	case SelectionNet:
		m.Current = p
		e.mode = m
		e.updateSelectionNet(m.Origin, p)
	case Translating:
		if !ev.Pressed {
			return
		}
		e.translateSelection(p.Sub(m.Current))
		e.mode = Translating{Current: p}
	case Resizing:
		box := geometry.ResizeBounds(m.Initial, m.Corner, p, e.resizeLock || ev.Shift)
		flipX, flipY := geometry.Flipped(m.Initial, box, m.Corner)
		e.resizeSelection(m.Initial, box, flipX, flipY)
	case Inserting:
		if m.Origin != nil {
			m.Current = p
			e.mode = m
		}
	case Pencil:
		if ev.Pressed && e.draft != nil {
			e.draft = append(e.draft, document.PathPoint{X: p.X, Y: p.Y, Pressure: ev.Pressure})
			e.publishDraft()
		}
	case Dragging:
		if m.Origin != nil {
			d := ev.device()
			e.camera.Pan(d.X-m.Origin.X, d.Y-m.Origin.Y)
			e.mode = Dragging{Origin: &d}
		}
	}
}

// PointerUp finishes the current gesture.
func (e *Editor) PointerUp(ev PointerEvent) {
	p := e.scenePoint(ev)

	switch m := e.mode.(type) {
	case Pressing:
		e.sel.Clear()
		e.mode = None{}
	case SelectionNet, Translating, Resizing:
		e.endGesture()
		e.mode = None{}
	case Inserting:
		if m.Origin == nil {
			return
		}
		e.insertAt(m.LayerType, *m.Origin, p, ev.Shift)
		e.tool, e.mode = ToolSelect, None{}
	case Pencil:
		e.commitDraft()
	case Dragging:
		if e.tool == ToolHand {
			e.mode = Dragging{}
		} else {
			e.mode = None{}
		}
	}
}

// PointerLeave clears the cursor and closes any open gesture as if the
// pointer had been released.
func (e *Editor) PointerLeave() {
	e.setCursor(nil)
	switch e.mode.(type) {
	case Pressing, SelectionNet, Translating, Resizing:
		e.endGesture()
		e.mode = None{}
	case Pencil:
		e.commitDraft()
	case Dragging:
		if e.tool == ToolHand {
			e.mode = Dragging{}
		} else {
			e.mode = None{}
		}
	}
}

// Cancel abandons the current gesture. Drags revert to where they started.
func (e *Editor) Cancel() {
	switch m := e.mode.(type) {
	case SelectionNet, Translating, Resizing:
		e.gesture.Cancel()
		e.gesture = nil
		e.mode = None{}
	case Pencil:
		e.discardDraft()
	case Inserting:
		if m.Origin != nil {
			m.Origin = nil
			e.mode = m
			return
		}
		e.tool, e.mode = ToolSelect, None{}
	case Pressing, RightClick:
		e.mode = None{}
	}
}

// Wheel zooms around the cursor with Ctrl/Cmd held and pans otherwise.
func (e *Editor) Wheel(ev WheelEvent) {
	if ev.Ctrl || ev.Meta {
		e.camera.ZoomAt(geometry.Point{X: ev.X, Y: ev.Y}, math.Exp(-ev.DeltaY/100))
		return
	}
	e.camera.Pan(-ev.DeltaX, -ev.DeltaY)
}

// ZoomIn and ZoomOut step the zoom around the viewport center.
func (e *Editor) ZoomIn()    { e.camera.ZoomIn(e.viewport) }
func (e *Editor) ZoomOut()   { e.camera.ZoomOut(e.viewport) }
func (e *Editor) ResetZoom() { e.camera.Reset() }

// TogglePanel flips the side panel.
func (e *Editor) TogglePanel() { e.panelOpen = !e.panelOpen }

// Undo reverts this connection's last step.
func (e *Editor) Undo() bool {
	e.endGesture()
	return e.History().Undo()
}

// Redo reapplies the last undone step.
func (e *Editor) Redo() bool {
	e.endGesture()
	return e.History().Redo()
}

func (e *Editor) SelectAll()       { e.sel.SelectAll() }
func (e *Editor) ClearSelection()  { e.sel.Clear() }
func (e *Editor) DeleteSelection() { e.sel.DeleteSelection() }
func (e *Editor) Copy() int        { return e.sel.Copy() }
func (e *Editor) Cut() int         { return e.sel.Cut() }
func (e *Editor) Paste() []string  { return e.sel.Paste() }

// endGesture closes an open undo batch, keeping what it did.
func (e *Editor) endGesture() {
	e.gesture.End()
	e.gesture = nil
}

// Close ends any open gesture and leaves the room.
func (e *Editor) Close() {
	e.endGesture()
	e.room.Leave(e.connID)
}
