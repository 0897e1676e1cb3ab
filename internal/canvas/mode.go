package canvas

import (
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geometry"
)

// Tool is what the toolbar (or a hotkey) has picked.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolHand      Tool = "hand"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolTriangle  Tool = "triangle"
	ToolText      Tool = "text"
	ToolFrame     Tool = "frame"
	ToolImage     Tool = "image"
	ToolPencil    Tool = "pencil"
)

// insertTypes maps the insertion tools to the layer they create.
var insertTypes = map[Tool]document.LayerType{
	ToolRectangle: document.LayerTypeRectangle,
	ToolEllipse:   document.LayerTypeEllipse,
	ToolTriangle:  document.LayerTypeTriangle,
	ToolText:      document.LayerTypeText,
	ToolFrame:     document.LayerTypeFrame,
	ToolImage:     document.LayerTypeImage,
}

// Mode is the state of the pointer interaction. It is always one of the
// structs below.
type Mode interface {
	Name() string
	mode()
}

// None is idle.
type None struct{}

// Pressing is a primary press on empty canvas that has not moved far enough
// to become a selection net.
type Pressing struct {
	Origin geometry.Point
}

// SelectionNet is a marquee drag.
type SelectionNet struct {
	Origin  geometry.Point
	Current geometry.Point
}

// Translating moves the selection; Current is the last pointer position.
type Translating struct {
	Current geometry.Point
}

// Resizing drags a handle of the selection box. Initial is the box when the
// handle was grabbed.
type Resizing struct {
	Initial geometry.XYWH
	Corner  geometry.Side
}

// Inserting waits for a click or drag that places a new layer. Origin is set
// once the pointer is down.
type Inserting struct {
	LayerType document.LayerType
	Origin    *geometry.Point
	Current   geometry.Point
}

// Pencil draws freehand strokes until another tool is picked.
type Pencil struct{}

// Dragging pans the camera. Origin is the last device position while the
// pointer is down.
type Dragging struct {
	Origin *geometry.Point
}

// RightClick is the context menu state on a selected layer.
type RightClick struct{}

func (None) Name() string         { return "none" }
func (Pressing) Name() string     { return "pressing" }
func (SelectionNet) Name() string { return "selectionNet" }
func (Translating) Name() string  { return "translating" }
func (Resizing) Name() string     { return "resizing" }
func (Inserting) Name() string    { return "inserting" }
func (Pencil) Name() string       { return "pencil" }
func (Dragging) Name() string     { return "dragging" }
func (RightClick) Name() string   { return "rightClick" }

func (None) mode()         {}
func (Pressing) mode()     {}
func (SelectionNet) mode() {}
func (Translating) mode()  {}
func (Resizing) mode()     {}
func (Inserting) mode()    {}
func (Pencil) mode()       {}
func (Dragging) mode()     {}
func (RightClick) mode()   {}

// PointerEvent is a pointer sample in device pixels.
type PointerEvent struct {
	X, Y     float64
	Button   int // 0 primary, 2 secondary
	Pressed  bool
	Pressure float64
	Shift    bool
	Ctrl     bool
	Meta     bool
}

func (ev PointerEvent) device() geometry.Point {
	return geometry.Point{X: ev.X, Y: ev.Y}
}

// WheelEvent is a wheel or trackpad scroll at a device position.
type WheelEvent struct {
	X, Y   float64
	DeltaX float64
	DeltaY float64
	Ctrl   bool
	Meta   bool
}

// KeyEvent is a key press. Key follows the DOM KeyboardEvent.key values.
type KeyEvent struct {
	Key         string
	Ctrl        bool
	Meta        bool
	Shift       bool
	InTextInput bool
}

func (ev KeyEvent) command() bool { return ev.Ctrl || ev.Meta }
