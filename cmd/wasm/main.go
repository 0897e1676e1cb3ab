//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/canvas/internal/canvas"
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geometry"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/storage"
	"github.com/inamate/canvas/internal/typeid"
)

const localConn = "local"

var (
	room   *storage.Room
	editor *canvas.Editor
	namer  = scene.NewNamer()
)

func main() {
	room = storage.NewRoom(typeid.NewRoomID())
	load(document.NewSampleDocument())
	editor = canvas.NewEditor(room, localConn, canvas.Options{Namer: namer})

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	api.Set("setViewport", js.FuncOf(setViewport))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("resizeHandleDown", js.FuncOf(resizeHandleDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("pointerLeave", js.FuncOf(pointerLeave))
	api.Set("wheel", js.FuncOf(wheel))
	api.Set("keyDown", js.FuncOf(keyDown))
	api.Set("selectTool", js.FuncOf(selectTool))
	api.Set("setColor", js.FuncOf(setColor))
	api.Set("setPendingImage", js.FuncOf(setPendingImage))
	api.Set("textBlur", js.FuncOf(textBlur))
	api.Set("setSelectionProperties", js.FuncOf(setSelectionProperties))
	api.Set("bringToFront", js.FuncOf(bringToFront))
	api.Set("sendToBack", js.FuncOf(sendToBack))
	api.Set("bringForward", js.FuncOf(bringForward))
	api.Set("sendBackward", js.FuncOf(sendBackward))
	api.Set("setFrameTarget", js.FuncOf(setFrameTarget))
	api.Set("addSelectionToFrame", js.FuncOf(addSelectionToFrame))
	api.Set("zoomIn", js.FuncOf(zoomIn))
	api.Set("zoomOut", js.FuncOf(zoomOut))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))
	api.Set("onChange", js.FuncOf(onChange))

	// --- Queries (frontend ← editor) ---
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("getCamera", js.FuncOf(getCamera))
	api.Set("getMode", js.FuncOf(getMode))
	api.Set("getDraft", js.FuncOf(getDraft))

	js.Global().Set("canvasEditor", api)
	js.Global().Set("canvasWasmReady", js.ValueOf(true))

	select {}
}

func errorResult(err error) any {
	return js.ValueOf(map[string]any{"error": err.Error()})
}

func okResult() any {
	return js.ValueOf(map[string]any{"ok": true})
}

func toJSON(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(string(data))
}

func pointerEvent(v js.Value) canvas.PointerEvent {
	return canvas.PointerEvent{
		X:        v.Get("x").Float(),
		Y:        v.Get("y").Float(),
		Button:   v.Get("button").Int(),
		Pressed:  v.Get("buttons").Int() != 0,
		Pressure: v.Get("pressure").Float(),
		Shift:    v.Get("shiftKey").Truthy(),
		Ctrl:     v.Get("ctrlKey").Truthy(),
		Meta:     v.Get("metaKey").Truthy(),
	}
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing document JSON"})
	}
	doc := document.NewEmptyDocument()
	if err := json.Unmarshal([]byte(args[0].String()), doc); err != nil {
		return errorResult(err)
	}
	if err := doc.Validate(); err != nil {
		return errorResult(err)
	}
	editor.ClearSelection()
	load(doc)
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) any {
	editor.ClearSelection()
	load(document.NewSampleDocument())
	return okResult()
}

// load replaces the scene and restarts layer names after the ones it holds.
func load(doc *document.Document) {
	namer.Release(room.ID())
	namer.Seed(room.ID(), doc)
	room.Load(doc)
}

func setViewport(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	editor.SetViewport(args[0].Float(), args[1].Float())
	return nil
}

// pointerDown routes a press to the layer under it, or to the empty canvas.
func pointerDown(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	ev := pointerEvent(args[0])
	if editor.Tool() == canvas.ToolSelect {
		if id := editor.LayerAt(ev.X, ev.Y); id != "" {
			editor.LayerPointerDown(id, ev)
			return js.ValueOf(id)
		}
	}
	editor.PointerDown(ev)
	return js.ValueOf("")
}

// resizeHandleDown takes the handle side bitmask (top=1 bottom=2 left=4 right=8).
func resizeHandleDown(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	box, ok := editor.SelectionBounds()
	if !ok {
		return nil
	}
	editor.ResizeHandlePointerDown(geometry.Side(args[0].Int()), box)
	return nil
}

func pointerMove(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	editor.PointerMove(pointerEvent(args[0]))
	return nil
}

func pointerUp(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	editor.PointerUp(pointerEvent(args[0]))
	return nil
}

func pointerLeave(this js.Value, args []js.Value) any {
	editor.PointerLeave()
	return nil
}

func wheel(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	v := args[0]
	editor.Wheel(canvas.WheelEvent{
		X:      v.Get("x").Float(),
		Y:      v.Get("y").Float(),
		DeltaX: v.Get("deltaX").Float(),
		DeltaY: v.Get("deltaY").Float(),
		Ctrl:   v.Get("ctrlKey").Truthy(),
		Meta:   v.Get("metaKey").Truthy(),
	})
	return nil
}

// keyDown reports whether the key was handled so the page can preventDefault.
func keyDown(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	v := args[0]
	return js.ValueOf(editor.KeyDown(canvas.KeyEvent{
		Key:         v.Get("key").String(),
		Ctrl:        v.Get("ctrlKey").Truthy(),
		Meta:        v.Get("metaKey").Truthy(),
		Shift:       v.Get("shiftKey").Truthy(),
		InTextInput: v.Get("inTextInput").Truthy(),
	}))
}

func selectTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	editor.SelectTool(canvas.Tool(args[0].String()))
	return nil
}

func setColor(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	editor.SetColor(*document.RGB(uint8(args[0].Int()), uint8(args[1].Int()), uint8(args[2].Int())))
	return nil
}

func setPendingImage(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	editor.SetPendingImage(args[0].String(), args[1].Float())
	return nil
}

func textBlur(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	editor.TextBlur(args[0].String(), args[1].String())
	return nil
}

func setSelectionProperties(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	var p scene.Patch
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return errorResult(err)
	}
	editor.SetSelectionProperties(p)
	return okResult()
}

func bringToFront(this js.Value, args []js.Value) any {
	editor.BringToFront()
	return nil
}

func sendToBack(this js.Value, args []js.Value) any {
	editor.SendToBack()
	return nil
}

func bringForward(this js.Value, args []js.Value) any {
	editor.BringForward()
	return nil
}

func sendBackward(this js.Value, args []js.Value) any {
	editor.SendBackward()
	return nil
}

// setFrameTarget takes the frame id new layers should land in; "" clears it.
func setFrameTarget(this js.Value, args []js.Value) any {
	frameID := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		frameID = args[0].String()
	}
	editor.SetFrameTarget(frameID)
	return nil
}

func addSelectionToFrame(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	editor.AddSelectionToFrame(args[0].String())
	return nil
}

func zoomIn(this js.Value, args []js.Value) any {
	editor.ZoomIn()
	return nil
}

func zoomOut(this js.Value, args []js.Value) any {
	editor.ZoomOut()
	return nil
}

func undo(this js.Value, args []js.Value) any {
	return js.ValueOf(editor.Undo())
}

func redo(this js.Value, args []js.Value) any {
	return js.ValueOf(editor.Redo())
}

// onChange calls back with the room version after every change.
func onChange(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return nil
	}
	cb := args[0]
	room.Subscribe(func(ch storage.Change) {
		cb.Invoke(js.ValueOf(float64(ch.Version)))
	})
	return nil
}

// --- Query Handlers ---

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(editor.LayerAt(args[0].Float(), args[1].Float()))
}

func getDocument(this js.Value, args []js.Value) any {
	return toJSON(room.Snapshot())
}

func getSelection(this js.Value, args []js.Value) any {
	return toJSON(editor.Selected())
}

func getSelectionBounds(this js.Value, args []js.Value) any {
	box, ok := editor.SelectionBounds()
	if !ok {
		return js.Null()
	}
	return toJSON(box)
}

func getCamera(this js.Value, args []js.Value) any {
	return toJSON(editor.Camera())
}

func getMode(this js.Value, args []js.Value) any {
	return js.ValueOf(editor.Mode().Name())
}

func getDraft(this js.Value, args []js.Value) any {
	return toJSON(editor.Draft())
}
