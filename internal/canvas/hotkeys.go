package canvas

import "strings"

var toolKeys = map[string]Tool{
	"v": ToolSelect,
	"h": ToolHand,
	"r": ToolRectangle,
	"o": ToolEllipse,
	"t": ToolText,
	"p": ToolPencil,
}

// KeyDown runs the shortcut bound to ev and reports whether there was one.
// Nothing fires while focus is in a text field.
func (e *Editor) KeyDown(ev KeyEvent) bool {
	if ev.InTextInput {
		return false
	}

	if ev.command() {
		switch strings.ToLower(ev.Key) {
		case "a":
			e.SelectAll()
		case "c":
			e.Copy()
		case "x":
			e.Cut()
		case "v":
			e.Paste()
		case "z":
			if ev.Shift {
				e.Redo()
			} else {
				e.Undo()
			}
		case "y":
			e.Redo()
		case "=", "+":
			e.ZoomIn()
		case "-", "_":
			e.ZoomOut()
		case "0":
			e.ResetZoom()
		default:
			return false
		}
		return true
	}

	switch ev.Key {
	case "Escape":
		e.Cancel()
		return true
	case "Delete", "Backspace":
		e.DeleteSelection()
		return true
	case "[":
		e.TogglePanel()
		return true
	}

	if t, ok := toolKeys[strings.ToLower(ev.Key)]; ok {
		e.SelectTool(t)
		return true
	}
	return false
}
