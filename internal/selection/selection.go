// Package selection manages one connection's selection and the room's shared
// clipboard. Each operation is a single storage mutation.
package selection

import (
	"slices"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/storage"
	"github.com/inamate/canvas/internal/typeid"
)

const DefaultPasteOffset = 20

type Options struct {
	// PasteOffset is added to x and y of every pasted layer.
	PasteOffset float64
	// MaxLayers caps the live layer count; zero means no cap.
	MaxLayers int
	// NewID generates layer ids. Defaults to typeid.NewLayerID.
	NewID func() string
	// Namer renames pasted layers. Nil keeps the copied names.
	Namer *scene.Namer
}

type Manager struct {
	room   *storage.Room
	connID string
	opts   Options
}

func NewManager(room *storage.Room, connID string, opts Options) *Manager {
	if opts.NewID == nil {
		opts.NewID = typeid.NewLayerID
	}
	return &Manager{room: room, connID: connID, opts: opts}
}

func (m *Manager) mutate(fn func(g *scene.Graph)) {
	m.room.Mutate(m.connID, func(tx *storage.Tx) { fn(scene.New(tx)) })
}

// Selected returns the current selection.
func (m *Manager) Selected() []string {
	p, ok := m.room.Presence(m.connID)
	if !ok {
		return nil
	}
	return p.Selection
}

// Select makes id the only selected layer. If it already is, nothing changes;
// otherwise the change is an undo step of its own.
func (m *Manager) Select(id string) {
	m.mutate(func(g *scene.Graph) {
		if !g.Tx().Layers().Has(id) {
			return
		}
		if sel := g.Tx().Self().Selection; len(sel) == 1 && sel[0] == id {
			return
		}
		g.Tx().SetSelection([]string{id}, true)
	})
}

// Toggle adds id to the selection or removes it.
func (m *Manager) Toggle(id string) {
	m.mutate(func(g *scene.Graph) {
		if !g.Tx().Layers().Has(id) {
			return
		}
		sel := g.Tx().Self().Selection
		if i := slices.Index(sel, id); i >= 0 {
			sel = slices.Delete(sel, i, i+1)
		} else {
			sel = append(sel, id)
		}
		g.Tx().SetSelection(sel, true)
	})
}

// Set replaces the selection with ids, in z-order, dropping unknown ids.
func (m *Manager) Set(ids []string) {
	m.mutate(func(g *scene.Graph) {
		want := make(map[string]bool, len(ids))
		for _, id := range ids {
			want[id] = true
		}
		sel := []string{}
		for _, id := range g.AllLayerIDs() {
			if want[id] {
				sel = append(sel, id)
			}
		}
		if slices.Equal(sel, g.Tx().Self().Selection) {
			return
		}
		g.Tx().SetSelection(sel, true)
	})
}

// SelectAll selects every layer.
func (m *Manager) SelectAll() {
	m.mutate(func(g *scene.Graph) {
		g.Tx().SetSelection(g.AllLayerIDs(), true)
	})
}

// Clear empties the selection.
func (m *Manager) Clear() {
	m.mutate(func(g *scene.Graph) {
		if len(g.Tx().Self().Selection) == 0 {
			return
		}
		g.Tx().SetSelection(nil, true)
	})
}

// DeleteSelection removes every selected layer.
func (m *Manager) DeleteSelection() {
	m.mutate(func(g *scene.Graph) {
		for _, id := range g.Tx().Self().Selection {
			g.DeleteLayer(id)
		}
		g.Tx().SetSelection(nil, false)
	})
}

// Copy stores copies of the selected layers, bottom to top, in the shared
// clipboard. The scene is untouched.
func (m *Manager) Copy() int {
	var n int
	m.mutate(func(g *scene.Graph) {
		n = copySelected(g)
	})
	return n
}

// Cut copies the selection and then deletes it.
func (m *Manager) Cut() int {
	var n int
	m.mutate(func(g *scene.Graph) {
		n = copySelected(g)
		for _, id := range g.Tx().Self().Selection {
			g.DeleteLayer(id)
		}
		g.Tx().SetSelection(nil, false)
	})
	return n
}

func copySelected(g *scene.Graph) int {
	sel := g.Tx().Self()
	var entries []storage.ClipboardEntry
	for _, id := range g.AllLayerIDs() {
		if !sel.IsSelected(id) {
			continue
		}
		if l, ok := g.GetLayer(id); ok {
			entries = append(entries, storage.ClipboardEntry{ID: id, Layer: l})
		}
	}
	if len(entries) == 0 {
		return 0
	}
	g.Tx().SetClipboard(entries)
	return len(entries)
}

// Paste inserts fresh copies of the clipboard, offset from where they were
// copied, and selects them. Pasting the same clipboard twice offsets both
// times from the original positions. Nothing happens when the clipboard is
// empty or the copies would exceed the layer cap.
func (m *Manager) Paste() []string {
	var created []string
	m.mutate(func(g *scene.Graph) {
		clip := g.Tx().Clipboard()
		if len(clip) == 0 {
			return
		}
		if m.opts.MaxLayers > 0 && g.Count()+len(clip) > m.opts.MaxLayers {
			return
		}

		ids := make(map[string]string, len(clip))
		for _, e := range clip {
			ids[e.ID] = m.opts.NewID()
		}

		for _, e := range clip {
			l := e.Layer
			c := l.Base()
			c.X += m.opts.PasteOffset
			c.Y += m.opts.PasteOffset
			if m.opts.Namer != nil {
				c.Name = m.opts.Namer.Next(m.room.ID(), l.Type())
			}
			if f, ok := l.(*document.FrameLayer); ok {
				f.ChildIDs = remapChildren(f.ChildIDs, ids)
			}
			g.InsertLayer(ids[e.ID], l, true)
			created = append(created, ids[e.ID])
		}
		g.Tx().SetSelection(created, true)
	})
	return created
}

// remapChildren keeps only children that were copied along with the frame.
func remapChildren(children []string, ids map[string]string) []string {
	out := []string{}
	for _, child := range children {
		if id, ok := ids[child]; ok {
			out = append(out, id)
		}
	}
	return out
}
