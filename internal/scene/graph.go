// Package scene is the typed view of a room's layers used by the editor. It
// never owns state: every call reads or writes through a storage transaction.
package scene

import (
	"slices"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geometry"
	"github.com/inamate/canvas/internal/storage"
)

// Graph wraps one mutation's transaction.
type Graph struct {
	tx *storage.Tx
}

func New(tx *storage.Tx) *Graph {
	return &Graph{tx: tx}
}

// Tx returns the underlying transaction.
func (g *Graph) Tx() *storage.Tx { return g.tx }

// GetLayer returns a copy of the layer.
func (g *Graph) GetLayer(id string) (document.Layer, bool) {
	return g.tx.Layers().Get(id)
}

// AllLayerIDs returns ids bottom to top.
func (g *Graph) AllLayerIDs() []string {
	return g.tx.LayerIDs().ToArray()
}

// Count returns the number of live layers.
func (g *Graph) Count() int {
	return g.tx.Layers().Len()
}

// Put replaces an existing layer wholesale. It is a no-op for unknown ids.
func (g *Graph) Put(id string, l document.Layer) bool {
	if !g.tx.Layers().Has(id) {
		return false
	}
	g.tx.Layers().Set(id, l)
	return true
}

// SetLayer applies a patch. Returns false if the layer is gone.
func (g *Graph) SetLayer(id string, p Patch) bool {
	l, ok := g.GetLayer(id)
	if !ok {
		return false
	}
	p.Apply(l)
	g.tx.Layers().Set(id, l)
	return true
}

// InsertLayer adds a layer and puts it on top of (or beneath) everything.
func (g *Graph) InsertLayer(id string, l document.Layer, atTop bool) {
	g.tx.Layers().Set(id, l)
	list := g.tx.LayerIDs()
	if i := list.IndexOf(id); i >= 0 {
		list.Delete(i)
	}
	if atTop {
		list.Push(id)
	} else {
		list.Insert(0, id)
	}
}

// DeleteLayer removes a layer from the map, the z-order, any frame that
// holds it and this connection's selection.
func (g *Graph) DeleteLayer(id string) bool {
	if !g.tx.Layers().Delete(id) {
		return false
	}

	list := g.tx.LayerIDs()
	if i := list.IndexOf(id); i >= 0 {
		list.Delete(i)
	}

	if parent, ok := g.ParentFrame(id); ok {
		g.removeChild(parent, id)
	}

	if g.tx.Self().IsSelected(id) {
		g.tx.UpdateMyPresence(func(p *storage.Presence) {
			p.Selection = slices.DeleteFunc(p.Selection, func(s string) bool { return s == id })
		}, false)
	}
	return true
}

// Reorder moves id to index toIndex of the z-order.
func (g *Graph) Reorder(id string, toIndex int) bool {
	list := g.tx.LayerIDs()
	i := list.IndexOf(id)
	if i < 0 {
		return false
	}
	return list.Move(i, toIndex)
}

// Resize sets a layer's box. Path points are scaled to fit the new box since
// a path's size always follows its points.
func (g *Graph) Resize(id string, bounds geometry.XYWH) bool {
	l, ok := g.GetLayer(id)
	if !ok {
		return false
	}
	return g.ResizeFrom(id, l, bounds, false, false)
}

// ResizeFrom fits id into bounds measuring from start, the layer as it was
// when the gesture began. Path points are rescaled from start's points every
// time, so a box dragged through zero size keeps its stroke; flipX and flipY
// mirror them once the box has been turned inside out.
func (g *Graph) ResizeFrom(id string, start document.Layer, bounds geometry.XYWH, flipX, flipY bool) bool {
	l, ok := g.GetLayer(id)
	if !ok {
		return false
	}
	c := l.Base()
	if path, ok := l.(*document.PathLayer); ok {
		if src, ok := start.(*document.PathLayer); ok {
			path.Points = fitPoints(src.Points, bounds, flipX, flipY)
		}
		box := pathPointsBox(path.Points)
		bounds.Width, bounds.Height = box.Width, box.Height
	}
	c.X, c.Y = bounds.X, bounds.Y
	c.Width, c.Height = max(bounds.Width, 0), max(bounds.Height, 0)
	g.tx.Layers().Set(id, l)
	return true
}

// fitPoints scales points from their own bounding box into a box of
// bounds' size, with the result's top-left at the origin.
func fitPoints(points []document.PathPoint, bounds geometry.XYWH, flipX, flipY bool) []document.PathPoint {
	src := pathPointsBox(points)
	out := make([]document.PathPoint, len(points))
	for i, p := range points {
		x, y := p.X-src.X, p.Y-src.Y
		if src.Width > 0 {
			x *= bounds.Width / src.Width
		}
		if src.Height > 0 {
			y *= bounds.Height / src.Height
		}
		if flipX {
			x = bounds.Width - x
		}
		if flipY {
			y = bounds.Height - y
		}
		out[i] = document.PathPoint{X: x, Y: y, Pressure: p.Pressure}
	}
	return out
}

// Translate moves a layer by d.
func (g *Graph) Translate(id string, d geometry.Point) bool {
	l, ok := g.GetLayer(id)
	if !ok {
		return false
	}
	c := l.Base()
	c.X += d.X
	c.Y += d.Y
	g.tx.Layers().Set(id, l)
	return true
}

// ParentFrame returns the frame holding id, if any.
func (g *Graph) ParentFrame(id string) (string, bool) {
	for _, fid := range g.AllLayerIDs() {
		l, ok := g.GetLayer(fid)
		if !ok {
			continue
		}
		if f, ok := l.(*document.FrameLayer); ok && slices.Contains(f.ChildIDs, id) {
			return fid, true
		}
	}
	return "", false
}

// Descendants returns every layer nested under frameID, depth first.
func (g *Graph) Descendants(frameID string) []string {
	var out []string
	seen := map[string]bool{frameID: true}
	var walk func(id string)
	walk = func(id string) {
		l, ok := g.GetLayer(id)
		if !ok {
			return
		}
		f, ok := l.(*document.FrameLayer)
		if !ok {
			return
		}
		for _, child := range f.ChildIDs {
			if seen[child] {
				continue
			}
			seen[child] = true
			out = append(out, child)
			walk(child)
		}
	}
	walk(frameID)
	return out
}

// AddToFrame makes childID a child of frameID, detaching it from any other
// frame first.
func (g *Graph) AddToFrame(frameID, childID string) bool {
	if frameID == childID || !g.tx.Layers().Has(childID) {
		return false
	}
	l, ok := g.GetLayer(frameID)
	if !ok {
		return false
	}
	frame, ok := l.(*document.FrameLayer)
	if !ok || slices.Contains(g.Descendants(childID), frameID) {
		return false
	}
	if parent, ok := g.ParentFrame(childID); ok {
		if parent == frameID {
			return true
		}
		g.removeChild(parent, childID)
		if l, ok = g.GetLayer(frameID); !ok {
			return false
		}
		frame = l.(*document.FrameLayer)
	}
	frame.ChildIDs = append(frame.ChildIDs, childID)
	g.tx.Layers().Set(frameID, frame)
	return true
}

// RemoveFromFrame detaches id from its parent frame, leaving it top level.
func (g *Graph) RemoveFromFrame(id string) bool {
	parent, ok := g.ParentFrame(id)
	if !ok {
		return false
	}
	g.removeChild(parent, id)
	return true
}

func (g *Graph) removeChild(frameID, childID string) {
	l, ok := g.GetLayer(frameID)
	if !ok {
		return
	}
	f, ok := l.(*document.FrameLayer)
	if !ok {
		return
	}
	f.ChildIDs = slices.DeleteFunc(f.ChildIDs, func(s string) bool { return s == childID })
	g.tx.Layers().Set(frameID, f)
}

func pathPointsBox(points []document.PathPoint) geometry.XYWH {
	pts := make([]geometry.Point, len(points))
	for i, p := range points {
		pts[i] = geometry.Point{X: p.X, Y: p.Y}
	}
	return geometry.BoundingBoxOfPoints(pts)
}
