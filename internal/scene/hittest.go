package scene

import (
	"github.com/inamate/canvas/internal/geometry"
)

// HitTest returns the topmost layer whose box contains p, or "".
func (g *Graph) HitTest(p geometry.Point) string {
	ids := g.AllLayerIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		l, ok := g.GetLayer(ids[i])
		if !ok {
			continue
		}
		if l.Bounds().Contains(p) {
			return ids[i]
		}
	}
	return ""
}

// LayersInRect returns, in z-order, every layer that overlaps rect.
func (g *Graph) LayersInRect(rect geometry.XYWH) []string {
	var out []string
	for _, id := range g.AllLayerIDs() {
		l, ok := g.GetLayer(id)
		if !ok {
			continue
		}
		if geometry.IntersectsRect(l.Bounds(), rect) {
			out = append(out, id)
		}
	}
	return out
}

// SelectionBounds returns the union box of the given layers. ok is false when
// none of them exist.
func (g *Graph) SelectionBounds(ids []string) (geometry.XYWH, bool) {
	var result geometry.XYWH
	first := true
	for _, id := range ids {
		l, ok := g.GetLayer(id)
		if !ok {
			continue
		}
		if first {
			result = l.Bounds()
			first = false
		} else {
			result = result.Union(l.Bounds())
		}
	}
	return result, !first
}
