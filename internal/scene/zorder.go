package scene

import "slices"

// BringToFront moves ids to the top of the z-order, keeping their relative
// order.
func (g *Graph) BringToFront(ids []string) {
	list := g.tx.LayerIDs()
	for _, id := range g.inOrder(ids) {
		list.Move(list.IndexOf(id), list.Len()-1)
	}
}

// SendToBack moves ids to the bottom of the z-order, keeping their relative
// order.
func (g *Graph) SendToBack(ids []string) {
	list := g.tx.LayerIDs()
	for i, id := range g.inOrder(ids) {
		list.Move(list.IndexOf(id), i)
	}
}

// BringForward moves each id one step up. Ids are handled top down so a
// selected layer only stops when the one above it is selected and stuck.
func (g *Graph) BringForward(ids []string) {
	list := g.tx.LayerIDs()
	ordered := g.inOrder(ids)
	stuck := make(map[string]bool, len(ordered))
	for _, id := range slices.Backward(ordered) {
		i := list.IndexOf(id)
		next, ok := list.Get(i + 1)
		if !ok || stuck[next] {
			stuck[id] = true
			continue
		}
		list.Move(i, i+1)
	}
}

// SendBackward moves each id one step down, bottom up.
func (g *Graph) SendBackward(ids []string) {
	list := g.tx.LayerIDs()
	ordered := g.inOrder(ids)
	stuck := make(map[string]bool, len(ordered))
	for _, id := range ordered {
		i := list.IndexOf(id)
		prev, ok := list.Get(i - 1)
		if !ok || stuck[prev] {
			stuck[id] = true
			continue
		}
		list.Move(i, i-1)
	}
}

// inOrder returns the ids that exist, sorted by current z-order.
func (g *Graph) inOrder(ids []string) []string {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []string
	for _, id := range g.AllLayerIDs() {
		if want[id] {
			out = append(out, id)
		}
	}
	return out
}
