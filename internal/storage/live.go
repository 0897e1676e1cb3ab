package storage

import (
	"slices"

	"github.com/inamate/canvas/internal/document"
)

// LiveMap is the shared layer map seen through a transaction. Reads return
// copies; writes are recorded for undo.
type LiveMap struct {
	tx *Tx
}

func (m LiveMap) Get(id string) (document.Layer, bool) {
	l, ok := m.tx.room.layers[id]
	if !ok {
		return nil, false
	}
	return document.Clone(l), true
}

func (m LiveMap) Has(id string) bool {
	_, ok := m.tx.room.layers[id]
	return ok
}

func (m LiveMap) Len() int {
	return len(m.tx.room.layers)
}

// Keys returns the layer ids in sorted order.
func (m LiveMap) Keys() []string {
	keys := make([]string, 0, len(m.tx.room.layers))
	for id := range m.tx.room.layers {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}

func (m LiveMap) Set(id string, l document.Layer) {
	r := m.tx.room
	m.tx.entry.touchLayer(id, r.layers[id])
	r.layers[id] = document.Clone(l)
}

// Delete removes id and reports whether it existed.
func (m LiveMap) Delete(id string) bool {
	r := m.tx.room
	prior, ok := r.layers[id]
	if !ok {
		return false
	}
	m.tx.entry.touchLayer(id, prior)
	delete(r.layers, id)
	return true
}

// ToImmutable returns a detached copy of the whole map.
func (m LiveMap) ToImmutable() map[string]document.Layer {
	out := make(map[string]document.Layer, len(m.tx.room.layers))
	for id, l := range m.tx.room.layers {
		out[id] = document.Clone(l)
	}
	return out
}

// LiveList is the shared z-order seen through a transaction. Out of range
// indexes make writes no-ops.
type LiveList struct {
	tx *Tx
}

func (l LiveList) Len() int { return len(l.tx.room.order) }

func (l LiveList) Get(i int) (string, bool) {
	if i < 0 || i >= len(l.tx.room.order) {
		return "", false
	}
	return l.tx.room.order[i], true
}

func (l LiveList) IndexOf(id string) int {
	return slices.Index(l.tx.room.order, id)
}

func (l LiveList) ToArray() []string {
	return slices.Clone(l.tx.room.order)
}

func (l LiveList) Push(id string) {
	l.touch()
	l.tx.room.order = append(l.tx.room.order, id)
}

func (l LiveList) Insert(i int, id string) bool {
	if i < 0 || i > len(l.tx.room.order) {
		return false
	}
	l.touch()
	l.tx.room.order = slices.Insert(l.tx.room.order, i, id)
	return true
}

func (l LiveList) Delete(i int) bool {
	if i < 0 || i >= len(l.tx.room.order) {
		return false
	}
	l.touch()
	l.tx.room.order = slices.Delete(l.tx.room.order, i, i+1)
	return true
}

// Move takes the id at index and reinserts it so that it ends up at to.
func (l LiveList) Move(index, to int) bool {
	order := l.tx.room.order
	if index < 0 || index >= len(order) || to < 0 || to >= len(order) {
		return false
	}
	if index == to {
		return true
	}
	l.touch()
	id := order[index]
	order = slices.Delete(order, index, index+1)
	l.tx.room.order = slices.Insert(order, to, id)
	return true
}

func (l LiveList) touch() {
	l.tx.entry.touchOrder(l.tx.room.order)
}
