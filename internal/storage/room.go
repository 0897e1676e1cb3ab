// Package storage is the in-process shared-storage provider a canvas room
// edits: a replicated layer map and z-order list, per-connection presence,
// a shared clipboard slot and per-connection undo history.
//
// Every write goes through Room.Mutate, which applies the callback
// atomically under the room lock.
package storage

import (
	"slices"
	"sync"

	"github.com/inamate/canvas/internal/document"
)

// Change describes what one mutation (or undo/redo step) touched. Layers maps
// id to the new value, nil meaning deleted.
type Change struct {
	ConnID   string
	Layers   map[string]document.Layer
	LayerIDs []string  // set when the z-order changed
	Presence *Presence // set when ConnID's presence changed
	Left     bool      // ConnID disconnected
	Version  int64     // room version after the change
}

// Room holds one canvas's shared state.
type Room struct {
	mu        sync.Mutex
	id        string
	layers    map[string]document.Layer
	order     []string
	presence  map[string]*Presence
	histories map[string]*History
	clipboard []ClipboardEntry
	version   int64

	lmu       sync.Mutex
	listeners map[int]func(Change)
	nextSub   int
}

func NewRoom(id string) *Room {
	return &Room{
		id:        id,
		layers:    make(map[string]document.Layer),
		order:     []string{},
		presence:  make(map[string]*Presence),
		histories: make(map[string]*History),
		listeners: make(map[int]func(Change)),
	}
}

func (r *Room) ID() string { return r.id }

// Version increases on every committed scene change. Presence-only changes
// leave it alone.
func (r *Room) Version() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// Load replaces the scene with doc and drops all undo history.
func (r *Room) Load(doc *document.Document) {
	doc = doc.Clone()

	r.mu.Lock()
	r.layers = doc.Layers
	r.order = doc.LayerIDs
	for _, h := range r.histories {
		h.undo, h.redo, h.paused, h.pending = nil, nil, false, nil
	}
	r.version++
	change := &Change{
		Layers:   make(map[string]document.Layer, len(r.layers)),
		LayerIDs: slices.Clone(r.order),
		Version:  r.version,
	}
	for id, l := range r.layers {
		change.Layers[id] = document.Clone(l)
	}
	r.mu.Unlock()

	r.notify(change)
}

// Snapshot returns a deep copy of the scene.
func (r *Room) Snapshot() *document.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := &document.Document{Layers: r.layers, LayerIDs: r.order}
	return doc.Clone()
}

// Join registers a connection with empty presence.
func (r *Room) Join(connID string) {
	r.mu.Lock()
	r.presenceLocked(connID)
	r.mu.Unlock()
}

// Leave drops a connection's presence and history.
func (r *Room) Leave(connID string) {
	r.mu.Lock()
	delete(r.presence, connID)
	delete(r.histories, connID)
	version := r.version
	r.mu.Unlock()

	r.notify(&Change{ConnID: connID, Left: true, Version: version})
}

// Presence returns a copy of a connection's presence.
func (r *Room) Presence(connID string) (*Presence, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.presence[connID]
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

// History returns the undo/redo stack of a connection.
func (r *Room) History(connID string) *History {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.historyLocked(connID)
}

// Subscribe registers fn for every change. The returned func unsubscribes.
func (r *Room) Subscribe(fn func(Change)) func() {
	r.lmu.Lock()
	defer r.lmu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.listeners[id] = fn
	return func() {
		r.lmu.Lock()
		defer r.lmu.Unlock()
		delete(r.listeners, id)
	}
}

// Mutate runs fn against the room state as one atomic step for connID. If fn
// panics, its writes are reverted before the panic continues, including the
// clipboard and connID's presence.
func (r *Room) Mutate(connID string, fn func(tx *Tx)) {
	r.mu.Lock()
	tx := &Tx{room: r, connID: connID, entry: newEntry()}
	clipboard := r.clipboard
	presence, joined := r.presence[connID]
	if joined {
		presence = presence.clone()
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		r.revertLocked(connID, tx.entry)
		r.clipboard = clipboard
		if joined {
			r.presence[connID] = presence
		} else {
			delete(r.presence, connID)
		}
		r.mu.Unlock()
	}()

	fn(tx)
	committed = true

	change := tx.changeLocked()
	if !tx.entry.empty() {
		r.historyLocked(connID).record(tx.entry)
	}
	if len(tx.entry.layers) > 0 || tx.entry.order != nil {
		r.version++
	}
	if change != nil {
		change.Version = r.version
	}
	r.mu.Unlock()

	r.notify(change)
}

func (r *Room) presenceLocked(connID string) *Presence {
	p, ok := r.presence[connID]
	if !ok {
		p = &Presence{Selection: []string{}}
		r.presence[connID] = p
	}
	return p
}

func (r *Room) historyLocked(connID string) *History {
	h, ok := r.histories[connID]
	if !ok {
		h = &History{room: r, connID: connID}
		r.histories[connID] = h
	}
	return h
}

// revertLocked restores the priors in e and returns the entry that would
// redo what it just reverted.
func (r *Room) revertLocked(connID string, e *entry) (*entry, *Change) {
	inverse := newEntry()
	change := &Change{ConnID: connID, Layers: make(map[string]document.Layer, len(e.layers))}

	for id, prior := range e.layers {
		inverse.layers[id] = r.layers[id]
		if prior == nil {
			delete(r.layers, id)
			change.Layers[id] = nil
			continue
		}
		r.layers[id] = document.Clone(prior)
		change.Layers[id] = document.Clone(prior)
	}

	if e.order != nil {
		inverse.order = slices.Clone(r.order)
		r.order = reconcileOrder(e.order, r.order, r.layers)
		change.LayerIDs = slices.Clone(r.order)
	}

	if e.selected {
		p := r.presenceLocked(connID)
		inverse.touchSelection(p.Selection)
		p.Selection = slices.DeleteFunc(slices.Clone(e.selection), func(id string) bool {
			_, ok := r.layers[id]
			return !ok
		})
		change.Presence = p.clone()
	}

	if len(e.layers) > 0 || e.order != nil {
		r.version++
	}
	change.Version = r.version
	return inverse, change
}

// reconcileOrder brings back the prior ordering of ids that still exist and
// keeps layers added since (by anyone) on top in their current order.
func reconcileOrder(prior, current []string, layers map[string]document.Layer) []string {
	out := make([]string, 0, len(current))
	seen := make(map[string]bool, len(current))
	for _, list := range [][]string{prior, current} {
		for _, id := range list {
			if seen[id] {
				continue
			}
			if _, ok := layers[id]; !ok {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (r *Room) notify(change *Change) {
	if change == nil {
		return
	}
	r.lmu.Lock()
	fns := make([]func(Change), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.lmu.Unlock()

	for _, fn := range fns {
		fn(*change)
	}
}
