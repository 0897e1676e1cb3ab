package storage

import (
	"log/slog"
	"slices"

	"github.com/inamate/canvas/internal/document"
)

const maxHistory = 200

// entry remembers the values a mutation overwrote so it can be reverted.
// Only the first write to each key is recorded.
type entry struct {
	layers    map[string]document.Layer // prior value, nil when the layer did not exist
	order     []string                  // prior z-order, nil when untouched
	selection []string                  // prior selection of the owning connection
	selected  bool
}

func newEntry() *entry {
	return &entry{layers: make(map[string]document.Layer)}
}

func (e *entry) empty() bool {
	return len(e.layers) == 0 && e.order == nil && !e.selected
}

func (e *entry) touchLayer(id string, prior document.Layer) {
	if _, ok := e.layers[id]; ok {
		return
	}
	e.layers[id] = document.Clone(prior)
}

func (e *entry) touchOrder(prior []string) {
	if e.order != nil {
		return
	}
	e.order = append([]string{}, prior...)
}

func (e *entry) touchSelection(prior []string) {
	if e.selected {
		return
	}
	e.selection = append([]string{}, prior...)
	e.selected = true
}

// merge folds a later entry into e, keeping e's older priors.
func (e *entry) merge(later *entry) {
	for id, l := range later.layers {
		if _, ok := e.layers[id]; !ok {
			e.layers[id] = l
		}
	}
	if e.order == nil && later.order != nil {
		e.order = later.order
	}
	if !e.selected && later.selected {
		e.selection = later.selection
		e.selected = true
	}
}

// History is one connection's undo/redo stack. Undo only reverts the keys the
// connection itself wrote, so concurrent edits by others survive.
type History struct {
	room   *Room
	connID string

	undo []*entry
	redo []*entry

	paused  bool
	pending *entry
}

// record stores a finished mutation. Caller holds room.mu.
func (h *History) record(e *entry) {
	if h.paused {
		h.pending.merge(e)
		return
	}
	h.push(e)
}

func (h *History) push(e *entry) {
	h.undo = append(h.undo, e)
	if len(h.undo) > maxHistory {
		h.undo = slices.Delete(h.undo, 0, len(h.undo)-maxHistory)
	}
	h.redo = nil
}

// Undo reverts the most recent entry. It returns false when there is nothing
// to undo.
func (h *History) Undo() bool {
	return h.step(&h.undo, &h.redo)
}

// Redo reapplies the most recently undone entry.
func (h *History) Redo() bool {
	return h.step(&h.redo, &h.undo)
}

func (h *History) step(from, to *[]*entry) bool {
	r := h.room
	r.mu.Lock()
	if len(*from) == 0 {
		r.mu.Unlock()
		return false
	}
	e := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]

	inverse, change := r.revertLocked(h.connID, e)
	*to = append(*to, inverse)
	r.mu.Unlock()

	r.notify(change)
	return true
}

func (h *History) CanUndo() bool {
	h.room.mu.Lock()
	defer h.room.mu.Unlock()
	return len(h.undo) > 0
}

func (h *History) CanRedo() bool {
	h.room.mu.Lock()
	defer h.room.mu.Unlock()
	return len(h.redo) > 0
}

// Pause starts collecting every following mutation into a single undo entry.
// Pausing an already paused history does nothing.
func (h *History) Pause() {
	h.room.mu.Lock()
	defer h.room.mu.Unlock()
	if h.paused {
		return
	}
	h.paused = true
	h.pending = newEntry()
}

// Resume ends a pause and pushes the collected entry, if anything changed.
func (h *History) Resume() {
	h.room.mu.Lock()
	defer h.room.mu.Unlock()
	if !h.paused {
		return
	}
	h.paused = false
	if !h.pending.empty() {
		h.push(h.pending)
	}
	h.pending = nil
}

func (h *History) Paused() bool {
	h.room.mu.Lock()
	defer h.room.mu.Unlock()
	return h.paused
}

// Coalesce pauses the history and returns a guard. Every exit path of the
// gesture must call End or Cancel; both are safe to call more than once.
func (h *History) Coalesce() *Batch {
	h.room.mu.Lock()
	if h.paused {
		h.room.mu.Unlock()
		slog.Warn("history already paused, joining open batch", "conn", h.connID)
		return &Batch{history: h, nested: true}
	}
	h.room.mu.Unlock()

	h.Pause()
	return &Batch{history: h}
}

// Batch is an open coalesced edit.
type Batch struct {
	history *History
	nested  bool
	done    bool
}

// End resumes history, turning everything done during the batch into one
// undo step.
func (b *Batch) End() {
	if b == nil || b.done {
		return
	}
	b.done = true
	if b.nested {
		return
	}
	b.history.Resume()
}

// Cancel reverts everything done during the batch and resumes history
// without recording an undo step.
func (b *Batch) Cancel() {
	if b == nil || b.done {
		return
	}
	b.done = true
	if b.nested {
		return
	}

	h := b.history
	r := h.room
	r.mu.Lock()
	pending := h.pending
	h.paused = false
	h.pending = nil
	var change *Change
	if pending != nil && !pending.empty() {
		_, change = r.revertLocked(h.connID, pending)
	}
	r.mu.Unlock()

	r.notify(change)
}

// Done reports whether End or Cancel was called.
func (b *Batch) Done() bool {
	return b == nil || b.done
}
