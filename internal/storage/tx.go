package storage

import (
	"slices"

	"github.com/inamate/canvas/internal/document"
)

// Tx is the handle a mutation callback receives. It is only valid inside the
// callback; do not call History or other Room methods from there.
type Tx struct {
	room   *Room
	connID string
	entry  *entry

	presenceTouched bool
}

// ConnID returns the connection this mutation runs for.
func (tx *Tx) ConnID() string { return tx.connID }

// Layers is the shared layer map.
func (tx *Tx) Layers() LiveMap { return LiveMap{tx: tx} }

// LayerIDs is the shared z-order list.
func (tx *Tx) LayerIDs() LiveList { return LiveList{tx: tx} }

// Self returns a copy of this connection's presence.
func (tx *Tx) Self() *Presence {
	return tx.room.presenceLocked(tx.connID).clone()
}

// Others returns copies of every other connection's presence.
func (tx *Tx) Others() []Other {
	out := make([]Other, 0, len(tx.room.presence))
	for id, p := range tx.room.presence {
		if id == tx.connID {
			continue
		}
		out = append(out, Other{ConnID: id, Presence: p.clone()})
	}
	slices.SortFunc(out, func(a, b Other) int {
		switch {
		case a.ConnID < b.ConnID:
			return -1
		case a.ConnID > b.ConnID:
			return 1
		}
		return 0
	})
	return out
}

// UpdateMyPresence edits this connection's presence. With addToHistory the
// previous selection becomes part of this mutation's undo step.
func (tx *Tx) UpdateMyPresence(fn func(p *Presence), addToHistory bool) {
	p := tx.room.presenceLocked(tx.connID)
	if addToHistory {
		tx.entry.touchSelection(p.Selection)
	}
	fn(p)
	if p.Selection == nil {
		p.Selection = []string{}
	}
	tx.presenceTouched = true
}

// SetSelection replaces this connection's selection.
func (tx *Tx) SetSelection(ids []string, addToHistory bool) {
	tx.UpdateMyPresence(func(p *Presence) {
		p.Selection = slices.Clone(ids)
	}, addToHistory)
}

// ClipboardEntry is one copied layer together with the id it had when copied.
type ClipboardEntry struct {
	ID    string
	Layer document.Layer
}

// Clipboard returns copies of the entries in the shared clipboard slot.
func (tx *Tx) Clipboard() []ClipboardEntry {
	return cloneEntries(tx.room.clipboard)
}

// SetClipboard stores immutable copies of entries in the clipboard slot.
func (tx *Tx) SetClipboard(entries []ClipboardEntry) {
	tx.room.clipboard = cloneEntries(entries)
}

func cloneEntries(entries []ClipboardEntry) []ClipboardEntry {
	out := make([]ClipboardEntry, len(entries))
	for i, e := range entries {
		out[i] = ClipboardEntry{ID: e.ID, Layer: document.Clone(e.Layer)}
	}
	return out
}

func (tx *Tx) changeLocked() *Change {
	e := tx.entry
	if len(e.layers) == 0 && e.order == nil && !tx.presenceTouched {
		return nil
	}
	r := tx.room
	change := &Change{ConnID: tx.connID}
	if len(e.layers) > 0 {
		change.Layers = make(map[string]document.Layer, len(e.layers))
		for id := range e.layers {
			change.Layers[id] = document.Clone(r.layers[id])
		}
	}
	if e.order != nil {
		change.LayerIDs = slices.Clone(r.order)
	}
	if tx.presenceTouched {
		change.Presence = r.presenceLocked(tx.connID).clone()
	}
	return change
}
