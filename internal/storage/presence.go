package storage

import (
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geometry"
)

// Presence is the ephemeral per-connection state other users see: cursor,
// selection and the stroke being drawn. It is never persisted.
type Presence struct {
	Selection   []string             `json:"selection"`
	Cursor      *geometry.Point      `json:"cursor"`
	PencilDraft []document.PathPoint `json:"pencilDraft"`
	PenColor    *document.Color      `json:"penColor"`
}

func (p *Presence) clone() *Presence {
	out := &Presence{
		Selection: append([]string{}, p.Selection...),
	}
	if p.Cursor != nil {
		c := *p.Cursor
		out.Cursor = &c
	}
	if p.PencilDraft != nil {
		out.PencilDraft = append([]document.PathPoint{}, p.PencilDraft...)
	}
	if p.PenColor != nil {
		c := *p.PenColor
		out.PenColor = &c
	}
	return out
}

// IsSelected reports whether id is part of the selection.
func (p *Presence) IsSelected(id string) bool {
	for _, s := range p.Selection {
		if s == id {
			return true
		}
	}
	return false
}

// Other is a read-only view of another connection's presence.
type Other struct {
	ConnID   string
	Presence *Presence
}
