package canvas

import (
	"slices"
	"strings"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geometry"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/storage"
)

func (e *Editor) mutate(fn func(g *scene.Graph)) {
	e.room.Mutate(e.connID, func(tx *storage.Tx) { fn(scene.New(tx)) })
}

func (e *Editor) setCursor(p *geometry.Point) {
	e.mutate(func(g *scene.Graph) {
		g.Tx().UpdateMyPresence(func(pr *storage.Presence) {
			pr.Cursor = p
		}, false)
	})
}

func (e *Editor) publishDraft() {
	draft := e.Draft()
	color := e.color
	e.mutate(func(g *scene.Graph) {
		g.Tx().UpdateMyPresence(func(p *storage.Presence) {
			p.PencilDraft = draft
			p.PenColor = &color
		}, false)
	})
}

func (e *Editor) discardDraft() {
	e.draft = nil
	e.publishDraft()
}

// insertAt places a layer for a press at origin released at current. A click
// gets the default size with its top-left corner at origin.
func (e *Editor) insertAt(t document.LayerType, origin, current geometry.Point, square bool) (string, bool) {
	var box geometry.XYWH
	if geometry.ManhattanDistance(origin, current) <= dragThreshold {
		box = geometry.XYWH{X: origin.X, Y: origin.Y, Width: e.opts.InsertSize, Height: e.opts.InsertSize}
	} else {
		box = geometry.ConstrainedBox(origin, current, square)
	}
	if t == document.LayerTypeImage && e.image != nil && e.image.AspectRatio > 0 {
		box.Height = box.Width / e.image.AspectRatio
	}
	return e.InsertLayer(t, box)
}

// InsertLayer creates a layer of type t filling box, puts it on top and
// selects it. Nothing happens once the room is at the layer cap.
func (e *Editor) InsertLayer(t document.LayerType, box geometry.XYWH) (string, bool) {
	l, err := e.newLayer(t, box)
	if err != nil {
		e.log.Warn("insert layer", "error", err)
		return "", false
	}

	var id string
	e.mutate(func(g *scene.Graph) {
		if g.Count() >= e.opts.MaxLayers {
			e.log.Debug("layer cap reached", "type", t, "max", e.opts.MaxLayers)
			return
		}
		id = e.opts.NewID()
		l.Base().Name = e.opts.Namer.Next(e.room.ID(), t)
		g.InsertLayer(id, l, true)
		if e.frameTarget != "" {
			g.AddToFrame(e.frameTarget, id)
		}
		g.Tx().SetSelection([]string{id}, true)
	})
	return id, id != ""
}

func (e *Editor) newLayer(t document.LayerType, box geometry.XYWH) (document.Layer, error) {
	l, err := document.New(t)
	if err != nil {
		return nil, err
	}
	fill := e.color
	c := l.Base()
	c.X, c.Y, c.Width, c.Height = box.X, box.Y, box.Width, box.Height
	c.Opacity = 100
	c.Fill = &fill

	switch v := l.(type) {
	case *document.TextLayer:
		v.Text = "Text"
		v.FontSize = 16
		v.FontWeight = 400
		v.FontFamily = "Inter"
		v.LineHeight = 1.2
		v.Fill = document.RGB(0, 0, 0)
	case *document.FrameLayer:
		v.Fill = document.RGB(255, 255, 255)
		v.ChildIDs = []string{}
	case *document.ImageLayer:
		v.Fill = nil
		if e.image != nil {
			v.Src = e.image.Src
			v.AspectRatio = e.image.AspectRatio
		}
	case *document.RectangleLayer, *document.EllipseLayer, *document.TriangleLayer, *document.PathLayer:
	}
	return l, nil
}

// commitDraft turns the stroke into a path layer. Strokes of fewer than two
// points, and strokes drawn at the layer cap, are dropped.
func (e *Editor) commitDraft() {
	draft := e.draft
	e.draft = nil
	if len(draft) < 2 {
		e.publishDraft()
		return
	}

	pts := make([]geometry.Point, len(draft))
	for i, p := range draft {
		pts[i] = geometry.Point{X: p.X, Y: p.Y}
	}
	box := geometry.BoundingBoxOfPoints(pts)

	rebased := make([]document.PathPoint, len(draft))
	for i, p := range draft {
		rebased[i] = document.PathPoint{X: p.X - box.X, Y: p.Y - box.Y, Pressure: p.Pressure}
	}
	fill := e.color
	layer := &document.PathLayer{
		Common: document.Common{
			X: box.X, Y: box.Y, Width: box.Width, Height: box.Height,
			Opacity: 100,
			Fill:    &fill,
		},
		Points: rebased,
	}

	e.mutate(func(g *scene.Graph) {
		g.Tx().UpdateMyPresence(func(p *storage.Presence) {
			p.PencilDraft = nil
		}, false)
		if g.Count() >= e.opts.MaxLayers {
			e.log.Debug("layer cap reached, stroke dropped", "max", e.opts.MaxLayers)
			return
		}
		id := e.opts.NewID()
		layer.Name = e.opts.Namer.Next(e.room.ID(), document.LayerTypePath)
		g.InsertLayer(id, layer, true)
		if e.frameTarget != "" {
			g.AddToFrame(e.frameTarget, id)
		}
	})
}

func (e *Editor) updateSelectionNet(origin, current geometry.Point) {
	net := geometry.BoundingBoxOfPoints([]geometry.Point{origin, current})
	e.mutate(func(g *scene.Graph) {
		ids := g.LayersInRect(net)
		if ids == nil {
			ids = []string{}
		}
		if slices.Equal(ids, g.Tx().Self().Selection) {
			return
		}
		g.Tx().SetSelection(ids, true)
	})
}

// translateSelection moves every selected layer, and everything nested in a
// selected frame, by d. Each layer moves once even when it is reachable
// twice.
func (e *Editor) translateSelection(d geometry.Point) {
	if d.X == 0 && d.Y == 0 {
		return
	}
	e.mutate(func(g *scene.Graph) {
		moved := make(map[string]bool)
		for _, id := range g.Tx().Self().Selection {
			for _, target := range append([]string{id}, g.Descendants(id)...) {
				if moved[target] {
					continue
				}
				moved[target] = true
				g.Translate(target, d)
			}
		}
	})
}

// resizeSelection fits the layers captured when the handle was grabbed into
// box. A single layer takes box as is; several layers scale with it, and
// mirror their positions inside it when the box is flipped.
func (e *Editor) resizeSelection(initial, box geometry.XYWH, flipX, flipY bool) {
	e.mutate(func(g *scene.Graph) {
		if len(e.resizeStart) == 1 {
			for id, start := range e.resizeStart {
				g.ResizeFrom(id, start, box, flipX, flipY)
			}
			return
		}
		sx, sy := 1.0, 1.0
		if initial.Width > 0 {
			sx = box.Width / initial.Width
		}
		if initial.Height > 0 {
			sy = box.Height / initial.Height
		}
		for id, start := range e.resizeStart {
			b := start.Bounds()
			offX, offY := b.X-initial.X, b.Y-initial.Y
			if flipX {
				offX = initial.Right() - b.Right()
			}
			if flipY {
				offY = initial.Bottom() - b.Bottom()
			}
			g.ResizeFrom(id, start, geometry.XYWH{
				X:      box.X + offX*sx,
				Y:      box.Y + offY*sy,
				Width:  b.Width * sx,
				Height: b.Height * sy,
			}, flipX, flipY)
		}
	})
}

// TextBlur stores the edited text. A text layer left empty is deleted.
func (e *Editor) TextBlur(id, text string) {
	e.mutate(func(g *scene.Graph) {
		l, ok := g.GetLayer(id)
		if !ok {
			return
		}
		t, ok := l.(*document.TextLayer)
		if !ok {
			return
		}
		if strings.TrimSpace(text) == "" {
			g.DeleteLayer(id)
			return
		}
		if t.Text == text {
			return
		}
		t.Text = text
		g.Put(id, t)
	})
}

// SetLayerProperties applies p to every listed layer that still exists.
func (e *Editor) SetLayerProperties(ids []string, p scene.Patch) {
	e.mutate(func(g *scene.Graph) {
		for _, id := range ids {
			g.SetLayer(id, p)
		}
	})
}

// SetSelectionProperties applies p to the current selection.
func (e *Editor) SetSelectionProperties(p scene.Patch) {
	e.SetLayerProperties(e.sel.Selected(), p)
}

// AddSelectionToFrame moves the selected layers into frameID.
func (e *Editor) AddSelectionToFrame(frameID string) {
	e.mutate(func(g *scene.Graph) {
		for _, id := range g.Tx().Self().Selection {
			g.AddToFrame(frameID, id)
		}
	})
}

func (e *Editor) BringToFront() {
	e.mutate(func(g *scene.Graph) { g.BringToFront(g.Tx().Self().Selection) })
}

func (e *Editor) SendToBack() {
	e.mutate(func(g *scene.Graph) { g.SendToBack(g.Tx().Self().Selection) })
}

func (e *Editor) BringForward() {
	e.mutate(func(g *scene.Graph) { g.BringForward(g.Tx().Self().Selection) })
}

func (e *Editor) SendBackward() {
	e.mutate(func(g *scene.Graph) { g.SendBackward(g.Tx().Self().Selection) })
}
