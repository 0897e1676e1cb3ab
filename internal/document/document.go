package document

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownLayerType = errors.New("unknown layer type")
	ErrInconsistent     = errors.New("inconsistent document")
)

// Document is a room's persisted scene: the layer map plus the z-order.
// Later ids in LayerIDs paint on top.
type Document struct {
	Layers   map[string]Layer
	LayerIDs []string
}

// NewEmptyDocument creates an empty document for a new room.
func NewEmptyDocument() *Document {
	return &Document{
		Layers:   map[string]Layer{},
		LayerIDs: []string{},
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Layers:   make(map[string]Layer, len(d.Layers)),
		LayerIDs: append([]string{}, d.LayerIDs...),
	}
	for id, l := range d.Layers {
		out.Layers[id] = Clone(l)
	}
	return out
}

// Validate checks the scene invariants and returns every violation found.
func (d *Document) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...)))
	}

	seen := make(map[string]bool, len(d.LayerIDs))
	for _, id := range d.LayerIDs {
		if seen[id] {
			fail("duplicate id %q in z-order", id)
		}
		seen[id] = true
		if _, ok := d.Layers[id]; !ok {
			fail("z-order references missing layer %q", id)
		}
	}

	parents := make(map[string]string)
	for id, l := range d.Layers {
		c := l.Base()
		if c.Width < 0 || c.Height < 0 {
			fail("layer %q has negative size %gx%g", id, c.Width, c.Height)
		}
		if c.Opacity < 0 || c.Opacity > 100 {
			fail("layer %q opacity %g outside [0,100]", id, c.Opacity)
		}

		switch v := l.(type) {
		case *PathLayer:
			if v.Fill == nil {
				fail("path layer %q has no fill", id)
			}
		case *FrameLayer:
			for _, child := range v.ChildIDs {
				if _, ok := d.Layers[child]; !ok {
					fail("frame %q references missing child %q", id, child)
				}
				if prev, ok := parents[child]; ok && prev != id {
					fail("layer %q is a child of both %q and %q", child, prev, id)
				}
				parents[child] = id
			}
		case *RectangleLayer, *EllipseLayer, *TriangleLayer, *TextLayer, *ImageLayer:
		}
	}

	return errors.Join(errs...)
}
