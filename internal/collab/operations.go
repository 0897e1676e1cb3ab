package collab

import (
	"errors"
	"fmt"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/typeid"
)

var ErrInvalidOperation = errors.New("invalid operation")

// validate checks an operation's shape. Whether its target still exists is
// decided when it is applied.
func (op Operation) validate() error {
	if op.LayerID == "" {
		return fmt.Errorf("%w: %s without layerId", ErrInvalidOperation, op.Type)
	}
	switch op.Type {
	case OpLayerInsert:
		if err := typeid.Validate(op.LayerID, typeid.PrefixLayer); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOperation, err)
		}
		if op.Layer == nil || op.Layer.Layer == nil {
			return fmt.Errorf("%w: insert %s without layer", ErrInvalidOperation, op.LayerID)
		}
	case OpLayerSet:
		if op.Layer == nil || op.Layer.Layer == nil {
			return fmt.Errorf("%w: set %s without layer", ErrInvalidOperation, op.LayerID)
		}
	case OpLayerPatch:
		if op.Patch == nil {
			return fmt.Errorf("%w: patch %s without patch", ErrInvalidOperation, op.LayerID)
		}
	case OpLayerMove:
		if op.Index == nil {
			return fmt.Errorf("%w: move %s without index", ErrInvalidOperation, op.LayerID)
		}
	case OpLayerDelete, OpLayerReparent:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidOperation, op.Type)
	}
	return nil
}

// applyOperation performs op on g. Operations on layers that are gone, and
// inserts past maxLayers, do nothing.
func applyOperation(g *scene.Graph, op Operation, maxLayers int) {
	switch op.Type {
	case OpLayerInsert:
		if g.Tx().Layers().Has(op.LayerID) {
			storeLayer(g, op.LayerID, op.Layer.Layer, false)
			return
		}
		if maxLayers > 0 && g.Count() >= maxLayers {
			return
		}
		storeLayer(g, op.LayerID, op.Layer.Layer, true)
		if op.FrameID != "" {
			g.AddToFrame(op.FrameID, op.LayerID)
		}
	case OpLayerSet:
		if g.Tx().Layers().Has(op.LayerID) {
			storeLayer(g, op.LayerID, op.Layer.Layer, false)
		}
	case OpLayerPatch:
		g.SetLayer(op.LayerID, *op.Patch)
	case OpLayerDelete:
		g.DeleteLayer(op.LayerID)
	case OpLayerMove:
		g.Reorder(op.LayerID, *op.Index)
	case OpLayerReparent:
		if op.FrameID == "" {
			g.RemoveFromFrame(op.LayerID)
			return
		}
		g.AddToFrame(op.FrameID, op.LayerID)
	}
}

// storeLayer writes a client-supplied layer. Its values are clamped and a
// frame's children are attached one by one through AddToFrame, so a frame only
// ever holds layers that exist and have no other parent.
func storeLayer(g *scene.Graph, id string, l document.Layer, insert bool) {
	scene.Normalize(l)
	var children []string
	if f, ok := l.(*document.FrameLayer); ok {
		children = f.ChildIDs
		f.ChildIDs = []string{}
	}
	if insert {
		g.InsertLayer(id, l, true)
	} else {
		g.Put(id, l)
	}
	for _, child := range children {
		g.AddToFrame(id, child)
	}
}
