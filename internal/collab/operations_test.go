package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geometry"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/storage"
	"github.com/inamate/canvas/internal/typeid"
)

func apply(room *storage.Room, maxLayers int, ops ...Operation) {
	room.Mutate("conn", func(tx *storage.Tx) {
		g := scene.New(tx)
		for _, op := range ops {
			applyOperation(g, op, maxLayers)
		}
	})
}

func layerOp(opType, id string) Operation {
	return Operation{
		ID:      typeid.NewOpID(),
		Type:    opType,
		LayerID: id,
		Layer:   &document.LayerJSON{Layer: &document.EllipseLayer{Common: document.Common{Width: 5, Height: 5, Opacity: 100}}},
	}
}

func TestValidate(t *testing.T) {
	id := typeid.NewLayerID()
	idx := 0
	opacity := 50.0

	tests := []struct {
		name string
		op   Operation
		ok   bool
	}{
		{"insert", layerOp(OpLayerInsert, id), true},
		{"insert bad id", layerOp(OpLayerInsert, "room_01h455vb4pex5vsknk084sn02q"), false},
		{"insert no layer", Operation{Type: OpLayerInsert, LayerID: id}, false},
		{"set", layerOp(OpLayerSet, "anything"), true},
		{"patch", Operation{Type: OpLayerPatch, LayerID: id, Patch: &scene.Patch{Opacity: &opacity}}, true},
		{"patch empty", Operation{Type: OpLayerPatch, LayerID: id}, false},
		{"move", Operation{Type: OpLayerMove, LayerID: id, Index: &idx}, true},
		{"move no index", Operation{Type: OpLayerMove, LayerID: id}, false},
		{"delete", Operation{Type: OpLayerDelete, LayerID: id}, true},
		{"no layer id", Operation{Type: OpLayerDelete}, false},
		{"unknown", Operation{Type: "layer.explode", LayerID: id}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidOperation)
			}
		})
	}
}

func TestApplyOperations(t *testing.T) {
	room := storage.NewRoom("room_ops")
	a, b, f := typeid.NewLayerID(), typeid.NewLayerID(), typeid.NewLayerID()
	frame := Operation{
		Type:    OpLayerInsert,
		LayerID: f,
		Layer:   &document.LayerJSON{Layer: &document.FrameLayer{Common: document.Common{Width: 50, Height: 50, Opacity: 100}}},
	}
	apply(room, 0, layerOp(OpLayerInsert, a), layerOp(OpLayerInsert, b), frame)
	assert.Equal(t, []string{a, b, f}, room.Snapshot().LayerIDs)

	zero := 0
	apply(room, 0,
		Operation{Type: OpLayerMove, LayerID: f, Index: &zero},
		Operation{Type: OpLayerReparent, LayerID: a, FrameID: f},
	)
	doc := room.Snapshot()
	assert.Equal(t, []string{f, a, b}, doc.LayerIDs)
	assert.Equal(t, []string{a}, doc.Layers[f].(*document.FrameLayer).ChildIDs)

	apply(room, 0, Operation{Type: OpLayerReparent, LayerID: a})
	assert.Empty(t, room.Snapshot().Layers[f].(*document.FrameLayer).ChildIDs)

	opacity := 10.0
	apply(room, 0,
		Operation{Type: OpLayerPatch, LayerID: "gone", Patch: &scene.Patch{Opacity: &opacity}},
		Operation{Type: OpLayerPatch, LayerID: b, Patch: &scene.Patch{Opacity: &opacity}},
		Operation{Type: OpLayerDelete, LayerID: a},
	)
	doc = room.Snapshot()
	assert.Equal(t, []string{f, b}, doc.LayerIDs)
	assert.Equal(t, 10.0, doc.Layers[b].Base().Opacity)
	require.NoError(t, doc.Validate())
}

func TestApplyInsertRespectsCap(t *testing.T) {
	room := storage.NewRoom("room_cap")
	apply(room, 2,
		layerOp(OpLayerInsert, typeid.NewLayerID()),
		layerOp(OpLayerInsert, typeid.NewLayerID()),
		layerOp(OpLayerInsert, typeid.NewLayerID()),
	)
	assert.Len(t, room.Snapshot().LayerIDs, 2)
}

func TestApplyClampsHostileLayers(t *testing.T) {
	room := storage.NewRoom("room_hostile")
	a, b, f1, f2, p := typeid.NewLayerID(), typeid.NewLayerID(), typeid.NewLayerID(), typeid.NewLayerID(), typeid.NewLayerID()
	insert := func(id string, l document.Layer) Operation {
		return Operation{Type: OpLayerInsert, LayerID: id, Layer: &document.LayerJSON{Layer: l}}
	}

	apply(room, 0,
		layerOp(OpLayerInsert, a),
		layerOp(OpLayerInsert, b),
		insert(p, &document.PathLayer{
			Common: document.Common{Width: -40, Height: 3, Opacity: 500},
			Points: []document.PathPoint{{X: 0, Y: 0}, {X: 8, Y: 6}},
		}),
		insert(f1, &document.FrameLayer{
			Common:   document.Common{Width: -10, Height: 10, Opacity: -3},
			ChildIDs: []string{a, "missing", a},
		}),
		insert(f2, &document.FrameLayer{
			Common:   document.Common{Width: 10, Height: 10, Opacity: 100},
			ChildIDs: []string{a, b, f2},
		}),
		Operation{Type: OpLayerSet, LayerID: f1, Layer: &document.LayerJSON{Layer: &document.FrameLayer{
			Common:   document.Common{Width: 10, Height: 10, Opacity: 100},
			ChildIDs: []string{f2},
		}}},
	)

	doc := room.Snapshot()
	require.NoError(t, doc.Validate())

	path := doc.Layers[p].(*document.PathLayer)
	assert.NotNil(t, path.Fill)
	assert.Equal(t, 100.0, path.Opacity)
	assert.Equal(t, geometry.XYWH{Width: 8, Height: 6}, path.Bounds())

	assert.Equal(t, []string{f2}, doc.Layers[f1].(*document.FrameLayer).ChildIDs)
	assert.Equal(t, []string{a, b}, doc.Layers[f2].(*document.FrameLayer).ChildIDs)
}

func TestApplySetIgnoresMissingLayer(t *testing.T) {
	room := storage.NewRoom("room_set")
	apply(room, 0, layerOp(OpLayerSet, typeid.NewLayerID()))
	assert.Empty(t, room.Snapshot().LayerIDs)
}
