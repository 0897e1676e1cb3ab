package document

import (
	"encoding/json"
	"fmt"
)

// MarshalLayer encodes l with its "type" discriminant alongside the fields.
func MarshalLayer(l Layer) ([]byte, error) {
	switch v := l.(type) {
	case *RectangleLayer:
		return json.Marshal(struct {
			Type LayerType `json:"type"`
			*RectangleLayer
		}{v.Type(), v})
	case *EllipseLayer:
		return json.Marshal(struct {
			Type LayerType `json:"type"`
			*EllipseLayer
		}{v.Type(), v})
	case *TriangleLayer:
		return json.Marshal(struct {
			Type LayerType `json:"type"`
			*TriangleLayer
		}{v.Type(), v})
	case *PathLayer:
		return json.Marshal(struct {
			Type LayerType `json:"type"`
			*PathLayer
		}{v.Type(), v})
	case *TextLayer:
		return json.Marshal(struct {
			Type LayerType `json:"type"`
			*TextLayer
		}{v.Type(), v})
	case *FrameLayer:
		return json.Marshal(struct {
			Type LayerType `json:"type"`
			*FrameLayer
		}{v.Type(), v})
	case *ImageLayer:
		return json.Marshal(struct {
			Type LayerType `json:"type"`
			*ImageLayer
		}{v.Type(), v})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownLayerType, l)
	}
}

// UnmarshalLayer decodes a layer written by MarshalLayer.
func UnmarshalLayer(data []byte) (Layer, error) {
	var head struct {
		Type LayerType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode layer type: %w", err)
	}

	l, err := New(head.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("decode %s layer: %w", head.Type, err)
	}
	return l, nil
}

// LayerJSON wraps a Layer so it can sit inside other JSON structures.
type LayerJSON struct {
	Layer Layer
}

func (lj LayerJSON) MarshalJSON() ([]byte, error) {
	if lj.Layer == nil {
		return []byte("null"), nil
	}
	return MarshalLayer(lj.Layer)
}

func (lj *LayerJSON) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		lj.Layer = nil
		return nil
	}
	l, err := UnmarshalLayer(data)
	if err != nil {
		return err
	}
	lj.Layer = l
	return nil
}

type documentJSON struct {
	Layers   map[string]LayerJSON `json:"layers"`
	LayerIDs []string             `json:"layerIds"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	out := documentJSON{
		Layers:   make(map[string]LayerJSON, len(d.Layers)),
		LayerIDs: d.LayerIDs,
	}
	if out.LayerIDs == nil {
		out.LayerIDs = []string{}
	}
	for id, l := range d.Layers {
		out.Layers[id] = LayerJSON{Layer: l}
	}
	return json.Marshal(out)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	d.Layers = make(map[string]Layer, len(in.Layers))
	for id, lj := range in.Layers {
		if lj.Layer == nil {
			continue
		}
		d.Layers[id] = lj.Layer
	}
	d.LayerIDs = in.LayerIDs
	if d.LayerIDs == nil {
		d.LayerIDs = []string{}
	}
	return nil
}
