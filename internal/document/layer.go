package document

import (
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/inamate/canvas/internal/geometry"
)

type LayerType string

const (
	LayerTypeRectangle LayerType = "Rectangle"
	LayerTypeEllipse   LayerType = "Ellipse"
	LayerTypeTriangle  LayerType = "Triangle"
	LayerTypePath      LayerType = "Path"
	LayerTypeText      LayerType = "Text"
	LayerTypeFrame     LayerType = "Frame"
	LayerTypeImage     LayerType = "Image"
)

// LayerTypes lists every layer variant.
var LayerTypes = []LayerType{
	LayerTypeRectangle,
	LayerTypeEllipse,
	LayerTypeTriangle,
	LayerTypePath,
	LayerTypeText,
	LayerTypeFrame,
	LayerTypeImage,
}

// Color is an RGB color with optional alpha in [0,1].
type Color struct {
	R uint8    `json:"r"`
	G uint8    `json:"g"`
	B uint8    `json:"b"`
	A *float64 `json:"a,omitempty"`
}

// Common holds the fields every layer variant carries.
type Common struct {
	Name        string  `json:"name,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Opacity     float64 `json:"opacity"`
	Fill        *Color  `json:"fill"`
	Stroke      *Color  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	BlendMode   string  `json:"blendMode,omitempty"`
}

// Base exposes the shared fields for in-place edits.
func (c *Common) Base() *Common { return c }

// Bounds returns the layer's box in scene space.
func (c *Common) Bounds() geometry.XYWH {
	return geometry.XYWH{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

func (c *Common) sealed() {}

// Layer is one record of the scene graph. The concrete type is always one of
// the *XxxLayer structs below; switch on it exhaustively.
type Layer interface {
	Type() LayerType
	Base() *Common
	Bounds() geometry.XYWH
	sealed()
}

type RectangleLayer struct {
	Common
	CornerRadius float64 `json:"cornerRadius"`
}

type EllipseLayer struct {
	Common
}

type TriangleLayer struct {
	Common
}

// PathPoint is one freehand sample, relative to the layer origin.
type PathPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
}

// PathLayer is committed freehand ink. Width and Height follow the point cloud
// and Fill is always set.
type PathLayer struct {
	Common
	Points []PathPoint `json:"points"`
}

type TextLayer struct {
	Common
	Text          string  `json:"text"`
	FontSize      float64 `json:"fontSize"`
	FontWeight    int     `json:"fontWeight"`
	FontFamily    string  `json:"fontFamily"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
	IsFixedSize   bool    `json:"isFixedSize"`
}

// FrameLayer is a positioned layer that also contains other layers.
type FrameLayer struct {
	Common
	CornerRadius float64  `json:"cornerRadius"`
	ChildIDs     []string `json:"childIds"`
}

type ImageLayer struct {
	Common
	Src         string  `json:"src"`
	AspectRatio float64 `json:"aspectRatio"`
}

func (*RectangleLayer) Type() LayerType { return LayerTypeRectangle }
func (*EllipseLayer) Type() LayerType   { return LayerTypeEllipse }
func (*TriangleLayer) Type() LayerType  { return LayerTypeTriangle }
func (*PathLayer) Type() LayerType      { return LayerTypePath }
func (*TextLayer) Type() LayerType      { return LayerTypeText }
func (*FrameLayer) Type() LayerType     { return LayerTypeFrame }
func (*ImageLayer) Type() LayerType     { return LayerTypeImage }

// New returns an empty layer of the given type.
func New(t LayerType) (Layer, error) {
	switch t {
	case LayerTypeRectangle:
		return &RectangleLayer{}, nil
	case LayerTypeEllipse:
		return &EllipseLayer{}, nil
	case LayerTypeTriangle:
		return &TriangleLayer{}, nil
	case LayerTypePath:
		return &PathLayer{}, nil
	case LayerTypeText:
		return &TextLayer{}, nil
	case LayerTypeFrame:
		return &FrameLayer{}, nil
	case LayerTypeImage:
		return &ImageLayer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayerType, t)
	}
}

// Clone returns a deep copy of l. Stored layers are never handed out
// directly; callers get clones and write them back.
func Clone(l Layer) Layer {
	if l == nil {
		return nil
	}
	dst, err := New(l.Type())
	if err != nil {
		panic(err)
	}
	if err := copier.CopyWithOption(dst, l, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("clone %s layer: %v", l.Type(), err))
	}
	return dst
}

// RGB builds an opaque color.
func RGB(r, g, b uint8) *Color {
	return &Color{R: r, G: g, B: b}
}
