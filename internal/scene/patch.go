package scene

import (
	"github.com/inamate/canvas/internal/document"
)

// Patch is a partial layer edit. Nil fields are left alone; fields that do not
// apply to the layer's type are ignored.
type Patch struct {
	Name        *string         `json:"name,omitempty"`
	X           *float64        `json:"x,omitempty"`
	Y           *float64        `json:"y,omitempty"`
	Width       *float64        `json:"width,omitempty"`
	Height      *float64        `json:"height,omitempty"`
	Opacity     *float64        `json:"opacity,omitempty"`
	Fill        *document.Color `json:"fill,omitempty"`
	ClearFill   bool            `json:"clearFill,omitempty"`
	Stroke      *document.Color `json:"stroke,omitempty"`
	ClearStroke bool            `json:"clearStroke,omitempty"`
	StrokeWidth *float64        `json:"strokeWidth,omitempty"`
	BlendMode   *string         `json:"blendMode,omitempty"`

	CornerRadius *float64 `json:"cornerRadius,omitempty"`

	Text          *string  `json:"text,omitempty"`
	FontSize      *float64 `json:"fontSize,omitempty"`
	FontWeight    *int     `json:"fontWeight,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	LineHeight    *float64 `json:"lineHeight,omitempty"`
	LetterSpacing *float64 `json:"letterSpacing,omitempty"`
	IsFixedSize   *bool    `json:"isFixedSize,omitempty"`
}

// Apply edits l in place.
func (p Patch) Apply(l document.Layer) {
	c := l.Base()
	_, isPath := l.(*document.PathLayer)

	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.X != nil {
		c.X = *p.X
	}
	if p.Y != nil {
		c.Y = *p.Y
	}
	if p.Width != nil && !isPath {
		c.Width = max(*p.Width, 0)
	}
	if p.Height != nil && !isPath {
		c.Height = max(*p.Height, 0)
	}
	if p.Opacity != nil {
		c.Opacity = min(max(*p.Opacity, 0), 100)
	}
	if p.Fill != nil {
		fill := *p.Fill
		c.Fill = &fill
	} else if p.ClearFill && !isPath {
		c.Fill = nil
	}
	if p.Stroke != nil {
		stroke := *p.Stroke
		c.Stroke = &stroke
	} else if p.ClearStroke {
		c.Stroke = nil
	}
	if p.StrokeWidth != nil {
		c.StrokeWidth = max(*p.StrokeWidth, 0)
	}
	if p.BlendMode != nil {
		c.BlendMode = *p.BlendMode
	}

	switch v := l.(type) {
	case *document.RectangleLayer:
		if p.CornerRadius != nil {
			v.CornerRadius = max(*p.CornerRadius, 0)
		}
	case *document.FrameLayer:
		if p.CornerRadius != nil {
			v.CornerRadius = max(*p.CornerRadius, 0)
		}
	case *document.TextLayer:
		p.applyText(v)
	case *document.EllipseLayer, *document.TriangleLayer, *document.PathLayer, *document.ImageLayer:
	}
}

func (p Patch) applyText(t *document.TextLayer) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	if p.FontWeight != nil {
		t.FontWeight = *p.FontWeight
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.LineHeight != nil {
		t.LineHeight = *p.LineHeight
	}
	if p.LetterSpacing != nil {
		t.LetterSpacing = *p.LetterSpacing
	}
	if p.IsFixedSize != nil {
		t.IsFixedSize = *p.IsFixedSize
	}
}

// Normalize clamps a whole layer into the ranges Apply enforces: sizes and
// stroke width are non-negative, opacity lies in [0,100], and a path always
// has a fill and a box that follows its points.
func Normalize(l document.Layer) {
	c := l.Base()
	c.Width, c.Height = max(c.Width, 0), max(c.Height, 0)
	c.Opacity = min(max(c.Opacity, 0), 100)
	c.StrokeWidth = max(c.StrokeWidth, 0)

	switch v := l.(type) {
	case *document.PathLayer:
		if v.Fill == nil {
			v.Fill = document.RGB(0, 0, 0)
		}
		box := pathPointsBox(v.Points)
		c.Width, c.Height = box.Width, box.Height
	case *document.RectangleLayer:
		v.CornerRadius = max(v.CornerRadius, 0)
	case *document.FrameLayer:
		v.CornerRadius = max(v.CornerRadius, 0)
	case *document.EllipseLayer, *document.TriangleLayer, *document.TextLayer, *document.ImageLayer:
	}
}
