package document

import (
	"github.com/inamate/canvas/internal/typeid"
)

// NewSampleDocument seeds the playground room with one layer of a few kinds.
func NewSampleDocument() *Document {
	frameID := typeid.NewLayerID()
	rectID := typeid.NewLayerID()
	ellipseID := typeid.NewLayerID()
	textID := typeid.NewLayerID()
	inkID := typeid.NewLayerID()

	return &Document{
		Layers: map[string]Layer{
			frameID: &FrameLayer{
				Common: Common{
					Name: "Frame 1", X: 40, Y: 40, Width: 640, Height: 400,
					Opacity: 100, Fill: RGB(255, 255, 255),
				},
				ChildIDs: []string{rectID, ellipseID},
			},
			rectID: &RectangleLayer{
				Common: Common{
					Name: "Rectangle 1", X: 80, Y: 80, Width: 200, Height: 120,
					Opacity: 100, Fill: RGB(217, 217, 217), Stroke: RGB(0, 0, 0), StrokeWidth: 1,
				},
				CornerRadius: 8,
			},
			ellipseID: &EllipseLayer{
				Common: Common{
					Name: "Ellipse 1", X: 340, Y: 120, Width: 160, Height: 160,
					Opacity: 100, Fill: RGB(74, 144, 226),
				},
			},
			textID: &TextLayer{
				Common: Common{
					Name: "Text 1", X: 80, Y: 480, Width: 240, Height: 32,
					Opacity: 100, Fill: RGB(0, 0, 0),
				},
				Text:       "Hello, canvas",
				FontSize:   24,
				FontWeight: 400,
				FontFamily: "Inter",
				LineHeight: 1.2,
			},
			inkID: &PathLayer{
				Common: Common{
					Name: "Path 1", X: 400, Y: 460, Width: 60, Height: 40,
					Opacity: 100, Fill: RGB(30, 30, 30),
				},
				Points: []PathPoint{
					{X: 0, Y: 40, Pressure: 0.5},
					{X: 30, Y: 0, Pressure: 0.6},
					{X: 60, Y: 40, Pressure: 0.5},
				},
			},
		},
		LayerIDs: []string{frameID, rectID, ellipseID, textID, inkID},
	}
}
