// Package export renders a room's scene to a printable PDF page.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geometry"
)

const (
	margin    = 24.0
	pathWidth = 2.0
)

// Default page for an empty scene, A4 portrait in points.
var emptyPage = geometry.XYWH{Width: 595, Height: 842}

var blendModes = map[string]string{
	"normal":      "Normal",
	"multiply":    "Multiply",
	"screen":      "Screen",
	"overlay":     "Overlay",
	"darken":      "Darken",
	"lighten":     "Lighten",
	"color-dodge": "ColorDodge",
	"color-burn":  "ColorBurn",
	"hard-light":  "HardLight",
	"soft-light":  "SoftLight",
	"difference":  "Difference",
	"exclusion":   "Exclusion",
	"hue":         "Hue",
	"saturation":  "Saturation",
	"color":       "Color",
	"luminosity":  "Luminosity",
}

// PageBox returns the scene area a PDF of doc covers: the union of all
// layers, or an A4 page when there are none.
func PageBox(doc *document.Document) geometry.XYWH {
	var box geometry.XYWH
	first := true
	for _, id := range doc.LayerIDs {
		l, ok := doc.Layers[id]
		if !ok {
			continue
		}
		if first {
			box, first = l.Bounds(), false
		} else {
			box = box.Union(l.Bounds())
		}
	}
	if first {
		return emptyPage
	}
	return box
}

// WritePDF draws doc in z-order onto a single page sized to fit it.
// Image layers are drawn as outlined placeholders.
func WritePDF(w io.Writer, doc *document.Document) error {
	box := PageBox(doc)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: box.Width + 2*margin, Ht: box.Height + 2*margin},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	r := renderer{pdf: pdf, dx: margin - box.X, dy: margin - box.Y, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	for _, id := range doc.LayerIDs {
		if l, ok := doc.Layers[id]; ok {
			r.layer(l)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type renderer struct {
	pdf    *gofpdf.Fpdf
	dx, dy float64
	tr     func(string) string
}

func (r *renderer) layer(l document.Layer) {
	c := l.Base()
	mode, ok := blendModes[strings.ToLower(c.BlendMode)]
	if !ok {
		mode = "Normal"
	}
	r.pdf.SetAlpha(c.Opacity/100, mode)
	defer r.pdf.SetAlpha(1, "Normal")

	style := r.paint(c)
	x, y := c.X+r.dx, c.Y+r.dy

	switch v := l.(type) {
	case *document.RectangleLayer, *document.FrameLayer:
		// Corner radii are not drawn.
		if style != "" {
			r.pdf.Rect(x, y, c.Width, c.Height, style)
		}
	case *document.EllipseLayer:
		if style != "" {
			r.pdf.Ellipse(x+c.Width/2, y+c.Height/2, c.Width/2, c.Height/2, 0, style)
		}
	case *document.TriangleLayer:
		if style != "" {
			r.pdf.Polygon([]gofpdf.PointType{
				{X: x + c.Width/2, Y: y},
				{X: x + c.Width, Y: y + c.Height},
				{X: x, Y: y + c.Height},
			}, style)
		}
	case *document.PathLayer:
		r.path(x, y, v)
	case *document.TextLayer:
		r.text(x, y, v)
	case *document.ImageLayer:
		r.pdf.SetDrawColor(160, 160, 160)
		r.pdf.SetLineWidth(1)
		r.pdf.Rect(x, y, c.Width, c.Height, "D")
		r.pdf.Line(x, y, x+c.Width, y+c.Height)
		r.pdf.Line(x+c.Width, y, x, y+c.Height)
	}
}

// paint sets fill and stroke colors and returns the gofpdf style string for
// them, "" when the layer has neither.
func (r *renderer) paint(c *document.Common) string {
	style := ""
	if c.Fill != nil {
		r.pdf.SetFillColor(int(c.Fill.R), int(c.Fill.G), int(c.Fill.B))
		style += "F"
	}
	if c.Stroke != nil && c.StrokeWidth > 0 {
		r.pdf.SetDrawColor(int(c.Stroke.R), int(c.Stroke.G), int(c.Stroke.B))
		r.pdf.SetLineWidth(c.StrokeWidth)
		style += "D"
	}
	return style
}

func (r *renderer) path(x, y float64, p *document.PathLayer) {
	if len(p.Points) < 2 || p.Fill == nil {
		return
	}
	r.pdf.SetDrawColor(int(p.Fill.R), int(p.Fill.G), int(p.Fill.B))
	r.pdf.SetLineWidth(pathWidth)
	r.pdf.SetLineCapStyle("round")
	r.pdf.SetLineJoinStyle("round")
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		r.pdf.Line(x+a.X, y+a.Y, x+b.X, y+b.Y)
	}
}

func (r *renderer) text(x, y float64, t *document.TextLayer) {
	if t.Text == "" {
		return
	}
	style := ""
	if t.FontWeight >= 600 {
		style = "B"
	}
	size := t.FontSize
	if size <= 0 {
		size = 16
	}
	lineHeight := t.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1.2
	}
	r.pdf.SetFont("Helvetica", style, size)
	if t.Fill != nil {
		r.pdf.SetTextColor(int(t.Fill.R), int(t.Fill.G), int(t.Fill.B))
	} else {
		r.pdf.SetTextColor(0, 0, 0)
	}
	r.pdf.SetXY(x, y)
	r.pdf.MultiCell(t.Width, size*lineHeight, r.tr(t.Text), "", "L", false)
}
