package render

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Plugin hooks into a chart's draw. BeforeDraw runs after the axes are laid
// out and before any dataset is painted.
type Plugin interface {
	ID() string
	BeforeDraw(p *Plot)
}

// Rect is a pixel rectangle; Top is the smaller y
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Scale maps an axis value to a pixel position
type Scale interface {
	PixelForValue(v float64) int
}

// Painter fills pixel rectangles
type Painter interface {
	FillRect(r Rect, c drawing.Color)
}

// Plot is the drawing context handed to plugins. Its value mapping belongs
// to the draw in progress and must not be kept past BeforeDraw.
type Plot struct {
	Area    Rect
	yPixel  func(v float64) int
	painter Painter
}

// NewPlot builds a plot context from a plot area, a y value mapping and a painter
func NewPlot(area Rect, yPixel func(v float64) int, painter Painter) *Plot {
	return &Plot{Area: area, yPixel: yPixel, painter: painter}
}

// PixelForValue maps a y-axis value to a pixel row
func (p *Plot) PixelForValue(v float64) int {
	return p.yPixel(v)
}

// FillRect paints r with c
func (p *Plot) FillRect(r Rect, c drawing.Color) {
	if p.painter == nil {
		return
	}
	p.painter.FillRect(r, c)
}
