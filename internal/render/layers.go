package render

import (
	"math"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// The chart is drawn as a stack of go-chart series so that every layer gets
// the value ranges of the current render: plugins first, then gridlines,
// then the datasets in order.

// layer carries the go-chart Series boilerplate shared by all layers
type layer struct {
	name string
}

func (l layer) GetName() string           { return l.name }
func (l layer) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (l layer) GetStyle() chart.Style     { return chart.Style{} }
func (l layer) Validate() error           { return nil }

// pluginLayer runs BeforeDraw hooks against the live y range
type pluginLayer struct {
	layer
	plugins []Plugin
}

func (p pluginLayer) Render(r chart.Renderer, box chart.Box, _, yr chart.Range, _ chart.Style) {
	plot := NewPlot(rectOf(box), func(v float64) int {
		return box.Bottom - yr.Translate(v)
	}, rendererPainter{r: r})
	for _, pl := range p.plugins {
		pl.BeforeDraw(plot)
	}
}

// gridLayer strokes one horizontal line per tick with the tick's own style
type gridLayer struct {
	layer
	ticks []Tick
}

func (g gridLayer) Render(r chart.Renderer, box chart.Box, _, yr chart.Range, _ chart.Style) {
	r.SetStrokeDashArray(nil)
	for _, t := range g.ticks {
		y := box.Bottom - yr.Translate(t.Value)
		r.SetStrokeColor(t.Grid.Color)
		r.SetStrokeWidth(t.Grid.LineWidth)
		r.MoveTo(box.Left, y)
		r.LineTo(box.Right, y)
		r.Stroke()
	}
}

// datasetLayer strokes a dataset run by run and marks every point
type datasetLayer struct {
	layer
	ds Dataset
}

func (d datasetLayer) Render(r chart.Renderer, box chart.Box, xr, yr chart.Range, _ chart.Style) {
	px := func(i int) int { return box.Left + xr.Translate(float64(i)) }
	py := func(v float64) int { return box.Bottom - yr.Translate(v) }

	for _, run := range d.ds.Runs() {
		if len(run) < 2 {
			continue
		}
		r.SetStrokeColor(d.ds.BorderColor)
		r.SetStrokeWidth(d.ds.BorderWidth)
		r.SetStrokeDashArray(d.ds.BorderDash)
		r.MoveTo(px(run[0]), py(*d.ds.Data[run[0]]))
		for _, i := range run[1:] {
			r.LineTo(px(i), py(*d.ds.Data[i]))
		}
		r.Stroke()
	}

	for i, v := range d.ds.Data {
		if v == nil {
			continue
		}
		drawMarker(r, d.ds, px(i), py(*v))
	}
}

func drawMarker(r chart.Renderer, ds Dataset, x, y int) {
	r.SetStrokeDashArray(nil)
	r.SetStrokeColor(ds.BorderColor)
	r.SetStrokeWidth(ds.BorderWidth)
	switch ds.PointStyle {
	case PointCrossRot:
		d := int(math.Round(ds.PointRadius * math.Sqrt2 / 2))
		r.MoveTo(x-d, y-d)
		r.LineTo(x+d, y+d)
		r.Stroke()
		r.MoveTo(x-d, y+d)
		r.LineTo(x+d, y-d)
		r.Stroke()
	default:
		r.Circle(ds.PointRadius, x, y)
		if ds.PointFill {
			r.SetFillColor(ds.PointBackgroundColor)
			r.FillStroke()
			return
		}
		r.Stroke()
	}
}

type rendererPainter struct {
	r chart.Renderer
}

func (p rendererPainter) FillRect(rect Rect, c drawing.Color) {
	p.r.SetStrokeWidth(0)
	p.r.SetStrokeColor(drawing.Color{})
	p.r.SetFillColor(c)
	p.r.MoveTo(rect.Left, rect.Top)
	p.r.LineTo(rect.Right, rect.Top)
	p.r.LineTo(rect.Right, rect.Bottom)
	p.r.LineTo(rect.Left, rect.Bottom)
	p.r.Close()
	p.r.Fill()
}

func rectOf(b chart.Box) Rect {
	return Rect{Left: b.Left, Top: b.Top, Right: b.Right, Bottom: b.Bottom}
}

const (
	legendFontSize = 10.0
	legendSwatch   = 30
	legendGap      = 16
)

var legendTextColor = drawing.Color{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

// legendElement draws one entry per dataset centred above the plot area
func legendElement(font *truetype.Font, datasets []Dataset) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, _ chart.Style) {
		r.SetFont(font)
		r.SetFontSize(legendFontSize)
		r.SetFontColor(legendTextColor)

		widths := make([]int, len(datasets))
		total := 0
		for i, ds := range datasets {
			widths[i] = legendSwatch + 6 + r.MeasureText(ds.Label).Width()
			total += widths[i]
		}
		total += legendGap * (len(datasets) - 1)

		x := box.Left + (box.Width()-total)/2
		y := box.Top - 18
		for i, ds := range datasets {
			r.SetStrokeColor(ds.BorderColor)
			r.SetStrokeWidth(ds.BorderWidth)
			r.SetStrokeDashArray(ds.BorderDash)
			r.MoveTo(x, y)
			r.LineTo(x+legendSwatch, y)
			r.Stroke()

			marker := ds
			marker.PointRadius = math.Min(ds.PointRadius, 4)
			drawMarker(r, marker, x+legendSwatch/2, y)

			r.SetFontColor(legendTextColor)
			r.Text(ds.Label, x+legendSwatch+6, y+4)
			x += widths[i] + legendGap
		}
	}
}
