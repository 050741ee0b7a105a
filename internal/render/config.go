package render

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartTypeLine is the only chart type the renderer draws
const ChartTypeLine = "line"

// PointStyle selects the marker drawn at each data point
type PointStyle string

const (
	PointCircle   PointStyle = "circle"
	PointCrossRot PointStyle = "crossRot"
)

// LegendTop places the legend above the plot area
const LegendTop = "top"

// Config is a declarative chart description. It holds no drawing state and
// can be built and inspected without a surface.
type Config struct {
	Type     string    `json:"type"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
	Scales   Scales    `json:"scales"`
	Legend   Legend    `json:"legend"`
}

// Dataset is one line series. A nil entry in Data is a gap.
type Dataset struct {
	Label                string        `json:"label"`
	Data                 []*float64    `json:"data"`
	BorderColor          drawing.Color `json:"border_color"`
	BorderWidth          float64       `json:"border_width"`
	BorderDash           []float64     `json:"border_dash,omitempty"`
	PointStyle           PointStyle    `json:"point_style"`
	PointRadius          float64       `json:"point_radius"`
	PointFill            bool          `json:"point_fill"`
	PointBackgroundColor drawing.Color `json:"point_background_color"`
	Tension              float64       `json:"tension"`
	SpanGaps             bool          `json:"span_gaps"`
}

// Runs returns the index runs the line is stroked through. Without SpanGaps
// every gap ends a run.
func (d Dataset) Runs() [][]int {
	var (
		runs [][]int
		cur  []int
	)
	for i, v := range d.Data {
		if v == nil {
			if !d.SpanGaps && len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// Points returns the number of non-gap entries
func (d Dataset) Points() int {
	n := 0
	for _, v := range d.Data {
		if v != nil {
			n++
		}
	}
	return n
}

// Scales holds the two axes of a line chart
type Scales struct {
	X CategoryAxis `json:"x"`
	Y LinearAxis   `json:"y"`
}

// CategoryAxis is an x axis with one slot per label
type CategoryAxis struct {
	Title string `json:"title,omitempty"`
}

// GridStyle is the stroke of a single gridline
type GridStyle struct {
	Color     drawing.Color `json:"color"`
	LineWidth float64       `json:"line_width"`
}

// LinearAxis is a fixed-domain value axis with evenly stepped ticks
type LinearAxis struct {
	Title    string  `json:"title,omitempty"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Reverse  bool    `json:"reverse"`
	StepSize float64 `json:"step_size"`

	TickFormat func(v float64) string    `json:"-"`
	Grid       func(v float64) GridStyle `json:"-"`
}

// Tick is a resolved axis tick with its label and gridline style
type Tick struct {
	Value float64   `json:"value"`
	Label string    `json:"label"`
	Grid  GridStyle `json:"grid"`
}

var defaultGrid = GridStyle{Color: drawing.Color{R: 0xe5, G: 0xe5, B: 0xe5, A: 0xff}, LineWidth: 1}

// Ticks resolves the axis ticks from Min to Max in StepSize increments
func (a LinearAxis) Ticks() []Tick {
	if a.StepSize <= 0 || a.Max <= a.Min {
		return nil
	}
	n := int(math.Round((a.Max - a.Min) / a.StepSize))
	ticks := make([]Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := a.Min + float64(i)*a.StepSize
		t := Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64), Grid: defaultGrid}
		if a.TickFormat != nil {
			t.Label = a.TickFormat(v)
		}
		if a.Grid != nil {
			t.Grid = a.Grid(v)
		}
		ticks = append(ticks, t)
	}
	return ticks
}

// Legend controls the series legend
type Legend struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

var (
	ErrUnsupportedType  = errors.New("unsupported chart type")
	ErrCurvedLine       = errors.New("only straight line segments are supported")
	ErrNoDatasets       = errors.New("chart has no datasets")
	ErrEmptyCategories  = errors.New("chart has no category labels")
	ErrInvalidValueAxis = errors.New("invalid value axis")
)

// Validate reports whether the renderer can draw cfg
func (c Config) Validate() error {
	if c.Type != ChartTypeLine {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, c.Type)
	}
	if len(c.Labels) == 0 {
		return ErrEmptyCategories
	}
	if len(c.Datasets) == 0 {
		return ErrNoDatasets
	}
	y := c.Scales.Y
	if y.Max <= y.Min || y.StepSize <= 0 {
		return fmt.Errorf("%w: min=%v max=%v step=%v", ErrInvalidValueAxis, y.Min, y.Max, y.StepSize)
	}
	for _, ds := range c.Datasets {
		if len(ds.Data) != len(c.Labels) {
			return fmt.Errorf("dataset %q has %d values for %d labels", ds.Label, len(ds.Data), len(c.Labels))
		}
		if ds.Tension != 0 {
			return fmt.Errorf("dataset %q: %w", ds.Label, ErrCurvedLine)
		}
		switch ds.PointStyle {
		case PointCircle, PointCrossRot:
		default:
			return fmt.Errorf("dataset %q: unknown point style %q", ds.Label, ds.PointStyle)
		}
	}
	if c.Legend.Display && c.Legend.Position != LegendTop {
		return fmt.Errorf("legend position %q not supported", c.Legend.Position)
	}
	return nil
}
