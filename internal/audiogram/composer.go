package audiogram

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/RMahshie/audiogram/internal/render"
	"github.com/RMahshie/audiogram/pkg/models"
)

const (
	LeftEarLabel  = "Left Ear (O)"
	RightEarLabel = "Right Ear (X)"

	yAxisTitle = "Hearing Level (dB)"
	xAxisTitle = "Frequency (Hz)"
	yStepDB    = 10.0

	lineWidth   = 2.0
	pointRadius = 10.0
)

var (
	leftEarColor  = drawing.Color{R: 0, G: 0, B: 255, A: 255}
	rightEarColor = drawing.Color{R: 255, G: 0, B: 0, A: 255}
	earDash       = []float64{5, 5}

	zeroGrid  = render.GridStyle{Color: drawing.Color{R: 0, G: 0, B: 0, A: 255}, LineWidth: 2}
	plainGrid = render.GridStyle{Color: drawing.Color{R: 0xe5, G: 0xe5, B: 0xe5, A: 255}, LineWidth: 1}
)

// gridFor bolds the 0 dB reference line
func gridFor(v float64) render.GridStyle {
	if v == 0 {
		return zeroGrid
	}
	return plainGrid
}

func dbLabel(v float64) string {
	return fmt.Sprintf("%v dB", v)
}

// BuildConfig lays out the audiogram chart for a normalized record: left
// then right ear over an inverted -10..120 dB axis.
func BuildConfig(a models.Audiogram) render.Config {
	labels := make([]string, len(a.Frequencies))
	for i, f := range a.Frequencies {
		labels[i] = f.Label()
	}

	return render.Config{
		Type:   render.ChartTypeLine,
		Labels: labels,
		Datasets: []render.Dataset{
			{
				Label:       LeftEarLabel,
				Data:        a.Left.Values(),
				BorderColor: leftEarColor,
				BorderWidth: lineWidth,
				BorderDash:  earDash,
				PointStyle:  render.PointCircle,
				PointRadius: pointRadius,
				PointFill:   false,
				Tension:     0,
				SpanGaps:    false,
			},
			{
				Label:                RightEarLabel,
				Data:                 a.Right.Values(),
				BorderColor:          rightEarColor,
				BorderWidth:          lineWidth,
				BorderDash:           earDash,
				PointStyle:           render.PointCrossRot,
				PointRadius:          pointRadius,
				PointFill:            true,
				PointBackgroundColor: rightEarColor,
				Tension:              0,
				SpanGaps:             false,
			},
		},
		Scales: render.Scales{
			X: render.CategoryAxis{Title: xAxisTitle},
			Y: render.LinearAxis{
				Title:      yAxisTitle,
				Min:        ClinicalMinDB,
				Max:        ClinicalMaxDB,
				Reverse:    true,
				StepSize:   yStepDB,
				TickFormat: dbLabel,
				Grid:       gridFor,
			},
		},
		Legend: render.Legend{Display: true, Position: render.LegendTop},
	}
}

// Composer draws audiograms on the surfaces of a board
type Composer struct {
	board *render.Board
}

// NewComposer creates a composer for board
func NewComposer(board *render.Board) *Composer {
	return &Composer{board: board}
}

// Surface locates a surface by name
func (c *Composer) Surface(id string) (*render.Surface, error) {
	s, ok := c.board.Lookup(id)
	if !ok {
		return nil, &SurfaceMissingError{Surface: id}
	}
	return s, nil
}

// Render replaces the chart on s with one built from a, shaded by the
// severity overlay
func (c *Composer) Render(s *render.Surface, a models.Audiogram) (*render.Chart, error) {
	return s.Replace(BuildConfig(a), NewSeverityOverlay())
}

// Compose locates the surface and renders a on it. A missing surface is
// reported before any chart state is touched.
func (c *Composer) Compose(surfaceID string, a models.Audiogram) (*render.Chart, error) {
	s, err := c.Surface(surfaceID)
	if err != nil {
		return nil, err
	}
	return c.Render(s, a)
}
