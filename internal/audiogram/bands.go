package audiogram

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/RMahshie/audiogram/internal/render"
)

// Clinical hearing-level range plotted on an audiogram, in dB HL
const (
	ClinicalMinDB = -10.0
	ClinicalMaxDB = 120.0
)

// SeverityBand is a hearing-loss category shaded behind the thresholds
type SeverityBand struct {
	Name  string
	MinDB float64
	MaxDB float64
	Color drawing.Color
}

// CSS returns the band colour in rgba() notation
func (b SeverityBand) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.1f)", b.Color.R, b.Color.G, b.Color.B, float64(b.Color.A)/255)
}

// shade is the band fill opacity (20%)
const shade = 51

// severityBands is contiguous and ascending over [ClinicalMinDB, ClinicalMaxDB]
var severityBands = [...]SeverityBand{
	{Name: "Normal", MinDB: -10, MaxDB: 25, Color: drawing.Color{R: 0, G: 255, B: 0, A: shade}},
	{Name: "Mild/Moderate", MinDB: 25, MaxDB: 55, Color: drawing.Color{R: 255, G: 255, B: 0, A: shade}},
	{Name: "Moderate/Severe", MinDB: 55, MaxDB: 70, Color: drawing.Color{R: 255, G: 165, B: 0, A: shade}},
	{Name: "Severe", MinDB: 70, MaxDB: 90, Color: drawing.Color{R: 255, G: 69, B: 0, A: shade}},
	{Name: "Profound", MinDB: 90, MaxDB: 120, Color: drawing.Color{R: 255, G: 0, B: 0, A: shade}},
}

// SeverityBands returns a copy of the band table in ascending order
func SeverityBands() []SeverityBand {
	out := make([]SeverityBand, len(severityBands))
	copy(out, severityBands[:])
	return out
}

// BandFor returns the band containing db. Bands are half-open except the
// last, which includes ClinicalMaxDB.
func BandFor(db float64) (SeverityBand, bool) {
	last := len(severityBands) - 1
	for i, b := range severityBands {
		if db >= b.MinDB && (db < b.MaxDB || (i == last && db == b.MaxDB)) {
			return b, true
		}
	}
	return SeverityBand{}, false
}

// BandRect is the pixel area one band fills on a plot
type BandRect struct {
	Band SeverityBand
	Rect render.Rect
}

// BandGeometry converts each band's dB range to a full-width rectangle of
// area using scale. Bounds are clipped to the area; bands that fall
// entirely outside it are dropped. Neighbouring bands share their boundary
// row, so the rectangles neither overlap nor leave gaps.
func BandGeometry(bands []SeverityBand, scale render.Scale, area render.Rect) []BandRect {
	out := make([]BandRect, 0, len(bands))
	for _, b := range bands {
		y0 := scale.PixelForValue(b.MinDB)
		y1 := scale.PixelForValue(b.MaxDB)
		top, bottom := min(y0, y1), max(y0, y1)
		top = max(top, area.Top)
		bottom = min(bottom, area.Bottom)
		if top >= bottom {
			continue
		}
		out = append(out, BandRect{
			Band: b,
			Rect: render.Rect{Left: area.Left, Top: top, Right: area.Right, Bottom: bottom},
		})
	}
	return out
}
