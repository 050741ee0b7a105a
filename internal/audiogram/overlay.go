package audiogram

import (
	"github.com/RMahshie/audiogram/internal/render"
)

// SeverityOverlayID identifies the shading plugin on a chart
const SeverityOverlayID = "severityShading"

// SeverityOverlay shades the severity bands behind the series
type SeverityOverlay struct {
	bands []SeverityBand
}

// NewSeverityOverlay creates an overlay over the clinical band table
func NewSeverityOverlay() *SeverityOverlay {
	return &SeverityOverlay{bands: SeverityBands()}
}

func (o *SeverityOverlay) ID() string { return SeverityOverlayID }

// BeforeDraw recomputes band geometry from the plot's current y mapping and
// fills it
func (o *SeverityOverlay) BeforeDraw(p *render.Plot) {
	for _, br := range BandGeometry(o.bands, p, p.Area) {
		p.FillRect(br.Rect, br.Band.Color)
	}
}
