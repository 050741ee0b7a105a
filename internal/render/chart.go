package render

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	chart "github.com/wcharczuk/go-chart/v2"
)

// ErrDestroyed is returned when drawing a chart that has been destroyed
var ErrDestroyed = errors.New("chart destroyed")

var liveCharts atomic.Int64

// LiveCharts returns the number of charts created and not yet destroyed
func LiveCharts() int64 {
	return liveCharts.Load()
}

// Chart is a single drawable chart instance. Plugins are registered per
// instance and released when it is destroyed.
type Chart struct {
	id     string
	cfg    Config
	width  int
	height int

	mu        sync.Mutex
	plugins   []Plugin
	frame     []byte
	draws     int
	destroyed bool
}

// NewChart validates cfg and creates an undrawn chart of the given size
func NewChart(cfg Config, width, height int) (*Chart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart config: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid chart size %dx%d", width, height)
	}
	liveCharts.Add(1)
	return &Chart{
		id:     uuid.New().String(),
		cfg:    cfg,
		width:  width,
		height: height,
	}, nil
}

// ID returns the unique instance ID
func (c *Chart) ID() string { return c.id }

// Config returns the configuration the chart was built from
func (c *Chart) Config() Config { return c.cfg }

// Register adds p to the chart. Registering an ID again replaces the
// earlier plugin in place.
func (c *Chart) Register(p Plugin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	for i, existing := range c.plugins {
		if existing.ID() == p.ID() {
			c.plugins[i] = p
			return
		}
	}
	c.plugins = append(c.plugins, p)
}

// Plugins returns the registered plugin IDs in draw order
func (c *Chart) Plugins() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, len(c.plugins))
	for i, p := range c.plugins {
		ids[i] = p.ID()
	}
	return ids
}

// Draw renders the chart to PNG and keeps the result as the current frame.
// Axis mappings are rebuilt on every call.
func (c *Chart) Draw() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}

	font, err := Bootstrap()
	if err != nil {
		return err
	}

	plugins := make([]Plugin, len(c.plugins))
	copy(plugins, c.plugins)

	ch := c.build(font, plugins)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart %s: %w", c.id, err)
	}
	c.frame = buf.Bytes()
	c.draws++
	return nil
}

// Frame returns the PNG of the last draw, or nil before the first draw
func (c *Chart) Frame() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Draws returns how many times the chart has been drawn
func (c *Chart) Draws() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draws
}

// Destroy releases the frame and plugin registrations. It is safe to call
// more than once.
func (c *Chart) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.plugins = nil
	c.frame = nil
	liveCharts.Add(-1)
}

// Destroyed reports whether Destroy has been called
func (c *Chart) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

func (c *Chart) build(font *truetype.Font, plugins []Plugin) chart.Chart {
	yAxis := c.cfg.Scales.Y
	ticks := yAxis.Ticks()

	yTicks := make([]chart.Tick, len(ticks))
	for i, t := range ticks {
		yTicks[i] = chart.Tick{Value: t.Value, Label: t.Label}
	}

	// half a slot of padding on each side keeps edge markers off the frame
	n := len(c.cfg.Labels)
	xTicks := make([]chart.Tick, 0, n+2)
	xTicks = append(xTicks, chart.Tick{Value: -0.5, Label: ""})
	for i, label := range c.cfg.Labels {
		xTicks = append(xTicks, chart.Tick{Value: float64(i), Label: label})
	}
	xTicks = append(xTicks, chart.Tick{Value: float64(n) - 0.5, Label: ""})

	series := []chart.Series{
		pluginLayer{layer: layer{name: "plugins"}, plugins: plugins},
		gridLayer{layer: layer{name: "grid"}, ticks: ticks},
	}
	for _, ds := range c.cfg.Datasets {
		series = append(series, datasetLayer{layer: layer{name: ds.Label}, ds: ds})
	}

	hidden := chart.Style{Hidden: true}
	padTop := 20
	if c.cfg.Legend.Display {
		padTop = 44
	}

	ch := chart.Chart{
		Width:      c.width,
		Height:     c.height,
		Font:       font,
		Background: chart.Style{Padding: chart.Box{Top: padTop, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           c.cfg.Scales.X.Title,
			Ticks:          xTicks,
			Range:          &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
			GridMajorStyle: hidden,
			GridMinorStyle: hidden,
		},
		YAxis: chart.YAxis{
			Name:           yAxis.Title,
			Ticks:          yTicks,
			Range:          &chart.ContinuousRange{Min: yAxis.Min, Max: yAxis.Max, Descending: yAxis.Reverse},
			GridMajorStyle: hidden,
			GridMinorStyle: hidden,
		},
		Series: series,
	}
	if c.cfg.Legend.Display {
		ch.Elements = []chart.Renderable{legendElement(font, c.cfg.Datasets)}
	}
	return ch
}
