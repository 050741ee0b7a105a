package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// RenderAudiogramRequest asks for a hearing test to be drawn on a surface
type RenderAudiogramRequest struct {
	Surface string `path:"surface" doc:"Rendering surface name"`
	TestID  string `path:"testId" doc:"Hearing test ID"`
}

// RenderAudiogramResponseBody is the body of the render response
type RenderAudiogramResponseBody struct {
	ChartID     string    `json:"chart_id" doc:"ID of the live chart instance on the surface"`
	Surface     string    `json:"surface" doc:"Rendering surface name"`
	TestID      string    `json:"test_id" doc:"Hearing test ID"`
	LeftPoints  int       `json:"left_points" doc:"Plotted points in the left ear series"`
	RightPoints int       `json:"right_points" doc:"Plotted points in the right ear series"`
	Audiogram   Audiogram `json:"audiogram" doc:"Normalized threshold series"`
}

// RenderAudiogramResponse represents the result of a render
type RenderAudiogramResponse struct {
	Body RenderAudiogramResponseBody
}

// GetFrameRequest represents a request for a surface's current frame
type GetFrameRequest struct {
	Surface string `path:"surface" doc:"Rendering surface name"`
}

// GetFrameResponse carries the PNG of the live chart
type GetFrameResponse struct {
	ContentType string `header:"Content-Type"`
	ChartID     string `header:"X-Chart-Id"`
	Body        []byte
}

// GetSeriesRequest represents a request for normalized series
type GetSeriesRequest struct {
	TestID string `path:"testId" doc:"Hearing test ID"`
}

// GetSeriesResponse returns the normalized series of a hearing test
type GetSeriesResponse struct {
	Body Audiogram
}

// GetChartConfigRequest represents a request for the composed chart configuration
type GetChartConfigRequest struct {
	TestID string `path:"testId" doc:"Hearing test ID"`
}

// SeverityBandBody describes one shaded severity band
type SeverityBandBody struct {
	Name  string  `json:"name" doc:"Severity category"`
	MinDB float64 `json:"min_db" doc:"Lower bound in dB HL (inclusive)"`
	MaxDB float64 `json:"max_db" doc:"Upper bound in dB HL"`
	Color string  `json:"color" doc:"Shading colour"`
}

// ListSeverityBandsResponse returns the severity band table
type ListSeverityBandsResponse struct {
	Body struct {
		Bands []SeverityBandBody `json:"bands" doc:"Severity bands in ascending order"`
	}
}
