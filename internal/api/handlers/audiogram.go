package handlers

import (
	"context"
	"errors"
	"regexp"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audiogram/internal/audiogram"
	"github.com/RMahshie/audiogram/internal/processing"
	"github.com/RMahshie/audiogram/internal/render"
	"github.com/RMahshie/audiogram/pkg/models"
)

var testIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ChartConfigResponse returns the chart configuration for a hearing test
type ChartConfigResponse struct {
	Body struct {
		Config render.Config `json:"config" doc:"Composed chart configuration"`
		YTicks []render.Tick `json:"y_ticks" doc:"Resolved value axis ticks with gridline styles"`
	}
}

// AudiogramHandler handles audiogram-related HTTP requests
type AudiogramHandler struct {
	svc   processing.AudiogramService
	board *render.Board
}

// NewAudiogramHandler creates a new audiogram handler
func NewAudiogramHandler(svc processing.AudiogramService, board *render.Board) *AudiogramHandler {
	return &AudiogramHandler{
		svc:   svc,
		board: board,
	}
}

// RenderAudiogram draws a hearing test on a surface
func (h *AudiogramHandler) RenderAudiogram(ctx context.Context, req *models.RenderAudiogramRequest) (*models.RenderAudiogramResponse, error) {
	log.Info().Str("surface", req.Surface).Str("testID", req.TestID).Msg("Render request received")
	if !testIDPattern.MatchString(req.TestID) {
		return nil, huma.Error400BadRequest("Invalid hearing test ID", nil)
	}

	result, err := h.svc.RenderAudiogram(ctx, req.Surface, req.TestID)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &models.RenderAudiogramResponse{
		Body: models.RenderAudiogramResponseBody{
			ChartID:     result.ChartID,
			Surface:     result.Surface,
			TestID:      result.Audiogram.TestID,
			LeftPoints:  result.Audiogram.Left.Points(),
			RightPoints: result.Audiogram.Right.Points(),
			Audiogram:   result.Audiogram,
		},
	}, nil
}

// GetFrame returns the last PNG drawn on a surface
func (h *AudiogramHandler) GetFrame(ctx context.Context, req *models.GetFrameRequest) (*models.GetFrameResponse, error) {
	surface, ok := h.board.Lookup(req.Surface)
	if !ok {
		return nil, toHTTPError(&audiogram.SurfaceMissingError{Surface: req.Surface})
	}

	frame, chartID, ok := surface.Frame()
	if !ok {
		return nil, huma.Error404NotFound("Nothing has been drawn on this surface yet", nil)
	}

	return &models.GetFrameResponse{
		ContentType: "image/png",
		ChartID:     chartID,
		Body:        frame,
	}, nil
}

// GetSeries returns the normalized series of a hearing test
func (h *AudiogramHandler) GetSeries(ctx context.Context, req *models.GetSeriesRequest) (*models.GetSeriesResponse, error) {
	if !testIDPattern.MatchString(req.TestID) {
		return nil, huma.Error400BadRequest("Invalid hearing test ID", nil)
	}

	a, err := h.svc.Series(ctx, req.TestID)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &models.GetSeriesResponse{Body: a}, nil
}

// GetChartConfig returns the chart configuration a render would use
func (h *AudiogramHandler) GetChartConfig(ctx context.Context, req *models.GetChartConfigRequest) (*ChartConfigResponse, error) {
	if !testIDPattern.MatchString(req.TestID) {
		return nil, huma.Error400BadRequest("Invalid hearing test ID", nil)
	}

	cfg, err := h.svc.ChartConfig(ctx, req.TestID)
	if err != nil {
		return nil, toHTTPError(err)
	}

	resp := &ChartConfigResponse{}
	resp.Body.Config = cfg
	resp.Body.YTicks = cfg.Scales.Y.Ticks()
	return resp, nil
}

// ListSeverityBands returns the severity band table
func (h *AudiogramHandler) ListSeverityBands(ctx context.Context, _ *struct{}) (*models.ListSeverityBandsResponse, error) {
	resp := &models.ListSeverityBandsResponse{}
	for _, b := range audiogram.SeverityBands() {
		resp.Body.Bands = append(resp.Body.Bands, models.SeverityBandBody{
			Name:  b.Name,
			MinDB: b.MinDB,
			MaxDB: b.MaxDB,
			Color: b.CSS(),
		})
	}
	return resp, nil
}

// toHTTPError maps pipeline errors onto API errors
func toHTTPError(err error) error {
	var (
		missing  *audiogram.SurfaceMissingError
		noData   *audiogram.NoDataError
		fetchErr *audiogram.FetchError
	)
	switch {
	case errors.As(err, &missing):
		return huma.Error404NotFound("Rendering surface not found", err)
	case errors.As(err, &noData):
		return huma.Error404NotFound("No threshold data for hearing test", err)
	case errors.As(err, &fetchErr):
		return huma.Error502BadGateway("Failed to fetch hearing test thresholds", err)
	default:
		return huma.Error500InternalServerError("Failed to render audiogram", err)
	}
}
