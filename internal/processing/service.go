package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audiogram/internal/audiogram"
	"github.com/RMahshie/audiogram/internal/metrics"
	"github.com/RMahshie/audiogram/internal/render"
	"github.com/RMahshie/audiogram/internal/repository"
	"github.com/RMahshie/audiogram/pkg/models"
)

// RenderResult describes a chart drawn on a surface
type RenderResult struct {
	ChartID   string
	Surface   string
	Audiogram models.Audiogram
}

type AudiogramService interface {
	RenderAudiogram(ctx context.Context, surfaceID, testID string) (*RenderResult, error)
	Series(ctx context.Context, testID string) (models.Audiogram, error)
	ChartConfig(ctx context.Context, testID string) (render.Config, error)
}

type audiogramService struct {
	repository repository.ThresholdRepository
	composer   *audiogram.Composer
	metrics    *metrics.Metrics
}

// NewAudiogramService creates the pipeline service. composer may be nil for
// callers that only read series and chart configs.
func NewAudiogramService(repo repository.ThresholdRepository, composer *audiogram.Composer, m *metrics.Metrics) AudiogramService {
	return &audiogramService{
		repository: repo,
		composer:   composer,
		metrics:    m,
	}
}

// RenderAudiogram fetches a test's thresholds and draws them on a surface.
// The surface stays locked for the whole pipeline, so renders on one surface
// never interleave. A failed fetch leaves the surface's chart untouched.
func (s *audiogramService) RenderAudiogram(ctx context.Context, surfaceID, testID string) (*RenderResult, error) {
	start := time.Now()
	result, err := s.render(ctx, surfaceID, testID)
	s.metrics.ObserveRender(outcome(err), time.Since(start))
	if err != nil {
		log.Warn().Err(err).Str("surface", surfaceID).Str("testID", testID).Msg("Audiogram render failed")
		return nil, err
	}

	log.Info().
		Str("surface", surfaceID).
		Str("testID", testID).
		Str("chartID", result.ChartID).
		Dur("took", time.Since(start)).
		Msg("Audiogram rendered")
	return result, nil
}

func (s *audiogramService) render(ctx context.Context, surfaceID, testID string) (*RenderResult, error) {
	// Step 1: Locate the surface before touching any chart state
	surface, err := s.composer.Surface(surfaceID)
	if err != nil {
		return nil, err
	}

	release := surface.Acquire()
	defer release()

	// Step 2: Fetch and normalize
	a, err := s.Series(ctx, testID)
	if err != nil {
		return nil, err
	}

	// Step 3: Compose, replacing whatever the surface showed before
	chart, err := s.composer.Render(surface, a)
	if err != nil {
		return nil, fmt.Errorf("draw audiogram %s on %s: %w", testID, surfaceID, err)
	}

	return &RenderResult{
		ChartID:   chart.ID(),
		Surface:   surfaceID,
		Audiogram: a,
	}, nil
}

// Series fetches and normalizes the thresholds of a test
func (s *audiogramService) Series(ctx context.Context, testID string) (models.Audiogram, error) {
	rec, err := s.repository.GetThresholds(ctx, testID)
	if err != nil {
		return models.Audiogram{}, &audiogram.FetchError{TestID: testID, Err: err}
	}
	return audiogram.Normalize(testID, rec)
}

// ChartConfig returns the chart configuration a render of testID would use
func (s *audiogramService) ChartConfig(ctx context.Context, testID string) (render.Config, error) {
	a, err := s.Series(ctx, testID)
	if err != nil {
		return render.Config{}, err
	}
	return audiogram.BuildConfig(a), nil
}

func outcome(err error) string {
	var (
		fetchErr  *audiogram.FetchError
		noData    *audiogram.NoDataError
		noSurface *audiogram.SurfaceMissingError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &fetchErr):
		return "fetch_error"
	case errors.As(err, &noData):
		return "no_data"
	case errors.As(err, &noSurface):
		return "surface_missing"
	default:
		return "error"
	}
}
