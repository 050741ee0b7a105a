package processing

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image/png"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/RMahshie/audiogram/internal/audiogram"
	"github.com/RMahshie/audiogram/internal/metrics"
	"github.com/RMahshie/audiogram/internal/render"
	"github.com/RMahshie/audiogram/internal/repository/postgres"
	"github.com/RMahshie/audiogram/pkg/models"
)

// MockThresholdRepository implements repository.ThresholdRepository for testing
type MockThresholdRepository struct {
	mock.Mock
}

func (m *MockThresholdRepository) GetThresholds(ctx context.Context, testID string) (*models.ThresholdRecord, error) {
	args := m.Called(ctx, testID)
	rec, _ := args.Get(0).(*models.ThresholdRecord)
	return rec, args.Error(1)
}

func level(v float64) *float64 { return &v }

// fullRecord has every canonical frequency for both ears
func fullRecord(testID string) *models.ThresholdRecord {
	left := []float64{10, 15, 20, 30, 40, 55, 60}
	right := []float64{5, 10, 15, 25, 35, 50, 70}
	rec := &models.ThresholdRecord{TestID: testID}
	for i, f := range models.CanonicalFrequencies {
		rec.Readings = append(rec.Readings,
			models.Reading{Ear: models.EarLeft, Frequency: f, HearingLevel: level(left[i])},
			models.Reading{Ear: models.EarRight, Frequency: f, HearingLevel: level(right[i])},
		)
	}
	return rec
}

func newTestService(t *testing.T, repo *MockThresholdRepository) (AudiogramService, *render.Board, *metrics.Metrics) {
	t.Helper()
	board := render.NewBoard()
	board.Add("main", 640, 480)
	t.Cleanup(board.Close)

	m := metrics.New(prometheus.NewRegistry())
	return NewAudiogramService(repo, audiogram.NewComposer(board), m), board, m
}

func TestRenderAudiogram_FullData(t *testing.T) {
	repo := new(MockThresholdRepository)
	repo.On("GetThresholds", mock.Anything, "t-full").Return(fullRecord("t-full"), nil)
	svc, board, m := newTestService(t, repo)

	result, err := svc.RenderAudiogram(context.Background(), "main", "t-full")
	require.NoError(t, err)

	assert.Equal(t, "main", result.Surface)
	assert.Equal(t, 7, result.Audiogram.Left.Points())
	assert.Equal(t, 7, result.Audiogram.Right.Points())

	surface, _ := board.Lookup("main")
	live := surface.Live()
	require.NotNil(t, live)
	assert.Equal(t, result.ChartID, live.ID())
	assert.Equal(t, []string{audiogram.SeverityOverlayID}, live.Plugins())

	for _, ds := range live.Config().Datasets {
		assert.Len(t, ds.Runs(), 1, "%s should be one unbroken line", ds.Label)
	}

	frame, chartID, ok := surface.Frame()
	require.True(t, ok)
	assert.Equal(t, result.ChartID, chartID)
	img, err := png.Decode(bytes.NewReader(frame))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RenderOutcome.WithLabelValues("ok")))
	repo.AssertExpectations(t)
}

func TestRenderAudiogram_MissingFrequency(t *testing.T) {
	rec := fullRecord("t-gap")
	for i, rd := range rec.Readings {
		if rd.Ear == models.EarLeft && rd.Frequency == 3000 {
			rec.Readings = append(rec.Readings[:i], rec.Readings[i+1:]...)
			break
		}
	}

	repo := new(MockThresholdRepository)
	repo.On("GetThresholds", mock.Anything, "t-gap").Return(rec, nil)
	svc, board, _ := newTestService(t, repo)

	result, err := svc.RenderAudiogram(context.Background(), "main", "t-gap")
	require.NoError(t, err)

	assert.Equal(t, 6, result.Audiogram.Left.Points())
	assert.Equal(t, 7, result.Audiogram.Right.Points())
	assert.False(t, result.Audiogram.Left.Levels[4].Valid)

	surface, _ := board.Lookup("main")
	datasets := surface.Live().Config().Datasets
	assert.Equal(t, [][]int{{0, 1, 2, 3}, {5, 6}}, datasets[0].Runs())
	assert.Equal(t, [][]int{{0, 1, 2, 3, 4, 5, 6}}, datasets[1].Runs())
}

func TestRenderAudiogram_NoRecord(t *testing.T) {
	repo := new(MockThresholdRepository)
	repo.On("GetThresholds", mock.Anything, "t-none").Return(nil, nil)
	svc, board, m := newTestService(t, repo)
	before := render.LiveCharts()

	_, err := svc.RenderAudiogram(context.Background(), "main", "t-none")

	var noData *audiogram.NoDataError
	require.ErrorAs(t, err, &noData)
	assert.Equal(t, "t-none", noData.TestID)

	surface, _ := board.Lookup("main")
	assert.Nil(t, surface.Live())
	assert.Equal(t, before, render.LiveCharts())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RenderOutcome.WithLabelValues("no_data")))
}

func TestRenderAudiogram_MissingSurface(t *testing.T) {
	repo := new(MockThresholdRepository)
	svc, _, m := newTestService(t, repo)
	before := render.LiveCharts()

	_, err := svc.RenderAudiogram(context.Background(), "sidebar", "t-1")

	var missing *audiogram.SurfaceMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "sidebar", missing.Surface)
	assert.Equal(t, before, render.LiveCharts())
	repo.AssertNotCalled(t, "GetThresholds", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RenderOutcome.WithLabelValues("surface_missing")))
}

func TestRenderAudiogram_FetchFailureKeepsPreviousChart(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := new(MockThresholdRepository)
	repo.On("GetThresholds", mock.Anything, "t-ok").Return(fullRecord("t-ok"), nil)
	repo.On("GetThresholds", mock.Anything, "t-down").Return(nil, storeErr)
	svc, board, _ := newTestService(t, repo)

	first, err := svc.RenderAudiogram(context.Background(), "main", "t-ok")
	require.NoError(t, err)

	_, err = svc.RenderAudiogram(context.Background(), "main", "t-down")
	var fetchErr *audiogram.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, "t-down", fetchErr.TestID)

	surface, _ := board.Lookup("main")
	live := surface.Live()
	require.NotNil(t, live)
	assert.Equal(t, first.ChartID, live.ID())
	assert.False(t, live.Destroyed())
}

func TestRenderAudiogram_RebuildReplacesChart(t *testing.T) {
	gapped := fullRecord("t-2")
	for i := range gapped.Readings {
		rd := &gapped.Readings[i]
		if rd.Ear == models.EarLeft && rd.Frequency == 3000 {
			rd.HearingLevel = nil
		}
	}

	repo := new(MockThresholdRepository)
	repo.On("GetThresholds", mock.Anything, "t-1").Return(fullRecord("t-1"), nil)
	repo.On("GetThresholds", mock.Anything, "t-2").Return(gapped, nil)
	svc, board, _ := newTestService(t, repo)
	surface, _ := board.Lookup("main")
	before := render.LiveCharts()

	_, err := svc.RenderAudiogram(context.Background(), "main", "t-1")
	require.NoError(t, err)
	first := surface.Live()
	assert.Equal(t, [][]int{{0, 1, 2, 3, 4, 5, 6}}, first.Config().Datasets[0].Runs())

	result, err := svc.RenderAudiogram(context.Background(), "main", "t-2")
	require.NoError(t, err)
	second := surface.Live()

	assert.Equal(t, result.ChartID, second.ID())
	assert.Equal(t, [][]int{{0, 1, 2, 3}, {5, 6}}, second.Config().Datasets[0].Runs())
	assert.Equal(t, 6, result.Audiogram.Left.Points())
	assert.NotEqual(t, first.ID(), second.ID())
	assert.True(t, first.Destroyed())
	assert.Empty(t, first.Plugins())
	assert.Equal(t, []string{audiogram.SeverityOverlayID}, second.Plugins())
	assert.Equal(t, int64(1), render.LiveCharts()-before)
}

func TestSeries_WithoutComposer(t *testing.T) {
	storeErr := errors.New("timeout")
	repo := new(MockThresholdRepository)
	repo.On("GetThresholds", mock.Anything, "t-1").Return(fullRecord("t-1"), nil)
	repo.On("GetThresholds", mock.Anything, "t-down").Return(nil, storeErr)
	svc := NewAudiogramService(repo, nil, nil)

	a, err := svc.Series(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, 7, a.Left.Points())

	_, err = svc.Series(context.Background(), "t-down")
	var fetchErr *audiogram.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, fetchErr.Err, storeErr)
	// wrapped exactly once
	var inner *audiogram.FetchError
	assert.False(t, errors.As(fetchErr.Err, &inner))
}

func TestChartConfig(t *testing.T) {
	repo := new(MockThresholdRepository)
	repo.On("GetThresholds", mock.Anything, "t-1").Return(fullRecord("t-1"), nil)
	svc, _, _ := newTestService(t, repo)

	cfg, err := svc.ChartConfig(context.Background(), "t-1")
	require.NoError(t, err)

	assert.Equal(t, render.ChartTypeLine, cfg.Type)
	assert.Equal(t, []string{"250 Hz", "500 Hz", "1000 Hz", "2000 Hz", "3000 Hz", "4000 Hz", "6000 Hz"}, cfg.Labels)
	require.Len(t, cfg.Datasets, 2)
	assert.Equal(t, audiogram.LeftEarLabel, cfg.Datasets[0].Label)
	assert.Equal(t, audiogram.RightEarLabel, cfg.Datasets[1].Label)
	assert.True(t, cfg.Scales.Y.Reverse)
}

// TestContainer holds test infrastructure
type TestContainer struct {
	postgresContainer testcontainers.Container
	dbURL             string
}

// SetupIntegrationTest starts a PostgreSQL container for integration testing
func SetupIntegrationTest(t *testing.T) *TestContainer {
	t.Helper()

	ctx := context.Background()

	pg, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("audiogram_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dbURL, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return &TestContainer{
		postgresContainer: pg,
		dbURL:             dbURL,
	}
}

// CleanupIntegrationTest cleans up test containers
func (tc *TestContainer) CleanupIntegrationTest(t *testing.T) {
	t.Helper()
	if tc.postgresContainer != nil {
		require.NoError(t, tc.postgresContainer.Terminate(context.Background()))
	}
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	schema, err := os.ReadFile("../../migrations/000001_create_hearing_tests.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)
}

// TestRenderPipeline_Integration runs the pipeline against a real database
func TestRenderPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()

	db, err := sql.Open("postgres", tc.dbURL)
	require.NoError(t, err)
	defer db.Close()

	runMigrations(t, db)

	_, err = db.ExecContext(ctx, `
		INSERT INTO hearing_tests (id, patient_ref, l_250_hz, l_500_hz, l_1k_hz, l_2k_hz, l_4k_hz, l_6k_hz,
			r_250_hz, r_500_hz, r_1k_hz, r_2k_hz, r_3k_hz, r_4k_hz, r_6k_hz)
		VALUES ('ht-1', 'p-42', 10, 15, 20, 30, 55, 60, 5, 10, 15, 25, 35, 50, 70)`)
	require.NoError(t, err)

	board := render.NewBoard()
	board.Add("main", 800, 600)
	defer board.Close()

	svc := NewAudiogramService(postgres.NewPostgresThresholdRepository(db), audiogram.NewComposer(board), nil)

	result, err := svc.RenderAudiogram(ctx, "main", "ht-1")
	require.NoError(t, err)
	assert.Equal(t, 6, result.Audiogram.Left.Points())
	assert.Equal(t, 7, result.Audiogram.Right.Points())
	assert.False(t, result.Audiogram.Left.Levels[4].Valid)

	surface, _ := board.Lookup("main")
	frame, _, ok := surface.Frame()
	require.True(t, ok)
	assert.NotEmpty(t, frame)

	_, err = svc.RenderAudiogram(ctx, "main", "ht-missing")
	var noData *audiogram.NoDataError
	assert.ErrorAs(t, err, &noData)
}
