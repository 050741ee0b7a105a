package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/audiogram/internal/api/handlers"
	"github.com/RMahshie/audiogram/internal/processing"
	"github.com/RMahshie/audiogram/internal/render"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, svc processing.AudiogramService, board *render.Board) {
	// Initialize handlers
	audiogramHandler := handlers.NewAudiogramHandler(svc, board)

	// Register surface routes
	huma.Register(api, huma.Operation{
		OperationID: "renderAudiogram",
		Method:      http.MethodPost,
		Path:        "/api/surfaces/{surface}/audiograms/{testId}",
		Summary:     "Render an audiogram",
		Description: "Fetches a hearing test's thresholds and draws them on the surface, replacing its previous chart",
		Tags:        []string{"Surfaces"},
	}, audiogramHandler.RenderAudiogram)

	huma.Register(api, huma.Operation{
		OperationID: "getSurfaceFrame",
		Method:      http.MethodGet,
		Path:        "/api/surfaces/{surface}/frame",
		Summary:     "Get surface frame",
		Description: "Returns the PNG of the chart currently live on the surface",
		Tags:        []string{"Surfaces"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Rendered chart",
				Content: map[string]*huma.MediaType{
					"image/png": {},
				},
			},
		},
	}, audiogramHandler.GetFrame)

	// Register hearing test routes
	huma.Register(api, huma.Operation{
		OperationID: "getAudiogramSeries",
		Method:      http.MethodGet,
		Path:        "/api/hearing-tests/{testId}/series",
		Summary:     "Get normalized series",
		Description: "Returns both ears' thresholds in canonical frequency order with gaps for untested frequencies",
		Tags:        []string{"Hearing Tests"},
	}, audiogramHandler.GetSeries)

	huma.Register(api, huma.Operation{
		OperationID: "getAudiogramChartConfig",
		Method:      http.MethodGet,
		Path:        "/api/hearing-tests/{testId}/chart-config",
		Summary:     "Get chart configuration",
		Description: "Returns the chart configuration a render of the hearing test would use",
		Tags:        []string{"Hearing Tests"},
	}, audiogramHandler.GetChartConfig)

	huma.Register(api, huma.Operation{
		OperationID: "listSeverityBands",
		Method:      http.MethodGet,
		Path:        "/api/severity-bands",
		Summary:     "List severity bands",
		Description: "Returns the hearing-loss severity bands shaded behind every audiogram",
		Tags:        []string{"Reference"},
	}, audiogramHandler.ListSeverityBands)
}
