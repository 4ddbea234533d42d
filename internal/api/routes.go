package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/resonara/internal/api/handlers"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, analysisHandler *handlers.AnalysisHandler, resonanceHandler *handlers.ResonanceHandler) {
	// Register analysis routes
	huma.Register(api, huma.Operation{
		OperationID: "createAnalysis",
		Method:      http.MethodPost,
		Path:        "/api/analyses",
		Summary:     "Create a new analysis",
		Description: "Creates a new analysis record and returns an upload URL for the torque CSV",
		Tags:        []string{"Analysis"},
	}, analysisHandler.CreateAnalysis)

	huma.Register(api, huma.Operation{
		OperationID: "getAnalysisStatus",
		Method:      http.MethodGet,
		Path:        "/api/analyses/{id}/status",
		Summary:     "Get analysis status",
		Description: "Returns the current status and progress of an analysis",
		Tags:        []string{"Analysis"},
	}, analysisHandler.GetAnalysisStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getAnalysisResults",
		Method:      http.MethodGet,
		Path:        "/api/analyses/{id}/results",
		Summary:     "Get analysis results",
		Description: "Returns the torque spectrum, dominant frequency and resonance assessment",
		Tags:        []string{"Analysis"},
	}, analysisHandler.GetAnalysisResults)

	huma.Register(api, huma.Operation{
		OperationID: "startProcessing",
		Method:      http.MethodPost,
		Path:        "/api/analyses/{id}/process",
		Summary:     "Start processing analysis",
		Description: "Starts processing an uploaded torque file",
		Tags:        []string{"Analysis"},
	}, analysisHandler.StartProcessing)

	huma.Register(api, huma.Operation{
		OperationID: "listSessionAnalyses",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{session_id}/analyses",
		Summary:     "List session analyses",
		Description: "Returns the analyses created by a client session, newest first",
		Tags:        []string{"Analysis"},
	}, analysisHandler.ListSessionAnalyses)

	// Synchronous computations
	huma.Register(api, huma.Operation{
		OperationID: "analyzeSpectrum",
		Method:      http.MethodPost,
		Path:        "/api/spectrum",
		Summary:     "Analyze a signal",
		Description: "Computes the one-sided amplitude spectrum and dominant frequency of an inline signal",
		Tags:        []string{"Compute"},
	}, resonanceHandler.AnalyzeSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "assessResonance",
		Method:      http.MethodPost,
		Path:        "/api/resonance",
		Summary:     "Assess resonance risk",
		Description: "Compares a forcing frequency with the natural frequencies of the pulley",
		Tags:        []string{"Compute"},
	}, resonanceHandler.AssessResonance)
}
