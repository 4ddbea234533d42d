package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/resonara/internal/processing"
	"github.com/RMahshie/resonara/internal/repository"
	"github.com/RMahshie/resonara/internal/storage"
	"github.com/RMahshie/resonara/pkg/models"
)

const (
	minUploadSize = 32
	maxUploadSize = 20 * 1024 * 1024
	uploadExpiry  = 15 * time.Minute
)

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	repo          repository.AnalysisRepository
	store         storage.ObjectStore
	processingSvc processing.ProcessingService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(repo repository.AnalysisRepository, store storage.ObjectStore, processingSvc processing.ProcessingService) *AnalysisHandler {
	return &AnalysisHandler{
		repo:          repo,
		store:         store,
		processingSvc: processingSvc,
	}
}

// CreateAnalysis creates a new analysis and returns an upload URL for the torque CSV
func (h *AnalysisHandler) CreateAnalysis(ctx context.Context, req *models.CreateAnalysisRequest) (*models.CreateAnalysisResponse, error) {
	log.Info().Int64("fileSize", req.Body.FileSize).Str("sessionID", req.Body.SessionID).Msg("Creating new analysis")

	if req.Body.FileSize < minUploadSize {
		return nil, huma.Error400BadRequest("Torque file too small. Please upload a CSV with at least two samples.", nil)
	}
	if req.Body.FileSize > maxUploadSize {
		return nil, huma.Error400BadRequest("Torque file too large. Please upload at most 20 MiB.", nil)
	}
	for _, f := range req.Body.ModalFrequencies {
		if !(f > 0) {
			return nil, huma.Error422UnprocessableEntity("Modal frequencies must be positive",
				fmt.Errorf("invalid modal frequency %g", f))
		}
	}

	analysisID := uuid.New()
	dataKey := fmt.Sprintf("torque/%s.csv", analysisID)

	log.Info().Str("dataKey", dataKey).Str("mimeType", req.Body.MimeType).Msg("Generating upload URL")
	uploadURL, err := h.store.GenerateUploadURL(ctx, dataKey, req.Body.MimeType)
	if err != nil {
		if strings.Contains(err.Error(), "invalid content type") {
			return nil, huma.Error400BadRequest("File format not supported. Please upload a CSV file.", err)
		}
		return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
	}

	analysis := &models.Analysis{
		ID:               analysisID.String(),
		SessionID:        req.Body.SessionID,
		Label:            req.Body.Label,
		Status:           models.StatusPending,
		Progress:         0,
		DataS3Key:        &dataKey,
		ValueColumn:      req.Body.ValueColumn,
		ModalFrequencies: req.Body.ModalFrequencies,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := h.repo.Create(ctx, analysis); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create analysis", err)
	}

	log.Info().Str("analysisID", analysis.ID).Msg("Analysis created, returning upload URL to client")
	return &models.CreateAnalysisResponse{
		Body: models.CreateAnalysisResponseBody{
			ID:        analysis.ID,
			UploadURL: uploadURL,
			ExpiresIn: int(uploadExpiry.Seconds()),
		},
	}, nil
}

// GetAnalysisStatus returns the current status of an analysis
func (h *AnalysisHandler) GetAnalysisStatus(ctx context.Context, req *models.GetAnalysisStatusRequest) (*models.GetAnalysisStatusResponse, error) {
	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	analysis, err := h.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, lookupError(err)
	}

	var resultsID *string
	if analysis.Status == models.StatusCompleted {
		results, err := h.repo.GetResults(ctx, analysisID)
		if err == nil && results != nil {
			resultsID = &results.ID
		}
	}

	return &models.GetAnalysisStatusResponse{
		Body: models.GetAnalysisStatusResponseBody{
			ID:        analysis.ID,
			Status:    analysis.Status,
			Progress:  analysis.Progress,
			Message:   statusMessage(analysis.Status, analysis.Progress),
			Error:     analysis.ErrorMsg,
			ResultsID: resultsID,
		},
	}, nil
}

// GetAnalysisResults returns the spectrum and resonance assessment of a completed analysis
func (h *AnalysisHandler) GetAnalysisResults(ctx context.Context, req *models.GetAnalysisResultsRequest) (*models.GetAnalysisResultsResponse, error) {
	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	analysis, err := h.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, lookupError(err)
	}

	if analysis.Status != models.StatusCompleted {
		return nil, huma.Error409Conflict("Analysis not yet completed",
			fmt.Errorf("analysis status is %s", analysis.Status))
	}

	results, err := h.repo.GetResults(ctx, analysisID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}

	var reportURL string
	if results.ReportS3Key != nil {
		reportURL, err = h.store.GenerateDownloadURL(ctx, *results.ReportS3Key)
		if err != nil {
			log.Warn().Err(err).Str("analysisID", analysis.ID).Msg("Failed to sign report URL")
			reportURL = ""
		}
	}

	return &models.GetAnalysisResultsResponse{
		Body: models.GetAnalysisResultsResponseBody{
			ID:          results.ID,
			AnalysisID:  results.AnalysisID,
			SampleRate:  results.SampleRate,
			SampleCount: results.SampleCount,
			Dominant:    results.Dominant,
			Spectrum:    results.Spectrum,
			Assessment:  results.Assessment,
			ReportURL:   reportURL,
			CreatedAt:   results.CreatedAt,
		},
	}, nil
}

// StartProcessing starts processing an uploaded torque file
func (h *AnalysisHandler) StartProcessing(ctx context.Context, req *models.StartProcessingRequest) (*models.StartProcessingResponse, error) {
	log.Info().Str("analysisID", req.ID).Msg("Processing start request received")
	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	analysis, err := h.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, lookupError(err)
	}
	switch analysis.Status {
	case models.StatusProcessing:
		return nil, huma.Error409Conflict("Analysis is already being processed", nil)
	case models.StatusCompleted:
		return nil, huma.Error409Conflict("Analysis already completed", nil)
	}

	// Run in background, the client polls the status endpoint
	go func() {
		if err := h.processingSvc.ProcessAnalysis(context.Background(), analysisID); err != nil {
			log.Error().Err(err).Str("analysisID", analysisID.String()).Msg("Processing failed")
			if err := h.repo.UpdateError(context.Background(), analysisID, fmt.Sprintf("Processing failed: %v", err)); err != nil {
				log.Error().Err(err).Str("analysisID", analysisID.String()).Msg("Failed to record processing error")
			}
		}
	}()

	resp := &models.StartProcessingResponse{}
	resp.Body.Message = "Processing started successfully"
	return resp, nil
}

// ListSessionAnalyses returns every analysis of a client session
func (h *AnalysisHandler) ListSessionAnalyses(ctx context.Context, req *models.ListSessionAnalysesRequest) (*models.ListSessionAnalysesResponse, error) {
	analyses, err := h.repo.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list analyses", err)
	}

	resp := &models.ListSessionAnalysesResponse{}
	resp.Body.Analyses = make([]models.GetAnalysisStatusResponseBody, 0, len(analyses))
	for _, a := range analyses {
		resp.Body.Analyses = append(resp.Body.Analyses, models.GetAnalysisStatusResponseBody{
			ID:       a.ID,
			Status:   a.Status,
			Progress: a.Progress,
			Message:  statusMessage(a.Status, a.Progress),
			Error:    a.ErrorMsg,
		})
	}
	return resp, nil
}

func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return huma.Error404NotFound("Analysis not found", err)
	}
	return huma.Error500InternalServerError("Failed to load analysis", err)
}

// statusMessage creates a human-readable status message
func statusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Analysis queued for processing..."
	case models.StatusProcessing:
		switch {
		case progress < 30:
			return "Loading torque data..."
		case progress < 70:
			return "Computing torque spectrum..."
		case progress < 90:
			return "Assessing resonance risk..."
		default:
			return "Finalizing results..."
		}
	case models.StatusCompleted:
		return "Analysis complete!"
	case models.StatusFailed:
		return "Analysis failed. Please check the torque data and try again."
	default:
		return "Unknown status"
	}
}
