package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/resonara/internal/dataset"
	"github.com/RMahshie/resonara/internal/events"
	"github.com/RMahshie/resonara/internal/metrics"
	"github.com/RMahshie/resonara/internal/report"
	"github.com/RMahshie/resonara/internal/repository"
	"github.com/RMahshie/resonara/internal/resonance"
	"github.com/RMahshie/resonara/internal/simulation"
	"github.com/RMahshie/resonara/internal/spectral"
	"github.com/RMahshie/resonara/internal/storage"
	"github.com/RMahshie/resonara/pkg/models"
)

type ProcessingService interface {
	ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error
}

// Options configures the analysis policy applied by the processing service
type Options struct {
	MinSearchFrequency      float64
	ResonanceThreshold      float64
	DefaultForcingFrequency float64
	ValueColumn             string
}

type processingService struct {
	store      storage.ObjectStore
	repository repository.AnalysisRepository
	modal      simulation.ModalSource
	publisher  events.Publisher
	metrics    *metrics.Metrics
	analyzer   *spectral.Analyzer
	assessor   *resonance.Assessor
	opts       Options
}

func NewProcessingService(
	store storage.ObjectStore,
	repo repository.AnalysisRepository,
	modal simulation.ModalSource,
	publisher events.Publisher,
	m *metrics.Metrics,
	opts Options,
) ProcessingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if opts.DefaultForcingFrequency <= 0 {
		opts.DefaultForcingFrequency = 25.0
	}
	return &processingService{
		store:      store,
		repository: repo,
		modal:      modal,
		publisher:  publisher,
		metrics:    m,
		analyzer:   spectral.NewAnalyzer(opts.MinSearchFrequency),
		assessor:   resonance.NewAssessor(opts.ResonanceThreshold),
		opts:       opts,
	}
}

// ReportKey returns the object key of the text report for an analysis
func ReportKey(analysisID string) string {
	return fmt.Sprintf("reports/%s/fea_summary.txt", analysisID)
}

func (s *processingService) ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error {
	start := time.Now()
	outcome := models.StatusFailed
	defer func() {
		s.metrics.ObserveAnalysis(outcome, time.Since(start))
	}()

	logger := log.With().Str("analysisID", analysisID.String()).Logger()

	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Get analysis details
	analysis, err := s.repository.GetByID(ctx, analysisID)
	if err != nil {
		return err
	}
	if analysis.DataS3Key == nil || *analysis.DataS3Key == "" {
		s.fail(ctx, analysisID, "No torque data attached to analysis")
		return nil // Don't return error, status is updated to failed
	}

	// Step 3: Download the measurement
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 20); err != nil {
		return err
	}
	raw, err := s.store.DownloadFile(ctx, *analysis.DataS3Key)
	if err != nil {
		logger.Error().Err(err).Str("key", *analysis.DataS3Key).Msg("Download failed")
		s.fail(ctx, analysisID, "Failed to download torque data")
		return nil
	}

	// Step 4: Parse the time series
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 30); err != nil {
		return err
	}
	column := analysis.ValueColumn
	if column == "" {
		column = s.opts.ValueColumn
	}
	series, err := dataset.ReadTimeSeries(bytes.NewReader(raw), column)
	if err != nil {
		s.fail(ctx, analysisID, fmt.Sprintf("Invalid torque data: %v", err))
		return nil
	}

	// Step 5: Spectral analysis
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 50); err != nil {
		return err
	}
	spectrum, err := s.analyzer.Analyze(series.Time, series.Value)
	if err != nil {
		s.fail(ctx, analysisID, fmt.Sprintf("Spectral analysis failed: %v", err))
		return nil
	}
	s.metrics.ObserveDominantFrequency(spectrum.Dominant)
	logger.Info().
		Float64("sampleRate", spectrum.SampleRate).
		Int("samples", spectrum.SampleCount).
		Float64("dominantFrequency", spectrum.Dominant.Frequency).
		Float64("dominantAmplitude", spectrum.Dominant.Amplitude).
		Msg("Spectral analysis complete")

	if err := s.publisher.PublishDominantFrequency(ctx, events.DominantFrequencyEvent{
		AnalysisID:  analysis.ID,
		Frequency:   spectrum.Dominant.Frequency,
		Amplitude:   spectrum.Dominant.Amplitude,
		SampleRate:  spectrum.SampleRate,
		SampleCount: spectrum.SampleCount,
		Found:       spectrum.Dominant.Found(),
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		// The result is still stored; downstream consumers can re-read it.
		logger.Warn().Err(err).Msg("Failed to publish dominant frequency")
	}

	// Step 6: Resonance assessment
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 70); err != nil {
		return err
	}
	modal := analysis.ModalFrequencies
	if len(modal) == 0 {
		modal, err = s.modal.ModalFrequencies(ctx)
		if err != nil {
			return fmt.Errorf("failed to load modal frequencies: %w", err)
		}
	}

	forcing := spectrum.Dominant.Frequency
	fallback := !spectrum.Dominant.Found()
	if fallback {
		forcing = s.opts.DefaultForcingFrequency
		logger.Warn().Float64("forcingFrequency", forcing).Msg("No dominant frequency found, using default forcing frequency")
	}

	assessment, err := s.assessor.Assess(forcing, modal)
	if err != nil {
		s.fail(ctx, analysisID, fmt.Sprintf("Resonance assessment failed: %v", err))
		return nil
	}
	s.metrics.ObserveAssessment(assessment.Risk)

	// Step 7: Render and upload the report
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 85); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.RenderResonanceSummary(&buf, report.ResonanceSummary{
		Assessment:          assessment,
		ForcingFromFallback: fallback,
	}); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	var reportKey *string
	key := ReportKey(analysis.ID)
	if err := s.store.UploadFile(ctx, key, buf.Bytes(), "text/plain"); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to upload report")
	} else {
		reportKey = &key
	}

	// Step 8: Store results
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 90); err != nil {
		return err
	}
	results := &models.AnalysisResults{
		ID:          uuid.New().String(),
		AnalysisID:  analysis.ID,
		SampleRate:  spectrum.SampleRate,
		SampleCount: spectrum.SampleCount,
		Dominant:    spectrum.Dominant,
		Spectrum:    spectrum.Spectrum,
		Assessment:  assessment,
		ReportS3Key: reportKey,
		CreatedAt:   time.Now(),
	}
	if err := s.repository.StoreResults(ctx, results); err != nil {
		return err
	}

	// Step 9: Mark complete
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusCompleted, 100); err != nil {
		return err
	}

	outcome = models.StatusCompleted
	logger.Info().Str("risk", string(assessment.Risk)).Float64("closestNatural", assessment.ClosestNatural).Msg("Analysis completed")
	return nil
}

func (s *processingService) fail(ctx context.Context, analysisID uuid.UUID, msg string) {
	log.Warn().Str("analysisID", analysisID.String()).Str("reason", msg).Msg("Analysis failed")
	if err := s.repository.UpdateError(ctx, analysisID, msg); err != nil {
		log.Error().Err(err).Str("analysisID", analysisID.String()).Msg("Failed to record analysis error")
	}
}

// IsInputError reports whether err comes from invalid analysis input
func IsInputError(err error) bool {
	return errors.Is(err, spectral.ErrInvalidInput) || errors.Is(err, resonance.ErrInvalidInput)
}
