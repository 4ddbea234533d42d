package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/resonara/internal/metrics"
	"github.com/RMahshie/resonara/internal/processing"
	"github.com/RMahshie/resonara/internal/resonance"
	"github.com/RMahshie/resonara/internal/simulation"
	"github.com/RMahshie/resonara/internal/spectral"
	"github.com/RMahshie/resonara/pkg/models"
)

// ResonanceHandler serves synchronous spectrum and resonance computations
type ResonanceHandler struct {
	analyzer *spectral.Analyzer
	assessor *resonance.Assessor
	modal    simulation.ModalSource
	metrics  *metrics.Metrics
}

// NewResonanceHandler creates a handler. modal supplies the natural frequencies
// used when a request does not carry its own.
func NewResonanceHandler(analyzer *spectral.Analyzer, assessor *resonance.Assessor, modal simulation.ModalSource, m *metrics.Metrics) *ResonanceHandler {
	return &ResonanceHandler{
		analyzer: analyzer,
		assessor: assessor,
		modal:    modal,
		metrics:  m,
	}
}

// AnalyzeSpectrum computes the amplitude spectrum and dominant frequency of an inline signal
func (h *ResonanceHandler) AnalyzeSpectrum(ctx context.Context, req *models.AnalyzeSpectrumRequest) (*models.AnalyzeSpectrumResponse, error) {
	result, err := h.analyzer.Analyze(req.Body.Time, req.Body.Value)
	if err != nil {
		return nil, computeError(err)
	}
	h.metrics.ObserveDominantFrequency(result.Dominant)

	log.Debug().
		Int("samples", result.SampleCount).
		Float64("dominantFrequency", result.Dominant.Frequency).
		Msg("Inline spectrum computed")

	return &models.AnalyzeSpectrumResponse{
		Body: models.AnalyzeSpectrumResponseBody{
			SampleRate:  result.SampleRate,
			Nyquist:     result.Nyquist,
			Resolution:  result.Resolution,
			SampleCount: result.SampleCount,
			Dominant:    result.Dominant,
			Spectrum:    result.Spectrum,
		},
	}, nil
}

// AssessResonance classifies a forcing frequency against a modal set
func (h *ResonanceHandler) AssessResonance(ctx context.Context, req *models.AssessResonanceRequest) (*models.AssessResonanceResponse, error) {
	modal := req.Body.ModalFrequencies
	if len(modal) == 0 {
		var err error
		modal, err = h.modal.ModalFrequencies(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to load modal frequencies", err)
		}
	}

	assessment, err := h.assessor.Assess(req.Body.ForcingFrequency, modal)
	if err != nil {
		return nil, computeError(err)
	}
	h.metrics.ObserveAssessment(assessment.Risk)

	return &models.AssessResonanceResponse{Body: assessment}, nil
}

func computeError(err error) error {
	if processing.IsInputError(err) {
		return huma.Error422UnprocessableEntity(err.Error(), err)
	}
	return huma.Error500InternalServerError("Computation failed", err)
}
