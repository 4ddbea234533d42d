package handlers

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/resonara/internal/metrics"
	"github.com/RMahshie/resonara/internal/resonance"
	"github.com/RMahshie/resonara/internal/simulation"
	"github.com/RMahshie/resonara/internal/spectral"
	"github.com/RMahshie/resonara/pkg/models"
)

func newResonanceHandler() *ResonanceHandler {
	return NewResonanceHandler(
		spectral.NewAnalyzer(spectral.DefaultMinFrequency),
		resonance.NewAssessor(resonance.DefaultThreshold),
		simulation.NewStaticModalSource(nil),
		metrics.New(),
	)
}

func TestAnalyzeSpectrum(t *testing.T) {
	const n = 200
	req := &models.AnalyzeSpectrumRequest{}
	for i := 0; i < n; i++ {
		ts := float64(i) / 200.0
		req.Body.Time = append(req.Body.Time, ts)
		req.Body.Value = append(req.Body.Value, 10*math.Sin(2*math.Pi*40*ts))
	}

	resp, err := newResonanceHandler().AnalyzeSpectrum(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 200.0, resp.Body.SampleRate, 1e-9)
	assert.InDelta(t, 100.0, resp.Body.Nyquist, 1e-9)
	assert.InDelta(t, 1.0, resp.Body.Resolution, 1e-9)
	assert.Equal(t, n, resp.Body.SampleCount)
	assert.Len(t, resp.Body.Spectrum, 100)
	assert.InDelta(t, 40.0, resp.Body.Dominant.Frequency, 1e-9)
	assert.InDelta(t, 5.0, resp.Body.Dominant.Amplitude, 1e-6)
}

func TestAnalyzeSpectrum_InvalidInput(t *testing.T) {
	req := &models.AnalyzeSpectrumRequest{}
	req.Body.Time = []float64{0, 0, 0}
	req.Body.Value = []float64{1, 2, 3}

	_, err := newResonanceHandler().AnalyzeSpectrum(context.Background(), req)
	assert.Equal(t, 422, statusOf(t, err))
}

func TestAssessResonance(t *testing.T) {
	tests := []struct {
		name        string
		forcing     float64
		modal       []float64
		wantClosest float64
		wantRisk    models.RiskLevel
	}{
		{name: "default modal set", forcing: 25.0, wantClosest: 45.2, wantRisk: models.RiskLow},
		{name: "near a mode", forcing: 44.0, modal: []float64{45.2, 78.9}, wantClosest: 45.2, wantRisk: models.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &models.AssessResonanceRequest{}
			req.Body.ForcingFrequency = tt.forcing
			req.Body.ModalFrequencies = tt.modal

			resp, err := newResonanceHandler().AssessResonance(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClosest, resp.Body.ClosestNatural)
			assert.Equal(t, tt.wantRisk, resp.Body.Risk)
		})
	}
}

func TestAssessResonance_InvalidInput(t *testing.T) {
	req := &models.AssessResonanceRequest{}
	req.Body.ForcingFrequency = math.NaN()

	_, err := newResonanceHandler().AssessResonance(context.Background(), req)
	assert.Equal(t, 422, statusOf(t, err))
}
