package resonance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/resonara/pkg/models"
)

var pulleyModes = []float64{45.2, 78.9, 112.5, 145.0, 180.3, 220.1}

func TestAssess(t *testing.T) {
	tests := []struct {
		name           string
		forcing        float64
		modal          []float64
		wantClosest    float64
		wantMode       int
		wantSeparation float64
		wantRisk       models.RiskLevel
	}{
		{
			name:           "default forcing against pulley modes",
			forcing:        25.0,
			modal:          pulleyModes,
			wantClosest:    45.2,
			wantMode:       1,
			wantSeparation: 20.2,
			wantRisk:       models.RiskLow,
		},
		{
			name:           "close to single mode",
			forcing:        42.0,
			modal:          []float64{45.2},
			wantClosest:    45.2,
			wantMode:       1,
			wantSeparation: 3.2,
			wantRisk:       models.RiskHigh,
		},
		{
			name:           "separation equal to threshold is low",
			forcing:        45.0,
			modal:          []float64{50.0},
			wantClosest:    50.0,
			wantMode:       1,
			wantSeparation: 5.0,
			wantRisk:       models.RiskLow,
		},
		{
			name:           "above the mode",
			forcing:        150.0,
			modal:          pulleyModes,
			wantClosest:    145.0,
			wantMode:       4,
			wantSeparation: 5.0,
			wantRisk:       models.RiskHigh,
		},
		{
			name:           "duplicate modes",
			forcing:        40.0,
			modal:          []float64{50.0, 50.0},
			wantClosest:    50.0,
			wantMode:       1,
			wantSeparation: 10.0,
			wantRisk:       models.RiskLow,
		},
		{
			name:           "equidistant keeps first",
			forcing:        60.0,
			modal:          []float64{70.0, 50.0},
			wantClosest:    70.0,
			wantMode:       1,
			wantSeparation: 10.0,
			wantRisk:       models.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assess(tt.forcing, tt.modal)
			require.NoError(t, err)

			assert.Equal(t, tt.wantClosest, got.ClosestNatural)
			assert.Equal(t, tt.wantMode, got.ClosestMode)
			assert.InDelta(t, tt.wantSeparation, got.Separation, 1e-9)
			assert.Equal(t, tt.wantRisk, got.Risk)
			assert.Equal(t, tt.forcing, got.ForcingFrequency)
			assert.Equal(t, DefaultThreshold, got.Threshold)
			assert.Len(t, got.Modes, len(tt.modal))
		})
	}
}

func TestAssess_PerModeRisk(t *testing.T) {
	got, err := Assess(80.0, pulleyModes)
	require.NoError(t, err)

	require.Len(t, got.Modes, 6)
	assert.Equal(t, models.RiskLow, got.Modes[0].Risk)
	assert.Equal(t, models.RiskHigh, got.Modes[1].Risk)
	assert.Equal(t, 2, got.Modes[1].Mode)
	assert.InDelta(t, 1.1, got.Modes[1].Separation, 1e-9)
	assert.Equal(t, models.RiskHigh, got.Risk)
}

func TestAssess_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		forcing float64
		modal   []float64
	}{
		{name: "nil modal set", forcing: 25, modal: nil},
		{name: "empty modal set", forcing: 25, modal: []float64{}},
		{name: "NaN forcing", forcing: math.NaN(), modal: pulleyModes},
		{name: "infinite forcing", forcing: math.Inf(1), modal: pulleyModes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assess(tt.forcing, tt.modal)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, got)
		})
	}
}

func TestNewAssessor_Threshold(t *testing.T) {
	assert.Equal(t, DefaultThreshold, NewAssessor(0).Threshold())
	assert.Equal(t, DefaultThreshold, NewAssessor(-1).Threshold())
	assert.Equal(t, 0.25, NewAssessor(0.25).Threshold())

	got, err := NewAssessor(0.5).Assess(25.0, pulleyModes)
	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, got.Risk)
}
