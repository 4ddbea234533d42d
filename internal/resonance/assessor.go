// Package resonance compares a forcing frequency against a set of natural
// frequencies and classifies the resonance risk.
package resonance

import (
	"errors"
	"fmt"
	"math"

	"github.com/RMahshie/resonara/pkg/models"
)

// DefaultThreshold is the relative separation below which risk is HIGH.
const DefaultThreshold = 0.10

// ErrInvalidInput is returned for an empty modal set or a non-finite forcing frequency.
var ErrInvalidInput = errors.New("resonance: invalid input")

// Assessor classifies resonance risk with a fixed relative threshold.
type Assessor struct {
	threshold float64
}

// NewAssessor creates an assessor. A non-positive threshold selects DefaultThreshold.
func NewAssessor(threshold float64) *Assessor {
	if !(threshold > 0) || math.IsInf(threshold, 0) {
		threshold = DefaultThreshold
	}
	return &Assessor{threshold: threshold}
}

// Threshold returns the relative separation threshold
func (a *Assessor) Threshold() float64 {
	return a.threshold
}

// Assess runs the default assessor.
func Assess(forcing float64, modal []float64) (*models.ResonanceAssessment, error) {
	return NewAssessor(DefaultThreshold).Assess(forcing, modal)
}

// Assess finds the natural frequency closest to forcing. Ties keep the first
// mode in input order. Risk is HIGH only when the separation is strictly below
// threshold times the closest natural frequency.
func (a *Assessor) Assess(forcing float64, modal []float64) (*models.ResonanceAssessment, error) {
	if len(modal) == 0 {
		return nil, fmt.Errorf("%w: modal frequency set is empty", ErrInvalidInput)
	}
	if math.IsNaN(forcing) || math.IsInf(forcing, 0) {
		return nil, fmt.Errorf("%w: forcing frequency must be finite, got %g", ErrInvalidInput, forcing)
	}

	modes := make([]models.ModeSeparation, len(modal))
	closest := 0
	for i, f := range modal {
		sep := math.Abs(f - forcing)
		modes[i] = models.ModeSeparation{
			Mode:       i + 1,
			Frequency:  f,
			Separation: sep,
			Risk:       a.classify(sep, f),
		}
		if sep < modes[closest].Separation {
			closest = i
		}
	}

	c := modes[closest]
	return &models.ResonanceAssessment{
		ForcingFrequency: forcing,
		ClosestNatural:   c.Frequency,
		ClosestMode:      c.Mode,
		Separation:       c.Separation,
		Threshold:        a.threshold,
		Risk:             c.Risk,
		Modes:            modes,
	}, nil
}

func (a *Assessor) classify(separation, natural float64) models.RiskLevel {
	if separation < a.threshold*natural {
		return models.RiskHigh
	}
	return models.RiskLow
}
