package simulation

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"

	"github.com/RMahshie/resonara/pkg/models"
)

// DefaultModalFrequencies are the natural frequencies (Hz) of the pulley
// obtained from modal analysis.
var DefaultModalFrequencies = []float64{45.2, 78.9, 112.5, 145.0, 180.3, 220.1}

// HarmonicResponseSeed keeps the harmonic response noise reproducible between runs
const HarmonicResponseSeed = 42

// ModalSource supplies natural frequencies for the resonance assessment
type ModalSource interface {
	ModalFrequencies(ctx context.Context) ([]float64, error)
}

// StaticModalSource serves a fixed modal set
type StaticModalSource struct {
	Frequencies []float64
}

// NewStaticModalSource returns a source for freqs, or for DefaultModalFrequencies when freqs is empty
func NewStaticModalSource(freqs []float64) *StaticModalSource {
	if len(freqs) == 0 {
		freqs = DefaultModalFrequencies
	}
	return &StaticModalSource{Frequencies: freqs}
}

// ModalFrequencies returns a copy of the configured modal set
func (s *StaticModalSource) ModalFrequencies(ctx context.Context) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.Frequencies) == 0 {
		return nil, errors.New("no modal frequencies configured")
	}
	out := make([]float64, len(s.Frequencies))
	copy(out, s.Frequencies)
	return out, nil
}

// SweepConfig describes the harmonic response frequency sweep
type SweepConfig struct {
	Start    float64 // Hz
	Stop     float64 // Hz, inclusive
	Points   int
	Peak     float64 // Lorentzian peak height before scaling
	Width    float64 // Lorentzian half width squared, Hz^2
	NoiseStd float64
	Scale    float64 // response to mm
}

// DefaultSweepConfig returns the sweep used for the pulley report
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Start:    0.1,
		Stop:     200.0,
		Points:   400,
		Peak:     0.5,
		Width:    1.0,
		NoiseStd: 0.02,
		Scale:    10.0,
	}
}

// HarmonicResponse simulates the displacement amplitude (mm) over the sweep,
// with a Lorentzian peak at every natural frequency.
func HarmonicResponse(modal []float64, cfg SweepConfig, rng *rand.Rand) []models.FrequencyPoint {
	freqs := linspace(cfg.Start, cfg.Stop, cfg.Points)
	out := make([]models.FrequencyPoint, len(freqs))
	for i, f := range freqs {
		r := 0.0
		for _, f0 := range modal {
			r += cfg.Peak / (math.Pow(f-f0, 2) + cfg.Width)
		}
		if cfg.NoiseStd > 0 && rng != nil {
			r += rng.NormFloat64() * cfg.NoiseStd
		}
		out[i] = models.FrequencyPoint{Frequency: f, Amplitude: r * cfg.Scale}
	}
	return out
}

// linspace returns n evenly spaced values over [start, stop]
func linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
