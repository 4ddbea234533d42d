// Package simulation produces synthetic inputs for the analysis pipeline: a
// torque measurement of a rotating pulley and the modal results that a finite
// element run would provide.
package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/RMahshie/resonara/pkg/models"
)

// Tone is a single sinusoidal component of the simulated signal
type Tone struct {
	Frequency float64 // Hz
	Amplitude float64 // Nm
}

// TorqueConfig describes the simulated torque measurement
type TorqueConfig struct {
	SampleRate float64 // Hz
	Duration   float64 // s
	Tones      []Tone
	NoiseStd   float64 // Nm
}

// DefaultTorqueConfig mirrors the bench setup: blade engagement at 25 Hz and a
// motor harmonic at 60 Hz on top of measurement noise.
func DefaultTorqueConfig() TorqueConfig {
	return TorqueConfig{
		SampleRate: 1000.0,
		Duration:   1.0,
		Tones: []Tone{
			{Frequency: 25.0, Amplitude: 100.0},
			{Frequency: 60.0, Amplitude: 15.0},
		},
		NoiseStd: 5.0,
	}
}

// NewRand returns a deterministic generator for a non-zero seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// GenerateTorque samples the configured tones plus Gaussian noise.
// Timestamps are i*Duration/N with N = SampleRate*Duration, excluding the end point.
func GenerateTorque(cfg TorqueConfig, rng *rand.Rand) (*models.TimeSeries, error) {
	if cfg.SampleRate <= 0 || cfg.Duration <= 0 {
		return nil, fmt.Errorf("sample rate and duration must be positive, got %g Hz and %g s", cfg.SampleRate, cfg.Duration)
	}
	n := int(cfg.SampleRate * cfg.Duration)
	if n < 2 {
		return nil, fmt.Errorf("configuration yields %d samples, need at least 2", n)
	}

	step := cfg.Duration / float64(n)
	ts := &models.TimeSeries{
		Time:  make([]float64, n),
		Value: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		t := float64(i) * step
		v := 0.0
		for _, tone := range cfg.Tones {
			v += tone.Amplitude * math.Sin(2*math.Pi*tone.Frequency*t)
		}
		if cfg.NoiseStd > 0 && rng != nil {
			v += rng.NormFloat64() * cfg.NoiseStd
		}
		ts.Time[i] = t
		ts.Value[i] = v
	}

	return ts, nil
}
