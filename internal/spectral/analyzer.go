// Package spectral extracts the one-sided amplitude spectrum and the dominant
// forcing frequency from a uniformly sampled signal.
package spectral

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RMahshie/resonara/pkg/models"
)

// DefaultMinFrequency is the lower bound (exclusive) of the dominant frequency
// search band. It keeps DC and slow drift out of the peak search.
const DefaultMinFrequency = 1.0

// roundOff is the relative error per sample that the transform may leave in
// a bin. A bin at or below roundOff * N * largest amplitude is treated as
// numerical noise rather than signal content.
const roundOff = 0x1p-50

// ErrInvalidInput is returned when the signal cannot be analyzed.
var ErrInvalidInput = errors.New("spectral: invalid input")

// Result holds the outcome of a single analysis run.
type Result struct {
	// Spectrum contains one point per non-negative frequency bin in
	// ascending frequency order.
	Spectrum []models.FrequencyPoint
	// Dominant is the strongest bin inside the search band, or the zero
	// value when the band holds no peak.
	Dominant    models.DominantFrequency
	SampleRate  float64
	Nyquist     float64
	Resolution  float64
	SampleCount int
}

// Analyzer computes spectra with a configurable search floor.
type Analyzer struct {
	minFrequency float64
}

// NewAnalyzer creates an analyzer whose dominant frequency search excludes
// everything at or below minFrequency. A non-positive value selects
// DefaultMinFrequency.
func NewAnalyzer(minFrequency float64) *Analyzer {
	if minFrequency <= 0 || math.IsNaN(minFrequency) || math.IsInf(minFrequency, 0) {
		minFrequency = DefaultMinFrequency
	}
	return &Analyzer{minFrequency: minFrequency}
}

// MinFrequency returns the exclusive lower bound of the search band.
func (a *Analyzer) MinFrequency() float64 {
	return a.minFrequency
}

// Analyze runs the default analyzer on the given samples.
func Analyze(time, value []float64) (*Result, error) {
	return NewAnalyzer(DefaultMinFrequency).Analyze(time, value)
}

// Analyze computes the one-sided amplitude spectrum of value and locates the
// dominant frequency in the open band (MinFrequency, Nyquist).
//
// The sampling interval is taken from the first two timestamps. Bin k maps to
// k/(N*dt) for k <= (N-1)/2; the remaining bins carry negative frequencies and
// are dropped. Amplitudes are |X[k]|/N without doubling non-DC bins, so a pure
// sine of amplitude A shows up with amplitude A/2.
func (a *Analyzer) Analyze(time, value []float64) (*Result, error) {
	n := len(value)
	if len(time) != n {
		return nil, fmt.Errorf("%w: time has %d samples, value has %d", ErrInvalidInput, len(time), n)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidInput, n)
	}

	dt := time[1] - time[0]
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: sampling interval must be positive, got %g", ErrInvalidInput, dt)
	}

	fs := 1.0 / dt
	nyquist := fs / 2.0
	binWidth := 1.0 / (float64(n) * dt)

	coeffs := fft.FFTReal(value)

	positive := (n-1)/2 + 1
	spectrum := make([]models.FrequencyPoint, positive)
	maxAmp := 0.0
	for k := 0; k < positive; k++ {
		amp := cmplx.Abs(coeffs[k]) / float64(n)
		spectrum[k] = models.FrequencyPoint{
			Frequency: float64(k) * binWidth,
			Amplitude: amp,
		}
		if amp > maxAmp {
			maxAmp = amp
		}
	}

	return &Result{
		Spectrum:    spectrum,
		Dominant:    a.dominant(spectrum, nyquist, maxAmp*float64(n)*roundOff),
		SampleRate:  fs,
		Nyquist:     nyquist,
		Resolution:  binWidth,
		SampleCount: n,
	}, nil
}

// dominant returns the first bin with the largest amplitude inside the
// search band. Bins at or below floor never qualify.
func (a *Analyzer) dominant(spectrum []models.FrequencyPoint, nyquist, floor float64) models.DominantFrequency {
	var best models.DominantFrequency
	found := false
	for _, p := range spectrum {
		if p.Frequency <= a.minFrequency || p.Frequency >= nyquist {
			continue
		}
		if p.Amplitude <= floor {
			continue
		}
		if !found || p.Amplitude > best.Amplitude {
			best = models.DominantFrequency{Frequency: p.Frequency, Amplitude: p.Amplitude}
			found = true
		}
	}
	return best
}
