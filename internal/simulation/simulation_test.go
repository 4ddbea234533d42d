package simulation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/resonara/internal/spectral"
)

func TestGenerateTorque_Default(t *testing.T) {
	ts, err := GenerateTorque(DefaultTorqueConfig(), NewRand(7))
	require.NoError(t, err)

	require.Equal(t, 1000, ts.Len())
	assert.Equal(t, 0.0, ts.Time[0])
	assert.InDelta(t, 0.001, ts.Time[1], 1e-15)
	assert.InDelta(t, 0.999, ts.Time[999], 1e-12)

	res, err := spectral.Analyze(ts.Time, ts.Value)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, res.Dominant.Frequency, 1e-9)
	assert.InDelta(t, 50.0, res.Dominant.Amplitude, 2.0)
}

func TestGenerateTorque_Deterministic(t *testing.T) {
	a, err := GenerateTorque(DefaultTorqueConfig(), NewRand(99))
	require.NoError(t, err)
	b, err := GenerateTorque(DefaultTorqueConfig(), NewRand(99))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateTorque_NoNoise(t *testing.T) {
	cfg := TorqueConfig{SampleRate: 100, Duration: 0.5, Tones: []Tone{{Frequency: 25, Amplitude: 2}}}

	ts, err := GenerateTorque(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, 50, ts.Len())
	assert.InDelta(t, 0.0, ts.Value[0], 1e-12)
	assert.InDelta(t, 2.0, ts.Value[1], 1e-12)
	assert.InDelta(t, -2.0, ts.Value[3], 1e-12)
}

func TestGenerateTorque_InvalidConfig(t *testing.T) {
	_, err := GenerateTorque(TorqueConfig{SampleRate: 0, Duration: 1}, nil)
	assert.Error(t, err)

	_, err = GenerateTorque(TorqueConfig{SampleRate: 1, Duration: 1}, nil)
	assert.Error(t, err)
}

func TestHarmonicResponse(t *testing.T) {
	points := HarmonicResponse(DefaultModalFrequencies, DefaultSweepConfig(), NewRand(HarmonicResponseSeed))

	require.Len(t, points, 400)
	assert.InDelta(t, 0.1, points[0].Frequency, 1e-12)
	assert.Equal(t, 200.0, points[399].Frequency)

	peakIdx := 0
	for i, p := range points {
		if p.Amplitude > points[peakIdx].Amplitude {
			peakIdx = i
		}
	}
	// Every mode peaks at 5 mm; the largest sample sits next to one of them.
	nearest := math.Inf(1)
	for _, f0 := range DefaultModalFrequencies {
		nearest = math.Min(nearest, math.Abs(points[peakIdx].Frequency-f0))
	}
	assert.Less(t, nearest, 1.0)
}

func TestHarmonicResponse_NoiseFree(t *testing.T) {
	cfg := DefaultSweepConfig()
	cfg.NoiseStd = 0
	cfg.Start, cfg.Stop, cfg.Points = 45.2, 45.2, 1

	points := HarmonicResponse([]float64{45.2}, cfg, nil)
	require.Len(t, points, 1)
	assert.InDelta(t, 5.0, points[0].Amplitude, 1e-12)
}

func TestStaticModalSource(t *testing.T) {
	src := NewStaticModalSource(nil)
	got, err := src.ModalFrequencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultModalFrequencies, got)

	got[0] = 0
	assert.Equal(t, 45.2, DefaultModalFrequencies[0])

	custom := NewStaticModalSource([]float64{10, 20})
	got, err = custom.ModalFrequencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = custom.ModalFrequencies(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
