// Package pipeline runs the file based workflow: simulate a torque measurement,
// extract its dominant frequency, then assess it against the pulley's modes.
// Each stage reads the previous stage's files, so the stages can run separately.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/resonara/internal/dataset"
	"github.com/RMahshie/resonara/internal/report"
	"github.com/RMahshie/resonara/internal/resonance"
	"github.com/RMahshie/resonara/internal/simulation"
	"github.com/RMahshie/resonara/internal/spectral"
	"github.com/RMahshie/resonara/pkg/models"
)

// Artifact file names
const (
	TorqueDataFile        = "pulley_torque_data.csv"
	DominantFrequencyFile = "dominant_frequency.txt"
	TorqueSpectrumFile    = "torque_spectrum.csv"
	TorqueSummaryFile     = "torque_summary.txt"
	HarmonicResponseFile  = "harmonic_response.csv"
	FEASummaryFile        = "fea_summary.txt"
)

// Config holds the directories and analysis policy of a pipeline run
type Config struct {
	DataDir                 string
	ResultsDir              string
	Seed                    uint64 // 0 seeds the torque noise from the clock
	ValueColumn             string
	MinSearchFrequency      float64
	ResonanceThreshold      float64
	DefaultForcingFrequency float64
	Modal                   simulation.ModalSource
	Torque                  *simulation.TorqueConfig
}

// PostProcessResult is the outcome of the resonance stage
type PostProcessResult struct {
	Assessment          *models.ResonanceAssessment
	ForcingFromFallback bool
}

// Generate simulates a torque measurement and writes it to the data directory
func Generate(ctx context.Context, cfg Config) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	torque := simulation.DefaultTorqueConfig()
	if cfg.Torque != nil {
		torque = *cfg.Torque
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	series, err := simulation.GenerateTorque(torque, simulation.NewRand(seed))
	if err != nil {
		return "", fmt.Errorf("failed to simulate torque: %w", err)
	}

	var buf bytes.Buffer
	if err := dataset.WriteTimeSeries(&buf, series, cfg.ValueColumn); err != nil {
		return "", err
	}
	path := filepath.Join(cfg.DataDir, TorqueDataFile)
	if err := writeFile(path, buf.Bytes()); err != nil {
		return "", err
	}

	log.Info().Str("path", path).Int("samples", series.Len()).Msg("Torque data generated")
	return path, nil
}

// AnalyzeTorque computes the spectrum of the generated measurement and writes
// the dominant frequency, the spectrum plot data and a summary.
func AnalyzeTorque(ctx context.Context, cfg Config) (*spectral.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(cfg.DataDir, TorqueDataFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open torque data: %w", err)
	}
	defer f.Close()

	series, err := dataset.ReadTimeSeries(f, cfg.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	result, err := spectral.NewAnalyzer(cfg.MinSearchFrequency).Analyze(series.Time, series.Value)
	if err != nil {
		return nil, err
	}
	if !result.Dominant.Found() {
		log.Warn().Float64("nyquist", result.Nyquist).Msg("No dominant frequency above the search floor")
	}

	var dominant, spectrum, summary bytes.Buffer
	if err := dataset.WriteDominantFrequency(&dominant, result.Dominant.Frequency); err != nil {
		return nil, err
	}
	if err := dataset.WriteSpectrum(&spectrum, result.Spectrum, ""); err != nil {
		return nil, err
	}
	if err := report.RenderTorqueSummary(&summary, report.TorqueSummary{
		SampleRate:  result.SampleRate,
		SampleCount: result.SampleCount,
		Dominant:    result.Dominant,
	}); err != nil {
		return nil, err
	}

	outputs := map[string][]byte{
		DominantFrequencyFile: dominant.Bytes(),
		TorqueSpectrumFile:    spectrum.Bytes(),
		TorqueSummaryFile:     summary.Bytes(),
	}
	for name, data := range outputs {
		if err := writeFile(filepath.Join(cfg.ResultsDir, name), data); err != nil {
			return nil, err
		}
	}

	log.Info().
		Float64("sampleRate", result.SampleRate).
		Int("samples", result.SampleCount).
		Float64("dominantFrequency", result.Dominant.Frequency).
		Float64("dominantAmplitude", result.Dominant.Amplitude).
		Msg("Torque analysis complete")
	return result, nil
}

// PostProcess assesses the resonance risk of the dominant frequency found by
// AnalyzeTorque. When that result is missing the configured default forcing
// frequency is used instead.
func PostProcess(ctx context.Context, cfg Config) (*PostProcessResult, error) {
	forcing, fallback, err := readForcingFrequency(cfg)
	if err != nil {
		return nil, err
	}

	modal := cfg.Modal
	if modal == nil {
		modal = simulation.NewStaticModalSource(nil)
	}
	modes, err := modal.ModalFrequencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load modal frequencies: %w", err)
	}

	assessment, err := resonance.NewAssessor(cfg.ResonanceThreshold).Assess(forcing, modes)
	if err != nil {
		return nil, err
	}

	response := simulation.HarmonicResponse(modes, simulation.DefaultSweepConfig(),
		simulation.NewRand(simulation.HarmonicResponseSeed))

	var responseCSV, summary bytes.Buffer
	if err := dataset.WriteSpectrum(&responseCSV, response, dataset.ResponseColumn); err != nil {
		return nil, err
	}
	if err := report.RenderResonanceSummary(&summary, report.ResonanceSummary{
		Assessment:          assessment,
		ForcingFromFallback: fallback,
	}); err != nil {
		return nil, err
	}

	if err := writeFile(filepath.Join(cfg.ResultsDir, HarmonicResponseFile), responseCSV.Bytes()); err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(cfg.ResultsDir, FEASummaryFile), summary.Bytes()); err != nil {
		return nil, err
	}

	log.Info().
		Float64("forcingFrequency", assessment.ForcingFrequency).
		Float64("closestNatural", assessment.ClosestNatural).
		Float64("separation", assessment.Separation).
		Str("risk", string(assessment.Risk)).
		Msg("Resonance assessment complete")

	return &PostProcessResult{Assessment: assessment, ForcingFromFallback: fallback}, nil
}

// Run executes all three stages in order
func Run(ctx context.Context, cfg Config) (*PostProcessResult, error) {
	if _, err := Generate(ctx, cfg); err != nil {
		return nil, err
	}
	if _, err := AnalyzeTorque(ctx, cfg); err != nil {
		return nil, err
	}
	return PostProcess(ctx, cfg)
}

func readForcingFrequency(cfg Config) (float64, bool, error) {
	def := cfg.DefaultForcingFrequency
	if def <= 0 {
		def = 25.0
	}

	path := filepath.Join(cfg.ResultsDir, DominantFrequencyFile)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", path).Float64("default", def).Msg("Dominant frequency not found, using default")
		return def, true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to open dominant frequency: %w", err)
	}
	defer f.Close()

	forcing, err := dataset.ReadDominantFrequency(f)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", path, err)
	}
	if forcing <= 0 {
		// AnalyzeTorque writes 0.00 when the spectrum had no peak
		log.Warn().Str("path", path).Float64("default", def).Msg("No dominant frequency recorded, using default")
		return def, true, nil
	}
	return forcing, false, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
