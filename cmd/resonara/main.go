package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RMahshie/resonara/internal/config"
	"github.com/RMahshie/resonara/internal/pipeline"
	"github.com/RMahshie/resonara/internal/simulation"
)

const usage = `Usage: resonara [flags] <command>

Commands:
  generate     simulate a pulley torque measurement
  analyze      compute the torque spectrum and dominant frequency
  postprocess  assess resonance risk against the pulley's natural frequencies
  all          run the three stages in order

Flags:
`

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"data-dir":          "DATA_DIR",
	"results-dir":       "RESULTS_DIR",
	"seed":              "RANDOM_SEED",
	"column":            "VALUE_COLUMN",
	"min-frequency":     "MIN_SEARCH_FREQUENCY",
	"threshold":         "RESONANCE_THRESHOLD",
	"default-frequency": "DEFAULT_FORCING_FREQUENCY",
	"modes":             "MODAL_FREQUENCIES",
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("resonara", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	flags.String("data-dir", "data", "directory for the torque measurement")
	flags.String("results-dir", "results", "directory for analysis results")
	flags.Uint64("seed", 0, "torque noise seed (0 uses the clock)")
	flags.String("column", "Torque (Nm)", "measurement column of the torque CSV")
	flags.Float64("min-frequency", 1.0, "lower bound (exclusive) of the dominant frequency search in Hz")
	flags.Float64("threshold", 0.10, "relative separation below which resonance risk is HIGH")
	flags.Float64("default-frequency", 25.0, "forcing frequency used when no measurement result exists")
	flags.String("modes", "45.2,78.9,112.5,145.0,180.3,220.1", "comma separated natural frequencies in Hz")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	v := viper.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			log.Error().Err(err).Str("flag", name).Msg("Failed to bind flag")
			return 1
		}
	}

	cfg, err := config.LoadFrom(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	pcfg := pipeline.Config{
		DataDir:                 cfg.Pipeline.DataDir,
		ResultsDir:              cfg.Pipeline.ResultsDir,
		Seed:                    cfg.Pipeline.RandomSeed,
		ValueColumn:             cfg.Analysis.ValueColumn,
		MinSearchFrequency:      cfg.Analysis.MinSearchFrequency,
		ResonanceThreshold:      cfg.Analysis.ResonanceThreshold,
		DefaultForcingFrequency: cfg.Analysis.DefaultForcingFrequency,
		Modal:                   simulation.NewStaticModalSource(cfg.Analysis.ModalFrequencies),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd := flags.Arg(0); cmd {
	case "generate":
		_, err = pipeline.Generate(ctx, pcfg)
	case "analyze":
		_, err = pipeline.AnalyzeTorque(ctx, pcfg)
	case "postprocess":
		_, err = pipeline.PostProcess(ctx, pcfg)
	case "all":
		_, err = pipeline.Run(ctx, pcfg)
	default:
		log.Error().Str("command", cmd).Msg("Unknown command")
		flags.Usage()
		return 2
	}
	if err != nil {
		log.Error().Err(err).Msg("Pipeline stage failed")
		return 1
	}
	return 0
}
