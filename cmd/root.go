package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/restaurant-sim/restaurant-sim/sim"
)

var (
	logLevel   string  // Log verbosity level
	configPath string  // Scenario YAML path; empty means built-in restaurant
	seed       int64   // Master seed for the replica's RNG streams
	horizon    float64 // Arrival cutoff in simulated minutes
	rate       float64 // Arrival rate λ in customers per minute
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "restaurant-sim",
	Short: "Discrete-event simulator for a fast-food restaurant queueing network",
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadScenario builds the run configuration: the built-in restaurant or a
// YAML scenario, with seed/horizon/rate flag overrides applied only when
// the user actually set them.
func loadScenario() sim.Config {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}
		cfg = loaded
	}
	flags := rootCmd.PersistentFlags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("horizon") {
		cfg.HorizonMinutes = horizon
	}
	if flags.Changed("rate") {
		cfg.ArrivalRate = rate
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid scenario: %v", err)
	}
	return cfg
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Scenario YAML path (default: built-in restaurant)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Random seed")
	rootCmd.PersistentFlags().Float64Var(&horizon, "horizon", 480.0, "Arrival cutoff in simulated minutes")
	rootCmd.PersistentFlags().Float64Var(&rate, "rate", 3.0, "Arrival rate in customers per minute")
}
