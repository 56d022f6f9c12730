package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sw965/coutils/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	cfgPath string
	debug   bool
	seed    int64

	logger *zap.Logger
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "coutils",
	Short: "Gradient checking and dataset visualization for coursework",
	Long: `coutils checks backward passes against finite-difference gradients
and renders image datasets as sample grids.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if debug {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = loadConfig(cmd)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig reads --config (or the defaults) and applies flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	c := config.Default()
	if cfgPath != "" {
		var err error
		c, err = config.Load(cfgPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		c.Seed = seed
	}
	if flags.Changed("step") {
		c.Step = step
	}
	if flags.Changed("tol") {
		c.Tolerance = tolerance
	}
	if flags.Changed("formula") {
		c.Formula = formula
	}
	if flags.Changed("mnist-dir") {
		c.MNISTDir = mnistDir
	}
	if flags.Changed("samples") {
		c.SamplesPerClass = samples
	}
	if flags.Changed("out") {
		c.Output = output
	}

	if err := c.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed")

	rootCmd.AddCommand(gradcheckCmd, gridCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
