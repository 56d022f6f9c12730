package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sw965/coutils/config"
	"github.com/sw965/coutils/gradcheck"
	"github.com/sw965/coutils/mathx/randx"
	"github.com/sw965/coutils/tensor"
	"go.uber.org/zap"
)

var (
	step      float64
	tolerance float64
	formula   string
)

var gradcheckCmd = &cobra.Command{
	Use:   "gradcheck",
	Short: "Check built-in backward passes against numeric gradients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		failed, err := runGradcheck(cfg, logger, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d fixture(s) exceeded tolerance %g", failed, cfg.Tolerance)
		}
		return nil
	},
}

func init() {
	gradcheckCmd.Flags().Float64Var(&step, "step", 0, "finite difference step h")
	gradcheckCmd.Flags().Float64Var(&tolerance, "tol", 0, "largest accepted relative error")
	gradcheckCmd.Flags().StringVar(&formula, "formula", config.FormulaCentral, "central, forward or backward")
}

// runGradcheck checks every fixture and writes a summary table to w.
// It returns the number of fixtures whose relative error exceeds c.Tolerance.
func runGradcheck(c config.Config, log *zap.Logger, w io.Writer) (int, error) {
	f, err := c.FDFormula()
	if err != nil {
		return 0, err
	}
	rng := randx.New(c.Seed)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "fixture\trel error\tmax abs diff\tresult")

	failed := 0
	for _, fx := range fixtures(rng) {
		x := tensor.NewRandUniform(-2.0, 2.0, rng, fx.shape...)
		y, err := fx.forward(x)
		if err != nil {
			return failed, fmt.Errorf("%s: forward: %w", fx.name, err)
		}
		dy := tensor.NewRandUniform(-1.0, 1.0, rng, y.Shape...)
		analytic, err := fx.backward(x, dy)
		if err != nil {
			return failed, fmt.Errorf("%s: backward: %w", fx.name, err)
		}

		report, err := gradcheck.Check(fx.forward, x, analytic, &gradcheck.Settings{
			Upstream: &dy,
			Step:     c.Step,
			Formula:  f,
		})
		if err != nil {
			return failed, fmt.Errorf("%s: %w", fx.name, err)
		}

		result := "ok"
		if !report.Passed(c.Tolerance) {
			result = "FAIL"
			failed++
		}
		log.Info("gradient check",
			zap.String("fixture", fx.name),
			zap.Ints("shape", fx.shape),
			zap.Float64("rel_error", report.RelError),
			zap.Float64("max_abs_diff", report.MaxAbsDiff),
			zap.Bool("passed", result == "ok"),
		)
		log.Debug("numeric gradient", zap.String("fixture", fx.name), zap.Float64s("dx", report.Numeric.Data))
		fmt.Fprintf(tw, "%s\t%.3e\t%.3e\t%s\n", fx.name, report.RelError, report.MaxAbsDiff, result)
	}
	return failed, tw.Flush()
}
