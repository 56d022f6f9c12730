package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sw965/coutils/config"
	"github.com/sw965/coutils/dataset"
	"github.com/sw965/coutils/mathx/randx"
	"github.com/sw965/coutils/visual"
	"go.uber.org/zap"
)

var (
	mnistDir string
	samples  int
	output   string
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Render random MNIST training samples, one digit per row, as a PNG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.MNISTDir
		if dir == "" {
			var err error
			dir, err = dataset.DefaultMNISTDir()
			if err != nil {
				return err
			}
		}

		logger.Info("loading MNIST", zap.String("dir", dir))
		mnist, err := dataset.LoadMNIST(dir)
		if err != nil {
			return err
		}
		return renderGrid(mnist.Train, dataset.MNISTClasses, cfg, logger)
	},
}

func init() {
	gridCmd.Flags().StringVar(&mnistDir, "mnist-dir", "", "directory holding the gzipped MNIST IDX files")
	gridCmd.Flags().IntVar(&samples, "samples", 0, "samples per class")
	gridCmd.Flags().StringVarP(&output, "out", "o", "", "output PNG path")
}

func renderGrid(l dataset.Labelled, classes []string, c config.Config, log *zap.Logger) error {
	rng := randx.New(c.Seed)
	grid, err := visual.VisualizeDataset(l.Images, l.Labels, c.SamplesPerClass, classes, rng)
	if err != nil {
		return fmt.Errorf("visualizing dataset: %w", err)
	}
	if err := visual.SavePNG(c.Output, grid); err != nil {
		return err
	}
	log.Info("wrote dataset grid",
		zap.String("path", c.Output),
		zap.Int("rows", grid.Rows),
		zap.Int("cols", grid.Cols),
		zap.Int("images", len(l.Images)),
	)
	return nil
}
