// Package config holds the settings of the coutils command.
package config

import (
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/diff/fd"
	"gopkg.in/yaml.v3"
)

const (
	FormulaCentral  = "central"
	FormulaForward  = "forward"
	FormulaBackward = "backward"
)

type Config struct {
	Step            float64 `yaml:"step"`
	Tolerance       float64 `yaml:"tolerance"`
	Seed            int64   `yaml:"seed"`
	Formula         string  `yaml:"formula"`
	MNISTDir        string  `yaml:"mnist_dir"`
	SamplesPerClass int     `yaml:"samples_per_class"`
	Output          string  `yaml:"output"`
}

func Default() Config {
	return Config{
		Step:            1e-5,
		Tolerance:       1e-6,
		Seed:            0,
		Formula:         FormulaCentral,
		SamplesPerClass: 12,
		Output:          "dataset.png",
	}
}

// Load reads path on top of Default. Keys absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Step <= 0 {
		errs = append(errs, fmt.Errorf("step must be positive, got %v", c.Step))
	}
	if c.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("tolerance must be positive, got %v", c.Tolerance))
	}
	if c.SamplesPerClass <= 0 {
		errs = append(errs, fmt.Errorf("samples_per_class must be positive, got %d", c.SamplesPerClass))
	}
	if _, err := c.FDFormula(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// FDFormula maps Formula to a gonum finite difference formula.
func (c Config) FDFormula() (fd.Formula, error) {
	switch c.Formula {
	case FormulaCentral, "":
		return fd.Central, nil
	case FormulaForward:
		return fd.Forward, nil
	case FormulaBackward:
		return fd.Backward, nil
	}
	return fd.Formula{}, fmt.Errorf("unknown formula %q", c.Formula)
}
