package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sw965/coutils/config"
	"gonum.org/v1/gonum/diff/fd"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coutils.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "step: 0.001\nformula: forward\nmnist_dir: /tmp/mnist\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.001, cfg.Step)
	assert.Equal(t, config.FormulaForward, cfg.Formula)
	assert.Equal(t, "/tmp/mnist", cfg.MNISTDir)
	assert.Equal(t, config.Default().Tolerance, cfg.Tolerance)
	assert.Equal(t, config.Default().SamplesPerClass, cfg.SamplesPerClass)

	formula, err := cfg.FDFormula()
	require.NoError(t, err)
	assert.Equal(t, fd.Forward, formula)
}

func TestLoadInvalid(t *testing.T) {
	_, err := config.Load(writeFile(t, "step: -1\nformula: sideways\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step must be positive")
	assert.Contains(t, err.Error(), "unknown formula")

	_, err = config.Load(writeFile(t, "step: [1, 2]\n"))
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
