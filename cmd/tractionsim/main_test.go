package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/tractionsim/internal/config"
)

func scenarioCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	configFile, preset = "", ""
	cmd := &cobra.Command{Use: "test"}
	addScenarioFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(scenarioCmd(t))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestResolveConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	fileCfg := config.GetPreset("snow")
	fileCfg.Vehicle.WheelCount = 4
	require.NoError(t, config.Save(path, fileCfg))

	cfg, err := resolveConfig(scenarioCmd(t, "--preset", "ice", "--config", path, "--mu", "0.25", "--dt", "5ms"))
	require.NoError(t, err)

	// File beats preset, flags beat file.
	assert.Equal(t, "snow", cfg.Scenario)
	assert.Equal(t, 4, cfg.Vehicle.WheelCount)
	assert.Equal(t, 0.25, cfg.Vehicle.Params.MuPeak)
	assert.Equal(t, 5*time.Millisecond, cfg.Loop.PhysicsStep)
	assert.Equal(t, fileCfg.Vehicle.InitialSpeed, cfg.Vehicle.InitialSpeed)
}

func TestResolveConfigErrors(t *testing.T) {
	_, err := resolveConfig(scenarioCmd(t, "--preset", "mars"))
	assert.ErrorContains(t, err, "unknown preset")

	_, err = resolveConfig(scenarioCmd(t, "--wheels", "0"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = resolveConfig(scenarioCmd(t, "--controller", "pid"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = resolveConfig(scenarioCmd(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRange(t *testing.T) {
	r, err := parseRange("mu", []float64{0.2, 0.9})
	require.NoError(t, err)
	assert.Equal(t, 0.2, r.Min)
	assert.Equal(t, 0.9, r.Max)

	_, err = parseRange("mu", []float64{1})
	assert.Error(t, err)
	_, err = parseRange("mu", []float64{0.9, 0.2})
	assert.Error(t, err)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123abcd", shortID("0123abcd-4567"))
	assert.Equal(t, "abc", shortID("abc"))
}
