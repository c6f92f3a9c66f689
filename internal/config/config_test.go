package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, sim.ModelKinematic, cfg.Flight.Model)
	assert.Equal(t, sim.DefaultDynamicsTuning(), cfg.Flight.Tuning)
	assert.True(t, cfg.Audio.Enabled)
	assert.Empty(t, cfg.Telemetry.Path)
	assert.Empty(t, cfg.File)
}

func TestLoad_WithJSONFile(t *testing.T) {
	dir := t.TempDir()
	body := `{
		"logLevel": "debug",
		"window": { "width": 800, "height": 600 },
		"flight": { "model": "dynamics", "tuning": { "thrust": 45, "wingLift": 3.5 } },
		"audio": { "enabled": false },
		"telemetry": { "path": "run.msgpack" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ace.json"), []byte(body), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, sim.ModelDynamics, cfg.Flight.Model)
	assert.Equal(t, 45.0, cfg.Flight.Tuning.Thrust)
	assert.Equal(t, 3.5, cfg.Flight.Tuning.WingLift)
	// Unset tuning keys keep their defaults.
	assert.Equal(t, sim.DefaultDynamicsTuning().Gravity, cfg.Flight.Tuning.Gravity)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, "run.msgpack", cfg.Telemetry.Path)
	assert.Equal(t, filepath.Join(dir, "ace.json"), cfg.File)
}

func TestLoad_WithYAMLFile(t *testing.T) {
	dir := t.TempDir()
	body := "flight:\n  model: dynamics\n  tuning:\n    airbrakeDamping: 1.2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ace.yaml"), []byte(body), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, sim.ModelDynamics, cfg.Flight.Model)
	assert.Equal(t, 1.2, cfg.Flight.Tuning.AirbrakeDamping)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ACE_FLIGHT_MODEL", "dynamics")
	t.Setenv("ACE_WINDOW_WIDTH", "1920")
	t.Setenv("ACE_FLIGHT_TUNING_THRUST", "12.5")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, sim.ModelDynamics, cfg.Flight.Model)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 12.5, cfg.Flight.Tuning.Thrust)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ace.json"), []byte(`{"logLevel":`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_RejectsUnknownModel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ace.json"), []byte(`{"flight":{"model":"helicopter"}}`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "helicopter")
}

func TestValidate(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	bad := cfg
	bad.Window.Height = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Flight.Tuning.Mass = 0
	assert.Error(t, bad.Validate())

	assert.NoError(t, cfg.Validate())
}
