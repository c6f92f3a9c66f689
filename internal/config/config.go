package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

// FileName is the config file base name; viper tries every extension it
// knows (ace.yaml, ace.json, ...).
const FileName = "ace"

// EnvPrefix prefixes environment overrides, e.g. ACE_FLIGHT_MODEL.
const EnvPrefix = "ACE"

// WindowConfig holds the initial window size.
type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// FlightConfig selects and tunes the flight model.
type FlightConfig struct {
	Model  string             `mapstructure:"model"`
	Tuning sim.DynamicsTuning `mapstructure:"tuning"`
}

// AudioConfig toggles the cue player.
type AudioConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// TelemetryConfig names the msgpack frame stream. Empty disables it.
type TelemetryConfig struct {
	Path string `mapstructure:"path"`
}

// Config is the resolved configuration.
type Config struct {
	LogLevel  string          `mapstructure:"logLevel"`
	LogsDir   string          `mapstructure:"logsDir"`
	Window    WindowConfig    `mapstructure:"window"`
	Flight    FlightConfig    `mapstructure:"flight"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// File is the config file that was read, empty when defaults were used.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logsDir", "")

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)

	v.SetDefault("flight.model", sim.ModelKinematic)
	t := sim.DefaultDynamicsTuning()
	v.SetDefault("flight.tuning.mass", t.Mass)
	v.SetDefault("flight.tuning.inertia", t.Inertia)
	v.SetDefault("flight.tuning.gravity", t.Gravity)
	v.SetDefault("flight.tuning.thrust", t.Thrust)
	v.SetDefault("flight.tuning.wingLift", t.WingLift)
	v.SetDefault("flight.tuning.finLift", t.FinLift)
	v.SetDefault("flight.tuning.pitchTorque", t.PitchTorque)
	v.SetDefault("flight.tuning.rollTorque", t.RollTorque)
	v.SetDefault("flight.tuning.yawTorque", t.YawTorque)
	v.SetDefault("flight.tuning.baseDamping", t.BaseDamping)
	v.SetDefault("flight.tuning.airbrakeDamping", t.AirbrakeDamping)
	v.SetDefault("flight.tuning.angularDamping", t.AngularDamping)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("telemetry.path", "")
}

// Load reads configuration from configDir and the environment. A missing
// config file is not an error; the defaults apply.
func Load(configDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no frontend can run with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Flight.Model {
	case sim.ModelKinematic, sim.ModelDynamics:
	default:
		return fmt.Errorf("unknown flight model %q (want %s or %s)",
			c.Flight.Model, sim.ModelKinematic, sim.ModelDynamics)
	}
	if c.Flight.Tuning.Mass <= 0 || c.Flight.Tuning.Inertia <= 0 {
		return errors.New("flight tuning mass and inertia must be positive")
	}
	return nil
}
