package spin

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config describes the manipulated sphere and the rotation strategies
type Config struct {
	// Mass in kg and Radius in m of the sphere
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`

	Mode Mode `yaml:"mode"`

	// AnimationDuration in seconds of the presentation animation toward a
	// rotation set by a quaternion drag. 0 disables it.
	AnimationDuration float64 `yaml:"animation_duration"`

	Host HostConfig `yaml:"host"`

	LogLevel string `yaml:"log_level"`
}

// HostConfig tunes the host physics body of the anchor
type HostConfig struct {
	AngularDamping float64 `yaml:"angular_damping"`
	// the body sleeps once its angular speed stayed below SleepVelocity
	// (rad/s) for SleepTime seconds
	SleepTime     float64 `yaml:"sleep_time"`
	SleepVelocity float64 `yaml:"sleep_velocity"`
}

// DefaultConfig is a hollow 0.8 kg ball of 12 inches diameter
func DefaultConfig() Config {
	return Config{
		Mass:              0.8,
		Radius:            0.1524,
		Mode:              ModeQuaternion,
		AnimationDuration: 0.15,
		Host: HostConfig{
			AngularDamping: 0.1,
			SleepTime:      0.1,
			SleepVelocity:  0.05,
		},
		LogLevel: "info",
	}
}

// LoadConfig decodes a YAML document over DefaultConfig and validates it
func LoadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

func (c Config) Validate() error {
	if !(c.Mass > 0) {
		return fmt.Errorf("%w: mass must be positive, got %v", ErrInvalidConfig, c.Mass)
	}
	if !(c.Radius > 0) {
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidConfig, c.Radius)
	}
	if !c.Mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %v", ErrInvalidConfig, c.Mode)
	}
	if c.AnimationDuration < 0 {
		return fmt.Errorf("%w: animation_duration must not be negative", ErrInvalidConfig)
	}
	if c.Host.AngularDamping < 0 || c.Host.SleepTime < 0 || c.Host.SleepVelocity < 0 {
		return fmt.Errorf("%w: host settings must not be negative", ErrInvalidConfig)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}
