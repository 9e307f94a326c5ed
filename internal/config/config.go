package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/spring"
)

const (
	DefaultTimestep  = spring.DefaultSimulationTimestep
	DefaultMaxFrames = 100000
	DefaultLooper    = LooperBatch
)

// Looper kinds.
const (
	LooperBatch     = "batch"
	LooperStep      = "step"
	LooperAnimation = "animation"
)

// Spring parameter kinds.
const (
	KindOrigami  = "origami"
	KindBouncy   = "bouncy"
	KindRaw      = "raw"
	KindCoasting = "coasting"
)

var (
	ErrUnknownLooper = errors.New("config: unknown looper")
	ErrUnknownKind   = errors.New("config: unknown spring kind")
	ErrNoSprings     = errors.New("config: scenario has no springs")
	ErrBadTimestep   = errors.New("config: timestep must be positive")
	ErrBadMaxFrames  = errors.New("config: max frames must not be negative")
)

type Config struct {
	Name       string        `yaml:"name"`
	Looper     string        `yaml:"looper"`
	TimestepMs float64       `yaml:"timestep_ms"`
	// MaxFrames caps the loops of a run. Zero means no cap.
	MaxFrames  int           `yaml:"max_frames"`
	Springs    []SpringSpec  `yaml:"springs"`
	Logging    LoggingConfig `yaml:"logging"`
}

type SpringSpec struct {
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"`
	Tension    float64 `yaml:"tension"`
	Friction   float64 `yaml:"friction"`
	Bounciness float64 `yaml:"bounciness"`
	Speed      float64 `yaml:"speed"`

	From     float64 `yaml:"from"`
	To       float64 `yaml:"to"`
	Velocity float64 `yaml:"velocity"`

	OvershootClamping         bool    `yaml:"overshoot_clamping"`
	RestSpeedThreshold        float64 `yaml:"rest_speed_threshold"`
	RestDisplacementThreshold float64 `yaml:"rest_displacement_threshold"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "default",
		Looper:     DefaultLooper,
		TimestepMs: DefaultTimestep,
		MaxFrames:  DefaultMaxFrames,
		Springs: []SpringSpec{
			DefaultSpringSpec("value"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func DefaultSpringSpec(name string) SpringSpec {
	return SpringSpec{
		Name:                      name,
		Kind:                      KindOrigami,
		Tension:                   40,
		Friction:                  7,
		To:                        1,
		RestSpeedThreshold:        spring.DefaultRestSpeedThreshold,
		RestDisplacementThreshold: spring.DefaultRestDisplacementThreshold,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML scenario over the defaults and fills in per-spring
// defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Springs = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applySpringDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applySpringDefaults() {
	for i := range c.Springs {
		s := &c.Springs[i]
		if s.Kind == "" {
			s.Kind = KindOrigami
		}
		if s.Name == "" {
			s.Name = fmt.Sprintf("spring%d", i)
		}
		if s.RestSpeedThreshold == 0 {
			s.RestSpeedThreshold = spring.DefaultRestSpeedThreshold
		}
		if s.RestDisplacementThreshold == 0 {
			s.RestDisplacementThreshold = spring.DefaultRestDisplacementThreshold
		}
	}
}

func (c *Config) Validate() error {
	switch c.Looper {
	case LooperBatch, LooperStep, LooperAnimation:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLooper, c.Looper)
	}
	if c.TimestepMs <= 0 {
		return fmt.Errorf("%w, got %f", ErrBadTimestep, c.TimestepMs)
	}
	if c.MaxFrames < 0 {
		return fmt.Errorf("%w, got %d", ErrBadMaxFrames, c.MaxFrames)
	}
	if len(c.Springs) == 0 {
		return ErrNoSprings
	}
	for _, s := range c.Springs {
		if _, err := s.SpringConfig(); err != nil {
			return fmt.Errorf("spring %s: %w", s.Name, err)
		}
	}
	return nil
}

// SpringConfig converts the scenario parameters to physical units.
func (s SpringSpec) SpringConfig() (spring.Config, error) {
	switch s.Kind {
	case KindOrigami, "":
		return spring.ConfigFromOrigamiTensionAndFriction(s.Tension, s.Friction), nil
	case KindBouncy:
		return spring.ConfigFromBouncinessAndSpeed(s.Bounciness, s.Speed), nil
	case KindRaw:
		return spring.NewConfig(s.Tension, s.Friction), nil
	case KindCoasting:
		return spring.CoastingConfigWithOrigamiFriction(s.Friction), nil
	default:
		return spring.Config{}, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}
