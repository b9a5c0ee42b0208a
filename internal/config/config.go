package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModel            = "sir"
	DefaultIntegrator       = "dopri5"
	DefaultAbsTol           = 1e-10
	DefaultRelTol           = 1e-6
	DefaultInitialStep      = 0.01
	DefaultSliderResolution = 1000
	DefaultEnd              = 50.0
)

var ErrInvalid = errors.New("config: invalid scenario")

// Config describes one scenario: a model, how to integrate it and its
// sequence of regimes.
type Config struct {
	Model            string          `yaml:"model"`
	Integrator       string          `yaml:"integrator"`
	AbsTol           float64         `yaml:"abs_tol"`
	RelTol           float64         `yaml:"rel_tol"`
	InitialStep      float64         `yaml:"initial_step"`
	SliderResolution int             `yaml:"slider_resolution"`
	LogLevel         string          `yaml:"log_level"`
	InitialState     []float64       `yaml:"initial_state,omitempty"`
	Sections         []SectionConfig `yaml:"sections"`
}

// SectionConfig is one regime. Params may be omitted to continue with the
// previous section's values.
type SectionConfig struct {
	Start  float64   `yaml:"start"`
	End    float64   `yaml:"end"`
	Params []float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:            DefaultModel,
		Integrator:       DefaultIntegrator,
		AbsTol:           DefaultAbsTol,
		RelTol:           DefaultRelTol,
		InitialStep:      DefaultInitialStep,
		SliderResolution: DefaultSliderResolution,
		LogLevel:         "info",
		Sections:         []SectionConfig{{Start: 0, End: DefaultEnd}},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML scenario over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
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

// Validate checks what can be checked without the model catalog: positive
// numerics and an ordered, contiguous section list starting at zero.
func (c *Config) Validate() error {
	if c.AbsTol <= 0 || c.RelTol <= 0 || c.InitialStep <= 0 {
		return fmt.Errorf("%w: tolerances and initial step must be positive", ErrInvalid)
	}
	if c.SliderResolution <= 0 {
		return fmt.Errorf("%w: slider_resolution must be positive", ErrInvalid)
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalid)
	}
	if c.Sections[0].Start != 0 {
		return fmt.Errorf("%w: first section must start at 0, got %g", ErrInvalid, c.Sections[0].Start)
	}
	for i, s := range c.Sections {
		if s.End < s.Start {
			return fmt.Errorf("%w: section %d ends at %g before it starts at %g", ErrInvalid, i, s.End, s.Start)
		}
		if i == 0 {
			continue
		}
		prev := c.Sections[i-1]
		if s.Start < prev.Start || s.Start > prev.End {
			return fmt.Errorf("%w: section %d starts at %g outside [%g, %g]", ErrInvalid, i, s.Start, prev.Start, prev.End)
		}
	}
	return nil
}

// Clone is a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.InitialState = append([]float64(nil), c.InitialState...)
	out.Sections = make([]SectionConfig, len(c.Sections))
	for i, s := range c.Sections {
		out.Sections[i] = SectionConfig{Start: s.Start, End: s.End, Params: append([]float64(nil), s.Params...)}
	}
	return &out
}
