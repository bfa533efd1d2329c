package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/eqlab/internal/batch"
	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/engine"
	"github.com/san-kum/eqlab/internal/quantum"
	"github.com/san-kum/eqlab/internal/stability"
)

const (
	DefaultModel      = "harmonic"
	DefaultMin        = -5.0
	DefaultMax        = 5.0
	DefaultResolution = 200
	DefaultLevels     = 1
	DefaultSeed       = 7
	UnitsNatural      = "natural"
	UnitsSI           = "si"
)

// Config is one run file: which model to evaluate, with which parameters,
// over which domain, and how the numerical methods are tuned.
type Config struct {
	Model           string             `yaml:"model"`
	Kind            string             `yaml:"kind"`
	Params          map[string]float64 `yaml:"params,omitempty"`
	Domain          DomainConfig       `yaml:"domain"`
	Tolerance       float64            `yaml:"tolerance"`
	MaxIterations   int                `yaml:"max_iterations"`
	Levels          int                `yaml:"levels"`
	Scan            []string           `yaml:"scan,omitempty"`
	IncludeBoundary bool               `yaml:"include_boundary"`
	Workers         int                `yaml:"workers"`
	Seed            int64              `yaml:"seed"`
	Units           string             `yaml:"units"`
	Quantum         QuantumConfig      `yaml:"quantum"`
	Sweep           []batch.Axis       `yaml:"sweep,omitempty"`
}

type DomainConfig struct {
	Min        []float64 `yaml:"min"`
	Max        []float64 `yaml:"max"`
	Resolution int       `yaml:"resolution"`
}

type QuantumConfig struct {
	Resolution    int     `yaml:"resolution"`
	Tolerance     float64 `yaml:"tolerance"`
	NoExtrapolate bool    `yaml:"no_extrapolate"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: DefaultModel,
		Kind:  string(engine.Classical),
		Domain: DomainConfig{
			Min:        []float64{DefaultMin},
			Max:        []float64{DefaultMax},
			Resolution: DefaultResolution,
		},
		Tolerance:     stability.DefaultTolerance,
		MaxIterations: stability.DefaultMaxIterations,
		Levels:        DefaultLevels,
		Seed:          DefaultSeed,
		Units:         UnitsNatural,
		Quantum: QuantumConfig{
			Resolution: quantum.DefaultResolution,
			Tolerance:  quantum.DefaultTolerance,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Clone is a deep copy, so presets can be customized without aliasing.
func (c *Config) Clone() *Config {
	out := *c
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	out.Domain.Min = append([]float64(nil), c.Domain.Min...)
	out.Domain.Max = append([]float64(nil), c.Domain.Max...)
	out.Scan = append([]string(nil), c.Scan...)
	out.Sweep = make([]batch.Axis, len(c.Sweep))
	for i, a := range c.Sweep {
		out.Sweep[i] = batch.Axis{Name: a.Name, Values: append([]float64(nil), a.Values...)}
	}
	return &out
}

func (c *Config) GetKind() (engine.Kind, error) { return engine.ParseKind(c.Kind) }

func (c *Config) GetDomain() (energy.Domain, error) {
	return energy.NewDomain(c.Domain.Min, c.Domain.Max, c.Domain.Resolution)
}

func (c *Config) GetConstants() (energy.Constants, error) {
	switch strings.ToLower(c.Units) {
	case "", UnitsNatural:
		return energy.NaturalUnits(), nil
	case UnitsSI:
		return energy.SI(), nil
	}
	return energy.Constants{}, fmt.Errorf("%w: unknown unit system %q", energy.ErrInvalidConfiguration, c.Units)
}

func (c *Config) GetAnalyzerOptions() stability.Options {
	return stability.Options{
		Tolerance:       c.Tolerance,
		MaxIterations:   c.MaxIterations,
		IncludeBoundary: c.IncludeBoundary,
		Workers:         c.Workers,
	}
}

func (c *Config) GetGridOptions() quantum.GridOptions {
	return quantum.GridOptions{
		Resolution:    c.Quantum.Resolution,
		Tolerance:     c.Quantum.Tolerance,
		NoExtrapolate: c.Quantum.NoExtrapolate,
	}
}

// GetEngineOptions are the engine settings implied by the run file.
func (c *Config) GetEngineOptions() ([]engine.Option, error) {
	consts, err := c.GetConstants()
	if err != nil {
		return nil, err
	}
	return []engine.Option{
		engine.WithConstants(consts),
		engine.WithGrid(c.GetGridOptions()),
		engine.WithWorkers(c.Workers),
		engine.WithRuggedSeed(c.Seed),
	}, nil
}

// GetSweep builds the batch sweep described by the sweep axes.
func (c *Config) GetSweep() (*batch.Sweep, error) {
	kind, err := c.GetKind()
	if err != nil {
		return nil, err
	}
	d, err := c.GetDomain()
	if err != nil {
		return nil, err
	}
	if len(c.Sweep) == 0 {
		return nil, fmt.Errorf("%w: %s has no sweep axes", energy.ErrInvalidConfiguration, c.Model)
	}
	return &batch.Sweep{
		Kind:    kind,
		Model:   c.Model,
		Base:    c.Params,
		Axes:    c.Sweep,
		Scan:    c.Scan,
		Domain:  d,
		Options: c.GetAnalyzerOptions(),
		Workers: c.Workers,
	}, nil
}
