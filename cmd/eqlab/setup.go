package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/eqlab/internal/batch"
	"github.com/san-kum/eqlab/internal/config"
	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/engine"
)

// loadConfig layers, lowest priority first: defaults, a preset, a run file,
// the model argument, and flags the user actually set.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	domainSet := false

	model := cfg.Model
	if len(args) > 0 {
		model = args[0]
	}

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg, domainSet = p, true
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg, domainSet = loaded, true
	}
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("kind") {
		cfg.Kind = kind
	}
	if flags.Changed("param") {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		for name, raw := range params {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: parameter %s: %v", energy.ErrInvalidConfiguration, name, err)
			}
			cfg.Params[name] = v
		}
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("scan") {
		cfg.Scan = scan
	}
	if flags.Changed("levels") {
		cfg.Levels = levels
	}
	if flags.Changed("units") {
		cfg.Units = units
	}
	if flags.Changed("min") {
		cfg.Domain.Min, domainSet = domainMin, true
	}
	if flags.Changed("max") {
		cfg.Domain.Max, domainSet = domainMax, true
	}
	if flags.Changed("resolution") {
		cfg.Domain.Resolution = resolution
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("max-iter") {
		cfg.MaxIterations = maxIterations
	}
	if flags.Changed("boundary") {
		cfg.IncludeBoundary = boundary
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	if !domainSet {
		if b, ok := engine.GridDomains[cfg.Model]; ok {
			cfg.Domain.Min, cfg.Domain.Max = []float64{b[0]}, []float64{b[1]}
		}
	}
	return cfg, nil
}

func newEngine(cfg *config.Config) (*engine.Engine, error) {
	opts, err := cfg.GetEngineOptions()
	if err != nil {
		return nil, err
	}
	return engine.New(append(opts, engine.WithLogger(slog.Default()))...), nil
}

// landscape is a configured model exposed as a surface, with the domain it
// is analyzed over.
type landscape struct {
	kind    engine.Kind
	config  energy.Configuration
	surface energy.Surface
	domain  energy.Domain
}

func buildLandscape(eng *engine.Engine, cfg *config.Config) (*landscape, error) {
	k, err := cfg.GetKind()
	if err != nil {
		return nil, err
	}
	c, err := eng.Configure(k, cfg.Model, cfg.Params)
	if err != nil {
		return nil, err
	}

	var s energy.Surface
	if k == engine.Quantum {
		s, err = eng.QuantumSurface(c, cfg.Scan...)
	} else {
		s, err = eng.ClassicalSurface(c)
	}
	if err != nil {
		return nil, err
	}

	fitDomain(cfg, s.Dim())
	d, err := cfg.GetDomain()
	if err != nil {
		return nil, err
	}
	return &landscape{kind: k, config: c, surface: s, domain: d}, nil
}

// fitDomain repeats a one-axis domain across every axis of a
// multi-dimensional surface.
func fitDomain(cfg *config.Config, dim int) {
	if dim <= 1 || len(cfg.Domain.Min) != 1 || len(cfg.Domain.Max) != 1 {
		return
	}
	lo, hi := cfg.Domain.Min[0], cfg.Domain.Max[0]
	cfg.Domain.Min = slices.Repeat([]float64{lo}, dim)
	cfg.Domain.Max = slices.Repeat([]float64{hi}, dim)
}

// parseAxes reads --axis name=v1:v2:... flags into sweep axes, ordered by name.
func parseAxes(raw map[string]string) ([]batch.Axis, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)

	axes := make([]batch.Axis, 0, len(names))
	for _, name := range names {
		axis := batch.Axis{Name: name}
		for _, field := range strings.Split(raw[name], ":") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: axis %s: %v", energy.ErrInvalidConfiguration, name, err)
			}
			axis.Values = append(axis.Values, v)
		}
		axes = append(axes, axis)
	}
	return axes, nil
}
