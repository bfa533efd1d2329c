// Package engine is the computation core behind the CLI and the explorer.
// It resolves model names, builds validated configurations, and routes
// them to the classical model, the quantum model, or the stability
// analyzer. An Engine holds only immutable reference data and may be shared
// between goroutines.
package engine

import (
	"context"
	"log/slog"

	"github.com/san-kum/eqlab/internal/classical"
	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/quantum"
	"github.com/san-kum/eqlab/internal/stability"
)

type Engine struct {
	consts   energy.Constants
	grid     quantum.GridOptions
	workers  int
	seed     int64
	logger   *slog.Logger
	registry *Registry
}

type Option func(*Engine)

func WithConstants(c energy.Constants) Option { return func(e *Engine) { e.consts = c } }
func WithGrid(o quantum.GridOptions) Option   { return func(e *Engine) { e.grid = o } }
func WithWorkers(n int) Option                { return func(e *Engine) { e.workers = n } }
func WithRuggedSeed(seed int64) Option        { return func(e *Engine) { e.seed = seed } }
func WithLogger(l *slog.Logger) Option        { return func(e *Engine) { e.logger = l } }

func New(opts ...Option) *Engine {
	e := &Engine{
		consts: energy.NaturalUnits(),
		grid:   quantum.DefaultGridOptions(),
		seed:   classical.DefaultRuggedSeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.grid.Resolution <= 0 {
		e.grid.Resolution = quantum.DefaultResolution
	}
	if e.grid.Tolerance <= 0 {
		e.grid.Tolerance = quantum.DefaultTolerance
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	e.registry = NewRegistry(e.grid, e.seed)
	return e
}

func (e *Engine) Constants() energy.Constants      { return e.consts }
func (e *Engine) Registry() *Registry              { return e.registry }
func (e *Engine) Logger() *slog.Logger             { return e.logger }
func (e *Engine) GridOptions() quantum.GridOptions { return e.grid }

// Configure validates values against the named model's declared parameters.
// Missing parameters take their defaults.
func (e *Engine) Configure(kind Kind, model string, values map[string]float64) (energy.Configuration, error) {
	switch kind {
	case Classical:
		m, err := e.registry.GetClassical(model)
		if err != nil {
			return energy.Configuration{}, err
		}
		return classical.Configure(m, values, e.consts)
	case Quantum:
		m, err := e.registry.GetQuantum(model)
		if err != nil {
			return energy.Configuration{}, err
		}
		return quantum.Configure(m, values, e.consts)
	}
	_, err := ParseKind(string(kind))
	return energy.Configuration{}, err
}

// EvaluateClassical returns the closed-form energy of cfg.
func (e *Engine) EvaluateClassical(cfg energy.Configuration) (float64, error) {
	m, err := e.registry.GetClassical(cfg.Model())
	if err != nil {
		return 0, err
	}
	return classical.Evaluate(m, cfg)
}

// EvaluateQuantum returns the lowest levels of cfg in ascending order;
// levels == 0 asks for the ground state only.
func (e *Engine) EvaluateQuantum(cfg energy.Configuration, levels int) ([]float64, error) {
	m, err := e.registry.GetQuantum(cfg.Model())
	if err != nil {
		return nil, err
	}
	out, err := quantum.Evaluate(m, cfg, levels)
	if err != nil {
		e.logger.Debug("quantum evaluation failed", "model", cfg.Model(), "levels", levels, "err", err)
		return nil, err
	}
	return out, nil
}

// ClassicalSurface exposes cfg as a landscape over the model's coordinates.
func (e *Engine) ClassicalSurface(cfg energy.Configuration) (energy.Surface, error) {
	m, err := e.registry.GetClassical(cfg.Model())
	if err != nil {
		return nil, err
	}
	return classical.NewSurface(m, cfg)
}

// QuantumSurface exposes the ground-state energy of cfg as a landscape over
// the scanned parameters.
func (e *Engine) QuantumSurface(cfg energy.Configuration, scan ...string) (energy.Surface, error) {
	m, err := e.registry.GetQuantum(cfg.Model())
	if err != nil {
		return nil, err
	}
	return quantum.NewSurface(m, cfg, scan...)
}

// AnalyzeStability runs the analyzer with tolerance tol; tol == 0 selects
// stability.DefaultTolerance. A negative or non-finite tol fails with
// energy.ErrInvalidConfiguration.
func (e *Engine) AnalyzeStability(ctx context.Context, s energy.Surface, d energy.Domain, tol float64) (*stability.Result, error) {
	opts := stability.DefaultOptions()
	if tol != 0 {
		opts.Tolerance = tol
	}
	return e.Analyze(ctx, s, d, opts)
}

// Analyze is AnalyzeStability with full control over the analyzer options.
// Workers and Logger fall back to the engine's when unset.
func (e *Engine) Analyze(ctx context.Context, s energy.Surface, d energy.Domain, opts stability.Options) (*stability.Result, error) {
	if opts.Workers == 0 {
		opts.Workers = e.workers
	}
	if opts.Logger == nil {
		opts.Logger = e.logger
	}
	res, err := stability.Analyze(ctx, s, d, opts)
	if err != nil {
		e.logger.Debug("stability analysis failed", "model", s.Name(), "err", err)
		return nil, err
	}
	if len(res.Warnings) > 0 {
		e.logger.Info("analysis dropped candidates", "model", res.Model, "warnings", len(res.Warnings))
	}
	return res, nil
}
