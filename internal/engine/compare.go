package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/eqlab/internal/classical"
	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/quantum"
	"github.com/san-kum/eqlab/internal/stability"
)

// Comparison sets the classical equilibrium of a potential against the
// quantum ground state of a particle in the same potential.
type Comparison struct {
	Model string
	// Minimum is the lowest stable classical point; Found is false when the
	// domain holds none and the classical side is then undefined.
	Minimum  stability.CriticalPoint
	Found    bool
	Ground   float64
	Levels   []float64
	Analysis *stability.Result
}

// ZeroPoint is the ground-state energy above the classical minimum, or NaN
// without a minimum.
func (c *Comparison) ZeroPoint() float64 {
	if !c.Found {
		return math.NaN()
	}
	return c.Ground - c.Minimum.Energy
}

// Compare analyzes the classical model name over d and solves the grid
// Hamiltonian of the same potential on d. values may include "mass"; it is
// only passed to the classical side when the potential declares it.
func (e *Engine) Compare(ctx context.Context, name string, values map[string]float64, d energy.Domain, levels int) (*Comparison, error) {
	m, err := e.registry.GetClassical(name)
	if err != nil {
		return nil, err
	}
	if len(m.Coordinates()) != 1 {
		return nil, energy.Invalid(name, "comparison needs a one-dimensional potential")
	}

	grid, err := quantum.NewGrid(m, d, e.grid)
	if err != nil {
		return nil, err
	}
	qcfg, err := quantum.Configure(grid, values, e.consts)
	if err != nil {
		return nil, err
	}

	cvalues := qcfg.Values()
	if !declares(m, "mass") {
		delete(cvalues, "mass")
	}
	ccfg, err := classical.Configure(m, cvalues, e.consts)
	if err != nil {
		return nil, err
	}
	surface, err := classical.NewSurface(m, ccfg)
	if err != nil {
		return nil, err
	}
	res, err := e.AnalyzeStability(ctx, surface, d, 0)
	if err != nil {
		return nil, fmt.Errorf("compare %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spectrum, err := quantum.Evaluate(grid, qcfg, levels)
	if err != nil {
		return nil, fmt.Errorf("compare %s: %w", name, err)
	}

	cmp := &Comparison{Model: name, Ground: spectrum[0], Levels: spectrum, Analysis: res}
	cmp.Minimum, cmp.Found = res.Global()
	e.logger.Debug("comparison complete", "model", name, "ground", cmp.Ground, "zero_point", cmp.ZeroPoint())
	return cmp, nil
}

func declares(m classical.Model, param string) bool {
	for _, p := range m.Params() {
		if p.Name == param {
			return true
		}
	}
	return false
}
