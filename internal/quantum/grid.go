package quantum

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/eqlab/internal/classical"
	"github.com/san-kum/eqlab/internal/energy"
)

const (
	DefaultResolution = 200
	DefaultTolerance  = 1e-3
)

// GridOptions controls the finite-difference solver.
type GridOptions struct {
	// Resolution is the number of grid intervals of the coarse solve; the
	// convergence check repeats the solve at twice this resolution.
	Resolution int
	// Tolerance bounds |coarse − fine| per level, scaled by max(1, |fine|).
	Tolerance float64
	// NoExtrapolate reports the fine levels instead of the Richardson
	// estimate (4·fine − coarse)/3.
	NoExtrapolate bool
}

func DefaultGridOptions() GridOptions {
	return GridOptions{Resolution: DefaultResolution, Tolerance: DefaultTolerance}
}

// Grid solves −ħ²/(2m)·ψ'' + V(x)ψ = Eψ for a one-dimensional classical
// potential on a bounded interval with ψ = 0 at both edges. The second
// derivative is the three-point stencil, so levels carry O(h²) error.
type Grid struct {
	potential classical.Model
	domain    energy.Domain
	opts      GridOptions
	addsMass  bool
}

func NewGrid(potential classical.Model, domain energy.Domain, opts GridOptions) (*Grid, error) {
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	name := "grid:" + potential.Name()
	if len(potential.Coordinates()) != 1 || domain.Dim() != 1 {
		return nil, energy.Invalid(name, "grid solver is one-dimensional")
	}
	if opts.Resolution <= 0 {
		opts.Resolution = DefaultResolution
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	g := &Grid{potential: potential, domain: domain, opts: opts, addsMass: true}
	for _, p := range potential.Params() {
		if p.Name == "mass" {
			g.addsMass = false
		}
	}
	return g, nil
}

func (g *Grid) Name() string               { return "grid:" + g.potential.Name() }
func (g *Grid) Domain() energy.Domain      { return g.domain }
func (g *Grid) Options() GridOptions       { return g.opts }
func (g *Grid) Potential() classical.Model { return g.potential }

// Params are the potential's parameters plus the particle mass. The
// coordinate parameter is accepted but ignored: the grid spans it.
func (g *Grid) Params() []energy.ParamSpec {
	specs := g.potential.Params()
	if g.addsMass {
		specs = append(specs, positive("mass", "kg", "particle mass", 1))
	}
	return specs
}

func (g *Grid) Levels(cfg energy.Configuration, n int) ([]float64, error) {
	values := cfg.Values()
	mass := values["mass"]
	if g.addsMass {
		delete(values, "mass")
	}
	base, err := classical.Configure(g.potential, values, cfg.Constants())
	if err != nil {
		return nil, err
	}
	v, err := classical.Potential(g.potential, base)
	if err != nil {
		return nil, err
	}

	hbar := cfg.Constants().Hbar
	coarse, err := g.solve(v, hbar, mass, g.opts.Resolution, n)
	if err != nil {
		return nil, err
	}
	fine, err := g.solve(v, hbar, mass, 2*g.opts.Resolution, n)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		diff := fine[i] - coarse[i]
		scale := math.Max(1, math.Abs(fine[i]))
		if math.Abs(diff) > g.opts.Tolerance*scale {
			return nil, &energy.ConvergenceError{
				Method:    g.Name(),
				Level:     i,
				Coarse:    coarse[i],
				Fine:      fine[i],
				Tolerance: g.opts.Tolerance,
			}
		}
		if g.opts.NoExtrapolate {
			out[i] = fine[i]
		} else {
			out[i] = fine[i] + diff/3
		}
	}
	return out, nil
}

// solve diagonalizes the Hamiltonian on resolution intervals and returns the
// n lowest eigenvalues.
func (g *Grid) solve(v func(float64) (float64, error), hbar, mass float64, resolution, n int) ([]float64, error) {
	interior := resolution - 1
	if interior < n {
		return nil, energy.Invalid(g.Name(), "resolution %d cannot hold %d levels", resolution, n)
	}

	h := g.domain.Span(0) / float64(resolution)
	kinetic := hbar * hbar / (2 * mass * h * h)

	ham := mat.NewSymDense(interior, nil)
	for i := 0; i < interior; i++ {
		x := g.domain.Min[0] + h*float64(i+1)
		pot, err := v(x)
		if err != nil {
			return nil, err
		}
		ham.SetSym(i, i, 2*kinetic+pot)
		if i+1 < interior {
			ham.SetSym(i, i+1, -kinetic)
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(ham, false); !ok {
		return nil, &energy.ConvergenceError{Method: g.Name() + " eigensolver", Level: -1}
	}
	values := eig.Values(nil)
	slices.Sort(values)
	return values[:n], nil
}
