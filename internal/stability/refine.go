package stability

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/eqlab/internal/energy"
)

// refine drives a candidate to a point where the gradient norm is below
// tolerance. ok is false when the iteration cap is hit, the bracket
// collapses, or the iterate leaves the domain; err is reserved for surface
// failures.
func (a *analyzer) refine(c candidate) (x energy.Coord, g []float64, iters int, ok bool, err error) {
	switch {
	case c.converged:
		return c.seed, c.gradient, 0, true, nil
	case c.bracketed:
		return a.bisect(c)
	default:
		return a.newton(c)
	}
}

// bisect alternates regula falsi with plain bisection so a one-sided secant
// cannot stall the bracket.
func (a *analyzer) bisect(c candidate) (energy.Coord, []float64, int, bool, error) {
	tol := a.opts.Tolerance
	lo, hi, glo, ghi := c.lo, c.hi, c.glo, c.ghi
	x := c.seed.Clone()
	g := []float64{glo}

	for it := 1; it <= a.opts.MaxIterations; it++ {
		mid := 0.5 * (lo + hi)
		next := mid
		if it%2 == 1 && ghi != glo {
			next = hi - ghi*(hi-lo)/(ghi-glo)
			if !(next > lo && next < hi) {
				next = mid
			}
		}
		x = energy.Coord{next}

		var err error
		if g, err = a.gradient(x); err != nil {
			return nil, nil, it, false, err
		}
		if math.Abs(g[0]) < tol {
			return x, g, it, true, nil
		}
		if math.Signbit(g[0]) == math.Signbit(glo) {
			lo, glo = next, g[0]
		} else {
			hi, ghi = next, g[0]
		}
		if hi-lo <= 1e-15*math.Max(1, math.Abs(next)) {
			return x, g, it, false, nil
		}
	}
	return x, g, a.opts.MaxIterations, false, nil
}

// newton runs bounded Newton steps on the gradient. Each step is clipped to
// one grid cell per axis so a poor Hessian cannot throw the iterate far from
// its seed.
func (a *analyzer) newton(c candidate) (energy.Coord, []float64, int, bool, error) {
	tol := a.opts.Tolerance
	x := c.seed.Clone()
	g := c.gradient
	n := len(x)

	for it := 1; it <= a.opts.MaxIterations; it++ {
		e, err := a.energy(x)
		if err != nil {
			return nil, nil, it, false, err
		}
		hess, err := a.hessian(x, e)
		if err != nil {
			return nil, nil, it, false, err
		}

		h := mat.NewDense(n, n, nil)
		for i := range hess {
			h.SetRow(i, hess[i])
		}
		rhs := mat.NewVecDense(n, nil)
		for i := range g {
			rhs.SetVec(i, -g[i])
		}
		var dx mat.VecDense
		if err := dx.SolveVec(h, rhs); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) {
				return x, g, it, false, nil
			}
		}

		for i := 0; i < n; i++ {
			step := dx.AtVec(i)
			if math.IsNaN(step) {
				return x, g, it, false, nil
			}
			x[i] += math.Max(-a.cell[i], math.Min(a.cell[i], step))
		}
		if !a.domain.Contains(x) {
			return x, g, it, false, nil
		}

		if g, err = a.gradient(x); err != nil {
			return nil, nil, it, false, err
		}
		if energy.Coord(g).Norm() < tol {
			return x, g, it, true, nil
		}
	}
	return x, g, a.opts.MaxIterations, false, nil
}
