// Package stability locates critical points of an energy surface and
// classifies them from the eigenvalues of the finite-difference Hessian.
package stability

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync/atomic"

	"github.com/san-kum/eqlab/internal/energy"
)

type analyzer struct {
	surface   energy.Surface
	domain    energy.Domain
	opts      Options
	step      []float64
	curvature []float64
	cell      []float64
	evals     atomic.Int64
}

type sample struct {
	e float64
	g []float64
}

type candidate struct {
	seed      energy.Coord
	lo, hi    float64 // bracket, one-dimensional only
	glo, ghi  float64
	bracketed bool
	converged bool
	gradient  []float64
}

// Analyze finds the critical points of s inside d.
//
// The domain and options are validated before the surface is touched.
// Errors returned by the surface are propagated unchanged; candidates that
// fail to refine are dropped and recorded in Result.Warnings instead.
//
// Every interior sample whose gradient is already below tolerance becomes a
// critical point, so a flat plateau yields one Indeterminate point per grid
// sample rather than a single region.
func Analyze(ctx context.Context, s energy.Surface, d energy.Domain, opts Options) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if s.Dim() != d.Dim() {
		return nil, fmt.Errorf("%w: surface %s has %d coordinates, domain has %d",
			energy.ErrDimensionMismatch, s.Name(), s.Dim(), d.Dim())
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	a := &analyzer{surface: s, domain: d, opts: opts}
	for i := 0; i < d.Dim(); i++ {
		scale := math.Max(1, d.Span(i))
		step, curv := opts.Step, opts.CurvatureStep
		if step <= 0 {
			step = 1e-5 * scale
		}
		if curv <= 0 {
			curv = 1e-4 * scale
		}
		a.step = append(a.step, step)
		a.curvature = append(a.curvature, curv)
		a.cell = append(a.cell, d.Span(i)/float64(d.Resolution))
	}

	samples, err := a.sampleGrid(ctx)
	if err != nil {
		return nil, err
	}

	var cands []candidate
	if d.Dim() == 1 {
		cands = a.brackets(samples)
	} else {
		cands = a.seeds(samples)
	}

	res := &Result{
		Model:     s.Name(),
		Tolerance: opts.Tolerance,
		Samples:   len(samples),
	}

	points := make([]CriticalPoint, 0, len(cands))
	for _, c := range cands {
		x, g, iters, ok, err := a.refine(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			w := Warning{Near: x, Iterations: iters, Residual: energy.Coord(g).Norm(), Reason: "refinement did not reach tolerance"}
			if !d.Contains(x) {
				w.Reason = "refinement left the domain"
			}
			res.Warnings = append(res.Warnings, w)
			opts.Logger.Debug("dropped critical point candidate",
				"model", s.Name(), "near", []float64(x), "iterations", iters, "residual", w.Residual, "reason", w.Reason)
			continue
		}

		p, err := a.characterize(x, g, iters)
		if err != nil {
			return nil, err
		}
		if d.NearBoundary(x, opts.Tolerance) {
			if opts.IncludeBoundary {
				res.Boundary = append(res.Boundary, BoundaryExtremum{
					Coord: p.Coord, Energy: p.Energy, Gradient: p.Gradient, Kind: kindOf(p.Class),
				})
			}
			continue
		}
		points = append(points, p)
	}

	if opts.IncludeBoundary {
		res.Boundary = append(res.Boundary, a.boundaryExtrema(samples)...)
		res.Boundary = mergeBoundary(res.Boundary, opts.Tolerance)
	}
	res.Points = merge(points, opts.Tolerance)
	slices.SortFunc(res.Warnings, func(x, y Warning) int { return x.Near.Compare(y.Near) })
	res.Evaluations = a.evals.Load()

	opts.Logger.Debug("stability analysis complete",
		"model", s.Name(), "samples", res.Samples, "points", len(res.Points),
		"boundary", len(res.Boundary), "warnings", len(res.Warnings), "evaluations", res.Evaluations)
	return res, nil
}

func (a *analyzer) energy(x energy.Coord) (float64, error) {
	a.evals.Add(1)
	return a.surface.EnergyAt(x)
}

// sampleGrid evaluates energy and gradient at every grid point. Sampling is
// an order-free parallel map; each worker writes only its own slots.
func (a *analyzer) sampleGrid(ctx context.Context) ([]sample, error) {
	samples := make([]sample, a.domain.Points())
	err := energy.ParallelFor(ctx, len(samples), 8, a.opts.Workers, func(start, end int) error {
		for flat := start; flat < end; flat++ {
			x := a.domain.At(a.domain.Index(flat))
			e, err := a.energy(x)
			if err != nil {
				return err
			}
			g, err := a.gradient(x)
			if err != nil {
				return err
			}
			samples[flat] = sample{e: e, g: g}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// brackets finds one-dimensional candidates: interior samples whose gradient
// is already below tolerance, and cells across which the gradient changes sign.
func (a *analyzer) brackets(samples []sample) []candidate {
	tol := a.opts.Tolerance
	n := a.domain.Resolution
	exact := make([]bool, n+1)
	var out []candidate

	for k := 1; k < n; k++ {
		if g := samples[k].g[0]; math.Abs(g) < tol {
			exact[k] = true
			out = append(out, candidate{
				seed:      energy.Coord{a.domain.Coordinate(0, k)},
				converged: true,
				gradient:  []float64{g},
			})
		}
	}
	for k := 0; k < n; k++ {
		if exact[k] || exact[k+1] {
			continue
		}
		g0, g1 := samples[k].g[0], samples[k+1].g[0]
		if g0*g1 < 0 {
			lo, hi := a.domain.Coordinate(0, k), a.domain.Coordinate(0, k+1)
			out = append(out, candidate{
				seed:      energy.Coord{0.5 * (lo + hi)},
				lo:        lo,
				hi:        hi,
				glo:       g0,
				ghi:       g1,
				bracketed: true,
			})
		}
	}
	return out
}

// seeds finds N-dimensional candidates: interior samples where the gradient
// norm is a discrete local minimum over the axis neighbours.
func (a *analyzer) seeds(samples []sample) []candidate {
	tol := a.opts.Tolerance
	norms := make([]float64, len(samples))
	for i, s := range samples {
		norms[i] = energy.Coord(s.g).Norm()
	}

	var out []candidate
	for flat := range samples {
		idx := a.domain.Index(flat)
		if a.domain.OnBoundary(idx) {
			continue
		}
		local := true
		for axis := range idx {
			for _, delta := range []int{-1, 1} {
				idx[axis] += delta
				if norms[a.domain.Flat(idx)] < norms[flat] {
					local = false
				}
				idx[axis] -= delta
			}
		}
		if !local {
			continue
		}
		out = append(out, candidate{
			seed:      a.domain.At(idx),
			converged: norms[flat] < tol,
			gradient:  samples[flat].g,
		})
	}
	return out
}

// boundaryExtrema reports boundary samples that are strict discrete extrema
// over their grid neighbours, or whose gradient is already below tolerance.
func (a *analyzer) boundaryExtrema(samples []sample) []BoundaryExtremum {
	var out []BoundaryExtremum
	for flat, s := range samples {
		idx := a.domain.Index(flat)
		if !a.domain.OnBoundary(idx) {
			continue
		}
		lower, higher := true, true
		for axis := range idx {
			for _, delta := range []int{-1, 1} {
				k := idx[axis] + delta
				if k < 0 || k > a.domain.Resolution {
					continue
				}
				idx[axis] = k
				e := samples[a.domain.Flat(idx)].e
				idx[axis] -= delta
				if e <= s.e {
					lower = false
				}
				if e >= s.e {
					higher = false
				}
			}
		}
		kind := BoundaryStationary
		switch {
		case lower:
			kind = BoundaryMinimum
		case higher:
			kind = BoundaryMaximum
		case energy.Coord(s.g).Norm() >= a.opts.Tolerance:
			continue
		}
		out = append(out, BoundaryExtremum{Coord: a.domain.At(idx), Energy: s.e, Gradient: s.g, Kind: kind})
	}
	return out
}

// characterize evaluates energy and Hessian at a refined point.
func (a *analyzer) characterize(x energy.Coord, g []float64, iters int) (CriticalPoint, error) {
	e, err := a.energy(x)
	if err != nil {
		return CriticalPoint{}, err
	}
	hess, err := a.hessian(x, e)
	if err != nil {
		return CriticalPoint{}, err
	}
	eig := eigenvalues(hess)
	return CriticalPoint{
		Coord:       x,
		Energy:      e,
		Gradient:    g,
		Hessian:     hess,
		Eigenvalues: eig,
		Class:       Classify(eig, a.opts.Tolerance),
		Iterations:  iters,
	}, nil
}

func kindOf(c Class) ExtremumKind {
	switch c {
	case Stable:
		return BoundaryMinimum
	case Unstable:
		return BoundaryMaximum
	default:
		return BoundaryStationary
	}
}

// merge collapses points closer than tol, keeping the smaller residual, and
// returns them in lexicographic coordinate order.
func merge(points []CriticalPoint, tol float64) []CriticalPoint {
	slices.SortFunc(points, func(x, y CriticalPoint) int { return x.Coord.Compare(y.Coord) })
	out := make([]CriticalPoint, 0, len(points))
	for _, p := range points {
		dup := -1
		for i := range out {
			if out[i].Coord.Distance(p.Coord) <= tol {
				dup = i
				break
			}
		}
		switch {
		case dup < 0:
			out = append(out, p)
		case p.Residual() < out[dup].Residual():
			out[dup] = p
		}
	}
	slices.SortFunc(out, func(x, y CriticalPoint) int { return x.Coord.Compare(y.Coord) })
	return out
}

func mergeBoundary(points []BoundaryExtremum, tol float64) []BoundaryExtremum {
	slices.SortFunc(points, func(x, y BoundaryExtremum) int { return x.Coord.Compare(y.Coord) })
	out := make([]BoundaryExtremum, 0, len(points))
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Coord.Distance(p.Coord) <= tol {
			continue
		}
		out = append(out, p)
	}
	return out
}
