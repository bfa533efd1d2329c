package stability

import (
	"log/slog"
	"math"

	"github.com/san-kum/eqlab/internal/energy"
)

const (
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

// Class is the stability of a critical point, derived from the signs of the
// Hessian eigenvalues.
type Class int

const (
	Indeterminate Class = iota
	Stable
	Unstable
	Saddle
)

func (c Class) String() string {
	switch c {
	case Stable:
		return "Stable"
	case Unstable:
		return "Unstable"
	case Saddle:
		return "Saddle"
	default:
		return "Indeterminate"
	}
}

// Classify maps Hessian eigenvalues to a Class. Any eigenvalue within tol of
// zero makes the test inconclusive.
func Classify(eigenvalues []float64, tol float64) Class {
	pos, neg := 0, 0
	for _, l := range eigenvalues {
		if math.Abs(l) < tol || math.IsNaN(l) {
			return Indeterminate
		}
		if l > 0 {
			pos++
		} else {
			neg++
		}
	}
	switch {
	case pos == 0 && neg == 0:
		return Indeterminate
	case neg == 0:
		return Stable
	case pos == 0:
		return Unstable
	default:
		return Saddle
	}
}

// CriticalPoint is an interior coordinate where the numerical gradient
// vanishes within tolerance.
type CriticalPoint struct {
	Coord       energy.Coord
	Energy      float64
	Gradient    []float64
	Hessian     [][]float64
	Eigenvalues []float64
	Class       Class
	Iterations  int
}

func (p CriticalPoint) Residual() float64 { return energy.Coord(p.Gradient).Norm() }

// Curvature is the second derivative of a one-dimensional point.
func (p CriticalPoint) Curvature() float64 {
	if len(p.Hessian) == 0 {
		return math.NaN()
	}
	return p.Hessian[0][0]
}

// ExtremumKind describes a point on the domain boundary.
type ExtremumKind int

const (
	BoundaryStationary ExtremumKind = iota
	BoundaryMinimum
	BoundaryMaximum
)

func (k ExtremumKind) String() string {
	switch k {
	case BoundaryMinimum:
		return "BoundaryMinimum"
	case BoundaryMaximum:
		return "BoundaryMaximum"
	default:
		return "BoundaryStationary"
	}
}

// BoundaryExtremum is an extremum on a domain face. These are reported only
// when Options.IncludeBoundary is set and never appear among Points.
type BoundaryExtremum struct {
	Coord    energy.Coord
	Energy   float64
	Gradient []float64
	Kind     ExtremumKind
}

// Warning records a candidate that was dropped during refinement.
type Warning struct {
	Near       energy.Coord
	Iterations int
	Residual   float64
	Reason     string
}

// Result is produced fresh by every Analyze call and owned by the caller.
type Result struct {
	Model       string
	Tolerance   float64
	Samples     int
	Evaluations int64
	Points      []CriticalPoint
	Boundary    []BoundaryExtremum
	Warnings    []Warning
}

// Count returns the number of points of class c.
func (r *Result) Count(c Class) int {
	n := 0
	for _, p := range r.Points {
		if p.Class == c {
			n++
		}
	}
	return n
}

// Global returns the lowest-energy stable point.
func (r *Result) Global() (CriticalPoint, bool) {
	var best CriticalPoint
	found := false
	for _, p := range r.Points {
		if p.Class == Stable && (!found || p.Energy < best.Energy) {
			best, found = p, true
		}
	}
	return best, found
}

// Options tunes Analyze. The zero value selects every default; negative or
// non-finite values are rejected.
type Options struct {
	// Tolerance bounds the gradient norm of a critical point, the distance
	// under which two points merge, and the eigenvalue magnitude treated as zero.
	Tolerance     float64
	MaxIterations int
	// Step is the finite-difference step for gradients; 0 selects
	// 1e-5·max(1, span) per axis.
	Step float64
	// CurvatureStep is the step for second derivatives; 0 selects
	// 1e-4·max(1, span) per axis.
	CurvatureStep   float64
	IncludeBoundary bool
	// Workers bounds sampling concurrency; 0 means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

// validate rejects option values that are set but unusable. Zero values are
// left for withDefaults.
func (o Options) validate() error {
	checks := []struct {
		param string
		value float64
	}{
		{"tolerance", o.Tolerance},
		{"step", o.Step},
		{"curvature_step", o.CurvatureStep},
	}
	for _, c := range checks {
		if c.value < 0 || math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &energy.ConfigError{Model: "analyzer", Param: c.param, Value: c.value, Reason: "must be finite and non-negative"}
		}
	}
	if o.MaxIterations < 0 {
		return &energy.ConfigError{Model: "analyzer", Param: "max_iterations", Value: float64(o.MaxIterations), Reason: "must not be negative"}
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
