package energy

import (
	"fmt"
	"math"
)

// Surface is a scalar energy landscape over a coordinate space. Classical
// and quantum models both reduce to it so the analyzer stays model-agnostic.
// Implementations must be safe for concurrent EnergyAt calls.
type Surface interface {
	Name() string
	Dim() int
	EnergyAt(x Coord) (float64, error)
}

// Func adapts a plain function to Surface.
type Func struct {
	Label string
	N     int
	F     func(x Coord) (float64, error)
}

func (f Func) Name() string                      { return f.Label }
func (f Func) Dim() int                          { return f.N }
func (f Func) EnergyAt(x Coord) (float64, error) { return f.F(x) }

// Func1D wraps an infallible one-dimensional function.
func Func1D(label string, f func(x float64) float64) Func {
	return Func{Label: label, N: 1, F: func(x Coord) (float64, error) { return f(x[0]), nil }}
}

// Term is one weighted summand of a combined surface.
type Term struct {
	Weight  float64
	Surface Surface
}

type combined struct {
	name  string
	dim   int
	terms []Term
}

// Combine builds the weighted sum of surfaces sharing one coordinate space.
func Combine(name string, terms ...Term) (Surface, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: combine %q: no terms", ErrInvalidConfiguration, name)
	}
	dim := terms[0].Surface.Dim()
	for _, t := range terms[1:] {
		if t.Surface.Dim() != dim {
			return nil, fmt.Errorf("%w: combine %q: %s has dim %d, want %d",
				ErrDimensionMismatch, name, t.Surface.Name(), t.Surface.Dim(), dim)
		}
	}
	return &combined{name: name, dim: dim, terms: append([]Term(nil), terms...)}, nil
}

func (c *combined) Name() string { return c.name }
func (c *combined) Dim() int     { return c.dim }

func (c *combined) EnergyAt(x Coord) (float64, error) {
	sum := 0.0
	for _, t := range c.terms {
		e, err := t.Surface.EnergyAt(x)
		if err != nil {
			return 0, err
		}
		sum += t.Weight * e
	}
	return sum, nil
}

// SampleLine evaluates a one-dimensional surface at n evenly spaced points
// of [lo, hi]. Points where evaluation fails are NaN.
func SampleLine(s Surface, lo, hi float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	out := make([]float64, n)
	for i := range out {
		x := lo + (hi-lo)*float64(i)/float64(n-1)
		e, err := s.EnergyAt(Coord{x})
		if err != nil {
			e = math.NaN()
		}
		out[i] = e
	}
	return out
}
