package energy

import (
	"fmt"
	"math"
)

// Domain is a bounded box in coordinate space. Resolution is the number of
// grid intervals per axis, so each axis carries Resolution+1 samples.
type Domain struct {
	Min        []float64
	Max        []float64
	Resolution int
}

// NewDomain validates and copies the bounds.
func NewDomain(min, max []float64, resolution int) (Domain, error) {
	d := Domain{
		Min:        append([]float64(nil), min...),
		Max:        append([]float64(nil), max...),
		Resolution: resolution,
	}
	if err := d.Validate(); err != nil {
		return Domain{}, err
	}
	return d, nil
}

// Interval is the one-dimensional domain [min, max].
func Interval(min, max float64, resolution int) (Domain, error) {
	return NewDomain([]float64{min}, []float64{max}, resolution)
}

func (d Domain) Validate() error {
	if d.Resolution <= 0 {
		return &DomainError{Axis: -1, Reason: fmt.Sprintf("resolution %d must be > 0", d.Resolution)}
	}
	if len(d.Min) == 0 {
		return &DomainError{Axis: -1, Reason: "no axes"}
	}
	if len(d.Min) != len(d.Max) {
		return &DomainError{Axis: -1, Reason: fmt.Sprintf("%d lower bounds for %d upper bounds", len(d.Min), len(d.Max))}
	}
	for i := range d.Min {
		lo, hi := d.Min[i], d.Max[i]
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return &DomainError{Axis: i, Reason: "bounds must be finite"}
		}
		if lo >= hi {
			return &DomainError{Axis: i, Reason: fmt.Sprintf("min %g must be < max %g", lo, hi)}
		}
	}
	return nil
}

func (d Domain) Dim() int { return len(d.Min) }

// Span is the width of axis i.
func (d Domain) Span(i int) float64 { return d.Max[i] - d.Min[i] }

// Points is the total number of grid samples.
func (d Domain) Points() int {
	n := 1
	for range d.Min {
		n *= d.Resolution + 1
	}
	return n
}

// Coordinate on axis i at grid index k. The endpoints are exact.
func (d Domain) Coordinate(i, k int) float64 {
	if k == d.Resolution {
		return d.Max[i]
	}
	return d.Min[i] + d.Span(i)*float64(k)/float64(d.Resolution)
}

// Index unpacks a flat sample number into per-axis grid indices (axis 0 slowest).
func (d Domain) Index(flat int) []int {
	idx := make([]int, d.Dim())
	n := d.Resolution + 1
	for i := d.Dim() - 1; i >= 0; i-- {
		idx[i] = flat % n
		flat /= n
	}
	return idx
}

// Flat is the inverse of Index.
func (d Domain) Flat(idx []int) int {
	n := d.Resolution + 1
	flat := 0
	for _, k := range idx {
		flat = flat*n + k
	}
	return flat
}

// At returns the coordinate of grid indices idx.
func (d Domain) At(idx []int) Coord {
	c := make(Coord, len(idx))
	for i, k := range idx {
		c[i] = d.Coordinate(i, k)
	}
	return c
}

// OnBoundary reports whether any grid index sits on a domain face.
func (d Domain) OnBoundary(idx []int) bool {
	for _, k := range idx {
		if k == 0 || k == d.Resolution {
			return true
		}
	}
	return false
}

// Contains reports whether x lies in the closed box.
func (d Domain) Contains(x Coord) bool {
	if len(x) != d.Dim() {
		return false
	}
	for i, v := range x {
		if v < d.Min[i] || v > d.Max[i] {
			return false
		}
	}
	return true
}

// NearBoundary reports whether x lies within tol of any face.
func (d Domain) NearBoundary(x Coord, tol float64) bool {
	for i, v := range x {
		if v-d.Min[i] <= tol || d.Max[i]-v <= tol {
			return true
		}
	}
	return false
}
