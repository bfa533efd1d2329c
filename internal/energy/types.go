package energy

import (
	"math"
	"slices"
)

// Coord is a point in coordinate space.
type Coord []float64

func (c Coord) Clone() Coord {
	out := make(Coord, len(c))
	copy(out, c)
	return out
}

func (c Coord) IsValid() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (c Coord) Norm() float64 {
	sum := 0.0
	for _, v := range c {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (c Coord) Add(other Coord) Coord {
	result := make(Coord, len(c))
	for i := range c {
		if i < len(other) {
			result[i] = c[i] + other[i]
		} else {
			result[i] = c[i]
		}
	}
	return result
}

func (c Coord) Sub(other Coord) Coord {
	result := make(Coord, len(c))
	for i := range c {
		if i < len(other) {
			result[i] = c[i] - other[i]
		} else {
			result[i] = c[i]
		}
	}
	return result
}

func (c Coord) Scale(factor float64) Coord {
	result := make(Coord, len(c))
	for i := range c {
		result[i] = c[i] * factor
	}
	return result
}

// Distance is the Euclidean distance between two coordinates of equal length.
func (c Coord) Distance(other Coord) float64 {
	return c.Sub(other).Norm()
}

// Compare orders coordinates lexicographically.
func (c Coord) Compare(other Coord) int {
	return slices.Compare(c, other)
}
