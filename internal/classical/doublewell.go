package classical

import (
	"math"

	"github.com/san-kum/eqlab/internal/energy"
)

// DoubleWell models a particle in the bistable potential a·x⁴ − b·x².
// Minima sit at ±√(b/2a) separated by a barrier of height b²/4a at x = 0.
type DoubleWell struct{}

func NewDoubleWell() *DoubleWell { return &DoubleWell{} }

func (d *DoubleWell) Name() string          { return "double_well" }
func (d *DoubleWell) Coordinates() []string { return []string{"x"} }

func (d *DoubleWell) Params() []energy.ParamSpec {
	return []energy.ParamSpec{
		position("x", "position"),
		positive("a", "J/m⁴", "quartic coefficient", 1),
		{Name: "b", Unit: "J/m²", Doc: "quadratic coefficient", Min: 0, Max: 1e12, Default: 1},
	}
}

func (d *DoubleWell) Energy(cfg energy.Configuration) float64 {
	x := cfg.Get("x")
	x2 := x * x
	return cfg.Get("a")*x2*x2 - cfg.Get("b")*x2
}

// Minima returns the analytic well positions.
func (d *DoubleWell) Minima(cfg energy.Configuration) (float64, float64) {
	m := math.Sqrt(cfg.Get("b") / (2 * cfg.Get("a")))
	return -m, m
}

// Barrier returns the analytic barrier height b²/4a.
func (d *DoubleWell) Barrier(cfg energy.Configuration) float64 {
	b := cfg.Get("b")
	return b * b / (4 * cfg.Get("a"))
}
