package classical

import (
	"math"

	"github.com/san-kum/eqlab/internal/energy"
)

// Pendulum is the gravitational potential of a rigid pendulum.
type Pendulum struct{}

func NewPendulum() *Pendulum { return &Pendulum{} }

func (p *Pendulum) Name() string          { return "pendulum" }
func (p *Pendulum) Coordinates() []string { return []string{"theta"} }

func (p *Pendulum) Params() []energy.ParamSpec {
	return []energy.ParamSpec{
		{Name: "theta", Unit: "rad", Doc: "angle from the downward vertical", Min: -DefaultAngle, Max: DefaultAngle},
		positive("mass", "kg", "bob mass", 1.0),
		positive("length", "m", "rod length", 1.0),
		positive("gravity", "m/s²", "gravitational acceleration", 9.81),
	}
}

// Energy is m·g·l·(1 − cos θ): stable at θ = 0, unstable at θ = ±π.
func (p *Pendulum) Energy(cfg energy.Configuration) float64 {
	return cfg.Get("mass") * cfg.Get("gravity") * cfg.Get("length") * (1.0 - math.Cos(cfg.Get("theta")))
}
