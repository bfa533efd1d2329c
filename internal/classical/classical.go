// Package classical holds closed-form classical potential energy models.
//
// Every model is exact and side-effect free. Coordinates are ordinary
// configuration parameters, so an out-of-range coordinate is rejected like
// any other invalid input rather than clamped.
package classical

import (
	"fmt"
	"math"

	"github.com/san-kum/eqlab/internal/energy"
)

// Model is a closed-form classical energy expression.
type Model interface {
	Name() string
	Params() []energy.ParamSpec
	// Coordinates names the parameters that span the energy landscape.
	Coordinates() []string
	// Energy assumes cfg already conforms to Params.
	Energy(cfg energy.Configuration) float64
}

// Configure builds a validated configuration for m.
func Configure(m Model, values map[string]float64, consts energy.Constants) (energy.Configuration, error) {
	return energy.NewConfiguration(m.Name(), m.Params(), values, consts)
}

// Evaluate returns the energy of cfg under m.
func Evaluate(m Model, cfg energy.Configuration) (float64, error) {
	if err := cfg.Conforms(m.Name(), m.Params()); err != nil {
		return 0, err
	}
	e := m.Energy(cfg)
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return 0, energy.Invalid(m.Name(), "energy is not finite at %v", cfg.Values())
	}
	return e, nil
}

// Surface exposes a model as an energy landscape over its coordinates,
// holding every other parameter at its value in the base configuration.
type Surface struct {
	model  Model
	base   energy.Configuration
	coords []string
}

func NewSurface(m Model, base energy.Configuration) (*Surface, error) {
	if err := base.Conforms(m.Name(), m.Params()); err != nil {
		return nil, err
	}
	return &Surface{model: m, base: base, coords: m.Coordinates()}, nil
}

func (s *Surface) Name() string               { return s.model.Name() }
func (s *Surface) Dim() int                   { return len(s.coords) }
func (s *Surface) Base() energy.Configuration { return s.base }

func (s *Surface) EnergyAt(x energy.Coord) (float64, error) {
	if len(x) != len(s.coords) {
		return 0, fmt.Errorf("%w: %s wants %d coordinates, got %d", energy.ErrDimensionMismatch, s.Name(), len(s.coords), len(x))
	}
	cfg, err := s.base.WithAll(s.coords, x)
	if err != nil {
		return 0, err
	}
	return Evaluate(s.model, cfg)
}

// Potential returns V(x) of a one-dimensional model for the quantum grid solver.
func Potential(m Model, base energy.Configuration) (func(x float64) (float64, error), error) {
	s, err := NewSurface(m, base)
	if err != nil {
		return nil, err
	}
	if s.Dim() != 1 {
		return nil, energy.Invalid(m.Name(), "potential needs one coordinate, model has %d", s.Dim())
	}
	return func(v float64) (float64, error) {
		return s.EnergyAt(energy.Coord{v})
	}, nil
}

// All returns one instance of every built-in model.
func All() []Model {
	return []Model{
		NewHarmonic(),
		NewInverted(),
		NewDoubleWell(),
		NewMorse(),
		NewLennardJones(),
		NewPendulum(),
		NewHarmonic2D(),
		NewSaddle2D(),
		NewRugged(DefaultRuggedSeed),
	}
}

// Coordinate range shared by the unbounded position axes.
const (
	PositionLimit = 1e6
	DefaultAngle  = 4 * math.Pi
)

func position(name, doc string) energy.ParamSpec {
	return energy.ParamSpec{Name: name, Unit: "m", Doc: doc, Min: -PositionLimit, Max: PositionLimit}
}

func positive(name, unit, doc string, def float64) energy.ParamSpec {
	return energy.ParamSpec{Name: name, Unit: unit, Doc: doc, Min: 0, Max: 1e12, Default: def, OpenMin: true}
}
