// Package quantum computes discrete energy spectra, either from exact
// quantized-level formulas or by diagonalizing a discretized Hamiltonian.
package quantum

import (
	"fmt"
	"math"

	"github.com/san-kum/eqlab/internal/energy"
)

// Model produces the lowest energy levels of a quantum system.
type Model interface {
	Name() string
	Params() []energy.ParamSpec
	// Levels returns the n lowest levels in ascending order. cfg already
	// conforms to Params and n >= 1.
	Levels(cfg energy.Configuration, n int) ([]float64, error)
}

func Configure(m Model, values map[string]float64, consts energy.Constants) (energy.Configuration, error) {
	return energy.NewConfiguration(m.Name(), m.Params(), values, consts)
}

// Evaluate returns the lowest levels of cfg under m. levels == 0 means the
// ground state only.
func Evaluate(m Model, cfg energy.Configuration, levels int) ([]float64, error) {
	if levels < 0 {
		return nil, energy.Invalid(m.Name(), "levels %d must be >= 0", levels)
	}
	if levels == 0 {
		levels = 1
	}
	if err := cfg.Conforms(m.Name(), m.Params()); err != nil {
		return nil, err
	}
	out, err := m.Levels(cfg, levels)
	if err != nil {
		return nil, err
	}
	if len(out) != levels {
		return nil, fmt.Errorf("quantum: %s returned %d levels, want %d", m.Name(), len(out), levels)
	}
	for i, e := range out {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return nil, energy.Invalid(m.Name(), "level %d is not finite", i)
		}
	}
	return out, nil
}

// GroundState is the lowest level of cfg under m.
func GroundState(m Model, cfg energy.Configuration) (float64, error) {
	levels, err := Evaluate(m, cfg, 1)
	if err != nil {
		return 0, err
	}
	return levels[0], nil
}

// Surface reduces a model to a scalar landscape: the ground-state energy as
// a function of the scanned parameters.
type Surface struct {
	model Model
	base  energy.Configuration
	scan  []string
}

func NewSurface(m Model, base energy.Configuration, scan ...string) (*Surface, error) {
	if err := base.Conforms(m.Name(), m.Params()); err != nil {
		return nil, err
	}
	if len(scan) == 0 {
		return nil, energy.Invalid(m.Name(), "no scan parameters")
	}
	for _, name := range scan {
		if _, ok := base.Lookup(name); !ok {
			return nil, &energy.ConfigError{Model: m.Name(), Param: name, Reason: "unknown scan parameter"}
		}
	}
	return &Surface{model: m, base: base, scan: append([]string(nil), scan...)}, nil
}

func (s *Surface) Name() string { return s.model.Name() + "/ground" }
func (s *Surface) Dim() int     { return len(s.scan) }

func (s *Surface) EnergyAt(x energy.Coord) (float64, error) {
	cfg, err := s.base.WithAll(s.scan, x)
	if err != nil {
		return 0, err
	}
	return GroundState(s.model, cfg)
}
