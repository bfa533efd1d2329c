package engine

import (
	"fmt"
	"slices"

	"github.com/san-kum/eqlab/internal/classical"
	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/quantum"
)

// Kind selects which family of models a name refers to. The same name may
// exist in both: "harmonic" is a classical potential and a quantum spectrum.
type Kind string

const (
	Classical Kind = "classical"
	Quantum   Kind = "quantum"
)

// ParseKind accepts the lower-case kind names used by the CLI and run files.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Classical, Quantum:
		return Kind(s), nil
	case "":
		return Classical, nil
	}
	return "", fmt.Errorf("%w: unknown model kind %q", energy.ErrInvalidConfiguration, s)
}

// GridDomains are the default intervals on which the grid:<potential>
// quantum models are solved. Each keeps the wavefunction well away from the
// Dirichlet walls for the potential's default parameters.
var GridDomains = map[string][2]float64{
	"harmonic":      {-8, 8},
	"double_well":   {-3, 3},
	"morse":         {0.1, 8},
	"lennard_jones": {0.8, 5},
	"pendulum":      {-3, 3},
	"rugged":        {-8, 8},
}

type Registry struct {
	classical map[string]func() classical.Model
	quantum   map[string]func() (quantum.Model, error)
}

func NewRegistry(grid quantum.GridOptions, ruggedSeed int64) *Registry {
	r := &Registry{
		classical: make(map[string]func() classical.Model),
		quantum:   make(map[string]func() (quantum.Model, error)),
	}

	r.classical["harmonic"] = func() classical.Model { return classical.NewHarmonic() }
	r.classical["inverted"] = func() classical.Model { return classical.NewInverted() }
	r.classical["double_well"] = func() classical.Model { return classical.NewDoubleWell() }
	r.classical["morse"] = func() classical.Model { return classical.NewMorse() }
	r.classical["lennard_jones"] = func() classical.Model { return classical.NewLennardJones() }
	r.classical["pendulum"] = func() classical.Model { return classical.NewPendulum() }
	r.classical["harmonic2d"] = func() classical.Model { return classical.NewHarmonic2D() }
	r.classical["saddle2d"] = func() classical.Model { return classical.NewSaddle2D() }
	r.classical["rugged"] = func() classical.Model { return classical.NewRugged(ruggedSeed) }

	r.quantum["harmonic"] = func() (quantum.Model, error) { return quantum.NewHarmonic(), nil }
	r.quantum["box"] = func() (quantum.Model, error) { return quantum.NewBox(), nil }
	r.quantum["morse"] = func() (quantum.Model, error) { return quantum.NewMorse(), nil }

	for name, bounds := range GridDomains {
		potential := r.classical[name]
		r.quantum["grid:"+name] = func() (quantum.Model, error) {
			d, err := energy.Interval(bounds[0], bounds[1], grid.Resolution)
			if err != nil {
				return nil, err
			}
			return quantum.NewGrid(potential(), d, grid)
		}
	}

	return r
}

func (r *Registry) GetClassical(name string) (classical.Model, error) {
	fn, ok := r.classical[name]
	if !ok {
		return nil, energy.Invalid(name, "unknown classical model")
	}
	return fn(), nil
}

func (r *Registry) GetQuantum(name string) (quantum.Model, error) {
	fn, ok := r.quantum[name]
	if !ok {
		return nil, energy.Invalid(name, "unknown quantum model")
	}
	return fn()
}

// List returns the registered names of kind k in sorted order.
func (r *Registry) List(k Kind) []string {
	var names []string
	switch k {
	case Classical:
		for name := range r.classical {
			names = append(names, name)
		}
	case Quantum:
		for name := range r.quantum {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
