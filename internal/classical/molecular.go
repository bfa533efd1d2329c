package classical

import (
	"math"

	"github.com/san-kum/eqlab/internal/energy"
)

// Morse is the diatomic bond potential D·(1 − e^{−α(r−re)})².
type Morse struct{}

func NewMorse() *Morse { return &Morse{} }

func (m *Morse) Name() string          { return "morse" }
func (m *Morse) Coordinates() []string { return []string{"r"} }

func (m *Morse) Params() []energy.ParamSpec {
	return []energy.ParamSpec{
		{Name: "r", Unit: "m", Doc: "bond length", Min: 0, Max: PositionLimit, Default: 1, OpenMin: true},
		positive("depth", "J", "well depth D", 1),
		positive("alpha", "1/m", "well width α", 1),
		positive("re", "m", "equilibrium bond length", 1),
	}
}

func (m *Morse) Energy(cfg energy.Configuration) float64 {
	e := 1 - math.Exp(-cfg.Get("alpha")*(cfg.Get("r")-cfg.Get("re")))
	return cfg.Get("depth") * e * e
}

// LennardJones is the 12-6 pair potential. It diverges at r = 0, which is
// excluded from the declared range; r > 0 is the differentiable region.
type LennardJones struct{}

func NewLennardJones() *LennardJones { return &LennardJones{} }

func (l *LennardJones) Name() string          { return "lennard_jones" }
func (l *LennardJones) Coordinates() []string { return []string{"r"} }

func (l *LennardJones) Params() []energy.ParamSpec {
	return []energy.ParamSpec{
		{Name: "r", Unit: "m", Doc: "pair separation", Min: 0, Max: PositionLimit, Default: 1.5, OpenMin: true},
		positive("epsilon", "J", "well depth ε", 1),
		positive("sigma", "m", "zero-crossing distance σ", 1),
	}
}

func (l *LennardJones) Energy(cfg energy.Configuration) float64 {
	sr := cfg.Get("sigma") / cfg.Get("r")
	sr6 := sr * sr * sr * sr * sr * sr
	return 4 * cfg.Get("epsilon") * (sr6*sr6 - sr6)
}

// Equilibrium is the analytic minimum 2^{1/6}·σ.
func (l *LennardJones) Equilibrium(cfg energy.Configuration) float64 {
	return math.Pow(2, 1.0/6.0) * cfg.Get("sigma")
}
