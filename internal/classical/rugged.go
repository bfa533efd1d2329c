package classical

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/san-kum/eqlab/internal/energy"
)

const DefaultRuggedSeed = 7

// Rugged is a harmonic bowl roughened by seeded OpenSimplex noise,
// ½k·x² + A·noise(f·x). It produces many shallow minima and maxima for
// stress-testing the analyzer. The noise table is read-only after New.
type Rugged struct {
	seed  int64
	noise opensimplex.Noise
}

func NewRugged(seed int64) *Rugged {
	return &Rugged{seed: seed, noise: opensimplex.New(seed)}
}

func (r *Rugged) Name() string          { return "rugged" }
func (r *Rugged) Seed() int64           { return r.seed }
func (r *Rugged) Coordinates() []string { return []string{"x"} }

func (r *Rugged) Params() []energy.ParamSpec {
	return []energy.ParamSpec{
		position("x", "position"),
		positive("k", "N/m", "confining stiffness", 0.2),
		{Name: "amplitude", Unit: "J", Doc: "roughness amplitude A", Min: 0, Max: 1e6, Default: 1},
		positive("frequency", "1/m", "roughness frequency f", 1.5),
	}
}

func (r *Rugged) Energy(cfg energy.Configuration) float64 {
	x := cfg.Get("x")
	return 0.5*cfg.Get("k")*x*x + cfg.Get("amplitude")*r.noise.Eval2(cfg.Get("frequency")*x, 0)
}
