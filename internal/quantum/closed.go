package quantum

import (
	"math"

	"github.com/san-kum/eqlab/internal/energy"
)

func positive(name, unit, doc string, def float64) energy.ParamSpec {
	return energy.ParamSpec{Name: name, Unit: unit, Doc: doc, Min: 0, Max: 1e12, Default: def, OpenMin: true}
}

// Harmonic is the quantum harmonic oscillator, E_n = ħω(n + ½) with ω = √(k/m).
type Harmonic struct{}

func NewHarmonic() *Harmonic { return &Harmonic{} }

func (h *Harmonic) Name() string { return "harmonic" }

func (h *Harmonic) Params() []energy.ParamSpec {
	return []energy.ParamSpec{
		positive("mass", "kg", "particle mass", 1),
		positive("k", "N/m", "spring constant", 1),
	}
}

// Omega is the angular frequency √(k/m).
func (h *Harmonic) Omega(cfg energy.Configuration) float64 {
	return math.Sqrt(cfg.Get("k") / cfg.Get("mass"))
}

func (h *Harmonic) Levels(cfg energy.Configuration, n int) ([]float64, error) {
	quantum := cfg.Constants().Hbar * h.Omega(cfg)
	out := make([]float64, n)
	for i := range out {
		out[i] = quantum * (float64(i) + 0.5)
	}
	return out, nil
}

// Box is a particle confined to a hard-walled box of width L whose walls are
// held by a spring of stiffness k_w:
//
//	E_n = (n+1)²π²ħ²/(2mL²) + ½·k_w·L²
//
// Scanning L trades confinement energy against wall strain; the ground
// state is minimal at L* = (π²ħ²/(m·k_w))^{1/4}.
type Box struct{}

func NewBox() *Box { return &Box{} }

func (b *Box) Name() string { return "box" }

func (b *Box) Params() []energy.ParamSpec {
	return []energy.ParamSpec{
		positive("mass", "kg", "particle mass", 1),
		positive("length", "m", "box width L", 1),
		{Name: "wall", Unit: "N/m", Doc: "wall spring stiffness k_w", Min: 0, Max: 1e12, Default: 0},
	}
}

func (b *Box) Levels(cfg energy.Configuration, n int) ([]float64, error) {
	hbar, m, l := cfg.Constants().Hbar, cfg.Get("mass"), cfg.Get("length")
	unit := math.Pi * math.Pi * hbar * hbar / (2 * m * l * l)
	strain := 0.5 * cfg.Get("wall") * l * l
	out := make([]float64, n)
	for i := range out {
		q := float64(i + 1)
		out[i] = q*q*unit + strain
	}
	return out, nil
}

// Equilibrium returns L* for a box with wall stiffness > 0.
func (b *Box) Equilibrium(cfg energy.Configuration) float64 {
	hbar := cfg.Constants().Hbar
	return math.Pow(math.Pi*math.Pi*hbar*hbar/(cfg.Get("mass")*cfg.Get("wall")), 0.25)
}

// Morse holds the exact vibrational levels of the Morse oscillator:
//
//	E_n = ħω0(n+½) − (ħω0(n+½))²/(4D),  ω0 = α√(2D/m)
//
// Only finitely many states are bound.
type Morse struct{}

func NewMorse() *Morse { return &Morse{} }

func (m *Morse) Name() string { return "morse" }

func (m *Morse) Params() []energy.ParamSpec {
	return []energy.ParamSpec{
		positive("mass", "kg", "reduced mass", 1),
		positive("depth", "J", "well depth D", 10),
		positive("alpha", "1/m", "well width α", 1),
	}
}

// BoundStates is the number of levels below the dissociation limit.
func (m *Morse) BoundStates(cfg energy.Configuration) int {
	lambda := math.Sqrt(2*cfg.Get("mass")*cfg.Get("depth")) / (cfg.Get("alpha") * cfg.Constants().Hbar)
	if lambda <= 0.5 {
		return 0
	}
	return int(math.Floor(lambda-0.5)) + 1
}

func (m *Morse) Levels(cfg energy.Configuration, n int) ([]float64, error) {
	if bound := m.BoundStates(cfg); n > bound {
		return nil, energy.Invalid(m.Name(), "%d levels requested but only %d are bound", n, bound)
	}
	d := cfg.Get("depth")
	omega0 := cfg.Get("alpha") * math.Sqrt(2*d/cfg.Get("mass"))
	quantum := cfg.Constants().Hbar * omega0
	out := make([]float64, n)
	for i := range out {
		e := quantum * (float64(i) + 0.5)
		out[i] = e - e*e/(4*d)
	}
	return out, nil
}
