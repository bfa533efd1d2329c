package classical

import "github.com/san-kum/eqlab/internal/energy"

const DefaultStiffness = 1.0

// Harmonic is a spring potential ½k(x−x0)².
type Harmonic struct{}

func NewHarmonic() *Harmonic { return &Harmonic{} }

func (h *Harmonic) Name() string          { return "harmonic" }
func (h *Harmonic) Coordinates() []string { return []string{"x"} }

func (h *Harmonic) Params() []energy.ParamSpec {
	return []energy.ParamSpec{
		position("x", "displacement"),
		positive("k", "N/m", "spring constant", DefaultStiffness),
		position("x0", "equilibrium position"),
	}
}

func (h *Harmonic) Energy(cfg energy.Configuration) float64 {
	d := cfg.Get("x") - cfg.Get("x0")
	return 0.5 * cfg.Get("k") * d * d
}

// Inverted is the inverted parabola −½k(x−x0)², an unstable equilibrium.
type Inverted struct{}

func NewInverted() *Inverted { return &Inverted{} }

func (v *Inverted) Name() string               { return "inverted" }
func (v *Inverted) Coordinates() []string      { return []string{"x"} }
func (v *Inverted) Params() []energy.ParamSpec { return NewHarmonic().Params() }

func (v *Inverted) Energy(cfg energy.Configuration) float64 {
	d := cfg.Get("x") - cfg.Get("x0")
	return -0.5 * cfg.Get("k") * d * d
}

// Harmonic2D is an anisotropic bowl ½(kx·x² + ky·y²).
type Harmonic2D struct{}

func NewHarmonic2D() *Harmonic2D { return &Harmonic2D{} }

func (h *Harmonic2D) Name() string          { return "harmonic2d" }
func (h *Harmonic2D) Coordinates() []string { return []string{"x", "y"} }

func (h *Harmonic2D) Params() []energy.ParamSpec {
	return []energy.ParamSpec{
		position("x", "first coordinate"),
		position("y", "second coordinate"),
		positive("kx", "N/m", "stiffness along x", DefaultStiffness),
		positive("ky", "N/m", "stiffness along y", 2*DefaultStiffness),
	}
}

func (h *Harmonic2D) Energy(cfg energy.Configuration) float64 {
	x, y := cfg.Get("x"), cfg.Get("y")
	return 0.5 * (cfg.Get("kx")*x*x + cfg.Get("ky")*y*y)
}

// Saddle2D is the hyperbolic paraboloid ½(kx·x² − ky·y²).
type Saddle2D struct{}

func NewSaddle2D() *Saddle2D { return &Saddle2D{} }

func (s *Saddle2D) Name() string               { return "saddle2d" }
func (s *Saddle2D) Coordinates() []string      { return []string{"x", "y"} }
func (s *Saddle2D) Params() []energy.ParamSpec { return NewHarmonic2D().Params() }

func (s *Saddle2D) Energy(cfg energy.Configuration) float64 {
	x, y := cfg.Get("x"), cfg.Get("y")
	return 0.5 * (cfg.Get("kx")*x*x - cfg.Get("ky")*y*y)
}
