package stability

import (
	"math"

	"github.com/san-kum/eqlab/internal/energy"
)

// VibrationalModes converts the Hessian eigenvalues of p into harmonic
// frequencies ω = √(λ/m). A negative eigenvalue yields a negative entry,
// the conventional stand-in for an imaginary frequency.
func VibrationalModes(p CriticalPoint, mass float64) ([]float64, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, energy.Invalid("modes", "mass %g must be positive and finite", mass)
	}
	modes := make([]float64, len(p.Eigenvalues))
	for i, l := range p.Eigenvalues {
		w := math.Sqrt(math.Abs(l) / mass)
		if l < 0 {
			w = -w
		}
		modes[i] = w
	}
	return modes, nil
}

// Verdict summarizes a mode list: any imaginary frequency means the
// structure is not a minimum.
func Verdict(modes []float64) string {
	for _, w := range modes {
		if w < 0 {
			return "Unstable (imaginary frequencies)"
		}
	}
	return "Stable"
}
