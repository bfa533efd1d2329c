// Package kinetics turns energy barriers into rates and shelf lives using
// the Arrhenius law, and reads reaction profiles off stability results.
package kinetics

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/san-kum/eqlab/internal/energy"
)

const (
	// GasConstant is R in J/(mol·K).
	GasConstant = 8.314
	// HartreeToKJ converts Hartree per molecule to kJ/mol.
	HartreeToKJ = 2625.5
	// RoomTemperature is the reference temperature in K.
	RoomTemperature = 298.0

	secondsPerDay = 86400.0
)

// t90 is the fraction ln(10/9) of first-order decay that leaves 90 % potency.
var t90 = math.Log(10.0 / 9.0)

// RateConstant is the Arrhenius rate k = A·exp(−Ea/(R·T)) in s⁻¹, with Ea in
// kJ/mol, A in s⁻¹ and T in K.
func RateConstant(ea, a, t float64) (float64, error) {
	switch {
	case !finite(ea) || ea < 0:
		return 0, energy.Invalid("arrhenius", "activation energy %g kJ/mol must be >= 0", ea)
	case !finite(a) || a <= 0:
		return 0, energy.Invalid("arrhenius", "prefactor %g must be > 0", a)
	case !finite(t) || t <= 0:
		return 0, energy.Invalid("arrhenius", "temperature %g K must be > 0", t)
	}
	return a * math.Exp(-ea*1000/(GasConstant*t)), nil
}

// ShelfLife is the time in seconds for a first-order decay with rate k to
// fall to 90 % of the initial amount.
func ShelfLife(k float64) (float64, error) {
	if !finite(k) || k <= 0 {
		return 0, energy.Invalid("arrhenius", "rate %g must be > 0", k)
	}
	return t90 / k, nil
}

// ShelfLifeAt combines RateConstant and ShelfLife.
func ShelfLifeAt(ea, a, t float64) (float64, error) {
	k, err := RateConstant(ea, a, t)
	if err != nil {
		return 0, err
	}
	if k == 0 {
		return math.Inf(1), nil
	}
	return ShelfLife(k)
}

// FormatShelfLife renders seconds in the largest sensible unit: hours below
// a day, days below a month, months below a year, years otherwise. Anything
// beyond a thousand years is reported as effectively stable.
func FormatShelfLife(seconds float64) string {
	days := seconds / secondsPerDay
	switch {
	case math.IsInf(days, 1) || days > 1000*365:
		return ">1000 years"
	case days < 1:
		return fmt.Sprintf("%.1f hours", days*24)
	case days < 30:
		return fmt.Sprintf("%.1f days", days)
	case days < 365:
		return fmt.Sprintf("%.1f months", days/30)
	default:
		return humanize.FormatFloat("#,###.#", days/365) + " years"
	}
}

// FormatRate renders a rate constant with an SI prefix, e.g. "3.2 µs⁻¹".
func FormatRate(k float64) string {
	return humanize.SIWithDigits(k, 2, "s⁻¹")
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
