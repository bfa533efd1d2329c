package kinetics

import (
	"slices"
	"strings"

	"github.com/san-kum/eqlab/internal/energy"
)

// Compound is a reference degradation reaction.
type Compound struct {
	Name    string
	Product string
	// Ea is the activation energy in kJ/mol and A the prefactor in s⁻¹.
	Ea float64
	A  float64
	// Profile energies are in Hartree.
	Profile Profile
	// ReferenceYears is the tabulated shelf life at room temperature.
	ReferenceYears float64
}

// ShelfLife is the Arrhenius shelf life in seconds at temperature t.
func (c Compound) ShelfLife(t float64) (float64, error) {
	return ShelfLifeAt(c.Ea, c.A, t)
}

var catalog = []Compound{
	{
		Name:           "aspirin",
		Product:        "salicylic acid",
		Ea:             85.2,
		A:              1.15e12,
		Profile:        Profile{Reactant: -1027.3, TransitionState: -942.1, Product: -950.8},
		ReferenceYears: 3.2,
	},
	{
		Name:           "cyclobutadiene",
		Product:        "2 acetylene",
		Ea:             25.0,
		A:              1.0e13,
		Profile:        Profile{Reactant: -153.0, TransitionState: -128.0, Product: -310.0},
		ReferenceYears: 0.003,
	},
	{
		Name:           "methane",
		Product:        "CH₃· + H·",
		Ea:             435.0,
		A:              1.0e16,
		Profile:        Profile{Reactant: -40.5, TransitionState: 394.5, Product: 0},
		ReferenceYears: 1000,
	},
}

// Catalog returns the built-in compounds in name order.
func Catalog() []Compound {
	out := slices.Clone(catalog)
	slices.SortFunc(out, func(a, b Compound) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Find looks a compound up by case-insensitive name.
func Find(name string) (Compound, error) {
	for _, c := range catalog {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Compound{}, energy.Invalid(name, "unknown compound")
}
