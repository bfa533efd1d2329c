package kinetics

import (
	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/stability"
)

// Profile is a reactant → transition state → product energy path. Energies
// are in the units of the surface they came from; catalog entries use Hartree.
type Profile struct {
	Reactant        float64 `json:"reactant" yaml:"reactant"`
	TransitionState float64 `json:"transition_state" yaml:"transition_state"`
	Product         float64 `json:"product" yaml:"product"`
}

// Barrier is the forward activation energy.
func (p Profile) Barrier() float64 { return p.TransitionState - p.Reactant }

// ReactionEnergy is negative for an exothermic path.
func (p Profile) ReactionEnergy() float64 { return p.Product - p.Reactant }

// KJPerMol converts a Hartree profile.
func (p Profile) KJPerMol() Profile {
	return Profile{
		Reactant:        p.Reactant * HartreeToKJ,
		TransitionState: p.TransitionState * HartreeToKJ,
		Product:         p.Product * HartreeToKJ,
	}
}

// ProfileFromAnalysis takes the two lowest stable points of res as reactant
// and product, and the highest unstable or saddle point lying between them
// in coordinate order as the transition state. The lower minimum is the
// reactant.
func ProfileFromAnalysis(res *stability.Result) (Profile, error) {
	var minima []stability.CriticalPoint
	for _, p := range res.Points {
		if p.Class == stability.Stable {
			minima = append(minima, p)
		}
	}
	if len(minima) < 2 {
		return Profile{}, energy.Invalid(res.Model, "reaction profile needs two stable points, found %d", len(minima))
	}

	// lowest two by energy, ties broken by coordinate order
	a, b := 0, 1
	if minima[b].Energy < minima[a].Energy {
		a, b = b, a
	}
	for i := 2; i < len(minima); i++ {
		switch {
		case minima[i].Energy < minima[a].Energy:
			a, b = i, a
		case minima[i].Energy < minima[b].Energy:
			b = i
		}
	}
	reactant, product := minima[a], minima[b]

	lo, hi := reactant.Coord, product.Coord
	if lo.Compare(hi) > 0 {
		lo, hi = hi, lo
	}
	found := false
	var ts stability.CriticalPoint
	for _, p := range res.Points {
		if p.Class != stability.Unstable && p.Class != stability.Saddle {
			continue
		}
		if p.Coord.Compare(lo) <= 0 || p.Coord.Compare(hi) >= 0 {
			continue
		}
		if !found || p.Energy > ts.Energy {
			ts, found = p, true
		}
	}
	if !found {
		return Profile{}, energy.Invalid(res.Model, "no transition state between the two lowest minima")
	}
	return Profile{Reactant: reactant.Energy, TransitionState: ts.Energy, Product: product.Energy}, nil
}
