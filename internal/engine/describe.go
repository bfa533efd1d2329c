package engine

import "github.com/san-kum/eqlab/internal/energy"

// ModelInfo documents one registered model: its recognized parameters with
// unit, valid range and default.
type ModelInfo struct {
	Kind        Kind
	Name        string
	Coordinates []string
	Params      []energy.ParamSpec
}

// Describe lists every registered model, classical first, each group in
// name order.
func (e *Engine) Describe() ([]ModelInfo, error) {
	var out []ModelInfo
	for _, name := range e.registry.List(Classical) {
		m, err := e.registry.GetClassical(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ModelInfo{Kind: Classical, Name: name, Coordinates: m.Coordinates(), Params: m.Params()})
	}
	for _, name := range e.registry.List(Quantum) {
		m, err := e.registry.GetQuantum(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ModelInfo{Kind: Quantum, Name: name, Params: m.Params()})
	}
	return out, nil
}

// Lookup returns the description of a single model.
func (e *Engine) Lookup(kind Kind, name string) (ModelInfo, error) {
	switch kind {
	case Quantum:
		m, err := e.registry.GetQuantum(name)
		if err != nil {
			return ModelInfo{}, err
		}
		return ModelInfo{Kind: Quantum, Name: name, Params: m.Params()}, nil
	default:
		m, err := e.registry.GetClassical(name)
		if err != nil {
			return ModelInfo{}, err
		}
		return ModelInfo{Kind: Classical, Name: name, Coordinates: m.Coordinates(), Params: m.Params()}, nil
	}
}
