package energy

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// ParamSpec declares one recognized parameter, its unit and its valid range.
// OpenMin and OpenMax make the corresponding bound strict.
type ParamSpec struct {
	Name    string
	Unit    string
	Doc     string
	Min     float64
	Max     float64
	Default float64
	OpenMin bool
	OpenMax bool
}

// Check reports why v falls outside the declared range, or "" if it is valid.
func (p ParamSpec) Check(v float64) string {
	switch {
	case math.IsNaN(v):
		return "value is NaN"
	case math.IsInf(v, 0):
		return "value is infinite"
	case p.OpenMin && v <= p.Min:
		return fmt.Sprintf("must be > %g", p.Min)
	case v < p.Min:
		return fmt.Sprintf("must be >= %g", p.Min)
	case p.OpenMax && v >= p.Max:
		return fmt.Sprintf("must be < %g", p.Max)
	case v > p.Max:
		return fmt.Sprintf("must be <= %g", p.Max)
	}
	return ""
}

// Range renders the valid interval, e.g. "(0, 1e+06]".
func (p ParamSpec) Range() string {
	lo, hi := "[", "]"
	if p.OpenMin {
		lo = "("
	}
	if p.OpenMax {
		hi = ")"
	}
	return fmt.Sprintf("%s%g, %g%s", lo, p.Min, p.Max, hi)
}

// Constants is the immutable set of physical constants a configuration is built with.
type Constants struct {
	Hbar        float64 // reduced Planck constant
	Boltzmann   float64 // Boltzmann constant
	GasConstant float64 // molar gas constant
}

// NaturalUnits sets ħ = kB = 1.
func NaturalUnits() Constants {
	return Constants{Hbar: 1, Boltzmann: 1, GasConstant: 8.314}
}

// SI returns CODATA values in SI units.
func SI() Constants {
	return Constants{
		Hbar:        1.054571817e-34,
		Boltzmann:   1.380649e-23,
		GasConstant: 8.314462618,
	}
}

func (c Constants) validate() error {
	names := [...]string{"hbar", "boltzmann", "gas_constant"}
	for i, v := range [...]float64{c.Hbar, c.Boltzmann, c.GasConstant} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return &ConfigError{Model: "constants", Param: names[i], Value: v, Reason: "must be finite and > 0"}
		}
	}
	return nil
}

// Configuration is an immutable, validated parameter set for one model.
type Configuration struct {
	model  string
	specs  []ParamSpec
	values []float64
	consts Constants
}

// NewConfiguration validates values against specs. Parameters absent from
// values take their declared default; unknown names are rejected.
func NewConfiguration(model string, specs []ParamSpec, values map[string]float64, consts Constants) (Configuration, error) {
	if err := consts.validate(); err != nil {
		return Configuration{}, err
	}

	known := make(map[string]bool, len(specs))
	for _, s := range specs {
		known[s.Name] = true
	}
	unknown := make([]string, 0)
	for name := range values {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Configuration{}, &ConfigError{Model: model, Param: unknown[0], Value: values[unknown[0]], Reason: "unknown parameter"}
	}

	cfg := Configuration{
		model:  model,
		specs:  slices.Clone(specs),
		values: make([]float64, len(specs)),
		consts: consts,
	}
	for i, s := range specs {
		v, ok := values[s.Name]
		if !ok {
			v = s.Default
		}
		if reason := s.Check(v); reason != "" {
			return Configuration{}, &ConfigError{Model: model, Param: s.Name, Value: v, Reason: reason}
		}
		cfg.values[i] = v
	}
	return cfg, nil
}

func (c Configuration) Model() string        { return c.model }
func (c Configuration) Constants() Constants { return c.consts }
func (c Configuration) Specs() []ParamSpec   { return slices.Clone(c.specs) }

// Get returns the named value, or NaN when the parameter is not declared.
func (c Configuration) Get(name string) float64 {
	if i := c.index(name); i >= 0 {
		return c.values[i]
	}
	return math.NaN()
}

func (c Configuration) Lookup(name string) (float64, bool) {
	i := c.index(name)
	if i < 0 {
		return 0, false
	}
	return c.values[i], true
}

// Values returns a copy of the parameters keyed by name.
func (c Configuration) Values() map[string]float64 {
	out := make(map[string]float64, len(c.specs))
	for i, s := range c.specs {
		out[s.Name] = c.values[i]
	}
	return out
}

// With returns a re-validated copy with name set to v. The receiver is unchanged.
func (c Configuration) With(name string, v float64) (Configuration, error) {
	i := c.index(name)
	if i < 0 {
		return Configuration{}, &ConfigError{Model: c.model, Param: name, Value: v, Reason: "unknown parameter"}
	}
	if reason := c.specs[i].Check(v); reason != "" {
		return Configuration{}, &ConfigError{Model: c.model, Param: name, Value: v, Reason: reason}
	}
	next := c
	next.values = slices.Clone(c.values)
	next.values[i] = v
	return next, nil
}

// WithAll sets several parameters at once, in the order given.
func (c Configuration) WithAll(names []string, vs []float64) (Configuration, error) {
	if len(names) != len(vs) {
		return Configuration{}, fmt.Errorf("%w: %d names for %d values", ErrDimensionMismatch, len(names), len(vs))
	}
	next := c
	var err error
	for i, name := range names {
		if next, err = next.With(name, vs[i]); err != nil {
			return Configuration{}, err
		}
	}
	return next, nil
}

// Conforms reports whether c was built for model with exactly these specs.
func (c Configuration) Conforms(model string, specs []ParamSpec) error {
	if c.model != model {
		return &ConfigError{Model: model, Reason: fmt.Sprintf("configuration built for %q", c.model)}
	}
	if len(c.specs) != len(specs) {
		return &ConfigError{Model: model, Reason: "parameter set does not match model"}
	}
	for i := range specs {
		if c.specs[i].Name != specs[i].Name {
			return &ConfigError{Model: model, Param: specs[i].Name, Reason: "parameter set does not match model"}
		}
	}
	return nil
}

func (c Configuration) index(name string) int {
	for i, s := range c.specs {
		if s.Name == name {
			return i
		}
	}
	return -1
}
