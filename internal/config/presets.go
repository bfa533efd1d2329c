package config

import (
	"math"
	"slices"

	"github.com/san-kum/eqlab/internal/batch"
)

func interval(lo, hi float64, res int) DomainConfig {
	return DomainConfig{Min: []float64{lo}, Max: []float64{hi}, Resolution: res}
}

func preset(model, kind string, params map[string]float64, d DomainConfig) *Config {
	cfg := DefaultConfig()
	cfg.Model, cfg.Kind, cfg.Params, cfg.Domain = model, kind, params, d
	return cfg
}

var Presets = map[string]map[string]*Config{
	"harmonic": {
		"spring": preset("harmonic", "classical", map[string]float64{"k": 1}, interval(-5, 5, 200)),
		"stiff":  preset("harmonic", "classical", map[string]float64{"k": 25, "x0": 1}, interval(-2, 4, 300)),
	},
	"inverted": {
		"hilltop": preset("inverted", "classical", map[string]float64{"k": 1}, interval(-5, 5, 200)),
	},
	"double_well": {
		"symmetric": preset("double_well", "classical", map[string]float64{"a": 1, "b": 1}, interval(-3, 3, 200)),
		"deep":      preset("double_well", "classical", map[string]float64{"a": 1, "b": 6}, interval(-3, 3, 300)),
		"sweep": func() *Config {
			cfg := preset("double_well", "classical", map[string]float64{"a": 1}, interval(-3, 3, 150))
			cfg.Sweep = []batch.Axis{{Name: "b", Values: []float64{0.5, 1, 2, 4, 6}}}
			return cfg
		}(),
	},
	"pendulum": {
		"full_turn": preset("pendulum", "classical", nil, interval(-4, 4, 200)),
		"two_turns": preset("pendulum", "classical", nil, interval(-2*math.Pi-0.5, 2*math.Pi+0.5, 400)),
	},
	"morse": {
		"bond": preset("morse", "classical", map[string]float64{"depth": 4.5, "alpha": 1.9, "re": 0.74}, interval(0.3, 4, 300)),
	},
	"lennard_jones": {
		"argon": preset("lennard_jones", "classical", map[string]float64{"epsilon": 1, "sigma": 1}, interval(0.95, 4, 300)),
	},
	"harmonic2d": {
		"bowl": preset("harmonic2d", "classical", nil, DomainConfig{Min: []float64{-1, -1}, Max: []float64{1, 1}, Resolution: 40}),
	},
	"saddle2d": {
		"pass": preset("saddle2d", "classical", nil, DomainConfig{Min: []float64{-1, -1}, Max: []float64{1, 1}, Resolution: 40}),
	},
	"rugged": {
		"rough": preset("rugged", "classical", map[string]float64{"amplitude": 1}, interval(-5, 5, 400)),
	},
	"box": {
		"equilibrium": func() *Config {
			cfg := preset("box", "quantum", map[string]float64{"wall": 2}, interval(0.5, 3, 100))
			cfg.Scan = []string{"length"}
			return cfg
		}(),
	},
	"grid:double_well": {
		"tunneling": func() *Config {
			cfg := preset("grid:double_well", "quantum", map[string]float64{"a": 1, "b": 6}, interval(-3, 3, 150))
			cfg.Levels = 2
			cfg.Quantum.Resolution = 150
			return cfg
		}(),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
