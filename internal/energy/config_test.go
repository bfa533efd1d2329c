package energy

import (
	"errors"
	"math"
	"testing"
)

var testSpecs = []ParamSpec{
	{Name: "x", Unit: "m", Min: -10, Max: 10},
	{Name: "mass", Unit: "kg", Min: 0, Max: 100, Default: 1, OpenMin: true},
	{Name: "k", Unit: "N/m", Min: 0, Max: 100, Default: 2},
}

func TestNewConfiguration_Defaults(t *testing.T) {
	cfg, err := NewConfiguration("test", testSpecs, map[string]float64{"x": 3}, NaturalUnits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Get("x") != 3 {
		t.Errorf("x = %v, want 3", cfg.Get("x"))
	}
	if cfg.Get("mass") != 1 || cfg.Get("k") != 2 {
		t.Errorf("defaults not applied: %v", cfg.Values())
	}
	if !math.IsNaN(cfg.Get("nope")) {
		t.Error("undeclared parameter should read as NaN")
	}
	if cfg.Model() != "test" {
		t.Errorf("model = %q", cfg.Model())
	}
}

func TestNewConfiguration_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]float64
		param  string
	}{
		{"NaN", map[string]float64{"x": math.NaN()}, "x"},
		{"+Inf", map[string]float64{"x": math.Inf(1)}, "x"},
		{"above max", map[string]float64{"x": 11}, "x"},
		{"zero mass", map[string]float64{"mass": 0}, "mass"},
		{"negative mass", map[string]float64{"mass": -1}, "mass"},
		{"unknown", map[string]float64{"charge": 1}, "charge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfiguration("test", testSpecs, tt.values, NaturalUnits())
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if ce.Param != tt.param {
				t.Errorf("param = %q, want %q", ce.Param, tt.param)
			}
		})
	}
}

func TestNewConfiguration_BadConstants(t *testing.T) {
	consts := NaturalUnits()
	consts.Hbar = 0
	_, err := NewConfiguration("test", testSpecs, nil, consts)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestConfiguration_WithIsImmutable(t *testing.T) {
	cfg, err := NewConfiguration("test", testSpecs, nil, NaturalUnits())
	if err != nil {
		t.Fatal(err)
	}

	next, err := cfg.With("x", 4)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Get("x") != 0 {
		t.Errorf("receiver mutated: x = %v", cfg.Get("x"))
	}
	if next.Get("x") != 4 {
		t.Errorf("x = %v, want 4", next.Get("x"))
	}

	if _, err := cfg.With("x", 20); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("out-of-range With should fail, got %v", err)
	}
	if _, err := cfg.With("y", 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("unknown With should fail, got %v", err)
	}

	vals := cfg.Values()
	vals["x"] = 9
	if cfg.Get("x") != 0 {
		t.Error("Values must return a copy")
	}
}

func TestConfiguration_Conforms(t *testing.T) {
	cfg, _ := NewConfiguration("test", testSpecs, nil, NaturalUnits())
	if err := cfg.Conforms("test", testSpecs); err != nil {
		t.Errorf("unexpected: %v", err)
	}
	if err := cfg.Conforms("other", testSpecs); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("model mismatch should fail, got %v", err)
	}
	if err := cfg.Conforms("test", testSpecs[:2]); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("mismatched params should fail, got %v", err)
	}
}

func TestParamSpec_Range(t *testing.T) {
	if got := testSpecs[1].Range(); got != "(0, 100]" {
		t.Errorf("Range() = %q", got)
	}
}
