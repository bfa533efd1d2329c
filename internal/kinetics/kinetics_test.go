package kinetics

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/eqlab/internal/classical"
	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/stability"
)

func TestRateConstant(t *testing.T) {
	k, err := RateConstant(0, 5, 300)
	if err != nil || k != 5 {
		t.Errorf("zero barrier: k = %v, %v; want prefactor", k, err)
	}

	cold, _ := RateConstant(85.2, 1.15e12, 273)
	warm, _ := RateConstant(85.2, 1.15e12, 323)
	if !(warm > cold) {
		t.Errorf("rate should grow with temperature: %v at 273 K, %v at 323 K", cold, warm)
	}

	want := 1.15e12 * math.Exp(-85.2e3/(GasConstant*RoomTemperature))
	got, _ := RateConstant(85.2, 1.15e12, RoomTemperature)
	if math.Abs(got-want) > 1e-12*want {
		t.Errorf("k = %v, want %v", got, want)
	}
}

func TestRateConstant_Invalid(t *testing.T) {
	cases := [][3]float64{
		{-1, 1, 300},
		{1, 0, 300},
		{1, 1, 0},
		{math.NaN(), 1, 300},
		{1, 1, math.Inf(1)},
	}
	for _, c := range cases {
		if _, err := RateConstant(c[0], c[1], c[2]); !errors.Is(err, energy.ErrInvalidConfiguration) {
			t.Errorf("RateConstant%v: expected ErrInvalidConfiguration, got %v", c, err)
		}
	}
}

func TestShelfLife(t *testing.T) {
	s, err := ShelfLife(t90 / 3600)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(s-3600) > 1e-9 {
		t.Errorf("ShelfLife = %v, want 3600", s)
	}
	if _, err := ShelfLife(0); !errors.Is(err, energy.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestFormatShelfLife(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{3 * 3600, "3.0 hours"},
		{2.5 * secondsPerDay, "2.5 days"},
		{90 * secondsPerDay, "3.0 months"},
		{730 * secondsPerDay, "2.0 years"},
		{math.Inf(1), ">1000 years"},
		{2000 * 365 * secondsPerDay, ">1000 years"},
	}
	for _, tt := range tests {
		if got := FormatShelfLife(tt.seconds); got != tt.want {
			t.Errorf("FormatShelfLife(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(2.5e-3); !strings.HasSuffix(got, "ms⁻¹") {
		t.Errorf("FormatRate = %q", got)
	}
}

func TestCatalog(t *testing.T) {
	c := Catalog()
	if len(c) != 3 || c[0].Name != "aspirin" {
		t.Fatalf("catalog = %v", c)
	}

	asp, err := Find("Aspirin")
	if err != nil {
		t.Fatal(err)
	}
	if b := asp.Profile.KJPerMol().Barrier(); math.Abs(b-85.2*HartreeToKJ) > 1e-6 {
		t.Errorf("aspirin barrier = %v kJ/mol", b)
	}
	if asp.Profile.ReactionEnergy() <= 0 {
		t.Errorf("aspirin degradation should be uphill in the tabulated profile")
	}

	cb, _ := Find("cyclobutadiene")
	short, _ := cb.ShelfLife(RoomTemperature)
	long, _ := asp.ShelfLife(RoomTemperature)
	if !(short < long) {
		t.Errorf("cyclobutadiene (%v s) should degrade faster than aspirin (%v s)", short, long)
	}

	ch4, _ := Find("methane")
	s, _ := ch4.ShelfLife(RoomTemperature)
	if got := FormatShelfLife(s); got != ">1000 years" {
		t.Errorf("methane shelf life = %q", got)
	}

	if _, err := Find("water"); !errors.Is(err, energy.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestProfileFromAnalysis_DoubleWellBarrier(t *testing.T) {
	m := classical.NewDoubleWell()
	a, b := 2.0, 6.0
	cfg, err := classical.Configure(m, map[string]float64{"a": a, "b": b}, energy.NaturalUnits())
	if err != nil {
		t.Fatal(err)
	}
	s, _ := classical.NewSurface(m, cfg)
	d, _ := energy.Interval(-3, 3, 200)
	res, err := stability.Analyze(context.Background(), s, d, stability.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	p, err := ProfileFromAnalysis(res)
	if err != nil {
		t.Fatal(err)
	}
	if want := b * b / (4 * a); math.Abs(p.Barrier()-want) > 1e-6 {
		t.Errorf("barrier = %v, want %v", p.Barrier(), want)
	}
	if math.Abs(p.ReactionEnergy()) > 1e-6 {
		t.Errorf("symmetric well reaction energy = %v", p.ReactionEnergy())
	}
}

func TestProfileFromAnalysis_NeedsTwoMinima(t *testing.T) {
	res := &stability.Result{Model: "harmonic", Points: []stability.CriticalPoint{
		{Coord: energy.Coord{0}, Class: stability.Stable},
	}}
	if _, err := ProfileFromAnalysis(res); !errors.Is(err, energy.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}
