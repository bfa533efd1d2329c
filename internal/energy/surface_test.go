package energy

import (
	"errors"
	"math"
	"testing"
)

func TestCombine_NoTerms(t *testing.T) {
	if _, err := Combine("empty"); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestSampleLine(t *testing.T) {
	s := Func{Label: "sqrt", N: 1, F: func(x Coord) (float64, error) {
		if x[0] < 0 {
			return 0, errors.New("negative")
		}
		return math.Sqrt(x[0]), nil
	}}

	got := SampleLine(s, -1, 4, 6)
	if len(got) != 6 {
		t.Fatalf("got %d samples, want 6", len(got))
	}
	if !math.IsNaN(got[0]) {
		t.Errorf("sample 0 = %g, want NaN", got[0])
	}
	for i, want := range []float64{0, 1, math.Sqrt(2), math.Sqrt(3), 2} {
		if math.Abs(got[i+1]-want) > 1e-12 {
			t.Errorf("sample %d = %g, want %g", i+1, got[i+1], want)
		}
	}
}
