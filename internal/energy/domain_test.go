package energy

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestDomain_Validate(t *testing.T) {
	tests := []struct {
		name  string
		min   []float64
		max   []float64
		res   int
		valid bool
	}{
		{"ok", []float64{-1}, []float64{1}, 10, true},
		{"ok 2d", []float64{-1, 0}, []float64{1, 2}, 4, true},
		{"min == max", []float64{1}, []float64{1}, 10, false},
		{"min > max", []float64{2}, []float64{1}, 10, false},
		{"zero resolution", []float64{-1}, []float64{1}, 0, false},
		{"negative resolution", []float64{-1}, []float64{1}, -3, false},
		{"NaN bound", []float64{math.NaN()}, []float64{1}, 10, false},
		{"mismatched", []float64{-1, -1}, []float64{1}, 10, false},
		{"empty", nil, nil, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDomain(tt.min, tt.max, tt.res)
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidDomain) {
				t.Errorf("expected ErrInvalidDomain, got %v", err)
			}
		})
	}
}

func TestDomain_Grid(t *testing.T) {
	d, err := Interval(-3, 3, 200)
	if err != nil {
		t.Fatal(err)
	}
	if d.Points() != 201 {
		t.Errorf("Points() = %d, want 201", d.Points())
	}
	if d.Coordinate(0, 0) != -3 || d.Coordinate(0, 200) != 3 {
		t.Error("endpoints must be exact")
	}
	if d.Coordinate(0, 100) != 0 {
		t.Errorf("midpoint = %v, want exactly 0", d.Coordinate(0, 100))
	}

	d2, _ := NewDomain([]float64{0, 0}, []float64{1, 1}, 4)
	for flat := 0; flat < d2.Points(); flat++ {
		if got := d2.Flat(d2.Index(flat)); got != flat {
			t.Fatalf("Flat(Index(%d)) = %d", flat, got)
		}
	}
	if !d2.OnBoundary([]int{0, 2}) || d2.OnBoundary([]int{1, 3}) {
		t.Error("OnBoundary misclassified")
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	var seen [1000]int32
	err := ParallelFor(context.Background(), len(seen), 16, 4, func(start, end int) error {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range seen {
		if n != 1 {
			t.Fatalf("index %d visited %d times", i, n)
		}
	}
}

func TestParallelFor_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := ParallelFor(context.Background(), 100, 1, 4, func(start, end int) error {
		if start <= 50 && 50 < end {
			return boom
		}
		return nil
	})
	if err != boom {
		t.Errorf("expected the worker error unchanged, got %v", err)
	}
}

func TestCombine(t *testing.T) {
	a := Func1D("a", func(x float64) float64 { return x * x })
	b := Func1D("b", func(x float64) float64 { return x })
	s, err := Combine("mix", Term{1, a}, Term{-2, b})
	if err != nil {
		t.Fatal(err)
	}
	e, err := s.EnergyAt(Coord{3})
	if err != nil {
		t.Fatal(err)
	}
	if e != 3 {
		t.Errorf("EnergyAt(3) = %v, want 3", e)
	}

	two := Func{Label: "2d", N: 2, F: func(Coord) (float64, error) { return 0, nil }}
	if _, err := Combine("bad", Term{1, a}, Term{1, two}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCoord_Compare(t *testing.T) {
	if (Coord{1, 2}).Compare(Coord{1, 3}) >= 0 {
		t.Error("expected {1,2} < {1,3}")
	}
	if d := (Coord{0, 3}).Distance(Coord{4, 0}); math.Abs(d-5) > 1e-12 {
		t.Errorf("Distance = %v, want 5", d)
	}
}
