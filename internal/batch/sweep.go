// Package batch runs the stability analysis over a grid of configurations.
package batch

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/engine"
	"github.com/san-kum/eqlab/internal/stability"
)

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
}

// Sweep is the cartesian product of its axes layered over Base. Quantum
// sweeps analyze the ground state as a function of Scan; classical sweeps
// analyze the model's own coordinates.
type Sweep struct {
	Kind    engine.Kind
	Model   string
	Base    map[string]float64
	Axes    []Axis
	Scan    []string
	Domain  energy.Domain
	Options stability.Options
	Workers int
	// OnEntry, if set, is called once per finished entry. Calls are
	// serialized but arrive in completion order.
	OnEntry func(Entry)
}

// Entry is the outcome of one configuration. Err holds a validation or
// analysis failure for this configuration alone.
type Entry struct {
	Index  int
	Values map[string]float64
	Result *stability.Result
	Err    error
}

// Size is the number of configurations in the sweep.
func (s *Sweep) Size() int {
	if len(s.Axes) == 0 {
		return 0
	}
	n := 1
	for _, a := range s.Axes {
		n *= len(a.Values)
	}
	return n
}

// Points expands the axes in grid order, the first axis varying slowest.
func (s *Sweep) Points() []map[string]float64 {
	out := make([]map[string]float64, 0, s.Size())
	if s.Size() == 0 {
		return out
	}
	var walk func(depth int, current map[string]float64)
	walk = func(depth int, current map[string]float64) {
		if depth == len(s.Axes) {
			out = append(out, current)
			return
		}
		axis := s.Axes[depth]
		for _, v := range axis.Values {
			next := maps.Clone(current)
			next[axis.Name] = v
			walk(depth+1, next)
		}
	}
	base := maps.Clone(s.Base)
	if base == nil {
		base = make(map[string]float64)
	}
	walk(0, base)
	return out
}

func (s *Sweep) validate() error {
	if s.Size() == 0 {
		return fmt.Errorf("%w: sweep over %s has no configurations", energy.ErrInvalidConfiguration, s.Model)
	}
	seen := make(map[string]bool, len(s.Axes))
	for _, a := range s.Axes {
		if seen[a.Name] {
			return fmt.Errorf("%w: axis %q repeated", energy.ErrInvalidConfiguration, a.Name)
		}
		seen[a.Name] = true
	}
	return s.Domain.Validate()
}

// Run analyzes every configuration with eng. The context is consulted
// between configurations only: an analysis that has started runs to
// completion. On cancellation Run returns the finished entries, in grid
// order, together with the context error.
func (s *Sweep) Run(ctx context.Context, eng *engine.Engine) ([]Entry, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	points := s.Points()
	entries := make([]Entry, len(points))
	done := make([]bool, len(points))

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(workers)

	for i, values := range points {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			e := s.one(context.WithoutCancel(ctx), eng, i, values)
			mu.Lock()
			defer mu.Unlock()
			entries[i], done[i] = e, true
			if s.OnEntry != nil {
				s.OnEntry(e)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		finished := make([]Entry, 0, len(entries))
		for i, e := range entries {
			if done[i] {
				finished = append(finished, e)
			}
		}
		eng.Logger().Info("sweep canceled", "model", s.Model, "finished", len(finished), "total", len(points))
		return finished, err
	}
	return entries, nil
}

func (s *Sweep) one(ctx context.Context, eng *engine.Engine, i int, values map[string]float64) Entry {
	e := Entry{Index: i, Values: values}
	cfg, err := eng.Configure(s.Kind, s.Model, values)
	if err != nil {
		e.Err = err
		return e
	}
	var surface energy.Surface
	if s.Kind == engine.Quantum {
		surface, err = eng.QuantumSurface(cfg, s.Scan...)
	} else {
		surface, err = eng.ClassicalSurface(cfg)
	}
	if err != nil {
		e.Err = err
		return e
	}
	e.Result, e.Err = eng.Analyze(ctx, surface, s.Domain, s.Options)
	return e
}
