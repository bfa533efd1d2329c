package stability_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eqlab/internal/classical"
	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/stability"
)

func surfaceOf(m classical.Model, values map[string]float64) (*classical.Surface, energy.Configuration) {
	cfg, err := classical.Configure(m, values, energy.NaturalUnits())
	Expect(err).NotTo(HaveOccurred())
	s, err := classical.NewSurface(m, cfg)
	Expect(err).NotTo(HaveOccurred())
	return s, cfg
}

func interval(lo, hi float64, res int) energy.Domain {
	d, err := energy.Interval(lo, hi, res)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func analyze(s energy.Surface, d energy.Domain, opts stability.Options) *stability.Result {
	res, err := stability.Analyze(context.Background(), s, d, opts)
	Expect(err).NotTo(HaveOccurred())
	return res
}

var _ = Describe("Analyze", func() {
	opts := stability.DefaultOptions()

	Context("one-dimensional classical models", func() {
		It("finds the single stable minimum of the harmonic well", func() {
			s, _ := surfaceOf(classical.NewHarmonic(), nil)
			res := analyze(s, interval(-5, 5, 200), opts)

			Expect(res.Points).To(HaveLen(1))
			p := res.Points[0]
			Expect(p.Class).To(Equal(stability.Stable))
			Expect(p.Coord[0]).To(BeNumerically("~", 0, 1e-6))
			Expect(p.Curvature()).To(BeNumerically("~", 1, 1e-4))
			Expect(res.Samples).To(Equal(201))
			Expect(res.Evaluations).To(BeNumerically(">", int64(res.Samples)))
		})

		It("reports the inverted well as unstable", func() {
			s, _ := surfaceOf(classical.NewInverted(), nil)
			res := analyze(s, interval(-5, 5, 200), opts)

			Expect(res.Points).To(HaveLen(1))
			Expect(res.Points[0].Class).To(Equal(stability.Unstable))
		})

		It("resolves both minima and the barrier of the double well", func() {
			s, cfg := surfaceOf(classical.NewDoubleWell(), nil)
			res := analyze(s, interval(-3, 3, 200), opts)

			Expect(res.Points).To(HaveLen(3))
			want := []struct {
				x     float64
				class stability.Class
			}{
				{-math.Sqrt(0.5), stability.Stable},
				{0, stability.Unstable},
				{math.Sqrt(0.5), stability.Stable},
			}
			for i, w := range want {
				p := res.Points[i]
				Expect(p.Coord[0]).To(BeNumerically("~", w.x, 1e-5))
				Expect(p.Class).To(Equal(w.class))
				Expect(p.Residual()).To(BeNumerically("<", opts.Tolerance))

				at, err := cfg.With("x", p.Coord[0])
				Expect(err).NotTo(HaveOccurred())
				e, err := classical.Evaluate(classical.NewDoubleWell(), at)
				Expect(err).NotTo(HaveOccurred())
				Expect(p.Energy).To(Equal(e))
			}
			Expect(res.Count(stability.Stable)).To(Equal(2))
			Expect(res.Warnings).To(BeEmpty())
		})

		It("classifies the pendulum bottom and both tops", func() {
			s, _ := surfaceOf(classical.NewPendulum(), nil)
			res := analyze(s, interval(-4, 4, 200), opts)

			Expect(res.Points).To(HaveLen(3))
			Expect(res.Points[0].Coord[0]).To(BeNumerically("~", -math.Pi, 1e-6))
			Expect(res.Points[0].Class).To(Equal(stability.Unstable))
			Expect(res.Points[1].Coord[0]).To(BeNumerically("~", 0, 1e-9))
			Expect(res.Points[1].Class).To(Equal(stability.Stable))
			Expect(res.Points[2].Coord[0]).To(BeNumerically("~", math.Pi, 1e-6))
			Expect(res.Points[2].Class).To(Equal(stability.Unstable))

			g, ok := res.Global()
			Expect(ok).To(BeTrue())
			Expect(g.Energy).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Context("two-dimensional classical models", func() {
		square := func() energy.Domain {
			d, err := energy.NewDomain([]float64{-1, -1}, []float64{1, 1}, 20)
			Expect(err).NotTo(HaveOccurred())
			return d
		}

		It("finds a stable bowl", func() {
			s, _ := surfaceOf(classical.NewHarmonic2D(), nil)
			res := analyze(s, square(), opts)

			Expect(res.Points).To(HaveLen(1))
			p := res.Points[0]
			Expect(p.Class).To(Equal(stability.Stable))
			Expect(p.Coord.Norm()).To(BeNumerically("<", 1e-6))
			Expect(p.Eigenvalues[0]).To(BeNumerically("~", 1, 1e-4))
			Expect(p.Eigenvalues[1]).To(BeNumerically("~", 2, 1e-4))
		})

		It("finds the saddle", func() {
			s, _ := surfaceOf(classical.NewSaddle2D(), nil)
			res := analyze(s, square(), opts)

			Expect(res.Points).To(HaveLen(1))
			Expect(res.Points[0].Class).To(Equal(stability.Saddle))
		})

		It("converges from an off-grid stationary point", func() {
			s, _ := surfaceOf(classical.NewHarmonic2D(), nil)
			d, err := energy.NewDomain([]float64{-0.93, -1.07}, []float64{1.11, 0.89}, 17)
			Expect(err).NotTo(HaveOccurred())
			res := analyze(s, d, opts)

			Expect(res.Points).To(HaveLen(1))
			Expect(res.Points[0].Coord.Norm()).To(BeNumerically("<", 1e-5))
			Expect(res.Points[0].Iterations).To(BeNumerically(">", 0))
		})
	})

	Context("boundary handling", func() {
		It("never reports domain edges as critical points", func() {
			s, _ := surfaceOf(classical.NewHarmonic(), nil)
			res := analyze(s, interval(1, 5, 100), opts)
			Expect(res.Points).To(BeEmpty())
			Expect(res.Boundary).To(BeEmpty())
		})

		It("reports boundary extrema on request", func() {
			s, _ := surfaceOf(classical.NewHarmonic(), nil)
			o := opts
			o.IncludeBoundary = true
			res := analyze(s, interval(-5, 5, 200), o)

			Expect(res.Points).To(HaveLen(1))
			Expect(res.Boundary).To(HaveLen(2))
			for _, b := range res.Boundary {
				Expect(b.Kind).To(Equal(stability.BoundaryMaximum))
				Expect(b.Energy).To(BeNumerically("~", 12.5, 1e-12))
			}
		})

		It("reports a boundary minimum on a one-sided slope", func() {
			s, _ := surfaceOf(classical.NewHarmonic(), nil)
			o := opts
			o.IncludeBoundary = true
			res := analyze(s, interval(1, 5, 100), o)

			Expect(res.Boundary).To(HaveLen(2))
			Expect(res.Boundary[0].Kind).To(Equal(stability.BoundaryMinimum))
			Expect(res.Boundary[0].Coord[0]).To(Equal(1.0))
			Expect(res.Boundary[1].Kind).To(Equal(stability.BoundaryMaximum))
		})
	})

	Context("degenerate curvature", func() {
		It("reports an inflection point as indeterminate", func() {
			s := energy.Func1D("cubic", func(x float64) float64 { return x * x * x })
			res := analyze(s, interval(-1, 1, 100), opts)

			Expect(res.Points).To(HaveLen(1))
			p := res.Points[0]
			Expect(p.Coord[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(p.Class).To(Equal(stability.Indeterminate))
			Expect(p.Curvature()).To(BeNumerically("~", 0, opts.Tolerance))
		})

		It("reports every interior sample of a plateau", func() {
			s := energy.Func1D("flat", func(float64) float64 { return 2 })
			res := analyze(s, interval(-1, 1, 10), opts)

			Expect(res.Points).To(HaveLen(9))
			Expect(res.Count(stability.Indeterminate)).To(Equal(9))
		})
	})

	Context("failures", func() {
		It("validates the domain before touching the surface", func() {
			var calls atomic.Int64
			s := energy.Func{Label: "counter", N: 1, F: func(x energy.Coord) (float64, error) {
				calls.Add(1)
				return x[0] * x[0], nil
			}}

			bad := []energy.Domain{
				{Min: []float64{1}, Max: []float64{1}, Resolution: 10},
				{Min: []float64{-1}, Max: []float64{1}, Resolution: 0},
				{Min: []float64{math.NaN()}, Max: []float64{1}, Resolution: 10},
				{Min: []float64{-1, -1}, Max: []float64{1}, Resolution: 10},
			}
			for _, d := range bad {
				_, err := stability.Analyze(context.Background(), s, d, opts)
				Expect(errors.Is(err, energy.ErrInvalidDomain)).To(BeTrue(), "domain %+v", d)
			}
			Expect(calls.Load()).To(BeZero())
		})

		It("rejects unusable options before touching the surface", func() {
			var calls atomic.Int64
			s := energy.Func{Label: "counter", N: 1, F: func(x energy.Coord) (float64, error) {
				calls.Add(1)
				return x[0] * x[0], nil
			}}

			bad := []stability.Options{
				{Tolerance: -1},
				{Tolerance: math.NaN()},
				{Tolerance: math.Inf(1)},
				{Step: -1e-5},
				{CurvatureStep: math.NaN()},
				{MaxIterations: -1},
			}
			for _, o := range bad {
				_, err := stability.Analyze(context.Background(), s, interval(-1, 1.3, 100), o)
				Expect(errors.Is(err, energy.ErrInvalidConfiguration)).To(BeTrue(), "options %+v", o)
				var cfgErr *energy.ConfigError
				Expect(errors.As(err, &cfgErr)).To(BeTrue())
			}
			Expect(calls.Load()).To(BeZero())

			res := analyze(s, interval(-1, 1.3, 100), stability.Options{})
			Expect(res.Tolerance).To(Equal(stability.DefaultTolerance))
		})

		It("rejects a surface of the wrong dimension", func() {
			s, _ := surfaceOf(classical.NewHarmonic2D(), nil)
			_, err := stability.Analyze(context.Background(), s, interval(-1, 1, 10), opts)
			Expect(errors.Is(err, energy.ErrDimensionMismatch)).To(BeTrue())
		})

		It("propagates surface errors unchanged", func() {
			boom := errors.New("boom")
			s := energy.Func{Label: "broken", N: 1, F: func(x energy.Coord) (float64, error) {
				if x[0] > 0.5 {
					return 0, boom
				}
				return x[0] * x[0], nil
			}}
			_, err := stability.Analyze(context.Background(), s, interval(-1, 1, 40), opts)
			Expect(err).To(BeIdenticalTo(boom))
		})

		It("stops on a canceled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			s, _ := surfaceOf(classical.NewHarmonic(), nil)
			_, err := stability.Analyze(ctx, s, interval(-5, 5, 200), opts)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})

		It("records candidates that run out of iterations", func() {
			s, _ := surfaceOf(classical.NewDoubleWell(), nil)
			o := opts
			o.MaxIterations = 1
			res := analyze(s, interval(-3, 3, 200), o)

			Expect(res.Points).To(HaveLen(1))
			Expect(res.Points[0].Coord[0]).To(Equal(0.0))
			Expect(res.Warnings).To(HaveLen(2))
			Expect(res.Warnings[0].Near[0]).To(BeNumerically("<", 0))
			Expect(res.Warnings[0].Residual).To(BeNumerically(">=", opts.Tolerance))
		})
	})

	Context("rugged landscapes", func() {
		It("returns sorted, distinct, converged points and is deterministic", func() {
			s, _ := surfaceOf(classical.NewRugged(classical.DefaultRuggedSeed), nil)
			d := interval(-5, 5, 400)

			o := opts
			o.Workers = 1
			serial := analyze(s, d, o)
			o.Workers = 8
			parallel := analyze(s, d, o)

			Expect(serial.Count(stability.Stable)).To(BeNumerically(">=", 1))
			for i, p := range serial.Points {
				Expect(p.Residual()).To(BeNumerically("<", opts.Tolerance))
				Expect(d.Contains(p.Coord)).To(BeTrue())
				switch p.Class {
				case stability.Stable:
					Expect(p.Curvature()).To(BeNumerically(">", 0))
				case stability.Unstable:
					Expect(p.Curvature()).To(BeNumerically("<", 0))
				}
				if i > 0 {
					Expect(p.Coord[0]).To(BeNumerically(">", serial.Points[i-1].Coord[0]+opts.Tolerance))
				}
			}

			Expect(parallel.Points).To(HaveLen(len(serial.Points)))
			for i := range serial.Points {
				Expect(parallel.Points[i].Coord).To(Equal(serial.Points[i].Coord))
				Expect(parallel.Points[i].Energy).To(Equal(serial.Points[i].Energy))
			}
		})
	})
})
