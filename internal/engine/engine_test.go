package engine_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/engine"
	"github.com/san-kum/eqlab/internal/quantum"
	"github.com/san-kum/eqlab/internal/stability"
)

func quantumGrid(resolution int) quantum.GridOptions {
	return quantum.GridOptions{Resolution: resolution}
}

var _ = Describe("Engine", func() {
	var eng *engine.Engine

	BeforeEach(func() {
		eng = engine.New()
	})

	Describe("Configure", func() {
		It("fills defaults and keeps kinds apart", func() {
			cfg, err := eng.Configure(engine.Classical, "harmonic", map[string]float64{"x": 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Get("k")).To(Equal(1.0))

			qcfg, err := eng.Configure(engine.Quantum, "harmonic", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(qcfg.Get("mass")).To(Equal(1.0))

			_, err = eng.EvaluateClassical(qcfg)
			Expect(errors.Is(err, energy.ErrInvalidConfiguration)).To(BeTrue())
		})

		It("rejects unknown models, kinds and parameters", func() {
			_, err := eng.Configure(engine.Classical, "nope", nil)
			Expect(errors.Is(err, energy.ErrInvalidConfiguration)).To(BeTrue())

			_, err = eng.Configure(engine.Kind("relativistic"), "harmonic", nil)
			Expect(errors.Is(err, energy.ErrInvalidConfiguration)).To(BeTrue())

			_, err = eng.Configure(engine.Classical, "harmonic", map[string]float64{"spin": 1})
			var ce *energy.ConfigError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Param).To(Equal("spin"))
		})

		It("rejects non-physical values at construction", func() {
			_, err := eng.Configure(engine.Quantum, "harmonic", map[string]float64{"mass": -1})
			Expect(errors.Is(err, energy.ErrInvalidConfiguration)).To(BeTrue())

			_, err = eng.Configure(engine.Classical, "morse", map[string]float64{"r": math.NaN()})
			Expect(errors.Is(err, energy.ErrInvalidConfiguration)).To(BeTrue())
		})
	})

	Describe("EvaluateClassical", func() {
		It("is deterministic", func() {
			cfg, err := eng.Configure(engine.Classical, "rugged", map[string]float64{"x": 1.3})
			Expect(err).NotTo(HaveOccurred())
			a, err := eng.EvaluateClassical(cfg)
			Expect(err).NotTo(HaveOccurred())
			b, _ := eng.EvaluateClassical(cfg)
			Expect(b).To(Equal(a))
		})
	})

	Describe("EvaluateQuantum", func() {
		It("returns ħω/2 for the oscillator ground state", func() {
			cfg, err := eng.Configure(engine.Quantum, "harmonic", map[string]float64{"mass": 1, "k": 1})
			Expect(err).NotTo(HaveOccurred())
			levels, err := eng.EvaluateQuantum(cfg, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(levels).To(HaveLen(1))
			Expect(levels[0]).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("agrees with the closed form on the grid", func() {
			cfg, err := eng.Configure(engine.Quantum, "grid:harmonic", map[string]float64{"k": 1})
			Expect(err).NotTo(HaveOccurred())
			levels, err := eng.EvaluateQuantum(cfg, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(levels[0]).To(BeNumerically("~", 0.5, 1e-3))
		})

		It("surfaces convergence failures", func() {
			coarse := engine.New(engine.WithGrid(quantumGrid(4)))
			cfg, err := coarse.Configure(engine.Quantum, "grid:harmonic", nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = coarse.EvaluateQuantum(cfg, 1)
			Expect(errors.Is(err, energy.ErrConvergence)).To(BeTrue())
		})
	})

	Describe("AnalyzeStability", func() {
		It("finds the double-well critical points", func() {
			cfg, err := eng.Configure(engine.Classical, "double_well", nil)
			Expect(err).NotTo(HaveOccurred())
			s, err := eng.ClassicalSurface(cfg)
			Expect(err).NotTo(HaveOccurred())
			d, _ := energy.Interval(-3, 3, 200)

			res, err := eng.AnalyzeStability(context.Background(), s, d, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Tolerance).To(Equal(stability.DefaultTolerance))
			Expect(res.Points).To(HaveLen(3))
			Expect(res.Count(stability.Stable)).To(Equal(2))
			Expect(res.Count(stability.Unstable)).To(Equal(1))
		})

		It("rejects a negative or non-finite tolerance", func() {
			cfg, err := eng.Configure(engine.Classical, "harmonic", nil)
			Expect(err).NotTo(HaveOccurred())
			s, err := eng.ClassicalSurface(cfg)
			Expect(err).NotTo(HaveOccurred())
			d, _ := energy.Interval(-1, 1.3, 100)

			for _, tol := range []float64{-1, math.NaN(), math.Inf(1)} {
				res, err := eng.AnalyzeStability(context.Background(), s, d, tol)
				Expect(errors.Is(err, energy.ErrInvalidConfiguration)).To(BeTrue(), "tol %v", tol)
				Expect(res).To(BeNil())
			}
		})

		It("locates the equilibrium box length on the quantum surface", func() {
			cfg, err := eng.Configure(engine.Quantum, "box", map[string]float64{"wall": 2})
			Expect(err).NotTo(HaveOccurred())
			s, err := eng.QuantumSurface(cfg, "length")
			Expect(err).NotTo(HaveOccurred())
			d, _ := energy.Interval(0.5, 3, 100)

			res, err := eng.AnalyzeStability(context.Background(), s, d, 1e-6)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Points).To(HaveLen(1))
			Expect(res.Points[0].Class).To(Equal(stability.Stable))
			want := math.Pow(math.Pi*math.Pi/2, 0.25)
			Expect(res.Points[0].Coord[0]).To(BeNumerically("~", want, 1e-5))
		})
	})

	Describe("Compare", func() {
		It("reports the zero-point energy of the oscillator", func() {
			d, _ := energy.Interval(-8, 8, 200)
			cmp, err := eng.Compare(context.Background(), "harmonic", map[string]float64{"k": 1, "mass": 1}, d, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Found).To(BeTrue())
			Expect(cmp.Minimum.Energy).To(BeNumerically("~", 0, 1e-12))
			Expect(cmp.Levels).To(HaveLen(2))
			Expect(cmp.ZeroPoint()).To(BeNumerically("~", 0.5, 1e-3))
		})

		It("has no zero point without a classical minimum", func() {
			d, _ := energy.Interval(-3, 3, 100)
			cmp, err := eng.Compare(context.Background(), "inverted", map[string]float64{"k": 0.01}, d, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Found).To(BeFalse())
			Expect(math.IsNaN(cmp.ZeroPoint())).To(BeTrue())
		})

		It("rejects two-dimensional potentials", func() {
			d, _ := energy.Interval(-1, 1, 10)
			_, err := eng.Compare(context.Background(), "saddle2d", nil, d, 1)
			Expect(errors.Is(err, energy.ErrInvalidConfiguration)).To(BeTrue())
		})
	})

	Describe("Describe", func() {
		It("documents every registered model", func() {
			infos, err := eng.Describe()
			Expect(err).NotTo(HaveOccurred())
			Expect(len(infos)).To(Equal(len(eng.Registry().List(engine.Classical)) + len(eng.Registry().List(engine.Quantum))))
			for _, info := range infos {
				Expect(info.Params).NotTo(BeEmpty(), info.Name)
				for _, p := range info.Params {
					Expect(p.Unit).NotTo(BeEmpty(), "%s.%s", info.Name, p.Name)
					Expect(p.Check(p.Default)).To(BeEmpty(), "%s.%s default", info.Name, p.Name)
				}
			}
			Expect(infos[0].Kind).To(Equal(engine.Classical))
			Expect(infos[len(infos)-1].Kind).To(Equal(engine.Quantum))
		})
	})
})
