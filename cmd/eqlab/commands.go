package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/eqlab/internal/batch"
	"github.com/san-kum/eqlab/internal/config"
	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/engine"
	"github.com/san-kum/eqlab/internal/kinetics"
	"github.com/san-kum/eqlab/internal/stability"
	"github.com/san-kum/eqlab/internal/storage"
	"github.com/san-kum/eqlab/internal/tui"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func listModels(cmd *cobra.Command, args []string) error {
	eng := engine.New()
	infos, err := eng.Describe()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tMODEL\tPARAM\tUNIT\tRANGE\tDEFAULT\tDESCRIPTION")
	for _, info := range infos {
		if len(args) > 0 && info.Name != args[0] {
			continue
		}
		if kindFilter != "" && string(info.Kind) != kindFilter {
			continue
		}
		for i, p := range info.Params {
			k, name := "", ""
			if i == 0 {
				k, name = string(info.Kind), info.Name
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%g\t%s\n", k, name, p.Name, p.Unit, p.Range(), p.Default, p.Doc)
		}
	}
	return w.Flush()
}

func evalModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	k, err := cfg.GetKind()
	if err != nil {
		return err
	}
	c, err := eng.Configure(k, cfg.Model, cfg.Params)
	if err != nil {
		return err
	}

	meta := storage.RunMetadata{Command: "eval", Kind: string(k), Model: cfg.Model, Params: c.Values()}
	st := storage.New(dataDir)
	runID := ""

	switch k {
	case engine.Quantum:
		lv, err := eng.EvaluateQuantum(c, cfg.Levels)
		if err != nil {
			return err
		}
		fmt.Printf("model: %s (quantum)\n", cfg.Model)
		for n, e := range lv {
			fmt.Printf("  E%d = %.10g\n", n, e)
		}
		if !noSave {
			if runID, err = st.SaveLevels(meta, lv); err != nil {
				return err
			}
		}
	default:
		e, err := eng.EvaluateClassical(c)
		if err != nil {
			return err
		}
		fmt.Printf("model: %s (classical)\n", cfg.Model)
		fmt.Printf("energy: %.10g\n", e)
		if !noSave {
			meta.Summary = map[string]float64{"energy": e}
			if runID, err = st.SaveMetadata(meta); err != nil {
				return err
			}
		}
	}

	if runID != "" {
		fmt.Printf("\nrun saved: %s\n", runID)
	}
	return nil
}

func analyzeModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	l, err := buildLandscape(eng, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	res, err := eng.Analyze(ctx, l.surface, l.domain, cfg.GetAnalyzerOptions())
	if err != nil {
		return err
	}

	m := mass
	if v, ok := l.config.Lookup("mass"); ok && !cmd.Flags().Changed("mass") {
		m = v
	}
	printAnalysis(res, l.surface, m)

	if jsonOut != "" {
		if err := storage.ExportJSON(jsonOut, storage.NewAnalysisExport(l.config.Values(), res)); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", jsonOut)
	}
	if noSave {
		return nil
	}

	meta := storage.RunMetadata{
		Command: "analyze",
		Kind:    string(l.kind),
		Model:   cfg.Model,
		Params:  l.config.Values(),
		Domain:  &storage.DomainRecord{Min: l.domain.Min, Max: l.domain.Max, Resolution: l.domain.Resolution},
	}
	for _, w := range res.Warnings {
		meta.Warnings = append(meta.Warnings, fmt.Sprintf("%s near %v after %d iterations", w.Reason, []float64(w.Near), w.Iterations))
	}
	runID, err := storage.New(dataDir).SaveAnalysis(meta, res)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun saved: %s\n", runID)
	return nil
}

func printAnalysis(res *stability.Result, s energy.Surface, m float64) {
	fmt.Printf("model: %s\n", res.Model)
	fmt.Printf("samples: %d  evaluations: %d  tolerance: %g\n\n", res.Samples, res.Evaluations, res.Tolerance)

	if len(res.Points) == 0 {
		fmt.Println("no interior critical points")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CLASS\tCOORD\tENERGY\tRESIDUAL\tEIGENVALUES\tFREQUENCIES")
		for _, p := range res.Points {
			freq := "-"
			if modes, err := stability.VibrationalModes(p, m); err == nil {
				freq = formatFloats(modes)
			}
			fmt.Fprintf(w, "%s\t%s\t%.8g\t%.2e\t%s\t%s\n",
				p.Class, formatFloats(p.Coord), p.Energy, p.Residual(), formatFloats(p.Eigenvalues), freq)
		}
		w.Flush()
	}

	for _, b := range res.Boundary {
		fmt.Printf("boundary %s at %s: E = %.8g\n", b.Kind, formatFloats(b.Coord), b.Energy)
	}
	for _, w := range res.Warnings {
		fmt.Printf("warning: %s near %s (residual %.2e after %d iterations)\n",
			w.Reason, formatFloats(w.Near), w.Residual, w.Iterations)
	}

	if g, ok := res.Global(); ok {
		modes, _ := stability.VibrationalModes(g, m)
		fmt.Printf("\nglobal minimum: %s  E = %.8g  (%s)\n", formatFloats(g.Coord), g.Energy, stability.Verdict(modes))
	}
	if s.Dim() == 1 {
		if prof, err := kinetics.ProfileFromAnalysis(res); err == nil {
			fmt.Printf("barrier: %.8g  reaction energy: %.8g\n", prof.Barrier(), prof.ReactionEnergy())
		}
	}
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.6g", x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func plotModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	l, err := buildLandscape(eng, cfg)
	if err != nil {
		return err
	}
	if l.surface.Dim() != 1 {
		return fmt.Errorf("%w: plot needs a one-dimensional landscape, %s has %d axes",
			energy.ErrDimensionMismatch, cfg.Model, l.surface.Dim())
	}

	lo, hi := l.domain.Min[0], l.domain.Max[0]
	data := energy.SampleLine(l.surface, lo, hi, 80)
	caption := fmt.Sprintf("%s  E(x) on [%g, %g]", cfg.Model, lo, hi)
	fmt.Println(asciigraph.Plot(data, asciigraph.Height(15), asciigraph.Width(80), asciigraph.Caption(caption)))

	ctx, stop := signalContext()
	defer stop()
	res, err := eng.Analyze(ctx, l.surface, l.domain, cfg.GetAnalyzerOptions())
	if err != nil {
		return err
	}
	fmt.Println()
	for _, p := range res.Points {
		fmt.Printf("  %-13s x = %-12.6g E = %.8g\n", p.Class, p.Coord[0], p.Energy)
	}
	return nil
}

func compareModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	d, err := cfg.GetDomain()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	cmp, err := eng.Compare(ctx, cfg.Model, cfg.Params, d, cfg.Levels)
	if err != nil {
		return err
	}

	fmt.Printf("model: %s on [%g, %g]\n\n", cmp.Model, d.Min[0], d.Max[0])
	if cmp.Found {
		fmt.Printf("classical minimum: x = %.8g  E = %.8g\n", cmp.Minimum.Coord[0], cmp.Minimum.Energy)
	} else {
		fmt.Println("classical minimum: none in domain")
	}
	for n, e := range cmp.Levels {
		fmt.Printf("quantum E%d:        %.8g\n", n, e)
	}
	if zpe := cmp.ZeroPoint(); !math.IsNaN(zpe) {
		fmt.Printf("zero-point energy: %.8g\n", zpe)
	}
	return nil
}

func sweepModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("axis") {
		if cfg.Sweep, err = parseAxes(sweepAxes); err != nil {
			return err
		}
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	sweep, err := cfg.GetSweep()
	if err != nil {
		return err
	}
	if len(cfg.Domain.Min) == 1 && cfg.Model != "" {
		if info, err := eng.Lookup(sweep.Kind, cfg.Model); err == nil && len(info.Coordinates) > 1 {
			fitDomain(cfg, len(info.Coordinates))
			if sweep.Domain, err = cfg.GetDomain(); err != nil {
				return err
			}
		}
	}

	total := sweep.Size()
	done := 0
	sweep.OnEntry = func(e batch.Entry) {
		done++
		var status string
		if e.Err != nil {
			status = e.Err.Error()
		} else {
			status = fmt.Sprintf("%d points", len(e.Result.Points))
		}
		fmt.Printf("[%d/%d] %v  %s\n", done, total, e.Values, status)
	}

	ctx, stop := signalContext()
	defer stop()
	entries, err := sweep.Run(ctx, eng)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		fmt.Printf("\ninterrupted after %d of %d configurations\n", len(entries), total)
	}

	if xlsxOut != "" {
		if err := storage.SaveSweepXLSX(xlsxOut, sweep.Axes, entries); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", xlsxOut)
	}
	return err
}

func kineticsReport(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("ea") {
		k, err := kinetics.RateConstant(activation, prefactor, temp)
		if err != nil {
			return err
		}
		life, err := kinetics.ShelfLife(k)
		if err != nil {
			return err
		}
		fmt.Printf("Ea = %g kJ/mol  A = %g 1/s  T = %g K\n", activation, prefactor, temp)
		fmt.Printf("rate: %s\nshelf life: %s\n", kinetics.FormatRate(k), kinetics.FormatShelfLife(life))
		return nil
	}

	compounds := kinetics.Catalog()
	if len(args) > 0 {
		c, err := kinetics.Find(args[0])
		if err != nil {
			return err
		}
		compounds = []kinetics.Compound{c}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPOUND\tPRODUCT\tEA\tBARRIER\tRATE\tSHELF LIFE")
	for _, c := range compounds {
		k, err := kinetics.RateConstant(c.Ea, c.A, temp)
		if err != nil {
			return err
		}
		life, err := c.ShelfLife(temp)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%g kJ/mol\t%.1f kJ/mol\t%s\t%s\n",
			c.Name, c.Product, c.Ea, c.Profile.KJPerMol().Barrier(), kinetics.FormatRate(k), kinetics.FormatShelfLife(life))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMMAND\tKIND\tMODEL\tTIME\tPOINTS\tWARNINGS")

	for _, run := range runs {
		points := "-"
		if n, ok := run.Summary["points"]; ok {
			points = fmt.Sprintf("%.0f", n)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			run.ID,
			run.Command,
			run.Kind,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			points,
			len(run.Warnings),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if err := storage.WriteJSON(os.Stdout, meta); err != nil {
		return err
	}

	points, err := st.LoadPoints(runID)
	switch {
	case err == nil:
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CLASS\tCOORD\tENERGY\tRESIDUAL")
		for _, p := range points {
			fmt.Fprintf(w, "%s\t%s\t%.8g\t%.2e\n", p.Class, formatFloats(p.Coord), p.Energy, p.Residual)
		}
		return w.Flush()
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	lv, err := st.LoadLevels(runID)
	switch {
	case err == nil:
		fmt.Println()
		for n, e := range lv {
			fmt.Printf("E%d = %.10g\n", n, e)
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	models := []string{}
	if len(args) > 0 {
		models = append(models, args[0])
	} else {
		for name := range config.Presets {
			models = append(models, name)
		}
	}
	found := false
	slices.Sort(models)
	for _, model := range models {
		presets := config.ListPresets(model)
		if len(presets) == 0 {
			continue
		}
		found = true
		fmt.Printf("presets for %s:\n", model)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	if !found && len(args) > 0 {
		fmt.Printf("no presets for model: %s\n", args[0])
	}
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if cmd.Flags().Changed("units") {
		cfg.Units = units
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	return tui.RunExplorer(eng)
}
