package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	units      string
	configFile string
	preset     string

	kind          string
	kindFilter    string
	params        map[string]string
	domainMin     []float64
	domainMax     []float64
	resolution    int
	tolerance     float64
	maxIterations int
	boundary      bool
	workers       int
	seed          int64
	levels        int
	scan          []string

	mass       float64
	jsonOut    string
	noSave     bool
	sweepAxes  map[string]string
	xlsxOut    string
	temp       float64
	activation float64
	prefactor  float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "eqlab",
		Short:        "energy landscape and stability lab",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: runExplore,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".eqlab", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&units, "units", "natural", "unit system (natural, si)")

	modelsCmd := &cobra.Command{
		Use:   "models [model]",
		Short: "list models and their parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listModels,
	}
	modelsCmd.Flags().StringVar(&kindFilter, "kind", "", "only this kind (classical, quantum)")

	evalCmd := &cobra.Command{
		Use:   "eval [model]",
		Short: "evaluate the energy of one configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  evalModel,
	}
	modelFlags(evalCmd)
	evalCmd.Flags().IntVar(&levels, "levels", 1, "quantum levels to report")
	evalCmd.Flags().BoolVar(&noSave, "no-save", false, "do not archive the run")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [model]",
		Short: "find and classify critical points",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeModel,
	}
	modelFlags(analyzeCmd)
	domainFlags(analyzeCmd)
	analyzeCmd.Flags().Float64Var(&mass, "mass", 1, "mass for vibrational modes")
	analyzeCmd.Flags().StringVar(&jsonOut, "json", "", "also write the result as JSON to this file")
	analyzeCmd.Flags().BoolVar(&noSave, "no-save", false, "do not archive the run")

	plotCmd := &cobra.Command{
		Use:   "plot [model]",
		Short: "plot a one-dimensional landscape",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotModel,
	}
	modelFlags(plotCmd)
	domainFlags(plotCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [model]",
		Short: "classical minimum against quantum ground state",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareModel,
	}
	modelFlags(compareCmd)
	domainFlags(compareCmd)
	compareCmd.Flags().IntVar(&levels, "levels", 1, "quantum levels to report")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "analyze every point of a parameter grid",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepModel,
	}
	modelFlags(sweepCmd)
	domainFlags(sweepCmd)
	sweepCmd.Flags().StringToStringVar(&sweepAxes, "axis", nil, "sweep axis name=v1:v2:...")
	sweepCmd.Flags().StringVarP(&xlsxOut, "out", "o", "", "write the sweep to this xlsx file")

	kineticsCmd := &cobra.Command{
		Use:   "kinetics [compound]",
		Short: "Arrhenius rates and shelf life",
		Args:  cobra.MaximumNArgs(1),
		RunE:  kineticsReport,
	}
	kineticsCmd.Flags().Float64Var(&temp, "temp", 298, "temperature (K)")
	kineticsCmd.Flags().Float64Var(&activation, "ea", 0, "activation energy (kJ/mol) for a custom reaction")
	kineticsCmd.Flags().Float64Var(&prefactor, "prefactor", 1e13, "pre-exponential factor (1/s) for a custom reaction")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive landscape explorer",
		RunE:  runExplore,
	}

	rootCmd.AddCommand(modelsCmd, evalCmd, analyzeCmd, plotCmd, compareCmd, sweepCmd, kineticsCmd, runsCmd, showCmd, presetsCmd, exploreCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func modelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&kind, "kind", "classical", "model kind (classical, quantum)")
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "parameter values name=value")
	cmd.Flags().Int64Var(&seed, "seed", 7, "rugged landscape seed")
	cmd.Flags().StringSliceVar(&scan, "scan", nil, "quantum parameters spanning the landscape")
}

func domainFlags(cmd *cobra.Command) {
	cmd.Flags().Float64SliceVar(&domainMin, "min", nil, "lower bound per axis")
	cmd.Flags().Float64SliceVar(&domainMax, "max", nil, "upper bound per axis")
	cmd.Flags().IntVar(&resolution, "resolution", 200, "grid intervals per axis")
	cmd.Flags().Float64Var(&tolerance, "tol", 1e-6, "gradient tolerance")
	cmd.Flags().IntVar(&maxIterations, "max-iter", 100, "refinement iteration cap")
	cmd.Flags().BoolVar(&boundary, "boundary", false, "report boundary extrema")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all CPUs)")
}
