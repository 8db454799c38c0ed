package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/multistart/internal/multistart"
	"github.com/cwbudde/multistart/internal/objective"
	"github.com/cwbudde/multistart/internal/opt"
	"github.com/cwbudde/multistart/internal/problem"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// runFlags mirrors problem.Config; only flags set on the command line
// override values from --config.
type runFlags struct {
	configPath string
	cfg        problem.Config
}

func newRunCmd() *cobra.Command {
	f := &runFlags{cfg: problem.DefaultConfig()}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a multistart optimization",
		Long: `Runs one local search per trial from deterministic starting points,
prints a block per finished trial and a final summary with the best result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return runMultistart(cmd, cfg)
		},
	}

	d := f.cfg
	flags := runCmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "YAML run description (flags override it)")
	flags.IntVar(&f.cfg.Dims, "dims", d.Dims, "Number of variables")
	flags.IntVar(&f.cfg.Trials, "trials", d.Trials, "Number of trials")
	flags.IntVar(&f.cfg.Workers, "workers", d.Workers, "Worker goroutines (0 = GOMAXPROCS)")
	flags.Float64SliceVar(&f.cfg.Lower, "lower", d.Lower, "Lower bound, one value or one per dimension")
	flags.Float64SliceVar(&f.cfg.Upper, "upper", d.Upper, "Upper bound, one value or one per dimension")
	flags.StringVar(&f.cfg.Objective, "objective", d.Objective, fmt.Sprintf("Objective function %v", objective.Names()))
	flags.StringVar(&f.cfg.Method, "method", d.Method, fmt.Sprintf("Local search method %v", opt.Methods()))
	flags.StringVar(&f.cfg.Format, "format", d.Format, "Report format: text, json")
	flags.DurationVar(&f.cfg.Delay, "delay", d.Delay, "Artificial work per objective evaluation")
	flags.Float64Var(&f.cfg.Search.Tolerance, "tolerance", d.Search.Tolerance, "Stopping simplex size")
	flags.IntVar(&f.cfg.Search.MaxEvals, "max-evals", d.Search.MaxEvals, "Max objective evaluations per trial")
	flags.IntVar(&f.cfg.Search.MaxIters, "max-iters", d.Search.MaxIters, "Max iterations per trial")
	flags.Float64Var(&f.cfg.Search.Expansion, "expansion", d.Search.Expansion, "Expansion factor (mu)")
	flags.Float64Var(&f.cfg.Search.Contraction, "contraction", d.Search.Contraction, "Contraction factor (theta), in (0, 1)")
	flags.Float64Var(&f.cfg.Search.Step, "step", d.Search.Step, "Initial step as a fraction of each bound's width (delta)")

	return runCmd
}

// resolve merges --config and explicitly set flags, then validates
func (f *runFlags) resolve(cmd *cobra.Command) (problem.Config, error) {
	cfg := f.cfg
	if f.configPath != "" {
		fileCfg, err := problem.LoadConfig(f.configPath)
		if err != nil {
			return problem.Config{}, err
		}
		cfg = fileCfg
		overrideChanged(cmd, &cfg, f.cfg)
	}

	if err := cfg.Validate(); err != nil {
		return problem.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func overrideChanged(cmd *cobra.Command, dst *problem.Config, src problem.Config) {
	changed := cmd.Flags().Changed
	if changed("dims") {
		dst.Dims = src.Dims
	}
	if changed("trials") {
		dst.Trials = src.Trials
	}
	if changed("workers") {
		dst.Workers = src.Workers
	}
	if changed("lower") {
		dst.Lower = src.Lower
	}
	if changed("upper") {
		dst.Upper = src.Upper
	}
	if changed("objective") {
		dst.Objective = src.Objective
	}
	if changed("method") {
		dst.Method = src.Method
	}
	if changed("format") {
		dst.Format = src.Format
	}
	if changed("delay") {
		dst.Delay = src.Delay
	}
	if changed("tolerance") {
		dst.Search.Tolerance = src.Search.Tolerance
	}
	if changed("max-evals") {
		dst.Search.MaxEvals = src.Search.MaxEvals
	}
	if changed("max-iters") {
		dst.Search.MaxIters = src.Search.MaxIters
	}
	if changed("expansion") {
		dst.Search.Expansion = src.Search.Expansion
	}
	if changed("contraction") {
		dst.Search.Contraction = src.Search.Contraction
	}
	if changed("step") {
		dst.Search.Step = src.Search.Step
	}
}

func runMultistart(cmd *cobra.Command, cfg problem.Config) error {
	bounds, err := cfg.Bounds()
	if err != nil {
		return err
	}

	f, err := objective.Lookup(cfg.Objective)
	if err != nil {
		return err
	}
	search, err := opt.New(cfg.Method)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	var reporter multistart.Reporter
	switch cfg.Format {
	case "json":
		reporter = multistart.NewJSONReporter(cmd.OutOrStdout(), runID)
	default:
		reporter = multistart.NewTextReporter(cmd.OutOrStdout(), cfg.Method)
	}

	driver, err := multistart.New(multistart.Options{
		Bounds:      bounds,
		Search:      cfg.Search,
		Trials:      cfg.Trials,
		Workers:     cfg.Workers,
		Objective:   objective.WithDelay(f, cfg.Delay),
		LocalSearch: search,
		Reporter:    reporter,
		RunID:       runID,
		Logger:      slog.Default(),
	})
	if err != nil {
		return err
	}

	slog.Info("Starting optimization",
		"run_id", runID,
		"objective", cfg.Objective,
		"method", cfg.Method,
		"dims", cfg.Dims,
		"trials", cfg.Trials,
		"workers", driver.Workers(),
	)

	start := time.Now()
	summary, err := driver.Run(cmd.Context())
	if err != nil {
		return err
	}

	slog.Info("Optimization complete",
		"run_id", runID,
		"elapsed", time.Since(start),
		"evaluations", summary.Evaluations,
		"best_trial", summary.Best.Trial,
		"best_value", summary.Best.Value,
	)
	return nil
}
