// Package multistart runs many independent local searches from
// deterministic random starting points and keeps the best result.
//
// Every trial is an independent task on a bounded goroutine pool. Tasks share
// only the evaluation counter (atomic) and the best-result reducer (its own
// mutex). The summary is produced after all tasks have joined.
package multistart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/cwbudde/multistart/internal/objective"
	"github.com/cwbudde/multistart/internal/opt"
	"github.com/cwbudde/multistart/internal/problem"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Options configures a Driver
type Options struct {
	Bounds  problem.Bounds
	Search  problem.SearchConfig
	Trials  int
	Workers int // 0 = GOMAXPROCS

	Objective   objective.Func
	LocalSearch opt.LocalSearch
	Reporter    Reporter

	RunID  string       // generated when empty
	Logger *slog.Logger // slog.Default() when nil
}

// Driver runs a multistart search
type Driver struct {
	opts Options
}

// New validates opts and creates a driver. No trial is scheduled before
// every check has passed.
func New(opts Options) (*Driver, error) {
	if err := opts.Bounds.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Search.Validate(); err != nil {
		return nil, err
	}
	if opts.Trials < 1 || opts.Trials > problem.MaxTrials {
		return nil, &problem.ValidationError{
			Field:  "trials",
			Reason: fmt.Sprintf("must lie in [1, %d], got %d", problem.MaxTrials, opts.Trials),
		}
	}
	if opts.Workers < 0 {
		return nil, &problem.ValidationError{Field: "workers", Reason: fmt.Sprintf("cannot be negative, got %d", opts.Workers)}
	}
	if opts.Objective == nil || opts.LocalSearch == nil || opts.Reporter == nil {
		return nil, errors.New("objective, local search and reporter are required")
	}

	if opts.Workers == 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Driver{opts: opts}, nil
}

// RunID identifies the run in logs and reports
func (d *Driver) RunID() string {
	return d.opts.RunID
}

// Workers returns the size of the goroutine pool
func (d *Driver) Workers() int {
	return d.opts.Workers
}

// run is the shared state of one Run call
type run struct {
	counter objective.Counter
	reducer *Reducer
}

// Run executes every trial and blocks until all of them have finished, then
// reports and returns the summary.
//
// If a local search or the reporter fails, or ctx is cancelled, trials that
// have not started yet are skipped, running trials finish, and Run returns
// the error without a summary.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	logger := d.opts.Logger.With("run_id", d.opts.RunID)
	logger.Info("Starting multistart run",
		"trials", d.opts.Trials,
		"workers", d.opts.Workers,
		"dims", d.opts.Bounds.Dim(),
	)

	state := &run{reducer: NewReducer()}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)

	for i := 0; i < d.opts.Trials; i++ {
		if gctx.Err() != nil {
			break
		}
		index := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return d.runTrial(logger, state, index)
		})
	}

	// barrier
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		logger.Error("Multistart run aborted", "error", err)
		return Summary{}, fmt.Errorf("multistart run %s aborted: %w", d.opts.RunID, err)
	}

	summary := Summary{
		RunID:       d.opts.RunID,
		Elapsed:     time.Since(start),
		Trials:      d.opts.Trials,
		Evaluations: state.counter.Load(),
		Best:        state.reducer.Best(),
	}

	logger.Info("Multistart run complete",
		"elapsed", summary.Elapsed,
		"evaluations", summary.Evaluations,
		"best_trial", summary.Best.Trial,
		"best_value", summary.Best.Value,
	)

	return summary, d.opts.Reporter.Summary(summary)
}

// runTrial is the body of one task: generate, search, count, reduce, report
func (d *Driver) runTrial(logger *slog.Logger, state *run, index int) error {
	req := NewTrialRequest(index, d.opts.Bounds)

	res, err := d.opts.LocalSearch.Search(d.opts.Objective, req.Start, d.opts.Bounds, d.opts.Search)
	if err != nil {
		return fmt.Errorf("trial %d: %w", index, err)
	}

	result := TrialResult{
		Index:       index,
		Start:       req.Start,
		End:         res.Point,
		Value:       res.Value,
		Iterations:  res.Iterations,
		Evaluations: res.Evaluations,
		Termination: res.Termination,
	}

	state.counter.Add(res.Evaluations)
	improved := state.reducer.TryUpdate(result)

	logger.Debug("Trial finished",
		"trial", index,
		"value", res.Value,
		"iterations", res.Iterations,
		"evaluations", res.Evaluations,
		"termination", res.Termination.String(),
		"improved", improved,
	)

	return d.opts.Reporter.Trial(result)
}
