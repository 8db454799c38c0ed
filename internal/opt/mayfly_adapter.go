package opt

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
	"github.com/cwbudde/multistart/internal/objective"
	"github.com/cwbudde/multistart/internal/problem"
)

// DefaultMayflyPopSize is the smallest population mayfly v0.1.0 accepts
const DefaultMayflyPopSize = 20

// MayflyAdapter wraps the external Mayfly library to conform to the LocalSearch interface.
//
// Mayfly only supports one scalar range for all variables, so the search runs
// in the unit cube and every candidate is mapped into the box before calling f.
// The generator is seeded from the start point, which keeps trials reproducible
// without any state shared between calls.
type MayflyAdapter struct {
	popSize int
}

// NewMayfly creates a new Mayfly local search adapter
func NewMayfly(popSize int) *MayflyAdapter {
	if popSize < DefaultMayflyPopSize {
		popSize = DefaultMayflyPopSize
	}
	return &MayflyAdapter{popSize: popSize}
}

// Search executes the Mayfly optimization using the external library.
// The iteration count is sized so the run, plus the final check of the start
// point, stays within MaxEvals. A budget too small for a single generation
// evaluates the start point only.
func (m *MayflyAdapter) Search(f objective.Func, start []float64, b problem.Bounds, cfg problem.SearchConfig) (Result, error) {
	dim := len(start)
	if dim == 0 || dim != b.Dim() {
		return Result{Termination: TermNone}, fmt.Errorf("start point has %d variables, bounds have %d", dim, b.Dim())
	}

	var calls objective.Counter
	counted := objective.Counted(f, &calls)

	startPoint := append([]float64(nil), start...)
	b.Clamp(startPoint)

	iters, term := m.iterations(cfg)
	if iters == 0 {
		return Result{
			Point:       startPoint,
			Value:       counted(startPoint),
			Evaluations: int(calls.Load()),
			Termination: TermMaxEvals,
		}, nil
	}

	toBox := func(u []float64) []float64 {
		x := make([]float64, dim)
		for i, v := range u {
			x[i] = b.Lower[i] + v*b.Width(i)
		}
		b.Clamp(x)
		return x
	}

	// Create config for external Mayfly library
	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = func(u []float64) float64 {
		return counted(toBox(u))
	}
	config.ProblemSize = dim
	config.MaxIterations = iters
	config.NPop = m.popSize
	config.NPopF = m.popSize
	config.NC = m.popSize
	config.NM = m.mutants()
	config.LowerBound = 0
	config.UpperBound = 1
	config.Rand = rand.New(rand.NewSource(seedFromPoint(start)))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return Result{Termination: TermNone}, fmt.Errorf("mayfly optimization failed: %w", err)
	}

	best := toBox(result.GlobalBest.Position)
	bestCost := result.GlobalBest.Cost

	// never report worse than where the trial started
	if startCost := counted(startPoint); less(startCost, bestCost) {
		best, bestCost = startPoint, startCost
	}

	return Result{
		Point:       best,
		Value:       bestCost,
		Iterations:  iters,
		Evaluations: int(calls.Load()),
		Termination: term,
	}, nil
}

// mutants matches the library's default of 5% of the male population
func (m *MayflyAdapter) mutants() int {
	return max(1, int(math.Round(0.05*float64(m.popSize))))
}

// evalsPerIteration is what one generation of the standard variant costs:
// every male and female moves, NC offspring and NM mutants are evaluated.
func (m *MayflyAdapter) evalsPerIteration() int {
	return 2*m.popSize + 2*(m.popSize/2) + m.mutants()
}

// iterations returns how many generations fit in cfg and which limit binds.
// Zero means not even the initial populations fit.
func (m *MayflyAdapter) iterations(cfg problem.SearchConfig) (int, Termination) {
	// initial populations and the final start point check
	fixed := 2*m.popSize + 1
	byEvals := (cfg.MaxEvals - fixed) / m.evalsPerIteration()
	if cfg.MaxEvals < fixed || byEvals < 1 {
		return 0, TermMaxEvals
	}
	if cfg.MaxIters <= byEvals {
		return cfg.MaxIters, TermMaxIters
	}
	return byEvals, TermMaxEvals
}

func seedFromPoint(x []float64) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range x {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return int64(h.Sum64())
}
