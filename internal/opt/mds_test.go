package opt

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/multistart/internal/objective"
	"github.com/cwbudde/multistart/internal/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMDSConvergesOnSphere(t *testing.T) {
	b := problem.Uniform(3, -2, 2)
	cfg := problem.DefaultSearchConfig()

	res, err := NewMDS().Search(objective.Sphere, []float64{1.5, -0.7, 0.3}, b, cfg)
	require.NoError(t, err)

	assert.Equal(t, TermConverged, res.Termination)
	assert.Less(t, res.Value, 1e-8)
	for i, v := range res.Point {
		assert.InDelta(t, 0, v, 1e-4, "parameter %d", i)
	}
	assert.Positive(t, res.Iterations)
	assert.LessOrEqual(t, res.Evaluations, cfg.MaxEvals)
}

func TestMDSImprovesRosenbrock(t *testing.T) {
	b := problem.Uniform(2, -2, 2)
	cfg := problem.DefaultSearchConfig()
	start := []float64{-1.2, 1}

	res, err := NewMDS().Search(objective.Rosenbrock, start, b, cfg)
	require.NoError(t, err)

	assert.Less(t, res.Value, objective.Rosenbrock(start))
	assert.InDelta(t, res.Value, objective.Rosenbrock(res.Point), 0)
}

func TestMDSEvaluationBudget(t *testing.T) {
	b := problem.Uniform(4, -2, 2)
	cfg := problem.DefaultSearchConfig()
	cfg.MaxEvals = 50

	var calls objective.Counter
	res, err := NewMDS().Search(objective.Counted(objective.Rosenbrock, &calls), []float64{0.5, 0.5, 0.5, 0.5}, b, cfg)
	require.NoError(t, err)

	assert.Equal(t, TermMaxEvals, res.Termination)
	assert.LessOrEqual(t, res.Evaluations, cfg.MaxEvals)
	assert.Equal(t, uint64(res.Evaluations), calls.Load(), "reported evaluations must match objective calls")
}

func TestMDSBudgetTooSmallForSimplex(t *testing.T) {
	b := problem.Uniform(3, -1, 1)
	cfg := problem.DefaultSearchConfig()
	cfg.MaxEvals = 2

	start := []float64{0.1, 0.2, 0.3}
	res, err := NewMDS().Search(objective.Sphere, start, b, cfg)
	require.NoError(t, err)

	assert.Equal(t, TermMaxEvals, res.Termination)
	assert.Equal(t, 1, res.Evaluations)
	assert.Equal(t, start, res.Point)
	assert.Equal(t, 0, res.Iterations)
}

func TestMDSIterationBudget(t *testing.T) {
	b := problem.Uniform(2, -2, 2)
	cfg := problem.DefaultSearchConfig()
	cfg.MaxIters = 3

	res, err := NewMDS().Search(objective.Rosenbrock, []float64{-1.5, 1.5}, b, cfg)
	require.NoError(t, err)

	assert.Equal(t, TermMaxIters, res.Termination)
	assert.Equal(t, 3, res.Iterations)
}

func TestMDSStaysInBox(t *testing.T) {
	// unconstrained minimum at the origin lies outside the box
	b := problem.Bounds{Lower: []float64{1, 1}, Upper: []float64{3, 3}}
	cfg := problem.DefaultSearchConfig()

	var mu sync.Mutex
	outside := 0
	f := func(x []float64) float64 {
		for i, v := range x {
			if v < b.Lower[i] || v > b.Upper[i] {
				mu.Lock()
				outside++
				mu.Unlock()
			}
		}
		return objective.Sphere(x)
	}

	res, err := NewMDS().Search(f, []float64{2.9, 2.2}, b, cfg)
	require.NoError(t, err)

	assert.Zero(t, outside, "objective evaluated outside the box")
	assert.InDelta(t, 1, res.Point[0], 1e-4)
	assert.InDelta(t, 1, res.Point[1], 1e-4)
}

func TestMDSDoesNotModifyStart(t *testing.T) {
	b := problem.Uniform(2, -2, 2)
	start := []float64{1, 1}
	_, err := NewMDS().Search(objective.Sphere, start, b, problem.DefaultSearchConfig())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, start)
}

func TestMDSNaNObjective(t *testing.T) {
	b := problem.Uniform(2, -2, 2)
	cfg := problem.DefaultSearchConfig()
	cfg.MaxEvals = 100

	res, err := NewMDS().Search(func([]float64) float64 { return math.NaN() }, []float64{0, 0}, b, cfg)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(res.Value))
}

func TestMDSDimensionMismatch(t *testing.T) {
	_, err := NewMDS().Search(objective.Sphere, []float64{0}, problem.Uniform(2, -1, 1), problem.DefaultSearchConfig())
	assert.Error(t, err)
}

func TestMDSConcurrentSearchesAgree(t *testing.T) {
	b := problem.Uniform(2, -2, 2)
	cfg := problem.DefaultSearchConfig()
	start := []float64{-0.5, 1.5}
	search := NewMDS()

	want, err := search.Search(objective.Rosenbrock, start, b, cfg)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = search.Search(objective.Rosenbrock, start, b, cfg)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, "result %d", i)
	}
}

func TestNew(t *testing.T) {
	for _, method := range Methods() {
		s, err := New(method)
		require.NoError(t, err, method)
		assert.NotNil(t, s)
	}

	_, err := New("nelder-mead")
	assert.True(t, errors.Is(err, ErrUnknownMethod))
}

func TestTerminationString(t *testing.T) {
	assert.Equal(t, "converged", TermConverged.String())
	assert.Equal(t, "max-evals", TermMaxEvals.String())
	assert.Equal(t, "max-iters", TermMaxIters.String())
	assert.Equal(t, "none", TermNone.String())
	assert.Equal(t, "termination(7)", Termination(7).String())
}
