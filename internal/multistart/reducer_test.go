package multistart

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(index int, value float64) TrialResult {
	return TrialResult{
		Index:       index,
		End:         []float64{float64(index), value},
		Value:       value,
		Iterations:  10 * index,
		Evaluations: 100 * index,
	}
}

func TestReducerInitialState(t *testing.T) {
	best := NewReducer().Best()

	assert.True(t, math.IsInf(best.Value, 1))
	assert.Equal(t, -1, best.Trial)
	assert.False(t, best.Found())
	assert.Nil(t, best.Point)
}

func TestReducerKeepsMinimum(t *testing.T) {
	values := []float64{5, 3, 8, 1.5, 2, 9, 1.75, 4}

	for seed := int64(0); seed < 50; seed++ {
		order := rand.New(rand.NewSource(seed)).Perm(len(values))

		rd := NewReducer()
		for _, i := range order {
			rd.TryUpdate(result(i, values[i]))
		}

		best := rd.Best()
		require.Equal(t, 1.5, best.Value, "order %v", order)
		require.Equal(t, 3, best.Trial)
		require.Equal(t, 30, best.Iterations)
		require.Equal(t, 300, best.Evaluations)
		require.Equal(t, []float64{3, 1.5}, best.Point)
	}
}

func TestReducerTieKeepsFirstProcessed(t *testing.T) {
	tests := []struct {
		name  string
		order []int
		want  int
	}{
		{"low index first", []int{0, 3, 5, 1}, 3},
		{"high index first", []int{5, 0, 1, 3}, 5},
		{"interleaved", []int{1, 5, 0, 3}, 5},
		{"duplicates last", []int{0, 1, 3, 5}, 3},
	}
	// trials 3 and 5 share the minimum
	values := map[int]float64{0: 4, 1: 2, 3: 0.5, 5: 0.5}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd := NewReducer()
			for _, i := range tt.order {
				rd.TryUpdate(result(i, values[i]))
			}
			best := rd.Best()
			assert.Equal(t, 0.5, best.Value)
			assert.Equal(t, tt.want, best.Trial)
		})
	}
}

func TestReducerDiscardsNaN(t *testing.T) {
	rd := NewReducer()

	assert.False(t, rd.TryUpdate(result(0, math.NaN())))
	assert.False(t, rd.Best().Found())

	assert.True(t, rd.TryUpdate(result(1, 2)))
	assert.False(t, rd.TryUpdate(result(2, math.NaN())))
	assert.False(t, rd.TryUpdate(result(3, 2)), "equal value must not replace")
	assert.False(t, rd.TryUpdate(result(4, math.Inf(1))))

	best := rd.Best()
	assert.Equal(t, 1, best.Trial)
	assert.Equal(t, 2.0, best.Value)
}

func TestReducerCopiesPoints(t *testing.T) {
	rd := NewReducer()
	r := result(2, 1)
	rd.TryUpdate(r)

	r.End[0] = 42
	best := rd.Best()
	assert.Equal(t, 2.0, best.Point[0], "reducer must not alias the trial's slice")

	best.Point[0] = 17
	assert.Equal(t, 2.0, rd.Best().Point[0], "Best must return a copy")
}

func TestReducerConcurrentUpdates(t *testing.T) {
	const n = 1000
	rd := NewReducer()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// unique minimum at trial 617
			rd.TryUpdate(result(i, math.Abs(float64(i-617))))
		}(i)
	}
	wg.Wait()

	best := rd.Best()
	assert.Equal(t, 617, best.Trial)
	assert.Equal(t, 0.0, best.Value)
}
