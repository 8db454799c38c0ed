package multistart

import (
	"math"
	"math/rand"

	"github.com/cwbudde/multistart/internal/opt"
	"github.com/cwbudde/multistart/internal/problem"
)

// TrialRequest is the input of one local search
type TrialRequest struct {
	Index int
	Dim   int
	Start []float64
}

// TrialResult is what one trial produced. It is owned by the task that
// created it until handed to the reducer and reporter.
type TrialResult struct {
	Index       int
	Start       []float64
	End         []float64
	Value       float64
	Iterations  int
	Evaluations int
	Termination opt.Termination
}

// StartingPoint returns the deterministic start of trial index inside b.
// Each call seeds its own generator with the index, so the result depends on
// nothing but index and b, whichever goroutine asks and whenever.
func StartingPoint(index int, b problem.Bounds) []float64 {
	rng := rand.New(rand.NewSource(int64(index)))
	x := make([]float64, b.Dim())
	for i := range x {
		lo, hi := b.Lower[i], b.Upper[i]
		u := rng.Float64()
		x[i] = lo + (hi*u - lo*u)
		// rounding may land on hi for u close to 1
		if x[i] >= hi {
			x[i] = math.Nextafter(hi, lo)
		}
	}
	return x
}

// NewTrialRequest builds the request for trial index
func NewTrialRequest(index int, b problem.Bounds) TrialRequest {
	return TrialRequest{
		Index: index,
		Dim:   b.Dim(),
		Start: StartingPoint(index, b),
	}
}
