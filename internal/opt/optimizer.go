package opt

import (
	"errors"
	"fmt"

	"github.com/cwbudde/multistart/internal/objective"
	"github.com/cwbudde/multistart/internal/problem"
)

// Termination tells why a local search stopped
type Termination int

const (
	TermNone      Termination = -1 // search did not run
	TermConverged Termination = 1  // simplex shrank below tolerance
	TermMaxEvals  Termination = 2  // evaluation budget exhausted
	TermMaxIters  Termination = 3  // iteration budget exhausted
)

func (t Termination) String() string {
	switch t {
	case TermNone:
		return "none"
	case TermConverged:
		return "converged"
	case TermMaxEvals:
		return "max-evals"
	case TermMaxIters:
		return "max-iters"
	default:
		return fmt.Sprintf("termination(%d)", int(t))
	}
}

// Result is the outcome of one local search
type Result struct {
	Point       []float64
	Value       float64
	Iterations  int
	Evaluations int
	Termination Termination
}

// LocalSearch defines a bounded derivative-free local optimizer.
//
// Implementations must be reentrant: Search is called concurrently from many
// goroutines and may only share state through f. Failing to converge is
// reported through Result.Termination; an error means the search could not
// run at all.
type LocalSearch interface {
	// Search minimizes f starting from start, staying inside b
	Search(f objective.Func, start []float64, b problem.Bounds, cfg problem.SearchConfig) (Result, error)
}

// ErrUnknownMethod is returned by New for unregistered method names.
var ErrUnknownMethod = errors.New("unknown local search method")

// Methods lists the names accepted by New
func Methods() []string {
	return []string{"mds", "mayfly"}
}

// New creates the local search registered under method
func New(method string) (LocalSearch, error) {
	switch method {
	case "mds":
		return NewMDS(), nil
	case "mayfly":
		return NewMayfly(DefaultMayflyPopSize), nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownMethod, method, Methods())
	}
}
