package multistart

import (
	"math"
	"sync"
)

// BestState is the best trial seen so far
type BestState struct {
	Value       float64   `json:"value"`
	Point       []float64 `json:"point"`
	Trial       int       `json:"trial"`
	Iterations  int       `json:"iterations"`
	Evaluations int       `json:"evaluations"`
}

// Found reports whether any trial has been accepted
func (s BestState) Found() bool {
	return s.Trial >= 0
}

// Reducer keeps the best TrialResult under its own lock.
type Reducer struct {
	mu   sync.Mutex
	best BestState
}

// NewReducer creates a reducer with no trial selected and value +Inf
func NewReducer() *Reducer {
	return &Reducer{
		best: BestState{
			Value:       math.Inf(1),
			Trial:       -1,
			Iterations:  -1,
			Evaluations: -1,
		},
	}
}

// TryUpdate replaces the best state if and only if r.Value is strictly lower.
// Ties keep the earlier candidate. A NaN value never compares lower and is
// dropped. Returns true when r was accepted.
func (rd *Reducer) TryUpdate(r TrialResult) bool {
	rd.mu.Lock()
	defer rd.mu.Unlock()

	if !(r.Value < rd.best.Value) {
		return false
	}

	rd.best = BestState{
		Value:       r.Value,
		Point:       append([]float64(nil), r.End...),
		Trial:       r.Index,
		Iterations:  r.Iterations,
		Evaluations: r.Evaluations,
	}
	return true
}

// Best returns a copy of the current best state
func (rd *Reducer) Best() BestState {
	rd.mu.Lock()
	defer rd.mu.Unlock()

	best := rd.best
	best.Point = append([]float64(nil), rd.best.Point...)
	return best
}
