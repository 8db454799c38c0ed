package opt

import (
	"fmt"
	"math"

	"github.com/cwbudde/multistart/internal/objective"
	"github.com/cwbudde/multistart/internal/problem"
)

// MDS is Torczon's multidirectional search restricted to a box.
//
// Each iteration reflects the simplex through its best vertex. A successful
// reflection is followed by an expansion attempt, an unsuccessful one by a
// contraction toward the best vertex. Trial points are clamped into the box.
// MDS carries no state between calls and is safe for concurrent use.
type MDS struct{}

// NewMDS creates a multidirectional search
func NewMDS() *MDS {
	return &MDS{}
}

// mdsRun holds the working state of a single Search call
type mdsRun struct {
	f     objective.Func
	b     problem.Bounds
	cfg   problem.SearchConfig
	n     int
	evals int

	simplex [][]float64 // n+1 vertices, best kept at index 0
	values  []float64

	// scratch simplices for reflection and expansion/contraction
	trial  [][]float64
	trialF []float64
	alt    [][]float64
	altF   []float64
}

// Search runs the multidirectional search from start
func (m *MDS) Search(f objective.Func, start []float64, b problem.Bounds, cfg problem.SearchConfig) (Result, error) {
	n := len(start)
	if n == 0 || n != b.Dim() {
		return Result{Termination: TermNone}, fmt.Errorf("start point has %d variables, bounds have %d", n, b.Dim())
	}

	r := &mdsRun{f: f, b: b, cfg: cfg, n: n}
	r.simplex, r.values = newSimplex(n)
	r.trial, r.trialF = newSimplex(n)
	r.alt, r.altF = newSimplex(n)

	copy(r.simplex[0], start)
	b.Clamp(r.simplex[0])
	r.values[0] = r.eval(r.simplex[0])

	if !r.budget(n) {
		return r.result(0, TermMaxEvals), nil
	}

	// Initial simplex: one edge of length Step*width along each axis,
	// pointing inward when the forward step would leave the box.
	for i := 1; i <= n; i++ {
		v := r.simplex[i]
		copy(v, r.simplex[0])
		d := i - 1
		step := cfg.Step * b.Width(d)
		if v[d]+step > b.Upper[d] {
			step = -step
		}
		v[d] += step
		b.Clamp(v)
		r.values[i] = r.eval(v)
	}

	iter := 0
	term := TermMaxIters
	for iter < cfg.MaxIters {
		r.orderBest()

		if r.size() < cfg.Tolerance {
			term = TermConverged
			break
		}
		if !r.budget(n) {
			term = TermMaxEvals
			break
		}

		iter++

		// reflection: v0 - (vi - v0)
		r.move(r.trial, r.trialF, -1)
		reflectBest := minValue(r.trialF)

		if less(reflectBest, r.values[0]) {
			// expansion: v0 - (1+mu)(vi - v0)
			if r.budget(n) {
				r.move(r.alt, r.altF, -(1 + cfg.Expansion))
				if less(minValue(r.altF), reflectBest) {
					r.accept(r.alt, r.altF)
					continue
				}
			}
			r.accept(r.trial, r.trialF)
			continue
		}

		// contraction: v0 + theta(vi - v0)
		if !r.budget(n) {
			term = TermMaxEvals
			break
		}
		r.move(r.alt, r.altF, cfg.Contraction)
		r.accept(r.alt, r.altF)
	}

	r.orderBest()
	return r.result(iter, term), nil
}

func newSimplex(n int) ([][]float64, []float64) {
	vertices := make([][]float64, n+1)
	for i := range vertices {
		vertices[i] = make([]float64, n)
	}
	return vertices, make([]float64, n+1)
}

func (r *mdsRun) eval(x []float64) float64 {
	r.evals++
	return r.f(x)
}

// budget reports whether k more evaluations fit in MaxEvals
func (r *mdsRun) budget(k int) bool {
	return r.evals+k <= r.cfg.MaxEvals
}

// move fills dst with v0 + scale*(vi - v0) for every non-best vertex and
// evaluates the new points. dst[0] mirrors the best vertex.
func (r *mdsRun) move(dst [][]float64, dstF []float64, scale float64) {
	v0 := r.simplex[0]
	copy(dst[0], v0)
	dstF[0] = r.values[0]
	for i := 1; i <= r.n; i++ {
		vi := r.simplex[i]
		p := dst[i]
		for j := range p {
			p[j] = v0[j] + scale*(vi[j]-v0[j])
		}
		r.b.Clamp(p)
		dstF[i] = r.eval(p)
	}
}

// accept swaps src into the simplex, recycling the old vertices as scratch
func (r *mdsRun) accept(src [][]float64, srcF []float64) {
	for i := 1; i <= r.n; i++ {
		r.simplex[i], src[i] = src[i], r.simplex[i]
		r.values[i], srcF[i] = srcF[i], r.values[i]
	}
}

// orderBest moves the lowest vertex to index 0
func (r *mdsRun) orderBest() {
	best := 0
	for i := 1; i <= r.n; i++ {
		if less(r.values[i], r.values[best]) {
			best = i
		}
	}
	if best != 0 {
		r.simplex[0], r.simplex[best] = r.simplex[best], r.simplex[0]
		r.values[0], r.values[best] = r.values[best], r.values[0]
	}
}

// size is the largest vertex distance from v0 (max norm), relative to v0
func (r *mdsRun) size() float64 {
	v0 := r.simplex[0]
	var edge, scale float64
	for _, x := range v0 {
		scale = math.Max(scale, math.Abs(x))
	}
	for i := 1; i <= r.n; i++ {
		for j, x := range r.simplex[i] {
			edge = math.Max(edge, math.Abs(x-v0[j]))
		}
	}
	return edge / math.Max(1, scale)
}

func (r *mdsRun) result(iter int, term Termination) Result {
	return Result{
		Point:       append([]float64(nil), r.simplex[0]...),
		Value:       r.values[0],
		Iterations:  iter,
		Evaluations: r.evals,
		Termination: term,
	}
}

// less orders NaN after every number
func less(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a < b
}

func minValue(values []float64) float64 {
	m := values[1]
	for _, v := range values[2:] {
		if less(v, m) {
			m = v
		}
	}
	return m
}
