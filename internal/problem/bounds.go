package problem

import "math"

// MaxDims is the largest supported number of variables.
const MaxDims = 250

// Bounds defines the box searched by every trial.
// Lower[i] < Upper[i] holds for every dimension once Validate succeeds.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// Uniform creates bounds with the same [lo, hi) range in every dimension
func Uniform(n int, lo, hi float64) Bounds {
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := 0; i < n; i++ {
		lower[i] = lo
		upper[i] = hi
	}
	return Bounds{Lower: lower, Upper: upper}
}

// Dim returns the number of dimensions
func (b Bounds) Dim() int {
	return len(b.Lower)
}

// Validate checks that the box is well formed
func (b Bounds) Validate() error {
	if len(b.Lower) != len(b.Upper) {
		return invalid("bounds", "%d lower values but %d upper values", len(b.Lower), len(b.Upper))
	}
	if len(b.Lower) == 0 || len(b.Lower) > MaxDims {
		return invalid("bounds", "dimension %d outside [1, %d]", len(b.Lower), MaxDims)
	}
	for i := range b.Lower {
		lo, hi := b.Lower[i], b.Upper[i]
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return invalid("bounds", "dimension %d is not finite: [%g, %g]", i, lo, hi)
		}
		if lo >= hi {
			return invalid("bounds", "dimension %d has lower %g >= upper %g", i, lo, hi)
		}
		if math.IsInf(hi-lo, 0) {
			return invalid("bounds", "dimension %d width overflows: [%g, %g]", i, lo, hi)
		}
	}
	return nil
}

// Contains reports whether x lies in the half-open box [Lower, Upper)
func (b Bounds) Contains(x []float64) bool {
	if len(x) != len(b.Lower) {
		return false
	}
	for i, v := range x {
		if !(v >= b.Lower[i] && v < b.Upper[i]) {
			return false
		}
	}
	return true
}

// Clamp moves every coordinate of x into the closed box in place
func (b Bounds) Clamp(x []float64) {
	for i := range x {
		x[i] = clamp(x[i], b.Lower[i], b.Upper[i])
	}
}

// Width returns Upper[i]-Lower[i]
func (b Bounds) Width(i int) float64 {
	return b.Upper[i] - b.Lower[i]
}

func clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
