package objective

import "sync/atomic"

// Counter counts objective evaluations across all goroutines.
// The zero value is ready to use.
type Counter struct {
	n atomic.Uint64
}

// Add records n evaluations
func (c *Counter) Add(n int) {
	if n > 0 {
		c.n.Add(uint64(n))
	}
}

// Inc records a single evaluation
func (c *Counter) Inc() {
	c.n.Add(1)
}

// Load returns the number of evaluations recorded so far
func (c *Counter) Load() uint64 {
	return c.n.Load()
}

// Counted wraps f so that each call increments c exactly once
func Counted(f Func, c *Counter) Func {
	return func(x []float64) float64 {
		c.Inc()
		return f(x)
	}
}
