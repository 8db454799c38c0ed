// Package objective holds the functions being minimized and the shared
// evaluation counter.
//
// A Func must be pure with respect to its argument and safe to call from
// many goroutines at once. It must not retain or modify x.
package objective

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// Func is an objective function to minimize
type Func func(x []float64) float64

// ErrUnknownObjective is returned by Lookup for unregistered names.
var ErrUnknownObjective = errors.New("unknown objective")

var registry = map[string]Func{
	"rosenbrock": Rosenbrock,
	"sphere":     Sphere,
	"rastrigin":  Rastrigin,
}

// Lookup returns the built-in objective registered under name
func Lookup(name string) (Func, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownObjective, name, Names())
	}
	return f, nil
}

// Names lists the built-in objectives in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rosenbrock is the classic parabolic valley ("banana") function.
// Minimum 0 at (1, ..., 1).
func Rosenbrock(x []float64) float64 {
	var sum float64
	for i := 0; i < len(x)-1; i++ {
		a := x[i+1] - x[i]*x[i]
		b := x[i] - 1
		sum += 100*a*a + b*b
	}
	return sum
}

// Sphere: f(x) = sum(x_i^2), minimum at origin
func Sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// Rastrigin is highly multimodal with its global minimum 0 at the origin
func Rastrigin(x []float64) float64 {
	sum := 10 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return sum
}

// WithDelay wraps f so that every call also spends d of artificial work.
// A zero delay returns f unchanged.
func WithDelay(f Func, d time.Duration) Func {
	if d <= 0 {
		return f
	}
	return func(x []float64) float64 {
		time.Sleep(d)
		return f(x)
	}
}
