package problem

import (
	"math"
	"time"
)

// MaxTrials caps the number of trials accepted for one run.
const MaxTrials = 1 << 20

// SearchConfig holds the local search tuning parameters.
// It is shared read-only by every trial of a run.
type SearchConfig struct {
	// Tolerance is the simplex size below which a search counts as converged
	Tolerance float64 `yaml:"tolerance"`

	// MaxEvals caps objective evaluations per trial
	MaxEvals int `yaml:"max_evals"`

	// MaxIters caps iterations per trial
	MaxIters int `yaml:"max_iters"`

	// Expansion (mu) scales the expansion step past a successful reflection
	Expansion float64 `yaml:"expansion"`

	// Contraction (theta) scales the simplex toward its best vertex, in (0, 1)
	Contraction float64 `yaml:"contraction"`

	// Step (delta) is the initial simplex edge as a fraction of each bound's width
	Step float64 `yaml:"step"`
}

// DefaultSearchConfig returns the classic multidirectional search settings
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Tolerance:   1e-6,
		MaxEvals:    10000,
		MaxIters:    10000,
		Expansion:   1.0,
		Contraction: 0.25,
		Step:        0.25,
	}
}

// Validate checks the tuning parameters
func (c SearchConfig) Validate() error {
	if !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 0) {
		return invalid("tolerance", "must be a positive finite number, got %g", c.Tolerance)
	}
	if c.MaxEvals < 1 {
		return invalid("max_evals", "must be at least 1, got %d", c.MaxEvals)
	}
	if c.MaxIters < 1 {
		return invalid("max_iters", "must be at least 1, got %d", c.MaxIters)
	}
	if !(c.Expansion > 0) || math.IsInf(c.Expansion, 0) {
		return invalid("expansion", "must be a positive finite number, got %g", c.Expansion)
	}
	if !(c.Contraction > 0 && c.Contraction < 1) {
		return invalid("contraction", "must lie in (0, 1), got %g", c.Contraction)
	}
	if !(c.Step > 0) || math.IsInf(c.Step, 0) {
		return invalid("step", "must be a positive finite number, got %g", c.Step)
	}
	return nil
}

// Config describes one multistart run.
type Config struct {
	Dims    int `yaml:"dims"`
	Trials  int `yaml:"trials"`
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS

	// Lower and Upper hold either one value shared by every dimension
	// or exactly Dims values.
	Lower []float64 `yaml:"lower"`
	Upper []float64 `yaml:"upper"`

	Objective string        `yaml:"objective"`
	Method    string        `yaml:"method"`
	Format    string        `yaml:"format"` // text or json
	Delay     time.Duration `yaml:"delay"`  // artificial work per evaluation

	Search SearchConfig `yaml:"search"`
}

// DefaultConfig returns a 4-variable Rosenbrock run with 64 trials in [-2, 2)
func DefaultConfig() Config {
	return Config{
		Dims:      4,
		Trials:    64,
		Lower:     []float64{-2},
		Upper:     []float64{2},
		Objective: "rosenbrock",
		Method:    "mds",
		Format:    "text",
		Search:    DefaultSearchConfig(),
	}
}

// Validate checks the whole run configuration. It must succeed before any
// trial is scheduled.
func (c Config) Validate() error {
	if c.Dims < 1 || c.Dims > MaxDims {
		return invalid("dims", "must lie in [1, %d], got %d", MaxDims, c.Dims)
	}
	if c.Trials < 1 || c.Trials > MaxTrials {
		return invalid("trials", "must lie in [1, %d], got %d", MaxTrials, c.Trials)
	}
	if c.Workers < 0 {
		return invalid("workers", "cannot be negative, got %d", c.Workers)
	}
	if c.Delay < 0 {
		return invalid("delay", "cannot be negative, got %s", c.Delay)
	}
	switch c.Format {
	case "text", "json":
	default:
		return invalid("format", "must be text or json, got %q", c.Format)
	}
	if _, err := c.Bounds(); err != nil {
		return err
	}
	return c.Search.Validate()
}

// Bounds expands Lower/Upper to Dims entries and validates the result
func (c Config) Bounds() (Bounds, error) {
	lower, err := expand("lower", c.Lower, c.Dims)
	if err != nil {
		return Bounds{}, err
	}
	upper, err := expand("upper", c.Upper, c.Dims)
	if err != nil {
		return Bounds{}, err
	}
	b := Bounds{Lower: lower, Upper: upper}
	if err := b.Validate(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

func expand(field string, values []float64, n int) ([]float64, error) {
	switch len(values) {
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = values[0]
		}
		return out, nil
	case n:
		return append([]float64(nil), values...), nil
	default:
		return nil, invalid(field, "need 1 or %d values, got %d", n, len(values))
	}
}
