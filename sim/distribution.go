package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// ServiceSampler draws one service duration in minutes.
type ServiceSampler interface {
	// Sample returns a positive duration (> 0).
	Sample(rng *rand.Rand) float64
}

// ExponentialSampler produces exponentially distributed durations with the
// given rate (mean 1/rate).
type ExponentialSampler struct {
	rate float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() / s.rate
}

// DiscreteNormalSampler produces Gaussian durations rounded to the nearest
// whole minute and floored at 1.
type DiscreteNormalSampler struct {
	mean, stdDev float64
}

func (s *DiscreteNormalSampler) Sample(rng *rand.Rand) float64 {
	val := math.Round(rng.NormFloat64()*s.stdDev + s.mean)
	if val < 1 {
		return 1
	}
	return val
}

// BinomialSampler produces Binomial(trials, p) durations floored at 1,
// sampled as a sum of Bernoulli trials.
type BinomialSampler struct {
	trials int
	p      float64
}

func (s *BinomialSampler) Sample(rng *rand.Rand) float64 {
	successes := 0
	for i := 0; i < s.trials; i++ {
		if rng.Float64() < s.p {
			successes++
		}
	}
	if successes < 1 {
		return 1
	}
	return float64(successes)
}

// GeometricSampler produces Geometric(p) durations offset by +1 so the
// minimum is 1 minute. Sampled by inverse CDF: the failure count before the
// first success is floor(ln(U)/ln(1-p)).
type GeometricSampler struct {
	p float64
}

func (s *GeometricSampler) Sample(rng *rand.Rand) float64 {
	if s.p == 1 {
		return 1
	}
	u := rng.Float64()
	if u == 0 {
		u = math.SmallestNonzeroFloat64 // prevent ln(0) = -Inf
	}
	failures := math.Floor(math.Log(u) / math.Log(1.0-s.p))
	return failures + 1
}

// OrderCountSampler draws the number of orders a customer places,
// Binomial(trials, p) floored at 1.
type OrderCountSampler struct {
	trials int
	p      float64
}

func (s *OrderCountSampler) Sample(rng *rand.Rand) int {
	successes := 0
	for i := 0; i < s.trials; i++ {
		if rng.Float64() < s.p {
			successes++
		}
	}
	if successes < 1 {
		return 1
	}
	return successes
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewServiceSampler creates a ServiceSampler from a DistSpec. All parameter
// validation happens here, before any draw is made; samplers themselves
// never fail.
func NewServiceSampler(spec DistSpec) (ServiceSampler, error) {
	switch spec.Type {
	case "exponential":
		if err := requireParam(spec.Params, "rate"); err != nil {
			return nil, err
		}
		rate := spec.Params["rate"]
		if rate <= 0 {
			return nil, fmt.Errorf("exponential rate must be > 0, got %v", rate)
		}
		return &ExponentialSampler{rate: rate}, nil

	case "normal":
		if err := requireParam(spec.Params, "mean", "std_dev"); err != nil {
			return nil, err
		}
		stdDev := spec.Params["std_dev"]
		if stdDev < 0 {
			return nil, fmt.Errorf("normal std_dev must be >= 0, got %v", stdDev)
		}
		return &DiscreteNormalSampler{mean: spec.Params["mean"], stdDev: stdDev}, nil

	case "binomial":
		if err := requireParam(spec.Params, "trials", "p"); err != nil {
			return nil, err
		}
		trials := int(spec.Params["trials"])
		p := spec.Params["p"]
		if trials < 1 {
			return nil, fmt.Errorf("binomial trials must be >= 1, got %d", trials)
		}
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("binomial p must be in [0,1], got %v", p)
		}
		return &BinomialSampler{trials: trials, p: p}, nil

	case "geometric":
		if err := requireParam(spec.Params, "p"); err != nil {
			return nil, err
		}
		p := spec.Params["p"]
		if p <= 0 || p > 1 {
			return nil, fmt.Errorf("geometric p must be in (0,1], got %v", p)
		}
		return &GeometricSampler{p: p}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}

// NewOrderCountSampler creates an OrderCountSampler from a DistSpec. Only
// the binomial family is meaningful for order counts.
func NewOrderCountSampler(spec DistSpec) (*OrderCountSampler, error) {
	if spec.Type != "binomial" {
		return nil, fmt.Errorf("order count distribution must be binomial, got %q", spec.Type)
	}
	if err := requireParam(spec.Params, "trials", "p"); err != nil {
		return nil, err
	}
	trials := int(spec.Params["trials"])
	p := spec.Params["p"]
	if trials < 1 {
		return nil, fmt.Errorf("order count trials must be >= 1, got %d", trials)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("order count p must be in [0,1], got %v", p)
	}
	return &OrderCountSampler{trials: trials, p: p}, nil
}
