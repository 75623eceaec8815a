package rng

import (
	"math"

	"simlab/domain/sim"
	"simlab/internal/errors"
)

// minLogDraw is the floor applied to draws feeding a logarithm. The
// recurrence can land on state zero, which maps to a draw of exactly 0 and
// would send -ln(u) to +Inf. Clamping to one recurrence step (1/2^32) keeps
// Exponential and Normal output finite; no extra draw is consumed, so the
// rest of the sequence is unchanged.
const minLogDraw = 1.0 / float64(modulus)

func (g *Generator) nextLogSafe() float64 {
	u := g.Next()
	if u < minLogDraw {
		return minLogDraw
	}
	return u
}

// Uniform draws n values from U(low, high): low + (high-low)·u.
func (g *Generator) Uniform(low, high float64, n int) (sim.Sample, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if low >= high {
		return nil, errors.InvalidParameterf("low", "must be less than high (got low=%g, high=%g)", low, high)
	}
	out := make(sim.Sample, n)
	for i := range out {
		out[i] = low + (high-low)*g.Next()
	}
	return out, nil
}

// Exponential draws n values from Exp(rate) by inverse CDF: -ln(u)/rate.
func (g *Generator) Exponential(rate float64, n int) (sim.Sample, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	out := make(sim.Sample, n)
	for i := range out {
		out[i] = -math.Log(g.nextLogSafe()) / rate
	}
	return out, nil
}

// Normal draws n values from N(mean, stdDev²) via Box-Muller:
// z = sqrt(-2·ln(u1))·cos(2π·u2). Two draws per value.
func (g *Generator) Normal(mean, stdDev float64, n int) (sim.Sample, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if stdDev <= 0 {
		return nil, errors.InvalidParameterf("std_dev", "must be positive, got %g", stdDev)
	}
	out := make(sim.Sample, n)
	for i := range out {
		u1 := g.nextLogSafe()
		u2 := g.Next()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
		out[i] = mean + stdDev*z
	}
	return out, nil
}

// Bernoulli draws n values from Ber(prob): 1 if u < prob else 0.
func (g *Generator) Bernoulli(prob float64, n int) (sim.Sample, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if err := validateProb(prob); err != nil {
		return nil, err
	}
	out := make(sim.Sample, n)
	for i := range out {
		if g.Next() < prob {
			out[i] = 1
		}
	}
	return out, nil
}

// Binomial draws n values from B(trials, prob), each the sum of trials
// independent Bernoulli draws (trials draws per value).
func (g *Generator) Binomial(trials int, prob float64, n int) (sim.Sample, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if trials < 1 {
		return nil, errors.InvalidParameterf("trials", "must be at least 1, got %d", trials)
	}
	if err := validateProb(prob); err != nil {
		return nil, err
	}
	out := make(sim.Sample, n)
	for i := range out {
		sum := 0.0
		for t := 0; t < trials; t++ {
			if g.Next() < prob {
				sum++
			}
		}
		out[i] = sum
	}
	return out, nil
}

// Poisson draws n values from Poi(rate) with Knuth's algorithm: multiply
// uniform draws until the running product drops to exp(-rate) or below; the
// value is the number of multiplications minus one. Expected O(rate) draws
// per value; kept exactly (not approximated) so seeded sequences reproduce.
func (g *Generator) Poisson(rate float64, n int) (sim.Sample, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	out := make(sim.Sample, n)
	for i := range out {
		limit := math.Exp(-rate)
		k := 0
		p := 1.0
		for p > limit {
			k++
			p *= g.Next()
		}
		out[i] = float64(k - 1)
	}
	return out, nil
}

// Sample draws n values from the family the spec tags, routing to the
// matching transform.
func (g *Generator) Sample(spec sim.DistributionSpec, n int) (sim.Sample, error) {
	switch spec.Family {
	case sim.Uniform:
		return g.Uniform(spec.Low, spec.High, n)
	case sim.Exponential:
		return g.Exponential(spec.Rate, n)
	case sim.Normal:
		return g.Normal(spec.Mean, spec.StdDev, n)
	case sim.Bernoulli:
		return g.Bernoulli(spec.Prob, n)
	case sim.Binomial:
		return g.Binomial(spec.Trials, spec.Prob, n)
	case sim.Poisson:
		return g.Poisson(spec.Rate, n)
	default:
		return nil, errors.InvalidParameterf("family", "unknown distribution %q", string(spec.Family))
	}
}

func validateCount(n int) error {
	if n < 1 {
		return errors.InvalidParameterf("n", "must be at least 1, got %d", n)
	}
	return nil
}

func validateProb(prob float64) error {
	if prob < 0 || prob > 1 {
		return errors.InvalidParameterf("prob", "must lie in [0, 1], got %g", prob)
	}
	return nil
}

func validateRate(rate float64) error {
	if rate <= 0 {
		return errors.InvalidParameterf("rate", "must be positive, got %g", rate)
	}
	return nil
}
