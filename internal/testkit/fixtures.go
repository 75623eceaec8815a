package testkit

import (
	"simlab/domain/sim"
	"simlab/internal/rng"
)

// Fixture is a sample with a known generating process, paired with the
// battery verdict that testing it against Target at alpha 0.05 produces.
// Fixed seeds keep the samples and their verdicts from ever moving.
type Fixture struct {
	Name    string
	Target  sim.Distribution
	Verdict sim.Verdict
	Sample  sim.Sample
}

const fixtureN = 400

// Fixtures builds the standard set: one clean sample per testable family
// plus a bimodal mixture that no single normal explains. The poisson
// fixture lands on a split verdict: the stepwise KS statistic is harsh on
// heavily tied counts at this size while chi-square accepts them.
func Fixtures() ([]Fixture, error) {
	normal, err := rng.New(101).Normal(100, 15, fixtureN)
	if err != nil {
		return nil, err
	}
	expo, err := rng.New(102).Exponential(0.5, fixtureN)
	if err != nil {
		return nil, err
	}
	uniform, err := rng.New(103).Uniform(0, 1, fixtureN)
	if err != nil {
		return nil, err
	}
	poisson, err := rng.New(104).Poisson(4, fixtureN)
	if err != nil {
		return nil, err
	}
	bimodal, err := mixedSample(105, fixtureN)
	if err != nil {
		return nil, err
	}

	return []Fixture{
		{Name: "normal_baseline", Target: sim.Normal, Verdict: sim.BothAgreeFit, Sample: normal},
		{Name: "exponential_interarrival", Target: sim.Exponential, Verdict: sim.BothAgreeFit, Sample: expo},
		{Name: "uniform_noise", Target: sim.Uniform, Verdict: sim.BothAgreeFit, Sample: uniform},
		{Name: "poisson_counts", Target: sim.Poisson, Verdict: sim.Disagreement, Sample: poisson},
		{Name: "bimodal_mixture", Target: sim.Normal, Verdict: sim.BothAgreeNoFit, Sample: bimodal},
	}, nil
}

// mixedSample draws half the values around one mode and half around a
// second, through a single generator so the fixture is one draw chain.
func mixedSample(seed int64, n int) (sim.Sample, error) {
	gen := rng.New(seed)
	low, err := gen.Normal(80, 5, n/2)
	if err != nil {
		return nil, err
	}
	high, err := gen.Normal(120, 5, n-n/2)
	if err != nil {
		return nil, err
	}
	return append(low, high...), nil
}
