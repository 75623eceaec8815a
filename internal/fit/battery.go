package fit

import (
	"github.com/montanaflynn/stats"

	"simlab/domain/sim"
	"simlab/internal/errors"
)

// Battery runs both goodness-of-fit tests against one target family and
// combines their decisions into a verdict.
type Battery struct{}

// NewBattery creates the two-test battery.
func NewBattery() *Battery {
	return &Battery{}
}

// Test estimates the target family's parameters from the sample, runs
// Kolmogorov-Smirnov and chi-square at the given significance level on the
// same fitted parameters, and folds the two decisions into the verdict.
func (b *Battery) Test(sample sim.Sample, target sim.Distribution, alpha float64) (*sim.FitResult, error) {
	if len(sample) == 0 {
		return nil, errors.InvalidParameter("sample", "must not be empty")
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, errors.InvalidParameterf("alpha", "must lie strictly between 0 and 1, got %g", alpha)
	}
	if !fitTestable(target) {
		return nil, errors.InvalidParameterf("target", "family %q is not fit-testable (supported: normal, exponential, uniform, poisson)", string(target))
	}

	data := []float64(sample)
	params, err := Estimate(target, data)
	if err != nil {
		return nil, err
	}

	ks := KolmogorovSmirnov(data, target, params, alpha)
	chi, histogram, err := ChiSquare(data, target, params, alpha)
	if err != nil {
		return nil, err
	}

	return &sim.FitResult{
		Target:     target,
		Alpha:      alpha,
		SampleSize: len(sample),
		Params:     params,
		Stats:      Describe(data),
		KS:         ks,
		ChiSquare:  chi,
		Verdict:    sim.CombineVerdict(ks.Decision, chi.Decision),
		Histogram:  histogram,
	}, nil
}

// Describe summarizes a sample for display alongside test results. StdDev
// and Variance use the n-1 denominator, unlike the MLE standard deviation
// Estimate fits for the normal family.
func Describe(data []float64) sim.DescriptiveStats {
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	sd, _ := stats.StandardDeviationSample(data)
	variance, _ := stats.SampleVariance(data)
	mn, _ := stats.Min(data)
	mx, _ := stats.Max(data)
	q25, _ := stats.Percentile(data, 25)
	q75, _ := stats.Percentile(data, 75)

	return sim.DescriptiveStats{
		N:        len(data),
		Mean:     mean,
		Median:   median,
		StdDev:   sd,
		Variance: variance,
		Min:      mn,
		Max:      mx,
		Range:    mx - mn,
		Q25:      q25,
		Q75:      q75,
	}
}

func fitTestable(target sim.Distribution) bool {
	switch target {
	case sim.Normal, sim.Exponential, sim.Uniform, sim.Poisson:
		return true
	}
	return false
}
