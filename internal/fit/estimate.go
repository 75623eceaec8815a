package fit

import (
	"github.com/montanaflynn/stats"

	"simlab/domain/sim"
	"simlab/internal/errors"
)

// Estimate fits the target family's parameters to the sample:
//
//	Normal:      mean and maximum-likelihood standard deviation (n denominator)
//	Exponential: loc = min, scale = mean - min, rate = 1/scale
//	Uniform:     [min, max]
//	Poisson:     rate = mean
//
// A sample whose scale estimate collapses to zero cannot parameterize the
// family and is reported as a numeric degeneracy rather than a result.
func Estimate(target sim.Distribution, data []float64) (sim.FittedParams, error) {
	if len(data) == 0 {
		return sim.FittedParams{}, errors.InvalidParameter("sample", "must not be empty")
	}

	mean, _ := stats.Mean(data)
	mn, _ := stats.Min(data)
	mx, _ := stats.Max(data)

	switch target {
	case sim.Normal:
		sd, _ := stats.StandardDeviation(data)
		if sd == 0 {
			return sim.FittedParams{}, errors.NumericDegeneracy("constant sample: estimated standard deviation is zero")
		}
		return sim.FittedParams{Mean: mean, StdDev: sd}, nil

	case sim.Exponential:
		scale := mean - mn
		if scale == 0 {
			return sim.FittedParams{}, errors.NumericDegeneracy("constant sample: estimated scale is zero")
		}
		return sim.FittedParams{Loc: mn, Scale: scale, Rate: 1 / scale}, nil

	case sim.Uniform:
		if mn == mx {
			return sim.FittedParams{}, errors.NumericDegeneracy("constant sample: estimated interval has zero width")
		}
		return sim.FittedParams{Low: mn, High: mx}, nil

	case sim.Poisson:
		if mean <= 0 {
			return sim.FittedParams{}, errors.NumericDegeneracy("estimated rate is not positive")
		}
		return sim.FittedParams{Rate: mean}, nil

	default:
		return sim.FittedParams{}, errors.InvalidParameterf("target", "family %q has no fit estimator", string(target))
	}
}
