// Package fit implements the two-test goodness-of-fit battery: parameter
// estimation, Kolmogorov-Smirnov, chi-square, and the combined verdict.
package fit

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"simlab/domain/sim"
)

// Distributions provides unified access to the distribution functions the
// goodness-of-fit tests evaluate. CDFs and quantiles come from gonum's
// distuv; the Kolmogorov distribution is not in distuv, so its series and
// numeric inversion live here.
type Distributions struct{}

// NewDistributions creates a new distributions utility.
func NewDistributions() *Distributions {
	return &Distributions{}
}

// CDF returns the cumulative distribution function of the target family
// under the fitted parameters, or nil for a family without a fit estimator.
func (d *Distributions) CDF(target sim.Distribution, params sim.FittedParams) func(float64) float64 {
	switch target {
	case sim.Normal:
		dist := distuv.Normal{Mu: params.Mean, Sigma: params.StdDev}
		return dist.CDF
	case sim.Exponential:
		dist := distuv.Exponential{Rate: params.Rate}
		loc := params.Loc
		return func(x float64) float64 { return dist.CDF(x - loc) }
	case sim.Uniform:
		dist := distuv.Uniform{Min: params.Low, Max: params.High}
		return dist.CDF
	case sim.Poisson:
		dist := distuv.Poisson{Lambda: params.Rate}
		return dist.CDF
	default:
		return nil
	}
}

// ChiSquarePValue computes the upper-tail p-value for a chi-square statistic.
func (d *Distributions) ChiSquarePValue(stat float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return 1 - chiDist.CDF(stat)
}

// ChiSquareCritical computes the statistic at which the upper tail equals
// alpha, by bisection on the CDF (distuv has no chi-square quantile).
func (d *Distributions) ChiSquareCritical(alpha float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 0
	}

	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	p := 1 - alpha
	lo, hi := 0.0, 1000.0
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if chiDist.CDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// KolmogorovPValue approximates the two-sided KS p-value by evaluating the
// Kolmogorov series at the Stephens-corrected argument
// (sqrt(n) + 0.12 + 0.11/sqrt(n))·d.
func (d *Distributions) KolmogorovPValue(stat float64, n int) float64 {
	sq := math.Sqrt(float64(n))
	return d.kolmogorovSurvival((sq + 0.12 + 0.11/sq) * stat)
}

// KolmogorovCritical inverts KolmogorovPValue at alpha by bisection; the
// returned statistic has p-value alpha for the given sample size.
func (d *Distributions) KolmogorovCritical(alpha float64, n int) float64 {
	lo, hi := 0.0, 1.0
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if d.KolmogorovPValue(mid, n) > alpha {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// kolmogorovSurvival evaluates 2·sum_j (-1)^(j-1)·exp(-2j²λ²), clamped to
// [0, 1]. Terms vanish quickly; 100 of them are more than enough at any λ
// that matters.
func (d *Distributions) kolmogorovSurvival(lambda float64) float64 {
	if lambda <= 0 {
		return 1.0
	}
	sum := 0.0
	sign := 1.0
	for j := 1; j <= 100; j++ {
		fj := float64(j)
		sum += sign * math.Exp(-2*fj*fj*lambda*lambda)
		sign = -sign
	}
	return math.Min(1.0, math.Max(0.0, 2*sum))
}

// NormalCDF computes the standard normal cumulative distribution function.
func (d *Distributions) NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile computes the standard normal quantile (inverse CDF).
func (d *Distributions) NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}
