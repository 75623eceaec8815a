package fit

import (
	"math"
	"sort"

	"simlab/domain/sim"
)

// KolmogorovSmirnov tests the sample against the fitted CDF. Continuous
// families use the two-sided statistic over both empirical steps around
// each order statistic; integer-valued families compare the upper step only
// and use the large-sample tail bound exp(-2nD²), whose inversion at alpha
// gives the critical value in closed form.
func KolmogorovSmirnov(data []float64, target sim.Distribution, params sim.FittedParams, alpha float64) sim.TestReport {
	xs := make([]float64, len(data))
	copy(xs, data)
	sort.Float64s(xs)

	dists := NewDistributions()
	cdf := dists.CDF(target, params)
	n := float64(len(xs))

	var stat, p, critical float64
	if target.Continuous() {
		var dPlus, dMinus float64
		for i, x := range xs {
			fx := cdf(x)
			if up := float64(i+1)/n - fx; up > dPlus {
				dPlus = up
			}
			if down := fx - float64(i)/n; down > dMinus {
				dMinus = down
			}
		}
		stat = math.Max(dPlus, dMinus)
		p = dists.KolmogorovPValue(stat, len(xs))
		critical = dists.KolmogorovCritical(alpha, len(xs))
	} else {
		for i, x := range xs {
			if diff := math.Abs(float64(i+1)/n - cdf(x)); diff > stat {
				stat = diff
			}
		}
		p = math.Exp(-2 * n * stat * stat)
		critical = math.Sqrt(-math.Log(alpha) / (2 * n))
	}

	return sim.TestReport{
		TestName:      "kolmogorov_smirnov",
		Statistic:     stat,
		CriticalValue: critical,
		PValue:        p,
		Decision:      decide(p, alpha),
	}
}

// decide maps a p-value to the test decision: the family fits when p
// exceeds the significance level.
func decide(p, alpha float64) sim.TestDecision {
	if p > alpha {
		return sim.Fits
	}
	return sim.DoesNotFit
}
