package fit

import (
	"math"

	"github.com/montanaflynn/stats"

	"simlab/domain/sim"
	"simlab/internal/errors"
)

// minExpected is the classical floor below which a bin's expected count is
// too small for the chi-square approximation and the bin is merged.
const minExpected = 5.0

// ChiSquare bins the sample into a Sturges-rule equal-width frequency table,
// sets each bin's expected count from the fitted CDF, merges bins whose
// expectation falls below 5, and tests observed against expected. The merged
// table is returned alongside the report so callers can display it.
func ChiSquare(data []float64, target sim.Distribution, params sim.FittedParams, alpha float64) (sim.TestReport, []sim.FrequencyBin, error) {
	n := len(data)
	k := sturgesBins(n)
	mn, _ := stats.Min(data)
	mx, _ := stats.Max(data)
	if mn == mx {
		return sim.TestReport{}, nil, errors.NumericDegeneracy("sample has zero range, cannot build frequency table")
	}
	width := (mx - mn) / float64(k)

	observed := make([]float64, k)
	for _, x := range data {
		i := int((x - mn) / width)
		if i >= k {
			i = k - 1
		}
		observed[i]++
	}

	dists := NewDistributions()
	cdf := dists.CDF(target, params)
	bins := make([]sim.FrequencyBin, k)
	for i := range bins {
		low := mn + float64(i)*width
		high := mn + float64(i+1)*width
		if i == k-1 {
			high = mx
		}
		bins[i] = sim.FrequencyBin{
			Low:      low,
			High:     high,
			Observed: observed[i],
			Expected: (cdf(high) - cdf(low)) * float64(n),
		}
	}
	bins = mergeSparseBins(bins)

	stat := 0.0
	for _, b := range bins {
		if b.Expected <= 0 {
			return sim.TestReport{}, nil, errors.NumericDegeneracy("expected frequency is zero after merging bins")
		}
		diff := b.Observed - b.Expected
		stat += diff * diff / b.Expected
	}

	dof := degreesOfFreedom(len(bins), target)
	p := dists.ChiSquarePValue(stat, dof)
	critical := dists.ChiSquareCritical(alpha, dof)

	report := sim.TestReport{
		TestName:      "chi_square",
		Statistic:     stat,
		CriticalValue: critical,
		PValue:        p,
		Decision:      decide(p, alpha),
	}
	return report, bins, nil
}

// sturgesBins picks round(1 + 3.322·log10(n)) bins, clamped to [5, 15].
func sturgesBins(n int) int {
	k := int(math.Round(1 + 3.322*math.Log10(float64(n))))
	if k < 5 {
		k = 5
	}
	if k > 15 {
		k = 15
	}
	return k
}

// mergeSparseBins repeatedly folds the lowest-expectation bin into its lower
// neighbor (upper neighbor for the first bin) until every expected count
// reaches the floor or only two bins remain.
func mergeSparseBins(bins []sim.FrequencyBin) []sim.FrequencyBin {
	for len(bins) > 2 {
		idx := 0
		for i := range bins {
			if bins[i].Expected < bins[idx].Expected {
				idx = i
			}
		}
		if bins[idx].Expected >= minExpected {
			break
		}
		if idx == 0 {
			bins[1].Observed += bins[0].Observed
			bins[1].Expected += bins[0].Expected
			bins[1].Low = bins[0].Low
			bins = bins[1:]
		} else {
			bins[idx-1].Observed += bins[idx].Observed
			bins[idx-1].Expected += bins[idx].Expected
			bins[idx-1].High = bins[idx].High
			bins = append(bins[:idx], bins[idx+1:]...)
		}
	}
	return bins
}

// degreesOfFreedom is bins - 1 - estimated parameter count, floored at 1.
// Normal and uniform fits estimate two parameters; exponential and poisson
// one that the table is sensitive to.
func degreesOfFreedom(bins int, target sim.Distribution) int {
	params := 1
	if target == sim.Normal || target == sim.Uniform {
		params = 2
	}
	dof := bins - 1 - params
	if dof < 1 {
		dof = 1
	}
	return dof
}
