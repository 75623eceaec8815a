package sim

import "fmt"

// Distribution identifies a supported probability distribution family.
type Distribution string

const (
	Uniform     Distribution = "uniform"
	Exponential Distribution = "exponential"
	Normal      Distribution = "normal"
	Bernoulli   Distribution = "bernoulli"
	Binomial    Distribution = "binomial"
	Poisson     Distribution = "poisson"
)

// Continuous reports whether the family has a continuous support.
// Bernoulli, Binomial and Poisson samples are integer counts.
func (d Distribution) Continuous() bool {
	switch d {
	case Uniform, Exponential, Normal:
		return true
	default:
		return false
	}
}

// Known reports whether the tag names a supported family.
func (d Distribution) Known() bool {
	switch d {
	case Uniform, Exponential, Normal, Bernoulli, Binomial, Poisson:
		return true
	}
	return false
}

// DistributionSpec is a tagged parameter record for one family. Only the
// fields belonging to the tagged family are meaningful:
//
//	Uniform:     Low, High        (Low < High)
//	Exponential: Rate             (> 0)
//	Normal:      Mean, StdDev     (StdDev > 0)
//	Bernoulli:   Prob             (0 <= Prob <= 1)
//	Binomial:    Trials, Prob     (Trials > 0, 0 <= Prob <= 1)
//	Poisson:     Rate             (> 0)
type DistributionSpec struct {
	Family Distribution `json:"family"`
	Low    float64      `json:"low,omitempty"`
	High   float64      `json:"high,omitempty"`
	Rate   float64      `json:"rate,omitempty"`
	Mean   float64      `json:"mean,omitempty"`
	StdDev float64      `json:"std_dev,omitempty"`
	Prob   float64      `json:"prob,omitempty"`
	Trials int          `json:"trials,omitempty"`
}

// Spec constructors
func NewUniform(low, high float64) DistributionSpec {
	return DistributionSpec{Family: Uniform, Low: low, High: high}
}

func NewExponential(rate float64) DistributionSpec {
	return DistributionSpec{Family: Exponential, Rate: rate}
}

func NewNormal(mean, stdDev float64) DistributionSpec {
	return DistributionSpec{Family: Normal, Mean: mean, StdDev: stdDev}
}

func NewBernoulli(prob float64) DistributionSpec {
	return DistributionSpec{Family: Bernoulli, Prob: prob}
}

func NewBinomial(trials int, prob float64) DistributionSpec {
	return DistributionSpec{Family: Binomial, Trials: trials, Prob: prob}
}

func NewPoisson(rate float64) DistributionSpec {
	return DistributionSpec{Family: Poisson, Rate: rate}
}

// String renders the spec in conventional notation, e.g. "normal(10, 2)".
func (s DistributionSpec) String() string {
	switch s.Family {
	case Uniform:
		return fmt.Sprintf("uniform(%g, %g)", s.Low, s.High)
	case Exponential:
		return fmt.Sprintf("exponential(%g)", s.Rate)
	case Normal:
		return fmt.Sprintf("normal(%g, %g)", s.Mean, s.StdDev)
	case Bernoulli:
		return fmt.Sprintf("bernoulli(%g)", s.Prob)
	case Binomial:
		return fmt.Sprintf("binomial(%d, %g)", s.Trials, s.Prob)
	case Poisson:
		return fmt.Sprintf("poisson(%g)", s.Rate)
	default:
		return string(s.Family)
	}
}

// Sample is an ordered sequence of draws; insertion order is generation
// order. Samples are treated as immutable once produced.
type Sample []float64

// Copy returns an independent copy of the sample.
func (s Sample) Copy() Sample {
	out := make(Sample, len(s))
	copy(out, s)
	return out
}
