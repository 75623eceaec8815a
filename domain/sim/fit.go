package sim

// TestDecision is the outcome of a single goodness-of-fit test.
type TestDecision string

const (
	Fits       TestDecision = "fits"
	DoesNotFit TestDecision = "does_not_fit"
)

// Verdict combines the decisions of the two independent tests.
type Verdict string

const (
	BothAgreeFit   Verdict = "both_agree_fit"
	BothAgreeNoFit Verdict = "both_agree_no_fit"
	Disagreement   Verdict = "disagreement"
)

// CombineVerdict folds two test decisions into the combined verdict.
// Disagreement is a weaker conclusion, not an error.
func CombineVerdict(ks, chi TestDecision) Verdict {
	switch {
	case ks == Fits && chi == Fits:
		return BothAgreeFit
	case ks == DoesNotFit && chi == DoesNotFit:
		return BothAgreeNoFit
	default:
		return Disagreement
	}
}

// TestReport holds one test's numbers alongside its decision.
type TestReport struct {
	TestName      string       `json:"test_name"`
	Statistic     float64      `json:"statistic"`
	CriticalValue float64      `json:"critical_value"`
	PValue        float64      `json:"p_value"`
	Decision      TestDecision `json:"decision"`
}

// FittedParams carries the parameters estimated from the sample. Only the
// fields belonging to the target family are set:
//
//	Normal:      Mean, StdDev (MLE)
//	Exponential: Loc, Scale, Rate (= 1/Scale)
//	Uniform:     Low, High (= Low + range)
//	Poisson:     Rate (= sample mean)
type FittedParams struct {
	Mean   float64 `json:"mean,omitempty"`
	StdDev float64 `json:"std_dev,omitempty"`
	Loc    float64 `json:"loc,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Rate   float64 `json:"rate,omitempty"`
	Low    float64 `json:"low,omitempty"`
	High   float64 `json:"high,omitempty"`
}

// DescriptiveStats summarizes a sample for display alongside test results.
// StdDev is the sample standard deviation (n-1 denominator).
type DescriptiveStats struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
}

// FrequencyBin is one row of the chi-square frequency table after merging.
type FrequencyBin struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Observed float64 `json:"observed"`
	Expected float64 `json:"expected"`
}

// FitResult is the full outcome of testing a sample against a target family.
type FitResult struct {
	Target     Distribution     `json:"target"`
	Alpha      float64          `json:"alpha"`
	SampleSize int              `json:"sample_size"`
	Params     FittedParams     `json:"params"`
	Stats      DescriptiveStats `json:"stats"`
	KS         TestReport       `json:"ks"`
	ChiSquare  TestReport       `json:"chi_square"`
	Verdict    Verdict          `json:"verdict"`
	Histogram  []FrequencyBin   `json:"histogram,omitempty"`
}
