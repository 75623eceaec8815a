package sim

// ExperimentKind identifies one of the Monte Carlo scenarios.
type ExperimentKind string

const (
	KindPi        ExperimentKind = "pi"
	KindRuin      ExperimentKind = "gamblers_ruin"
	KindQueue     ExperimentKind = "queue"
	KindIntegral  ExperimentKind = "integral"
	KindInventory ExperimentKind = "inventory"
	KindPower     ExperimentKind = "power"
)

// ExperimentKinds lists every scenario in presentation order.
func ExperimentKinds() []ExperimentKind {
	return []ExperimentKind{KindPi, KindRuin, KindQueue, KindIntegral, KindInventory, KindPower}
}

// ExperimentConfig carries the inputs for any scenario; each experiment reads
// only its own fields and substitutes documented defaults for zero values.
//
//	pi:            Iterations
//	gamblers_ruin: Capital, Bet, WinProb, Sims
//	queue:         ArrivalRate (per hour), ServiceTime (minutes), Sims
//	integral:      Iterations, Expression (function of x over [0,1])
//	inventory:     MeanDemand, UnitCost, OrderCost, Sims
//	power:         Mu0, Sigma, SampleN, Sims, Alpha
//
// Seed, when non-nil, makes the run reproducible; otherwise a seed is
// derived and reported back in the result.
type ExperimentConfig struct {
	Iterations  int     `json:"iterations,omitempty"`
	Capital     float64 `json:"capital,omitempty"`
	Bet         float64 `json:"bet,omitempty"`
	WinProb     float64 `json:"win_prob,omitempty"`
	Sims        int     `json:"sims,omitempty"`
	ArrivalRate float64 `json:"arrival_rate,omitempty"`
	ServiceTime float64 `json:"service_time,omitempty"`
	Expression  string  `json:"expression,omitempty"`
	MeanDemand  float64 `json:"mean_demand,omitempty"`
	UnitCost    float64 `json:"unit_cost,omitempty"`
	OrderCost   float64 `json:"order_cost,omitempty"`
	Mu0         float64 `json:"mu0,omitempty"`
	Sigma       float64 `json:"sigma,omitempty"`
	SampleN     int     `json:"sample_n,omitempty"`
	Alpha       float64 `json:"alpha,omitempty"`
	Seed        *int64  `json:"seed,omitempty"`
}

// ExperimentResult is the numeric outcome of one run. Estimate is the
// headline number (pi estimate, ruin probability, mean wait, area, optimal Q,
// empirical power); Metrics holds the scenario's named diagnostics and Series
// its small named sequences (per-Q mean costs, sample means). The trace text
// travels separately.
type ExperimentResult struct {
	Kind     ExperimentKind       `json:"kind"`
	Estimate float64              `json:"estimate"`
	Metrics  map[string]float64   `json:"metrics"`
	Series   map[string][]float64 `json:"series,omitempty"`
	Seed     int64                `json:"seed"`
	Draws    uint64               `json:"draws"`
}

// RunOutput pairs an experiment's explanatory trace with its numbers.
// The two travel together through the app layer but stay separate fields.
type RunOutput struct {
	Trace  []string         `json:"trace"`
	Result ExperimentResult `json:"result"`
}
