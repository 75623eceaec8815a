package sim

import (
	"simlab/domain/core"
)

// RunKind distinguishes the workbench operations recorded in history.
type RunKind string

const (
	RunGenerate   RunKind = "generate"
	RunFit        RunKind = "fit"
	RunExperiment RunKind = "experiment"
)

// RunRecord is the app-layer audit record of one workbench call. The engine
// itself persists nothing; records are written around it.
type RunRecord struct {
	ID          core.RunID             `json:"id"`
	Kind        RunKind                `json:"kind"`
	Label       string                 `json:"label"`
	Seed        int64                  `json:"seed,omitempty"`
	Params      map[string]interface{} `json:"params,omitempty"`
	Metrics     map[string]float64     `json:"metrics,omitempty"`
	Fingerprint core.Hash              `json:"fingerprint,omitempty"`
	CreatedAt   core.Timestamp         `json:"created_at"`
}

// GenerateResult is what the generate operation hands back: the sample, the
// seed that actually produced it (auto-derived seeds are surfaced here so the
// run can be replayed), and a descriptive summary.
type GenerateResult struct {
	Spec        DistributionSpec `json:"spec"`
	Sample      Sample           `json:"sample"`
	Seed        int64            `json:"seed"`
	Stats       DescriptiveStats `json:"stats"`
	Fingerprint core.Hash        `json:"fingerprint"`
}
