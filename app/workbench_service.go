// Package app wires the simulation core to the outside: request validation,
// seed resolution, history recording, and batch execution. Nothing below
// this layer persists or logs.
package app

import (
	"context"

	"simlab/domain/core"
	"simlab/domain/sim"
	"simlab/internal"
	"simlab/internal/errors"
	"simlab/internal/experiment"
	"simlab/internal/fit"
	"simlab/internal/rng"
	"simlab/ports"
)

// Options bound the service. Zero values select the defaults.
type Options struct {
	MaxSampleN   int     // generate() upper bound on n
	DefaultAlpha float64 // significance level when a fit request leaves it zero
}

const (
	defaultMaxSampleN = 1_000_000
	defaultAlphaLevel = 0.05
)

// GenerateRequest asks for a fresh sample from one distribution family.
type GenerateRequest struct {
	Spec  sim.DistributionSpec `json:"spec"`
	N     int                  `json:"n"`
	Seed  *int64               `json:"seed,omitempty"` // nil derives one
	Label string               `json:"label,omitempty"`
}

// FitRequest asks whether a sample is consistent with a target family.
type FitRequest struct {
	Sample sim.Sample       `json:"sample"`
	Target sim.Distribution `json:"target"`
	Alpha  float64          `json:"alpha,omitempty"` // 0 selects the configured default
	Label  string           `json:"label,omitempty"`
}

// ExperimentRequest runs one Monte Carlo scenario.
type ExperimentRequest struct {
	Kind   sim.ExperimentKind   `json:"kind"`
	Config sim.ExperimentConfig `json:"config"`
	Label  string               `json:"label,omitempty"`
}

// WorkbenchService is the facade over the generator, the fit battery and
// the experiment engine. Every call is recorded in history; a history
// failure is logged and never fails the computation that produced the
// result.
type WorkbenchService struct {
	engine  *experiment.Engine
	battery *fit.Battery
	history ports.HistoryRepository
	loader  ports.SampleLoader
	opts    Options
	log     *internal.Logger
}

// NewWorkbenchService creates the service. engine, battery and history are
// required; loader may be nil when file loading is not wired.
func NewWorkbenchService(engine *experiment.Engine, battery *fit.Battery, history ports.HistoryRepository, loader ports.SampleLoader, opts Options, logger *internal.Logger) *WorkbenchService {
	if opts.MaxSampleN <= 0 {
		opts.MaxSampleN = defaultMaxSampleN
	}
	if opts.DefaultAlpha <= 0 || opts.DefaultAlpha >= 1 {
		opts.DefaultAlpha = defaultAlphaLevel
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &WorkbenchService{
		engine:  engine,
		battery: battery,
		history: history,
		loader:  loader,
		opts:    opts,
		log:     logger.WithTag("Workbench"),
	}
}

// Generate draws n values from the requested family. The seed that actually
// produced the sample is always part of the result so the run can be
// replayed, whether the caller supplied it or it was derived here.
func (s *WorkbenchService) Generate(ctx context.Context, req GenerateRequest) (*sim.GenerateResult, error) {
	if req.N < 1 || req.N > s.opts.MaxSampleN {
		return nil, errors.InvalidParameterf("n", "must be between 1 and %d, got %d", s.opts.MaxSampleN, req.N)
	}

	seed := s.resolveSeed(req.Seed)
	gen := rng.New(seed)
	sample, err := gen.Sample(req.Spec, req.N)
	if err != nil {
		return nil, err
	}

	result := &sim.GenerateResult{
		Spec:        req.Spec,
		Sample:      sample,
		Seed:        seed,
		Stats:       fit.Describe(sample),
		Fingerprint: core.SampleFingerprint(sample),
	}

	label := req.Label
	if label == "" {
		label = req.Spec.String()
	}
	s.recordRun(ctx, &sim.RunRecord{
		ID:    core.NewRunID(),
		Kind:  sim.RunGenerate,
		Label: label,
		Seed:  seed,
		Params: map[string]interface{}{
			"family": string(req.Spec.Family),
			"spec":   req.Spec.String(),
			"n":      req.N,
		},
		Metrics: map[string]float64{
			"mean":    result.Stats.Mean,
			"std_dev": result.Stats.StdDev,
			"min":     result.Stats.Min,
			"max":     result.Stats.Max,
		},
		Fingerprint: result.Fingerprint,
		CreatedAt:   core.Now(),
	})
	return result, nil
}

// FitTest runs the two-test battery against the target family.
func (s *WorkbenchService) FitTest(ctx context.Context, req FitRequest) (*sim.FitResult, error) {
	alpha := req.Alpha
	if alpha == 0 {
		alpha = s.opts.DefaultAlpha
	}

	result, err := s.battery.Test(req.Sample, req.Target, alpha)
	if err != nil {
		return nil, err
	}

	label := req.Label
	if label == "" {
		label = "fit " + string(req.Target)
	}
	s.recordRun(ctx, &sim.RunRecord{
		ID:    core.NewRunID(),
		Kind:  sim.RunFit,
		Label: label,
		Params: map[string]interface{}{
			"target": string(req.Target),
			"alpha":  alpha,
			"n":      len(req.Sample),
		},
		Metrics: map[string]float64{
			"ks_statistic":  result.KS.Statistic,
			"ks_p_value":    result.KS.PValue,
			"chi_statistic": result.ChiSquare.Statistic,
			"chi_p_value":   result.ChiSquare.PValue,
		},
		Fingerprint: core.SampleFingerprint(req.Sample),
		CreatedAt:   core.Now(),
	})
	return result, nil
}

// RunExperiment executes one scenario with its own generator.
func (s *WorkbenchService) RunExperiment(ctx context.Context, req ExperimentRequest) (*sim.RunOutput, error) {
	seed := s.resolveSeed(req.Config.Seed)
	gen := rng.New(seed)

	out, err := s.engine.Run(ctx, gen, req.Kind, req.Config)
	if err != nil {
		return nil, err
	}

	label := req.Label
	if label == "" {
		label = string(req.Kind)
	}
	metrics := make(map[string]float64, len(out.Result.Metrics)+1)
	for k, v := range out.Result.Metrics {
		metrics[k] = v
	}
	metrics["estimate"] = out.Result.Estimate
	s.recordRun(ctx, &sim.RunRecord{
		ID:    core.NewRunID(),
		Kind:  sim.RunExperiment,
		Label: label,
		Seed:  seed,
		Params: map[string]interface{}{
			"kind": string(req.Kind),
		},
		Metrics:   metrics,
		CreatedAt: core.Now(),
	})
	return out, nil
}

// LoadSample extracts a numeric column from a CSV or Excel file.
func (s *WorkbenchService) LoadSample(ctx context.Context, path, column string) (*ports.LoadedSample, error) {
	if s.loader == nil {
		return nil, errors.InternalError("no sample loader configured")
	}
	return s.loader.LoadColumn(ctx, path, column)
}

// Experiments describes the registered scenarios.
func (s *WorkbenchService) Experiments() []experiment.Info {
	return s.engine.List()
}

// History lists recorded runs newest first.
func (s *WorkbenchService) History(ctx context.Context, filters ports.RunFilters) ([]sim.RunRecord, error) {
	return s.history.ListRuns(ctx, filters)
}

// HistoryRun retrieves one recorded run.
func (s *WorkbenchService) HistoryRun(ctx context.Context, id core.RunID) (*sim.RunRecord, error) {
	return s.history.GetRun(ctx, id)
}

func (s *WorkbenchService) resolveSeed(req *int64) int64 {
	if req != nil {
		return *req
	}
	return rng.DeriveSeed()
}

func (s *WorkbenchService) recordRun(ctx context.Context, record *sim.RunRecord) {
	if err := s.history.SaveRun(ctx, record); err != nil {
		s.log.Warn("history save failed for %s run %s: %v", record.Kind, record.ID, err)
	}
}
