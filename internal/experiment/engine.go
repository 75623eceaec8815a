// Package experiment implements the workbench's Monte Carlo scenarios behind
// a single registry. Every run receives its own generator; the engine never
// holds one.
package experiment

import (
	"context"

	"simlab/domain/sim"
	"simlab/internal/errors"
	"simlab/internal/rng"
)

// defaultMaxPoints caps point-scatter experiments when no limit is injected.
const defaultMaxPoints = 2_000_000

// Experiment is implemented by each Monte Carlo scenario.
type Experiment interface {
	Kind() sim.ExperimentKind
	Description() string
	Run(ctx context.Context, gen *rng.Generator, cfg sim.ExperimentConfig) (*sim.RunOutput, error)
}

// Info describes one registered scenario for listing endpoints.
type Info struct {
	Kind        sim.ExperimentKind `json:"kind"`
	Description string             `json:"description"`
}

// Engine holds the scenario registry and stamps the run envelope (kind,
// seed, draw count) onto every result.
type Engine struct {
	experiments []Experiment
}

// NewEngine registers all scenarios. maxPoints bounds the point counts of
// the scatter experiments; zero selects the default cap.
func NewEngine(maxPoints int) *Engine {
	if maxPoints <= 0 {
		maxPoints = defaultMaxPoints
	}
	return &Engine{
		experiments: []Experiment{
			NewPiExperiment(maxPoints),
			NewRuinExperiment(),
			NewQueueExperiment(),
			NewIntegralExperiment(maxPoints),
			NewInventoryExperiment(),
			NewPowerExperiment(),
		},
	}
}

// Run executes the named scenario with the given generator and config.
func (e *Engine) Run(ctx context.Context, gen *rng.Generator, kind sim.ExperimentKind, cfg sim.ExperimentConfig) (*sim.RunOutput, error) {
	exp, ok := e.Lookup(kind)
	if !ok {
		return nil, errors.InvalidParameterf("kind", "unknown experiment %q", string(kind))
	}
	out, err := exp.Run(ctx, gen, cfg)
	if err != nil {
		return nil, err
	}
	out.Result.Kind = kind
	out.Result.Seed = gen.Seed()
	out.Result.Draws = gen.Draws()
	return out, nil
}

// Lookup finds a registered scenario by kind.
func (e *Engine) Lookup(kind sim.ExperimentKind) (Experiment, bool) {
	for _, exp := range e.experiments {
		if exp.Kind() == kind {
			return exp, true
		}
	}
	return nil, false
}

// List describes the registered scenarios in registration order.
func (e *Engine) List() []Info {
	infos := make([]Info, len(e.experiments))
	for i, exp := range e.experiments {
		infos[i] = Info{Kind: exp.Kind(), Description: exp.Description()}
	}
	return infos
}
