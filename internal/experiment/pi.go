package experiment

import (
	"context"
	"math"

	"simlab/domain/sim"
	"simlab/internal/errors"
	"simlab/internal/rng"
)

const defaultPiPoints = 5000

// PiExperiment estimates pi from the fraction of random points in the unit
// square that land inside the inscribed circle.
type PiExperiment struct {
	maxPoints int
}

func NewPiExperiment(maxPoints int) *PiExperiment {
	return &PiExperiment{maxPoints: maxPoints}
}

func (p *PiExperiment) Kind() sim.ExperimentKind { return sim.KindPi }

func (p *PiExperiment) Description() string {
	return "Estimate pi by scattering points in the unit square and counting those inside the inscribed circle."
}

func (p *PiExperiment) Run(ctx context.Context, gen *rng.Generator, cfg sim.ExperimentConfig) (*sim.RunOutput, error) {
	points := cfg.Iterations
	if points == 0 {
		points = defaultPiPoints
	}
	if points < 1 || points > p.maxPoints {
		return nil, errors.InvalidParameterf("iterations", "must be between 1 and %d, got %d", p.maxPoints, points)
	}

	inside := 0
	for i := 0; i < points; i++ {
		x := gen.Next()
		y := gen.Next()
		dx := x - 0.5
		dy := y - 0.5
		if dx*dx+dy*dy <= 0.25 {
			inside++
		}
	}
	estimate := 4 * float64(inside) / float64(points)

	return &sim.RunOutput{
		Trace: []string{
			"Scatter points uniformly over the unit square.",
			"Count the points whose distance from the center is at most 1/2.",
			"The circle covers pi/4 of the square, so pi is 4 times the inside fraction.",
		},
		Result: sim.ExperimentResult{
			Estimate: estimate,
			Metrics: map[string]float64{
				"points": float64(points),
				"inside": float64(inside),
				"error":  math.Abs(estimate - math.Pi),
			},
		},
	}, nil
}
