package experiment

import (
	"context"
	"math"
	"testing"

	"simlab/domain/sim"
	"simlab/internal/rng"
)

func TestPiEstimate(t *testing.T) {
	gen := rng.New(42)
	exp := NewPiExperiment(defaultMaxPoints)
	out, err := exp.Run(context.Background(), gen, sim.ExperimentConfig{Iterations: 1_000_000})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The replayed stream puts 785401 of the million points inside the
	// circle. A couple of boundary points may flip if the compiler fuses
	// the distance arithmetic, hence the small band.
	if math.Abs(out.Result.Metrics["inside"]-785401) > 5 {
		t.Errorf("Expected about 785401 points inside, got %v", out.Result.Metrics["inside"])
	}
	if math.Abs(out.Result.Estimate-3.141604) > 2e-5 {
		t.Errorf("Expected estimate near 3.141604, got %v", out.Result.Estimate)
	}
	if math.Abs(out.Result.Estimate-math.Pi) > 0.01 {
		t.Errorf("Expected the estimate to approximate pi, got %v", out.Result.Estimate)
	}
	if math.Abs(out.Result.Metrics["error"]-math.Abs(out.Result.Estimate-math.Pi)) > 1e-15 {
		t.Errorf("Expected the error metric to match the estimate, got %v", out.Result.Metrics["error"])
	}
	if gen.Draws() != 2_000_000 {
		t.Errorf("Expected two draws per point, got %d", gen.Draws())
	}
}

func TestPiDefaults(t *testing.T) {
	gen := rng.New(42)
	exp := NewPiExperiment(defaultMaxPoints)
	out, err := exp.Run(context.Background(), gen, sim.ExperimentConfig{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Result.Metrics["points"] != 5000 {
		t.Errorf("Expected the default 5000 points, got %v", out.Result.Metrics["points"])
	}
	if math.Abs(out.Result.Metrics["inside"]-3898) > 2 {
		t.Errorf("Expected about 3898 points inside, got %v", out.Result.Metrics["inside"])
	}
	if math.Abs(out.Result.Estimate-3.1184) > 2e-3 {
		t.Errorf("Expected estimate near 3.1184, got %v", out.Result.Estimate)
	}
}

func TestPiPointLimits(t *testing.T) {
	exp := NewPiExperiment(1000)
	cases := []int{-1, 1001}
	for _, points := range cases {
		_, err := exp.Run(context.Background(), rng.New(1), sim.ExperimentConfig{Iterations: points})
		if err == nil {
			t.Errorf("Expected %d points to be rejected", points)
		}
	}

	out, err := exp.Run(context.Background(), rng.New(1), sim.ExperimentConfig{Iterations: 1000})
	if err != nil {
		t.Fatalf("Expected the cap itself to be accepted: %v", err)
	}
	if out.Result.Metrics["points"] != 1000 {
		t.Errorf("Expected 1000 points, got %v", out.Result.Metrics["points"])
	}
}
