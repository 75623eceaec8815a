package experiment

import (
	"context"
	"math"
	"testing"

	"simlab/domain/sim"
	"simlab/internal/errors"
	"simlab/internal/rng"
)

func TestInventoryOptimalQuantity(t *testing.T) {
	gen := rng.New(42)
	exp := NewInventoryExperiment()
	out, err := exp.Run(context.Background(), gen, sim.ExperimentConfig{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out.Result.Estimate != 60 {
		t.Errorf("Expected the optimal quantity 60, got %v", out.Result.Estimate)
	}
	if out.Result.Metrics["optimal_quantity"] != 60 {
		t.Errorf("Expected optimal_quantity 60, got %v", out.Result.Metrics["optimal_quantity"])
	}
	if math.Abs(out.Result.Metrics["min_mean_cost"]-424.4) > 1e-12 {
		t.Errorf("Expected minimum mean cost 424.4, got %v", out.Result.Metrics["min_mean_cost"])
	}

	quantities := out.Result.Series["quantities"]
	costs := out.Result.Series["mean_costs"]
	if len(quantities) != 19 || len(costs) != 19 {
		t.Fatalf("Expected 19 grid points, got %d and %d", len(quantities), len(costs))
	}
	if quantities[0] != 10 || quantities[18] != 190 {
		t.Errorf("Expected the grid to span 10..190, got %v..%v", quantities[0], quantities[18])
	}
	if math.Abs(costs[0]-958.58) > 1e-12 {
		t.Errorf("Expected mean cost 958.58 at quantity 10, got %v", costs[0])
	}
	if math.Abs(costs[5]-424.4) > 1e-12 {
		t.Errorf("Expected the minimum at quantity 60, got %v", costs[5])
	}
	// Demand never exceeds 70, so ordering 190 always costs exactly
	// 190/2*10 + 100.
	if costs[18] != 1050 {
		t.Errorf("Expected mean cost 1050 at quantity 190, got %v", costs[18])
	}
	if gen.Draws() != 19000 {
		t.Errorf("Expected one demand draw per simulation per quantity, got %d", gen.Draws())
	}
}

func TestInventoryShortageRaisesCost(t *testing.T) {
	exp := NewInventoryExperiment()
	out, err := exp.Run(context.Background(), rng.New(9), sim.ExperimentConfig{
		MeanDemand: 100, UnitCost: 4, OrderCost: 25, Sims: 400,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	costs := out.Result.Series["mean_costs"]
	// Quantities far below mean demand pay the doubled shortage rate, so
	// the ten-unit order must cost more than the optimum.
	if math.Abs(costs[0]-758.7) > 1e-12 {
		t.Errorf("Expected mean cost 758.7 at quantity 10, got %v", costs[0])
	}
	if out.Result.Estimate != 110 {
		t.Errorf("Expected the optimum just above the mean demand, got %v", out.Result.Estimate)
	}
	if math.Abs(out.Result.Metrics["min_mean_cost"]-253.58) > 1e-12 {
		t.Errorf("Expected minimum mean cost 253.58, got %v", out.Result.Metrics["min_mean_cost"])
	}
}

func TestInventoryValidation(t *testing.T) {
	cases := []struct {
		name  string
		cfg   sim.ExperimentConfig
		param string
	}{
		{"negative demand", sim.ExperimentConfig{MeanDemand: -50}, "mean_demand"},
		{"negative unit cost", sim.ExperimentConfig{UnitCost: -10}, "unit_cost"},
		{"negative order cost", sim.ExperimentConfig{OrderCost: -100}, "order_cost"},
		{"negative sims", sim.ExperimentConfig{Sims: -1}, "sims"},
	}

	exp := NewInventoryExperiment()
	for _, c := range cases {
		_, err := exp.Run(context.Background(), rng.New(1), c.cfg)
		if err == nil {
			t.Errorf("%s: expected an error", c.name)
			continue
		}
		appErr, ok := err.(*errors.AppError)
		if !ok {
			t.Errorf("%s: expected an AppError, got %T", c.name, err)
			continue
		}
		if appErr.Param != c.param {
			t.Errorf("%s: expected param %s, got %q", c.name, c.param, appErr.Param)
		}
	}
}
