package experiment

import (
	"context"
	"math"
	"testing"

	"simlab/domain/sim"
	"simlab/internal/errors"
	"simlab/internal/rng"
)

func TestQueueNoWaitWhenServiceFitsGap(t *testing.T) {
	// At the defaults the gap between arrivals is at least the nominal two
	// minutes plus jitter, and service takes exactly two minutes, so the
	// server is always idle when the next customer walks in.
	gen := rng.New(42)
	exp := NewQueueExperiment()
	out, err := exp.Run(context.Background(), gen, sim.ExperimentConfig{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	m := out.Result.Metrics
	if m["mean_wait"] != 0 || m["max_wait"] != 0 || m["p90_wait"] != 0 {
		t.Errorf("Expected zero waits at the defaults, got mean=%v max=%v p90=%v",
			m["mean_wait"], m["max_wait"], m["p90_wait"])
	}
	if m["mean_in_system"] != 0 {
		t.Errorf("Expected an empty shop at every arrival, got %v", m["mean_in_system"])
	}
	if m["utilization"] != 1.0 {
		t.Errorf("Expected utilization 1.0, got %v", m["utilization"])
	}
	if m["customers"] != 30 {
		t.Errorf("Expected 30 customers per hour, got %v", m["customers"])
	}
	if gen.Draws() != 30000 {
		t.Errorf("Expected one jitter draw per customer, got %d", gen.Draws())
	}
}

func TestQueueCongestion(t *testing.T) {
	gen := rng.New(42)
	exp := NewQueueExperiment()
	out, err := exp.Run(context.Background(), gen, sim.ExperimentConfig{
		ArrivalRate: 30, ServiceTime: 5, Sims: 200,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	m := out.Result.Metrics
	if math.Abs(m["mean_wait"]-28.73727335930926) > 1e-12 {
		t.Errorf("Expected mean wait 28.73727335930926, got %v", m["mean_wait"])
	}
	if math.Abs(m["max_wait"]-65.72457938175648) > 1e-12 {
		t.Errorf("Expected max wait 65.72457938175648, got %v", m["max_wait"])
	}
	if math.Abs(m["p90_wait"]-52.54735246952623) > 1e-12 {
		t.Errorf("Expected p90 wait 52.54735246952623, got %v", m["p90_wait"])
	}
	if math.Abs(m["mean_in_system"]-6.227333333333333) > 1e-12 {
		t.Errorf("Expected 6.227333333333333 customers in system, got %v", m["mean_in_system"])
	}
	if m["utilization"] != 2.5 {
		t.Errorf("Expected utilization 2.5, got %v", m["utilization"])
	}
	if out.Result.Estimate != m["mean_wait"] {
		t.Errorf("Expected the estimate to be the mean wait, got %v", out.Result.Estimate)
	}
}

func TestQueueWaitOrdering(t *testing.T) {
	exp := NewQueueExperiment()
	out, err := exp.Run(context.Background(), rng.New(8), sim.ExperimentConfig{
		ArrivalRate: 20, ServiceTime: 4, Sims: 100,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	m := out.Result.Metrics
	if m["mean_wait"] > m["p90_wait"] || m["p90_wait"] > m["max_wait"] {
		t.Errorf("Expected mean <= p90 <= max, got %v / %v / %v",
			m["mean_wait"], m["p90_wait"], m["max_wait"])
	}
	if math.Abs(m["mean_in_system"]-0.757) > 1e-12 {
		t.Errorf("Expected 0.757 customers in system, got %v", m["mean_in_system"])
	}
}

func TestQueueValidation(t *testing.T) {
	cases := []struct {
		name  string
		cfg   sim.ExperimentConfig
		param string
	}{
		{"fractional rate below one", sim.ExperimentConfig{ArrivalRate: 0.5}, "arrival_rate"},
		{"negative rate", sim.ExperimentConfig{ArrivalRate: -3}, "arrival_rate"},
		{"negative service", sim.ExperimentConfig{ServiceTime: -1}, "service_time"},
		{"negative sims", sim.ExperimentConfig{Sims: -1}, "sims"},
	}

	exp := NewQueueExperiment()
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
