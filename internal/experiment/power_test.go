package experiment

import (
	"context"
	"math"
	"testing"

	"simlab/domain/sim"
	"simlab/internal/errors"
	"simlab/internal/rng"
)

func TestPowerAtNullMatchesAlpha(t *testing.T) {
	// Samples are drawn under the hypothesized mean, so the rejection rate
	// is the test's empirical size and should sit near alpha.
	gen := rng.New(42)
	exp := NewPowerExperiment()
	out, err := exp.Run(context.Background(), gen, sim.ExperimentConfig{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	m := out.Result.Metrics
	if math.Abs(out.Result.Estimate-0.0512) > 1e-12 {
		t.Errorf("Expected rejection rate 0.0512, got %v", out.Result.Estimate)
	}
	if m["rejections"] != 256 {
		t.Errorf("Expected 256 rejections, got %v", m["rejections"])
	}
	if math.Abs(out.Result.Estimate-0.05) > 0.01 {
		t.Errorf("Expected the empirical size near alpha, got %v", out.Result.Estimate)
	}
	if math.Abs(m["mean_of_means"]-100.01832408957382) > 1e-9 {
		t.Errorf("Expected mean of sample means 100.01832408957382, got %v", m["mean_of_means"])
	}
	if math.Abs(m["se_of_means"]-2.7304490159232406) > 1e-9 {
		t.Errorf("Expected spread of sample means 2.7304490159232406, got %v", m["se_of_means"])
	}
	if math.Abs(m["min_mean"]-89.94836312217984) > 1e-9 {
		t.Errorf("Expected min sample mean 89.94836312217984, got %v", m["min_mean"])
	}
	if math.Abs(m["max_mean"]-109.2211723701685) > 1e-9 {
		t.Errorf("Expected max sample mean 109.2211723701685, got %v", m["max_mean"])
	}
	// The theoretical spread of a thirty-point sample mean is sigma over
	// root thirty, about 2.74.
	if math.Abs(m["se_of_means"]-15/math.Sqrt(30)) > 0.1 {
		t.Errorf("Expected the spread near the theoretical standard error, got %v", m["se_of_means"])
	}
	if gen.Draws() != 300000 {
		t.Errorf("Expected two draws per normal variate, got %d", gen.Draws())
	}
}

func TestPowerStricterAlphaRejectsLess(t *testing.T) {
	exp := NewPowerExperiment()
	loose, err := exp.Run(context.Background(), rng.New(5), sim.ExperimentConfig{Alpha: 0.2, Sims: 2000})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	strict, err := exp.Run(context.Background(), rng.New(5), sim.ExperimentConfig{Alpha: 0.01, Sims: 2000})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strict.Result.Estimate >= loose.Result.Estimate {
		t.Errorf("Expected fewer rejections at the stricter level, got %v vs %v",
			strict.Result.Estimate, loose.Result.Estimate)
	}
}

func TestPowerValidation(t *testing.T) {
	cases := []struct {
		name  string
		cfg   sim.ExperimentConfig
		param string
	}{
		{"negative sigma", sim.ExperimentConfig{Sigma: -15}, "sigma"},
		{"sample of one", sim.ExperimentConfig{SampleN: 1}, "sample_n"},
		{"negative sample", sim.ExperimentConfig{SampleN: -30}, "sample_n"},
		{"alpha above one", sim.ExperimentConfig{Alpha: 1.5}, "alpha"},
		{"negative alpha", sim.ExperimentConfig{Alpha: -0.05}, "alpha"},
		{"negative sims", sim.ExperimentConfig{Sims: -1}, "sims"},
	}

	exp := NewPowerExperiment()
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
