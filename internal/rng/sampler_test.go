package rng

import (
	"math"
	"testing"

	"simlab/domain/sim"
	"simlab/internal/errors"
)

func mean(xs sim.Sample) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sampleStdDev(xs sim.Sample) float64 {
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func TestUniformRange(t *testing.T) {
	g := New(42)
	xs, err := g.Uniform(2, 5, 1000)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	if len(xs) != 1000 {
		t.Fatalf("len = %d, want 1000", len(xs))
	}
	for i, x := range xs {
		if x < 2 || x >= 5 {
			t.Fatalf("value %d = %v, outside [2, 5)", i, x)
		}
	}
	// 2 + 3·0.2523451747838408, the first seed-42 draw.
	if got := xs[0]; math.Abs(got-2.7570355243515224) > 1e-12 {
		t.Errorf("first value = %v, want 2.7570355243515224", got)
	}
}

func TestExponentialMean(t *testing.T) {
	g := New(42)
	xs, err := g.Exponential(2.0, 50000)
	if err != nil {
		t.Fatalf("Exponential: %v", err)
	}
	if got := mean(xs); math.Abs(got-0.49757969288599574) > 1e-9 {
		t.Errorf("mean = %v, want 0.49757969288599574 (population mean 1/rate = 0.5)", got)
	}
	for i, x := range xs {
		if x < 0 || math.IsInf(x, 0) || math.IsNaN(x) {
			t.Fatalf("value %d = %v, want finite non-negative", i, x)
		}
	}
}

func TestExponentialZeroDrawClamped(t *testing.T) {
	// Seed 634785765 yields a raw draw of exactly 0; the log-safe clamp maps
	// it to 1/2^32 instead of producing +Inf.
	g := New(634785765)
	xs, err := g.Exponential(1.0, 1)
	if err != nil {
		t.Fatalf("Exponential: %v", err)
	}
	if math.Abs(xs[0]-22.18070977791825) > 1e-12 {
		t.Errorf("clamped value = %v, want 22.18070977791825 (= -ln(2^-32))", xs[0])
	}
}

func TestNormalMoments(t *testing.T) {
	g := New(42)
	xs, err := g.Normal(10, 2, 10000)
	if err != nil {
		t.Fatalf("Normal: %v", err)
	}
	if g.Draws() != 20000 {
		t.Fatalf("Draws() = %d, want 20000 (two per value)", g.Draws())
	}
	if got := mean(xs); math.Abs(got-10.011279320783526) > 1e-9 {
		t.Errorf("mean = %v, want 10.011279320783526", got)
	}
	if got := sampleStdDev(xs); math.Abs(got-1.9966998722509808) > 1e-9 {
		t.Errorf("sample sd = %v, want 1.9966998722509808", got)
	}
}

func TestNormalZeroDrawClamped(t *testing.T) {
	g := New(634785765)
	xs, err := g.Normal(0, 1, 5)
	if err != nil {
		t.Fatalf("Normal: %v", err)
	}
	for i, x := range xs {
		if math.IsInf(x, 0) || math.IsNaN(x) {
			t.Fatalf("value %d = %v, want finite", i, x)
		}
	}
}

func TestBernoulliProportion(t *testing.T) {
	g := New(42)
	xs, err := g.Bernoulli(0.3, 100000)
	if err != nil {
		t.Fatalf("Bernoulli: %v", err)
	}
	for i, x := range xs {
		if x != 0 && x != 1 {
			t.Fatalf("value %d = %v, want 0 or 1", i, x)
		}
	}
	if got := mean(xs); math.Abs(got-0.29756) > 1e-12 {
		t.Errorf("proportion = %v, want 0.29756", got)
	}
}

func TestBinomialMean(t *testing.T) {
	g := New(42)
	xs, err := g.Binomial(10, 0.5, 20000)
	if err != nil {
		t.Fatalf("Binomial: %v", err)
	}
	if g.Draws() != 200000 {
		t.Fatalf("Draws() = %d, want 200000 (trials per value)", g.Draws())
	}
	for i, x := range xs {
		if x < 0 || x > 10 || x != math.Trunc(x) {
			t.Fatalf("value %d = %v, want integer in [0, 10]", i, x)
		}
	}
	if got := mean(xs); math.Abs(got-4.9913) > 1e-12 {
		t.Errorf("mean = %v, want 4.9913 (population mean 5)", got)
	}
}

func TestPoissonMean(t *testing.T) {
	g := New(42)
	xs, err := g.Poisson(4.0, 20000)
	if err != nil {
		t.Fatalf("Poisson: %v", err)
	}
	for i, x := range xs {
		if x < 0 || x != math.Trunc(x) {
			t.Fatalf("value %d = %v, want non-negative integer", i, x)
		}
	}
	if got := mean(xs); math.Abs(got-4.0214) > 1e-12 {
		t.Errorf("mean = %v, want 4.0214 (population mean 4)", got)
	}
}

func TestSampleDispatch(t *testing.T) {
	specs := []sim.DistributionSpec{
		sim.NewUniform(0, 1),
		sim.NewExponential(1.5),
		sim.NewNormal(0, 1),
		sim.NewBernoulli(0.5),
		sim.NewBinomial(10, 0.5),
		sim.NewPoisson(3),
	}
	for _, spec := range specs {
		g := New(7)
		xs, err := g.Sample(spec, 50)
		if err != nil {
			t.Fatalf("Sample(%s): %v", spec.String(), err)
		}
		if len(xs) != 50 {
			t.Errorf("Sample(%s) len = %d, want 50", spec.String(), len(xs))
		}
	}
}

func TestSampleUnknownFamily(t *testing.T) {
	g := New(7)
	_, err := g.Sample(sim.DistributionSpec{Family: "weibull"}, 10)
	if err == nil {
		t.Fatal("expected error for unknown family")
	}
	if errors.GetCode(err) != errors.CodeInvalidParameter {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.CodeInvalidParameter)
	}
}

func TestSamplerValidation(t *testing.T) {
	g := New(1)
	tests := []struct {
		name  string
		param string
		call  func() (sim.Sample, error)
	}{
		{"zero count", "n", func() (sim.Sample, error) { return g.Uniform(0, 1, 0) }},
		{"negative count", "n", func() (sim.Sample, error) { return g.Normal(0, 1, -3) }},
		{"uniform empty interval", "low", func() (sim.Sample, error) { return g.Uniform(5, 5, 10) }},
		{"uniform inverted interval", "low", func() (sim.Sample, error) { return g.Uniform(3, 1, 10) }},
		{"exponential zero rate", "rate", func() (sim.Sample, error) { return g.Exponential(0, 10) }},
		{"exponential negative rate", "rate", func() (sim.Sample, error) { return g.Exponential(-2, 10) }},
		{"normal zero sd", "std_dev", func() (sim.Sample, error) { return g.Normal(0, 0, 10) }},
		{"bernoulli prob below zero", "prob", func() (sim.Sample, error) { return g.Bernoulli(-0.1, 10) }},
		{"bernoulli prob above one", "prob", func() (sim.Sample, error) { return g.Bernoulli(1.1, 10) }},
		{"binomial zero trials", "trials", func() (sim.Sample, error) { return g.Binomial(0, 0.5, 10) }},
		{"poisson zero rate", "rate", func() (sim.Sample, error) { return g.Poisson(0, 10) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xs, err := tt.call()
			if err == nil {
				t.Fatal("expected error")
			}
			if xs != nil {
				t.Error("expected nil sample alongside error")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("error type %T, want *errors.AppError", err)
			}
			if appErr.Code != errors.CodeInvalidParameter {
				t.Errorf("code = %s, want %s", appErr.Code, errors.CodeInvalidParameter)
			}
			if appErr.Param != tt.param {
				t.Errorf("param = %q, want %q", appErr.Param, tt.param)
			}
		})
	}
}

func TestValidationConsumesNoDraws(t *testing.T) {
	g := New(9)
	if _, err := g.Exponential(-1, 10); err == nil {
		t.Fatal("expected error")
	}
	if g.Draws() != 0 {
		t.Errorf("Draws() = %d after rejected call, want 0", g.Draws())
	}
}
