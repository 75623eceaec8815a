package app

import (
	"context"
	"testing"

	"simlab/adapters/history"
	"simlab/domain/core"
	"simlab/domain/sim"
	"simlab/internal/errors"
	"simlab/internal/experiment"
	"simlab/internal/fit"
	"simlab/internal/rng"
	"simlab/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*WorkbenchService, *history.MemoryRepository) {
	repo := history.NewMemoryRepository(100)
	svc := NewWorkbenchService(experiment.NewEngine(0), fit.NewBattery(), repo, nil, Options{}, nil)
	return svc, repo
}

func seedPtr(s int64) *int64 { return &s }

func TestGenerateKnownSample(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	result, err := svc.Generate(ctx, GenerateRequest{
		Spec: sim.NewUniform(0, 1),
		N:    5,
		Seed: seedPtr(42),
	})
	require.NoError(t, err)

	expected := []float64{
		0.2523451747838408,
		0.08812504541128874,
		0.5772811982315034,
		0.22255426598712802,
		0.37566019711084664,
	}
	require.Len(t, result.Sample, 5)
	for i, want := range expected {
		assert.Equal(t, want, result.Sample[i], "sample[%d]", i)
	}

	assert.Equal(t, int64(42), result.Seed)
	assert.NotEmpty(t, result.Fingerprint)
	assert.Equal(t, 5, result.Stats.N)
	assert.InDelta(t, 0.3031931763049215, result.Stats.Mean, 1e-12)
	assert.InDelta(t, 0.2523451747838408, result.Stats.Median, 1e-12)
	assert.InDelta(t, 0.18419973324500402, result.Stats.StdDev, 1e-12)
	assert.Equal(t, 0.08812504541128874, result.Stats.Min)
	assert.Equal(t, 0.5772811982315034, result.Stats.Max)
	assert.InDelta(t, 0.15533965569920838, result.Stats.Q25, 1e-12)
	assert.InDelta(t, 0.3140026859473437, result.Stats.Q75, 1e-12)

	records, err := repo.ListRuns(ctx, ports.RunFilters{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, sim.RunGenerate, rec.Kind)
	assert.Equal(t, "uniform(0, 1)", rec.Label)
	assert.Equal(t, int64(42), rec.Seed)
	assert.Equal(t, string(result.Fingerprint), string(rec.Fingerprint))
	assert.Equal(t, "uniform", rec.Params["family"])
	assert.Equal(t, 5, rec.Params["n"])
	assert.InDelta(t, result.Stats.Mean, rec.Metrics["mean"], 1e-15)
}

func TestGenerateDerivedSeedReplays(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Generate(ctx, GenerateRequest{
		Spec: sim.NewNormal(10, 2),
		N:    500,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, first.Seed, int64(0), "derived seeds are non-negative")

	replay, err := svc.Generate(ctx, GenerateRequest{
		Spec: sim.NewNormal(10, 2),
		N:    500,
		Seed: seedPtr(first.Seed),
	})
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint, replay.Fingerprint)
	assert.Equal(t, first.Sample, replay.Sample)
}

func TestGenerateCustomLabel(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateRequest{
		Spec:  sim.NewPoisson(4),
		N:     50,
		Seed:  seedPtr(7),
		Label: "arrivals baseline",
	})
	require.NoError(t, err)

	records, err := repo.ListRuns(ctx, ports.RunFilters{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "arrivals baseline", records[0].Label)
}

func TestGenerateValidation(t *testing.T) {
	repo := history.NewMemoryRepository(10)
	svc := NewWorkbenchService(experiment.NewEngine(0), fit.NewBattery(), repo, nil, Options{MaxSampleN: 100}, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateRequest{Spec: sim.NewUniform(0, 1), N: 0, Seed: seedPtr(1)})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeInvalidParameter, appErr.Code)
	assert.Equal(t, "n", appErr.Param)

	_, err = svc.Generate(ctx, GenerateRequest{Spec: sim.NewUniform(0, 1), N: 101, Seed: seedPtr(1)})
	require.Error(t, err)

	// Nothing lands in history when the run never happened.
	count, err := repo.CountRuns(ctx, sim.RunGenerate)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGenerateBadSpecPropagates(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateRequest{Spec: sim.NewNormal(0, -1), N: 10, Seed: seedPtr(1)})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "std_dev", appErr.Param)

	count, err := repo.CountRuns(ctx, sim.RunGenerate)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFitTestDefaultsAlphaAndRecords(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	gen := rng.New(42)
	sample, err := gen.Normal(10, 2, 10000)
	require.NoError(t, err)

	result, err := svc.FitTest(ctx, FitRequest{Sample: sample, Target: sim.Normal})
	require.NoError(t, err)
	assert.Equal(t, 0.05, result.Alpha)
	assert.Equal(t, sim.BothAgreeFit, result.Verdict)
	assert.Equal(t, sim.Fits, result.KS.Decision)
	assert.Equal(t, sim.Fits, result.ChiSquare.Decision)

	records, err := repo.ListRuns(ctx, ports.RunFilters{Kind: sim.RunFit})
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "fit normal", rec.Label)
	assert.Equal(t, "normal", rec.Params["target"])
	assert.Equal(t, 0.05, rec.Params["alpha"])
	assert.Equal(t, 10000, rec.Params["n"])
	assert.Equal(t, result.KS.PValue, rec.Metrics["ks_p_value"])
	assert.Equal(t, result.ChiSquare.PValue, rec.Metrics["chi_p_value"])
	assert.Equal(t, string(core.SampleFingerprint(sample)), string(rec.Fingerprint))
}

func TestFitTestExplicitAlpha(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	gen := rng.New(3)
	sample, err := gen.Uniform(0, 1, 400)
	require.NoError(t, err)

	result, err := svc.FitTest(ctx, FitRequest{Sample: sample, Target: sim.Uniform, Alpha: 0.01})
	require.NoError(t, err)
	assert.Equal(t, 0.01, result.Alpha)
}

func TestFitTestBadTarget(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.FitTest(ctx, FitRequest{Sample: sim.Sample{1, 2, 3}, Target: sim.Bernoulli})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "target", appErr.Param)
}

func TestRunExperimentStampsAndRecords(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	out, err := svc.RunExperiment(ctx, ExperimentRequest{
		Kind:   sim.KindPi,
		Config: sim.ExperimentConfig{Iterations: 5000, Seed: seedPtr(42)},
	})
	require.NoError(t, err)
	assert.Equal(t, sim.KindPi, out.Result.Kind)
	assert.Equal(t, int64(42), out.Result.Seed)
	assert.Equal(t, uint64(10000), out.Result.Draws)
	assert.InDelta(t, 3.1184, out.Result.Estimate, 2e-3)
	assert.NotEmpty(t, out.Trace)

	records, err := repo.ListRuns(ctx, ports.RunFilters{Kind: sim.RunExperiment})
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "pi", rec.Label)
	assert.Equal(t, int64(42), rec.Seed)
	assert.Equal(t, "pi", rec.Params["kind"])
	assert.Equal(t, out.Result.Estimate, rec.Metrics["estimate"])
	assert.Equal(t, out.Result.Metrics["inside"], rec.Metrics["inside"])
}

func TestRunExperimentUnknownKind(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.RunExperiment(ctx, ExperimentRequest{Kind: sim.ExperimentKind("roulette")})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "kind", appErr.Param)

	count, err := repo.CountRuns(ctx, sim.RunExperiment)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestLoadSampleWithoutLoader(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.LoadSample(context.Background(), "data.csv", "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
}

func TestExperimentsListed(t *testing.T) {
	svc, _ := newTestService()

	infos := svc.Experiments()
	require.Len(t, infos, len(sim.ExperimentKinds()))
	for i, kind := range sim.ExperimentKinds() {
		assert.Equal(t, kind, infos[i].Kind)
		assert.NotEmpty(t, infos[i].Description)
	}
}

func TestHistoryDelegation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateRequest{Spec: sim.NewUniform(0, 1), N: 10, Seed: seedPtr(1)})
	require.NoError(t, err)
	_, err = svc.RunExperiment(ctx, ExperimentRequest{
		Kind:   sim.KindRuin,
		Config: sim.ExperimentConfig{Sims: 50, Seed: seedPtr(2)},
	})
	require.NoError(t, err)

	all, err := svc.History(ctx, ports.RunFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first: the experiment ran after the generate.
	assert.Equal(t, sim.RunExperiment, all[0].Kind)
	assert.Equal(t, sim.RunGenerate, all[1].Kind)

	generates, err := svc.History(ctx, ports.RunFilters{Kind: sim.RunGenerate})
	require.NoError(t, err)
	require.Len(t, generates, 1)

	got, err := svc.HistoryRun(ctx, generates[0].ID)
	require.NoError(t, err)
	assert.Equal(t, generates[0].Fingerprint, got.Fingerprint)

	_, err = svc.HistoryRun(ctx, core.RunID("no-such-run"))
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}
