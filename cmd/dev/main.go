package main

import (
	"context"
	"fmt"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"simlab/app"
	"simlab/domain/sim"
	"simlab/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simlab-dev",
		Short: "Development checks for the simulation engine",
	}

	rootCmd.AddCommand(
		newSmokeCmd(),
		newDeterminismCmd(),
		newFixturesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSmokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Run every scenario once with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmoke(cmd.Context())
		},
	}
}

func newDeterminismCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "determinism",
		Short: "Verify that repeated seeded runs are identical",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeterminism(cmd.Context(), seed)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 42, "seed to replay")
	return cmd
}

func newFixturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "Check the fixture samples against their known verdicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixtures(cmd.Context())
		},
	}
}

func runSmoke(ctx context.Context) error {
	svc := testkit.NewTestKit().Service()
	seed := int64(42)

	gen, err := svc.Generate(ctx, app.GenerateRequest{
		Spec: sim.NewNormal(10, 2),
		N:    1000,
		Seed: &seed,
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	fmt.Printf("generate %s: mean=%.4f sd=%.4f\n", gen.Spec, gen.Stats.Mean, gen.Stats.StdDev)

	fit, err := svc.FitTest(ctx, app.FitRequest{Sample: gen.Sample, Target: sim.Normal})
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	fmt.Printf("fit normal: %s\n", fit.Verdict)

	for _, kind := range sim.ExperimentKinds() {
		out, err := svc.RunExperiment(ctx, app.ExperimentRequest{
			Kind:   kind,
			Config: sim.ExperimentConfig{Seed: &seed},
		})
		if err != nil {
			return fmt.Errorf("experiment %s: %w", kind, err)
		}
		fmt.Printf("experiment %-9s estimate=%-12v draws=%d\n", kind, out.Result.Estimate, out.Result.Draws)
	}

	fmt.Println("smoke: all operations succeeded")
	return nil
}

func runDeterminism(ctx context.Context, seed int64) error {
	svc := testkit.NewTestKit().Service()
	failed := 0

	first, err := svc.Generate(ctx, app.GenerateRequest{Spec: sim.NewNormal(0, 1), N: 5000, Seed: &seed})
	if err != nil {
		return err
	}
	second, err := svc.Generate(ctx, app.GenerateRequest{Spec: sim.NewNormal(0, 1), N: 5000, Seed: &seed})
	if err != nil {
		return err
	}
	if first.Fingerprint != second.Fingerprint {
		fmt.Printf("FAIL generate: fingerprints diverged (%s vs %s)\n", first.Fingerprint, second.Fingerprint)
		failed++
	} else {
		fmt.Printf("ok   generate: fingerprint %s\n", first.Fingerprint)
	}

	for _, kind := range sim.ExperimentKinds() {
		cfg := sim.ExperimentConfig{Seed: &seed}
		a, err := svc.RunExperiment(ctx, app.ExperimentRequest{Kind: kind, Config: cfg})
		if err != nil {
			return fmt.Errorf("experiment %s: %w", kind, err)
		}
		b, err := svc.RunExperiment(ctx, app.ExperimentRequest{Kind: kind, Config: cfg})
		if err != nil {
			return fmt.Errorf("experiment %s: %w", kind, err)
		}
		if !reflect.DeepEqual(a.Result, b.Result) {
			fmt.Printf("FAIL %s: results diverged on seed %d\n", kind, seed)
			failed++
		} else {
			fmt.Printf("ok   %-9s estimate=%v\n", kind, a.Result.Estimate)
		}
	}

	if failed > 0 {
		return fmt.Errorf("determinism check failed for %d operations", failed)
	}
	fmt.Println("determinism: all runs replay exactly")
	return nil
}

func runFixtures(ctx context.Context) error {
	svc := testkit.NewTestKit().Service()

	fixtures, err := testkit.Fixtures()
	if err != nil {
		return err
	}

	failed := 0
	for _, f := range fixtures {
		result, err := svc.FitTest(ctx, app.FitRequest{
			Sample: f.Sample,
			Target: f.Target,
			Alpha:  0.05,
		})
		if err != nil {
			return fmt.Errorf("fixture %s: %w", f.Name, err)
		}
		mark := "ok  "
		if result.Verdict != f.Verdict {
			mark = "FAIL"
			failed++
		}
		fmt.Printf("%s %-26s vs %-12s verdict=%s want=%s\n", mark, f.Name, f.Target, result.Verdict, f.Verdict)
	}

	if failed > 0 {
		return fmt.Errorf("%d fixtures off their known verdicts", failed)
	}
	return nil
}
