package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"simlab/app"
	"simlab/domain/sim"
	"simlab/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "simlab-cli",
		Short:         "One-shot simulation runs from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newFitCmd(),
		newExperimentCmd(),
		newExperimentsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		family string
		low    float64
		high   float64
		mean   float64
		sd     float64
		rate   float64
		prob   float64
		trials int
		n      int
		seed   int64
		full   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Draw a sample from a distribution family",
		Long: `Draw a deterministic sample and print its summary statistics.

Example: simlab-cli generate --family normal --mean 10 --sd 2 --n 1000 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := specFromFlags(family, low, high, mean, sd, rate, prob, trials)
			if err != nil {
				return err
			}

			req := app.GenerateRequest{Spec: spec, N: n}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			result, err := newKitService().Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Printf("%s  n=%d  seed=%d  fingerprint=%s\n",
				result.Spec, len(result.Sample), result.Seed, result.Fingerprint)
			if !full {
				// The sample itself is usually noise on a terminal.
				result.Sample = nil
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&family, "family", "", "distribution family (uniform, exponential, normal, bernoulli, binomial, poisson)")
	cmd.Flags().Float64Var(&low, "low", 0, "uniform lower bound")
	cmd.Flags().Float64Var(&high, "high", 1, "uniform upper bound")
	cmd.Flags().Float64Var(&mean, "mean", 0, "normal mean")
	cmd.Flags().Float64Var(&sd, "sd", 1, "normal standard deviation")
	cmd.Flags().Float64Var(&rate, "rate", 1, "exponential or poisson rate")
	cmd.Flags().Float64Var(&prob, "prob", 0.5, "bernoulli or binomial success probability")
	cmd.Flags().IntVar(&trials, "trials", 10, "binomial trial count")
	cmd.Flags().IntVar(&n, "n", 100, "sample size")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a reproducible run (omit to derive one)")
	cmd.Flags().BoolVar(&full, "full", false, "include the raw sample values in the output")
	_ = cmd.MarkFlagRequired("family")

	return cmd
}

func newFitCmd() *cobra.Command {
	var (
		file   string
		column string
		target string
		alpha  float64
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Test a file column against a distribution family",
		Long: `Load one numeric column from a CSV or Excel file and run the
goodness-of-fit battery against the target family.

Example: simlab-cli fit --file measurements.csv --column weight --target normal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := newKitService()

			loaded, err := svc.LoadSample(cmd.Context(), file, column)
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d values from %s (%d cells skipped)\n",
				len(loaded.Values), loaded.Source, loaded.Skipped)

			result, err := svc.FitTest(cmd.Context(), app.FitRequest{
				Sample: loaded.Values,
				Target: sim.Distribution(target),
				Alpha:  alpha,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Verdict: %s (KS p=%.4f, chi-square p=%.4f at alpha %g)\n",
				result.Verdict, result.KS.PValue, result.ChiSquare.PValue, result.Alpha)
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV or Excel file to read")
	cmd.Flags().StringVar(&column, "column", "", "column header (defaults to the first column)")
	cmd.Flags().StringVar(&target, "target", "", "family to test against (normal, exponential, uniform, poisson)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "significance level (0 selects the default)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newExperimentCmd() *cobra.Command {
	var cfg sim.ExperimentConfig
	var seed int64

	cmd := &cobra.Command{
		Use:   "experiment [kind]",
		Short: "Run one Monte Carlo scenario",
		Long: `Run a scenario and print its trace and result. Flags the scenario
does not use are ignored; zero values select the scenario defaults.

Example: simlab-cli experiment pi --iterations 100000 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				cfg.Seed = &seed
			}

			out, err := newKitService().RunExperiment(cmd.Context(), app.ExperimentRequest{
				Kind:   sim.ExperimentKind(args[0]),
				Config: cfg,
			})
			if err != nil {
				return err
			}

			fmt.Println(strings.Join(out.Trace, "\n"))
			fmt.Printf("\n📊 estimate=%v  seed=%d  draws=%d\n",
				out.Result.Estimate, out.Result.Seed, out.Result.Draws)
			return printJSON(out.Result)
		},
	}

	cmd.Flags().IntVar(&cfg.Iterations, "iterations", 0, "points or rounds (pi, integral)")
	cmd.Flags().IntVar(&cfg.Sims, "sims", 0, "simulation count (ruin, queue, inventory, power)")
	cmd.Flags().Float64Var(&cfg.Capital, "capital", 0, "starting capital (ruin)")
	cmd.Flags().Float64Var(&cfg.Bet, "bet", 0, "bet size (ruin)")
	cmd.Flags().Float64Var(&cfg.WinProb, "win-prob", 0, "per-round win probability (ruin)")
	cmd.Flags().Float64Var(&cfg.ArrivalRate, "arrival-rate", 0, "customers per hour (queue)")
	cmd.Flags().Float64Var(&cfg.ServiceTime, "service-time", 0, "minutes per customer (queue)")
	cmd.Flags().StringVar(&cfg.Expression, "expression", "", "f(x) to integrate over [0,1] (integral)")
	cmd.Flags().Float64Var(&cfg.MeanDemand, "mean-demand", 0, "average daily demand (inventory)")
	cmd.Flags().Float64Var(&cfg.UnitCost, "unit-cost", 0, "cost per unit (inventory)")
	cmd.Flags().Float64Var(&cfg.OrderCost, "order-cost", 0, "fixed cost per order (inventory)")
	cmd.Flags().Float64Var(&cfg.Mu0, "mu0", 0, "null hypothesis mean (power)")
	cmd.Flags().Float64Var(&cfg.Sigma, "sigma", 0, "population standard deviation (power)")
	cmd.Flags().IntVar(&cfg.SampleN, "sample-n", 0, "per-test sample size (power)")
	cmd.Flags().Float64Var(&cfg.Alpha, "alpha", 0, "significance level (power)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a reproducible run (omit to derive one)")

	return cmd
}

func newExperimentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "experiments",
		Short: "List the available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(newKitService().Experiments())
		},
	}
}

// newKitService wires the in-memory stack; one-shot runs have no use
// for persistent history.
func newKitService() *app.WorkbenchService {
	return testkit.NewTestKit().Service()
}

func specFromFlags(family string, low, high, mean, sd, rate, prob float64, trials int) (sim.DistributionSpec, error) {
	switch sim.Distribution(family) {
	case sim.Uniform:
		return sim.NewUniform(low, high), nil
	case sim.Exponential:
		return sim.NewExponential(rate), nil
	case sim.Normal:
		return sim.NewNormal(mean, sd), nil
	case sim.Bernoulli:
		return sim.NewBernoulli(prob), nil
	case sim.Binomial:
		return sim.NewBinomial(trials, prob), nil
	case sim.Poisson:
		return sim.NewPoisson(rate), nil
	default:
		return sim.DistributionSpec{}, fmt.Errorf("unknown family %q", family)
	}
}

func printJSON(v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
