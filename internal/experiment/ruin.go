package experiment

import (
	"context"
	"math"

	"simlab/domain/sim"
	"simlab/internal/errors"
	"simlab/internal/rng"
)

const (
	defaultRuinCapital = 100.0
	defaultRuinBet     = 1.0
	defaultRuinProb    = 0.5
	defaultRuinSims    = 1000

	// maxRuinRounds cuts off gamblers that neither bust nor walk away.
	maxRuinRounds = 10000
)

// RuinExperiment plays repeated fixed-stake games until the bankroll is gone
// or the round cap is hit, and reports the fraction of ruined gamblers.
type RuinExperiment struct{}

func NewRuinExperiment() *RuinExperiment {
	return &RuinExperiment{}
}

func (r *RuinExperiment) Kind() sim.ExperimentKind { return sim.KindRuin }

func (r *RuinExperiment) Description() string {
	return "Simulate a gambler betting a fixed stake each round and estimate the probability of losing the whole bankroll."
}

func (r *RuinExperiment) Run(ctx context.Context, gen *rng.Generator, cfg sim.ExperimentConfig) (*sim.RunOutput, error) {
	capital := cfg.Capital
	if capital == 0 {
		capital = defaultRuinCapital
	}
	bet := cfg.Bet
	if bet == 0 {
		bet = defaultRuinBet
	}
	winProb := cfg.WinProb
	if winProb == 0 {
		winProb = defaultRuinProb
	}
	sims := cfg.Sims
	if sims == 0 {
		sims = defaultRuinSims
	}

	if capital <= 0 {
		return nil, errors.InvalidParameterf("capital", "must be positive, got %g", capital)
	}
	if bet <= 0 {
		return nil, errors.InvalidParameterf("bet", "must be positive, got %g", bet)
	}
	if winProb < 0 || winProb > 1 {
		return nil, errors.InvalidParameterf("win_prob", "must lie in [0, 1], got %g", winProb)
	}
	if sims < 1 {
		return nil, errors.InvalidParameterf("sims", "must be at least 1, got %d", sims)
	}

	ruined, meanFinal, maxFinal, meanRounds := runRuin(gen, capital, bet, winProb, sims, maxRuinRounds)
	estimate := float64(ruined) / float64(sims)

	return &sim.RunOutput{
		Trace: []string{
			"Start each gambler with the full bankroll.",
			"Each round, win the stake with the given probability, otherwise lose it.",
			"Stop when the bankroll is exhausted or the round cap is reached.",
			"The ruin probability is the fraction of gamblers who went broke.",
		},
		Result: sim.ExperimentResult{
			Estimate: estimate,
			Metrics: map[string]float64{
				"capital":            capital,
				"bet":                bet,
				"win_prob":           winProb,
				"sims":               float64(sims),
				"ruined":             float64(ruined),
				"mean_final_capital": meanFinal,
				"max_final_capital":  maxFinal,
				"mean_rounds":        meanRounds,
				"max_rounds":         float64(maxRuinRounds),
			},
		},
	}, nil
}

func runRuin(gen *rng.Generator, capital, bet, winProb float64, sims, maxRounds int) (ruined int, meanFinal, maxFinal, meanRounds float64) {
	totalFinal := 0.0
	totalRounds := 0
	maxFinal = math.Inf(-1)
	for s := 0; s < sims; s++ {
		balance := capital
		rounds := 0
		for balance > 0 && rounds < maxRounds {
			if gen.Next() < winProb {
				balance += bet
			} else {
				balance -= bet
			}
			rounds++
		}
		if balance <= 0 {
			ruined++
		}
		totalFinal += balance
		totalRounds += rounds
		if balance > maxFinal {
			maxFinal = balance
		}
	}
	return ruined, totalFinal / float64(sims), maxFinal, float64(totalRounds) / float64(sims)
}
