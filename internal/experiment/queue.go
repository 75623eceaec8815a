package experiment

import (
	"context"
	"math"

	"github.com/montanaflynn/stats"

	"simlab/domain/sim"
	"simlab/internal/errors"
	"simlab/internal/rng"
)

const (
	defaultQueueRate    = 30.0
	defaultQueueService = 2.0
	defaultQueueSims    = 1000
)

// QueueExperiment simulates a single-server queue for one hour's worth of
// arrivals per run and pools the waiting times across runs.
type QueueExperiment struct{}

func NewQueueExperiment() *QueueExperiment {
	return &QueueExperiment{}
}

func (q *QueueExperiment) Kind() sim.ExperimentKind { return sim.KindQueue }

func (q *QueueExperiment) Description() string {
	return "Simulate a single-server queue with jittered arrivals and fixed service time, and report waiting-time statistics."
}

func (q *QueueExperiment) Run(ctx context.Context, gen *rng.Generator, cfg sim.ExperimentConfig) (*sim.RunOutput, error) {
	rate := cfg.ArrivalRate
	if rate == 0 {
		rate = defaultQueueRate
	}
	service := cfg.ServiceTime
	if service == 0 {
		service = defaultQueueService
	}
	sims := cfg.Sims
	if sims == 0 {
		sims = defaultQueueSims
	}

	if rate < 1 {
		return nil, errors.InvalidParameterf("arrival_rate", "must be at least 1 customer per hour, got %g", rate)
	}
	if service <= 0 {
		return nil, errors.InvalidParameterf("service_time", "must be positive, got %g", service)
	}
	if sims < 1 {
		return nil, errors.InvalidParameterf("sims", "must be at least 1, got %d", sims)
	}

	customers := int(rate)
	interval := 60 / rate

	waits := make([]float64, 0, sims*customers)
	inSystemTotal := 0.0
	for s := 0; s < sims; s++ {
		arrival := 0.0
		departures := make([]float64, 0, customers)
		for c := 0; c < customers; c++ {
			arrival += interval + gen.Next()*2
			prevDeparture := 0.0
			if len(departures) > 0 {
				prevDeparture = departures[len(departures)-1]
			}
			start := math.Max(arrival, prevDeparture)
			waits = append(waits, start-arrival)

			// Departures are strictly increasing, so walking back from the
			// newest one counts everybody still in the shop at this arrival.
			inSystem := 0
			for i := len(departures) - 1; i >= 0; i-- {
				if departures[i] <= arrival {
					break
				}
				inSystem++
			}
			inSystemTotal += float64(inSystem)

			departures = append(departures, start+service)
		}
	}

	data := stats.Float64Data(waits)
	meanWait, _ := data.Mean()
	maxWait, _ := data.Max()
	p90, _ := data.Percentile(90)

	return &sim.RunOutput{
		Trace: []string{
			"Schedule one hour of arrivals with jitter on top of the nominal spacing.",
			"Serve customers in order; each waits until the previous departure if the server is busy.",
			"Pool the waiting times across all simulated hours.",
		},
		Result: sim.ExperimentResult{
			Estimate: meanWait,
			Metrics: map[string]float64{
				"arrival_rate":   rate,
				"service_time":   service,
				"sims":           float64(sims),
				"customers":      float64(customers),
				"mean_wait":      meanWait,
				"max_wait":       maxWait,
				"p90_wait":       p90,
				"utilization":    rate * service / 60,
				"mean_in_system": inSystemTotal / float64(len(waits)),
			},
		},
	}, nil
}
