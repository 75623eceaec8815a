package app

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"simlab/domain/sim"
	"simlab/internal"
	"simlab/internal/errors"
)

const (
	defaultBatchWorkers = 4
	maxBatchRuns        = 256
)

// BatchRequest runs the same experiment kind over a list of configurations,
// one run per entry. Each entry resolves its own seed.
type BatchRequest struct {
	Kind    sim.ExperimentKind     `json:"kind"`
	Configs []sim.ExperimentConfig `json:"configs"`
	Label   string                 `json:"label,omitempty"`
}

// BatchItem is the outcome of a single entry. Exactly one of Output and
// Error is set.
type BatchItem struct {
	Index  int            `json:"index"`
	Output *sim.RunOutput `json:"output,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// BatchResult holds the per-entry outcomes in request order.
type BatchResult struct {
	Kind      sim.ExperimentKind `json:"kind"`
	Items     []BatchItem        `json:"items"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	RuntimeMs int64              `json:"runtime_ms"`
}

// BatchRunner fans a batch of experiment runs over a bounded worker pool.
// Results come back in request order regardless of completion order.
type BatchRunner struct {
	service *WorkbenchService
	sem     *semaphore.Weighted
	workers int
	log     *internal.Logger
}

// NewBatchRunner creates a runner with the given concurrency. workers <= 0
// selects the default.
func NewBatchRunner(service *WorkbenchService, workers int, logger *internal.Logger) *BatchRunner {
	if workers <= 0 {
		workers = defaultBatchWorkers
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &BatchRunner{
		service: service,
		sem:     semaphore.NewWeighted(int64(workers)),
		workers: workers,
		log:     logger.WithTag("Batch"),
	}
}

// Run executes every configuration in the request. A failed entry records
// its error and the rest of the batch keeps going; only a cancelled context
// stops dispatch early, and entries never dispatched report the context
// error.
func (b *BatchRunner) Run(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if len(req.Configs) == 0 {
		return nil, errors.InvalidParameter("configs", "at least one configuration is required")
	}
	if len(req.Configs) > maxBatchRuns {
		return nil, errors.InvalidParameterf("configs", "at most %d configurations per batch, got %d", maxBatchRuns, len(req.Configs))
	}

	start := time.Now()
	items := make([]BatchItem, len(req.Configs))

	var wg sync.WaitGroup
	for i, cfg := range req.Configs {
		if err := b.sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(req.Configs); j++ {
				items[j] = BatchItem{Index: j, Error: err.Error()}
			}
			break
		}
		wg.Add(1)
		go func(idx int, cfg sim.ExperimentConfig) {
			defer wg.Done()
			defer b.sem.Release(1)

			out, err := b.service.RunExperiment(ctx, ExperimentRequest{
				Kind:   req.Kind,
				Config: cfg,
				Label:  req.Label,
			})
			if err != nil {
				items[idx] = BatchItem{Index: idx, Error: err.Error()}
				return
			}
			items[idx] = BatchItem{Index: idx, Output: out}
		}(i, cfg)
	}
	wg.Wait()

	result := &BatchResult{
		Kind:      req.Kind,
		Items:     items,
		RuntimeMs: time.Since(start).Milliseconds(),
	}
	for _, item := range items {
		if item.Error == "" {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	b.log.Info("batch %s finished: %d ok, %d failed in %dms", req.Kind, result.Succeeded, result.Failed, result.RuntimeMs)
	return result, nil
}
