// Package testkit wires a complete workbench stack against in-memory
// history so tests and the dev command get a working service without a
// database or the HTTP layer.
package testkit

import (
	"simlab/adapters/history"
	"simlab/adapters/sampleio"
	"simlab/app"
	"simlab/internal"
	"simlab/internal/experiment"
	"simlab/internal/fit"
)

// TestKit holds the pre-wired stack. Every component is the real one;
// only the history store is swapped for memory.
type TestKit struct {
	history *history.MemoryRepository
	service *app.WorkbenchService
	runner  *app.BatchRunner
}

// NewTestKit builds the stack with default bounds and two batch workers.
func NewTestKit() *TestKit {
	repo := history.NewMemoryRepository(200)
	svc := app.NewWorkbenchService(
		experiment.NewEngine(0),
		fit.NewBattery(),
		repo,
		sampleio.NewLoader(0),
		app.Options{},
		internal.DefaultLogger,
	)
	return &TestKit{
		history: repo,
		service: svc,
		runner:  app.NewBatchRunner(svc, 2, internal.DefaultLogger),
	}
}

// Service returns the wired workbench service.
func (k *TestKit) Service() *app.WorkbenchService { return k.service }

// Runner returns the wired batch runner.
func (k *TestKit) Runner() *app.BatchRunner { return k.runner }

// History returns the in-memory store behind the service, for asserting
// on recorded runs.
func (k *TestKit) History() *history.MemoryRepository { return k.history }
