package ports

import (
	"context"

	"simlab/domain/core"
	"simlab/domain/sim"
)

// RunFilters narrows history listings.
type RunFilters struct {
	Kind   sim.RunKind // empty matches every kind
	Limit  int         // 0 means the adapter default
	Offset int
}

// HistoryRepository records every workbench call so a run can be found and
// replayed later. The simulation core never touches it; recording happens
// in the app layer around the core.
type HistoryRepository interface {
	// SaveRun appends one run record.
	SaveRun(ctx context.Context, record *sim.RunRecord) error

	// GetRun retrieves a record by identifier, core.ErrRunNotFound when missing.
	GetRun(ctx context.Context, id core.RunID) (*sim.RunRecord, error)

	// ListRuns returns matching records newest first.
	ListRuns(ctx context.Context, filters RunFilters) ([]sim.RunRecord, error)

	// CountRuns reports how many records match the kind filter.
	CountRuns(ctx context.Context, kind sim.RunKind) (int, error)
}
