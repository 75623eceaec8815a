// Package history provides the run-history stores behind ports.HistoryRepository:
// a bounded in-memory ring used by default and a PostgreSQL store selected
// when a database is configured.
package history

import (
	"context"
	"fmt"
	"sync"

	"simlab/domain/core"
	"simlab/domain/sim"
	"simlab/ports"
)

const defaultKeep = 500

// MemoryRepository keeps the most recent run records in memory, oldest
// evicted first. Records are copied on the way in and out so callers cannot
// mutate stored history.
type MemoryRepository struct {
	mu      sync.RWMutex
	keep    int
	records []sim.RunRecord // append order, oldest first
	index   map[core.RunID]int
}

// NewMemoryRepository creates a store holding at most keep records; keep <= 0
// selects the default.
func NewMemoryRepository(keep int) *MemoryRepository {
	if keep <= 0 {
		keep = defaultKeep
	}
	return &MemoryRepository{
		keep:  keep,
		index: make(map[core.RunID]int),
	}
}

// SaveRun appends one record, evicting the oldest when the ring is full.
func (r *MemoryRepository) SaveRun(ctx context.Context, record *sim.RunRecord) error {
	if record == nil {
		return fmt.Errorf("history: nil run record")
	}
	if record.ID.String() == "" {
		return fmt.Errorf("history: run record has no id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, *record)
	if overflow := len(r.records) - r.keep; overflow > 0 {
		for _, old := range r.records[:overflow] {
			delete(r.index, old.ID)
		}
		kept := make([]sim.RunRecord, r.keep)
		copy(kept, r.records[overflow:])
		r.records = kept
		for i, rec := range r.records {
			r.index[rec.ID] = i
		}
	} else {
		r.index[record.ID] = len(r.records) - 1
	}
	return nil
}

// GetRun retrieves a record by identifier.
func (r *MemoryRepository) GetRun(ctx context.Context, id core.RunID) (*sim.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, core.NewNotFoundError("run", id.String())
	}
	record := r.records[i]
	return &record, nil
}

// ListRuns returns matching records newest first.
func (r *MemoryRepository) ListRuns(ctx context.Context, filters ports.RunFilters) ([]sim.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filters.Limit
	if limit <= 0 {
		limit = len(r.records)
	}

	var results []sim.RunRecord
	skipped := 0
	for i := len(r.records) - 1; i >= 0 && len(results) < limit; i-- {
		rec := r.records[i]
		if filters.Kind != "" && rec.Kind != filters.Kind {
			continue
		}
		if skipped < filters.Offset {
			skipped++
			continue
		}
		results = append(results, rec)
	}
	return results, nil
}

// CountRuns reports how many stored records match the kind filter.
func (r *MemoryRepository) CountRuns(ctx context.Context, kind sim.RunKind) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if kind == "" {
		return len(r.records), nil
	}
	count := 0
	for _, rec := range r.records {
		if rec.Kind == kind {
			count++
		}
	}
	return count, nil
}
