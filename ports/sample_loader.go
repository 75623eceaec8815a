package ports

import (
	"context"

	"simlab/domain/sim"
)

// LoadedSample is the numeric column a loader extracted from one file.
type LoadedSample struct {
	Values  sim.Sample `json:"values"`
	Skipped int        `json:"skipped"` // non-numeric cells dropped along the way
	Source  string     `json:"source"`
}

// SampleLoader pulls a numeric column out of an external file so it can be
// fed to the fit battery.
type SampleLoader interface {
	// LoadColumn reads one column from the file at path, selected by header
	// name; empty selects the first column.
	LoadColumn(ctx context.Context, path, column string) (*LoadedSample, error)
}
