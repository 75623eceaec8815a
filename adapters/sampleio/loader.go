// Package sampleio loads numeric sample columns from CSV and Excel files so
// externally collected data can be run through the fit battery.
package sampleio

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"simlab/domain/sim"
	"simlab/internal/errors"
	"simlab/ports"
)

const defaultMaxColumns = 64

// Loader reads one numeric column from a CSV or Excel file. Files need a
// header row; cells that do not parse as finite numbers are skipped and
// counted rather than failing the load.
type Loader struct {
	maxColumns int
}

// NewLoader creates a loader that refuses files wider than maxColumns;
// maxColumns <= 0 selects the default.
func NewLoader(maxColumns int) *Loader {
	if maxColumns <= 0 {
		maxColumns = defaultMaxColumns
	}
	return &Loader{maxColumns: maxColumns}
}

// LoadColumn reads the named column from the file at path. An empty column
// name selects the first column.
func (l *Loader) LoadColumn(ctx context.Context, path, column string) (*ports.LoadedSample, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidParameter("path", "must not be empty")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.InvalidParameterf("path", "file not found: %s", path)
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		rows, err = readExcelRows(path)
	default:
		return nil, errors.InvalidParameterf("path", "unsupported file type %q, expected .csv or .xlsx", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	loaded, err := l.extractColumn(rows, column)
	if err != nil {
		return nil, err
	}
	loaded.Source = filepath.Base(path)
	log.Printf("[SampleLoader] %s: loaded %d values from column %q (%d skipped)",
		loaded.Source, len(loaded.Values), column, loaded.Skipped)
	return loaded, nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func (l *Loader) extractColumn(rows [][]string, column string) (*ports.LoadedSample, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidParameter("path", "file needs a header row and at least one data row")
	}

	headers := rows[0]
	if len(headers) > l.maxColumns {
		return nil, errors.InvalidParameterf("path", "file has %d columns, the loader accepts at most %d", len(headers), l.maxColumns)
	}

	idx := 0
	if strings.TrimSpace(column) != "" {
		idx = -1
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(column)) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, errors.InvalidParameterf("column", "no column named %q, file has: %s", column, strings.Join(trimmed(headers), ", "))
		}
	}

	values := make(sim.Sample, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		cell := ""
		if idx < len(row) {
			cell = strings.TrimSpace(row[idx])
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			skipped++
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, errors.InvalidParameterf("column", "column %q contains no numeric values", headers[idx])
	}

	return &ports.LoadedSample{Values: values, Skipped: skipped}, nil
}

func trimmed(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(h)
	}
	return out
}
