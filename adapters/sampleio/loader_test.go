package sampleio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"simlab/internal/errors"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func writeXLSX(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"weight", "batch"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
	}
	rows := [][]interface{}{
		{12.5, "a"},
		{13.25, "b"},
		{"n/a", "c"},
		{14.0, "d"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("writing fixture: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "weights.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving fixture: %v", err)
	}
	return path
}

func TestLoadCSVFirstColumn(t *testing.T) {
	path := writeCSV(t, "sample.csv", "value,city\n1.5,lima\n2.25,cusco\nabc,trujillo\n,arequipa\n3e2,puno\nNaN,tacna\n")

	loader := NewLoader(0)
	loaded, err := loader.LoadColumn(context.Background(), path, "")
	if err != nil {
		t.Fatalf("LoadColumn failed: %v", err)
	}

	want := []float64{1.5, 2.25, 300}
	if len(loaded.Values) != len(want) {
		t.Fatalf("Expected %d values, got %d: %v", len(want), len(loaded.Values), loaded.Values)
	}
	for i, v := range want {
		if loaded.Values[i] != v {
			t.Errorf("Expected value %v at %d, got %v", v, i, loaded.Values[i])
		}
	}
	// "abc", the empty cell, and "NaN" are all skipped.
	if loaded.Skipped != 3 {
		t.Errorf("Expected 3 skipped cells, got %d", loaded.Skipped)
	}
	if loaded.Source != "sample.csv" {
		t.Errorf("Expected the file name as source, got %q", loaded.Source)
	}
}

func TestLoadCSVNamedColumn(t *testing.T) {
	path := writeCSV(t, "sample.csv", "id,Price\n1,10.5\n2,11\n3,12.5\n")

	loader := NewLoader(0)
	loaded, err := loader.LoadColumn(context.Background(), path, "price")
	if err != nil {
		t.Fatalf("LoadColumn failed: %v", err)
	}
	if len(loaded.Values) != 3 || loaded.Values[0] != 10.5 || loaded.Values[2] != 12.5 {
		t.Errorf("Expected the price column, got %v", loaded.Values)
	}
	if loaded.Skipped != 0 {
		t.Errorf("Expected no skipped cells, got %d", loaded.Skipped)
	}
}

func TestLoadExcelColumn(t *testing.T) {
	path := writeXLSX(t)

	loader := NewLoader(0)
	loaded, err := loader.LoadColumn(context.Background(), path, "weight")
	if err != nil {
		t.Fatalf("LoadColumn failed: %v", err)
	}
	want := []float64{12.5, 13.25, 14}
	if len(loaded.Values) != len(want) {
		t.Fatalf("Expected %d values, got %d: %v", len(want), len(loaded.Values), loaded.Values)
	}
	for i, v := range want {
		if loaded.Values[i] != v {
			t.Errorf("Expected value %v at %d, got %v", v, i, loaded.Values[i])
		}
	}
	if loaded.Skipped != 1 {
		t.Errorf("Expected 1 skipped cell, got %d", loaded.Skipped)
	}
}

func TestLoadColumnErrors(t *testing.T) {
	loader := NewLoader(0)
	ctx := context.Background()

	cases := []struct {
		name  string
		path  string
		col   string
		param string
	}{
		{"missing file", filepath.Join(t.TempDir(), "absent.csv"), "", "path"},
		{"unsupported extension", writeCSV(t, "data.txt", "a\n1\n"), "", "path"},
		{"unknown column", writeCSV(t, "d.csv", "a,b\n1,2\n"), "c", "column"},
		{"no numeric values", writeCSV(t, "d.csv", "a\nx\ny\n"), "", "column"},
		{"header only", writeCSV(t, "d.csv", "a,b\n"), "", "path"},
	}
	for _, c := range cases {
		_, err := loader.LoadColumn(ctx, c.path, c.col)
		if err == nil {
			t.Errorf("%s: expected an error", c.name)
			continue
		}
		appErr, ok := err.(*errors.AppError)
		if !ok {
			t.Errorf("%s: expected an AppError, got %T", c.name, err)
			continue
		}
		if appErr.Param != c.param {
			t.Errorf("%s: expected param %s, got %q", c.name, c.param, appErr.Param)
		}
	}
}

func TestLoadTooManyColumns(t *testing.T) {
	path := writeCSV(t, "wide.csv", "a,b,c\n1,2,3\n")
	loader := NewLoader(2)
	_, err := loader.LoadColumn(context.Background(), path, "")
	if err == nil {
		t.Fatal("Expected the column cap to be enforced")
	}
}
