package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/cart-parser/internal/validation"
)

// writeTemplate saves a single-sheet workbook with the given rows.
func writeTemplate(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("Failed to create sheet: %v", err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("Failed to delete default sheet: %v", err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("Failed to build cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("Failed to set cell %s: %v", cell, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "template.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func TestLoadSchema(t *testing.T) {
	path := writeTemplate(t, "Sheet1", [][]string{
		{"Column Name", "Data Type"},
		{"sku", "text"},
		{"name", "string"},
		{},
		{"price", "decimal"},
		{"quantity", "integer"},
	})

	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("LoadSchema failed: %v", err)
	}

	want := []string{"sku", "name", "price", "quantity"}
	got := schema.Header()
	if len(got) != len(want) {
		t.Fatalf("Expected %d columns, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Column %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if schema.Columns[2].DataType != validation.TypeDecimal {
		t.Errorf("Expected price to be decimal, got %s", schema.Columns[2].DataType)
	}
	if msg := schema.Columns[3].Validate("0"); msg == "" {
		t.Errorf("Expected quantity 0 to be rejected")
	}
}

func TestLoadSchemaFromSheet(t *testing.T) {
	path := writeTemplate(t, "Cart", [][]string{
		{"Column Name", "Data Type"},
		{"name", "string"},
		{"price", "decimal"},
		{"quantity", "integer"},
	})

	schema, err := LoadSchemaFromSheet(path, "Cart", DefaultTemplateColumns())
	if err != nil {
		t.Fatalf("LoadSchemaFromSheet failed: %v", err)
	}
	if schema.Len() != 3 {
		t.Errorf("Expected 3 columns, got %d", schema.Len())
	}
}

func TestLoadSchema_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{"no columns", [][]string{{"Column Name", "Data Type"}}},
		{"unknown type", [][]string{{"Column Name", "Data Type"}, {"name", "date"}}},
		{"duplicate column", [][]string{{"Column Name", "Data Type"}, {"name", "string"}, {"name", "string"}}},
		{"missing name", [][]string{{"Column Name", "Data Type"}, {"", "string"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemplate(t, "Sheet1", tt.rows)
			if _, err := LoadSchema(path); err == nil {
				t.Errorf("Expected an error")
			}
		})
	}
}

func TestLoadSchema_MissingFile(t *testing.T) {
	if _, err := LoadSchema(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Errorf("Expected an error for a missing template")
	}
}
