// =============================================================================
// Cart Parser - XLSX Schema Template Parser
// =============================================================================
//
// This module reads XLSX template files that define the column schema a cart
// CSV must follow. A template replaces the built-in `name,price,quantity`
// layout when a department exports extra columns or a different order.
//
// TEMPLATE STRUCTURE (Expected Columns):
//   Column positions are configurable via the TemplateColumns struct.
//
//   | Column A    | Column B  |
//   |-------------|-----------|
//   | Column Name | Data Type |
//   | sku         | string    |
//   | name        | string    |
//   | price       | decimal   |
//   | quantity    | integer   |
//
//   Rows are read in order; that order is the expected CSV column order.
//   The template must define the name, price and quantity columns.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/cart-parser/internal/validation"
)

// =============================================================================
// TEMPLATE COLUMNS
// =============================================================================

// TemplateColumns defines which sheet columns hold each piece of the schema.
// Indices are 0-based.
type TemplateColumns struct {
	// NameColumn holds the CSV header name.
	NameColumn int

	// DataTypeColumn holds the data type (string, decimal, integer).
	DataTypeColumn int

	// DataStartRow is the first schema row (0-based).
	// Default: 1 (Row 2, after the template header)
	DataStartRow int
}

// DefaultTemplateColumns returns the default column configuration.
func DefaultTemplateColumns() TemplateColumns {
	return TemplateColumns{
		NameColumn:     0, // Column A
		DataTypeColumn: 1, // Column B
		DataStartRow:   1, // Row 2
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// LoadSchema reads the first sheet of an XLSX template and builds the column
// schema.
//
// PARAMETERS:
//   - templatePath: The path to the XLSX template file.
//
// RETURNS:
//   - The schema, columns in template row order.
//   - An error if the file cannot be read or defines no valid columns.
func LoadSchema(templatePath string) (validation.Schema, error) {
	return LoadSchemaFromSheet(templatePath, "", DefaultTemplateColumns())
}

// LoadSchemaFromSheet reads a named sheet using a custom column configuration.
// An empty sheetName selects the first sheet.
func LoadSchemaFromSheet(templatePath, sheetName string, columns TemplateColumns) (validation.Schema, error) {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return validation.Schema{}, fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return validation.Schema{}, fmt.Errorf("template file has no sheets")
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return validation.Schema{}, fmt.Errorf("failed to read rows: %w", err)
	}

	var names []string
	var dataTypes []validation.DataType
	seen := make(map[string]bool)

	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]

		if isRowEmpty(row) {
			continue
		}

		name := getCell(row, columns.NameColumn)
		if name == "" {
			return validation.Schema{}, fmt.Errorf("row %d: column name is empty", i+1)
		}
		if seen[name] {
			return validation.Schema{}, fmt.Errorf("row %d: duplicate column %q", i+1, name)
		}
		seen[name] = true

		dataType, err := validation.ParseDataType(getCell(row, columns.DataTypeColumn))
		if err != nil {
			return validation.Schema{}, fmt.Errorf("row %d: %w", i+1, err)
		}

		names = append(names, name)
		dataTypes = append(dataTypes, dataType)
	}

	if len(names) == 0 {
		return validation.Schema{}, fmt.Errorf("template %s defines no columns", templatePath)
	}

	return validation.NewSchema(names, dataTypes)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// getCell safely returns a trimmed cell value.
func getCell(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
