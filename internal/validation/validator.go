// =============================================================================
// Cart Parser - Validation Engine
// =============================================================================
//
// This module defines the column schema a cart CSV is checked against and
// the cell validators used for each data type.
//
// VALIDATION STRATEGY:
//   A Schema is an ordered list of columns. Each column carries its name,
//   its data type and the validator for that type. The cart parser walks
//   the schema uniformly for every row, so adding a column means adding an
//   entry here rather than a new branch in the parser.
//
// ERROR HANDLING:
//   - Validators never fail; they return a message or the empty string
//   - Messages are the exact text reported to callers
//
// =============================================================================

package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// DATA TYPES
// =============================================================================

// DataType identifies how a cell is validated and converted.
type DataType string

const (
	// TypeString accepts any non-empty text.
	TypeString DataType = "string"

	// TypeDecimal accepts a positive floating point number.
	TypeDecimal DataType = "decimal"

	// TypeInteger accepts a positive whole number.
	TypeInteger DataType = "integer"
)

// ParseDataType normalizes a data type name as written in a schema template.
func ParseDataType(value string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "string", "text", "":
		return TypeString, nil
	case "decimal", "number", "numeric", "float":
		return TypeDecimal, nil
	case "integer", "int":
		return TypeInteger, nil
	default:
		return "", fmt.Errorf("unknown data type %q", value)
	}
}

// =============================================================================
// CELL VALIDATORS
// =============================================================================

// CellValidator checks a single trimmed cell value.
// It returns an error message if validation fails, empty string if valid.
type CellValidator func(value string) string

// ValidateNonEmptyString requires a non-empty value.
func ValidateNonEmptyString(value string) string {
	if value == "" {
		return fmt.Sprintf("Expected cell to be a nonempty string but received %q.", value)
	}
	return ""
}

// ValidatePositiveNumber requires a finite number strictly greater than zero.
// NaN and infinities are rejected.
func ValidatePositiveNumber(value string) string {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return fmt.Sprintf("Expected cell to be a positive number but received %q.", value)
	}
	return ""
}

// ValidatePositiveInteger requires a whole number strictly greater than zero.
func ValidatePositiveInteger(value string) string {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Sprintf("Expected cell to be a positive integer but received %q.", value)
	}
	return ""
}

// ValidatorFor returns the validator for a data type.
// Unknown types fall back to the string validator.
func ValidatorFor(dataType DataType) CellValidator {
	switch dataType {
	case TypeDecimal:
		return ValidatePositiveNumber
	case TypeInteger:
		return ValidatePositiveInteger
	default:
		return ValidateNonEmptyString
	}
}

// =============================================================================
// SCHEMA
// =============================================================================

// Column describes one CSV column.
type Column struct {
	// Name is the expected header text for this column.
	Name string

	// DataType is the declared type of the column's cells.
	DataType DataType

	// Validator checks each cell. When nil, the validator for DataType is used.
	Validator CellValidator
}

// Validate runs the column's validator against a cell value.
func (c Column) Validate(value string) string {
	if c.Validator != nil {
		return c.Validator(value)
	}
	return ValidatorFor(c.DataType)(value)
}

// Schema is the ordered set of columns a cart CSV must follow.
type Schema struct {
	Columns []Column
}

// Column names used by the default cart schema.
const (
	ColumnName     = "name"
	ColumnPrice    = "price"
	ColumnQuantity = "quantity"
)

// DefaultCartSchema returns the schema for `name,price,quantity`.
func DefaultCartSchema() Schema {
	return Schema{
		Columns: []Column{
			{Name: ColumnName, DataType: TypeString, Validator: ValidateNonEmptyString},
			{Name: ColumnPrice, DataType: TypeDecimal, Validator: ValidatePositiveNumber},
			{Name: ColumnQuantity, DataType: TypeInteger, Validator: ValidatePositiveInteger},
		},
	}
}

// NewSchema builds a schema from column names and types, using the default
// validator for each type.
func NewSchema(names []string, dataTypes []DataType) (Schema, error) {
	if len(names) != len(dataTypes) {
		return Schema{}, fmt.Errorf("got %d column names but %d data types", len(names), len(dataTypes))
	}

	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{
			Name:      strings.TrimSpace(name),
			DataType:  dataTypes[i],
			Validator: ValidatorFor(dataTypes[i]),
		}
	}
	return Schema{Columns: columns}, nil
}

// Len returns the expected number of columns.
func (s Schema) Len() int {
	return len(s.Columns)
}

// Header returns the expected column names in order.
func (s Schema) Header() []string {
	header := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c.Name
	}
	return header
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors[E error](errs []E) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Validation completed with %d error(s):\n\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, err.Error())
	}
	return builder.String()
}
