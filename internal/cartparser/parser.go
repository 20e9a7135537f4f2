// =============================================================================
// Cart Parser - CSV Cart Parser Module
// =============================================================================
//
// This module reads a cart CSV file, validates it against the column schema,
// converts each body row into a CartItem and totals the cart.
//
// PIPELINE:
//   1. ReadFile   - read the whole file as text
//   2. Validate   - collect every header, row and cell error
//   3. ParseLine  - convert each body row into a CartItem
//   4. CalcTotal  - sum(price * quantity)
//
// FORMAT:
//   - First non-empty line is the header (default "name,price,quantity")
//   - Each following non-empty line is "<name>,<price>,<quantity>"
//   - Fields are split on comma with no quoting support
//   - Surrounding whitespace on lines and fields is ignored
//
// =============================================================================

package cartparser

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/cart-parser/internal/types"
	"github.com/ginjaninja78/cart-parser/internal/validation"
)

// =============================================================================
// PARSER STRUCTURE
// =============================================================================

// CartParser parses cart CSV files. It holds no state between calls beyond
// its constructor-time schema, so a single instance can be reused.
type CartParser struct {
	schema validation.Schema
	ids    IDGenerator
	logger *slog.Logger

	// Positions of the cart fields within a row, resolved from the schema.
	nameIdx     int
	priceIdx    int
	quantityIdx int
}

// Options configures a CartParser. Zero values select the defaults.
type Options struct {
	// Schema is the expected column layout.
	// Default: validation.DefaultCartSchema()
	Schema validation.Schema

	// IDs generates item identifiers.
	// Default: UUIDGenerator
	IDs IDGenerator

	// Logger receives debug output.
	// Default: slog.Default()
	Logger *slog.Logger
}

// New creates a CartParser with the default schema, UUID identifiers and the
// default logger.
func New() *CartParser {
	p, err := NewWithOptions(Options{})
	if err != nil {
		// The default schema always carries the cart columns.
		panic(err)
	}
	return p
}

// NewWithOptions creates a CartParser with custom options.
//
// RETURNS:
//   - An error if the schema does not define the name, price and quantity
//     columns.
func NewWithOptions(opts Options) (*CartParser, error) {
	if opts.Schema.Len() == 0 {
		opts.Schema = validation.DefaultCartSchema()
	}
	if opts.IDs == nil {
		opts.IDs = UUIDGenerator{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	schema, err := pinCartValidators(opts.Schema)
	if err != nil {
		return nil, err
	}

	p := &CartParser{
		schema:      schema,
		ids:         opts.IDs,
		logger:      opts.Logger,
		nameIdx:     schema.Index(validation.ColumnName),
		priceIdx:    schema.Index(validation.ColumnPrice),
		quantityIdx: schema.Index(validation.ColumnQuantity),
	}

	for column, idx := range map[string]int{
		validation.ColumnName:     p.nameIdx,
		validation.ColumnPrice:    p.priceIdx,
		validation.ColumnQuantity: p.quantityIdx,
	} {
		if idx < 0 {
			return nil, fmt.Errorf("schema is missing required column %q", column)
		}
	}

	return p, nil
}

// pinCartValidators returns a copy of schema in which the price and quantity
// columns are checked by the numeric validators, whatever validator the
// caller attached. Every value that passes Validate must convert in
// ParseLine.
func pinCartValidators(schema validation.Schema) (validation.Schema, error) {
	columns := make([]validation.Column, len(schema.Columns))
	copy(columns, schema.Columns)

	for i, column := range columns {
		switch column.Name {
		case validation.ColumnPrice:
			if column.DataType != validation.TypeDecimal && column.DataType != validation.TypeInteger {
				return validation.Schema{}, fmt.Errorf("column %q must be decimal or integer, got %q", column.Name, column.DataType)
			}
			columns[i].Validator = validation.ValidatorFor(column.DataType)
		case validation.ColumnQuantity:
			if column.DataType != validation.TypeInteger {
				return validation.Schema{}, fmt.Errorf("column %q must be integer, got %q", column.Name, column.DataType)
			}
			columns[i].Validator = validation.ValidatePositiveInteger
		}
	}

	return validation.Schema{Columns: columns}, nil
}

// Schema returns the schema the parser validates against.
func (p *CartParser) Schema() validation.Schema {
	return p.schema
}

// =============================================================================
// FILE ACCESS
// =============================================================================

// ReadFile returns the text content of the file at path. The file handle is
// released before returning, on success and failure alike.
func (p *CartParser) ReadFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return string(data), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks contents against the schema and returns every violation
// found. It never stops at the first error and never fails by itself.
//
// ERROR POSITIONS:
//   - header: row 0, column of the first mismatching name
//   - row:    1-based body row, column -1
//   - cell:   1-based body row, 0-based column
func (p *CartParser) Validate(contents string) []ParseError {
	var errs []ParseError

	lines := splitLines(contents)

	var header string
	if len(lines) > 0 {
		header = lines[0]
	}
	if err, bad := p.validateHeader(header); bad {
		errs = append(errs, err)
	}

	for i := 1; i < len(lines); i++ {
		cells := splitFields(lines[i])

		if len(cells) != p.schema.Len() {
			errs = append(errs, p.CreateError(
				ErrorTypeRow,
				i,
				-1,
				fmt.Sprintf("Expected row to have %d cells but received %d.", p.schema.Len(), len(cells)),
			))
			continue
		}

		for j, column := range p.schema.Columns {
			if msg := column.Validate(cells[j]); msg != "" {
				errs = append(errs, p.CreateError(ErrorTypeCell, i, j, msg))
			}
		}
	}

	return errs
}

// validateHeader compares the header line with the schema. Only the first
// mismatch is reported.
func (p *CartParser) validateHeader(line string) (ParseError, bool) {
	actual := splitFields(line)
	expected := p.schema.Header()

	for i, want := range expected {
		var got string
		if i < len(actual) {
			got = actual[i]
		}
		if want != got {
			return p.CreateError(
				ErrorTypeHeader,
				0,
				i,
				fmt.Sprintf("Expected header to be named %q but received %s.", want, got),
			), true
		}
	}

	if len(actual) > len(expected) {
		return p.CreateError(
			ErrorTypeHeader,
			0,
			len(expected),
			fmt.Sprintf("Expected header to have %d columns but received %d.", len(expected), len(actual)),
		), true
	}

	return ParseError{}, false
}

// CreateError builds a ParseError. It has no side effects.
func (p *CartParser) CreateError(errType ErrorType, row, column int, message string) ParseError {
	return ParseError{
		Type:    errType,
		Row:     row,
		Column:  column,
		Message: message,
	}
}

// =============================================================================
// CONVERSION
// =============================================================================

// ParseLine converts one body row into a CartItem with a fresh ID. The line
// is expected to have passed Validate; only values that cannot be converted
// at all produce an error.
func (p *CartParser) ParseLine(line string) (types.CartItem, error) {
	fields := splitFields(line)
	if len(fields) != p.schema.Len() {
		return types.CartItem{}, fmt.Errorf("expected %d fields but got %d", p.schema.Len(), len(fields))
	}

	price, err := strconv.ParseFloat(fields[p.priceIdx], 64)
	if err != nil {
		return types.CartItem{}, fmt.Errorf("invalid price %q: %w", fields[p.priceIdx], err)
	}

	quantity, err := strconv.Atoi(fields[p.quantityIdx])
	if err != nil {
		return types.CartItem{}, fmt.Errorf("invalid quantity %q: %w", fields[p.quantityIdx], err)
	}

	return types.CartItem{
		ID:       p.ids.NextID(),
		Name:     fields[p.nameIdx],
		Price:    price,
		Quantity: quantity,
	}, nil
}

// CalcTotal returns sum(price * quantity) in input order. No rounding is
// applied.
func (p *CartParser) CalcTotal(items []types.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Parse reads, validates and converts the cart file at path.
//
// RETURNS:
//   - ErrEmptyPath if path is empty; the file system is not touched.
//   - A wrapped I/O error if the file cannot be read.
//   - A *ValidationError (matching ErrValidationFailed) if any row is invalid.
func (p *CartParser) Parse(path string) (*types.ParseResult, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	contents, err := p.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("read cart file", "path", path, "bytes", len(contents))

	return p.ParseContents(contents)
}

// ParseContents validates and converts cart text already held in memory.
func (p *CartParser) ParseContents(contents string) (*types.ParseResult, error) {
	if errs := p.Validate(contents); len(errs) > 0 {
		for _, e := range errs {
			p.logger.Debug("cart validation error", "type", e.Type, "row", e.Row, "column", e.Column, "message", e.Message)
		}
		return nil, &ValidationError{Errors: errs}
	}

	lines := splitLines(contents)[1:]
	items := make([]types.CartItem, 0, len(lines))
	var total float64
	for i, line := range lines {
		item, err := p.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse row %d: %w", i+1, err)
		}
		items = append(items, item)

		// Each price is finite, so only the running sum can overflow.
		total += item.Price * float64(item.Quantity)
		if math.IsInf(total, 0) {
			return nil, &ValidationError{Errors: []ParseError{p.CreateError(
				ErrorTypeRow,
				i+1,
				-1,
				"Expected cart total to be a finite number but it overflowed.",
			)}}
		}
	}

	result := &types.ParseResult{
		Items: items,
		Total: p.CalcTotal(items),
	}

	p.logger.Debug("parsed cart", "items", len(result.Items), "total", result.Total)

	return result, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// splitLines returns the trimmed, non-empty lines of contents.
func splitLines(contents string) []string {
	var lines []string
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitFields splits a line on commas and trims each field. An empty line
// yields no fields.
func splitFields(line string) []string {
	if line == "" {
		return nil
	}
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
