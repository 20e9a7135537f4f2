// =============================================================================
// Cart Parser - JSON Writer Module
// =============================================================================
//
// This module renders a parsed cart as a JSON document and checks the
// document against the cart JSON Schema before it is written.
//
// JSON STRUCTURE:
//
//   {
//     "items": [
//       {"id": "5f0c...", "name": "Mollis consequat", "price": 9, "quantity": 2}
//     ],
//     "total": 18
//   }
//
// The schema lives in cart.schema.json next to this file and is embedded in
// the binary.
//
// =============================================================================

package jsonwriter

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ginjaninja78/cart-parser/internal/types"
)

//go:embed cart.schema.json
var cartSchemaJSON []byte

// ErrSchemaViolation is returned when a rendered document does not match the
// cart JSON Schema.
var ErrSchemaViolation = errors.New("document does not match cart schema")

var (
	compileOnce    sync.Once
	compiledCart   *gojsonschema.Schema
	compileCartErr error
)

// =============================================================================
// GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for JSON generation.
type GenerateOptions struct {
	// Indent is the string used for indentation. Empty renders compact JSON.
	// Default: "  " (two spaces)
	Indent string

	// SkipSchemaCheck disables the JSON Schema check.
	// Default: false
	SkipSchemaCheck bool
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent: "  ",
	}
}

// =============================================================================
// GENERATION FUNCTIONS
// =============================================================================

// Generate renders result as indented JSON and checks it against the schema.
func Generate(result *types.ParseResult) ([]byte, error) {
	return GenerateWithOptions(result, DefaultGenerateOptions())
}

// GenerateWithOptions renders result with custom options.
func GenerateWithOptions(result *types.ParseResult, options GenerateOptions) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("nothing to render")
	}

	doc := *result
	if doc.Items == nil {
		doc.Items = []types.CartItem{}
	}

	var (
		data []byte
		err  error
	)
	if options.Indent != "" {
		data, err = json.MarshalIndent(doc, "", options.Indent)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if !options.SkipSchemaCheck {
		if err := ValidateDocument(data); err != nil {
			return nil, err
		}
	}

	return append(data, '\n'), nil
}

// ValidateDocument checks a JSON document against the cart schema.
//
// RETURNS:
//   - An error wrapping ErrSchemaViolation that lists every violation.
//   - An error if the schema or document cannot be loaded.
func ValidateDocument(data []byte) error {
	schema, err := cartSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate document: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
	}

	return nil
}

// cartSchema compiles the embedded schema once.
func cartSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledCart, compileCartErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(cartSchemaJSON))
		if compileCartErr != nil {
			compileCartErr = fmt.Errorf("failed to compile cart schema: %w", compileCartErr)
		}
	})
	return compiledCart, compileCartErr
}

// =============================================================================
// OUTPUT
// =============================================================================

// Write renders result and writes it to path.
func Write(result *types.ParseResult, path string, options GenerateOptions) error {
	data, err := GenerateWithOptions(result, options)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
