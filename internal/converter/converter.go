// =============================================================================
// Cart Parser - Converter Module
// =============================================================================
//
// This module orchestrates the processing pipeline for a single cart file,
// from CSV parsing to the JSON output document.
//
// PROCESSING PIPELINE:
//   1. Parse and validate the input CSV file
//   2. Generate the JSON document
//   3. Write the output file
//   4. Archive the processed input file
//   5. Record metrics
//
// CONCURRENCY:
//   Each file is processed in its own goroutine. A Converter holds no shared
//   mutable state, so one CartParser, FileManager and Metrics may be shared
//   between converters.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/cart-parser/internal/cartparser"
	"github.com/ginjaninja78/cart-parser/internal/config"
	"github.com/ginjaninja78/cart-parser/internal/jsonwriter"
	"github.com/ginjaninja78/cart-parser/internal/metric"
	"github.com/ginjaninja78/cart-parser/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated JSON file.
	// This is empty if processing failed.
	OutputFile string

	// ArchivedTo is where the input file was moved after processing.
	// This is empty if the file was not archived.
	ArchivedTo string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// ParseErrors holds every validation error found in the input.
	ParseErrors []cartparser.ParseError

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// Items is the number of cart items written to the output.
	Items int

	// Total is the cart total.
	Total float64

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Dependencies are the collaborators shared by every converter in a run.
type Dependencies struct {
	// Parser is required.
	Parser *cartparser.CartParser

	// Files is required.
	Files *utils.FileManager

	// Metrics is optional.
	Metrics *metric.Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Converter handles the conversion of a single CSV cart file to JSON.
type Converter struct {
	csvPath    string
	mainConfig *config.MainConfig
	parser     *cartparser.CartParser
	files      *utils.FileManager
	metrics    *metric.Metrics
	logger     *slog.Logger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - csvPath: The path to the input CSV file.
//   - mainConfig: The main application configuration.
//   - deps: The shared parser, file manager, metrics and logger.
func New(csvPath string, mainConfig *config.MainConfig, deps Dependencies) *Converter {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Converter{
		csvPath:    csvPath,
		mainConfig: mainConfig,
		parser:     deps.Parser,
		files:      deps.Files,
		metrics:    deps.Metrics,
		logger:     logger.With("file", filepath.Base(csvPath)),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the processing pipeline for the file.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{FilePath: c.csvPath}

	c.logger.Info("processing file", "path", c.csvPath)

	// =========================================================================
	// STEP 1: PARSE INPUT CSV
	// =========================================================================

	cart, err := c.parser.Parse(c.csvPath)
	if err != nil {
		return c.fail(result, startTime, err)
	}

	result.Stats.Items = len(cart.Items)
	result.Stats.Total = cart.Total
	c.logger.Debug("parsed cart", "items", len(cart.Items), "total", cart.Total)

	// =========================================================================
	// STEP 2-3: GENERATE AND WRITE JSON DOCUMENT
	// =========================================================================

	outputName := utils.GenerateOutputFileName(c.mainConfig.OutputNameFormat, map[string]string{
		"original": utils.BaseName(c.csvPath),
	})
	outputPath := filepath.Join(c.mainConfig.OutputDir, outputName)

	options := jsonwriter.DefaultGenerateOptions()
	options.Indent = c.mainConfig.Indent

	if err := jsonwriter.Write(cart, outputPath, options); err != nil {
		return c.fail(result, startTime, fmt.Errorf("failed to write output: %w", err))
	}

	result.OutputFile = outputPath
	c.logger.Info("wrote output", "path", outputPath)

	// =========================================================================
	// STEP 4: ARCHIVE INPUT
	// =========================================================================

	if c.mainConfig.ShouldArchive() {
		archived, err := c.files.ArchiveInputFile(c.csvPath)
		if err != nil {
			// The output is already written, so archival problems don't fail the file.
			c.logger.Warn("failed to archive input", "error", err)
		} else {
			result.ArchivedTo = archived
		}
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	c.metrics.ObserveSuccess(result.Stats.Items, result.Stats.Total, result.Stats.ProcessingTime)

	return result
}

// fail records err on result and reports the failure.
func (c *Converter) fail(result Result, startTime time.Time, err error) Result {
	result.Error = err
	result.Stats.ProcessingTime = time.Since(startTime)

	var validationErr *cartparser.ValidationError
	var errorTypes []string
	if errors.As(err, &validationErr) {
		result.ParseErrors = validationErr.Errors
		for _, e := range validationErr.Errors {
			errorTypes = append(errorTypes, string(e.Type))
			c.logger.Warn("validation error", "type", e.Type, "row", e.Row, "column", e.Column, "message", e.Message)
		}
	}

	c.logger.Error("processing failed", "error", err)
	c.metrics.ObserveFailure(errorTypes, result.Stats.ProcessingTime)

	return result
}

// ErrorLogEntries converts the result's failure into error log entries.
// A successful result yields none.
func (r Result) ErrorLogEntries(now time.Time) []utils.ErrorLogEntry {
	if r.Success || r.Error == nil {
		return nil
	}

	fileName := filepath.Base(r.FilePath)
	if len(r.ParseErrors) == 0 {
		return []utils.ErrorLogEntry{{
			Timestamp:    now,
			FileName:     fileName,
			ErrorType:    "processing",
			ErrorMessage: r.Error.Error(),
		}}
	}

	entries := make([]utils.ErrorLogEntry, 0, len(r.ParseErrors))
	for _, e := range r.ParseErrors {
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:    now,
			FileName:     fileName,
			ErrorType:    string(e.Type),
			ErrorMessage: e.Message,
			RowNumber:    e.Row,
			ColumnNumber: e.Column,
		})
	}
	return entries
}
