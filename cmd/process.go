// =============================================================================
// Cart Parser - Process Command
// =============================================================================
//
// This file defines the 'process' command, which converts every cart file in
// the input directory to JSON.
//
// COMMAND USAGE:
//   cartparser process [--pattern "*.csv"]
//
// PROCESSING PIPELINE:
//   1. Load the configuration and build the parser
//   2. Discover CSV files in the input directory
//   3. Convert each file concurrently (at most max_concurrency at once)
//   4. Write the error log and the processing summary
//   5. Export metrics when metrics_file is set
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cart-parser/internal/converter"
	"github.com/ginjaninja78/cart-parser/internal/metric"
	"github.com/ginjaninja78/cart-parser/pkg/utils"
)

// processPattern selects the input files.
var processPattern string

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process cart files and convert them to JSON",
	Long: `The process command scans the input directory for CSV files and converts
each of them to a JSON cart document.

Files are processed concurrently. Each file is processed independently, and
errors in one file do not affect the processing of others.

On successful processing:
  - The generated JSON is placed in the output directory
  - The original CSV is moved to the input archive
  - A summary report is generated

On error:
  - An error log listing every validation error is created in the output directory
  - The original CSV remains in the input directory
  - Processing continues for other files`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runProcess(a, processPattern, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&processPattern,
		"pattern",
		"*.csv",
		"Glob pattern selecting the input files",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess converts every matching file in the input directory.
func runProcess(a *app, pattern string, out io.Writer) error {
	startTime := time.Now()
	mainConfig := a.config

	// =========================================================================
	// STEP 1: PREPARE DIRECTORIES AND METRICS
	// =========================================================================

	files := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir)
	files.ArchiveOnSuccess = mainConfig.ShouldArchive()
	files.UseTimestampSubdirs = mainConfig.ArchiveByDate
	if err := files.EnsureDirectories(); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics, err := metric.NewMetrics(registry)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	inputFiles, err := files.DiscoverInputFiles(pattern)
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No CSV files found in the input directory.")
		return nil
	}

	a.logger.Info("discovered input files", "count", len(inputFiles), "dir", mainConfig.InputDir)

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================

	deps := converter.Dependencies{
		Parser:  a.parser,
		Files:   files,
		Metrics: metrics,
		Logger:  a.logger,
	}

	var wg sync.WaitGroup
	results := make(chan converter.Result, len(inputFiles))
	sem := make(chan struct{}, mainConfig.MaxConcurrency)

	for _, file := range inputFiles {
		wg.Add(1)
		go func(filePath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results <- converter.New(filePath, mainConfig, deps).Run()
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	summary := utils.ProcessingSummary{
		StartTime:  startTime,
		TotalFiles: len(inputFiles),
	}
	var errorEntries []utils.ErrorLogEntry

	for result := range results {
		if result.Success {
			summary.SuccessfulFiles++
			summary.TotalItems += result.Stats.Items
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   result.FilePath,
				OutputFile:  result.OutputFile,
				Items:       result.Stats.Items,
				Total:       result.Stats.Total,
				ProcessTime: result.Stats.ProcessingTime,
			})
			fmt.Fprintf(out, "  ✓ %s -> %s\n", filepath.Base(result.FilePath), result.OutputFile)
			continue
		}

		summary.FailedFiles++
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    result.FilePath,
			ErrorMessage: result.Error.Error(),
		})
		errorEntries = append(errorEntries, result.ErrorLogEntries(time.Now())...)
		fmt.Fprintf(out, "  ✗ %s: %v\n", filepath.Base(result.FilePath), result.Error)
	}

	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 5: WRITE LOGS AND METRICS
	// =========================================================================

	errorLog, err := utils.WriteErrorLog(errorEntries, mainConfig.OutputDir)
	if err != nil {
		return err
	}

	summaryLog, err := utils.WriteSummaryLog(summary, mainConfig.OutputDir)
	if err != nil {
		return err
	}

	if mainConfig.MetricsFile != "" {
		if err := metric.WriteTextfile(mainConfig.MetricsFile, registry); err != nil {
			return err
		}
		a.logger.Debug("wrote metrics", "path", mainConfig.MetricsFile)
	}

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Items:           %d\n", summary.TotalItems)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))
	fmt.Fprintf(out, "Summary:         %s\n", summaryLog)
	if errorLog != "" {
		fmt.Fprintf(out, "Error log:       %s\n", errorLog)
	}

	return nil
}
