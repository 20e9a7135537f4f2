// =============================================================================
// Cart Parser - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI and the setup shared
// by every subcommand.
//
// COBRA CLI STRUCTURE:
//   rootCmd (cartparser)
//   ├── parseCmd (cartparser parse)
//   ├── validateCmd (cartparser validate)
//   ├── processCmd (cartparser process)
//   └── versionCmd (cartparser version)
//
// SHARED SETUP:
//   1. Load the configuration (--config, defaults when the file is missing)
//   2. Set up structured logging on stderr (--verbose forces debug)
//   3. Build the cart parser, from the XLSX schema template when configured
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cart-parser/internal/cartparser"
	"github.com/ginjaninja78/cart-parser/internal/config"
	"github.com/ginjaninja78/cart-parser/internal/xlsxparser"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cartparser",
	Short: "Cart Parser - Validate shopping cart CSV files and convert them to JSON",
	Long: `Cart Parser reads shopping cart CSV files, validates every line against
the column schema and converts valid carts into JSON documents with a
computed total.

Key Features:
  - Complete error reports: every header, row and cell problem is listed
  - Optional column schema defined in an XLSX template
  - Concurrent batch processing with archival of processed files
  - Prometheus metrics for batch runs

Example Usage:
  cartparser parse cart.csv                # Print the cart as JSON
  cat cart.csv | cartparser parse -        # Read the cart from stdin
  cartparser validate cart.csv             # List every validation error
  cartparser process --config ./my.yaml    # Process the input directory`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file; defaults apply when it is missing",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// app bundles what every command needs.
type app struct {
	config *config.MainConfig
	logger *slog.Logger
	parser *cartparser.CartParser
}

// loadApp loads the configuration, then builds the logger and parser.
// Logs go to logOut.
func loadApp(logOut io.Writer) (*app, error) {
	mainConfig, found, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}

	logger := newLogger(logOut, mainConfig.LogLevel, mainConfig.LogFormat, verbose)
	if !found {
		logger.Debug("config file not found, using defaults", "path", cfgFile)
	}

	parser, err := newParser(mainConfig, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		config: mainConfig,
		logger: logger,
		parser: parser,
	}, nil
}

// newLogger creates a text or JSON logger at the configured level.
func newLogger(w io.Writer, level, format string, verbose bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newParser creates the cart parser, loading the column schema from the
// XLSX template when one is configured.
func newParser(mainConfig *config.MainConfig, logger *slog.Logger) (*cartparser.CartParser, error) {
	opts := cartparser.Options{Logger: logger}

	if mainConfig.SchemaTemplate != "" {
		schema, err := xlsxparser.LoadSchema(mainConfig.SchemaTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema template: %w", err)
		}
		logger.Debug("loaded schema template", "path", mainConfig.SchemaTemplate, "columns", schema.Header())
		opts.Schema = schema
	}

	parser, err := cartparser.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}
	return parser, nil
}
