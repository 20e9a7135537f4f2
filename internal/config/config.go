// =============================================================================
// Cart Parser - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file.
//
// CONFIGURATION FILE (config.yaml):
//
//   input_dir: ./input
//   output_dir: ./output
//   input_archive_dir: ./input_archive
//   schema_template: ./templates/cart.xlsx
//   output_name_format: "{original}_{uuid}.json"
//   archive_by_date: false
//   log_level: info
//   log_format: text
//   max_concurrency: 4
//   metrics_file: ./output/cartparser.prom
//
// Every key is optional. Missing keys take the defaults below.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for *.csv files by the process command.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the generated JSON documents and logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after they are processed
	// successfully.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// =========================================================================
	// SCHEMA SETTINGS
	// =========================================================================

	// SchemaTemplate is an optional XLSX template defining the CSV columns.
	// When empty, the built-in "name,price,quantity" schema is used.
	SchemaTemplate string `yaml:"schema_template"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputNameFormat defines the output file names.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {original}  - Input file name without extension
	// Default: "{original}_{uuid}.json"
	OutputNameFormat string `yaml:"output_name_format"`

	// Indent is the JSON indentation. Ignored when Compact is set.
	// Default: "  "
	Indent string `yaml:"indent"`

	// Compact renders JSON without indentation.
	// Default: false
	Compact bool `yaml:"compact"`

	// ArchiveInputs moves processed inputs to InputArchiveDir.
	// Default: true
	ArchiveInputs *bool `yaml:"archive_inputs"`

	// ArchiveByDate files archived inputs under YYYY/MM/DD subdirectories.
	// Default: false
	ArchiveByDate bool `yaml:"archive_by_date"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log handler.
	// Valid values: "text", "json"
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// MetricsFile is where batch metrics are written in the prometheus text
	// format. Disabled when empty.
	MetricsFile string `yaml:"metrics_file"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads configPath, falling back to Default() when the file
// does not exist. The second return value reports whether the file was found.
func LoadOrDefault(configPath string) (*MainConfig, bool, error) {
	config, err := LoadMainConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return config, true, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{original}_{uuid}.json"
	}
	if config.Indent == "" && !config.Compact {
		config.Indent = "  "
	}
	if config.Compact {
		config.Indent = ""
	}
	if config.ArchiveInputs == nil {
		archive := true
		config.ArchiveInputs = &archive
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	switch strings.ToLower(config.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", config.LogFormat)
	}

	if config.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative")
	}

	return nil
}

// ShouldArchive reports whether processed inputs are archived.
func (c *MainConfig) ShouldArchive() bool {
	return c.ArchiveInputs == nil || *c.ArchiveInputs
}
