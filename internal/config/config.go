// =============================================================================
// SecureCRT Session Extractor - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file. Every setting has a
// default, so the tool runs without any configuration at all; command-line
// flags override whatever the file sets.
//
// EXAMPLE (scrt2csv.yaml):
//
//   log_level: info
//   log_file: ./logs/scrt2csv.log
//   output_format: csv
//   line_ending: crlf
//   sheet_name: Sessions
//   archive_dir: ./exports
//   archive_name_format: "{original}_{timestamp}_{uuid}"
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

// DefaultConfigFile is read when no --config flag is given and the file
// exists in the working directory.
const DefaultConfigFile = "scrt2csv.yaml"

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration.
type MainConfig struct {
	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging on stderr.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "warn"
	LogLevel string `yaml:"log_level"`

	// LogFile is an optional file that receives the log as well.
	LogFile string `yaml:"log_file"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat is "csv" or "xlsx". When empty the format is inferred
	// from the output file extension.
	OutputFormat string `yaml:"output_format"`

	// LineEnding is the CSV record terminator, "crlf" or "lf".
	// Default: "crlf"
	LineEnding string `yaml:"line_ending"`

	// SheetName is the worksheet name for XLSX output.
	// Default: "Sessions"
	SheetName string `yaml:"sheet_name"`

	// =========================================================================
	// ARCHIVE SETTINGS
	// =========================================================================

	// ArchiveDir receives a copy of every output file written. Disabled
	// when empty. Output written to stdout is never archived.
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveNameFormat names the archived copy. Placeholders:
	//   {original}  - Output file name without extension
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	// The output file's extension is appended.
	// Default: "{original}_{timestamp}_{uuid}"
	ArchiveNameFormat string `yaml:"archive_name_format"`
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

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. When empty,
//     DefaultConfigFile is used if it exists, otherwise defaults apply.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if an explicitly named file cannot be read, or any file
//     cannot be parsed or holds invalid values.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigFile
	}

	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.LogLevel == "" {
		config.LogLevel = "warn"
	}
	if config.LineEnding == "" {
		config.LineEnding = "crlf"
	}
	if config.SheetName == "" {
		config.SheetName = "Sessions"
	}
	if config.ArchiveNameFormat == "" {
		config.ArchiveNameFormat = "{original}_{timestamp}_{uuid}"
	}

	config.LogLevel = strings.ToLower(config.LogLevel)
	config.OutputFormat = strings.ToLower(config.OutputFormat)
	config.LineEnding = strings.ToLower(config.LineEnding)
}

// Validate checks the enumerated settings.
func (c *MainConfig) Validate() error {
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	switch c.OutputFormat {
	case "", FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("unknown output_format %q (want %q or %q)", c.OutputFormat, FormatCSV, FormatXLSX)
	}

	switch c.LineEnding {
	case "crlf", "lf":
	default:
		return fmt.Errorf("unknown line_ending %q (want \"crlf\" or \"lf\")", c.LineEnding)
	}

	return nil
}
