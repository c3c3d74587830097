// =============================================================================
// SecureCRT Session Extractor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// performs the export itself, so the tool is invoked exactly like a filter:
//
//   scrt2csv [xml_file] [csv_file]
//
// COBRA CLI STRUCTURE:
//   rootCmd (scrt2csv)         export sessions
//   ├── inspectCmd (inspect)   per-folder session summary
//   └── versionCmd (version)   version information
//
// EXIT STATUS:
//   0  the export completed, even with zero sessions
//   1  the input could not be parsed, had no Sessions container, or the
//      output could not be written
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/scrt-session-extractor/internal/config"
	"github.com/ginjaninja78/scrt-session-extractor/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// When empty, scrt2csv.yaml in the working directory is used if present.
var cfgFile string

// verbose enables debug logging on stderr.
var verbose bool

// logFile overrides the configured log file.
var logFile string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command; it runs the export.
var rootCmd = &cobra.Command{
	Use:   "scrt2csv [xml_file] [csv_file]",
	Short: "Extract SecureCRT sessions from an XML export into CSV",
	Long: `scrt2csv reads a SecureCRT XML session export and writes one row per saved
session with the columns name,address,port,protocol.

The input defaults to standard input and the output to standard output; "-"
selects them explicitly. Sessions without a host name are skipped. A missing
port defaults to 22 and a missing protocol to SSH2.

Example Usage:
  scrt2csv sessions.xml sessions.csv
  scrt2csv < sessions.xml > sessions.csv
  scrt2csv sessions.xml sessions.xlsx       # Excel output, inferred from extension
  scrt2csv inspect sessions.xml             # Per-folder summary`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
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
		"",
		"Path to a YAML configuration file (default is "+config.DefaultConfigFile+" if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging on stderr",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFile,
		"log-file",
		"",
		"Also append log entries to this file",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// setup loads the configuration, applies the persistent flag overrides and
// builds the logger. The caller closes the logger.
func setup(cmd *cobra.Command) (*config.MainConfig, *logger.Logger, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: cmd.ErrOrStderr(),
		Pretty:  true,
	})
	if err != nil {
		return nil, nil, err
	}

	log.Debug().Str("config", cfgFile).Str("level", cfg.LogLevel).Msg("configuration loaded")
	return cfg, log, nil
}
