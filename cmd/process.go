// =============================================================================
// SecureCRT Session Extractor - Export
// =============================================================================
//
// This file holds the export run behind the root command.
//
// FLAGS:
//   --format       : Output format, csv or xlsx (default: from the extension)
//   --sheet        : Worksheet name for xlsx output
//   --line-ending  : CSV record terminator, crlf or lf
//   --archive-dir  : Copy the finished output file into this directory
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/scrt-session-extractor/internal/converter"
	"github.com/ginjaninja78/scrt-session-extractor/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// format overrides the configured output format.
var format string

// sheetName overrides the configured XLSX sheet name.
var sheetName string

// lineEnding overrides the configured CSV line ending.
var lineEnding string

// archiveDir overrides the configured archive directory.
var archiveDir string

func init() {
	rootCmd.Flags().StringVar(&format, "format", "", "Output format: csv or xlsx (default: inferred from the output file name)")
	rootCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet name for xlsx output (default \"Sessions\")")
	rootCmd.Flags().StringVar(&lineEnding, "line-ending", "", "CSV line ending: crlf or lf (default \"crlf\")")
	rootCmd.Flags().StringVar(&archiveDir, "archive-dir", "", "Copy the finished output file into this directory")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess exports the sessions of args[0] (default stdin) into args[1]
// (default stdout).
func runProcess(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := utils.StdioPath, utils.StdioPath
	if len(args) > 0 {
		inputPath = args[0]
	}
	if len(args) > 1 {
		outputPath = args[1]
	}

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Close()

	if format != "" {
		cfg.OutputFormat = format
	}
	if sheetName != "" {
		cfg.SheetName = sheetName
	}
	if lineEnding != "" {
		cfg.LineEnding = lineEnding
	}
	if archiveDir != "" {
		cfg.ArchiveDir = archiveDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	conv := converter.New(inputPath, outputPath, cfg, log)
	conv.Stdin = cmd.InOrStdin()
	conv.Stdout = cmd.OutOrStdout()

	result, err := conv.Run()
	if err != nil {
		log.Debug().Err(err).Msg("export failed")
		return err
	}

	log.Debug().Dur("elapsed", result.Duration).Int("records", result.Records).Msg("done")
	return nil
}
