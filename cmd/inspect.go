// =============================================================================
// SecureCRT Session Extractor - Inspect Command
// =============================================================================
//
// COMMAND USAGE:
//   scrt2csv inspect [xml_file]
//
// Prints the number of exportable sessions per folder and the protocols they
// use. Nothing is written besides the table on stdout.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/scrt-session-extractor/internal/converter"
	"github.com/ginjaninja78/scrt-session-extractor/internal/extractor"
	"github.com/ginjaninja78/scrt-session-extractor/pkg/utils"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// inspectCmd prints how many sessions each folder holds, without exporting.
var inspectCmd = &cobra.Command{
	Use:   "inspect [xml_file]",
	Short: "Summarize the sessions of an export per folder",
	Long: `Inspect reads a SecureCRT XML export and prints a table with the number of
exportable sessions per folder and the protocols they use. It fails in the same
cases as an export does.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := utils.StdioPath
		if len(args) > 0 {
			inputPath = args[0]
		}

		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Close()

		conv := converter.New(inputPath, utils.StdioPath, cfg, log)
		conv.Stdin = cmd.InOrStdin()

		sessions, err := conv.Load()
		if err != nil {
			return err
		}

		summary := converter.Summarize(extractor.Sessions(sessions, nil))
		return converter.RenderSummary(cmd.OutOrStdout(), summary)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
