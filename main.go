// =============================================================================
// SecureCRT Session Extractor - Main Entry Point
// =============================================================================
//
// USAGE:
//   scrt2csv [xml_file] [csv_file]   - Export sessions (stdin/stdout by default)
//   scrt2csv inspect [xml_file]      - Per-folder session summary
//   scrt2csv version                 - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : XML tree, extraction, writers, config, logging
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/scrt-session-extractor/cmd"
)

func main() {
	cmd.Execute()
}
