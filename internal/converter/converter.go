// =============================================================================
// SecureCRT Session Extractor - Converter
// =============================================================================
//
// This module runs one export from start to finish.
//
// PROCESSING PIPELINE:
//   1. Open the input (a file, or stdin for "-")
//   2. Parse the XML document
//   3. Locate the Sessions container
//   4. Open the output (a file, or stdout for "-")
//   5. Stream the extracted records into the CSV or XLSX writer
//   6. Optionally copy the finished file into the archive directory
//
// Steps 1-3 can fail fatally. The output is not opened until they have
// succeeded, so a failed run never creates or truncates the output file.
//
// =============================================================================

package converter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/scrt-session-extractor/internal/config"
	"github.com/ginjaninja78/scrt-session-extractor/internal/csvwriter"
	"github.com/ginjaninja78/scrt-session-extractor/internal/extractor"
	"github.com/ginjaninja78/scrt-session-extractor/internal/logger"
	"github.com/ginjaninja78/scrt-session-extractor/internal/scrtxml"
	"github.com/ginjaninja78/scrt-session-extractor/internal/xlsxwriter"
	"github.com/ginjaninja78/scrt-session-extractor/pkg/utils"
)

// =============================================================================
// RESULT
// =============================================================================

// Result describes a finished export.
type Result struct {
	// Source is the input name used in diagnostics.
	Source string

	// Destination is the output path, or "-" for stdout.
	Destination string

	// Format is the output format that was written.
	Format string

	// Records is the number of session records written.
	Records int

	// ArchivePath is the archived copy of the output, if one was made.
	ArchivePath string

	// Duration is the wall time of the run.
	Duration time.Duration
}

// =============================================================================
// CONVERTER
// =============================================================================

// Converter exports the sessions of one document.
type Converter struct {
	inputPath  string
	outputPath string
	config     *config.MainConfig
	log        *logger.Logger

	// Stdin and Stdout back the "-" paths.
	Stdin  io.Reader
	Stdout io.Writer
}

// New creates a Converter. A nil cfg means defaults; a nil log discards.
func New(inputPath, outputPath string, cfg *config.MainConfig, log *logger.Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.Nop()
	}
	if inputPath == "" {
		inputPath = utils.StdioPath
	}
	if outputPath == "" {
		outputPath = utils.StdioPath
	}

	return &Converter{
		inputPath:  inputPath,
		outputPath: outputPath,
		config:     cfg,
		log:        log,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
	}
}

// Load reads the input document and returns its Sessions container.
//
// RETURNS:
//   - A *scrtxml.ParseError when the input cannot be opened or parsed.
//   - scrtxml.ErrSessionsNotFound when there is no Sessions container.
func (c *Converter) Load() (*scrtxml.Node, error) {
	source := utils.SourceName(c.inputPath)

	input, err := utils.OpenInput(c.inputPath, c.Stdin)
	if err != nil {
		return nil, &scrtxml.ParseError{Source: source, Err: err}
	}
	defer input.Close()

	root, err := scrtxml.Parse(input, source)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("source", source).Str("root", root.XMLName.Local).Msg("parsed document")

	sessions, err := scrtxml.FindSessions(root)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Int("children", len(sessions.Keys())).Msg("located Sessions container")

	return sessions, nil
}

// Run executes the whole pipeline.
func (c *Converter) Run() (Result, error) {
	startTime := time.Now()

	result := Result{
		Source:      utils.SourceName(c.inputPath),
		Destination: c.outputPath,
	}

	format, err := ResolveFormat(c.config.OutputFormat, c.outputPath)
	if err != nil {
		return result, err
	}
	result.Format = format

	sessions, err := c.Load()
	if err != nil {
		return result, err
	}

	records := extractor.Extract(sessions, nil)

	output, err := utils.CreateOutput(c.outputPath, c.Stdout)
	if err != nil {
		return result, err
	}

	switch format {
	case config.FormatXLSX:
		result.Records, err = xlsxwriter.WriteWithOptions(output, records, xlsxwriter.Options{
			SheetName:  c.config.SheetName,
			BoldHeader: true,
		})
	default:
		var writer *csvwriter.Writer
		writer, err = csvwriter.NewWriterWithOptions(output, csvwriter.Options{LineEnding: c.config.LineEnding})
		if err == nil {
			result.Records, err = writer.WriteAll(records)
		}
	}

	if closeErr := output.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output: %w", closeErr)
	}
	if err != nil {
		return result, fmt.Errorf("failed to write %s output: %w", format, err)
	}

	c.log.Info().
		Str("source", result.Source).
		Str("destination", result.Destination).
		Str("format", format).
		Int("records", result.Records).
		Msg("sessions exported")

	if c.config.ArchiveDir != "" && !utils.IsStdio(c.outputPath) {
		archivePath, err := utils.ArchiveOutputFile(c.config.ArchiveDir, c.outputPath, c.config.ArchiveNameFormat)
		if err != nil {
			return result, err
		}
		result.ArchivePath = archivePath
		c.log.Info().Str("archive", archivePath).Msg("output archived")
	}

	result.Duration = time.Since(startTime)
	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// ResolveFormat picks the output format. An explicit format wins; otherwise
// an output path ending in ".xlsx" selects XLSX and anything else CSV.
func ResolveFormat(explicit, outputPath string) (string, error) {
	switch strings.ToLower(explicit) {
	case config.FormatCSV:
		return config.FormatCSV, nil
	case config.FormatXLSX:
		return config.FormatXLSX, nil
	case "":
	default:
		return "", fmt.Errorf("unknown output format %q", explicit)
	}

	if !utils.IsStdio(outputPath) && strings.EqualFold(filepath.Ext(outputPath), ".xlsx") {
		return config.FormatXLSX, nil
	}
	return config.FormatCSV, nil
}
