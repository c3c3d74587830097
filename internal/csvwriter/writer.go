// =============================================================================
// SecureCRT Session Extractor - CSV Writer Module
// =============================================================================
//
// This module writes session records as CSV. The column order is fixed:
//
//   name,address,port,protocol
//   Work/srv1,10.0.0.5,22,SSH2
//   "Lab, east/box",192.0.2.7,2222,SSH2
//
// FEATURES:
//   - Header row is always written first, even when there are no records
//   - Standard CSV quoting for embedded delimiters, quotes and newlines
//   - CRLF record terminators by default (RFC 4180), LF on request
//   - Records are streamed; nothing is buffered beyond the csv.Writer
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ginjaninja78/scrt-session-extractor/internal/types"
)

// =============================================================================
// WRITER OPTIONS
// =============================================================================

// Line ending names accepted by Options.LineEnding.
const (
	LineEndingCRLF = "crlf"
	LineEndingLF   = "lf"
)

// Options contains options for CSV output.
type Options struct {
	// Delimiter separates fields.
	// Default: ','
	Delimiter rune

	// LineEnding is "crlf" or "lf".
	// Default: "crlf"
	LineEnding string
}

// DefaultOptions returns the default CSV options.
func DefaultOptions() Options {
	return Options{
		Delimiter:  ',',
		LineEnding: LineEndingCRLF,
	}
}

// =============================================================================
// WRITER
// =============================================================================

// Writer writes a header row followed by one row per record.
type Writer struct {
	csv           *csv.Writer
	headerWritten bool
	count         int
}

// NewWriter creates a Writer with default options. It panics if
// DefaultOptions is ever made invalid.
func NewWriter(w io.Writer) *Writer {
	writer, err := NewWriterWithOptions(w, DefaultOptions())
	if err != nil {
		panic(fmt.Sprintf("csvwriter: invalid default options: %v", err))
	}
	return writer
}

// NewWriterWithOptions creates a Writer with custom options.
//
// RETURNS:
//   - An error if the line ending or delimiter is not usable.
func NewWriterWithOptions(w io.Writer, options Options) (*Writer, error) {
	csvWriter := csv.NewWriter(w)

	if options.Delimiter != 0 {
		csvWriter.Comma = options.Delimiter
	}

	switch strings.ToLower(options.LineEnding) {
	case "", LineEndingCRLF:
		csvWriter.UseCRLF = true
	case LineEndingLF:
		csvWriter.UseCRLF = false
	default:
		return nil, fmt.Errorf("unsupported line ending %q", options.LineEnding)
	}

	// encoding/csv rejects these delimiters only when writing; fail early
	// instead.
	if csvWriter.Comma == '"' || csvWriter.Comma == '\r' || csvWriter.Comma == '\n' {
		return nil, fmt.Errorf("unsupported delimiter %q", csvWriter.Comma)
	}

	return &Writer{csv: csvWriter}, nil
}

// WriteHeader writes the header row. It is a no-op after the first call.
func (w *Writer) WriteHeader() error {
	if w.headerWritten {
		return nil
	}
	if err := w.csv.Write(types.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	w.headerWritten = true
	return nil
}

// Write writes one record, writing the header first if needed.
func (w *Writer) Write(record types.Record) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.csv.Write(record.Fields()); err != nil {
		return fmt.Errorf("failed to write record %q: %w", record.Name, err)
	}
	w.count++
	return nil
}

// WriteAll writes the header and every record, then flushes.
//
// RETURNS:
//   - The number of records written.
//   - The first write or flush error.
func (w *Writer) WriteAll(records iter.Seq[types.Record]) (int, error) {
	if err := w.WriteHeader(); err != nil {
		return w.count, err
	}

	for record := range records {
		if err := w.Write(record); err != nil {
			return w.count, err
		}
	}

	if err := w.Flush(); err != nil {
		return w.count, err
	}
	return w.count, nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.count
}

// =============================================================================
// CONVENIENCE
// =============================================================================

// Write writes records to w as CSV with default options.
func Write(w io.Writer, records iter.Seq[types.Record]) (int, error) {
	return NewWriter(w).WriteAll(records)
}
