// =============================================================================
// SecureCRT Session Extractor - XLSX Writer Module
// =============================================================================
//
// This module writes session records to a single-sheet Excel workbook, for
// operators who audit session inventories in a spreadsheet.
//
// SHEET LAYOUT:
//
//   | Column A  | Column B | Column C | Column D |
//   |-----------|----------|----------|----------|
//   | name      | address  | port     | protocol |   <- bold header row
//   | Work/srv1 | 10.0.0.5 | 22       | SSH2     |
//
//   All cells are written as text; ports are copied verbatim.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"io"
	"iter"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/scrt-session-extractor/internal/types"
)

// DefaultSheetName is used when Options.SheetName is empty.
const DefaultSheetName = "Sessions"

// defaultSheet is the sheet every new excelize workbook starts with.
const defaultSheet = "Sheet1"

// Options contains options for XLSX output.
type Options struct {
	// SheetName is the name of the only sheet in the workbook.
	// Default: "Sessions"
	SheetName string

	// BoldHeader renders the header row in bold.
	// Default: true
	BoldHeader bool
}

// DefaultOptions returns the default XLSX options.
func DefaultOptions() Options {
	return Options{
		SheetName:  DefaultSheetName,
		BoldHeader: true,
	}
}

// Write writes records to w as an XLSX workbook with default options.
func Write(w io.Writer, records iter.Seq[types.Record]) (int, error) {
	return WriteWithOptions(w, records, DefaultOptions())
}

// WriteWithOptions writes the header row and one row per record, then
// serializes the workbook to w.
//
// RETURNS:
//   - The number of records written.
//   - An error if the sheet cannot be built or the workbook cannot be written.
func WriteWithOptions(w io.Writer, records iter.Seq[types.Record], options Options) (int, error) {
	sheet := options.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return 0, fmt.Errorf("invalid sheet name %q: %w", sheet, err)
		}
	}

	stream, err := f.NewStreamWriter(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to open sheet %q: %w", sheet, err)
	}

	header, err := headerRow(f, options.BoldHeader)
	if err != nil {
		return 0, err
	}
	if err := stream.SetRow("A1", header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	count := 0
	for record := range records {
		cell, err := excelize.CoordinatesToCellName(1, count+2)
		if err != nil {
			return count, fmt.Errorf("failed to address row %d: %w", count+2, err)
		}
		if err := stream.SetRow(cell, toRow(record)); err != nil {
			return count, fmt.Errorf("failed to write record %q: %w", record.Name, err)
		}
		count++
	}

	if err := stream.Flush(); err != nil {
		return count, fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return count, fmt.Errorf("failed to write workbook: %w", err)
	}

	return count, nil
}

// headerRow builds the header cells, optionally styled bold.
func headerRow(f *excelize.File, bold bool) ([]interface{}, error) {
	styleID := 0
	if bold {
		id, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
		styleID = id
	}

	columns := types.Header()
	row := make([]interface{}, len(columns))
	for i, column := range columns {
		row[i] = excelize.Cell{StyleID: styleID, Value: column}
	}
	return row, nil
}

func toRow(record types.Record) []interface{} {
	fields := record.Fields()
	row := make([]interface{}, len(fields))
	for i, field := range fields {
		row[i] = field
	}
	return row
}
