// =============================================================================
// SecureCRT Session Extractor - File Manager Utility
// =============================================================================
//
// This module provides the file handling around an export:
//   - Input selection (a path, or standard input for "-")
//   - Output selection (a path, or standard output for "-")
//   - Archival of finished output files under generated names
//
// ARCHIVAL STRATEGY:
//   - Output files are copied, not moved, so they stay where the operator
//     asked for them
//   - Output written to standard output is never archived
//   - Archive names are generated from a placeholder format so that repeated
//     exports never overwrite each other
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StdioPath selects standard input or standard output.
const StdioPath = "-"

// StdinName is how standard input is named in diagnostics.
const StdinName = "stdin"

// =============================================================================
// INPUT AND OUTPUT SELECTION
// =============================================================================

// IsStdio reports whether path selects a standard stream.
func IsStdio(path string) bool {
	return path == "" || path == StdioPath
}

// SourceName returns the name used for path in diagnostics.
func SourceName(path string) string {
	if IsStdio(path) {
		return StdinName
	}
	return path
}

// OpenInput opens path for reading, or returns stdin for "-".
// Closing the returned reader never closes stdin.
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if IsStdio(path) {
		return io.NopCloser(stdin), nil
	}
	return os.Open(path)
}

// CreateOutput creates or truncates path, or returns stdout for "-".
// Closing the returned writer never closes stdout.
func CreateOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if IsStdio(path) {
		return nopWriteCloser{stdout}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveOutputFile copies a finished output file into archiveDir.
//
// PARAMETERS:
//   - archiveDir: The archive directory; created if missing.
//   - filePath: The output file to archive.
//   - nameFormat: The archive name format, see GenerateArchiveFileName.
//
// RETURNS:
//   - The path to the archived copy.
//   - An error if archival fails.
func ArchiveOutputFile(archiveDir, filePath, nameFormat string) (string, error) {
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	name := GenerateArchiveFileName(nameFormat, ext, map[string]string{
		"original": strings.TrimSuffix(base, ext),
	})

	archivePath := filepath.Join(archiveDir, name)
	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// GenerateArchiveFileName generates a unique archive file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//             plus one {key} per entry in params.
//   - ext: Extension appended unless the result already ends with it.
//   - params: Additional placeholder values.
//
// EXAMPLE:
//   format: "{original}_{timestamp}_{uuid}"
//   params: {"original": "sessions"}
//   output: "sessions_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.csv"
func GenerateArchiveFileName(format, ext string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Placeholders must not smuggle in directories.
	result = strings.ReplaceAll(result, string(filepath.Separator), "_")

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
