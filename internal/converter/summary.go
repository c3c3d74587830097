// =============================================================================
// SecureCRT Session Extractor - Session Summary
// =============================================================================
//
// This module builds the per-folder inventory printed by the inspect command.
//
// OUTPUT FORMAT:
//   | FOLDER    | SESSIONS | PROTOCOLS         |
//   | (root)    | 1        | SSH2=1            |
//   | Work      | 3        | SSH2=2, Telnet=1  |
//   | Total     | 4        |                   |
//
// =============================================================================

package converter

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ginjaninja78/scrt-session-extractor/internal/extractor"
	"github.com/ginjaninja78/scrt-session-extractor/internal/types"
)

// =============================================================================
// SUMMARY TYPES
// =============================================================================

// RootFolder labels sessions stored directly under the Sessions container.
const RootFolder = "(root)"

// FolderSummary counts the sessions of one folder.
type FolderSummary struct {
	Folder    string
	Sessions  int
	Protocols map[string]int
}

// Summary is a per-folder inventory of an export, folders in first-seen order.
type Summary struct {
	Folders []*FolderSummary
	Total   int
}

// =============================================================================
// SUMMARY BUILDING
// =============================================================================

// Summarize consumes sessions with their key paths, as yielded by
// extractor.Sessions, and groups them by folder. Folders are told apart by
// their key names, so "a/b" as one key and "a" holding "b" stay separate.
func Summarize(sessions iter.Seq2[[]string, types.Record]) Summary {
	var summary Summary
	index := make(map[string]*FolderSummary)

	for path, record := range sessions {
		var folder []string
		if len(path) > 0 {
			folder = path[:len(path)-1]
		}
		key := strconv.Itoa(len(folder)) + "\x00" + strings.Join(folder, "\x00")

		entry, ok := index[key]
		if !ok {
			entry = &FolderSummary{Folder: folderLabel(folder), Protocols: make(map[string]int)}
			index[key] = entry
			summary.Folders = append(summary.Folders, entry)
		}

		entry.Sessions++
		entry.Protocols[record.Protocol]++
		summary.Total++
	}

	return summary
}

// folderLabel joins folder key names for display.
func folderLabel(folder []string) string {
	if len(folder) == 0 {
		return RootFolder
	}
	return strings.Join(folder, extractor.PathSeparator)
}

// protocolList renders protocol counts as "SSH2=3, Telnet=1", sorted by name.
func (f *FolderSummary) protocolList() string {
	names := make([]string, 0, len(f.Protocols))
	for name := range f.Protocols {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, f.Protocols[name])
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderSummary writes the summary as a text table.
func RenderSummary(w io.Writer, summary Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header("Folder", "Sessions", "Protocols")

	for _, folder := range summary.Folders {
		row := []string{folder.Folder, strconv.Itoa(folder.Sessions), folder.protocolList()}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render folder %q: %w", folder.Folder, err)
		}
	}
	if err := table.Append([]string{"Total", strconv.Itoa(summary.Total), ""}); err != nil {
		return fmt.Errorf("failed to render total: %w", err)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	return nil
}
