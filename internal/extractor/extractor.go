// =============================================================================
// SecureCRT Session Extractor - Session Extractor
// =============================================================================
//
// This module flattens the Sessions tree into session records.
//
// RULES:
//   - A key with child keys is a folder; only its children are visited
//   - A key without child keys is a session candidate
//   - A candidate becomes a record only when it has a non-empty Hostname
//   - Port and protocol fall back to DefaultPort and DefaultProtocol
//
// =============================================================================

package extractor

import (
	"iter"
	"strings"

	"github.com/ginjaninja78/scrt-session-extractor/internal/scrtxml"
	"github.com/ginjaninja78/scrt-session-extractor/internal/types"
)

// =============================================================================
// FIELD NAMES AND DEFAULTS
// =============================================================================

// Values used when a session does not set them.
const (
	DefaultPort     = "22"
	DefaultProtocol = "SSH2"
)

// Names of the value elements read from a session key.
const (
	FieldHostname = "Hostname"
	FieldPort     = "[SSH2] Port"
	FieldProtocol = "Protocol Name"
)

// PathSeparator joins key names into a record name.
const PathSeparator = "/"

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract walks node depth-first and yields one record per session, in
// document order. path holds the key names already above node; it is never
// modified. Each range over the result walks the tree again.
func Extract(node *scrtxml.Node, path []string) iter.Seq[types.Record] {
	return func(yield func(types.Record) bool) {
		for _, record := range Sessions(node, path) {
			if !yield(record) {
				return
			}
		}
	}
}

// Sessions is Extract, also yielding the key names leading to each session,
// its own name last. Key names may contain the path separator, so callers
// grouping by folder should use these segments rather than split Name. The
// yielded slice must not be modified.
func Sessions(node *scrtxml.Node, path []string) iter.Seq2[[]string, types.Record] {
	return func(yield func([]string, types.Record) bool) {
		walk(node, path, yield)
	}
}

// walk returns false once the consumer has stopped.
func walk(node *scrtxml.Node, path []string, yield func([]string, types.Record) bool) bool {
	if keys := node.Keys(); len(keys) > 0 {
		for _, child := range keys {
			if !walk(child, extend(path, child.Name()), yield) {
				return false
			}
		}
		return true
	}

	record, ok := leafRecord(node, path)
	if !ok {
		return true
	}
	return yield(path, record)
}

// extend returns a new slice; siblings never share a backing array.
func extend(path []string, segment string) []string {
	next := make([]string, len(path), len(path)+1)
	copy(next, path)
	return append(next, segment)
}

// leafRecord reads the session fields of a leaf key. When a field appears more
// than once the last occurrence is used.
func leafRecord(node *scrtxml.Node, path []string) (types.Record, bool) {
	var address, port, protocol string

	for _, child := range node.Children {
		switch {
		case child.Is(scrtxml.TagString) && child.Name() == FieldHostname:
			address = child.Text
		case child.Is(scrtxml.TagDword) && child.Name() == FieldPort:
			port = child.Text
		case child.Is(scrtxml.TagString) && child.Name() == FieldProtocol:
			protocol = child.Text
		}
	}

	if address == "" {
		return types.Record{}, false
	}

	return types.Record{
		Name:     strings.Join(path, PathSeparator),
		Address:  address,
		Port:     orDefault(port, DefaultPort),
		Protocol: orDefault(protocol, DefaultProtocol),
	}, true
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
