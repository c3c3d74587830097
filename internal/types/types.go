// =============================================================================
// SecureCRT Session Extractor - Shared Types
// =============================================================================
//
// This package contains the record type shared by the extractor and every
// output sink, so that none of them has to import another. Types defined here
// are used by:
//   - extractor
//   - csvwriter
//   - xlsxwriter
//   - converter
//
// =============================================================================

package types

// =============================================================================
// SESSION RECORD
// =============================================================================

// Record is one connectable endpoint flattened out of the session tree.
type Record struct {
	// Name is the "/"-joined chain of folder and session key names below the
	// Sessions container, e.g. "Work/srv1".
	Name string

	// Address is the host name or IP address. A record is never built
	// without one.
	Address string

	// Port is kept verbatim as found in the document.
	Port string

	// Protocol is the SecureCRT protocol name, e.g. "SSH2" or "Telnet".
	Protocol string
}

// Column names, in output order.
const (
	ColumnName     = "name"
	ColumnAddress  = "address"
	ColumnPort     = "port"
	ColumnProtocol = "protocol"
)

// Header returns the fixed column order used by every tabular sink.
func Header() []string {
	return []string{ColumnName, ColumnAddress, ColumnPort, ColumnProtocol}
}

// Fields returns the record values in Header order.
func (r Record) Fields() []string {
	return []string{r.Name, r.Address, r.Port, r.Protocol}
}
