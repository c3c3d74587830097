// =============================================================================
// SecureCRT Session Extractor - XML Tree Module
// =============================================================================
//
// This module reads a SecureCRT XML export into a generic, read-only element
// tree and locates the container that holds every saved session.
//
// XML STRUCTURE:
//   SecureCRT stores its configuration as nested <key> elements. Leaf values
//   are typed elements carrying a name attribute and a text value:
//
//   <VanDyke version="3.0">
//     <key name="Sessions">                      <!-- located by FindSessions -->
//       <key name="Work">                        <!-- folder -->
//         <key name="srv1">                      <!-- session -->
//           <string name="Hostname">10.0.0.5</string>
//           <dword name="[SSH2] Port">22</dword>
//           <string name="Protocol Name">SSH2</string>
//         </key>
//       </key>
//     </key>
//   </VanDyke>
//
// ENCODINGS:
//   A UTF-16 byte order mark selects UTF-16 and the input is transcoded to
//   UTF-8 before decoding, since encoding/xml reads the declaration as UTF-8.
//   Without a UTF-16 mark, the declaration's encoding is honoured (ISO-8859-1,
//   Windows-1252, ...) through golang.org/x/net/html/charset.
//
// =============================================================================

package scrtxml

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// ELEMENT AND ATTRIBUTE NAMES
// =============================================================================

const (
	// TagKey is the element used for folders, sessions and the Sessions root.
	TagKey = "key"

	// TagString is the element used for text values.
	TagString = "string"

	// TagDword is the element used for 32-bit integer values.
	TagDword = "dword"

	// AttrName is the attribute naming every key and value element.
	AttrName = "name"

	// SessionsKey is the name of the key that holds all sessions.
	SessionsKey = "Sessions"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionsNotFound is returned by FindSessions when the document has no
// Sessions container.
var ErrSessionsNotFound = errors.New("Could not find Sessions node in XML.")

// ParseError reports a document that could not be read as XML.
type ParseError struct {
	// Source identifies the input: a file path, or "stdin".
	Source string

	// Err is the underlying decoder error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("Error parsing XML from %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// =============================================================================
// TREE NODE
// =============================================================================

// Node is one element of the parsed document. Attributes and children keep
// document order. Text holds the element's character data.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Node    `xml:",any"`
}

// Is reports whether the node is an un-namespaced element with the given tag.
func (n *Node) Is(tag string) bool {
	return n.XMLName.Space == "" && n.XMLName.Local == tag
}

// Attr returns the value of the named attribute, or "" when it is absent.
func (n *Node) Attr(name string) string {
	for _, attr := range n.Attrs {
		if attr.Name.Space == "" && attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// Name returns the node's name attribute.
func (n *Node) Name() string {
	return n.Attr(AttrName)
}

// Keys returns the immediate children that are <key> elements, in order.
func (n *Node) Keys() []*Node {
	var keys []*Node
	for _, child := range n.Children {
		if child.Is(TagKey) {
			keys = append(keys, child)
		}
	}
	return keys
}

// Find returns the first descendant, in pre-order, for which match returns
// true. The receiver itself is not considered.
func (n *Node) Find(match func(*Node) bool) *Node {
	for _, child := range n.Children {
		if match(child) {
			return child
		}
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// =============================================================================
// PARSING
// =============================================================================

// Parse decodes a whole document from r. source is only used for error
// reporting. Anything other than whitespace, comments or processing
// instructions after the root element is rejected.
func Parse(r io.Reader, source string) (*Node, error) {
	input, utf16 := decodeBOM(r)

	decoder := xml.NewDecoder(input)
	decoder.CharsetReader = charsetReader(utf16)

	var root Node
	if err := decoder.Decode(&root); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	if err := expectEnd(decoder); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	return &root, nil
}

// UTF-16 byte order marks, little and big endian.
var (
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// decodeBOM strips a leading byte order mark and transcodes UTF-16 input to
// UTF-8. It reports whether the input was UTF-16.
func decodeBOM(r io.Reader) (io.Reader, bool) {
	buffered := bufio.NewReader(r)
	head, _ := buffered.Peek(2)
	utf16 := bytes.Equal(head, bomUTF16LE) || bytes.Equal(head, bomUTF16BE)

	return transform.NewReader(buffered, unicode.BOMOverride(transform.Nop)), utf16
}

// charsetReader returns the decoder's CharsetReader. Once a UTF-16 mark has
// been decoded the stream is already UTF-8 and the declared label is ignored.
func charsetReader(utf16 bool) func(string, io.Reader) (io.Reader, error) {
	if utf16 {
		return func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		}
	}
	return charset.NewReaderLabel
}

// expectEnd drains the decoder and fails on a second root element or stray
// text.
func expectEnd(decoder *xml.Decoder) error {
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			line, col := decoder.InputPos()
			return fmt.Errorf("junk after document element: <%s> at line %d, column %d", t.Name.Local, line, col)
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				line, col := decoder.InputPos()
				return fmt.Errorf("junk after document element: text at line %d, column %d", line, col)
			}
		}
	}
}

// =============================================================================
// TREE LOCATOR
// =============================================================================

// FindSessions returns the first <key name="Sessions"> below root in
// document order.
func FindSessions(root *Node) (*Node, error) {
	sessions := root.Find(func(n *Node) bool {
		return n.Is(TagKey) && n.Name() == SessionsKey
	})
	if sessions == nil {
		return nil, ErrSessionsNotFound
	}
	return sessions, nil
}
