// =============================================================================
// Address Book Utility - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - converter
//   - validation
//   - xmlreader / xmlwriter
//   - input
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// INPUT TYPES
// =============================================================================

// InputType tags the format of an ingested document. It is decided once at
// ingestion time and matched exhaustively afterwards.
type InputType int

const (
	// InputXML marks XML content.
	InputXML InputType = iota + 1

	// InputJSON marks JSON content.
	InputJSON
)

// String returns the lower-case name of the input type.
func (t InputType) String() string {
	switch t {
	case InputXML:
		return "xml"
	case InputJSON:
		return "json"
	default:
		return fmt.Sprintf("InputType(%d)", int(t))
	}
}

// AddressInput is the result of ingestion: the content plus its type.
// It is created once per invocation and never modified.
type AddressInput struct {
	// Type is the detected or declared format of Content.
	Type InputType

	// Content is the raw document text.
	Content string

	// Source is the path or URL the content was read from (for messages).
	Source string
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Operation is one of the actions the CLI can perform on an input.
type Operation string

const (
	OpConvertToJSON Operation = "convert-to-json"
	OpConvertToXML  Operation = "convert-to-xml"
	OpValidateXML   Operation = "validate-xml"
	OpConvertToXLSX Operation = "convert-to-xlsx"
)

// Operations lists every supported operation in help-text order.
var Operations = []Operation{OpConvertToJSON, OpConvertToXML, OpValidateXML, OpConvertToXLSX}

// ParseOperation maps a flag value to an Operation.
func ParseOperation(s string) (Operation, bool) {
	for _, op := range Operations {
		if string(op) == strings.TrimSpace(s) {
			return op, true
		}
	}
	return "", false
}

// OperationNames returns the operations as a comma-separated list for
// help text and error messages.
func OperationNames() string {
	names := make([]string, len(Operations))
	for i, op := range Operations {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

// WritesOutput reports whether the operation produces an output file.
func (o Operation) WritesOutput() bool {
	return o != OpValidateXML
}

// =============================================================================
// DOCUMENT TREE
// =============================================================================

// Attr is a single XML attribute. Name keeps any namespace prefix as written
// in the source document (e.g. "xmlns:ab").
type Attr struct {
	Name  string
	Value string
}

// ElementNode is an XML element with its attributes, child elements and
// direct text content. A parent owns its children; there are no back
// references.
type ElementNode struct {
	// Name is the qualified element name as written (e.g. "ab:contact").
	Name string

	// Attrs holds the attributes in document order.
	Attrs []Attr

	// Children holds the child elements in document order.
	Children []*ElementNode

	// Text is the whitespace-trimmed character data directly inside
	// the element. Empty when the element has no text.
	Text string
}

// Attr returns the value of the named attribute.
func (n *ElementNode) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// LocalName returns Name without its namespace prefix.
func (n *ElementNode) LocalName() string {
	return LocalPart(n.Name)
}

// LocalPart strips an optional "prefix:" from a qualified name.
func LocalPart(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
