// =============================================================================
// Address Book Utility - XML Writer Module
// =============================================================================
//
// This module serializes an ElementNode tree into indented XML text. It is the
// last step of JSON to XML conversion.
//
// OUTPUT SHAPE:
//   <?xml version="1.0" encoding="UTF-8"?>      <!-- optional declaration -->
//   <addressBook>
//       <contact id="1">                        <!-- attributes in order -->
//           <firstName>Ada</firstName>          <!-- text stays inline -->
//           <email/>                            <!-- empty elements close -->
//       </contact>
//   </addressBook>
//
// MIXED CONTENT:
//   An element carrying both text and children writes its text first, on its
//   own indented line, followed by the children.
//
// CHARACTERS:
//   Text and attribute values may only hold characters XML 1.0 allows.
//   Anything else is a MalformedInput error. Carriage returns are written as
//   &#xD; so parsers do not fold them into line feeds.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
	"strings"

	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
	"github.com/ginjaninja78/address-book-utility/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for one level of indentation.
	// Default: "    " (four spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "    ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate serializes the tree rooted at root with the default options.
func Generate(root *types.ElementNode) ([]byte, error) {
	return GenerateWithOptions(root, DefaultGenerateOptions())
}

// GenerateWithOptions serializes the tree rooted at root.
//
// RETURNS:
//   - The XML document as a byte slice, ending with a newline.
//   - An error if the tree has no root, an unnamed element, or a character
//     XML cannot represent.
func GenerateWithOptions(root *types.ElementNode, options GenerateOptions) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("no root element to write")
	}

	var buffer bytes.Buffer

	// Write XML declaration if requested.
	if options.IncludeXMLDeclaration {
		version := options.XMLVersion
		if version == "" {
			version = "1.0"
		}
		encoding := options.Encoding
		if encoding == "" {
			encoding = "UTF-8"
		}
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n", version, encoding))
	}

	if err := writeElement(&buffer, root, options.Indent, 0); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element *types.ElementNode, indent string, level int) error {
	if element.Name == "" {
		return fmt.Errorf("element at depth %d has no name", level)
	}

	prefix := strings.Repeat(indent, level)
	buffer.WriteString(prefix)

	// Write opening tag.
	buffer.WriteString("<")
	buffer.WriteString(element.Name)

	// Write attributes.
	for _, attr := range element.Attrs {
		if err := checkChars(attr.Value, fmt.Sprintf("attribute %s of <%s>", attr.Name, element.Name)); err != nil {
			return err
		}
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name, escapeAttr(attr.Value)))
	}

	// Check if element has children or value.
	if len(element.Children) == 0 && element.Text == "" {
		// Self-closing tag.
		buffer.WriteString("/>\n")
		return nil
	}

	buffer.WriteString(">")

	if err := checkChars(element.Text, fmt.Sprintf("text of <%s>", element.Name)); err != nil {
		return err
	}

	if len(element.Children) == 0 {
		// Simple element with text value.
		buffer.WriteString(escapeXML(element.Text))
	} else {
		// Element with children, optionally preceded by its own text.
		buffer.WriteString("\n")

		if element.Text != "" {
			buffer.WriteString(prefix + indent)
			buffer.WriteString(escapeXML(element.Text))
			buffer.WriteString("\n")
		}

		for _, child := range element.Children {
			if err := writeElement(buffer, child, indent, level+1); err != nil {
				return err
			}
		}

		// Write indentation for closing tag.
		buffer.WriteString(prefix)
	}

	// Write closing tag.
	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")

	return nil
}

// escapeXML escapes special characters in text content.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '\r':
			buffer.WriteString("&#xD;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// checkChars rejects characters outside the XML 1.0 Char production.
func checkChars(s, where string) error {
	for i, r := range s {
		if !isXMLChar(r) {
			return apperrors.Newf(apperrors.KindMalformedInput,
				"%s contains character U+%04X at offset %d, which XML does not allow", where, r, i)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// escapeAttr escapes special characters in attribute values. Whitespace
// control characters are written as references so they survive attribute
// value normalization when the document is read back.
func escapeAttr(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\n':
			buffer.WriteString("&#xA;")
		case '\r':
			buffer.WriteString("&#xD;")
		case '\t':
			buffer.WriteString("&#x9;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}
