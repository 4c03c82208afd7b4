// =============================================================================
// Address Book Utility - Schema Loading
// =============================================================================
//
// This module loads an XML Schema Definition document into an immutable
// Schema handle. Compilation and instance validation are done by the
// github.com/jacoelho/xsd engine; this file keeps the raw source and the
// global element names so failures can name what the schema expects.
//
// =============================================================================

package validation

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/jacoelho/xsd"

	"github.com/ginjaninja78/address-book-utility/internal/xmlreader"
)

// =============================================================================
// SCHEMA MODEL
// =============================================================================

// Schema is a compiled, immutable schema. It is safe to share.
type Schema struct {
	// TargetNamespace is the schema's targetNamespace, or "".
	TargetNamespace string

	compiled *xsd.Schema
	elements []string
	source   []byte
}

// GlobalElements returns the names of the global element declarations in
// sorted order.
func (s *Schema) GlobalElements() []string {
	return append([]string(nil), s.elements...)
}

// Source returns the XSD text the schema was compiled from.
func (s *Schema) Source() []byte {
	return append([]byte(nil), s.source...)
}

// =============================================================================
// LOADING
// =============================================================================

// LoadSchema reads and compiles the XSD document name from fsys.
//
// PARAMETERS:
//   - fsys: Filesystem holding the schema and anything it includes
//   - name: Path of the schema document inside fsys
//
// RETURNS:
//   - The compiled schema
//   - An error if the document cannot be read or is not a valid schema
func LoadSchema(fsys fs.FS, name string) (*Schema, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
	}

	root, err := xmlreader.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", name, err)
	}
	if root.LocalName() != "schema" {
		return nil, fmt.Errorf("schema %s: root element <%s> is not an xs:schema", name, root.Name)
	}

	compiled, err := xsd.Load(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	schema := &Schema{
		compiled: compiled,
		source:   data,
	}
	schema.TargetNamespace, _ = root.Attr("targetNamespace")

	for _, child := range root.Children {
		if child.LocalName() != "element" {
			continue
		}
		if elementName, ok := child.Attr("name"); ok {
			schema.elements = append(schema.elements, elementName)
		}
	}
	sort.Strings(schema.elements)

	return schema, nil
}
