// =============================================================================
// Address Book Utility - XML Reader Module
// =============================================================================
//
// This module parses XML text into an ElementNode tree. The whole document is
// materialized in memory; both the converter and the schema validator work on
// the resulting tree.
//
// PARSING RULES:
//   - Element and attribute names keep their namespace prefix as written
//     ("ab:contact"), so a document can be written back unchanged
//   - Text directly inside an element is concatenated and trimmed
//   - Comments, processing instructions and directives are skipped
//   - Exactly one root element is required
//
// =============================================================================

package xmlreader

import (
	"encoding/xml"
	"io"
	"strings"

	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
	"github.com/ginjaninja78/address-book-utility/internal/types"
)

// Parse parses XML text into an element tree.
//
// RETURNS:
//   - The root element.
//   - An EmptyInput error for blank input, a MalformedInput error for
//     anything that is not a single well-formed element tree.
func Parse(text string) (*types.ElementNode, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.New(apperrors.KindEmptyInput, "XML input is empty", nil)
	}

	p := &parser{decoder: xml.NewDecoder(strings.NewReader(text))}
	return p.parseDocument()
}

// =============================================================================
// PARSER STATE
// =============================================================================

// parser holds the open-element stack while tokens are consumed.
type parser struct {
	decoder *xml.Decoder
	root    *types.ElementNode
	stack   []*openElement
}

// openElement is an element whose end tag has not been seen yet.
type openElement struct {
	node *types.ElementNode
	text strings.Builder
}

func (p *parser) parseDocument() (*types.ElementNode, error) {
	for {
		// RawToken keeps prefixes untranslated; start/end matching is
		// checked by the parser itself.
		token, err := p.decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, malformed(err.Error())
		}

		if err := p.processToken(token); err != nil {
			return nil, err
		}
	}

	if len(p.stack) > 0 {
		return nil, malformed("unexpected end of document: element <" + p.stack[len(p.stack)-1].node.Name + "> is not closed")
	}
	if p.root == nil {
		return nil, malformed("document contains no root element")
	}

	return p.root, nil
}

func (p *parser) processToken(token xml.Token) error {
	switch t := token.(type) {
	case xml.StartElement:
		return p.handleStartElement(t)
	case xml.EndElement:
		return p.handleEndElement(t)
	case xml.CharData:
		return p.handleCharData(t)
	default:
		// Comments, processing instructions and directives carry no data.
		return nil
	}
}

func (p *parser) handleStartElement(element xml.StartElement) error {
	if len(p.stack) == 0 && p.root != nil {
		return malformed("document has more than one root element: <" + qualified(element.Name) + ">")
	}

	node := &types.ElementNode{Name: qualified(element.Name)}
	for _, attr := range element.Attr {
		node.Attrs = append(node.Attrs, types.Attr{Name: qualified(attr.Name), Value: attr.Value})
	}

	if len(p.stack) == 0 {
		p.root = node
	} else {
		parent := p.stack[len(p.stack)-1].node
		parent.Children = append(parent.Children, node)
	}

	p.stack = append(p.stack, &openElement{node: node})
	return nil
}

func (p *parser) handleEndElement(element xml.EndElement) error {
	name := qualified(element.Name)
	if len(p.stack) == 0 {
		return malformed("unexpected end element </" + name + ">")
	}

	top := p.stack[len(p.stack)-1]
	if top.node.Name != name {
		return malformed("element <" + top.node.Name + "> closed by </" + name + ">")
	}

	top.node.Text = strings.TrimSpace(top.text.String())
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

func (p *parser) handleCharData(data xml.CharData) error {
	if len(p.stack) == 0 {
		if strings.TrimSpace(string(data)) != "" {
			return malformed("text outside the root element")
		}
		return nil
	}
	p.stack[len(p.stack)-1].text.Write(data)
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// qualified joins a raw (untranslated) name back into "prefix:local".
func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func malformed(msg string) error {
	return apperrors.New(apperrors.KindMalformedInput, "invalid XML: "+msg, nil)
}
