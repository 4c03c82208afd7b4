// =============================================================================
// Address Book Utility - XML/JSON Mapping
// =============================================================================
//
// This module implements the structural mapping between an XML element tree
// and a JSON value tree. The same convention is applied in both directions:
//
//   XML                                   JSON
//   ---------------------------------     -----------------------------------
//   <book>...</book> (root)               {"book": ...}  (single top-level key)
//   attribute id="7"                      "@id": "7"
//   <name>Ada</name> (no attrs/children)  "name": "Ada"
//   <phone type="home">555</phone>        "phone": {"@type": "home", "#text": 555}
//   one <person> under a parent           "person": {...}          (bare value)
//   several <person> under a parent       "person": [{...}, {...}] (array)
//   <empty/>                              "empty": ""
//
// KNOWN ASYMMETRY:
//   A single child is a bare value and several children are an array, so a
//   JSON array with one item and a bare value both become one XML element.
//   Converting that XML back yields the bare value. Only documents produced
//   by this same convention round-trip losslessly; no schema-aware guessing
//   is attempted.
//
// =============================================================================

package converter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ginjaninja78/address-book-utility/internal/config"
	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
	"github.com/ginjaninja78/address-book-utility/internal/jsonvalue"
	"github.com/ginjaninja78/address-book-utility/internal/logging"
	"github.com/ginjaninja78/address-book-utility/internal/types"
	"github.com/ginjaninja78/address-book-utility/internal/xmlreader"
	"github.com/ginjaninja78/address-book-utility/internal/xmlwriter"
)

// =============================================================================
// MAPPING OPTIONS
// =============================================================================

// Options controls the mapping convention and output formatting.
type Options struct {
	// AttributePrefix marks JSON keys that are XML attributes.
	AttributePrefix string

	// TextKey holds element text when attributes or children coexist with it.
	TextKey string

	// Indent is one level of indentation in JSON and XML output.
	Indent string

	// CoerceValues turns numeric/boolean XML text into JSON numbers/booleans.
	CoerceValues bool

	// XMLDeclaration prefixes XML output with <?xml ...?>.
	XMLDeclaration bool
}

// DefaultOptions returns the options matching the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig builds mapping options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		AttributePrefix: cfg.AttributePrefix,
		TextKey:         cfg.TextKey,
		Indent:          cfg.IndentString(),
		CoerceValues:    cfg.CoerceValues,
		XMLDeclaration:  cfg.XMLDeclaration,
	}
}

// =============================================================================
// MAPPER
// =============================================================================

// Mapper converts documents between XML and JSON. It holds no per-document
// state and can be reused.
type Mapper struct {
	options     Options
	transformer *Transformer
	logger      *slog.Logger
}

// NewMapper creates a Mapper. A nil logger discards log output.
func NewMapper(options Options, logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Mapper{
		options:     options,
		transformer: NewTransformer(options.CoerceValues),
		logger:      logger,
	}
}

// ToJSON converts XML text with the default options.
func ToJSON(xmlText string) (any, error) {
	return NewMapper(DefaultOptions(), nil).ToJSON(xmlText)
}

// ToXML converts a JSON value tree with the default options.
func ToXML(value any) (string, error) {
	return NewMapper(DefaultOptions(), nil).ToXML(value)
}

// =============================================================================
// XML -> JSON
// =============================================================================

// ToJSON parses XML text and maps it to a JSON value tree whose single
// top-level key is the root element name.
func (m *Mapper) ToJSON(xmlText string) (any, error) {
	root, err := xmlreader.Parse(xmlText)
	if err != nil {
		return nil, err
	}

	doc := jsonvalue.NewObject()
	doc.Set(root.Name, m.NodeToJSON(root))

	m.logger.Debug("mapped XML to JSON", "root", root.Name, "children", len(root.Children))
	return doc, nil
}

// XMLToJSONText converts XML text to indented JSON text.
func (m *Mapper) XMLToJSONText(xmlText string) (string, error) {
	value, err := m.ToJSON(xmlText)
	if err != nil {
		return "", err
	}

	out, err := jsonvalue.Encode(value, m.options.Indent)
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(out), nil
}

// NodeToJSON maps one element to its JSON value.
func (m *Mapper) NodeToJSON(node *types.ElementNode) any {
	if len(node.Attrs) == 0 && len(node.Children) == 0 {
		return m.transformer.TextToJSON(node.Text)
	}

	obj := jsonvalue.NewObject()

	for _, attr := range node.Attrs {
		obj.Set(m.options.AttributePrefix+attr.Name, attr.Value)
	}

	if node.Text != "" {
		obj.Set(m.options.TextKey, m.transformer.TextToJSON(node.Text))
	}

	// Group children by tag, in first-seen order.
	var order []string
	grouped := make(map[string][]any)
	for _, child := range node.Children {
		if _, seen := grouped[child.Name]; !seen {
			order = append(order, child.Name)
		}
		grouped[child.Name] = append(grouped[child.Name], m.NodeToJSON(child))
	}

	for _, name := range order {
		values := grouped[name]
		if len(values) == 1 {
			obj.Set(name, values[0])
		} else {
			obj.Set(name, values)
		}
	}

	return obj
}

// =============================================================================
// JSON -> XML
// =============================================================================

// ToXML maps a JSON value tree to XML text. The value must be an object with
// exactly one key, which names the root element.
func (m *Mapper) ToXML(value any) (string, error) {
	root, err := m.JSONToNode(value)
	if err != nil {
		return "", err
	}

	out, err := xmlwriter.GenerateWithOptions(root, xmlwriter.GenerateOptions{
		Indent:                m.options.Indent,
		IncludeXMLDeclaration: m.options.XMLDeclaration,
	})
	if err != nil {
		return "", fmt.Errorf("failed to write XML: %w", err)
	}

	m.logger.Debug("mapped JSON to XML", "root", root.Name, "children", len(root.Children))
	return string(out), nil
}

// JSONToXMLText converts JSON text to XML text.
func (m *Mapper) JSONToXMLText(jsonText string) (string, error) {
	value, err := jsonvalue.Decode(jsonText)
	if err != nil {
		return "", err
	}
	return m.ToXML(value)
}

// JSONToNode maps a JSON document to its root element.
func (m *Mapper) JSONToNode(value any) (*types.ElementNode, error) {
	entries, ok := jsonvalue.Entries(value)
	if !ok {
		return nil, apperrors.Newf(apperrors.KindAmbiguousRoot,
			"top-level JSON value must be an object with exactly one key, got %s", describe(value))
	}
	if len(entries) != 1 {
		keys := make([]string, 0, len(entries))
		for _, e := range entries {
			keys = append(keys, fmt.Sprintf("%q", e.Key))
		}
		return nil, apperrors.Newf(apperrors.KindAmbiguousRoot,
			"top-level JSON object must have exactly one key to name the root element, got %d [%s]",
			len(entries), strings.Join(keys, ", "))
	}

	root := entries[0]
	if _, isArray := root.Value.([]any); isArray {
		return nil, apperrors.Newf(apperrors.KindAmbiguousRoot,
			"root key %q holds an array, which would produce more than one root element", root.Key)
	}

	return m.jsonToNode(root.Key, root.Value, root.Key)
}

// jsonToNode builds the element called name from value. path locates the
// value in the document for error messages.
func (m *Mapper) jsonToNode(name string, value any, path string) (*types.ElementNode, error) {
	if !ValidName(name) {
		return nil, invalidJSON(path, "%q is not a valid XML element name", name)
	}

	node := &types.ElementNode{Name: name}

	entries, isObject := jsonvalue.Entries(value)
	if !isObject {
		text, err := m.transformer.ScalarToText(value)
		if err != nil {
			return nil, invalidJSON(path, "%v", err)
		}
		node.Text = text
		return node, nil
	}

	for _, entry := range entries {
		childPath := path + "." + entry.Key

		switch {
		case entry.Key == m.options.TextKey:
			text, err := m.transformer.ScalarToText(entry.Value)
			if err != nil {
				return nil, invalidJSON(childPath, "%v", err)
			}
			node.Text = text

		case strings.HasPrefix(entry.Key, m.options.AttributePrefix) && len(entry.Key) > len(m.options.AttributePrefix):
			attrName := strings.TrimPrefix(entry.Key, m.options.AttributePrefix)
			if !ValidName(attrName) {
				return nil, invalidJSON(childPath, "%q is not a valid XML attribute name", attrName)
			}
			text, err := m.transformer.ScalarToText(entry.Value)
			if err != nil {
				return nil, invalidJSON(childPath, "attribute %v", err)
			}
			node.Attrs = append(node.Attrs, types.Attr{Name: attrName, Value: text})

		default:
			if err := m.appendChildren(node, entry.Key, entry.Value, childPath); err != nil {
				return nil, err
			}
		}
	}

	return node, nil
}

// appendChildren adds the element(s) for key to parent. Arrays become runs
// of sibling elements; nested arrays join the same run.
func (m *Mapper) appendChildren(parent *types.ElementNode, key string, value any, path string) error {
	items, isArray := value.([]any)
	if !isArray {
		child, err := m.jsonToNode(key, value, path)
		if err != nil {
			return err
		}
		parent.Children = append(parent.Children, child)
		return nil
	}

	for i, item := range items {
		if err := m.appendChildren(parent, key, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func invalidJSON(path, format string, args ...any) error {
	return apperrors.Newf(apperrors.KindMalformedInput, "cannot map JSON to XML at %s: %s", path, fmt.Sprintf(format, args...))
}
