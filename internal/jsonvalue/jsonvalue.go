// =============================================================================
// Address Book Utility - JSON Value Module
// =============================================================================
//
// This module defines the in-memory JSON representation used by the converter
// and the spreadsheet exporter, and reads/writes it as text.
//
// VALUE TYPES:
//   *Object      - object; keys keep document (first-seen) order
//   []any        - array
//   string       - string
//   json.Number  - number, holding its literal text
//   bool         - boolean
//   nil          - null
//
// Key order matters: output must follow the order of the source document so
// that conversions are diff-friendly. Objects are therefore ordered maps
// rather than Go maps.
//
// =============================================================================

package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
)

// Object is an insertion-ordered JSON object.
type Object = orderedmap.OrderedMap[string, any]

// NewObject creates an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Entry is a single key/value pair of an object.
type Entry struct {
	Key   string
	Value any
}

// Entries returns the key/value pairs of an object value in order. Plain Go
// maps are accepted too and are visited in sorted key order. The second
// result is false when value is not an object.
func Entries(value any) ([]Entry, bool) {
	switch obj := value.(type) {
	case *Object:
		if obj == nil {
			return nil, true
		}
		entries := make([]Entry, 0, obj.Len())
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			entries = append(entries, Entry{Key: pair.Key, Value: pair.Value})
		}
		return entries, true
	case map[string]any:
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, Entry{Key: k, Value: obj[k]})
		}
		return entries, true
	default:
		return nil, false
	}
}

// =============================================================================
// DECODING
// =============================================================================

// Decode parses JSON text into a value tree. Objects keep their key order;
// numbers are kept as json.Number.
//
// RETURNS:
//   - The decoded value.
//   - An EmptyInput error for blank text, a MalformedInput error for invalid
//     JSON or trailing data after the first value.
func Decode(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.New(apperrors.KindEmptyInput, "JSON input is empty", nil)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return nil, malformed(err)
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected data after top-level value")
		}
		return nil, malformed(err)
	}

	return value, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	token, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := token.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		// string, json.Number, bool or nil
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (any, error) {
	obj := NewObject()
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", token)
		}
		if _, exists := obj.Get(key); exists {
			return nil, fmt.Errorf("duplicate key %q", key)
		}

		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (any, error) {
	items := []any{}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		items = append(items, value)
	}

	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

func malformed(err error) error {
	return apperrors.New(apperrors.KindMalformedInput, "invalid JSON", err)
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode writes a value tree as indented JSON followed by a newline. HTML
// characters are not escaped.
func Encode(value any, indent string) ([]byte, error) {
	var buffer bytes.Buffer
	w := &writer{buffer: &buffer, indent: indent}
	if err := w.writeValue(value, 0); err != nil {
		return nil, err
	}
	buffer.WriteString("\n")
	return buffer.Bytes(), nil
}

type writer struct {
	buffer *bytes.Buffer
	indent string
}

func (w *writer) writeValue(value any, level int) error {
	if entries, ok := Entries(value); ok {
		return w.writeObject(entries, level)
	}

	switch v := value.(type) {
	case []any:
		return w.writeArray(v, level)
	case string:
		return w.writeString(v)
	case json.Number:
		if !json.Valid([]byte(v)) {
			return fmt.Errorf("invalid number literal %q", string(v))
		}
		w.buffer.WriteString(string(v))
	case bool:
		if v {
			w.buffer.WriteString("true")
		} else {
			w.buffer.WriteString("false")
		}
	case nil:
		w.buffer.WriteString("null")
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("unsupported number %v", v)
		}
		return w.writeScalar(v)
	case float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return w.writeScalar(v)
	default:
		return fmt.Errorf("unsupported JSON value of type %T", value)
	}
	return nil
}

func (w *writer) writeObject(entries []Entry, level int) error {
	if len(entries) == 0 {
		w.buffer.WriteString("{}")
		return nil
	}

	w.buffer.WriteString("{\n")
	for i, entry := range entries {
		if i > 0 {
			w.buffer.WriteString(",\n")
		}
		w.writeIndent(level + 1)
		if err := w.writeString(entry.Key); err != nil {
			return err
		}
		w.buffer.WriteString(": ")
		if err := w.writeValue(entry.Value, level+1); err != nil {
			return err
		}
	}
	w.buffer.WriteString("\n")
	w.writeIndent(level)
	w.buffer.WriteString("}")
	return nil
}

func (w *writer) writeArray(items []any, level int) error {
	if len(items) == 0 {
		w.buffer.WriteString("[]")
		return nil
	}

	w.buffer.WriteString("[\n")
	for i, item := range items {
		if i > 0 {
			w.buffer.WriteString(",\n")
		}
		w.writeIndent(level + 1)
		if err := w.writeValue(item, level+1); err != nil {
			return err
		}
	}
	w.buffer.WriteString("\n")
	w.writeIndent(level)
	w.buffer.WriteString("]")
	return nil
}

func (w *writer) writeString(s string) error {
	return w.writeScalar(s)
}

// writeScalar encodes a scalar with encoding/json, without HTML escaping.
func (w *writer) writeScalar(v any) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.buffer.Write(bytes.TrimRight(scratch.Bytes(), "\n"))
	return nil
}

func (w *writer) writeIndent(level int) {
	for i := 0; i < level; i++ {
		w.buffer.WriteString(w.indent)
	}
}
