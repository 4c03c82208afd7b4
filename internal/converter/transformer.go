// =============================================================================
// Address Book Utility - Value Transformation
// =============================================================================
//
// This module holds the scalar rules of the XML/JSON mapping:
//   - XML text -> JSON scalar (number/boolean coercion)
//   - JSON scalar -> XML text
//   - XML name checks for keys that become element or attribute names
//
// COERCION TABLE (when enabled):
//   "true", "false"               -> boolean
//   "42", "-7", "3.14", "1e-3"    -> number (literal kept: "1.50" stays 1.50)
//   "02134", "+1", ".5", "TRUE"   -> string (not canonical JSON literals)
//   ""                            -> ""
//
// =============================================================================

package converter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// numberLiteral is the JSON number grammar. Text that does not match stays a
// string, which keeps values such as postal codes with leading zeros intact.
var numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// xmlName accepts element and attribute names with at most one prefix.
var xmlName = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_.\-]*(:[\p{L}_][\p{L}\p{N}_.\-]*)?$`)

// Transformer converts scalar values between the two representations.
type Transformer struct {
	coerce bool
}

// NewTransformer creates a Transformer. When coerce is false, XML text is
// always mapped to a JSON string.
func NewTransformer(coerce bool) *Transformer {
	return &Transformer{coerce: coerce}
}

// TextToJSON maps element text to a JSON scalar.
func (t *Transformer) TextToJSON(text string) any {
	if !t.coerce {
		return text
	}

	switch text {
	case "true":
		return true
	case "false":
		return false
	}

	if numberLiteral.MatchString(text) {
		return json.Number(text)
	}

	return text
}

// ScalarToText maps a JSON scalar to XML text. Objects and arrays are not
// scalars and yield an error.
func (t *Transformer) ScalarToText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("expected a scalar value, got %s", describe(value))
	}
}

// ValidName reports whether name can be used as an XML element or attribute
// name.
func ValidName(name string) bool {
	return xmlName.MatchString(name)
}

// describe names the JSON kind of a value for error messages.
func describe(value any) string {
	switch value.(type) {
	case []any:
		return "an array"
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case json.Number, float64, float32, int, int64:
		return "a number"
	default:
		return "an object"
	}
}
