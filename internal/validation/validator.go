// =============================================================================
// Address Book Utility - Validation Engine
// =============================================================================
//
// This module validates an XML document against a compiled Schema.
//
// VALIDATION STRATEGY:
//   1. The text is parsed once so malformed and empty input are reported as
//      input errors, not schema violations
//   2. The raw text is streamed through the xsd engine, which applies the
//      schema's namespace, whitespace, content model and datatype rules
//   3. The first violation is converted into a ValidationError
//
// ERROR HANDLING:
//   - Validation is fail-fast: only the first violation is reported
//   - Each error carries a W3C constraint code, the element path, and the
//     expected vs. found values when known
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	xsderrors "github.com/jacoelho/xsd/errors"

	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
	"github.com/ginjaninja78/address-book-utility/internal/types"
	"github.com/ginjaninja78/address-book-utility/internal/xmlreader"
)

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError describes the first schema violation found in a document.
type ValidationError struct {
	// Code is the W3C constraint code, e.g. "cvc-complex-type.2.4.b".
	Code string

	// Path locates the offending element, e.g. "/addressBook/contact/phone".
	Path string

	// Message is a human-readable description.
	Message string

	// Expected lists what the schema allows at this point.
	Expected []string

	// Actual is what the document contains instead.
	Actual string

	// Line and Column locate the violation in the source text when known.
	Line   int
	Column int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if e.Path != "" {
		b.WriteString(" at " + e.Path)
	}
	if e.Line > 0 && e.Column > 0 {
		b.WriteString(fmt.Sprintf(" (line %d, column %d)", e.Line, e.Column))
	}
	if len(e.Expected) > 0 {
		b.WriteString(fmt.Sprintf(" (expected: %s)", strings.Join(e.Expected, ", ")))
	}
	if e.Actual != "" {
		b.WriteString(fmt.Sprintf(" (found: %s)", e.Actual))
	}
	return b.String()
}

// Is makes every ValidationError match errors.ErrValidation.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*apperrors.AppError)
	return ok && t.Kind == apperrors.KindValidation
}

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	codeXMLParse           = "xml-parse-error"
	codeNoRoot             = "xsd-no-root"
	codeElementNotDeclared = "cvc-elt.1"
)

// w3cCodes maps the engine's local codes onto the W3C constraint names.
var w3cCodes = map[string]string{
	"VALIDATE_ROOT_NOT_DECLARED":           codeElementNotDeclared,
	"VALIDATE_VALUE_INVALID":               "cvc-datatype-valid",
	"VALIDATE_VALUE_FACET":                 "cvc-facet-valid",
	"VALIDATE_SIMPLETYPE_ATTR_NOT_ALLOWED": "cvc-type.3.1.1",
	"VALIDATE_XSI_NIL_NOT_NILLABLE":        "cvc-elt.3.1",
	"VALIDATE_NILLED_NOT_EMPTY":            "cvc-elt.3.2.2",
	"VALIDATE_ELEMENT_ABSTRACT":            "cvc-elt.2",
}

func w3cCode(code string) string {
	if mapped, ok := w3cCodes[code]; ok {
		return mapped
	}
	return code
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks xmlText against schema.
//
// RETURNS:
//   - nil when the document is valid.
//   - A *ValidationError describing the first violation.
//   - An EmptyInput or MalformedInput error when the text is not XML.
func Validate(xmlText string, schema *Schema) error {
	if schema == nil || schema.compiled == nil {
		return fmt.Errorf("no schema loaded")
	}

	root, err := xmlreader.Parse(xmlText)
	if err != nil {
		return err
	}

	err = schema.compiled.Validate(strings.NewReader(xmlText))
	if err == nil {
		return nil
	}

	violations, ok := xsderrors.AsValidations(err)
	if !ok || len(violations) == 0 {
		return apperrors.New(apperrors.KindMalformedInput, "invalid XML", err)
	}

	first := violations[0]
	switch first.Code {
	case codeXMLParse, codeNoRoot:
		return apperrors.New(apperrors.KindMalformedInput, "invalid XML: "+first.Message, err)
	}
	return newValidationError(first, root, schema)
}

// newValidationError converts an engine violation into a ValidationError.
// Violations on the document root are rewritten to name the element found
// and the elements the schema declares.
func newValidationError(v xsderrors.Validation, root *types.ElementNode, schema *Schema) *ValidationError {
	verr := &ValidationError{
		Code:     w3cCode(v.Code),
		Path:     v.Path,
		Message:  v.Message,
		Expected: v.Expected,
		Actual:   v.Actual,
		Line:     v.Line,
		Column:   v.Column,
	}

	atRoot := pathDepth(verr.Path) <= 1
	if verr.Path == "" || verr.Path == "/" {
		verr.Path = "/" + root.Name
	}

	if verr.Code == codeElementNotDeclared && atRoot {
		verr.Message = fmt.Sprintf("cannot find the declaration of root element '%s'", root.Name)
		if ns := namespaceOf(root); ns != schema.TargetNamespace {
			verr.Message = fmt.Sprintf("root element '%s' is in the wrong namespace (%s)", root.Name, describeNamespace(ns))
		}
		verr.Expected = schema.GlobalElements()
		verr.Actual = root.Name
	}
	return verr
}

// pathDepth counts the steps in an engine path such as
// "/{urn:example}book/entry", ignoring slashes inside namespace braces.
func pathDepth(path string) int {
	depth, inBraces := 0, false
	for _, r := range path {
		switch {
		case r == '{':
			inBraces = true
		case r == '}':
			inBraces = false
		case r == '/' && !inBraces:
			depth++
		}
	}
	return depth
}

// namespaceOf resolves the namespace of the root element from its own
// xmlns declarations.
func namespaceOf(root *types.ElementNode) string {
	attr := "xmlns"
	if i := strings.IndexByte(root.Name, ':'); i >= 0 {
		attr = "xmlns:" + root.Name[:i]
	}
	ns, _ := root.Attr(attr)
	return ns
}

func describeNamespace(ns string) string {
	if ns == "" {
		return "no namespace"
	}
	return ns
}
