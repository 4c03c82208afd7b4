package converter

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
	"github.com/ginjaninja78/address-book-utility/internal/jsonvalue"
	"github.com/ginjaninja78/address-book-utility/internal/xmlreader"
)

const conformantBook = `<?xml version="1.0" encoding="UTF-8"?>
<addressBook version="1.0">
    <owner>Ada</owner>
    <contact id="1">
        <firstName>Ada</firstName>
        <lastName>Lovelace</lastName>
        <birthday>1815-12-10</birthday>
        <email>ada@example.com</email>
        <phone type="home">+44 20 7946 0000</phone>
        <phone type="mobile">555-0100</phone>
        <address type="home">
            <street>12 St James's Square</street>
            <city>London</city>
            <postalCode>02134</postalCode>
            <country>GB</country>
        </address>
        <favorite>true</favorite>
    </contact>
    <contact id="2">
        <organization>Analytical Engines &amp; Co</organization>
        <notes/>
    </contact>
</addressBook>
`

func newMapper() *Mapper {
	return NewMapper(DefaultOptions(), nil)
}

func TestXMLToJSONText_SingleVersusMultipleSiblings(t *testing.T) {
	single, err := newMapper().XMLToJSONText(`<book><person>A</person></book>`)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"book\": {\n        \"person\": \"A\"\n    }\n}\n", single)

	multiple, err := newMapper().XMLToJSONText(`<book><person>A</person><person>B</person></book>`)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"book\": {\n        \"person\": [\n            \"A\",\n            \"B\"\n        ]\n    }\n}\n", multiple)
}

func TestXMLToJSONText_AttributesAndText(t *testing.T) {
	out, err := newMapper().XMLToJSONText(`<phone type="home">555</phone>`)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"phone\": {\n        \"@type\": \"home\",\n        \"#text\": 555\n    }\n}\n", out)
}

func TestXMLToJSONText_NoHTMLEscaping(t *testing.T) {
	out, err := newMapper().XMLToJSONText(`<note>a &amp; b &lt;c&gt;</note>`)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"note\": \"a & b <c>\"\n}\n", out)
}

func TestToJSON_KeyOrderAndValues(t *testing.T) {
	value, err := newMapper().ToJSON(`<contact id="7" kind="person">
        <lastName>Hopper</lastName>
        <firstName>Grace</firstName>
        <phone>555</phone>
        <email>grace@example.com</email>
        <phone>556</phone>
        <favorite>false</favorite>
        <notes/>
    </contact>`)
	require.NoError(t, err)

	root, ok := jsonvalue.Entries(value)
	require.True(t, ok)
	require.Len(t, root, 1)
	assert.Equal(t, "contact", root[0].Key)

	entries, ok := jsonvalue.Entries(root[0].Value)
	require.True(t, ok)

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"@id", "@kind", "lastName", "firstName", "phone", "email", "favorite", "notes"}, keys)

	assert.Equal(t, "7", entries[0].Value, "attributes are never coerced")
	assert.Equal(t, []any{json.Number("555"), json.Number("556")}, entries[4].Value)
	assert.Equal(t, false, entries[6].Value)
	assert.Equal(t, "", entries[7].Value)
}

func TestToJSON_NamespacePrefixesKept(t *testing.T) {
	out, err := newMapper().XMLToJSONText(`<ab:book xmlns:ab="urn:example:ab"><ab:person>A</ab:person></ab:book>`)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"ab:book\": {\n        \"@xmlns:ab\": \"urn:example:ab\",\n        \"ab:person\": \"A\"\n    }\n}\n", out)

	back, err := newMapper().JSONToXMLText(out)
	require.NoError(t, err)
	assert.Equal(t, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<ab:book xmlns:ab=\"urn:example:ab\">\n    <ab:person>A</ab:person>\n</ab:book>\n", back)
}

func TestToJSON_InputErrors(t *testing.T) {
	_, err := newMapper().ToJSON("")
	assert.True(t, errors.Is(err, apperrors.ErrEmptyInput))

	_, err = newMapper().ToJSON("<a><b></a>")
	assert.True(t, errors.Is(err, apperrors.ErrMalformedInput))

	_, err = newMapper().ToJSON("<a/><b/>")
	assert.True(t, errors.Is(err, apperrors.ErrMalformedInput))
}

func TestJSONToXMLText(t *testing.T) {
	out, err := newMapper().JSONToXMLText(`{
        "addressBook": {
            "@version": 1.0,
            "owner": "Ada",
            "contact": [
                {"@id": "1", "organization": "Acme", "favorite": true},
                {"@id": "2", "organization": "Beta", "notes": null}
            ]
        }
    }`)
	require.NoError(t, err)

	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<addressBook version="1.0">
    <owner>Ada</owner>
    <contact id="1">
        <organization>Acme</organization>
        <favorite>true</favorite>
    </contact>
    <contact id="2">
        <organization>Beta</organization>
        <notes/>
    </contact>
</addressBook>
`, out)
}

func TestJSONToXMLText_TextKeyAndNestedArrays(t *testing.T) {
	out, err := newMapper().JSONToXMLText(`{"book": {"phone": [{"@type": "home", "#text": 555}, [{"#text": "556"}]]}}`)
	require.NoError(t, err)

	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<book>
    <phone type="home">555</phone>
    <phone>556</phone>
</book>
`, out)
}

func TestToXML_AmbiguousRoot(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "two keys", value: map[string]any{"a": 1, "b": 2}},
		{name: "no keys", value: map[string]any{}},
		{name: "top-level array", value: []any{"a"}},
		{name: "top-level scalar", value: "a"},
		{name: "root holds an array", value: map[string]any{"a": []any{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToXML(tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrAmbiguousRoot), "got %v", err)
		})
	}
}

func TestJSONToXMLText_AmbiguousRootFromText(t *testing.T) {
	_, err := newMapper().JSONToXMLText(`{"a": 1, "b": 2}`)
	assert.True(t, errors.Is(err, apperrors.ErrAmbiguousRoot))
	assert.Contains(t, err.Error(), `"a", "b"`)
}

func TestJSONToXMLText_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "object attribute", json: `{"a": {"@x": {"y": 1}}}`},
		{name: "array attribute", json: `{"a": {"@x": [1, 2]}}`},
		{name: "invalid element name", json: `{"a": {"1bad": "x"}}`},
		{name: "invalid root name", json: `{"has space": "x"}`},
		{name: "object text", json: `{"a": {"#text": {"b": 1}}}`},
		{name: "not JSON", json: `{"a": `},
		{name: "trailing data", json: `{"a": 1} {"b": 2}`},
		{name: "control character in text", json: `{"a": "x\u0001y"}`},
		{name: "control character in attribute", json: `{"a": {"@x": "\u0002"}}`},
		{name: "duplicate key", json: `{"a": {"b": "1", "b": "2"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newMapper().JSONToXMLText(tt.json)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrMalformedInput), "got %v", err)
		})
	}

	_, err := newMapper().JSONToXMLText("  ")
	assert.True(t, errors.Is(err, apperrors.ErrEmptyInput))
}

func TestRoundTrip_ConformantDocument(t *testing.T) {
	m := newMapper()

	jsonText, err := m.XMLToJSONText(conformantBook)
	require.NoError(t, err)

	xmlText, err := m.JSONToXMLText(jsonText)
	require.NoError(t, err)

	original, err := xmlreader.Parse(conformantBook)
	require.NoError(t, err)
	roundTripped, err := xmlreader.Parse(xmlText)
	require.NoError(t, err)

	assert.Equal(t, original, roundTripped)

	// A second pass is stable byte for byte.
	again, err := m.JSONToXMLText(jsonText)
	require.NoError(t, err)
	assert.Equal(t, xmlText, again)
}

func TestRoundTrip_CarriageReturnKept(t *testing.T) {
	m := newMapper()

	xmlText, err := m.JSONToXMLText(`{"note": "line1\r\nline2"}`)
	require.NoError(t, err)
	assert.Contains(t, xmlText, "line1&#xD;\nline2")

	jsonText, err := m.XMLToJSONText(xmlText)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"note\": \"line1\\r\\nline2\"\n}\n", jsonText)
}

func TestRoundTrip_KnownAsymmetry(t *testing.T) {
	m := newMapper()

	xmlText, err := m.JSONToXMLText(`{"book": {"person": ["A"]}}`)
	require.NoError(t, err)

	jsonText, err := m.XMLToJSONText(xmlText)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"book\": {\n        \"person\": \"A\"\n    }\n}\n", jsonText)
}

func TestMapper_CustomOptions(t *testing.T) {
	m := NewMapper(Options{
		AttributePrefix: "-",
		TextKey:         "_",
		Indent:          "  ",
		CoerceValues:    false,
		XMLDeclaration:  false,
	}, nil)

	out, err := m.XMLToJSONText(`<phone type="home" ><n>42</n>555</phone>`)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"phone\": {\n    \"-type\": \"home\",\n    \"_\": \"555\",\n    \"n\": \"42\"\n  }\n}\n", out)

	back, err := m.JSONToXMLText(out)
	require.NoError(t, err)
	assert.Equal(t, "<phone type=\"home\">\n  555\n  <n>42</n>\n</phone>\n", back)
}
