package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookXML = `<addressBook version="1.0">
    <contact id="1">
        <firstName>Ada</firstName>
        <lastName>Lovelace</lastName>
        <phone type="home">555-0100</phone>
    </contact>
</addressBook>
`

// execute runs the CLI with fresh flag values and captures its output.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	cfgFile, verbose, inputLocation, outputPath, operationName = "", false, "", "", ""

	var stdout, stderr bytes.Buffer
	code := ExecuteArgs(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRoot_ConvertToJSON(t *testing.T) {
	in := writeInput(t, "book.xml", bookXML)
	out := filepath.Join(t.TempDir(), "book.json")

	code, stdout, stderr := execute(t, "--input", in, "--operation", "convert-to-json", "--output", out)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Wrote "+out+"\n", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"@id": "1"`)
	assert.Contains(t, string(data), `"#text": "555-0100"`)
}

func TestRoot_ConvertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, "book.xml", bookXML)
	jsonOut := filepath.Join(dir, "book.json")
	xmlOut := filepath.Join(dir, "book.xml")

	code, _, stderr := execute(t, "--input", in, "--operation", "convert-to-json", "--output", jsonOut)
	require.Equal(t, 0, code, stderr)

	code, _, stderr = execute(t, "--input", jsonOut, "--operation", "convert-to-xml", "--output", xmlOut)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := execute(t, "--input", xmlOut, "--operation", "validate-xml")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "XML is valid!\n", stdout)
}

func TestRoot_ValidateInvalid(t *testing.T) {
	in := writeInput(t, "book.xml", `<addressBook><contact><organization>Acme</organization></contact></addressBook>`)

	code, stdout, _ := execute(t, "--input", in, "--operation", "validate-xml")
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stdout, "XML is invalid: [cvc-complex-type.4]"), stdout)
	assert.Contains(t, stdout, "/addressBook")
}

func TestRoot_ValidateIgnoresOutput(t *testing.T) {
	in := writeInput(t, "book.xml", bookXML)
	out := filepath.Join(t.TempDir(), "ignored.txt")

	code, stdout, _ := execute(t, "--input", in, "--operation", "validate-xml", "--output", out)
	assert.Equal(t, 0, code)
	assert.Equal(t, "XML is valid!\n", stdout)
	assert.NoFileExists(t, out)
}

func TestRoot_Errors(t *testing.T) {
	in := writeInput(t, "book.xml", bookXML)
	missingDir := filepath.Join(t.TempDir(), "missing", "out.json")

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{
			name:     "missing output",
			args:     []string{"--input", in, "--operation", "convert-to-json"},
			contains: "--output is required",
		},
		{
			name:     "missing input",
			args:     []string{"--operation", "validate-xml"},
			contains: "--input is required",
		},
		{
			name:     "unknown operation",
			args:     []string{"--input", in, "--operation", "shred", "--output", "x"},
			contains: "unknown operation",
		},
		{
			name:     "unwritable output",
			args:     []string{"--input", in, "--operation", "convert-to-json", "--output", missingDir},
			contains: "does not exist",
		},
		{
			name:     "missing input file",
			args:     []string{"--input", filepath.Join(t.TempDir(), "nope.xml"), "--operation", "validate-xml"},
			contains: "cannot read input",
		},
		{
			name:     "unknown flag",
			args:     []string{"--frobnicate"},
			contains: "unknown flag",
		},
		{
			name:     "missing config file",
			args:     []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--input", in, "--operation", "validate-xml"},
			contains: "failed to read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.True(t, strings.HasPrefix(stderr, "Error: "), stderr)
			assert.Contains(t, stderr, tt.contains)
		})
	}
}

func TestRoot_ConfigFile(t *testing.T) {
	in := writeInput(t, "book.xml", `<book><n>42</n></book>`)
	cfg := writeInput(t, "addressbook.yaml", "indent: 2\ncoerce_values: false\n")
	out := filepath.Join(t.TempDir(), "book.json")

	code, _, stderr := execute(t, "--config", cfg, "--input", in, "--operation", "convert-to-json", "--output", out)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"book\": {\n    \"n\": \"42\"\n  }\n}\n", string(data))
}

func TestRoot_NoFlagsPrintsHelp(t *testing.T) {
	code, stdout, _ := execute(t)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "addressbook --input book.xml")
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Address Book Utility")
	assert.Contains(t, stdout, "Version:    "+Version)
}

func TestSchemaCommand(t *testing.T) {
	code, stdout, _ := execute(t, "schema")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "<?xml"), stdout)
	assert.Contains(t, stdout, `<xs:element name="addressBook"`)
}
