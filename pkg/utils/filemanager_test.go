package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
	"github.com/ginjaninja78/address-book-utility/internal/types"
)

func TestCheckWritable(t *testing.T) {
	dir := t.TempDir()

	t.Run("existing directory", func(t *testing.T) {
		assert.NoError(t, CheckWritable(filepath.Join(dir, "book.json")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "probe file must be removed")
	})

	t.Run("missing parent directory", func(t *testing.T) {
		err := CheckWritable(filepath.Join(dir, "missing", "book.json"))
		assert.True(t, errors.Is(err, apperrors.ErrOutputNotWritable))
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("parent is a file", func(t *testing.T) {
		file := filepath.Join(dir, "plain.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		err := CheckWritable(filepath.Join(file, "book.json"))
		assert.True(t, errors.Is(err, apperrors.ErrOutputNotWritable))
	})

	t.Run("path is a directory", func(t *testing.T) {
		err := CheckWritable(dir)
		assert.True(t, errors.Is(err, apperrors.ErrOutputNotWritable))
	})

	t.Run("empty path", func(t *testing.T) {
		err := CheckWritable("  ")
		assert.True(t, errors.Is(err, apperrors.ErrOutputNotWritable))
	})
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.xml")

	require.NoError(t, WriteFileAtomic(path, []byte("<addressBook/>\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<addressBook/>\n", string(data))

	// Overwrite replaces the content entirely.
	require.NoError(t, WriteFileAtomic(path, []byte("{}\n")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files may remain")
	assert.Equal(t, "book.xml", entries[0].Name())
}

func TestWriteFileAtomic_Failure(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "book.xml"), []byte("x"))
	assert.True(t, errors.Is(err, apperrors.ErrOutputNotWritable))
}

func TestTempFileName(t *testing.T) {
	name := TempFileName(filepath.Join("out", "book.json"))

	assert.Equal(t, "out", filepath.Dir(name))
	base := filepath.Base(name)
	assert.True(t, strings.HasPrefix(base, ".book.json."), base)
	assert.True(t, strings.HasSuffix(base, ".tmp"), base)
	assert.NotEqual(t, name, TempFileName(filepath.Join("out", "book.json")))
}

func TestStripBOM(t *testing.T) {
	assert.Equal(t, []byte("<a/>"), StripBOM([]byte("\xef\xbb\xbf<a/>")))
	assert.Equal(t, []byte("<a/>"), StripBOM([]byte("<a/>")))
	assert.Empty(t, StripBOM([]byte("\xef\xbb\xbf")))
}

func TestProbeFileType(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		expected types.InputType
		ok       bool
	}{
		{name: "json extension", path: "book.json", content: "", expected: types.InputJSON, ok: true},
		{name: "xml extension upper case", path: "BOOK.XML", content: "", expected: types.InputXML, ok: true},
		{name: "sniff object", path: "book", content: "\n  {\"a\": 1}", expected: types.InputJSON, ok: true},
		{name: "sniff array", path: "book.txt", content: "[1]", expected: types.InputJSON, ok: true},
		{name: "sniff markup with BOM", path: "book.dat", content: "\xef\xbb\xbf<?xml version=\"1.0\"?><a/>", expected: types.InputXML, ok: true},
		{name: "plain text", path: "notes.txt", content: "hello", ok: false},
		{name: "blank", path: "empty", content: "   ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := ProbeFileType(tt.path, []byte(tt.content))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, typ)
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "nope")))
}
