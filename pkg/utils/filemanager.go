// =============================================================================
// Address Book Utility - File Manager Utility
// =============================================================================
//
// This module provides the file system side of the utility:
//   - Output writability checks (run before any input is read)
//   - Atomic output writes (temp file + rename)
//   - Content type probing for local input files
//
// WRITE STRATEGY:
//   - Output is first written to "<dir>/.<name>.<uuid>.tmp"
//   - The temp file is synced and renamed over the destination
//   - On any failure the temp file is removed, so the destination is either
//     the complete new content or untouched
//
// =============================================================================

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
	"github.com/ginjaninja78/address-book-utility/internal/types"
)

// =============================================================================
// OUTPUT CHECKS
// =============================================================================

// CheckWritable verifies that a file can be created at path.
//
// PARAMETERS:
//   - path: The output file path. Its parent directory must already exist.
//
// RETURNS:
//   - nil if the parent directory exists, is a directory and accepts a probe
//     file, and path itself is not a directory.
//   - An OutputNotWritable error otherwise.
func CheckWritable(path string) error {
	if strings.TrimSpace(path) == "" {
		return apperrors.New(apperrors.KindOutputNotWritable, "output path is empty", nil)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return apperrors.New(apperrors.KindOutputNotWritable,
			fmt.Sprintf("output path %s is a directory", path), nil)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return apperrors.New(apperrors.KindOutputNotWritable,
			fmt.Sprintf("output directory %s does not exist", dir), err)
	}
	if !info.IsDir() {
		return apperrors.New(apperrors.KindOutputNotWritable,
			fmt.Sprintf("output directory %s is not a directory", dir), nil)
	}

	// Permission bits alone are unreliable (ACLs, read-only mounts), so
	// create and remove a probe file.
	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return apperrors.New(apperrors.KindOutputNotWritable,
			fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to path through a temp file in the same
// directory, so readers never observe a partially written file.
//
// RETURNS:
//   - An OutputNotWritable error if any step fails. No temp file is left
//     behind in that case.
func WriteFileAtomic(path string, data []byte) error {
	tmpPath := TempFileName(path)

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return notWritable(path, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return notWritable(path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return notWritable(path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return notWritable(path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return notWritable(path, err)
	}

	return nil
}

// TempFileName returns the hidden temp file name used while writing path.
//
// EXAMPLE:
//   path:   "out/book.json"
//   result: "out/.book.json.3f0c2b1e-....tmp"
func TempFileName(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()))
}

func notWritable(path string, err error) error {
	return apperrors.New(apperrors.KindOutputNotWritable, fmt.Sprintf("failed to write %s", path), err)
}

// =============================================================================
// CONTENT PROBING
// =============================================================================

// ProbeFileType decides whether a local file holds XML or JSON.
//
// PARAMETERS:
//   - path: The file path; a ".json" or ".xml" extension decides directly.
//   - content: The file content, sniffed when the extension is not conclusive.
//
// RETURNS:
//   - The detected type and true, or false when the content is neither.
//
// SNIFFING:
//   The first non-blank byte (after an optional UTF-8 byte order mark)
//   decides: '{' or '[' means JSON, '<' means XML.
func ProbeFileType(path string, content []byte) (types.InputType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return types.InputJSON, true
	case ".xml":
		return types.InputXML, true
	}

	trimmed := bytes.TrimLeft(StripBOM(content), " \t\r\n")
	if len(trimmed) == 0 {
		return 0, false
	}

	switch trimmed[0] {
	case '{', '[':
		return types.InputJSON, true
	case '<':
		return types.InputXML, true
	}
	return 0, false
}

// utf8BOM is the UTF-8 encoded byte order mark.
var utf8BOM = []byte("\xef\xbb\xbf")

// StripBOM removes a leading UTF-8 byte order mark from content.
func StripBOM(content []byte) []byte {
	return bytes.TrimPrefix(content, utf8BOM)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
