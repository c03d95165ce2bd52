// Package bundle loads the application's minified UI bundle as opaque
// text. The bundle (for Cursor/VS Code builds this is
// workbench.desktop.main.js) is treated as a flat character sequence;
// no parsing of its grammar happens anywhere in this tool.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// MainJSName is the file name of the workbench bundle inside an
// installation tree.
const MainJSName = "workbench.desktop.main.js"

// Load reads the bundle file at path and returns its content as a
// string. Content that is not valid UTF-8 is re-decoded under ISO 8859-1,
// which accepts any byte sequence, so a stray high byte in a multi-MB
// bundle never kills the run.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading bundle: %w", err)
	}
	return Decode(data)
}

// Decode converts raw bundle bytes to a string, falling back to a
// permissive single-byte decode when the content is not UTF-8.
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding bundle: %w", err)
	}
	return string(decoded), nil
}

// Write persists rewritten bundle content atomically: the new content is
// written to a temporary file in the same directory and renamed over the
// original, so a failed write leaves the previous bundle untouched.
func Write(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".uitrans-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing bundle: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	// Keep the original file's permissions when it already exists.
	if info, err := os.Stat(path); err == nil {
		os.Chmod(tmpPath, info.Mode().Perm())
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing bundle: %w", err)
	}
	return nil
}
