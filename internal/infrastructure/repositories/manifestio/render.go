// Package manifestio holds the pieces shared by the manifest formats: lock
// file rendering, atomic writes and conversion of opaque source options
// between formats.
package manifestio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rios0rios0/deplock/internal/domain/entities"
)

const lockFileMode = 0o644

// Render joins the encoded top-level terms into a lock file: the generated
// header, one term per entry, and a trailing blank line.
func Render(terms [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(entities.GeneratedHeader)
	buf.WriteString("\n")
	for _, term := range terms {
		buf.Write(bytes.TrimRight(term, "\n"))
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
	return buf.Bytes()
}

// WriteAtomic writes content to a temporary sibling of path and renames it
// into place, so readers never observe a partially written file.
func WriteAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %q: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, writeErr := tmp.Write(content); writeErr != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %q: %w", path, writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %q: %w", path, closeErr)
	}
	if chmodErr := os.Chmod(tmpPath, lockFileMode); chmodErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set mode of %q: %w", path, chmodErr)
	}
	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move lock file into %q: %w", path, renameErr)
	}
	return nil
}
