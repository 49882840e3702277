// Package output writes rendered invoices to their configured sinks.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
)

// FileName derives a deterministic, filesystem-safe name from an invoice
// number ("INV 2024/001" -> "inv-2024-001.html").
func FileName(invoiceNumber, ext string) string {
	return slug.Make(invoiceNumber) + ext
}

type HTMLWriter struct{}

func NewHTMLWriter() *HTMLWriter { return &HTMLWriter{} }

// Write stores content at path, creating directories along the way.
// The content lands in a temp file first and is renamed into place, so a
// failed write never leaves a partial or zero-byte output file. Existing
// files are overwritten.
func (w *HTMLWriter) Write(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %v: %w", dir, err, ErrOutputWriteFailure)
	}

	tmp, err := os.CreateTemp(dir, ".invoice-*.html")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %v: %w", dir, err, ErrOutputWriteFailure)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %v: %w", path, err, ErrOutputWriteFailure)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %v: %w", path, err, ErrOutputWriteFailure)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %v: %w", path, err, ErrOutputWriteFailure)
	}
	return nil
}
