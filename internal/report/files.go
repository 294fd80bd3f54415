// file: internal/report/files.go
// version: 1.1.0
// guid: b7d1e5a9-6f3c-4028-8a4e-0c9f2d6b3e81

package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// Outputs holds the rendered artifacts and where they go.
type Outputs struct {
	PDFPath     string
	PDF         []byte
	MissingPath string
	Missing     []MissingCover
}

// WriteFiles writes the PDF and the missing-covers listing. Each file is
// replaced atomically, and neither is touched until both directories exist
// and the listing is formatted.
func WriteFiles(out Outputs) error {
	if out.PDFPath == "" || out.MissingPath == "" {
		return fmt.Errorf("output paths must not be empty")
	}
	if len(out.PDF) == 0 {
		return fmt.Errorf("refusing to write empty PDF to %s", out.PDFPath)
	}

	var listing bytes.Buffer
	if err := WriteMissing(&listing, out.Missing); err != nil {
		return fmt.Errorf("failed to format missing covers listing: %w", err)
	}
	for _, path := range []string{out.PDFPath, out.MissingPath} {
		if err := ensureDir(path); err != nil {
			return err
		}
	}

	if err := writeAtomic(out.PDFPath, out.PDF); err != nil {
		return err
	}
	return writeAtomic(out.MissingPath, listing.Bytes())
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(path, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return nil
}
