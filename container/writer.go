package container

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Encode writes the bundle as a label container at path. The archive is
// assembled in memory first and written in a single operation, so a failed
// encode never leaves a truncated container behind.
func Encode(path string, b *Bundle) error {
	var buf bytes.Buffer
	if err := EncodeWriter(&buf, b); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing container: %w", err)
	}
	return nil
}

// EncodeWriter writes the bundle as a zip archive to w: text documents
// first, then binary entries, each in insertion order. Resource bytes are
// passed through unmodified.
func EncodeWriter(w io.Writer, b *Bundle) error {
	zw := zip.NewWriter(w)
	for _, name := range b.docNames {
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
		if _, err := io.WriteString(fw, b.docs[name]); err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
	}
	for _, name := range b.resNames {
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
		if _, err := fw.Write(b.res[name]); err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}
