package container

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Decode reads the label container at path. It fails with ErrInvalidArchive
// when the file is not a zip archive, and with ErrNoDocuments when the
// archive holds no text documents at all. Read failures keep their
// underlying error in the chain.
func Decode(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening container: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("opening container: %w", err)
	}

	return DecodeReader(f, info.Size())
}

// DecodeReader reads a label container from an io.ReaderAt.
func DecodeReader(ra io.ReaderAt, size int64) (*Bundle, error) {
	if !IsArchive(io.NewSectionReader(ra, 0, size)) {
		return nil, ErrInvalidArchive
	}
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, ErrInvalidArchive
	}

	b := NewBundle()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		if strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			b.AddDocument(f.Name, string(data))
		} else {
			b.AddResource(f.Name, data)
		}
	}

	if len(b.docNames) == 0 {
		return nil, ErrNoDocuments
	}
	return b, nil
}

// readEntry reads one file out of the archive.
func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
