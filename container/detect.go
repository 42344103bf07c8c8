package container

import (
	"bytes"
	"io"
)

// zipMagic is the local file header signature every non-empty zip archive
// starts with.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// IsArchive reports whether r begins with the zip magic. It reads at most
// len(zipMagic) bytes from r.
func IsArchive(r io.Reader) bool {
	buf := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(r, buf); err != nil {
		return false
	}
	return bytes.Equal(buf, zipMagic)
}
