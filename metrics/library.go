// Package metrics measures rendered text geometry for label layout.
//
// Width measurement follows a two-variant strategy: when the named font
// resolves against a Library, the string is rendered and measured; when it
// does not, callers fall back to the geometry the document already declares.
// The variant is selected per call, never by failure handling.
package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/sfnt"
)

// Library is a collection of parsed fonts resolvable by family or full
// name, case-insensitively. The zero value is not usable; call NewLibrary.
type Library struct {
	fonts map[string]*sfnt.Font
	n     int
	buf   sfnt.Buffer
}

// NewLibrary returns an empty font library.
func NewLibrary() *Library {
	return &Library{fonts: make(map[string]*sfnt.Font)}
}

// Len returns the number of fonts in the library.
func (l *Library) Len() int { return l.n }

// AddFont registers an already parsed font under its family and full
// names. The first font registered under a name keeps it.
func (l *Library) AddFont(fnt *sfnt.Font) error {
	return l.register(fnt)
}

// AddBytes parses raw TTF or OTF bytes and registers the font under its
// family and full names. The first font registered under a name keeps it.
func (l *Library) AddBytes(data []byte) error {
	fnt, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing font: %w", err)
	}
	return l.register(fnt)
}

// AddFile parses the font file at path.
func (l *Library) AddFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading font: %w", err)
	}
	return l.AddBytes(data)
}

// AddDir loads every .ttf and .otf file directly inside dir, skipping files
// that fail to parse, and returns the number of fonts added.
func (l *Library) AddDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading font directory: %w", err)
	}
	before := l.n
	for _, entry := range entries {
		if entry.IsDir() || !hasFontExtension(entry.Name()) {
			continue
		}
		// Unparseable files are skipped, not fatal.
		_ = l.AddFile(filepath.Join(dir, entry.Name()))
	}
	return l.n - before, nil
}

// Lookup returns the font registered under name, or nil.
func (l *Library) Lookup(name string) *sfnt.Font {
	return l.fonts[strings.ToLower(name)]
}

// register binds the font under every usable name it carries. A font with
// no readable name table entries is rejected.
func (l *Library) register(fnt *sfnt.Font) error {
	family, _ := fnt.Name(&l.buf, sfnt.NameIDFamily)
	full, _ := fnt.Name(&l.buf, sfnt.NameIDFull)
	if family == "" && full == "" {
		return errors.New("font has no usable name")
	}

	bound := false
	for _, name := range []string{family, full} {
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := l.fonts[key]; ok {
			continue
		}
		l.fonts[key] = fnt
		bound = true
	}
	if bound {
		l.n++
	}
	return nil
}

// hasFontExtension reports whether path names a .ttf or .otf file.
func hasFontExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}
