// Package container reads and writes the zip-based label container format.
package container

import (
	"errors"
	"strings"
)

// Container-related errors.
var (
	ErrInvalidArchive = errors.New("lbx: invalid or corrupted archive")
	ErrNoDocuments    = errors.New("lbx: archive contains no documents")
)

// Bundle is the decoded content of one label container: XML documents kept
// as text, everything else kept as raw bytes. Both kinds remember insertion
// order so a rebuilt container lists its entries deterministically.
type Bundle struct {
	docs     map[string]string
	docNames []string
	res      map[string][]byte
	resNames []string
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{
		docs: make(map[string]string),
		res:  make(map[string][]byte),
	}
}

// AddDocument stores a text document under name. The first document stored
// under a name wins; later additions under the same name are ignored.
func (b *Bundle) AddDocument(name, content string) {
	if _, ok := b.docs[name]; ok {
		return
	}
	b.docs[name] = content
	b.docNames = append(b.docNames, name)
}

// AddResource stores a binary entry under name, first-wins like AddDocument.
func (b *Bundle) AddResource(name string, data []byte) {
	if _, ok := b.res[name]; ok {
		return
	}
	b.res[name] = data
	b.resNames = append(b.resNames, name)
}

// Document returns the named text document.
func (b *Bundle) Document(name string) (string, bool) {
	content, ok := b.docs[name]
	return content, ok
}

// Resource returns the named binary entry.
func (b *Bundle) Resource(name string) ([]byte, bool) {
	data, ok := b.res[name]
	return data, ok
}

// HasResource reports whether the bundle holds a binary entry under name.
func (b *Bundle) HasResource(name string) bool {
	_, ok := b.res[name]
	return ok
}

// DocumentNames returns the document names in insertion order.
func (b *Bundle) DocumentNames() []string {
	names := make([]string, len(b.docNames))
	copy(names, b.docNames)
	return names
}

// ResourceNames returns the binary entry names in insertion order.
func (b *Bundle) ResourceNames() []string {
	names := make([]string, len(b.resNames))
	copy(names, b.resNames)
	return names
}

// Layout returns the label layout document: the first document whose name
// contains "label".
func (b *Bundle) Layout() (name, content string, ok bool) {
	return b.findDocument("label")
}

// Properties returns the print properties document: the first document whose
// name contains "prop".
func (b *Bundle) Properties() (name, content string, ok bool) {
	return b.findDocument("prop")
}

func (b *Bundle) findDocument(sub string) (string, string, bool) {
	for _, name := range b.docNames {
		if strings.Contains(strings.ToLower(name), sub) {
			return name, b.docs[name], true
		}
	}
	return "", "", false
}
