package model

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Namespace URIs used by the label layout schema.
const (
	MainNS  = "http://schemas.brother.info/ptouch/2007/lbx/main"
	StyleNS = "http://schemas.brother.info/ptouch/2007/lbx/style"
	TextNS  = "http://schemas.brother.info/ptouch/2007/lbx/text"
	ImageNS = "http://schemas.brother.info/ptouch/2007/lbx/image"
)

// Parse errors.
var (
	ErrMalformedLabel = errors.New("lbx: malformed label document")
	ErrNoObjects      = errors.New("lbx: label document has no objects collection")
)

// prefixes maps schema namespace URIs to the prefixes one particular
// document declares for them.
type prefixes map[string]string

// declaredPrefixes collects the xmlns declarations on a document root.
func declaredPrefixes(root *etree.Element) prefixes {
	p := make(prefixes)
	for _, a := range root.Attr {
		switch {
		case a.Space == "xmlns":
			p[a.Value] = a.Key
		case a.Space == "" && a.Key == "xmlns":
			p[a.Value] = ""
		}
	}
	return p
}

// match reports whether el has the given local name under the given
// namespace URI, resolved through this document's declarations.
func (p prefixes) match(el *etree.Element, uri, local string) bool {
	pre, ok := p[uri]
	return ok && el.Space == pre && el.Tag == local
}

// findFirst returns the first descendant of el matching the namespace URI
// and local name, in document order.
func findFirst(el *etree.Element, p prefixes, uri, local string) *etree.Element {
	for _, ch := range el.ChildElements() {
		if p.match(ch, uri, local) {
			return ch
		}
		if found := findFirst(ch, p, uri, local); found != nil {
			return found
		}
	}
	return nil
}

// findChild returns the first direct child of el matching the namespace URI
// and local name.
func findChild(el *etree.Element, p prefixes, uri, local string) *etree.Element {
	for _, ch := range el.ChildElements() {
		if p.match(ch, uri, local) {
			return ch
		}
	}
	return nil
}

// attrPoints reads a point-valued attribute, treating absent or unparsable
// values as 0.
func attrPoints(el *etree.Element, key string) float64 {
	if el == nil {
		return 0
	}
	v, err := ParsePoints(el.SelectAttrValue(key, "0"))
	if err != nil {
		return 0
	}
	return v
}

// Label is one parsed label layout document.
type Label struct {
	doc     *etree.Document
	root    *etree.Element
	objects *etree.Element
	paper   *etree.Element
	ns      prefixes
}

// ParseLabel parses a label layout document. A document that does not parse
// fails with ErrMalformedLabel; one without an objects collection fails with
// ErrNoObjects. An empty-but-present objects collection is valid and yields
// a label with zero objects.
func ParseLabel(content string) (*Label, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromString(content); err != nil {
		return nil, ErrMalformedLabel
	}
	root := doc.Root()
	if root == nil {
		return nil, ErrMalformedLabel
	}
	ns := declaredPrefixes(root)
	objects := findFirst(root, ns, MainNS, "objects")
	if objects == nil {
		return nil, ErrNoObjects
	}
	return &Label{
		doc:     doc,
		root:    root,
		objects: objects,
		paper:   findFirst(root, ns, StyleNS, "paper"),
		ns:      ns,
	}, nil
}

// Serialize writes the document back out, preserving the XML declaration,
// namespace prefixes and all content the model did not touch.
func (l *Label) Serialize() (string, error) {
	return l.doc.WriteToString()
}

// Objects returns the label's placed objects in document order.
func (l *Label) Objects() []Object {
	children := l.objects.ChildElements()
	objs := make([]Object, 0, len(children))
	for _, ch := range children {
		objs = append(objs, newObject(ch, l.ns))
	}
	return objs
}

// AppendObject deep-copies an object, possibly owned by another document,
// into this label's objects collection and returns the adopted copy.
// Namespace prefixes on the copy are rewritten to this document's
// declarations when the source document used different ones.
func (l *Label) AppendObject(o Object) Object {
	el := o.Element().Copy()
	l.adoptPrefixes(el, o.namespaces())
	l.objects.AddChild(el)
	return newObject(el, l.ns)
}

// adoptPrefixes rewrites the namespace prefixes of a subtree copied from a
// document with declarations src so they resolve identically under this
// document. URIs this document does not declare are declared on its root.
func (l *Label) adoptPrefixes(el *etree.Element, src prefixes) {
	rename := make(map[string]string)
	for uri, pre := range src {
		if pre == "" {
			continue
		}
		if dstPre, ok := l.ns[uri]; ok {
			if dstPre != pre {
				rename[pre] = dstPre
			}
			continue
		}
		adopted := pre
		for n := 1; l.prefixTaken(adopted); n++ {
			adopted = fmt.Sprintf("%s%d", pre, n)
		}
		if adopted != pre {
			rename[pre] = adopted
		}
		l.root.CreateAttr("xmlns:"+adopted, uri)
		l.ns[uri] = adopted
	}
	if len(rename) > 0 {
		renameTree(el, rename)
	}
}

func (l *Label) prefixTaken(pre string) bool {
	for _, v := range l.ns {
		if v == pre {
			return true
		}
	}
	return false
}

func renameTree(el *etree.Element, rename map[string]string) {
	if to, ok := rename[el.Space]; ok {
		el.Space = to
	}
	for i := range el.Attr {
		if el.Attr[i].Space == "xmlns" {
			continue
		}
		if to, ok := rename[el.Attr[i].Space]; ok {
			el.Attr[i].Space = to
		}
	}
	for _, ch := range el.ChildElements() {
		renameTree(ch, rename)
	}
}

// HasPaper reports whether the document carries a paper descriptor.
func (l *Label) HasPaper() bool {
	return l.paper != nil
}

// PaperWidth returns the paper width in points, or 0 when absent.
func (l *Label) PaperWidth() float64 {
	return attrPoints(l.paper, "width")
}

// PaperHeight returns the paper height in points, or 0 when absent or
// unparsable.
func (l *Label) PaperHeight() float64 {
	return attrPoints(l.paper, "height")
}

// PaperHeightRaw returns the paper height attribute exactly as authored, or
// "" when absent.
func (l *Label) PaperHeightRaw() string {
	if l.paper == nil {
		return ""
	}
	return l.paper.SelectAttrValue("height", "")
}

// SetPaperWidth overwrites the paper width, in points.
func (l *Label) SetPaperWidth(pt float64) {
	if l.paper == nil {
		return
	}
	l.paper.CreateAttr("width", fmt.Sprintf("%.3fpt", pt))
}

// SetPaperHeight overwrites the paper height, in points.
func (l *Label) SetPaperHeight(pt float64) {
	if l.paper == nil {
		return
	}
	l.paper.CreateAttr("height", fmt.Sprintf("%.1fpt", pt))
}

// SetPaperHeightRaw writes a previously captured height attribute back
// verbatim.
func (l *Label) SetPaperHeightRaw(raw string) {
	if l.paper == nil || raw == "" {
		return
	}
	l.paper.CreateAttr("height", raw)
}

// SetPrinter overwrites the printer identity fields on the paper descriptor.
func (l *Label) SetPrinter(id, name string) {
	if l.paper == nil {
		return
	}
	l.paper.CreateAttr("printerID", id)
	l.paper.CreateAttr("printerName", name)
}
