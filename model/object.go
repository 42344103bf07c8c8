package model

import (
	"fmt"

	"github.com/beevik/etree"
)

// ObjectKind identifies the variant of a placed object.
type ObjectKind int

const (
	KindGeneric ObjectKind = iota
	KindText
	KindImage
)

func (k ObjectKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindImage:
		return "Image"
	default:
		return "Generic"
	}
}

// Default font attributes used when a text object omits its font info.
const (
	DefaultFontFamily = "arial"
	DefaultFontSize   = 8.0
)

// Object is one placed object inside a label's objects collection.
// Objects are live views into the owning document: mutations apply directly
// to the underlying XML tree.
type Object interface {
	Kind() ObjectKind

	// HasStyle reports whether the object carries the style element that
	// holds its position and declared size. Objects without one do not
	// participate in bounds computation.
	HasStyle() bool

	// X and Y return the object's position in points.
	X() float64
	Y() float64

	// DeclaredWidth and DeclaredHeight return the authored size attributes
	// in points, 0 when absent or unparsable.
	DeclaredWidth() float64
	DeclaredHeight() float64

	// Translate moves the object by (dx, dy) points, updating every
	// position-bearing field the variant carries.
	Translate(dx, dy float64)

	// Element exposes the underlying XML element.
	Element() *etree.Element

	namespaces() prefixes
}

// object is the shared implementation behind all variants.
type object struct {
	el *etree.Element
	ns prefixes
}

// newObject wraps an element from an objects collection in its variant type.
func newObject(el *etree.Element, ns prefixes) Object {
	base := object{el: el, ns: ns}
	switch {
	case ns.match(el, TextNS, "text"):
		return &TextObject{object: base}
	case ns.match(el, ImageNS, "image"):
		return &ImageObject{object: base}
	default:
		return &GenericObject{object: base}
	}
}

// style returns the object's style element, nil on malformed objects.
func (o *object) style() *etree.Element {
	return findFirst(o.el, o.ns, MainNS, "objectStyle")
}

func (o *object) HasStyle() bool {
	return o.style() != nil
}

func (o *object) X() float64 {
	return attrPoints(o.style(), "x")
}

func (o *object) Y() float64 {
	return attrPoints(o.style(), "y")
}

func (o *object) DeclaredWidth() float64 {
	return attrPoints(o.style(), "width")
}

func (o *object) DeclaredHeight() float64 {
	return attrPoints(o.style(), "height")
}

func (o *object) Translate(dx, dy float64) {
	shiftAttrs(o.style(), dx, dy)
}

func (o *object) Element() *etree.Element {
	return o.el
}

func (o *object) namespaces() prefixes {
	return o.ns
}

// shiftAttrs adds (dx, dy) to the x and y attributes of el. Missing or
// unparsable attributes read as 0.
func shiftAttrs(el *etree.Element, dx, dy float64) {
	if el == nil {
		return
	}
	x := attrPoints(el, "x")
	y := attrPoints(el, "y")
	el.CreateAttr("x", FormatPoints(x+dx))
	el.CreateAttr("y", FormatPoints(y+dy))
}

// GenericObject is any placed object the model does not specialize, such as
// barcodes, frames and drawing primitives. Its geometry comes entirely from
// the declared attributes.
type GenericObject struct {
	object
}

func (g *GenericObject) Kind() ObjectKind { return KindGeneric }

// TextObject is a placed text box.
type TextObject struct {
	object
}

func (t *TextObject) Kind() ObjectKind { return KindText }

// Content returns the literal string the text object renders. ok is false
// when the data element is absent or empty.
func (t *TextObject) Content() (string, bool) {
	data := findChild(t.el, t.ns, MainNS, "data")
	if data == nil {
		return "", false
	}
	s := data.Text()
	return s, s != ""
}

// fontInfo returns the object's top-level font info element, nil when absent.
func (t *TextObject) fontInfo() *etree.Element {
	return findChild(t.el, t.ns, TextNS, "ptFontInfo")
}

// FontFamily returns the font family the text object names, or
// DefaultFontFamily when the font info is absent.
func (t *TextObject) FontFamily() string {
	fi := t.fontInfo()
	if fi == nil {
		return DefaultFontFamily
	}
	lf := findChild(fi, t.ns, TextNS, "logFont")
	if lf == nil {
		return DefaultFontFamily
	}
	if name := lf.SelectAttrValue("name", ""); name != "" {
		return name
	}
	return DefaultFontFamily
}

// FontSize returns the font size in points, or DefaultFontSize when the
// font info is absent or unparsable.
func (t *TextObject) FontSize() float64 {
	fi := t.fontInfo()
	if fi == nil {
		return DefaultFontSize
	}
	fe := findChild(fi, t.ns, TextNS, "fontExt")
	if fe == nil {
		return DefaultFontSize
	}
	attr := fe.SelectAttrValue("size", "")
	if attr == "" {
		return DefaultFontSize
	}
	v, err := ParsePoints(attr)
	if err != nil {
		return DefaultFontSize
	}
	return v
}

// SetDeclaredWidth overwrites the declared width attribute, in points.
func (t *TextObject) SetDeclaredWidth(pt float64) {
	if style := t.style(); style != nil {
		style.CreateAttr("width", fmt.Sprintf("%.3fpt", pt))
	}
}

// ImageObject is a placed raster image referencing a resource inside the
// container by file name.
type ImageObject struct {
	object
}

func (i *ImageObject) Kind() ObjectKind { return KindImage }

// Source returns the container resource name the image renders, or "" when
// the image style does not name one.
func (i *ImageObject) Source() string {
	style := findFirst(i.el, i.ns, ImageNS, "imageStyle")
	if style == nil {
		return ""
	}
	return style.SelectAttrValue("fileName", "")
}

// Translate moves the image and keeps its original-position element in step.
// Both must move together or the renderer places the bitmap away from its
// frame.
func (i *ImageObject) Translate(dx, dy float64) {
	i.object.Translate(dx, dy)
	shiftAttrs(findFirst(i.el, i.ns, ImageNS, "orgPos"), dx, dy)
}
