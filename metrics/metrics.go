package metrics

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// referenceDPI is the raster resolution the label engine assumes when
// converting rendered pixel widths back to points. It is fixed by the
// downstream consumer, not configurable.
const referenceDPI = 96.0

// Measurer resolves a font by family name and reports the rendered width of
// text at sizePt, in points. ok is false when the font cannot be resolved
// or the size cannot be rendered; callers then use declared geometry
// instead.
type Measurer interface {
	Measure(family string, sizePt float64, text string) (widthPt float64, ok bool)
}

// FontMeasurer renders text against fonts held in a Library.
type FontMeasurer struct {
	fonts *Library
}

// NewFontMeasurer returns a measurer over lib. A nil lib yields a measurer
// that resolves nothing, leaving every caller on the declared-width
// variant.
func NewFontMeasurer(lib *Library) *FontMeasurer {
	return &FontMeasurer{fonts: lib}
}

var _ Measurer = (*FontMeasurer)(nil)

// Measure renders text with the named font. The face is sized at the
// nearest whole point and rasterized at 72dpi, where pixel and point units
// coincide, then the advance is rounded to whole pixels and rescaled to
// the reference resolution.
func (m *FontMeasurer) Measure(family string, sizePt float64, text string) (float64, bool) {
	if m.fonts == nil {
		return 0, false
	}
	fnt := m.fonts.Lookup(family)
	if fnt == nil {
		return 0, false
	}
	size := math.Round(sizePt)
	if size <= 0 {
		return 0, false
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size: size,
		DPI:  72,
	})
	if err != nil {
		return 0, false
	}
	defer face.Close()

	px := math.Round(float64(font.MeasureString(face, text)) / 64.0)
	return px * 72.0 / referenceDPI, true
}
