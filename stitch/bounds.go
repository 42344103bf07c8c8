// Package stitch lays labels out side by side on one continuous strip.
package stitch

import (
	"fmt"
	"math"

	"github.com/tsawler/lbx/model"
)

// textWidth measures one text object, falling back to its declared width
// when no measurer is set or the named font cannot be rendered. Objects
// with no content have no width.
func (s *Stitcher) textWidth(t *model.TextObject) float64 {
	content, ok := t.Content()
	if !ok {
		fmt.Fprintln(s.log(), "text object has no content")
		return 0
	}
	if s.Metrics != nil {
		if w, ok := s.Metrics.Measure(t.FontFamily(), t.FontSize(), content); ok {
			return w
		}
	}
	return t.DeclaredWidth()
}

// Bounds computes the horizontal extent of an object list. Every text
// object takes the widest measured text width in the set: authoring tools
// emit inconsistent per-object padding and a shared width keeps the visual
// baseline aligned. When resize is true that shared width is also written
// back to each text object's declared width. Non-text objects contribute
// their declared width. Objects without a style element are ignored, and an
// empty list yields (0, 0).
func (s *Stitcher) Bounds(objects []model.Object, resize bool) (minX, maxX float64) {
	if len(objects) == 0 {
		return 0, 0
	}

	var widest float64
	for _, obj := range objects {
		if text, ok := obj.(*model.TextObject); ok {
			if w := s.textWidth(text); w > widest {
				widest = w
			}
		}
	}

	minX = math.Inf(1)
	for _, obj := range objects {
		if !obj.HasStyle() {
			continue
		}
		width := obj.DeclaredWidth()
		if text, ok := obj.(*model.TextObject); ok {
			width = widest
			if resize {
				text.SetDeclaredWidth(widest)
			}
		}
		x := obj.X()
		if x < minX {
			minX = x
		}
		if right := x + width; right > maxX {
			maxX = right
		}
	}
	if math.IsInf(minX, 1) {
		minX = 0
	}
	return minX, maxX
}

// ContentWidth returns a label's intrinsic content width without mutating
// it.
func (s *Stitcher) ContentWidth(label *model.Label) float64 {
	minX, maxX := s.Bounds(label.Objects(), false)
	return maxX - minX
}
