package stitch

import (
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/lbx/metrics"
	"github.com/tsawler/lbx/model"
)

// Printer identity stamped onto every merged label. Continuous output is
// only meaningful on a continuous-tape printer, so the merge result always
// claims one.
const (
	PrinterID   = "30256"
	PrinterName = "Brother PT-P710BT"
)

// offsetCorrectionPt compensates for the label engine drawing text boxes
// slightly wider than their measured bound. The margin is near-constant
// regardless of font size, so it is a fixed correction, not a derived one.
const offsetCorrectionPt = 6.0 * model.MMToPoints

// ErrEmptyBase reports a first label with nothing on it, which leaves the
// merge with no document to build on.
var ErrEmptyBase = errors.New("lbx: base label has no objects")

// Stitcher appends labels onto a base label left to right.
type Stitcher struct {
	// SpacingPt is the gap inserted between consecutive labels, in points.
	SpacingPt float64

	// Metrics measures text objects during bounds computation. When nil,
	// text objects contribute their declared widths.
	Metrics metrics.Measurer

	// Log receives layout diagnostics. When nil they are discarded.
	Log io.Writer
}

func (s *Stitcher) log() io.Writer {
	if s.Log != nil {
		return s.Log
	}
	return io.Discard
}

// Compose folds rest into base in order, translating each label's objects
// to sit after the previous label's content, and finalizes base's paper
// descriptor. It returns the merged content width in points. Labels with no
// objects are passed over without consuming width or spacing. base is
// mutated in place; rest labels keep their positions, though their text
// widths are normalized during measurement.
func (s *Stitcher) Compose(base *model.Label, rest ...*model.Label) (float64, error) {
	baseObjects := base.Objects()
	if len(baseObjects) == 0 {
		return 0, ErrEmptyBase
	}

	_, maxX := s.Bounds(baseObjects, true)
	currentX := maxX - offsetCorrectionPt + s.SpacingPt

	for _, label := range rest {
		objects := label.Objects()
		if len(objects) == 0 {
			continue
		}
		minX, maxX := s.Bounds(objects, true)
		shift := currentX - minX
		for _, obj := range objects {
			added := base.AppendObject(obj)
			added.Translate(shift, 0)
		}
		currentX = (maxX - offsetCorrectionPt) + shift + s.SpacingPt
	}

	finalWidth := currentX - s.SpacingPt
	s.finalizePaper(base, rest, finalWidth)
	return finalWidth, nil
}

// finalizePaper rewrites base's paper descriptor for the merged strip: the
// computed width, the continuous-tape printer identity, and a height. The
// base label's own height always wins when present; otherwise the tallest
// height among the appended labels is used, first seen winning ties. A base
// without a paper descriptor is left entirely alone.
func (s *Stitcher) finalizePaper(base *model.Label, rest []*model.Label, widthPt float64) {
	if !base.HasPaper() {
		return
	}
	base.SetPaperWidth(widthPt)
	base.SetPrinter(PrinterID, PrinterName)

	if raw := base.PaperHeightRaw(); raw != "" {
		base.SetPaperHeightRaw(raw)
		fmt.Fprintf(s.log(), "set paper width %.3fpt, height %s\n", widthPt, raw)
		return
	}

	var tallest float64
	var found bool
	for _, label := range rest {
		if !label.HasPaper() {
			continue
		}
		raw := label.PaperHeightRaw()
		if raw == "" {
			continue
		}
		h, err := model.ParsePoints(raw)
		if err != nil {
			continue
		}
		if !found || h > tallest {
			tallest = h
			found = true
		}
	}
	if found {
		base.SetPaperHeight(tallest)
		fmt.Fprintf(s.log(), "set paper width %.3fpt, height %.1fpt\n", widthPt, tallest)
	}
}
