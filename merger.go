package lbx

import (
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/lbx/container"
	"github.com/tsawler/lbx/metrics"
	"github.com/tsawler/lbx/model"
	"github.com/tsawler/lbx/stitch"
)

// Merge-related errors.
var (
	ErrNoInputs    = errors.New("lbx: no input paths given")
	ErrNoLayout    = errors.New("lbx: container has no layout document")
	ErrNoLabels    = errors.New("lbx: no readable labels among the inputs")
	ErrNothingFits = errors.New("lbx: no label fits within the maximum length")
)

// SkipReason classifies why an input was left out of a merge.
type SkipReason int

const (
	SkipReasonUnknown SkipReason = iota

	// SkipReasonUnreadable marks inputs that could not be read at all.
	SkipReasonUnreadable

	// SkipReasonInvalid marks inputs that read fine but did not hold a
	// usable label.
	SkipReasonInvalid

	// SkipReasonOverflow marks labels that parsed fine but did not fit
	// within the maximum output length.
	SkipReasonOverflow
)

func (r SkipReason) String() string {
	switch r {
	case SkipReasonUnreadable:
		return "unreadable"
	case SkipReasonInvalid:
		return "invalid"
	case SkipReasonOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// SkippedInput records one input left out of a merge and why.
type SkippedInput struct {
	Path   string
	Reason SkipReason
	Err    error // nil for overflow skips
}

// MergeResult reports the outcome of one successful merge.
type MergeResult struct {
	// OutputPath is the container that was written.
	OutputPath string

	// Merged counts the labels stitched into the output.
	Merged int

	// Skipped lists the inputs left out, in input order within each
	// phase: unreadable and invalid inputs first, then overflow skips.
	Skipped []SkippedInput
}

// Merger merges label containers into one continuous label. Each
// configuration method returns a new Merger instance, making it safe for
// concurrent use and allowing method chaining.
type Merger struct {
	options Options
}

// New returns a Merger with default options: 300mm maximum output length
// and 3mm spacing between labels.
func New() *Merger {
	return &Merger{options: defaultOptions()}
}

// clone creates a copy of the Merger with a deep copy of options. This
// ensures immutability, each chain method returns a new instance.
func (m *Merger) clone() *Merger {
	return &Merger{options: m.options.clone()}
}

// WithMaxLength limits the merged output to mm millimeters. Labels that
// would push past the limit are skipped, not truncated.
func (m *Merger) WithMaxLength(mm float64) *Merger {
	newM := m.clone()
	newM.options.maxLengthMM = mm
	return newM
}

// WithSpacing sets the gap between consecutive labels, in millimeters.
func (m *Merger) WithSpacing(mm float64) *Merger {
	newM := m.clone()
	newM.options.spacingMM = mm
	return newM
}

// WithFontDirs adds directories scanned for .ttf and .otf fonts used to
// measure text. Repeated calls accumulate.
func (m *Merger) WithFontDirs(dirs ...string) *Merger {
	newM := m.clone()
	newM.options.fontDirs = append(newM.options.fontDirs, dirs...)
	return newM
}

// WithMetrics replaces the text measurer. It overrides WithFontDirs.
func (m *Merger) WithMetrics(measurer metrics.Measurer) *Merger {
	newM := m.clone()
	newM.options.measurer = measurer
	return newM
}

// WithLogger directs merge diagnostics to w. By default they are
// discarded.
func (m *Merger) WithLogger(w io.Writer) *Merger {
	newM := m.clone()
	newM.options.logger = w
	return newM
}

// loadedLabel pairs one decoded container with its parsed layout.
type loadedLabel struct {
	path   string
	bundle *container.Bundle
	label  *model.Label
}

// Merge decodes every input container, selects the prefix of labels that
// fits within the maximum length, stitches them onto the first accepted
// label, and writes the merged container to output.
//
// Inputs that fail to decode or hold no usable label are skipped, not
// fatal; so are labels that would overflow the maximum length. Merge fails
// outright only when it is given no inputs, when no input yields a label,
// when no label fits, or when the output cannot be written. The returned
// MergeResult accounts for every skipped input.
func (m *Merger) Merge(output string, inputs ...string) (*MergeResult, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	log := m.logger()

	var skipped []SkippedInput
	var loaded []loadedLabel
	for _, path := range inputs {
		ll, err := loadLabel(path)
		if err != nil {
			skipped = append(skipped, SkippedInput{Path: path, Reason: classifySkip(err), Err: err})
			fmt.Fprintf(log, "skipping %s: %v\n", path, err)
			continue
		}
		loaded = append(loaded, ll)
	}
	if len(loaded) == 0 {
		return nil, ErrNoLabels
	}

	stitcher := &stitch.Stitcher{
		SpacingPt: model.MMToPt(m.options.spacingMM),
		Metrics:   m.measurer(log),
		Log:       log,
	}

	widths := make([]float64, len(loaded))
	for i, ll := range loaded {
		widths[i] = stitcher.ContentWidth(ll.label)
	}
	accepted, overflow := stitch.Filter(widths,
		model.MMToPt(m.options.spacingMM), model.MMToPt(m.options.maxLengthMM))
	for _, idx := range overflow {
		skipped = append(skipped, SkippedInput{Path: loaded[idx].path, Reason: SkipReasonOverflow})
		fmt.Fprintf(log, "skipping %s: would exceed the maximum length of %gmm\n",
			loaded[idx].path, m.options.maxLengthMM)
	}
	if len(accepted) == 0 {
		return nil, ErrNothingFits
	}

	base := loaded[accepted[0]]
	rest := make([]*model.Label, 0, len(accepted)-1)
	for _, idx := range accepted[1:] {
		rest = append(rest, loaded[idx].label)
	}

	if _, err := stitcher.Compose(base.label, rest...); err != nil {
		return nil, err
	}

	layout, err := base.label.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serializing merged label: %w", err)
	}

	out := container.NewBundle()
	out.AddDocument("label.xml", layout)
	// Properties travel verbatim from the first accepted label only.
	if _, props, ok := base.bundle.Properties(); ok {
		out.AddDocument("prop.xml", props)
	}
	// Resources deduplicate across accepted labels by name, first wins.
	for _, idx := range accepted {
		bundle := loaded[idx].bundle
		for _, name := range bundle.ResourceNames() {
			data, _ := bundle.Resource(name)
			out.AddResource(name, data)
		}
	}

	if err := container.Encode(output, out); err != nil {
		return nil, err
	}

	fmt.Fprintf(log, "merged %d label(s) into %s\n", len(accepted), output)
	return &MergeResult{
		OutputPath: output,
		Merged:     len(accepted),
		Skipped:    skipped,
	}, nil
}

// measurer returns the configured measurer, or builds one over the
// configured font directories.
func (m *Merger) measurer(log io.Writer) metrics.Measurer {
	if m.options.measurer != nil {
		return m.options.measurer
	}
	lib := metrics.NewLibrary()
	for _, dir := range m.options.fontDirs {
		added, err := lib.AddDir(dir)
		if err != nil {
			fmt.Fprintf(log, "font directory %s: %v\n", dir, err)
			continue
		}
		fmt.Fprintf(log, "loaded %d font(s) from %s\n", added, dir)
	}
	return metrics.NewFontMeasurer(lib)
}

func (m *Merger) logger() io.Writer {
	if m.options.logger != nil {
		return m.options.logger
	}
	return io.Discard
}

// loadLabel decodes one input container and parses its layout document.
func loadLabel(path string) (loadedLabel, error) {
	bundle, err := container.Decode(path)
	if err != nil {
		return loadedLabel{}, err
	}
	_, content, ok := bundle.Layout()
	if !ok {
		return loadedLabel{}, ErrNoLayout
	}
	label, err := model.ParseLabel(content)
	if err != nil {
		return loadedLabel{}, err
	}
	return loadedLabel{path: path, bundle: bundle, label: label}, nil
}

// classifySkip buckets a load failure: recognized format sentinels read as
// invalid input, anything else as an unreadable path.
func classifySkip(err error) SkipReason {
	switch {
	case errors.Is(err, container.ErrInvalidArchive),
		errors.Is(err, container.ErrNoDocuments),
		errors.Is(err, model.ErrMalformedLabel),
		errors.Is(err, model.ErrNoObjects),
		errors.Is(err, ErrNoLayout):
		return SkipReasonInvalid
	}
	return SkipReasonUnreadable
}
