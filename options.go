package lbx

import (
	"io"

	"github.com/tsawler/lbx/metrics"
)

// Options holds configuration for a merge.
type Options struct {
	// Layout limits, in millimeters at the API boundary
	maxLengthMM float64
	spacingMM   float64

	// Font resolution
	fontDirs []string
	measurer metrics.Measurer

	// Diagnostics sink, nil means discard
	logger io.Writer
}

// defaultOptions returns the default merge options.
func defaultOptions() Options {
	return Options{
		maxLengthMM: 300,
		spacingMM:   3,
	}
}

// clone creates a deep copy of Options.
func (o Options) clone() Options {
	newOpts := Options{
		maxLengthMM: o.maxLengthMM,
		spacingMM:   o.spacingMM,
		measurer:    o.measurer,
		logger:      o.logger,
	}

	// Deep copy the font directory list
	if o.fontDirs != nil {
		newOpts.fontDirs = make([]string, len(o.fontDirs))
		copy(newOpts.fontDirs, o.fontDirs)
	}

	return newOpts
}
