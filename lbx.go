// Package lbx merges single-item print-label containers into one continuous
// label, laying the items out side by side with controlled spacing.
//
// Basic usage:
//
//	result, err := lbx.MergeFiles("merged.lbx", "a.lbx", "b.lbx", "c.lbx")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Printf("merged %d label(s)\n", result.Merged)
//
// With options:
//
//	result, err := lbx.New().
//	    WithMaxLength(250).
//	    WithSpacing(5).
//	    WithFontDirs("/usr/share/fonts/truetype").
//	    Merge("merged.lbx", "a.lbx", "b.lbx")
//
// Lengths at the API boundary are millimeters; geometry inside the label
// documents is points. Text is measured by rendering it with fonts loaded
// from the configured directories, falling back to each text box's declared
// width for fonts that cannot be resolved.
//
// For lower-level access the container, model, metrics and stitch packages
// are also available.
package lbx

import (
	"github.com/tsawler/lbx/model"
)

// MergeFiles merges the given label containers into output using default
// options.
//
// Example:
//
//	result, err := lbx.MergeFiles("merged.lbx", "a.lbx", "b.lbx")
func MergeFiles(output string, inputs ...string) (*MergeResult, error) {
	return New().Merge(output, inputs...)
}

// Open decodes a single label container and parses its layout document.
// It is a convenience for callers inspecting a label without merging.
func Open(path string) (*model.Label, error) {
	ll, err := loadLabel(path)
	if err != nil {
		return nil, err
	}
	return ll.label, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	label := lbx.Must(lbx.Open("item.lbx"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
