// lbxmerge is a command-line tool for merging Brother P-Touch .lbx label
// files into a single continuous label.
//
// The inputs are laid out left to right on one strip, separated by a fixed
// spacing, and the result is written as a new .lbx file that P-Touch Editor
// can open and print on continuous tape. Labels that would push the strip
// past the maximum length are skipped and reported on stderr.
//
// Usage:
//
//	lbxmerge -o merged.lbx [options] <input.lbx> [<input.lbx> ...]
//
// Required flags:
//
//	-o, -output string  Path for the merged .lbx file
//
// Layout options:
//
//	-m, -max-length int   Maximum label length in mm (default 300)
//	-s, -spacing float    Spacing between labels in mm (default 3)
//	-fonts string         Comma-separated directories to load .ttf/.otf
//	                      fonts from, used to measure text widths
//
// Other options:
//
//	-config string  Path to a YAML defaults file; explicit flags win
//	-q              Suppress per-label diagnostics on stderr
//
// The YAML defaults file accepts the following keys:
//
//	output: "merged.lbx"
//	max_length_mm: 300
//	spacing_mm: 3
//	font_dirs:
//	  - /usr/share/fonts/truetype
//
// Example:
//
//	lbxmerge -o shelf.lbx -m 250 -s 5 part1.lbx part2.lbx part3.lbx
//	lbxmerge -config labels.yml drawer/*.lbx

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/lbx"
	"github.com/tsawler/lbx/container"
)

type yamlConfig struct {
	Output      string   `yaml:"output"`
	MaxLengthMM float64  `yaml:"max_length_mm"`
	SpacingMM   float64  `yaml:"spacing_mm"`
	FontDirs    []string `yaml:"font_dirs"`
}

// loadConfig reads a YAML defaults file.
func loadConfig(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, err
	}
	return &yc, nil
}

// splitDirs turns a comma-separated flag value into a cleaned list.
func splitDirs(s string) []string {
	var dirs []string
	for _, dir := range strings.Split(s, ",") {
		dir = strings.TrimSpace(dir)
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// looksLikeArchive probes the first bytes of a file for the zip signature.
func looksLikeArchive(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return container.IsArchive(f)
}

func main() {
	var (
		output     string
		maxLength  int
		spacing    float64
		fontList   string
		configPath string
		quiet      bool
	)
	flag.StringVar(&output, "output", "", "Path for the merged .lbx file (required)")
	flag.StringVar(&output, "o", "", "Shorthand for -output")
	flag.IntVar(&maxLength, "max-length", 300, "Maximum label length in mm")
	flag.IntVar(&maxLength, "m", 300, "Shorthand for -max-length")
	flag.Float64Var(&spacing, "spacing", 3, "Spacing between labels in mm")
	flag.Float64Var(&spacing, "s", 3, "Shorthand for -spacing")
	flag.StringVar(&fontList, "fonts", "", "Comma-separated directories to load fonts from")
	flag.StringVar(&configPath, "config", "", "Path to a YAML defaults file")
	flag.BoolVar(&quiet, "q", false, "Suppress per-label diagnostics")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: lbxmerge -o <output.lbx> [options] <input.lbx> [<input.lbx> ...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	provided := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		provided[f.Name] = true
	})

	maxLengthMM := float64(maxLength)
	spacingMM := spacing
	fontDirs := splitDirs(fontList)

	// A config file supplies defaults; flags given explicitly win.
	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
			os.Exit(1)
		}
		if cfg.Output != "" && !provided["output"] && !provided["o"] {
			output = cfg.Output
		}
		if cfg.MaxLengthMM > 0 && !provided["max-length"] && !provided["m"] {
			maxLengthMM = cfg.MaxLengthMM
		}
		if cfg.SpacingMM > 0 && !provided["spacing"] && !provided["s"] {
			spacingMM = cfg.SpacingMM
		}
		if len(cfg.FontDirs) > 0 && !provided["fonts"] {
			fontDirs = cfg.FontDirs
		}
	}

	if output == "" {
		fmt.Fprintln(os.Stderr, "Error: -output flag is required")
		flag.Usage()
		os.Exit(1)
	}
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files given")
		flag.Usage()
		os.Exit(1)
	}

	// Validate input files.
	for _, path := range inputs {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Input file %s does not exist\n", path)
			os.Exit(1)
		}
		if !strings.HasSuffix(strings.ToLower(path), ".lbx") {
			fmt.Fprintf(os.Stderr, "Warning: %s does not have .lbx extension\n", path)
		}
		if !looksLikeArchive(path) {
			fmt.Fprintf(os.Stderr, "Warning: %s does not look like a label archive\n", path)
		}
	}

	var diag io.Writer = os.Stderr
	if quiet {
		diag = io.Discard
	}

	merger := lbx.New().
		WithMaxLength(maxLengthMM).
		WithSpacing(spacingMM).
		WithLogger(diag)
	if len(fontDirs) > 0 {
		merger = merger.WithFontDirs(fontDirs...)
	}

	fmt.Printf("Merging %d label file(s) into a continuous label...\n", len(inputs))
	result, err := merger.Merge(output, inputs...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to merge labels: %v\n", err)
		os.Exit(1)
	}

	if len(result.Skipped) > 0 {
		fmt.Printf("Merged %d of %d label file(s), skipped %d.\n",
			result.Merged, len(inputs), len(result.Skipped))
	}
	fmt.Printf("Successfully created merged continuous label: %s\n", result.OutputPath)
	fmt.Println("The merged label should now be openable in P-Touch Editor.")
}
