package lbx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/lbx/container"
	"github.com/tsawler/lbx/model"
	"github.com/tsawler/lbx/stitch"
)

func labelXML(objects string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<pt:document xmlns:pt="http://schemas.brother.info/ptouch/2007/lbx/main" xmlns:style="http://schemas.brother.info/ptouch/2007/lbx/style" xmlns:text="http://schemas.brother.info/ptouch/2007/lbx/text" xmlns:image="http://schemas.brother.info/ptouch/2007/lbx/image" version="1.9">
  <pt:body currentSheet="Sheet 1" direction="LTR">
    <style:sheet name="Sheet 1">
      <style:paper media="0" width="283.2pt" height="85pt" printerID="14386" printerName="Brother PT-P700"/>
      <pt:objects>` + objects + `</pt:objects>
    </style:sheet>
  </pt:body>
</pt:document>`
}

func imageObjectXML(x, width float64, name string) string {
	return fmt.Sprintf(`<image:image>
        <pt:objectStyle x="%gpt" y="5pt" width="%gpt" height="24pt"/>
        <image:imageStyle originalName="%s" alignInText="NONE" firstMerge="true" IpName="" fileName="%s">
          <image:orgPos x="%gpt" y="5pt" width="%gpt" height="24pt"/>
        </image:imageStyle>
      </image:image>`, x, width, name, name, x, width)
}

func textObjectXML(x, width float64, content string) string {
	return fmt.Sprintf(`<text:text>
        <pt:objectStyle x="%gpt" y="5pt" width="%gpt" height="24pt"/>
        <text:ptFontInfo>
          <text:logFont name="Helsinki" width="0" italic="false" weight="400" charSet="0" pitchAndFamily="34"/>
          <text:fontExt effect="NOEFFECT" underline="0" strikeout="0" size="12pt" orgSize="28.8pt" textColor="#000000" textPrintColorNumber="1"/>
        </text:ptFontInfo>
        <pt:data>%s</pt:data>
      </text:text>`, x, width, content)
}

// createTestLBX writes a label container with the given layout, optional
// properties document and resources into dir.
func createTestLBX(t *testing.T, dir, name, layout, prop string, res map[string][]byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	zw := zip.NewWriter(f)
	w, _ := zw.Create("label.xml")
	io.WriteString(w, layout)
	if prop != "" {
		w, _ = zw.Create("prop.xml")
		io.WriteString(w, prop)
	}
	for entry, data := range res {
		w, _ = zw.Create(entry)
		w.Write(data)
	}
	zw.Close()
	f.Close()

	return path
}

func TestMergeFiles_SingleLabel(t *testing.T) {
	dir := t.TempDir()
	prop := `<?xml version="1.0"?><meta:properties><meta:title>Item A</meta:title></meta:properties>`
	bmp := []byte{0x42, 0x4D, 0x01, 0x02, 0x03}
	input := createTestLBX(t, dir, "a.lbx",
		labelXML(imageObjectXML(10, 100, "Object0.bmp")), prop,
		map[string][]byte{"Object0.bmp": bmp})
	output := filepath.Join(dir, "merged.lbx")

	result, err := MergeFiles(output, input)
	if err != nil {
		t.Fatalf("MergeFiles() error = %v", err)
	}
	if result.Merged != 1 {
		t.Errorf("Merged = %d, want 1", result.Merged)
	}
	if len(result.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", result.Skipped)
	}
	if result.OutputPath != output {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, output)
	}

	bundle, err := container.Decode(output)
	if err != nil {
		t.Fatalf("Decode(output) error = %v", err)
	}
	if _, got, ok := bundle.Properties(); !ok || got != prop {
		t.Errorf("output properties = %q, %v, want the input document verbatim", got, ok)
	}
	if data, ok := bundle.Resource("Object0.bmp"); !ok || !bytes.Equal(data, bmp) {
		t.Errorf("output resource = %v, %v, want input bytes passed through", data, ok)
	}

	_, layout, ok := bundle.Layout()
	if !ok {
		t.Fatal("output has no layout document")
	}
	label, err := model.ParseLabel(layout)
	if err != nil {
		t.Fatalf("ParseLabel(output layout) error = %v", err)
	}
	if got := len(label.Objects()); got != 1 {
		t.Errorf("output has %d objects, want 1", got)
	}
	wantWidth := fmt.Sprintf(`width="%.3fpt"`, 110-6*model.MMToPoints)
	for _, want := range []string{wantWidth, `height="85pt"`, `printerID="30256"`, `printerName="Brother PT-P710BT"`} {
		if !strings.Contains(layout, want) {
			t.Errorf("output layout missing %q", want)
		}
	}
}

func TestMerge_OrderPreserved(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		createTestLBX(t, dir, "a.lbx", labelXML(imageObjectXML(0, 90, "a.bmp")), "", nil),
		createTestLBX(t, dir, "b.lbx", labelXML(imageObjectXML(0, 90, "b.bmp")), "", nil),
		createTestLBX(t, dir, "c.lbx", labelXML(imageObjectXML(0, 90, "c.bmp")), "", nil),
	}
	output := filepath.Join(dir, "merged.lbx")

	result, err := MergeFiles(output, inputs...)
	if err != nil {
		t.Fatalf("MergeFiles() error = %v", err)
	}
	if result.Merged != 3 {
		t.Fatalf("Merged = %d, want 3", result.Merged)
	}

	label, err := Open(output)
	if err != nil {
		t.Fatalf("Open(output) error = %v", err)
	}
	objects := label.Objects()
	if len(objects) != 3 {
		t.Fatalf("output has %d objects, want 3", len(objects))
	}
	for i := 1; i < len(objects); i++ {
		if objects[i-1].X() >= objects[i].X() {
			t.Errorf("object %d at %v is not left of object %d at %v",
				i-1, objects[i-1].X(), i, objects[i].X())
		}
	}
}

func TestMerge_LengthFilter(t *testing.T) {
	width := 100 * model.MMToPoints

	makeInputs := func(t *testing.T) (string, []string) {
		dir := t.TempDir()
		return dir, []string{
			createTestLBX(t, dir, "a.lbx", labelXML(imageObjectXML(0, width, "a.bmp")), "", nil),
			createTestLBX(t, dir, "b.lbx", labelXML(imageObjectXML(0, width, "b.bmp")), "", nil),
			createTestLBX(t, dir, "c.lbx", labelXML(imageObjectXML(0, width, "c.bmp")), "", nil),
		}
	}

	t.Run("first two fit", func(t *testing.T) {
		dir, inputs := makeInputs(t)
		output := filepath.Join(dir, "merged.lbx")
		result, err := New().WithMaxLength(250).WithSpacing(0).Merge(output, inputs...)
		if err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
		if result.Merged != 2 {
			t.Errorf("Merged = %d, want 2", result.Merged)
		}
		if len(result.Skipped) != 1 || result.Skipped[0].Path != inputs[2] {
			t.Fatalf("Skipped = %v, want just the third input", result.Skipped)
		}
		if result.Skipped[0].Reason != SkipReasonOverflow {
			t.Errorf("skip reason = %v, want SkipReasonOverflow", result.Skipped[0].Reason)
		}

		label, err := Open(output)
		if err != nil {
			t.Fatalf("Open(output) error = %v", err)
		}
		if got := len(label.Objects()); got != 2 {
			t.Errorf("output has %d objects, want 2", got)
		}
	})

	t.Run("exactly all three", func(t *testing.T) {
		dir, inputs := makeInputs(t)
		output := filepath.Join(dir, "merged.lbx")
		result, err := New().WithMaxLength(300).WithSpacing(0).Merge(output, inputs...)
		if err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
		if result.Merged != 3 {
			t.Errorf("Merged = %d, want 3", result.Merged)
		}
	})

	t.Run("none fit", func(t *testing.T) {
		dir, inputs := makeInputs(t)
		output := filepath.Join(dir, "merged.lbx")
		_, err := New().WithMaxLength(50).WithSpacing(0).Merge(output, inputs...)
		if !errors.Is(err, ErrNothingFits) {
			t.Fatalf("Merge() error = %v, want ErrNothingFits", err)
		}
		if _, statErr := os.Stat(output); !errors.Is(statErr, fs.ErrNotExist) {
			t.Error("no output must be written when nothing fits")
		}
	})
}

func TestMerge_ResourceDedup(t *testing.T) {
	dir := t.TempDir()
	first := []byte{1, 2, 3}
	second := []byte{9, 9}
	inputs := []string{
		createTestLBX(t, dir, "a.lbx", labelXML(imageObjectXML(0, 50, "logo.bmp")), "",
			map[string][]byte{"logo.bmp": first}),
		createTestLBX(t, dir, "b.lbx", labelXML(imageObjectXML(0, 50, "logo.bmp")), "",
			map[string][]byte{"logo.bmp": second}),
	}
	output := filepath.Join(dir, "merged.lbx")

	if _, err := MergeFiles(output, inputs...); err != nil {
		t.Fatalf("MergeFiles() error = %v", err)
	}

	bundle, err := container.Decode(output)
	if err != nil {
		t.Fatalf("Decode(output) error = %v", err)
	}
	names := bundle.ResourceNames()
	if len(names) != 1 || names[0] != "logo.bmp" {
		t.Fatalf("output resources = %v, want exactly one logo.bmp", names)
	}
	if data, _ := bundle.Resource("logo.bmp"); !bytes.Equal(data, first) {
		t.Errorf("logo.bmp = %v, want the first accepted label's bytes %v", data, first)
	}
}

func TestMerge_PropertiesFromFirst(t *testing.T) {
	dir := t.TempDir()
	propA := `<meta:properties>A</meta:properties>`
	propB := `<meta:properties>B</meta:properties>`
	inputs := []string{
		createTestLBX(t, dir, "a.lbx", labelXML(imageObjectXML(0, 50, "a.bmp")), propA, nil),
		createTestLBX(t, dir, "b.lbx", labelXML(imageObjectXML(0, 50, "b.bmp")), propB, nil),
	}
	output := filepath.Join(dir, "merged.lbx")

	if _, err := MergeFiles(output, inputs...); err != nil {
		t.Fatalf("MergeFiles() error = %v", err)
	}

	bundle, err := container.Decode(output)
	if err != nil {
		t.Fatalf("Decode(output) error = %v", err)
	}
	if _, got, ok := bundle.Properties(); !ok || got != propA {
		t.Errorf("output properties = %q, want the first label's verbatim", got)
	}
}

func TestMerge_NoPropertiesOnFirst(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		createTestLBX(t, dir, "a.lbx", labelXML(imageObjectXML(0, 50, "a.bmp")), "", nil),
		createTestLBX(t, dir, "b.lbx", labelXML(imageObjectXML(0, 50, "b.bmp")),
			`<meta:properties>B</meta:properties>`, nil),
	}
	output := filepath.Join(dir, "merged.lbx")

	if _, err := MergeFiles(output, inputs...); err != nil {
		t.Fatalf("MergeFiles() error = %v", err)
	}

	bundle, err := container.Decode(output)
	if err != nil {
		t.Fatalf("Decode(output) error = %v", err)
	}
	// Later labels' properties are discarded, not promoted.
	if _, got, ok := bundle.Properties(); ok {
		t.Errorf("output properties = %q, want none", got)
	}
}

func TestMerge_SkipAccounting(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.lbx")
	notZip := filepath.Join(dir, "notzip.lbx")
	if err := os.WriteFile(notZip, []byte("plain text"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	good := createTestLBX(t, dir, "good.lbx", labelXML(imageObjectXML(0, 50, "a.bmp")), "", nil)
	output := filepath.Join(dir, "merged.lbx")

	var diag bytes.Buffer
	result, err := New().WithLogger(&diag).Merge(output, missing, notZip, good)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if result.Merged != 1 {
		t.Errorf("Merged = %d, want 1", result.Merged)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("Skipped = %v, want 2 entries", result.Skipped)
	}

	if result.Skipped[0].Path != missing || result.Skipped[0].Reason != SkipReasonUnreadable {
		t.Errorf("Skipped[0] = %+v, want %s as unreadable", result.Skipped[0], missing)
	}
	if !errors.Is(result.Skipped[0].Err, fs.ErrNotExist) {
		t.Errorf("Skipped[0].Err = %v, want wrapped fs.ErrNotExist", result.Skipped[0].Err)
	}
	if result.Skipped[1].Path != notZip || result.Skipped[1].Reason != SkipReasonInvalid {
		t.Errorf("Skipped[1] = %+v, want %s as invalid", result.Skipped[1], notZip)
	}
	if !errors.Is(result.Skipped[1].Err, container.ErrInvalidArchive) {
		t.Errorf("Skipped[1].Err = %v, want ErrInvalidArchive", result.Skipped[1].Err)
	}

	if !strings.Contains(diag.String(), "skipping") {
		t.Errorf("diagnostics missing skip lines, got:\n%s", diag.String())
	}
}

func TestMerge_NoInputs(t *testing.T) {
	_, err := MergeFiles(filepath.Join(t.TempDir(), "merged.lbx"))
	if !errors.Is(err, ErrNoInputs) {
		t.Errorf("MergeFiles() error = %v, want ErrNoInputs", err)
	}
}

func TestMerge_NoUsableLabels(t *testing.T) {
	dir := t.TempDir()
	notZip := filepath.Join(dir, "notzip.lbx")
	if err := os.WriteFile(notZip, []byte("plain text"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	_, err := MergeFiles(filepath.Join(dir, "merged.lbx"), notZip, filepath.Join(dir, "missing.lbx"))
	if !errors.Is(err, ErrNoLabels) {
		t.Errorf("MergeFiles() error = %v, want ErrNoLabels", err)
	}
}

func TestMerge_EmptyBaseLabel(t *testing.T) {
	dir := t.TempDir()
	input := createTestLBX(t, dir, "empty.lbx", labelXML(""), "", nil)

	_, err := MergeFiles(filepath.Join(dir, "merged.lbx"), input)
	if !errors.Is(err, stitch.ErrEmptyBase) {
		t.Errorf("MergeFiles() error = %v, want ErrEmptyBase", err)
	}
}

func TestMerge_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	input := createTestLBX(t, dir, "a.lbx", labelXML(imageObjectXML(0, 50, "a.bmp")), "", nil)

	_, err := MergeFiles(filepath.Join(dir, "no-such-dir", "merged.lbx"), input)
	if err == nil {
		t.Fatal("MergeFiles() expected an error for an unwritable output")
	}
	// A write failure is an I/O error, not a capacity or format one.
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want wrapped fs.ErrNotExist", err)
	}
	if errors.Is(err, ErrNothingFits) || errors.Is(err, ErrNoLabels) {
		t.Errorf("error = %v must not read as a label failure", err)
	}
}

func TestMerge_WithMetrics(t *testing.T) {
	dir := t.TempDir()
	input := createTestLBX(t, dir, "a.lbx", labelXML(textObjectXML(10, 120, "Hello")), "", nil)
	output := filepath.Join(dir, "merged.lbx")

	measured := measurerFunc(func(family string, sizePt float64, text string) (float64, bool) {
		if text == "Hello" {
			return 50, true
		}
		return 0, false
	})
	if _, err := New().WithMetrics(measured).Merge(output, input); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	label, err := Open(output)
	if err != nil {
		t.Fatalf("Open(output) error = %v", err)
	}
	if got := label.Objects()[0].DeclaredWidth(); got != 50 {
		t.Errorf("DeclaredWidth() = %v, want the measured 50", got)
	}
}

// measurerFunc adapts a function to the metrics.Measurer interface.
type measurerFunc func(family string, sizePt float64, text string) (float64, bool)

func (f measurerFunc) Measure(family string, sizePt float64, text string) (float64, bool) {
	return f(family, sizePt, text)
}

func TestMerger_Immutability(t *testing.T) {
	dir := t.TempDir()
	input := createTestLBX(t, dir, "a.lbx",
		labelXML(imageObjectXML(0, 100*model.MMToPoints, "a.bmp")), "", nil)

	base := New()
	narrow := base.WithMaxLength(50)
	if narrow == base {
		t.Fatal("WithMaxLength() returned the same instance")
	}

	// The derived merger rejects the label, the original still accepts it.
	if _, err := narrow.Merge(filepath.Join(dir, "narrow.lbx"), input); !errors.Is(err, ErrNothingFits) {
		t.Errorf("narrow Merge() error = %v, want ErrNothingFits", err)
	}
	if _, err := base.Merge(filepath.Join(dir, "base.lbx"), input); err != nil {
		t.Errorf("base Merge() error = %v, want success", err)
	}
}

func TestMerger_FontDirsAccumulate(t *testing.T) {
	base := New().WithFontDirs("one")
	derived := base.WithFontDirs("two", "three")

	if got := len(base.options.fontDirs); got != 1 {
		t.Errorf("base has %d font dirs, want 1", got)
	}
	if got := len(derived.options.fontDirs); got != 3 {
		t.Errorf("derived has %d font dirs, want 3", got)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	input := createTestLBX(t, dir, "a.lbx", labelXML(imageObjectXML(10, 100, "a.bmp")), "", nil)

	label, err := Open(input)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := len(label.Objects()); got != 1 {
		t.Errorf("Objects() has %d entries, want 1", got)
	}

	if _, err := Open(filepath.Join(dir, "missing.lbx")); err == nil {
		t.Error("Open() expected an error for a missing file")
	}
}

func TestMust(t *testing.T) {
	dir := t.TempDir()
	input := createTestLBX(t, dir, "a.lbx", labelXML(imageObjectXML(10, 100, "a.bmp")), "", nil)

	label := Must(Open(input))
	if label == nil {
		t.Fatal("Must(Open()) = nil")
	}

	defer func() {
		if recover() == nil {
			t.Error("Must() did not panic on error")
		}
	}()
	Must(Open(filepath.Join(dir, "missing.lbx")))
}

func BenchmarkMergeFiles(b *testing.B) {
	dir := b.TempDir()
	layout := labelXML(imageObjectXML(0, 100, "logo.bmp") + textObjectXML(10, 80, "Sample"))
	var inputs []string
	for i := 0; i < 3; i++ {
		path := filepath.Join(dir, fmt.Sprintf("in%d.lbx", i))
		f, err := os.Create(path)
		if err != nil {
			b.Fatalf("failed to create temp file: %v", err)
		}
		zw := zip.NewWriter(f)
		w, _ := zw.Create("label.xml")
		io.WriteString(w, layout)
		w, _ = zw.Create("logo.bmp")
		w.Write([]byte{0x42, 0x4D, 0, 0})
		zw.Close()
		f.Close()
		inputs = append(inputs, path)
	}
	output := filepath.Join(dir, "merged.lbx")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := MergeFiles(output, inputs...); err != nil {
			b.Fatal(err)
		}
	}
}
