package binfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"objtext/image"
)

func TestReaderLoad(t *testing.T) {
	img, err := NewReader(0x8000).Load(strings.NewReader("\x01\x02\x03"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []*image.Section{
		image.NewSection(0x8000, []byte{1, 2, 3}),
	}
	if diff := cmp.Diff(want, img.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterGapFill(t *testing.T) {
	img := &image.Image{
		Sections: []*image.Section{
			image.NewSection(0x14, []byte{4, 5}),
			image.NewSection(0x10, []byte{1, 2}),
		},
		Valid: true,
	}
	got, err := NewWriter().DumpString(img, 0)
	if err != nil {
		t.Fatalf("DumpString() error = %v", err)
	}
	want := "\x01\x02\xFF\xFF\x04\x05"
	if got != want {
		t.Errorf("DumpString() = %q, want %q", got, want)
	}
}

func TestWriterCustomFiller(t *testing.T) {
	img := &image.Image{
		Sections: []*image.Section{
			image.NewSection(0, []byte{1}),
			image.NewSection(2, []byte{2}),
		},
		Valid: true,
	}
	w := &Writer{Filler: 0x00}
	got, err := w.DumpString(img, 0)
	if err != nil {
		t.Fatalf("DumpString() error = %v", err)
	}
	if got != "\x01\x00\x02" {
		t.Errorf("DumpString() = %q, want %q", got, "\x01\x00\x02")
	}
}

func TestWriterEmptyImage(t *testing.T) {
	got, err := NewWriter().DumpString(&image.Image{}, 0)
	if err != nil {
		t.Fatalf("DumpString() error = %v", err)
	}
	if got != "" {
		t.Errorf("DumpString() = %q, want empty", got)
	}
}

func TestZipRoundTrip(t *testing.T) {
	img := &image.Image{
		Sections: []*image.Section{
			image.NewSection(0x1000, []byte{1, 2, 3}),
			image.NewSection(0x8000, []byte{9, 8}),
		},
		Valid: true,
	}
	var buf bytes.Buffer
	if err := NewZipWriter().Dump(&buf, img, 0); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	back, err := NewZipReader().Load(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(img.Sections, back.Sections); diff != "" {
		t.Errorf("sections mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestZipProbe(t *testing.T) {
	img := &image.Image{
		Sections: []*image.Section{image.NewSection(0, []byte{1})},
		Valid:    true,
	}
	var buf bytes.Buffer
	if err := NewZipWriter().Dump(&buf, img, 0); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !NewZipReader().Probe(buf.Bytes()) {
		t.Error("Probe() = false for zip archive")
	}
	if NewZipReader().Probe([]byte("S9030000FC\n")) {
		t.Error("Probe() = true for text input")
	}
	if NewReader(0).Probe(buf.Bytes()) {
		t.Error("raw binary Probe() = true; it should never claim input")
	}
}
