package fpc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"objtext/hexfile"
	"objtext/image"
)

const sample = "$rQG8x%%%%%%ASD0\n$%%%%%\n"

func newReader() *Reader {
	return NewReader(hexfile.WithLogger(hexfile.NopLogger{}))
}

func TestQuintupleRoundTrip(t *testing.T) {
	tests := []struct {
		packed string
		value  uint32
	}{
		{"%%%%%", 0x00000000},
		{"%ASD0", 0x01020304},
		{"rQG8x", 0xEE080000},
	}
	for _, tt := range tests {
		got, err := decodeQuintuple(tt.packed)
		if err != nil {
			t.Fatalf("decodeQuintuple(%q) error = %v", tt.packed, err)
		}
		if got != tt.value {
			t.Errorf("decodeQuintuple(%q) = %08X, want %08X", tt.packed, got, tt.value)
		}
		if enc := encodeQuintuple(tt.value); enc != tt.packed {
			t.Errorf("encodeQuintuple(%08X) = %q, want %q", tt.value, enc, tt.packed)
		}
	}
}

func TestReaderLoad(t *testing.T) {
	img, err := newReader().LoadString(sample)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	want := []*image.Section{
		image.NewSection(0, []byte{0x01, 0x02, 0x03, 0x04}),
	}
	if diff := cmp.Diff(want, img.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderIncrementalRecord(t *testing.T) {
	input := "$rQG8x%%%%%%ASD0\n$T?RAq\\p+56\n$%%%%%\n"
	img, err := newReader().LoadString(input)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	want := []*image.Section{
		image.NewSection(0, []byte{0x01, 0x02, 0x03, 0x04, 0xAA, 0xBB}),
	}
	if diff := cmp.Diff(want, img.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderMissingPrefix(t *testing.T) {
	if _, err := newReader().LoadString("rQG8x%%%%%%ASD0\n"); err == nil {
		t.Fatal("LoadString() succeeded on input without '$' prefix")
	}
}

func TestReaderChecksumMismatch(t *testing.T) {
	// Same record as sample with a corrupted payload byte.
	corrupted := "$rQG8x%%%%%%ASD1\n$%%%%%\n"
	_, err := newReader().LoadString(corrupted)
	var cerr *hexfile.InvalidRecordChecksumError
	if !errors.As(err, &cerr) {
		t.Fatalf("LoadString() error = %v, want InvalidRecordChecksumError", err)
	}
}

func TestRoundTrip(t *testing.T) {
	img, err := newReader().LoadString(sample)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	got, err := NewWriter().DumpString(img, 4)
	if err != nil {
		t.Fatalf("DumpString() error = %v", err)
	}
	if got != sample {
		t.Errorf("DumpString() = %q, want %q", got, sample)
	}
}

func TestWriterPadsShortRows(t *testing.T) {
	img := &image.Image{
		Sections: []*image.Section{image.NewSection(0, []byte{0x01, 0x02})},
		Valid:    true,
	}
	got, err := NewWriter().DumpString(img, 4)
	if err != nil {
		t.Fatalf("DumpString() error = %v", err)
	}
	back, err := newReader().LoadString(got)
	if err != nil {
		t.Fatalf("LoadString() of dumped text error = %v", err)
	}
	want := []*image.Section{image.NewSection(0, []byte{0x01, 0x02})}
	if diff := cmp.Diff(want, back.Sections); diff != "" {
		t.Errorf("sections mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestProbe(t *testing.T) {
	r := newReader()
	if !r.Probe([]byte(sample)) {
		t.Error("Probe() = false for Four-Packed-Code input")
	}
	if r.Probe([]byte("S108100048656C6C6FF3\n")) {
		t.Error("Probe() = true for S-Record input")
	}
	if r.Probe([]byte("")) {
		t.Error("Probe() = true for empty input")
	}
}
