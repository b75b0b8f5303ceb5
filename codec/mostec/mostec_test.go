package mostec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"objtext/hexfile"
	"objtext/image"
)

const sample = ";0210000A0B0027\n;00\n"

func newReader() *hexfile.Reader {
	return NewReader(hexfile.WithLogger(hexfile.NopLogger{}))
}

func TestReaderLoad(t *testing.T) {
	img, err := newReader().LoadString(sample)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	want := []*image.Section{
		image.NewSection(0x1000, []byte{0x0A, 0x0B}),
	}
	if diff := cmp.Diff(want, img.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderChecksumMismatch(t *testing.T) {
	_, err := newReader().LoadString(";0210000A0B0028\n")
	var cerr *hexfile.InvalidRecordChecksumError
	if !errors.As(err, &cerr) {
		t.Fatalf("LoadString() error = %v, want InvalidRecordChecksumError", err)
	}
	if cerr.Want != 0x27 {
		t.Errorf("calculated checksum = 0x%04X, want 0x0027", cerr.Want)
	}
}

func TestRoundTrip(t *testing.T) {
	img, err := newReader().LoadString(sample)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	got, err := NewWriter().DumpString(img, 16)
	if err != nil {
		t.Fatalf("DumpString() error = %v", err)
	}
	if got != sample {
		t.Errorf("DumpString() = %q, want %q", got, sample)
	}
}
