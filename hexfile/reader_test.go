package hexfile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"objtext/checksum"
	"objtext/image"
)

const (
	testData FormatType = iota + 1
	testEOF
)

var testFormats = []Format{
	{testData, Compile(":LLAAAADDCC", "")},
	{testEOF, Compile(":00", "")},
}

// testPolicy is a minimal dialect: length byte, 16-bit address, plain
// byte-sum checksum over the payload.
type testPolicy struct{}

func (testPolicy) CheckLine(ctx *Context, rec *Record, ft FormatType) error {
	if ft == testEOF {
		return nil
	}
	if rec.Length != len(rec.Chunk) {
		return &InvalidRecordLengthError{Line: rec.LineNumber, Want: rec.Length, Got: len(rec.Chunk)}
	}
	want := checksum.LRC(rec.Chunk, 8, checksum.ComplementNone)
	if want != rec.Checksum {
		return &InvalidRecordChecksumError{Line: rec.LineNumber, Want: want, Got: rec.Checksum}
	}
	return nil
}

func (testPolicy) IsDataLine(ctx *Context, rec *Record, ft FormatType) bool {
	return ft == testData
}

func newTestReader() *Reader {
	return NewReader(testPolicy{}, testFormats, WithLogger(NopLogger{}))
}

func TestReaderLoad(t *testing.T) {
	input := ":03100001020306\n:0310030405060F\n:00\n"
	img, err := newTestReader().LoadString(input)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if !img.Valid {
		t.Fatal("LoadString() image not valid")
	}
	want := []*image.Section{
		image.NewSection(0x1000, []byte{1, 2, 3, 4, 5, 6}),
	}
	if diff := cmp.Diff(want, img.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if got := len(img.Meta[int(testEOF)]); got != 1 {
		t.Errorf("meta records for EOF = %d, want 1", got)
	}
}

func TestReaderLoadSkipsGarbage(t *testing.T) {
	input := "hello world\n:03100001020306\n\n:00\n"
	img, err := newTestReader().LoadString(input)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	want := []*image.Section{
		image.NewSection(0x1000, []byte{1, 2, 3}),
	}
	if diff := cmp.Diff(want, img.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderLoadChecksumMismatch(t *testing.T) {
	_, err := newTestReader().LoadString(":031000010203FF\n")
	var cerr *InvalidRecordChecksumError
	if !errors.As(err, &cerr) {
		t.Fatalf("LoadString() error = %v, want InvalidRecordChecksumError", err)
	}
	if cerr.Want != 0x06 || cerr.Got != 0xFF {
		t.Errorf("checksum error = want 0x%02X got 0x%02X, expected want 0x06 got 0xFF", cerr.Want, cerr.Got)
	}
	if cerr.Line != 1 {
		t.Errorf("checksum error line = %d, want 1", cerr.Line)
	}
}

func TestReaderLoadLengthMismatch(t *testing.T) {
	_, err := newTestReader().LoadString(":04100001020306\n")
	var lerr *InvalidRecordLengthError
	if !errors.As(err, &lerr) {
		t.Fatalf("LoadString() error = %v, want InvalidRecordLengthError", err)
	}
	if lerr.Want != 4 || lerr.Got != 3 {
		t.Errorf("length error = want %d got %d, expected want 4 got 3", lerr.Want, lerr.Got)
	}
}

func TestReaderLoadNoSections(t *testing.T) {
	img, err := newTestReader().LoadString("nothing to see\nhere either\n")
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if img.Valid {
		t.Error("image with zero sections reported valid")
	}
	if len(img.Sections) != 0 {
		t.Errorf("sections = %d, want 0", len(img.Sections))
	}
}

func TestReaderProbe(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"matching first line", ":03100001020306\n:00\n", true},
		{"match within first lines", "::\n:03100001020306\n", true},
		{"match beyond probe window", "a\nb\nc\n:03100001020306\n", false},
		{"plain text", "The quick brown fox\n", false},
		{"binary content", ":0310\x0000010203\n", false},
		{"high bit content", ":031000\xC1020306\n", false},
		{"empty input", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newTestReader().Probe([]byte(tt.data)); got != tt.want {
				t.Errorf("Probe(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}
