package image

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew_RejectsOverlap(t *testing.T) {
	_, err := New([]*Section{
		NewSection(0x100, make([]byte, 10)),
		NewSection(0x105, make([]byte, 10)),
	}, nil, false)
	if err == nil {
		t.Fatal("expected overlap error, got nil")
	}
	var addrErr *AddressError
	if !errors.As(err, &addrErr) {
		t.Fatalf("expected *AddressError, got %T", err)
	}
}

func TestInsertSection(t *testing.T) {
	img, err := New(nil, nil, true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := img.InsertSection(make([]byte, 10), 0x100); err != nil {
		t.Fatalf("InsertSection(0x100) error = %v", err)
	}

	// Intersecting range is rejected.
	if err := img.InsertSection(make([]byte, 10), 0x105); err == nil {
		t.Error("InsertSection(0x105): expected AddressError, got nil")
	}

	// Abutting range succeeds and joins.
	if err := img.InsertSection(make([]byte, 10), 0x10A); err != nil {
		t.Fatalf("InsertSection(0x10A) error = %v", err)
	}
	if len(img.Sections) != 1 {
		t.Fatalf("sections = %d, want 1 after join", len(img.Sections))
	}
	if img.Sections[0].StartAddress != 0x100 || img.Sections[0].Length() != 20 {
		t.Errorf("joined section = %v, want [0x100, 20 bytes]", img.Sections[0])
	}
}

func TestImage_GapClosingJoin(t *testing.T) {
	img, _ := New(nil, nil, true)
	for _, ins := range []struct {
		addr uint32
		size int
	}{
		{0x10, 10},
		{0x20, 10},
		{0x1A, 6},
	} {
		if err := img.InsertSection(make([]byte, ins.size), ins.addr); err != nil {
			t.Fatalf("InsertSection(0x%X) error = %v", ins.addr, err)
		}
	}
	want := []*Section{NewSection(0x10, make([]byte, 0x1A))}
	if diff := cmp.Diff(want, img.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestImage_AddressDispatch(t *testing.T) {
	img, err := New([]*Section{
		NewSection(0x1000, []byte{0x11, 0x22, 0x33, 0x44}),
		NewSection(0x2000, []byte{0xAA, 0xBB}),
	}, nil, false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := img.Read(0x1001, 2)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff([]byte{0x22, 0x33}, got); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}

	v, err := img.ReadUint(0x2000, 2, binary.BigEndian)
	if err != nil {
		t.Fatalf("ReadUint() error = %v", err)
	}
	if v != 0xAABB {
		t.Errorf("ReadUint() = 0x%X, want 0xAABB", v)
	}

	// Access in the gap between sections.
	if _, err := img.Read(0x1800, 1); err == nil {
		t.Error("Read() in gap: expected error, got nil")
	}
	// Access crossing a section's end must not spill into the next one.
	if _, err := img.Read(0x1003, 4); err == nil {
		t.Error("Read() crossing boundary: expected error, got nil")
	}
}

func TestImage_Len(t *testing.T) {
	img, _ := New([]*Section{
		NewSection(0, make([]byte, 3)),
		NewSection(0x10, make([]byte, 5)),
	}, nil, false)
	if img.Len() != 8 {
		t.Errorf("Len() = %d, want 8", img.Len())
	}
}
