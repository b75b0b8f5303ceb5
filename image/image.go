package image

import (
	"encoding/binary"
	"sort"

	"golang.org/x/text/encoding"
)

// MetaRecord preserves a non-data record (start addresses, symbol
// tables, EOF markers) captured during a parse.
type MetaRecord struct {
	FormatType int
	Address    uint32
	HasAddress bool
	Chunk      []byte
	Text       string
}

// Meta maps a dialect's format type to its non-data records, in input
// order.
type Meta map[int][]MetaRecord

// Image is an ordered collection of pairwise non-overlapping sections
// plus non-data metadata. Valid is false when a parse produced no
// sections.
type Image struct {
	Sections []*Section
	Meta     Meta
	Valid    bool
}

// New builds an image from sections, optionally joining contiguous
// neighbours. It returns an AddressError if any two sections overlap.
func New(sections []*Section, meta Meta, join bool) (*Image, error) {
	if meta == nil {
		meta = Meta{}
	}
	secs := append([]*Section(nil), sections...)
	sort.SliceStable(secs, func(i, j int) bool {
		return secs[i].StartAddress < secs[j].StartAddress
	})
	for i := 1; i < len(secs); i++ {
		if secs[i].StartAddress < secs[i-1].EndAddr() {
			return nil, &AddressError{
				Op:      "new",
				Address: secs[i].StartAddress,
				Reason:  "overlapping address space",
			}
		}
	}
	if join {
		secs = Join(secs)
	}
	return &Image{Sections: secs, Meta: meta, Valid: true}, nil
}

// Len returns the total number of data bytes across all sections.
func (img *Image) Len() int {
	total := 0
	for _, sec := range img.Sections {
		total += sec.Length()
	}
	return total
}

// Contains reports whether addr falls inside any section.
func (img *Image) Contains(addr uint32) bool {
	for _, sec := range img.Sections {
		if sec.Contains(addr) {
			return true
		}
	}
	return false
}

// GetSection returns the section containing addr.
func (img *Image) GetSection(addr uint32) (*Section, error) {
	for _, sec := range img.Sections {
		if sec.Contains(addr) {
			return sec, nil
		}
	}
	return nil, &AddressError{Op: "section", Address: addr, Reason: "address not in range"}
}

// InsertSection adds a new section over a copy of data. The new range
// must not intersect any existing section; abutting ranges are allowed
// and joined.
func (img *Image) InsertSection(data []byte, startAddress uint32) error {
	end := startAddress + uint32(len(data))
	for _, sec := range img.Sections {
		if startAddress < sec.EndAddr() && end > sec.StartAddress {
			return &AddressError{
				Op:      "insert",
				Address: startAddress,
				Reason:  "overlapping address space",
			}
		}
	}
	img.Sections = append(img.Sections, NewSection(startAddress, data))
	img.JoinSections()
	img.Valid = true
	return nil
}

// JoinSections folds address-contiguous sections in place.
func (img *Image) JoinSections() {
	img.Sections = Join(img.Sections)
}

// Read returns length bytes starting at addr. The whole range must lie
// within a single section; spanning a gap or a section boundary is an
// error, never an implicit concatenation.
func (img *Image) Read(addr uint32, length int) ([]byte, error) {
	sec, err := img.GetSection(addr)
	if err != nil {
		return nil, err
	}
	return sec.Read(addr, length)
}

// Write copies data into the section containing addr.
func (img *Image) Write(addr uint32, data []byte) error {
	sec, err := img.GetSection(addr)
	if err != nil {
		return err
	}
	return sec.Write(addr, data)
}

// ReadUint reads a fixed-width unsigned integer at addr.
func (img *Image) ReadUint(addr uint32, size int, order binary.ByteOrder) (uint64, error) {
	sec, err := img.GetSection(addr)
	if err != nil {
		return 0, err
	}
	return sec.ReadUint(addr, size, order)
}

// WriteUint writes a fixed-width unsigned integer at addr.
func (img *Image) WriteUint(addr uint32, value uint64, size int, order binary.ByteOrder) error {
	sec, err := img.GetSection(addr)
	if err != nil {
		return err
	}
	return sec.WriteUint(addr, value, size, order)
}

// ReadString reads a NUL-terminated string at addr.
func (img *Image) ReadString(addr uint32, enc encoding.Encoding) (string, error) {
	sec, err := img.GetSection(addr)
	if err != nil {
		return "", err
	}
	return sec.ReadString(addr, enc)
}

// WriteString writes a NUL-terminated string at addr.
func (img *Image) WriteString(addr uint32, value string, enc encoding.Encoding) error {
	sec, err := img.GetSection(addr)
	if err != nil {
		return err
	}
	return sec.WriteString(addr, value, enc)
}
