// Package image implements the in-memory model built by the hex-file
// codecs: sections of contiguous bytes at fixed start addresses, and
// images made of non-overlapping sections plus per-format metadata.
package image

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Section is a continuous block of bytes with a start address and known
// length. Length always tracks len(Data).
type Section struct {
	StartAddress uint32
	Data         []byte
}

// NewSection creates a section over a copy of data.
func NewSection(startAddress uint32, data []byte) *Section {
	return &Section{StartAddress: startAddress, Data: append([]byte(nil), data...)}
}

// Length returns the number of bytes in the section.
func (s *Section) Length() int {
	return len(s.Data)
}

// EndAddr returns the address immediately after the last byte.
func (s *Section) EndAddr() uint32 {
	return s.StartAddress + uint32(len(s.Data))
}

// Contains checks if the given address falls within this section's range.
func (s *Section) Contains(addr uint32) bool {
	return addr >= s.StartAddress && addr < s.EndAddr()
}

// offset translates addr into a checked index. length is the number of
// bytes the caller intends to touch starting at addr.
func (s *Section) offset(op string, addr uint32, length int) (int, error) {
	if addr < s.StartAddress {
		return 0, errOutOfBounds(op, addr)
	}
	off := int(addr - s.StartAddress)
	if off+length > len(s.Data) {
		return 0, errOutOfBounds(op, addr)
	}
	return off, nil
}

// Read returns a copy of length bytes starting at addr.
func (s *Section) Read(addr uint32, length int) ([]byte, error) {
	off, err := s.offset("read", addr, length)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), s.Data[off:off+length]...), nil
}

// Write copies data into the section starting at addr.
func (s *Section) Write(addr uint32, data []byte) error {
	off, err := s.offset("write", addr, len(data))
	if err != nil {
		return err
	}
	copy(s.Data[off:], data)
	return nil
}

// ReadUint reads a fixed-width unsigned integer of size bytes (1, 2, 4
// or 8) at addr using the given byte order.
func (s *Section) ReadUint(addr uint32, size int, order binary.ByteOrder) (uint64, error) {
	raw, err := s.Read(addr, size)
	if err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(raw[0]), nil
	case 2:
		return uint64(order.Uint16(raw)), nil
	case 4:
		return uint64(order.Uint32(raw)), nil
	case 8:
		return order.Uint64(raw), nil
	default:
		return 0, fmt.Errorf("unsupported integer size %d", size)
	}
}

// WriteUint writes a fixed-width unsigned integer of size bytes (1, 2,
// 4 or 8) at addr using the given byte order.
func (s *Section) WriteUint(addr uint32, value uint64, size int, order binary.ByteOrder) error {
	raw := make([]byte, size)
	switch size {
	case 1:
		raw[0] = byte(value)
	case 2:
		order.PutUint16(raw, uint16(value))
	case 4:
		order.PutUint32(raw, uint32(value))
	case 8:
		order.PutUint64(raw, value)
	default:
		return fmt.Errorf("unsupported integer size %d", size)
	}
	return s.Write(addr, raw)
}

// ReadString reads a NUL-terminated string starting at addr. A nil
// encoding treats the bytes as UTF-8/ASCII; firmware charsets like
// Latin-1 are decoded via enc (x/text).
func (s *Section) ReadString(addr uint32, enc encoding.Encoding) (string, error) {
	off, err := s.offset("read_string", addr, 1)
	if err != nil {
		return "", err
	}
	pos := bytes.IndexByte(s.Data[off:], 0)
	if pos < 0 {
		return "", &AddressError{Op: "read_string", Address: addr, Reason: "unterminated string"}
	}
	raw := s.Data[off : off+pos]
	if enc == nil {
		return string(raw), nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode string at 0x%08X: %w", addr, err)
	}
	return string(out), nil
}

// WriteString writes value plus a NUL terminator starting at addr,
// encoded via enc (nil writes the UTF-8 bytes unchanged).
func (s *Section) WriteString(addr uint32, value string, enc encoding.Encoding) error {
	raw := []byte(value)
	if enc != nil {
		var err error
		raw, _, err = transform.Bytes(enc.NewEncoder(), raw)
		if err != nil {
			return fmt.Errorf("encode string at 0x%08X: %w", addr, err)
		}
	}
	off, err := s.offset("write_string", addr, len(raw)+1)
	if err != nil {
		return err
	}
	copy(s.Data[off:], raw)
	s.Data[off+len(raw)] = 0
	return nil
}

func (s *Section) String() string {
	return fmt.Sprintf("Section(address=0x%08X, length=%d)", s.StartAddress, len(s.Data))
}

// Join sorts sections by start address and folds address-contiguous
// neighbours into one section by concatenating their buffers. The result
// is the minimal set of maximal contiguous runs; input sections are not
// modified. Join is idempotent.
func Join(sections []*Section) []*Section {
	sorted := append([]*Section(nil), sections...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartAddress < sorted[j].StartAddress
	})
	var result []*Section
	for _, sec := range sorted {
		if n := len(result); n > 0 && sec.StartAddress == result[n-1].EndAddr() {
			result[n-1].Data = append(result[n-1].Data, sec.Data...)
			continue
		}
		result = append(result, NewSection(sec.StartAddress, sec.Data))
	}
	return result
}
