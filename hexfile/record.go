package hexfile

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// FormatType is a small tag distinguishing grammatical record kinds
// within one dialect (e.g. data vs EOF vs start address). Dialects whose
// record kind is carried inside the record itself use TypeFromRecord.
type FormatType int

// TypeFromRecord marks dialects with a single grammar whose record kind
// is a decoded field (e.g. Intel HEX).
const TypeFromRecord FormatType = 0

// Format pairs a format type with its compiled line matcher. The reader
// tries formats in declared order; first match wins.
type Format struct {
	Type    FormatType
	Pattern *CompiledFormat
}

// Record is one decoded line. Scalar fields are parsed as base-16
// integers; the data payload is decoded into bytes unless the dialect
// keeps it as raw text. Has* flags report which fields the matching
// template captured.
type Record struct {
	LineNumber int

	Address    uint32
	HasAddress bool

	Length    int
	HasLength bool

	Type    int
	HasType bool

	Checksum    uint32
	HasChecksum bool

	AddrChecksum    uint32
	HasAddrChecksum bool

	Chunk    []byte
	HasChunk bool

	Text string // raw payload for dialects that skip hex decoding
	Junk string // unconsumed line trailer, never a match failure
}

// decodeRecord turns captured field texts into a Record. parseChunk
// selects between hex-pair decoding and keeping the payload as raw text
// (symbol records). separators are stripped from the payload before
// decoding.
func decodeRecord(groups map[string]string, lineNumber int, parseChunk bool, separators string) (*Record, error) {
	rec := &Record{LineNumber: lineNumber, Junk: groups[groupJunk]}

	scalar := func(name string) (uint32, bool, error) {
		v, ok := groups[name]
		if !ok {
			return 0, false, nil
		}
		n, err := strconv.ParseUint(v, 16, 32)
		if err != nil {
			return 0, false, fmt.Errorf("line %d: field %s: invalid hex value %q", lineNumber, name, v)
		}
		return uint32(n), true, nil
	}

	var err error
	if rec.Address, rec.HasAddress, err = scalar(groupAddress); err != nil {
		return nil, err
	}
	if rec.Checksum, rec.HasChecksum, err = scalar(groupChecksum); err != nil {
		return nil, err
	}
	if rec.AddrChecksum, rec.HasAddrChecksum, err = scalar(groupAddrChecksum); err != nil {
		return nil, err
	}
	if n, ok, err := scalar(groupLength); err != nil {
		return nil, err
	} else if ok {
		rec.Length, rec.HasLength = int(n), true
	}
	if n, ok, err := scalar(groupType); err != nil {
		return nil, err
	} else if ok {
		rec.Type, rec.HasType = int(n), true
	}

	if raw, ok := groups[groupChunk]; ok {
		rec.HasChunk = true
		if parseChunk {
			chunk, err := decodeChunk(raw, separators)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			rec.Chunk = chunk
		} else {
			rec.Text = raw
		}
	}
	return rec, nil
}

// decodeChunk decodes a run of hex byte-pairs, ignoring separator and
// whitespace characters.
func decodeChunk(raw string, separators string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || strings.ContainsRune(separators, r) {
			return -1
		}
		return r
	}, raw)
	chunk, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid data payload %q: %w", raw, err)
	}
	return chunk, nil
}

// HexBytes renders a row of bytes as uppercase hex pairs, optionally
// space-separated.
func HexBytes(row []byte, spaced bool) string {
	var b strings.Builder
	for i, x := range row {
		if spaced && i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", x)
	}
	return b.String()
}
