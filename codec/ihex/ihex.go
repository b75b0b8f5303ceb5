// Package ihex implements the Intel HEX dialect. A single record grammar
// carries the kind in its type field; extended segment and linear address
// records shift the base applied to subsequent data records.
package ihex

import (
	"fmt"

	"objtext/checksum"
	"objtext/hexfile"
	"objtext/image"
)

// Record type codes.
const (
	Data = iota
	EOF
	ExtendedSegmentAddress
	StartSegmentAddress
	ExtendedLinearAddress
	StartLinearAddress
)

var formats = []hexfile.Format{
	{Type: hexfile.TypeFromRecord, Pattern: hexfile.Compile(":LLAAAATTDDCC", "")},
}

func lineChecksum(recordType, length int, address uint32, chunk []byte) uint32 {
	return checksum.LRC(checksum.Frame(recordType, length, checksum.IntBytes(address), chunk), 8, checksum.ComplementTwos)
}

type policy struct{}

func (policy) CheckLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) error {
	if rec.Length != len(rec.Chunk) {
		return &hexfile.InvalidRecordLengthError{Line: rec.LineNumber, Want: rec.Length, Got: len(rec.Chunk)}
	}
	if want := lineChecksum(rec.Type, rec.Length, rec.Address, rec.Chunk); want != rec.Checksum {
		return &hexfile.InvalidRecordChecksumError{Line: rec.LineNumber, Want: want, Got: rec.Checksum}
	}
	return nil
}

func (policy) IsDataLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) bool {
	return rec.Type == Data
}

func (policy) SpecialProcessing(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) error {
	switch rec.Type {
	case Data:
		rec.Address += ctx.Base
	case EOF:
	case ExtendedSegmentAddress:
		if len(rec.Chunk) != 2 {
			return fmt.Errorf("line %d: bad extended segment address", rec.LineNumber)
		}
		ctx.Base = (uint32(rec.Chunk[0])<<8 | uint32(rec.Chunk[1])) << 4
	case ExtendedLinearAddress:
		if len(rec.Chunk) != 2 {
			return fmt.Errorf("line %d: bad extended linear address", rec.LineNumber)
		}
		ctx.Base = (uint32(rec.Chunk[0])<<8 | uint32(rec.Chunk[1])) << 16
	case StartSegmentAddress:
		if len(rec.Chunk) != 4 {
			return fmt.Errorf("line %d: bad start segment address", rec.LineNumber)
		}
	case StartLinearAddress:
		if len(rec.Chunk) != 4 {
			return fmt.Errorf("line %d: bad start linear address", rec.LineNumber)
		}
	default:
		return &hexfile.InvalidRecordTypeError{Line: rec.LineNumber, Type: rec.Type}
	}
	return nil
}

// NewReader creates an Intel HEX reader.
func NewReader(opts ...hexfile.ReaderOption) *hexfile.Reader {
	return hexfile.NewReader(policy{}, formats, opts...)
}

// Composer renders Intel HEX output, inserting extended segment or
// linear address records whenever the 16-bit record offset jumps.
type Composer struct{}

func (Composer) MaxAddressBits() int { return 32 }

func (Composer) ComposeRow(ctx *hexfile.Context, address uint32, length int, row []byte) string {
	seg, offs := address>>16, address&0xFFFF
	var result string
	if ctx.Count == 0 || offs != ctx.Last {
		if address > 0xFFFFF {
			cks := checksum.LRC(checksum.Frame(2, 4, byte(seg>>8), byte(seg)), 8, checksum.ComplementTwos)
			result = fmt.Sprintf(":02000004%04X%02X\n", seg, cks)
		} else if address > 0xFFFF {
			seg <<= 12
			cks := checksum.LRC(checksum.Frame(2, 2, byte(seg>>8), byte(seg)), 8, checksum.ComplementTwos)
			result = fmt.Sprintf(":02000002%04X%02X\n", seg, cks)
		}
	}
	ctx.Count++
	ctx.Last = offs + uint32(length)
	cks := checksum.LRC(checksum.Frame(length, byte(offs>>8), byte(offs), row), 8, checksum.ComplementTwos)
	return result + fmt.Sprintf(":%02X%04X%02X%s%02X", length, offs, Data, hexfile.HexBytes(row, false), cks)
}

func (Composer) ComposeFooter(ctx *hexfile.Context, meta image.Meta) string {
	return fmt.Sprintf(":00%04X%02X%02X", 0, EOF, lineChecksum(EOF, 0, 0, nil))
}

// NewWriter creates an Intel HEX writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	return hexfile.NewWriter(Composer{}, opts...)
}
