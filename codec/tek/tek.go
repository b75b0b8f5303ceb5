// Package tek implements the Tektronix hex dialect: slash-framed records
// with separate nibble-sum checksums over the address/length header and
// over the payload.
package tek

import (
	"fmt"

	"objtext/checksum"
	"objtext/hexfile"
	"objtext/image"
)

const (
	Data hexfile.FormatType = iota + 1
	EOF
)

var formats = []hexfile.Format{
	{Type: Data, Pattern: hexfile.Compile("/AAAALLBBDDCC", "")},
	{Type: EOF, Pattern: hexfile.Compile("/AAAA00BB", "")},
}

func headerChecksum(address uint32, length int) uint32 {
	return checksum.NibbleSum(checksum.Frame(checksum.IntBytes(address), length))
}

type policy struct{}

func (policy) CheckLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) error {
	if ft != Data {
		return nil
	}
	if rec.Length != len(rec.Chunk) {
		return &hexfile.InvalidRecordLengthError{Line: rec.LineNumber, Want: rec.Length, Got: len(rec.Chunk)}
	}
	if want := headerChecksum(rec.Address, rec.Length); want != rec.AddrChecksum {
		return &hexfile.InvalidRecordChecksumError{Line: rec.LineNumber, Want: want, Got: rec.AddrChecksum}
	}
	if want := checksum.NibbleSum(rec.Chunk); want != rec.Checksum {
		return &hexfile.InvalidRecordChecksumError{Line: rec.LineNumber, Want: want, Got: rec.Checksum}
	}
	return nil
}

func (policy) IsDataLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) bool {
	return ft == Data
}

// NewReader creates a Tektronix hex reader.
func NewReader(opts ...hexfile.ReaderOption) *hexfile.Reader {
	return hexfile.NewReader(policy{}, formats, opts...)
}

// Composer renders Tektronix hex output.
type Composer struct{}

func (Composer) MaxAddressBits() int { return 16 }

func (Composer) ComposeRow(ctx *hexfile.Context, address uint32, length int, row []byte) string {
	ctx.Last = address + uint32(length)
	return fmt.Sprintf("/%04X%02X%02X%s%02X",
		address, length, headerChecksum(address, length),
		hexfile.HexBytes(row, false), checksum.NibbleSum(row))
}

func (Composer) ComposeFooter(ctx *hexfile.Context, meta image.Meta) string {
	return fmt.Sprintf("/%04X00%02X", ctx.Last, checksum.NibbleSum(checksum.IntBytes(ctx.Last)))
}

// NewWriter creates a Tektronix hex writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	return hexfile.NewWriter(Composer{}, opts...)
}
