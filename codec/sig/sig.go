// Package sig implements the Signetics dialect: colon-framed records with
// rotated-XOR checksums over the address/length header and the payload.
package sig

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
	{Type: Data, Pattern: hexfile.Compile(":AAAALLBBDDCC", "")},
	{Type: EOF, Pattern: hexfile.Compile(":00", "")},
}

func headerChecksum(address uint32, length int) uint32 {
	return checksum.RotatedXOR(checksum.Frame(checksum.IntBytes(address), length), 8, checksum.RotateLeft)
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
	if want := checksum.RotatedXOR(rec.Chunk, 8, checksum.RotateLeft); want != rec.Checksum {
		return &hexfile.InvalidRecordChecksumError{Line: rec.LineNumber, Want: want, Got: rec.Checksum}
	}
	return nil
}

func (policy) IsDataLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) bool {
	return ft == Data
}

// NewReader creates a Signetics reader.
func NewReader(opts ...hexfile.ReaderOption) *hexfile.Reader {
	return hexfile.NewReader(policy{}, formats, opts...)
}

// Composer renders Signetics output.
type Composer struct{}

func (Composer) MaxAddressBits() int { return 16 }

func (Composer) ComposeRow(ctx *hexfile.Context, address uint32, length int, row []byte) string {
	ctx.Last = address + uint32(length)
	return fmt.Sprintf(":%04X%02X%02X%s%02X",
		address, length, headerChecksum(address, length),
		hexfile.HexBytes(row, false), checksum.RotatedXOR(row, 8, checksum.RotateLeft))
}

func (Composer) ComposeFooter(ctx *hexfile.Context, meta image.Meta) string {
	return fmt.Sprintf(":%04X00", ctx.Last)
}

// NewWriter creates a Signetics writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	return hexfile.NewWriter(Composer{}, opts...)
}
