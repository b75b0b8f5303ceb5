// Package mostec implements the MOS Technology dialect: semicolon-framed
// records with a 16-bit additive checksum over address, length and
// payload.
package mostec

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
	{Type: Data, Pattern: hexfile.Compile(";LLAAAADDCCCC", "")},
	{Type: EOF, Pattern: hexfile.Compile(";00", "")},
}

func lineChecksum(address uint32, length int, chunk []byte) uint32 {
	return checksum.LRC(checksum.Frame(checksum.IntBytes(address), length, chunk), 16, checksum.ComplementNone)
}

type policy struct{}

func (policy) CheckLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) error {
	if ft != Data {
		return nil
	}
	if rec.Length != len(rec.Chunk) {
		return &hexfile.InvalidRecordLengthError{Line: rec.LineNumber, Want: rec.Length, Got: len(rec.Chunk)}
	}
	if want := lineChecksum(rec.Address, rec.Length, rec.Chunk); want != rec.Checksum {
		return &hexfile.InvalidRecordChecksumError{Line: rec.LineNumber, Want: want, Got: rec.Checksum}
	}
	return nil
}

func (policy) IsDataLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) bool {
	return ft == Data
}

// NewReader creates a MOS Technology reader.
func NewReader(opts ...hexfile.ReaderOption) *hexfile.Reader {
	return hexfile.NewReader(policy{}, formats, opts...)
}

// Composer renders MOS Technology output.
type Composer struct{}

func (Composer) MaxAddressBits() int { return 16 }

func (Composer) ComposeRow(ctx *hexfile.Context, address uint32, length int, row []byte) string {
	return fmt.Sprintf(";%02X%04X%s%04X", length, address, hexfile.HexBytes(row, false), lineChecksum(address, length, row))
}

func (Composer) ComposeFooter(ctx *hexfile.Context, meta image.Meta) string {
	return ";00"
}

// NewWriter creates a MOS Technology writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	return hexfile.NewWriter(Composer{}, opts...)
}
