// Package emon52 implements the Elektor Monitor EMON52 dialect:
// space-separated hex byte pairs with a 16-bit additive checksum over the
// payload.
package emon52

import (
	"fmt"

	"objtext/checksum"
	"objtext/hexfile"
)

const dataSeparators = " "

var formats = []hexfile.Format{
	{Type: hexfile.TypeFromRecord, Pattern: hexfile.Compile("LL AAAA:DD CCCC", dataSeparators)},
}

func lineChecksum(chunk []byte) uint32 {
	return checksum.LRC(chunk, 16, checksum.ComplementNone)
}

type policy struct{}

func (policy) CheckLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) error {
	if rec.Length != len(rec.Chunk) {
		return &hexfile.InvalidRecordLengthError{Line: rec.LineNumber, Want: rec.Length, Got: len(rec.Chunk)}
	}
	if want := lineChecksum(rec.Chunk); want != rec.Checksum {
		return &hexfile.InvalidRecordChecksumError{Line: rec.LineNumber, Want: want, Got: rec.Checksum}
	}
	return nil
}

func (policy) IsDataLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) bool {
	return true
}

// NewReader creates an EMON52 reader.
func NewReader(opts ...hexfile.ReaderOption) *hexfile.Reader {
	opts = append([]hexfile.ReaderOption{hexfile.WithDataSeparators(dataSeparators)}, opts...)
	return hexfile.NewReader(policy{}, formats, opts...)
}

// Composer renders EMON52 output.
type Composer struct{}

func (Composer) MaxAddressBits() int { return 16 }

func (Composer) ComposeRow(ctx *hexfile.Context, address uint32, length int, row []byte) string {
	return fmt.Sprintf("%02X %04X:%s %04X", length, address, hexfile.HexBytes(row, true), lineChecksum(row))
}

// NewWriter creates an EMON52 writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	return hexfile.NewWriter(Composer{}, opts...)
}
