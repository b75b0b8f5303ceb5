// Package etek implements the extended Tektronix (Tek-Ex) dialect: a
// percent-framed header carrying the full record length in characters, a
// nibble-sum checksum and a 5-digit address. Symbol records keep their
// payload as raw text and are filed as metadata.
package etek

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"objtext/checksum"
	"objtext/hexfile"
)

const (
	Data hexfile.FormatType = iota + 1
	Symbol
	EOF
)

// validChars admits symbol names alongside the hex alphabet.
var validChars = regexp.MustCompile(`^[a-zA-Z0-9_ %\n\r]*$`)

var formats = []hexfile.Format{
	{Type: Data, Pattern: hexfile.Compile("%LL6CCAAAAADD", "")},
	{Type: Symbol, Pattern: hexfile.Compile("%LL3CCU", "")},
	{Type: EOF, Pattern: hexfile.Compile("%LL8CCAAAAADD", "")},
}

func lineChecksum(address uint32, length int, chunk []byte) uint32 {
	return checksum.NibbleSum(checksum.Frame(checksum.IntBytes(address), 6, (length+5)*2, chunk))
}

type policy struct{}

func (policy) CheckLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) error {
	switch ft {
	case Data:
		// The length field counts record characters past the frame;
		// rebase it to data bytes.
		rec.Length = rec.Length/2 - 5
		if rec.Length != len(rec.Chunk) {
			return &hexfile.InvalidRecordLengthError{Line: rec.LineNumber, Want: rec.Length, Got: len(rec.Chunk)}
		}
		if want := lineChecksum(rec.Address, rec.Length, rec.Chunk); want != rec.Checksum {
			return &hexfile.InvalidRecordChecksumError{Line: rec.LineNumber, Want: want, Got: rec.Checksum}
		}
	case Symbol:
		// A symbol record ends in its 4-digit hex value.
		text := strings.TrimSpace(rec.Text)
		if len(text) < 4 {
			return fmt.Errorf("line %d: symbol record too short", rec.LineNumber)
		}
		value, err := strconv.ParseUint(text[len(text)-4:], 16, 32)
		if err != nil {
			return fmt.Errorf("line %d: invalid symbol value: %w", rec.LineNumber, err)
		}
		rec.Address = uint32(value)
		rec.HasAddress = true
	}
	return nil
}

func (policy) IsDataLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) bool {
	return ft == Data
}

func (policy) ParseData(ft hexfile.FormatType) bool {
	return ft != Symbol
}

// NewReader creates an extended Tektronix reader.
func NewReader(opts ...hexfile.ReaderOption) *hexfile.Reader {
	opts = append([]hexfile.ReaderOption{hexfile.WithValidChars(validChars)}, opts...)
	return hexfile.NewReader(policy{}, formats, opts...)
}

// Composer renders extended Tektronix output.
type Composer struct{}

func (Composer) MaxAddressBits() int { return 24 }

func (Composer) ComposeRow(ctx *hexfile.Context, address uint32, length int, row []byte) string {
	cks := lineChecksum(address, length, row)
	return fmt.Sprintf("%%%02X6%02X%05X%s", (length+5)*2, cks, address, hexfile.HexBytes(row, false))
}

// NewWriter creates an extended Tektronix writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	return hexfile.NewWriter(Composer{}, opts...)
}
