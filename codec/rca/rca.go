// Package rca implements the RCA COSMAC load-format dialect:
// semicolon-terminated address/data lines inside a NUL-padded "!M"
// envelope. Records carry no checksum.
package rca

import (
	"fmt"
	"strings"

	"objtext/hexfile"
	"objtext/image"
)

const (
	Data hexfile.FormatType = iota + 1
	EOF
)

// envelopeSeparator pads the "!M" start marker and the trailer.
var envelopeSeparator = strings.Repeat("\x00", 48) + "\r\n"

var formats = []hexfile.Format{
	{Type: Data, Pattern: hexfile.Compile("AAAA DD;", "")},
	{Type: EOF, Pattern: hexfile.Compile(":0000", "")},
}

type policy struct{}

func (policy) CheckLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) error {
	if ft == Data {
		rec.Length = len(rec.Chunk)
	}
	return nil
}

func (policy) IsDataLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) bool {
	return ft == Data
}

// NewReader creates an RCA reader.
func NewReader(opts ...hexfile.ReaderOption) *hexfile.Reader {
	return hexfile.NewReader(policy{}, formats, opts...)
}

// Composer renders RCA output.
type Composer struct{}

func (Composer) MaxAddressBits() int { return 16 }

func (Composer) ComposeRow(ctx *hexfile.Context, address uint32, length int, row []byte) string {
	return fmt.Sprintf("%04X %s;", address, hexfile.HexBytes(row, false))
}

func (Composer) ComposeHeader(ctx *hexfile.Context, meta image.Meta) string {
	return envelopeSeparator + "!M"
}

func (Composer) ComposeFooter(ctx *hexfile.Context, meta image.Meta) string {
	return envelopeSeparator
}

// NewWriter creates an RCA writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	return hexfile.NewWriter(Composer{}, opts...)
}
