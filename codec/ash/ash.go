// Package ash implements the ASCII space-hex dialect: STX/ETX framed
// output, $A address lines and a 16-bit envelope checksum accumulated over
// all data rows.
package ash

import (
	"fmt"
	"regexp"

	"objtext/checksum"
	"objtext/hexfile"
	"objtext/image"
)

const (
	addressPattern = `^(?:(?P<stx>[\x02])\s+)?\$A(?P<address>[0-9a-zA-Z]{2,8})[,.]\s*$`
	dataPattern    = `^(?:[0-9a-zA-Z]{2,4}[%s]?)*\s*$`
	etxPattern     = "^\x03.*$"
	separators     = ", %'"
)

var validChars = regexp.MustCompile("^[a-fA-F0-9 %,'$A\x02\x03\n\r]*$")

// NewReader creates an ASCII space-hex reader.
func NewReader(opts ...hexfile.ASCIIHexReaderOption) *hexfile.ASCIIHexReader {
	opts = append([]hexfile.ASCIIHexReaderOption{hexfile.WithASCIIHexValidChars(validChars)}, opts...)
	return hexfile.NewASCIIHexReader(addressPattern, dataPattern, etxPattern, separators, opts...)
}

// Composer renders ASCII space-hex output inside an STX/ETX envelope
// whose trailer carries the summed per-row checksums.
type Composer struct {
	hexfile.ASCIIHexComposer
}

func (c *Composer) ComposeHeader(ctx *hexfile.Context, meta image.Meta) string {
	return "\x02 "
}

func (c *Composer) ComposeFooter(ctx *hexfile.Context, meta image.Meta) string {
	return fmt.Sprintf("\x03$$%04X,", ctx.Sum%65536)
}

// NewWriter creates an ASCII space-hex writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	c := &Composer{hexfile.ASCIIHexComposer{
		AddressDesignator: "$A",
		AddressSuffix:     ",",
		Separator:         " ",
		AddressBits:       16,
	}}
	c.RowCallout = func(ctx *hexfile.Context, address uint32, row []byte) {
		ctx.Sum += checksum.LRC(row, 16, checksum.ComplementNone)
	}
	return hexfile.NewWriter(c, opts...)
}
