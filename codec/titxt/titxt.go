// Package titxt implements the Texas Instruments TI-TXT dialect: @-prefixed
// address lines, space-separated hex bytes and a lone q terminator.
package titxt

import (
	"regexp"

	"objtext/hexfile"
	"objtext/image"
)

const (
	addressPattern = `^@(?P<address>[0-9a-zA-Z]{2,8})\s*$`
	dataPattern    = `^(?:[0-9a-zA-Z]{2,4}[%s]?)*\s*$`
	etxPattern     = `^q.*$`
	separators     = ", "
)

var validChars = regexp.MustCompile(`^[a-fA-F0-9 @q,\n\r]*$`)

// NewReader creates a TI-TXT reader.
func NewReader(opts ...hexfile.ASCIIHexReaderOption) *hexfile.ASCIIHexReader {
	opts = append([]hexfile.ASCIIHexReaderOption{hexfile.WithASCIIHexValidChars(validChars)}, opts...)
	return hexfile.NewASCIIHexReader(addressPattern, dataPattern, etxPattern, separators, opts...)
}

// Composer renders TI-TXT output.
type Composer struct {
	hexfile.ASCIIHexComposer
}

func (c *Composer) ComposeFooter(ctx *hexfile.Context, meta image.Meta) string {
	return "q"
}

// NewWriter creates a TI-TXT writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	c := &Composer{hexfile.ASCIIHexComposer{
		AddressDesignator: "@",
		Separator:         " ",
		AddressBits:       16,
	}}
	return hexfile.NewWriter(c, opts...)
}
