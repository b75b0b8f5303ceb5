// Package cosmac implements the COSMAC monitor dialect. Lines may carry a
// "!M" or "?M" prefix, a bare address, or nothing but data; address-less
// lines continue at the running end address of the previous record.
package cosmac

import (
	"fmt"

	"objtext/hexfile"
)

const (
	Data0 hexfile.FormatType = iota + 1 // !M prefixed
	Data1                               // ?M prefixed
	Data2                               // bare address
	Data3                               // data only, continues previous record
)

var formats = []hexfile.Format{
	{Type: Data0, Pattern: hexfile.Compile("!MAAAA DD", "")},
	{Type: Data1, Pattern: hexfile.Compile("?MAAAA DD", "")},
	{Type: Data2, Pattern: hexfile.Compile("AAAA DD", "")},
	{Type: Data3, Pattern: hexfile.Compile("DD", "")},
}

type policy struct{}

func (policy) CheckLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) error {
	return nil
}

func (policy) IsDataLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) bool {
	if ft == Data3 {
		// A lone start symbol or a blank line leaves the data field
		// empty.
		if len(rec.Chunk) == 0 {
			return false
		}
		rec.Address = ctx.Last
		rec.HasAddress = true
		ctx.Last += uint32(len(rec.Chunk))
		return true
	}
	ctx.Last = rec.Address + uint32(len(rec.Chunk))
	return true
}

// NewReader creates a COSMAC reader.
func NewReader(opts ...hexfile.ReaderOption) *hexfile.Reader {
	return hexfile.NewReader(policy{}, formats, opts...)
}

// Composer renders COSMAC output.
type Composer struct{}

func (Composer) MaxAddressBits() int { return 16 }

func (Composer) ComposeRow(ctx *hexfile.Context, address uint32, length int, row []byte) string {
	return fmt.Sprintf("!M%04X %s", address, hexfile.HexBytes(row, false))
}

// NewWriter creates a COSMAC writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	return hexfile.NewWriter(Composer{}, opts...)
}
