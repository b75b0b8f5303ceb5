// Package srec implements the Motorola S-Record dialect: S0 header, S1/S2/S3
// data records with 16/24/32-bit addresses, the optional S5 record count and
// the S9/S8/S7 terminators carrying a start address.
package srec

import (
	"fmt"
	"strings"

	"objtext/checksum"
	"objtext/hexfile"
	"objtext/image"
)

// Record kinds, also the meta keys under which non-data records are
// filed.
const (
	S0 hexfile.FormatType = iota + 1
	S1
	S2
	S3
	S5
	S7
	S8
	S9
)

// bias is the per-kind overhead counted by the length byte on top of
// the data payload (address bytes plus the checksum byte).
var bias = map[hexfile.FormatType]int{
	S0: 3,
	S1: 3,
	S2: 4,
	S3: 5,
	S5: 2,
	S7: 5,
	S8: 4,
	S9: 3,
}

var formats = []hexfile.Format{
	{Type: S0, Pattern: hexfile.Compile("S0LLAAAADDCC", "")},
	{Type: S1, Pattern: hexfile.Compile("S1LLAAAADDCC", "")},
	{Type: S2, Pattern: hexfile.Compile("S2LLAAAAAADDCC", "")},
	{Type: S3, Pattern: hexfile.Compile("S3LLAAAAAAAADDCC", "")},
	{Type: S5, Pattern: hexfile.Compile("S5LLAAAACC", "")},
	{Type: S7, Pattern: hexfile.Compile("S7LLAAAAAAAACC", "")},
	{Type: S8, Pattern: hexfile.Compile("S8LLAAAAAACC", "")},
	{Type: S9, Pattern: hexfile.Compile("S9LLAAAACC", "")},
}

// lineChecksum is the ones complement of the byte sum over length,
// address and payload.
func lineChecksum(address uint32, length int, chunk []byte) uint32 {
	return checksum.LRC(checksum.Frame(checksum.IntBytes(address), length, chunk), 8, checksum.ComplementOnes)
}

type policy struct{}

func (policy) CheckLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) error {
	if want := lineChecksum(rec.Address, rec.Length, rec.Chunk); want != rec.Checksum {
		return &hexfile.InvalidRecordChecksumError{Line: rec.LineNumber, Want: want, Got: rec.Checksum}
	}
	rec.Length -= bias[ft]
	if rec.HasChunk && rec.Length != 0 && rec.Length != len(rec.Chunk) {
		return &hexfile.InvalidRecordLengthError{Line: rec.LineNumber, Want: rec.Length, Got: len(rec.Chunk)}
	}
	return nil
}

func (policy) IsDataLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) bool {
	return ft == S1 || ft == S2 || ft == S3
}

// NewReader creates an S-Record reader.
func NewReader(opts ...hexfile.ReaderOption) *hexfile.Reader {
	return hexfile.NewReader(policy{}, formats, opts...)
}

// Composer renders S-Record output. The zero value picks the data
// record kind from the image's address range and terminates with a
// start address of zero.
type Composer struct {
	// RecordKind forces S1, S2 or S3 data records (1, 2 or 3); zero
	// selects the narrowest kind covering the highest end address.
	RecordKind int
	// S5Record adds a record-count line before the terminator.
	S5Record bool
	// StartAddress seeds the S9/S8/S7 terminator when the image meta
	// carries none.
	StartAddress uint32
}

func (c *Composer) MaxAddressBits() int { return 32 }

func (c *Composer) PreProcess(ctx *hexfile.Context, img *image.Image) {
	ctx.Kind = c.RecordKind
	if ctx.Kind != 0 {
		return
	}
	var highest uint64
	for _, sec := range img.Sections {
		if end := uint64(sec.StartAddress) + uint64(sec.Length()); end > highest {
			highest = end
		}
	}
	switch {
	case highest <= 0xFFFF:
		ctx.Kind = 1
	case highest <= 0xFFFFFF:
		ctx.Kind = 2
	default:
		ctx.Kind = 3
	}
}

// srecord renders one record of the given kind; the length byte counts
// payload plus address and checksum bytes. S0 and S5 carry a 16-bit
// address field regardless of the data record kind.
func srecord(kind, addrBytes int, address uint32, data []byte) string {
	length := len(data) + addrBytes + 1
	cks := lineChecksum(address, length, data)
	return fmt.Sprintf("S%d%02X%0*X%s%02X", kind, length, addrBytes*2, address, hexfile.HexBytes(data, false), cks)
}

func (c *Composer) ComposeRow(ctx *hexfile.Context, address uint32, length int, row []byte) string {
	ctx.Count++
	return srecord(ctx.Kind, ctx.Kind+1, address, row)
}

func (c *Composer) ComposeHeader(ctx *hexfile.Context, meta image.Meta) string {
	var lines []string
	for _, rec := range meta[int(S0)] {
		lines = append(lines, srecord(0, 2, rec.Address, rec.Chunk))
	}
	return strings.Join(lines, "\n")
}

func (c *Composer) ComposeFooter(ctx *hexfile.Context, meta image.Meta) string {
	var lines []string
	if c.S5Record {
		lines = append(lines, srecord(5, 2, uint32(ctx.Count), nil))
	}
	terminator := map[int]hexfile.FormatType{1: S9, 2: S8, 3: S7}[ctx.Kind]
	kind := map[int]int{1: 9, 2: 8, 3: 7}[ctx.Kind]
	start := c.StartAddress
	if recs := meta[int(terminator)]; len(recs) > 0 {
		start = recs[0].Address
	}
	lines = append(lines, srecord(kind, ctx.Kind+1, start, nil))
	return strings.Join(lines, "\n")
}

// NewWriter creates an S-Record writer over c; a nil c uses defaults.
func NewWriter(c *Composer, opts ...hexfile.WriterOption) *hexfile.Writer {
	if c == nil {
		c = &Composer{}
	}
	return hexfile.NewWriter(c, opts...)
}
