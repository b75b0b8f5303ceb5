// Package fpc implements the Four-Packed-Code dialect: records are
// composed as hex text, then packed four bytes at a time into five-character
// base-85 groups over the printable alphabet 37..122 (excluding '*'), each
// line prefixed with '$'.
package fpc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"objtext/checksum"
	"objtext/hexfile"
	"objtext/image"
)

const (
	DataAbs hexfile.FormatType = iota + 1
	DataInc
	DataRel
	EOF
)

const prefix = '$'

// The base-85 alphabet: ASCII 37..122 without '*'.
var encodeTab [85]byte
var decodeTab [256]int

func init() {
	i := 0
	for n := 37; n <= 122; n++ {
		if n == '*' {
			continue
		}
		encodeTab[i] = byte(n)
		i++
	}
	for n := range decodeTab {
		decodeTab[n] = -1
	}
	for idx, ch := range encodeTab {
		decodeTab[ch] = idx
	}
}

func decodeQuintuple(q string) (uint32, error) {
	var res uint64
	for i := 0; i < len(q); i++ {
		v := decodeTab[q[i]]
		if v < 0 {
			return 0, fmt.Errorf("invalid base-85 character %q", q[i])
		}
		res = res*85 + uint64(v)
	}
	return uint32(res), nil
}

func encodeQuintuple(value uint32) string {
	var buf [5]byte
	for i := 4; i >= 0; i-- {
		buf[i] = encodeTab[value%85]
		value /= 85
	}
	return string(buf[:])
}

var formats = []hexfile.Format{
	{Type: DataAbs, Pattern: hexfile.Compile("CCLL0000AAAAAAAADD", "")},
	{Type: DataInc, Pattern: hexfile.Compile("CCLL0001DD", "")},
	{Type: DataRel, Pattern: hexfile.Compile("CCLL0002AAAAAAAADD", "")},
	{Type: EOF, Pattern: hexfile.Compile("00000000", "")},
}

func lineChecksum(kind, length int, address uint32, chunk []byte) uint32 {
	return checksum.LRC(checksum.Frame(kind, length+4, checksum.IntBytes(address), chunk), 8, checksum.ComplementTwos)
}

type policy struct{}

func (policy) CheckLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) error {
	if ft == EOF {
		return nil
	}
	// The length field counts the four leading frame bytes as well.
	rec.Length -= 4
	if rec.Length < 0 || rec.Length > len(rec.Chunk) {
		return &hexfile.InvalidRecordLengthError{Line: rec.LineNumber, Want: rec.Length, Got: len(rec.Chunk)}
	}
	rec.Chunk = rec.Chunk[:rec.Length] // cut quintuple padding
	var kind int
	switch ft {
	case DataAbs:
		kind = 0
		ctx.Last = rec.Address + uint32(rec.Length)
	case DataInc:
		kind = 1
		rec.Address = ctx.Last
		rec.HasAddress = true
		ctx.Last += uint32(rec.Length)
	case DataRel:
		return fmt.Errorf("line %d: relative addressing not supported", rec.LineNumber)
	}
	if want := lineChecksum(kind, rec.Length, rec.Address, rec.Chunk); want != rec.Checksum {
		return &hexfile.InvalidRecordChecksumError{Line: rec.LineNumber, Want: want, Got: rec.Checksum}
	}
	return nil
}

func (policy) IsDataLine(ctx *hexfile.Context, rec *hexfile.Record, ft hexfile.FormatType) bool {
	return ft == DataAbs || ft == DataInc || ft == DataRel
}

// Reader unpacks the base-85 framing and parses the resulting hex
// records.
type Reader struct {
	inner *hexfile.Reader
}

// NewReader creates a Four-Packed-Code reader.
func NewReader(opts ...hexfile.ReaderOption) *Reader {
	return &Reader{inner: hexfile.NewReader(policy{}, formats, opts...)}
}

// decode unpacks one packed line (without the '$' prefix) into hex
// text.
func decodeLine(line string) (string, error) {
	if len(line)%5 != 0 {
		return "", fmt.Errorf("packed line length %d is not a multiple of five", len(line))
	}
	var b strings.Builder
	for i := 0; i < len(line); i += 5 {
		value, err := decodeQuintuple(line[i : i+5])
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%08X", value)
	}
	return b.String(), nil
}

func (r *Reader) decode(rd io.Reader) (string, error) {
	var lines []string
	lineNumber := 0
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line[0] != prefix {
			return "", fmt.Errorf("line %d: missing %q prefix", lineNumber, prefix)
		}
		decoded, err := decodeLine(line[1:])
		if err != nil {
			return "", fmt.Errorf("line %d: %w", lineNumber, err)
		}
		lines = append(lines, decoded)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

// Load unpacks and parses the input into an image.
func (r *Reader) Load(rd io.Reader) (*image.Image, error) {
	decoded, err := r.decode(rd)
	if err != nil {
		return nil, err
	}
	return r.inner.LoadString(decoded)
}

// LoadString parses in-memory text.
func (r *Reader) LoadString(text string) (*image.Image, error) {
	return r.Load(strings.NewReader(text))
}

// Probe reports whether data looks like packed Four-Packed-Code: the
// leading lines must use the '$'-prefixed base-85 alphabet and unpack
// into parseable records.
func (r *Reader) Probe(data []byte) bool {
	lineNumber := 0
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] != prefix {
			return false
		}
		for i := 1; i < len(line); i++ {
			if decodeTab[line[i]] < 0 {
				return false
			}
		}
		if lineNumber >= 3 {
			break
		}
	}
	if lineNumber == 0 {
		return false
	}
	decoded, err := r.decode(strings.NewReader(string(data)))
	if err != nil {
		return false
	}
	return r.inner.Probe([]byte(decoded))
}

// Composer renders Four-Packed-Code records as hex text; PostProcess
// packs the assembled text into base-85 lines. Rows are zero-padded to
// the full row length, which must be a multiple of four.
type Composer struct{}

func (Composer) MaxAddressBits() int { return 16 }

func (Composer) ComposeRow(ctx *hexfile.Context, address uint32, length int, row []byte) string {
	cks := lineChecksum(0, length, address, row)
	if length < ctx.RowLength {
		padded := make([]byte, ctx.RowLength)
		copy(padded, row)
		row = padded
	}
	return fmt.Sprintf("%02X%02X0000%08X%s", cks, length+4, address, hexfile.HexBytes(row, false))
}

func (Composer) ComposeFooter(ctx *hexfile.Context, meta image.Meta) string {
	return "00000000"
}

func (Composer) PostProcess(text string) (string, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if len(line)%8 != 0 {
			return "", fmt.Errorf("record length %d is not a multiple of eight characters", len(line))
		}
		var b strings.Builder
		b.WriteByte(prefix)
		for i := 0; i < len(line); i += 8 {
			value, err := strconv.ParseUint(line[i:i+8], 16, 32)
			if err != nil {
				return "", fmt.Errorf("malformed record text %q: %w", line[i:i+8], err)
			}
			b.WriteString(encodeQuintuple(uint32(value)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n"), nil
}

// NewWriter creates a Four-Packed-Code writer.
func NewWriter(opts ...hexfile.WriterOption) *hexfile.Writer {
	return hexfile.NewWriter(Composer{}, opts...)
}
