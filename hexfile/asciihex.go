package hexfile

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"objtext/image"
)

// ASCIIHexReader parses the loosely framed ASCII-hex family of dialects:
// an address designator line sets the current address, plain hex lines
// carry data at the running address, and an end-of-text marker stops the
// parse. Checksums, when present, ride on the envelope rather than on
// individual records.
type ASCIIHexReader struct {
	addressPat *regexp.Regexp
	dataPat    *regexp.Regexp
	etxPat     *regexp.Regexp
	splitter   *regexp.Regexp
	validChars *regexp.Regexp
	logger     Logger
}

// NewASCIIHexReader builds a reader from the three line patterns. The
// data pattern must contain one %s verb receiving the separator
// character class.
func NewASCIIHexReader(addressPattern, dataPattern, etxPattern, separators string, opts ...ASCIIHexReaderOption) *ASCIIHexReader {
	class := escapeClass(separators)
	r := &ASCIIHexReader{
		addressPat: regexp.MustCompile(addressPattern),
		dataPat:    regexp.MustCompile(fmt.Sprintf(dataPattern, class)),
		etxPat:     regexp.MustCompile(etxPattern),
		splitter:   regexp.MustCompile("[" + class + "]"),
		validChars: defaultValidChars,
		logger:     NewStdLogger(SeverityWarning),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ASCIIHexReaderOption configures an ASCIIHexReader.
type ASCIIHexReaderOption func(*ASCIIHexReader)

// WithASCIIHexLogger sets the logger.
func WithASCIIHexLogger(l Logger) ASCIIHexReaderOption {
	return func(r *ASCIIHexReader) { r.logger = l }
}

// WithASCIIHexValidChars overrides the probe character set.
func WithASCIIHexValidChars(re *regexp.Regexp) ASCIIHexReaderOption {
	return func(r *ASCIIHexReader) { r.validChars = re }
}

// Load parses the input into an image.
func (r *ASCIIHexReader) Load(rd io.Reader) (*image.Image, error) {
	var sections []*image.Section
	var address uint32
	lineNumber := 0

	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
scan:
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		switch {
		case r.addressPat.MatchString(line):
			m := r.addressPat.FindStringSubmatch(line)
			value := m[r.addressPat.SubexpIndex("address")]
			n, err := strconv.ParseUint(value, 16, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid address %q", lineNumber, value)
			}
			address = uint32(n)
		case r.etxPat.MatchString(line):
			break scan
		case r.dataPat.MatchString(line):
			chunk, err := r.decodeTokens(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			if len(chunk) == 0 {
				continue
			}
			sections = append(sections, image.NewSection(address, chunk))
			address += uint32(len(chunk))
		default:
			r.logger.Logf(SeverityWarning, "ignoring garbage line #%d", lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if len(sections) == 0 {
		r.logger.Logf(SeverityError, "file seems to be invalid")
		return &image.Image{Meta: image.Meta{}, Valid: false}, nil
	}
	return &image.Image{Sections: image.Join(sections), Meta: image.Meta{}, Valid: true}, nil
}

// LoadString parses in-memory text.
func (r *ASCIIHexReader) LoadString(text string) (*image.Image, error) {
	return r.Load(strings.NewReader(text))
}

func (r *ASCIIHexReader) decodeTokens(line string) ([]byte, error) {
	var chunk []byte
	for _, token := range r.splitter.Split(strings.TrimSpace(line), -1) {
		if token == "" {
			continue
		}
		raw, err := hex.DecodeString(token)
		if err != nil {
			return nil, fmt.Errorf("invalid data token %q: %w", token, err)
		}
		chunk = append(chunk, raw...)
	}
	return chunk, nil
}

// Probe reports whether data looks like this dialect; it never fails
// hard.
func (r *ASCIIHexReader) Probe(data []byte) bool {
	if maybeBinary(data, r.validChars) {
		return false
	}
	lineNumber := 0
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if r.addressPat.MatchString(line) || r.etxPat.MatchString(line) {
			return true
		}
		if lineNumber >= probeLines {
			break
		}
	}
	return false
}

// ASCIIHexComposer renders the ASCII-hex family: an address designator
// line wherever the output address is discontinuous, followed by
// separator-joined hex rows. Dialects embed it and add their envelope
// hooks.
type ASCIIHexComposer struct {
	AddressDesignator string
	AddressSuffix     string // e.g. "," for dialects whose designator line is terminated
	Separator         string
	AddressBits       int

	// RowCallout, when set, observes every emitted row (running
	// envelope checksums).
	RowCallout func(ctx *Context, address uint32, row []byte)
}

// MaxAddressBits implements Composer.
func (c *ASCIIHexComposer) MaxAddressBits() int {
	return c.AddressBits
}

// ComposeRow implements Composer.
func (c *ASCIIHexComposer) ComposeRow(ctx *Context, address uint32, length int, row []byte) string {
	separator := c.Separator
	if separator == "" {
		separator = " "
	}
	var parts []string
	for _, x := range row {
		parts = append(parts, fmt.Sprintf("%02X", x))
	}
	body := strings.Join(parts, separator)

	prependAddress := ctx.Count == 0 || address != ctx.Last
	ctx.Count++
	ctx.Last = address + uint32(length)
	if c.RowCallout != nil {
		c.RowCallout(ctx, address, row)
	}
	if prependAddress {
		return fmt.Sprintf("%s%04X%s\n%s", c.AddressDesignator, address, c.AddressSuffix, body)
	}
	return body
}
