package hexfile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"objtext/image"
)

// defaultValidChars fits most hex dialects; probe rejects input whose
// leading bytes fall outside it. Dialects with unusual alphabets
// override it.
var defaultValidChars = regexp.MustCompile(`^[a-fA-F0-9 :/;,%\n\r!?S]*$`)

// probeWindow is how many leading bytes the binary sniff inspects.
const probeWindow = 128

// probeLines is how many lines probe tries to match before giving up.
const probeLines = 3

// Reader drives line-by-line matching, field decoding, per-dialect
// validation and assembly into an image. A Reader is stateless across
// parses; per-parse state lives in a Context.
type Reader struct {
	formats    []Format
	policy     Policy
	separators string
	logger     Logger
	validChars *regexp.Regexp
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the logger for garbage-line warnings.
func WithLogger(l Logger) ReaderOption {
	return func(r *Reader) { r.logger = l }
}

// WithValidChars overrides the character class probe uses to reject
// foreign input.
func WithValidChars(re *regexp.Regexp) ReaderOption {
	return func(r *Reader) { r.validChars = re }
}

// WithDataSeparators records the separator characters stripped from
// data payloads before hex decoding. Must match the separators the
// formats were compiled with.
func WithDataSeparators(separators string) ReaderOption {
	return func(r *Reader) { r.separators = separators }
}

// NewReader creates a reader over an ordered format list and a dialect
// policy.
func NewReader(policy Policy, formats []Format, opts ...ReaderOption) *Reader {
	r := &Reader{
		formats:    formats,
		policy:     policy,
		logger:     NewStdLogger(SeverityWarning),
		validChars: defaultValidChars,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads all lines from rd and assembles the decoded records into
// an image. Unrecognized lines are skipped with a warning; structural
// or checksum violations on recognized records fail immediately. A
// parse yielding zero sections returns an image with Valid=false and a
// logged error, not a Go error.
func (r *Reader) Load(rd io.Reader) (*image.Image, error) {
	ctx := &Context{}
	var sections []*image.Section
	meta := image.Meta{}
	lineNumber := 0

	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		matched := false
		for _, format := range r.formats {
			groups, ok := format.Pattern.Match(line)
			if !ok {
				continue
			}
			matched = true
			if err := r.processLine(ctx, groups, format.Type, lineNumber, &sections, meta); err != nil {
				return nil, err
			}
			break
		}
		if !matched {
			r.logger.Logf(SeverityWarning, "ignoring garbage line #%d", lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if len(sections) == 0 {
		r.logger.Logf(SeverityError, "file seems to be invalid")
		return &image.Image{Meta: meta, Valid: false}, nil
	}
	return &image.Image{Sections: image.Join(sections), Meta: meta, Valid: true}, nil
}

// LoadString parses in-memory text.
func (r *Reader) LoadString(text string) (*image.Image, error) {
	return r.Load(strings.NewReader(text))
}

func (r *Reader) processLine(ctx *Context, groups map[string]string, ft FormatType, lineNumber int, sections *[]*image.Section, meta image.Meta) error {
	parseChunk := true
	if dp, ok := r.policy.(DataParser); ok {
		parseChunk = dp.ParseData(ft)
	}
	rec, err := decodeRecord(groups, lineNumber, parseChunk, r.separators)
	if err != nil {
		return err
	}
	if err := r.policy.CheckLine(ctx, rec, ft); err != nil {
		return err
	}
	if sp, ok := r.policy.(SpecialProcessor); ok {
		if err := sp.SpecialProcessing(ctx, rec, ft); err != nil {
			return err
		}
	}
	if r.policy.IsDataLine(ctx, rec, ft) {
		*sections = append(*sections, image.NewSection(rec.Address, rec.Chunk))
	} else {
		meta[int(ft)] = append(meta[int(ft)], image.MetaRecord{
			FormatType: int(ft),
			Address:    rec.Address,
			HasAddress: rec.HasAddress,
			Chunk:      rec.Chunk,
			Text:       rec.Text,
		})
	}
	return nil
}

// Probe reports whether data looks like this reader's dialect. It first
// rejects binary-looking input (NUL or high-bit bytes in the leading
// chunk, or bytes outside the dialect's valid character set), then
// matches only the first few lines. Probe never fails hard, even on
// garbage.
func (r *Reader) Probe(data []byte) bool {
	if maybeBinary(data, r.validChars) {
		return false
	}
	lineNumber := 0
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		lineNumber++
		for _, format := range r.formats {
			if _, ok := format.Pattern.Match(scanner.Text()); ok {
				return true
			}
		}
		if lineNumber >= probeLines {
			break
		}
	}
	return false
}

// maybeBinary sniffs the leading bytes for content no text dialect
// produces.
func maybeBinary(data []byte, validChars *regexp.Regexp) bool {
	header := data
	if len(header) > probeWindow {
		header = header[:probeWindow]
	}
	for _, b := range header {
		if b == 0 || b >= 0x80 {
			return true
		}
	}
	return !validChars.Match(header)
}
