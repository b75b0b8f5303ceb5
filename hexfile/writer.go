package hexfile

import (
	"fmt"
	"io"
	"math/bits"
	"strings"

	"objtext/image"
)

// DefaultRowLength is the usual number of data bytes per record.
const DefaultRowLength = 16

// Writer slices an image into rows and renders records through a
// dialect composer. A Writer is stateless across dumps; per-dump state
// lives in a Context.
type Writer struct {
	policy Composer
	logger Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriterLogger sets the writer's logger.
func WithWriterLogger(l Logger) WriterOption {
	return func(w *Writer) { w.logger = l }
}

// NewWriter creates a writer over a dialect composer.
func NewWriter(policy Composer, opts ...WriterOption) *Writer {
	w := &Writer{
		policy: policy,
		logger: NewStdLogger(SeverityWarning),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// DumpString renders the image as dialect text with rowLength data
// bytes per record. An empty image yields empty output. If the highest
// end address exceeds the dialect's declared address width, it fails
// with AddressRangeTooLargeError before emitting anything.
func (w *Writer) DumpString(img *image.Image, rowLength int) (string, error) {
	if img == nil || len(img.Sections) == 0 {
		return "", nil
	}
	if rowLength <= 0 {
		rowLength = DefaultRowLength
	}
	required := addressBits(img)
	if max := w.policy.MaxAddressBits(); required > max {
		return "", &AddressRangeTooLargeError{Bits: required, Max: max}
	}

	ctx := &Context{RowLength: rowLength}
	if pp, ok := w.policy.(PreProcessor); ok {
		pp.PreProcess(ctx, img)
	}

	var lines []string
	if hc, ok := w.policy.(HeaderComposer); ok {
		if header := hc.ComposeHeader(ctx, img.Meta); header != "" {
			lines = append(lines, header)
		}
	}
	for _, sec := range img.Sections {
		address := sec.StartAddress
		for off := 0; off < len(sec.Data); off += rowLength {
			end := off + rowLength
			if end > len(sec.Data) {
				end = len(sec.Data)
			}
			row := sec.Data[off:end]
			lines = append(lines, w.policy.ComposeRow(ctx, address, len(row), row))
			address += uint32(rowLength)
		}
	}
	if fc, ok := w.policy.(FooterComposer); ok {
		if footer := fc.ComposeFooter(ctx, img.Meta); footer != "" {
			lines = append(lines, footer)
		}
	}

	text := strings.Join(lines, "\n")
	if pp, ok := w.policy.(PostProcessor); ok {
		var err error
		text, err = pp.PostProcess(text)
		if err != nil {
			return "", err
		}
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text, nil
}

// Dump writes the rendered image to wr.
func (w *Writer) Dump(wr io.Writer, img *image.Image, rowLength int) error {
	text, err := w.DumpString(img, rowLength)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(wr, text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// addressBits returns the number of bits needed to represent the
// highest end address across sections.
func addressBits(img *image.Image) int {
	var highest uint64
	for _, sec := range img.Sections {
		end := uint64(sec.StartAddress) + uint64(sec.Length())
		if end > highest {
			highest = end
		}
	}
	return bits.Len64(highest)
}
