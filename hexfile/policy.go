package hexfile

import "objtext/image"

// Context carries the mutable state of one parse or one dump. All
// cross-line dialect state lives here rather than in the policy, so a
// single policy value stays reusable across concurrent parses.
type Context struct {
	RowLength int // writer: bytes per data record

	Base  uint32 // address offset applied to data records (segment/linear base)
	Last  uint32 // running end address of the previous record
	Count int    // data records seen or emitted so far
	Sum   uint32 // running checksum accumulator
	Kind  int    // dialect-chosen record variant (e.g. S1/S2/S3)
}

// Policy is the per-dialect contract the reader engine is driven by.
// CheckLine must verify the declared length against the decoded byte
// count and the dialect's checksum, returning the matching typed error
// on violation. IsDataLine decides whether a record contributes image
// bytes or metadata.
type Policy interface {
	CheckLine(ctx *Context, rec *Record, ft FormatType) error
	IsDataLine(ctx *Context, rec *Record, ft FormatType) bool
}

// SpecialProcessor is implemented by dialects that carry state across
// lines, e.g. an extended segment base that offsets later data records.
type SpecialProcessor interface {
	SpecialProcessing(ctx *Context, rec *Record, ft FormatType) error
}

// DataParser is implemented by dialects with record kinds whose payload
// must stay raw text (symbol tables) instead of being hex-decoded.
type DataParser interface {
	ParseData(ft FormatType) bool
}

// Composer is the per-dialect contract the writer engine is driven by.
type Composer interface {
	// MaxAddressBits is the dialect's declared address width.
	MaxAddressBits() int
	// ComposeRow renders one data record, including the dialect's
	// checksum. It may return multiple newline-joined lines when the
	// dialect needs interleaved control records.
	ComposeRow(ctx *Context, address uint32, length int, row []byte) string
}

// PreProcessor lets a dialect inspect the image before any output is
// rendered (e.g. to pick a record variant from the address range).
type PreProcessor interface {
	PreProcess(ctx *Context, img *image.Image)
}

// HeaderComposer emits envelope records before the data rows.
type HeaderComposer interface {
	ComposeHeader(ctx *Context, meta image.Meta) string
}

// FooterComposer emits envelope records after the data rows.
type FooterComposer interface {
	ComposeFooter(ctx *Context, meta image.Meta) string
}

// PostProcessor lets a dialect re-encode the fully assembled text
// (dialects with a non-hex outer encoding).
type PostProcessor interface {
	PostProcess(text string) (string, error)
}
