// Package binfile implements raw binary images: a plain dump with
// gap filling between sections, and a zip container holding one file per
// section plus a manifest.
package binfile

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"objtext/image"
)

// Reader loads a raw binary blob as a single section.
type Reader struct {
	// BaseAddress is the start address assigned to the blob.
	BaseAddress uint32
}

// NewReader creates a raw binary reader placing the blob at base.
func NewReader(base uint32) *Reader {
	return &Reader{BaseAddress: base}
}

// Load reads the whole input into one section.
func (r *Reader) Load(rd io.Reader) (*image.Image, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return &image.Image{
		Sections: []*image.Section{image.NewSection(r.BaseAddress, data)},
		Meta:     image.Meta{},
		Valid:    true,
	}, nil
}

// LoadString parses in-memory data.
func (r *Reader) LoadString(text string) (*image.Image, error) {
	return r.Load(strings.NewReader(text))
}

// Probe always reports false: raw binary carries no signature to
// distinguish it from anything else.
func (r *Reader) Probe(data []byte) bool {
	return false
}

// Writer dumps sections back to back, filling address gaps with a
// filler byte.
type Writer struct {
	// Filler fills the gaps between sections.
	Filler byte
}

// NewWriter creates a raw binary writer with 0xFF gap filling.
func NewWriter() *Writer {
	return &Writer{Filler: 0xFF}
}

// DumpString renders the image as raw bytes. The rowLength argument is
// ignored; raw output has no records.
func (w *Writer) DumpString(img *image.Image, rowLength int) (string, error) {
	if img == nil || len(img.Sections) == 0 {
		return "", nil
	}
	sections := make([]*image.Section, len(img.Sections))
	copy(sections, img.Sections)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].StartAddress < sections[j].StartAddress
	})
	var b strings.Builder
	end := sections[0].StartAddress
	for _, sec := range sections {
		for i := end; i < sec.StartAddress; i++ {
			b.WriteByte(w.Filler)
		}
		b.Write(sec.Data)
		end = sec.StartAddress + uint32(sec.Length())
	}
	return b.String(), nil
}

// Dump writes the raw image to wr.
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
