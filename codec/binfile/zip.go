package binfile

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"

	"objtext/image"
)

const (
	sectionFileName  = "image%d.bin"
	manifestFileName = "IMAGES.mf"
)

// zipMagic is the local-file-header signature every zip archive starts
// with.
var zipMagic = []byte("PK\x03\x04")

// ZipWriter dumps every section as its own archive entry plus a
// tab-separated manifest of name, start address and length.
type ZipWriter struct{}

// NewZipWriter creates a zipped binary writer.
func NewZipWriter() *ZipWriter {
	return &ZipWriter{}
}

// Dump writes the archive to wr. The rowLength argument is ignored.
func (w *ZipWriter) Dump(wr io.Writer, img *image.Image, rowLength int) error {
	if img == nil || len(img.Sections) == 0 {
		return nil
	}
	sections := make([]*image.Section, len(img.Sections))
	copy(sections, img.Sections)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].StartAddress < sections[j].StartAddress
	})

	archive := zip.NewWriter(wr)
	var manifest strings.Builder
	for idx, sec := range sections {
		name := fmt.Sprintf(sectionFileName, idx)
		entry, err := archive.Create(name)
		if err != nil {
			return fmt.Errorf("create archive entry %s: %w", name, err)
		}
		if _, err := entry.Write(sec.Data); err != nil {
			return fmt.Errorf("write archive entry %s: %w", name, err)
		}
		fmt.Fprintf(&manifest, "%s\t%d\t%d\n", name, sec.StartAddress, sec.Length())
	}
	entry, err := archive.Create(manifestFileName)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if _, err := io.WriteString(entry, manifest.String()); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

// DumpString renders the archive in memory.
func (w *ZipWriter) DumpString(img *image.Image, rowLength int) (string, error) {
	var buf bytes.Buffer
	if err := w.Dump(&buf, img, rowLength); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ZipReader loads an archive written by ZipWriter, reassembling
// sections from the manifest.
type ZipReader struct{}

// NewZipReader creates a zipped binary reader.
func NewZipReader() *ZipReader {
	return &ZipReader{}
}

// Load reads the whole archive and rebuilds the image from its
// manifest.
func (r *ZipReader) Load(rd io.Reader) (*image.Image, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	entries := make(map[string][]byte, len(archive.File))
	for _, f := range archive.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read archive entry %s: %w", f.Name, err)
		}
		entries[f.Name] = content
	}

	manifest, ok := entries[manifestFileName]
	if !ok {
		return nil, fmt.Errorf("archive has no %s", manifestFileName)
	}
	var sections []*image.Section
	for i, line := range strings.Split(strings.TrimSpace(string(manifest)), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("manifest line %d: want 3 fields, got %d", i+1, len(fields))
		}
		address, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: invalid address %q", i+1, fields[1])
		}
		length, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: invalid length %q", i+1, fields[2])
		}
		content, ok := entries[fields[0]]
		if !ok {
			return nil, fmt.Errorf("manifest line %d: archive has no entry %s", i+1, fields[0])
		}
		if uint64(len(content)) != length {
			return nil, fmt.Errorf("entry %s: manifest declares %d bytes, archive has %d", fields[0], length, len(content))
		}
		sections = append(sections, image.NewSection(uint32(address), content))
	}
	return image.New(sections, image.Meta{}, false)
}

// LoadString parses in-memory data.
func (r *ZipReader) LoadString(text string) (*image.Image, error) {
	return r.Load(strings.NewReader(text))
}

// Probe reports whether data starts with the zip signature.
func (r *ZipReader) Probe(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}
