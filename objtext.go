// Package objtext converts firmware images between hex/object file
// dialects. Every dialect is registered as a named codec; Load, Dump and
// Probe dispatch on the codec name or sniff it from the input.
package objtext

import (
	"fmt"
	"io"

	"objtext/codec/ash"
	"objtext/codec/binfile"
	"objtext/codec/cosmac"
	"objtext/codec/emon52"
	"objtext/codec/etek"
	"objtext/codec/fpc"
	"objtext/codec/ihex"
	"objtext/codec/mostec"
	"objtext/codec/rca"
	"objtext/codec/sig"
	"objtext/codec/srec"
	"objtext/codec/tek"
	"objtext/codec/titxt"
	"objtext/image"
)

// Loader parses dialect input into an image.
type Loader interface {
	Load(rd io.Reader) (*image.Image, error)
	LoadString(text string) (*image.Image, error)
}

// Prober reports whether input looks like the implementing dialect.
type Prober interface {
	Probe(data []byte) bool
}

// Dumper renders an image as dialect output.
type Dumper interface {
	Dump(wr io.Writer, img *image.Image, rowLength int) error
	DumpString(img *image.Image, rowLength int) (string, error)
}

// Codec is a registered dialect. Readers and writers are created per
// use; they carry no state across calls.
type Codec struct {
	Name        string
	Description string
	NewReader   func() Loader
	NewWriter   func() Dumper
}

// UnknownCodecError reports a codec name nothing is registered under.
type UnknownCodecError struct {
	Name string
}

func (e *UnknownCodecError) Error() string {
	return fmt.Sprintf("unknown codec %q", e.Name)
}

// codecs holds the registered dialects in probe order: specific
// grammars first, promiscuous ones (cosmac matches any hex text, raw
// binary matches nothing) last.
var codecs []Codec
var codecIndex = map[string]int{}

func register(c Codec) {
	if _, dup := codecIndex[c.Name]; dup {
		panic("objtext: duplicate codec " + c.Name)
	}
	codecIndex[c.Name] = len(codecs)
	codecs = append(codecs, c)
}

func init() {
	register(Codec{"srec", "Motorola S-Records", func() Loader { return srec.NewReader() }, func() Dumper { return srec.NewWriter(nil) }})
	register(Codec{"ihex", "Intel HEX", func() Loader { return ihex.NewReader() }, func() Dumper { return ihex.NewWriter() }})
	register(Codec{"tek", "Tektronix hex", func() Loader { return tek.NewReader() }, func() Dumper { return tek.NewWriter() }})
	register(Codec{"etek", "Extended Tektronix hex", func() Loader { return etek.NewReader() }, func() Dumper { return etek.NewWriter() }})
	register(Codec{"mostec", "MOS Technology", func() Loader { return mostec.NewReader() }, func() Dumper { return mostec.NewWriter() }})
	register(Codec{"emon52", "Elektor Monitor EMON52", func() Loader { return emon52.NewReader() }, func() Dumper { return emon52.NewWriter() }})
	register(Codec{"sig", "Signetics", func() Loader { return sig.NewReader() }, func() Dumper { return sig.NewWriter() }})
	register(Codec{"rca", "RCA COSMAC load format", func() Loader { return rca.NewReader() }, func() Dumper { return rca.NewWriter() }})
	register(Codec{"fpc", "Four-Packed-Code", func() Loader { return fpc.NewReader() }, func() Dumper { return fpc.NewWriter() }})
	register(Codec{"titxt", "TI-TXT", func() Loader { return titxt.NewReader() }, func() Dumper { return titxt.NewWriter() }})
	register(Codec{"ash", "ASCII space hex", func() Loader { return ash.NewReader() }, func() Dumper { return ash.NewWriter() }})
	register(Codec{"cosmac", "COSMAC monitor", func() Loader { return cosmac.NewReader() }, func() Dumper { return cosmac.NewWriter() }})
	register(Codec{"binzip", "zipped raw binary", func() Loader { return binfile.NewZipReader() }, func() Dumper { return binfile.NewZipWriter() }})
	register(Codec{"bin", "raw binary", func() Loader { return binfile.NewReader(0) }, func() Dumper { return binfile.NewWriter() }})
}

// Codecs lists the registered dialects.
func Codecs() []Codec {
	out := make([]Codec, len(codecs))
	copy(out, codecs)
	return out
}

// Get looks a codec up by name.
func Get(name string) (Codec, error) {
	idx, ok := codecIndex[name]
	if !ok {
		return Codec{}, &UnknownCodecError{Name: name}
	}
	return codecs[idx], nil
}

// Load parses rd with the named codec.
func Load(name string, rd io.Reader) (*image.Image, error) {
	c, err := Get(name)
	if err != nil {
		return nil, err
	}
	return c.NewReader().Load(rd)
}

// Loads parses in-memory text with the named codec.
func Loads(name, text string) (*image.Image, error) {
	c, err := Get(name)
	if err != nil {
		return nil, err
	}
	return c.NewReader().LoadString(text)
}

// Dump renders img to wr with the named codec.
func Dump(name string, wr io.Writer, img *image.Image, rowLength int) error {
	c, err := Get(name)
	if err != nil {
		return err
	}
	return c.NewWriter().Dump(wr, img, rowLength)
}

// Dumps renders img in memory with the named codec.
func Dumps(name string, img *image.Image, rowLength int) (string, error) {
	c, err := Get(name)
	if err != nil {
		return "", err
	}
	return c.NewWriter().DumpString(img, rowLength)
}

// Probe sniffs the dialect of data, returning the first codec whose
// reader claims it. It never fails; ok is false when nothing matches.
func Probe(data []byte) (name string, ok bool) {
	for _, c := range codecs {
		p, can := c.NewReader().(Prober)
		if !can {
			continue
		}
		if p.Probe(data) {
			return c.Name, true
		}
	}
	return "", false
}
