package objtext

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"objtext/image"
)

func TestProbe(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"srec", "S00600004844521B\nS108100048656C6C6FF3\nS9030000FC\n", "srec"},
		{"ihex", ":10010000214601360121470136007EFE09D2190140\n:00000001FF\n", "ihex"},
		{"tek", "/10000203202307\n/10020003\n", "tek"},
		{"etek", "%0E61B010001122\n", "etek"},
		{"mostec", ";0210000A0B0027\n;00\n", "mostec"},
		{"emon52", "02 1000:0A 0B 0015\n", "emon52"},
		{"rca", "0200 0A0B;\n:0000\n", "rca"},
		{"fpc", "$rQG8x%%%%%%ASD0\n$%%%%%\n", "fpc"},
		{"titxt", "@1000\n31 32 33\nq\n", "titxt"},
		{"ash", "\x02 \n$A1000,\n31 32 33\n\x03$$0096,\n", "ash"},
		{"cosmac", "!M0100 0A0B\n", "cosmac"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Probe([]byte(tt.data))
			if !ok {
				t.Fatalf("Probe() found no codec, want %q", tt.want)
			}
			if got != tt.want {
				t.Errorf("Probe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProbeUnknown(t *testing.T) {
	if name, ok := Probe([]byte{0x7F, 'E', 'L', 'F', 0x02, 0x01}); ok {
		t.Errorf("Probe() = %q for unstructured binary, want no match", name)
	}
}

func TestGetUnknownCodec(t *testing.T) {
	_, err := Get("nosuch")
	var uerr *UnknownCodecError
	if !errors.As(err, &uerr) {
		t.Fatalf("Get() error = %v, want UnknownCodecError", err)
	}
	if uerr.Name != "nosuch" {
		t.Errorf("unknown codec name = %q, want %q", uerr.Name, "nosuch")
	}
}

func TestConvertBetweenDialects(t *testing.T) {
	img, err := Loads("srec", "S108100048656C6C6FF3\nS9030000FC\n")
	if err != nil {
		t.Fatalf("Loads(srec) error = %v", err)
	}
	text, err := Dumps("ihex", img, 16)
	if err != nil {
		t.Fatalf("Dumps(ihex) error = %v", err)
	}
	back, err := Loads("ihex", text)
	if err != nil {
		t.Fatalf("Loads(ihex) error = %v", err)
	}
	if diff := cmp.Diff(img.Sections, back.Sections); diff != "" {
		t.Errorf("sections mismatch after conversion (-want +got):\n%s", diff)
	}
}

func TestRoundTripAllTextCodecs(t *testing.T) {
	img := &image.Image{
		Sections: []*image.Section{
			image.NewSection(0x1000, []byte("Hello, world")),
			image.NewSection(0x2000, []byte{0xDE, 0xAD, 0xBE, 0xEF}),
		},
		Meta:  image.Meta{},
		Valid: true,
	}
	for _, codec := range Codecs() {
		if codec.Name == "bin" {
			// Raw binary cannot represent the gap without fill bytes.
			continue
		}
		t.Run(codec.Name, func(t *testing.T) {
			text, err := Dumps(codec.Name, img, 8)
			if err != nil {
				t.Fatalf("Dumps() error = %v", err)
			}
			back, err := Loads(codec.Name, text)
			if err != nil {
				t.Fatalf("Loads() error = %v", err)
			}
			if diff := cmp.Diff(img.Sections, back.Sections); diff != "" {
				t.Errorf("sections mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadReader(t *testing.T) {
	img, err := Load("srec", strings.NewReader("S108100048656C6C6FF3\nS9030000FC\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Len() != 5 {
		t.Errorf("image length = %d, want 5", img.Len())
	}
}
