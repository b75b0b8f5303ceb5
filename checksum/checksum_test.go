package checksum

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLRC(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		width uint
		comp  Complement
		want  uint32
	}{
		{"plain sum mod 256", []byte{11, 22, 33, 44, 55, 66, 77, 88, 99}, 8, ComplementNone, 239},
		{"ones complement", []byte{0x13, 0x00, 0x00, 0x48, 0x65, 0x6C, 0x6C, 0x6F}, 8, ComplementOnes, 0xF8},
		{"twos complement", []byte{0x10, 0x01, 0x00, 0x00, 0x21, 0x46, 0x01, 0x36}, 8, ComplementTwos, 0x51},
		{"twos complement of zero sum", []byte{0x00}, 8, ComplementTwos, 0x00},
		{"16-bit plain", []byte{0xFF, 0xFF, 0x02}, 16, ComplementNone, 0x0200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LRC(tt.frame, tt.width, tt.comp); got != tt.want {
				t.Errorf("LRC() = 0x%X, want 0x%X", got, tt.want)
			}
		})
	}
}

func TestNibbleSum(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  uint32
	}{
		{"empty", nil, 0},
		{"single byte", []byte{0xAB}, 0xA + 0xB},
		{"wraps at 256", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x20}, (0x1E*9 + 2) % 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NibbleSum(tt.frame); got != tt.want {
				t.Errorf("NibbleSum() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRotate(t *testing.T) {
	if got := RotateLeft(0x80); got != 0x01 {
		t.Errorf("RotateLeft(0x80) = 0x%02X, want 0x01", got)
	}
	if got := RotateLeft(0x41); got != 0x82 {
		t.Errorf("RotateLeft(0x41) = 0x%02X, want 0x82", got)
	}
	if got := RotateRight(0x01); got != 0x80 {
		t.Errorf("RotateRight(0x01) = 0x%02X, want 0x80", got)
	}
	for v := 0; v < 256; v++ {
		b := byte(v)
		if RotateRight(RotateLeft(b)) != b {
			t.Fatalf("rotate round-trip failed for 0x%02X", b)
		}
	}
}

func TestRotatedXOR(t *testing.T) {
	// One byte: XOR then rotate once.
	if got := RotatedXOR([]byte{0x80}, 8, RotateLeft); got != 0x01 {
		t.Errorf("RotatedXOR() = 0x%02X, want 0x01", got)
	}
	// Order matters: swapping bytes changes the result.
	a := RotatedXOR([]byte{0x12, 0x34}, 8, RotateLeft)
	b := RotatedXOR([]byte{0x34, 0x12}, 8, RotateLeft)
	if a == b {
		t.Error("RotatedXOR should be order-sensitive")
	}
}

func TestIntBytes(t *testing.T) {
	tests := []struct {
		value uint32
		want  []byte
	}{
		{0, []byte{0}},
		{0x10, []byte{0x10}},
		{0x0100, []byte{0x01, 0x00}},
		{0x123456, []byte{0x12, 0x34, 0x56}},
		{0xDEADBEEF, []byte{0xDE, 0xAD, 0xBE, 0xEF}},
	}
	for _, tt := range tests {
		if got := IntBytes(tt.value); !cmp.Equal(tt.want, got) {
			t.Errorf("IntBytes(0x%X) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestFrame(t *testing.T) {
	got := Frame(byte(0x02), 4, []byte{0xAA, 0xBB})
	want := []byte{0x02, 0x04, 0xAA, 0xBB}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Frame() mismatch (-want +got):\n%s", diff)
	}
}
