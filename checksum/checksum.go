// Package checksum implements the record checksum families used by the
// hex-file dialects: additive LRCs with optional complement, nibble
// sums, and bit-rotated XOR.
package checksum

// Complement selects the final transformation applied to an LRC sum.
type Complement int

const (
	ComplementNone Complement = iota
	ComplementOnes
	ComplementTwos
)

// LRC computes a longitudinal redundancy check over frame: the sum of
// all bytes modulo 2**width, optionally ones- or twos-complemented.
func LRC(frame []byte, width uint, comp Complement) uint32 {
	mask := uint32(1) << width
	var sum uint32
	for _, b := range frame {
		sum += uint32(b)
	}
	sum %= mask
	switch comp {
	case ComplementOnes:
		sum ^= mask - 1
	case ComplementTwos:
		sum = ((sum ^ (mask - 1)) + 1) % mask
	}
	return sum
}

// NibbleSum sums the high and low nibbles of every byte, modulo 256.
func NibbleSum(frame []byte) uint32 {
	var sum uint32
	for _, b := range frame {
		sum += uint32(b>>4) + uint32(b&0x0F)
	}
	return sum % 256
}

// RotateLeft rotates a byte left by one bit.
func RotateLeft(value byte) byte {
	return value<<1 | value>>7
}

// RotateRight rotates a byte right by one bit.
func RotateRight(value byte) byte {
	return value>>1 | value<<7
}

// RotatedXOR folds frame with XOR, rotating the accumulator after every
// byte, and reduces the result modulo 2**width.
func RotatedXOR(frame []byte, width uint, rotate func(byte) byte) uint32 {
	var cs byte
	for _, b := range frame {
		cs ^= b
		cs = rotate(cs)
	}
	return uint32(cs) % (1 << width)
}

// XOR folds frame with XOR, starting from 0xFF when invert is set.
func XOR(frame []byte, invert bool) byte {
	var cs byte
	if invert {
		cs = 0xFF
	}
	for _, b := range frame {
		cs ^= b
	}
	return cs
}

// IntBytes returns the minimal big-endian byte sequence for value, with
// a single zero byte for zero. Several dialect checksums are defined
// over this zero-stripped form rather than fixed-width address fields;
// order and count matter for the rotated and nibble families.
func IntBytes(value uint32) []byte {
	if value == 0 {
		return []byte{0}
	}
	var buf [4]byte
	i := 4
	for value != 0 {
		i--
		buf[i] = byte(value)
		value >>= 8
	}
	return buf[i:]
}

// Frame concatenates byte slices and single bytes into one checksum
// frame.
func Frame(parts ...any) []byte {
	var frame []byte
	for _, part := range parts {
		switch v := part.(type) {
		case byte:
			frame = append(frame, v)
		case int:
			frame = append(frame, byte(v))
		case []byte:
			frame = append(frame, v...)
		}
	}
	return frame
}
