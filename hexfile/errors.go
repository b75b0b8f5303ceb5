package hexfile

import "fmt"

// InvalidRecordLengthError reports a record whose declared byte count
// does not match the decoded data.
type InvalidRecordLengthError struct {
	Line int
	Want int
	Got  int
}

func (e *InvalidRecordLengthError) Error() string {
	return fmt.Sprintf("line %d: record declares %d data bytes, got %d", e.Line, e.Want, e.Got)
}

// InvalidRecordChecksumError reports a record checksum mismatch.
type InvalidRecordChecksumError struct {
	Line int
	Want uint32
	Got  uint32
}

func (e *InvalidRecordChecksumError) Error() string {
	return fmt.Sprintf("line %d: checksum mismatch (calculated 0x%02X, record has 0x%02X)", e.Line, e.Want, e.Got)
}

// InvalidRecordTypeError reports an unrecognized record-type code inside
// an otherwise known dialect.
type InvalidRecordTypeError struct {
	Line int
	Type int
}

func (e *InvalidRecordTypeError) Error() string {
	return fmt.Sprintf("line %d: invalid record type %d", e.Line, e.Type)
}

// AddressRangeTooLargeError reports an image whose highest end address
// does not fit the dialect's declared address width.
type AddressRangeTooLargeError struct {
	Bits int // bits required by the image
	Max  int // bits the dialect can encode
}

func (e *AddressRangeTooLargeError) Error() string {
	return fmt.Sprintf("image requires %d address bits, format encodes at most %d", e.Bits, e.Max)
}
